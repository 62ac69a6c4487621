package schema

// View is the root of a screen layout tree. Pages (the New and Confirm
// harnesses) share the same shape and are decoded into a View as well.
type View struct {
	ViewID             string  `json:"viewID,omitempty" yaml:"viewID,omitempty"`
	Name               string  `json:"name,omitempty" yaml:"name,omitempty"`
	Reference          string  `json:"reference,omitempty" yaml:"reference,omitempty"`
	AppliesTo          string  `json:"appliesTo,omitempty" yaml:"appliesTo,omitempty"`
	Visible            *bool   `json:"visible,omitempty" yaml:"visible,omitempty"`
	ValidationMessages string  `json:"validationMessages,omitempty" yaml:"validationMessages,omitempty"`
	Groups             []Group `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Group wraps exactly one child node. When a payload populates more than one
// member, Kind reports the first in precedence order.
type Group struct {
	View      *View      `json:"view,omitempty" yaml:"view,omitempty"`
	Layout    *Layout    `json:"layout,omitempty" yaml:"layout,omitempty"`
	Paragraph *Paragraph `json:"paragraph,omitempty" yaml:"paragraph,omitempty"`
	Caption   *Caption   `json:"caption,omitempty" yaml:"caption,omitempty"`
	Field     *Field     `json:"field,omitempty" yaml:"field,omitempty"`
}

// GroupKind names the populated member of a Group.
type GroupKind string

const (
	GroupKindView      GroupKind = "view"
	GroupKindLayout    GroupKind = "layout"
	GroupKindParagraph GroupKind = "paragraph"
	GroupKindCaption   GroupKind = "caption"
	GroupKindField     GroupKind = "field"
	GroupKindEmpty     GroupKind = ""
)

// Kind returns the member that wins dispatch: view, layout, paragraph,
// caption, then field.
func (g Group) Kind() GroupKind {
	switch {
	case g.View != nil:
		return GroupKindView
	case g.Layout != nil:
		return GroupKindLayout
	case g.Paragraph != nil:
		return GroupKindParagraph
	case g.Caption != nil:
		return GroupKindCaption
	case g.Field != nil:
		return GroupKindField
	default:
		return GroupKindEmpty
	}
}

// Members counts populated members; well-formed groups report 1.
func (g Group) Members() int {
	n := 0
	for _, set := range []bool{g.View != nil, g.Layout != nil, g.Paragraph != nil, g.Caption != nil, g.Field != nil} {
		if set {
			n++
		}
	}
	return n
}

// Layout arranges child groups. Repeating grids also carry a header, a
// reference to the backing collection and its reference type.
type Layout struct {
	GroupFormat     string  `json:"groupFormat,omitempty" yaml:"groupFormat,omitempty"`
	Title           string  `json:"title,omitempty" yaml:"title,omitempty"`
	ContainerFormat string  `json:"containerFormat,omitempty" yaml:"containerFormat,omitempty"`
	Visible         *bool   `json:"visible,omitempty" yaml:"visible,omitempty"`
	Groups          []Group `json:"groups,omitempty" yaml:"groups,omitempty"`
	Rows            []Row   `json:"rows,omitempty" yaml:"rows,omitempty"`
	View            *View   `json:"view,omitempty" yaml:"view,omitempty"`
	Header          *Row    `json:"header,omitempty" yaml:"header,omitempty"`
	Reference       string  `json:"reference,omitempty" yaml:"reference,omitempty"`
	ReferenceType   string  `json:"referenceType,omitempty" yaml:"referenceType,omitempty"`
	Repeat          bool    `json:"repeat,omitempty" yaml:"repeat,omitempty"`
}

// Row is an ordered list of groups inside a grid or dynamic layout.
type Row struct {
	Groups []Group `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Paragraph carries rich text authored on the server.
type Paragraph struct {
	ParagraphID string `json:"paragraphID,omitempty" yaml:"paragraphID,omitempty"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
	Visible     *bool  `json:"visible,omitempty" yaml:"visible,omitempty"`
}

// Caption is a static label, optionally bound to a field id.
type Caption struct {
	Value      string `json:"value,omitempty" yaml:"value,omitempty"`
	CaptionFor string `json:"for,omitempty" yaml:"for,omitempty"`
	Visible    *bool  `json:"visible,omitempty" yaml:"visible,omitempty"`
}

// Field is a single bound property with its control definition.
type Field struct {
	FieldID            string  `json:"fieldID,omitempty" yaml:"fieldID,omitempty"`
	Name               string  `json:"name,omitempty" yaml:"name,omitempty"`
	Reference          string  `json:"reference,omitempty" yaml:"reference,omitempty"`
	Value              any     `json:"value,omitempty" yaml:"value,omitempty"`
	Label              string  `json:"label,omitempty" yaml:"label,omitempty"`
	Type               string  `json:"type,omitempty" yaml:"type,omitempty"`
	MaxLength          int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Control            Control `json:"control" yaml:"control"`
	Required           bool    `json:"required,omitempty" yaml:"required,omitempty"`
	ReadOnly           bool    `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Disabled           bool    `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Visible            *bool   `json:"visible,omitempty" yaml:"visible,omitempty"`
	ShowLabel          bool    `json:"showLabel,omitempty" yaml:"showLabel,omitempty"`
	LabelReserveSpace  bool    `json:"labelReserveSpace,omitempty" yaml:"labelReserveSpace,omitempty"`
	ValidationMessages string  `json:"validationMessages,omitempty" yaml:"validationMessages,omitempty"`
	TestID             string  `json:"testID,omitempty" yaml:"testID,omitempty"`
}

// Mode returns the mode at index i, or a zero Mode when absent.
func (f *Field) Mode(i int) Mode {
	if f == nil || i < 0 || i >= len(f.Control.Modes) {
		return Mode{}
	}
	return f.Control.Modes[i]
}

// Control describes how a field is presented and which actions it fires.
type Control struct {
	Type       string      `json:"type,omitempty" yaml:"type,omitempty"`
	Label      Token       `json:"label,omitempty" yaml:"label,omitempty"`
	Modes      []Mode      `json:"modes,omitempty" yaml:"modes,omitempty"`
	ActionSets []ActionSet `json:"actionSets,omitempty" yaml:"actionSets,omitempty"`
}

// Mode holds control type specific settings. Mode 0 configures editing and
// mode 1 configures read-only display for most controls.
type Mode struct {
	ModeType string `json:"modeType,omitempty" yaml:"modeType,omitempty"`

	Options         []Option `json:"options,omitempty" yaml:"options,omitempty"`
	ListSource      string   `json:"listSource,omitempty" yaml:"listSource,omitempty"`
	DataPageID      string   `json:"dataPageID,omitempty" yaml:"dataPageID,omitempty"`
	DataPageValue   string   `json:"dataPageValue,omitempty" yaml:"dataPageValue,omitempty"`
	DataPagePrompt  string   `json:"dataPagePrompt,omitempty" yaml:"dataPagePrompt,omitempty"`
	DataPageParams  []Param  `json:"dataPageParams,omitempty" yaml:"dataPageParams,omitempty"`
	ClipboardPageID string   `json:"clipboardPageID,omitempty" yaml:"clipboardPageID,omitempty"`
	ClipboardValue  string   `json:"clipboardPageValue,omitempty" yaml:"clipboardPageValue,omitempty"`
	ClipboardPrompt string   `json:"clipboardPagePrompt,omitempty" yaml:"clipboardPagePrompt,omitempty"`

	Placeholder     Token  `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Tooltip         string `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	CaptionPosition string `json:"captionPosition,omitempty" yaml:"captionPosition,omitempty"`
	ControlFormat   string `json:"controlFormat,omitempty" yaml:"controlFormat,omitempty"`

	FormatType     string `json:"formatType,omitempty" yaml:"formatType,omitempty"`
	DateFormat     string `json:"dateFormat,omitempty" yaml:"dateFormat,omitempty"`
	DateTimeFormat string `json:"dateTimeFormat,omitempty" yaml:"dateTimeFormat,omitempty"`
	DecimalPlaces  Token  `json:"decimalPlaces,omitempty" yaml:"decimalPlaces,omitempty"`
	NumberSymbol   string `json:"numberSymbol,omitempty" yaml:"numberSymbol,omitempty"`
	CurrencySymbol string `json:"currencySymbol,omitempty" yaml:"currencySymbol,omitempty"`
	AutoPrepend    string `json:"autoPrepend,omitempty" yaml:"autoPrepend,omitempty"`
	AutoAppend     string `json:"autoAppend,omitempty" yaml:"autoAppend,omitempty"`
	TrueLabel      string `json:"trueLabel,omitempty" yaml:"trueLabel,omitempty"`
	FalseLabel     string `json:"falseLabel,omitempty" yaml:"falseLabel,omitempty"`

	LinkData          Token  `json:"linkData,omitempty" yaml:"linkData,omitempty"`
	LinkImage         string `json:"linkImage,omitempty" yaml:"linkImage,omitempty"`
	LinkImagePosition string `json:"linkImagePosition,omitempty" yaml:"linkImagePosition,omitempty"`
	LinkStyle         string `json:"linkStyle,omitempty" yaml:"linkStyle,omitempty"`

	IconSource   string `json:"iconSource,omitempty" yaml:"iconSource,omitempty"`
	IconStandard string `json:"iconStandard,omitempty" yaml:"iconStandard,omitempty"`
	IconImage    string `json:"iconImage,omitempty" yaml:"iconImage,omitempty"`
	IconURL      string `json:"iconUrl,omitempty" yaml:"iconUrl,omitempty"`
	IconProperty Token  `json:"iconProperty,omitempty" yaml:"iconProperty,omitempty"`
	IconStyle    string `json:"iconStyle,omitempty" yaml:"iconStyle,omitempty"`
}

// Option is a static key/value entry for dropdowns and radio buttons.
type Option struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Param is a named data page parameter.
type Param struct {
	Name  string `json:"name" yaml:"name"`
	Value Token  `json:"value,omitempty" yaml:"value,omitempty"`
}

// ActionSet pairs the events that fire it with the actions it runs.
type ActionSet struct {
	Events  []Event  `json:"events,omitempty" yaml:"events,omitempty"`
	Actions []Action `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// Event names a UI trigger such as change, click or blur.
type Event struct {
	Event string `json:"event" yaml:"event"`
}

// Action is a single declared behaviour. RefreshFor is set when the server
// asks for a refresh on behalf of another field.
type Action struct {
	Action        string         `json:"action" yaml:"action"`
	ActionProcess *ActionProcess `json:"actionProcess,omitempty" yaml:"actionProcess,omitempty"`
	RefreshFor    string         `json:"refreshFor,omitempty" yaml:"refreshFor,omitempty"`
}

// ActionProcess carries the tag specific payload of an Action.
type ActionProcess struct {
	SetValuePairs      []ValuePair      `json:"setValuePairs,omitempty" yaml:"setValuePairs,omitempty"`
	ActionName         string           `json:"actionName,omitempty" yaml:"actionName,omitempty"`
	FunctionName       string           `json:"functionName,omitempty" yaml:"functionName,omitempty"`
	FunctionParameters []ValuePair      `json:"functionParameters,omitempty" yaml:"functionParameters,omitempty"`
	AlternateDomain    *AlternateDomain `json:"alternateDomain,omitempty" yaml:"alternateDomain,omitempty"`
	QueryParams        []ValuePair      `json:"queryParams,omitempty" yaml:"queryParams,omitempty"`
	WindowName         string           `json:"windowName,omitempty" yaml:"windowName,omitempty"`
	WindowOptions      string           `json:"windowOptions,omitempty" yaml:"windowOptions,omitempty"`
}

// ValuePair is a name bound to either a token or a value reference.
type ValuePair struct {
	Name           string          `json:"name,omitempty" yaml:"name,omitempty"`
	Value          Token           `json:"value,omitempty" yaml:"value,omitempty"`
	ValueReference *ValueReference `json:"valueReference,omitempty" yaml:"valueReference,omitempty"`
}

// ValueReference points at a property and carries the value it held when
// the screen was last saved.
type ValueReference struct {
	Reference      string `json:"reference,omitempty" yaml:"reference,omitempty"`
	LastSavedValue string `json:"lastSavedValue,omitempty" yaml:"lastSavedValue,omitempty"`
}

// AlternateDomain locates the target of an openUrlInWindow action.
type AlternateDomain struct {
	URL          string          `json:"url,omitempty" yaml:"url,omitempty"`
	URLReference *ValueReference `json:"urlReference,omitempty" yaml:"urlReference,omitempty"`
}

// Hidden reports whether a tri-state visibility flag is explicitly false.
func Hidden(visible *bool) bool {
	return visible != nil && !*visible
}

// Bool returns a pointer to b, for building trees in code.
func Bool(b bool) *bool {
	return &b
}

// Walk calls fn for every field reachable from view in document order,
// including grid headers and rows. Returning false stops the walk.
func Walk(view *View, fn func(*Field) bool) {
	walkView(view, fn)
}

func walkView(view *View, fn func(*Field) bool) bool {
	if view == nil {
		return true
	}
	return walkGroups(view.Groups, fn)
}

func walkGroups(groups []Group, fn func(*Field) bool) bool {
	for _, g := range groups {
		var cont bool
		switch g.Kind() {
		case GroupKindView:
			cont = walkView(g.View, fn)
		case GroupKindLayout:
			cont = walkLayout(g.Layout, fn)
		case GroupKindField:
			cont = fn(g.Field)
		default:
			cont = true
		}
		if !cont {
			return false
		}
	}
	return true
}

func walkLayout(layout *Layout, fn func(*Field) bool) bool {
	if layout == nil {
		return true
	}
	if layout.Header != nil && !walkGroups(layout.Header.Groups, fn) {
		return false
	}
	if !walkGroups(layout.Groups, fn) {
		return false
	}
	for _, row := range layout.Rows {
		if !walkGroups(row.Groups, fn) {
			return false
		}
	}
	return walkView(layout.View, fn)
}

// RepeatReferences lists the collection references of every repeating grid
// reachable from view, outermost first.
func RepeatReferences(view *View) []string {
	var refs []string
	var visitView func(*View)
	var visitGroups func([]Group)
	visitLayout := func(layout *Layout) {
		if layout == nil {
			return
		}
		if layout.Reference != "" && (layout.GroupFormat == FormatGrid || layout.Repeat) {
			refs = append(refs, layout.Reference)
		}
		visitGroups(layout.Groups)
		for _, row := range layout.Rows {
			visitGroups(row.Groups)
		}
		visitView(layout.View)
	}
	visitGroups = func(groups []Group) {
		for _, g := range groups {
			switch g.Kind() {
			case GroupKindView:
				visitView(g.View)
			case GroupKindLayout:
				visitLayout(g.Layout)
			}
		}
	}
	visitView = func(v *View) {
		if v != nil {
			visitGroups(v.Groups)
		}
	}
	visitView(view)
	return refs
}

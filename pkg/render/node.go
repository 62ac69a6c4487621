package render

import (
	"time"

	"github.com/goliatone/go-caseform/pkg/actions"
	"github.com/goliatone/go-caseform/pkg/schema"
)

// NodeKind tags the variant a Node describes.
type NodeKind string

const (
	NodeView        NodeKind = "view"
	NodeLayout      NodeKind = "layout"
	NodeGrid        NodeKind = "grid"
	NodeParagraph   NodeKind = "paragraph"
	NodeCaption     NodeKind = "caption"
	NodeField       NodeKind = "field"
	NodeUnsupported NodeKind = "unsupported"
)

// Arrangement is the child placement policy of a layout.
type Arrangement string

const (
	ArrangeColumns Arrangement = "columns"
	ArrangeStacked Arrangement = "stacked"
	ArrangeGrid    Arrangement = "grid"
	ArrangeDynamic Arrangement = "dynamic"
	ArrangeInline  Arrangement = "inline"
	ArrangeFlat    Arrangement = "flat"
	ArrangeView    Arrangement = "view"
)

// Node is the evaluated description of one visible schema node.
type Node struct {
	Kind NodeKind `json:"kind"`
	ID   string   `json:"id,omitempty"`
	Name string   `json:"name,omitempty"`

	// Layout presentation. Widths holds one 16-column width per child when
	// the arrangement fixes them.
	Title       string      `json:"title,omitempty"`
	GroupFormat string      `json:"groupFormat,omitempty"`
	Arrangement Arrangement `json:"arrangement,omitempty"`
	Columns     int         `json:"columns,omitempty"`
	Widths      []int       `json:"widths,omitempty"`
	Class       string      `json:"class,omitempty"`

	// Text is plain text; HTML is sanitised authored markup.
	Text string `json:"text,omitempty"`
	HTML string `json:"html,omitempty"`

	Field    *FieldState `json:"field,omitempty"`
	Grid     *GridState  `json:"grid,omitempty"`
	Children []Node      `json:"children,omitempty"`

	Diagnostic string `json:"diagnostic,omitempty"`
}

// GridState describes a repeating PageList or PageGroup.
type GridState struct {
	Reference     string   `json:"reference"`
	ReferenceType string   `json:"referenceType"`
	Header        []Node   `json:"header,omitempty"`
	Rows          [][]Node `json:"rows,omitempty"`
	// FooterSpan is the column span of the Add/Delete action row.
	FooterSpan int  `json:"footerSpan"`
	Loading    bool `json:"loading,omitempty"`
	CanDelete  bool `json:"canDelete"`
}

// Button formats.
const (
	ButtonPrimary = "primary"
	ButtonBasic   = "basic"
	ButtonRed     = "red"
)

// Link formats.
const (
	LinkBolder  = "bolder"
	LinkLighter = "lighter"
	LinkRed     = "red"
)

// Input types for text-like controls.
const (
	InputText   = "text"
	InputEmail  = "email"
	InputTel    = "tel"
	InputURL    = "url"
	InputNumber = "number"
)

// Phone input constraints.
const (
	PhonePattern     = "[0-9]{3}-[0-9]{3}-[0-9]{4}"
	PhonePlaceholder = "123-456-7890"
)

// FieldState is the evaluated control for a field. Which members are set
// depends on the control type.
type FieldState struct {
	FieldID   string `json:"fieldID,omitempty"`
	Name      string `json:"name,omitempty"`
	Reference string `json:"reference,omitempty"`
	TestID    string `json:"testID,omitempty"`
	FieldType string `json:"fieldType"`

	// Label is empty when no label is shown and a single space when the
	// label slot is reserved.
	Label        string `json:"label,omitempty"`
	ControlLabel string `json:"controlLabel,omitempty"`

	Value          any    `json:"value"`
	FormattedValue string `json:"formattedValue"`
	// ServerValue is the field value last sent by the server.
	ServerValue any `json:"serverValue,omitempty"`

	Required     bool   `json:"required,omitempty"`
	ReadOnly     bool   `json:"readOnly,omitempty"`
	Disabled     bool   `json:"disabled,omitempty"`
	Error        bool   `json:"error,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`

	InputType       string          `json:"inputType,omitempty"`
	Pattern         string          `json:"pattern,omitempty"`
	Placeholder     string          `json:"placeholder,omitempty"`
	MaxLength       int             `json:"maxLength,omitempty"`
	Tooltip         string          `json:"tooltip,omitempty"`
	Checked         bool            `json:"checked,omitempty"`
	CaptionPosition string          `json:"captionPosition,omitempty"`
	Options         []schema.Option `json:"options,omitempty"`
	// ListSource is set for autocompletes; Mode carries the source details
	// a renderer needs to drive a search.
	ListSource string `json:"listSource,omitempty"`

	Date *time.Time `json:"date,omitempty"`
	// StoreDateTime reports whether picked dates are stored with a time
	// suffix.
	StoreDateTime bool `json:"storeDateTime,omitempty"`

	// Href is the read-only link target (mailto:, tel:, http) or the link
	// control's destination.
	Href         string `json:"href,omitempty"`
	ButtonFormat string `json:"buttonFormat,omitempty"`
	LinkFormat   string `json:"linkFormat,omitempty"`
	LinkIcon     string `json:"linkIcon,omitempty"`
	LinkImage    string `json:"linkImage,omitempty"`
	LinkPosition string `json:"linkPosition,omitempty"`
	Icon         *Icon  `json:"icon,omitempty"`
	ShowLabel    bool   `json:"showLabel,omitempty"`
	FiresOnClick bool   `json:"firesOnClick,omitempty"`

	Mode    schema.Mode     `json:"-"`
	Handler actions.Handler `json:"-"`
}

// HasHandler reports whether the field has actions to run.
func (f *FieldState) HasHandler() bool {
	return f != nil && !f.Handler.Empty()
}

// Icon describes an icon control.
type Icon struct {
	Source string `json:"source"`
	// Name is a symbolic icon name for standard and style class icons.
	Name string `json:"name,omitempty"`
	// URL is the image location for image, external and property icons.
	URL string `json:"url,omitempty"`
	Alt string `json:"alt"`
}

// Selection is the value stored when opt is picked: dropdowns store the
// option text while radio buttons and autocompletes store the key.
func (f *FieldState) Selection(opt schema.Option) string {
	if f.FieldType == schema.ControlDropdown {
		return opt.Value
	}
	return opt.Key
}

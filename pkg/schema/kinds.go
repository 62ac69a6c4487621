package schema

// Control types.
const (
	ControlCheckbox     = "pxCheckbox"
	ControlRadioButtons = "pxRadioButtons"
	ControlAutoComplete = "pxAutoComplete"
	ControlDropdown     = "pxDropdown"
	ControlEmail        = "pxEmail"
	ControlPhone        = "pxPhone"
	ControlInteger      = "pxInteger"
	ControlURL          = "pxURL"
	ControlCurrency     = "pxCurrency"
	ControlTextInput    = "pxTextInput"
	ControlTextArea     = "pxTextArea"
	ControlDisplayText  = "pxDisplayText"
	ControlDateTime     = "pxDateTime"
	ControlButton       = "pxButton"
	ControlLabel        = "label"
	ControlLink         = "pxLink"
	ControlIcon         = "pxIcon"
	ControlHidden       = "pxHidden"
	ControlSubscript    = "pxSubscript"
)

// ControlTypes lists every control type the interpreter understands.
var ControlTypes = []string{
	ControlCheckbox, ControlRadioButtons, ControlAutoComplete, ControlDropdown,
	ControlEmail, ControlPhone, ControlInteger, ControlURL, ControlCurrency,
	ControlTextInput, ControlTextArea, ControlDisplayText, ControlDateTime,
	ControlButton, ControlLabel, ControlLink, ControlIcon, ControlHidden,
	ControlSubscript,
}

// Layout group formats.
const (
	FormatInlineDouble = "Inline grid double"
	FormatInlineTriple = "Inline grid triple"
	FormatInline7030   = "Inline grid 70 30"
	FormatInline3070   = "Inline grid 30 70"
	FormatStacked      = "Stacked"
	FormatGrid         = "Grid"
	FormatDynamic      = "Dynamic"
	FormatInlineMiddle = "Inline middle"
	FormatDefault      = "Default"
)

// GroupFormats lists the layout formats with a dedicated arrangement.
var GroupFormats = []string{
	FormatInlineDouble, FormatInlineTriple, FormatInline7030, FormatInline3070,
	FormatStacked, FormatGrid, FormatDynamic, FormatInlineMiddle, FormatDefault,
}

// Action tags.
const (
	ActionSetValue      = "setValue"
	ActionPostValue     = "postValue"
	ActionRefresh       = "refresh"
	ActionPerformAction = "takeAction"
	ActionRunScript     = "runScript"
	ActionOpenURL       = "openUrlInWindow"
)

// Accepted spellings that map onto the canonical action tags above.
var actionAliases = map[string]string{
	"openURL":       ActionOpenURL,
	"openUrl":       ActionOpenURL,
	"performAction": ActionPerformAction,
}

// CanonicalAction maps alias spellings onto canonical action tags.
func CanonicalAction(tag string) string {
	if canonical, ok := actionAliases[tag]; ok {
		return canonical
	}
	return tag
}

// Events.
const (
	EventChange = "change"
	EventClick  = "click"
	EventBlur   = "blur"
)

// Repeating structure reference types.
const (
	ReferencePageList  = "PageList"
	ReferencePageGroup = "PageGroup"
)

// NormalizeReferenceType folds the short List and Group spellings.
func NormalizeReferenceType(kind string) string {
	switch kind {
	case "List", ReferencePageList:
		return ReferencePageList
	case "Group", ReferencePageGroup:
		return ReferencePageGroup
	default:
		return kind
	}
}

// Option list sources.
const (
	SourceLocalList = "locallist"
	SourceDataPage  = "datapage"
	SourcePageList  = "pageList"
)

// Icon sources.
const (
	IconStandard   = "standardIcon"
	IconImage      = "image"
	IconExternal   = "exturl"
	IconProperty   = "property"
	IconStyleClass = "styleclass"
)

// Harness names used for pages.
const (
	PageNew     = "New"
	PageConfirm = "Confirm"
)

// Container formats that select a semantic style.
const (
	ContainerWarnings = "WARNINGS"
	ContainerError    = "ERROR"
)

// Property types.
const (
	PropertyDateTime = "Date Time"
	PropertyDate     = "Date"
)

package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassBlock        ChromeClass = "formblock"
	ClassGrid         ChromeClass = "formblock-grid"
	ClassCell         ChromeClass = "formblock-cell"
	ClassIntro        ChromeClass = "formblock-intro"
	ClassConfirmation ChromeClass = "formblock-confirmation"
	ClassLoading      ChromeClass = "formblock-loading"
	ClassError        ChromeClass = "formblock-error"
	ClassForm         ChromeClass = "formblock-form"
	ClassFields       ChromeClass = "formblock-fields"
	ClassField        ChromeClass = "formblock-field"
	ClassLabel        ChromeClass = "formblock-label"
	ClassFieldError   ChromeClass = "formblock-field-error"
	ClassSubmit       ChromeClass = "formblock-submit"
)

// Classes holds the class list applied to each chrome element. Empty
// entries fall back to the ChromeClass defaults.
type Classes struct {
	Block        string `json:"block"`
	Grid         string `json:"grid"`
	Cell         string `json:"cell"`
	Intro        string `json:"intro"`
	Confirmation string `json:"confirmation"`
	Loading      string `json:"loading"`
	Error        string `json:"error"`
	Form         string `json:"form"`
	Fields       string `json:"fields"`
	Field        string `json:"field"`
	Label        string `json:"label"`
	FieldError   string `json:"fieldError"`
	Submit       string `json:"submit"`
}

// DefaultClasses returns the built-in class names.
func DefaultClasses() Classes {
	return Classes{
		Block:        string(ClassBlock),
		Grid:         string(ClassGrid),
		Cell:         string(ClassCell),
		Intro:        string(ClassIntro),
		Confirmation: string(ClassConfirmation),
		Loading:      string(ClassLoading),
		Error:        string(ClassError),
		Form:         string(ClassForm),
		Fields:       string(ClassFields),
		Field:        string(ClassField),
		Label:        string(ClassLabel),
		FieldError:   string(ClassFieldError),
		Submit:       string(ClassSubmit),
	}
}

func (c Classes) withDefaults() Classes {
	d := DefaultClasses()
	pick := func(value, fallback string) string {
		if cleaned := sanitizeClassList(value); cleaned != "" {
			return cleaned
		}
		return fallback
	}
	return Classes{
		Block:        pick(c.Block, d.Block),
		Grid:         pick(c.Grid, d.Grid),
		Cell:         pick(c.Cell, d.Cell),
		Intro:        pick(c.Intro, d.Intro),
		Confirmation: pick(c.Confirmation, d.Confirmation),
		Loading:      pick(c.Loading, d.Loading),
		Error:        pick(c.Error, d.Error),
		Form:         pick(c.Form, d.Form),
		Fields:       pick(c.Fields, d.Fields),
		Field:        pick(c.Field, d.Field),
		Label:        pick(c.Label, d.Label),
		FieldError:   pick(c.FieldError, d.FieldError),
		Submit:       pick(c.Submit, d.Submit),
	}
}

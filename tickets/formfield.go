package tickets

type FieldType string

const (
	FIELD_TEXT     FieldType = "text"
	FIELD_EMAIL    FieldType = "email"
	FIELD_TEL      FieldType = "tel"
	FIELD_NUMBER   FieldType = "number"
	FIELD_TEXTAREA FieldType = "textarea"
	FIELD_SELECT   FieldType = "select"
	FIELD_CHECKBOX FieldType = "checkbox"
)

type FormField struct {
	ID          string
	Label       string
	Type        FieldType
	Required    bool
	Options     []string
	Placeholder *string
}

// IsAnswered reports whether value counts as a filled-in answer for the
// field. Empty strings and unchecked checkboxes do not count.
func (f FormField) IsAnswered(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	default:
		return true
	}
}

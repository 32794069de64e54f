package scanner

// Field is a canonical attendee field shown after a scan.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldEmail     Field = "email"
	FieldPhone     Field = "phone"
	FieldTimestamp Field = "timestamp"
)

// Fields is the display order.
var Fields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldTimestamp}

// Aliases maps each canonical field to the payload keys accepted for it, in priority order.
var Aliases = map[Field][]string{
	FieldFirstName: {"firstName", "first_name"},
	FieldLastName:  {"lastName", "last_name"},
	FieldEmail:     {"email"},
	FieldPhone:     {"phone", "phoneNumber", "phone_number"},
	FieldTimestamp: {"timestamp"},
}

// resolve returns the first alias of f present in obj as a string.
func resolve(obj map[string]any, f Field) (string, bool) {
	for _, key := range Aliases[f] {
		v, ok := obj[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return s, true
		}
		return stringify(v), true
	}
	return "", false
}

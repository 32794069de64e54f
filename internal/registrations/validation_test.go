package registrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Valid(t *testing.T) {
	assert.Nil(t, Validate(jane()))
}

func TestValidate_Messages(t *testing.T) {
	errs := Validate(Input{FirstName: "J", LastName: "", Email: "nope", Phone: "123"})
	assert.Equal(t, map[string][]string{
		"firstName": {"First name must be at least 2 characters"},
		"lastName":  {"Last name is required"},
		"email":     {"Please enter a valid email address"},
		"phone":     {"Please enter a valid phone number"},
	}, errs)
}

func TestValidate_MaxLengths(t *testing.T) {
	in := jane()
	in.FirstName = strings.Repeat("a", 101)
	in.Phone = strings.Repeat("5", 21)
	errs := Validate(in)
	assert.Equal(t, []string{"First name must be at most 100 characters"}, errs["firstName"])
	assert.Equal(t, []string{"Phone number must be at most 20 characters"}, errs["phone"])
	assert.Len(t, errs, 2)
}

func TestNormalize(t *testing.T) {
	got := Normalize(Input{FirstName: " Ann ", LastName: "\tLee", Email: " Ann@Example.COM", Phone: "555 123 4567 "})
	assert.Equal(t, Input{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Phone: "555 123 4567"}, got)
}

func TestValidate_WhitespaceOnlyIsRequired(t *testing.T) {
	errs := Validate(Normalize(Input{FirstName: "   ", LastName: "Doe", Email: "a@b.co", Phone: "5551234567"}))
	assert.Equal(t, []string{"First name is required"}, errs["firstName"])
}

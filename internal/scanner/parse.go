// Package scanner turns a decoded attendee code into a display record.
package scanner

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Display is what door staff see for one scan.
type Display struct {
	Recognized bool             `json:"recognized"`
	Values     map[Field]string `json:"values,omitempty"`
	Raw        string           `json:"raw"`
	ScannedAt  time.Time        `json:"scannedAt"`
}

// Get returns the value for f, or "".
func (d Display) Get(f Field) string { return d.Values[f] }

// Parse maps a decoded payload onto the canonical fields. Text that is not a
// JSON object, or has no first-name key, is shown raw with the scan time.
func Parse(raw string, now time.Time) Display {
	d := Display{Raw: raw, ScannedAt: now}
	var obj map[string]any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return d
	}
	if _, ok := resolve(obj, FieldFirstName); !ok {
		return d
	}
	d.Recognized = true
	d.Values = make(map[Field]string, len(Fields))
	for _, f := range Fields {
		if v, ok := resolve(obj, f); ok {
			d.Values[f] = v
		}
	}
	return d
}

var labels = map[Field]string{
	FieldFirstName: "First name",
	FieldLastName:  "Last name",
	FieldEmail:     "Email",
	FieldPhone:     "Phone",
	FieldTimestamp: "Generated",
}

// Text renders d as aligned "label: value" lines.
func (d Display) Text() string {
	var b strings.Builder
	if !d.Recognized {
		fmt.Fprintf(&b, "%-11s %s\n", "Raw:", d.Raw)
		fmt.Fprintf(&b, "%-11s %s\n", "Scanned:", d.ScannedAt.Format(time.RFC3339))
		return b.String()
	}
	for _, f := range Fields {
		v, ok := d.Values[f]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%-11s %s\n", labels[f]+":", v)
	}
	fmt.Fprintf(&b, "%-11s %s\n", "Scanned:", d.ScannedAt.Format(time.RFC3339))
	return b.String()
}

func stringify(v any) string {
	switch t := v.(type) {
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

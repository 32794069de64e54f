package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"
)

// DataURLPrefix is the only data URL form produced and accepted.
const DataURLPrefix = "data:image/png;base64,"

// ErrInvalidDataURL is returned for anything that is not a base64 PNG data URL.
var ErrInvalidDataURL = errors.New("invalid png data url")

// ToDataURL wraps PNG bytes.
func ToDataURL(png []byte) string {
	return DataURLPrefix + base64.StdEncoding.EncodeToString(png)
}

// ParseDataURL returns the PNG bytes inside a data URL.
func ParseDataURL(s string) ([]byte, error) {
	if !strings.HasPrefix(s, DataURLPrefix) {
		return nil, ErrInvalidDataURL
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, DataURLPrefix))
	if err != nil || len(b) == 0 {
		return nil, ErrInvalidDataURL
	}
	return b, nil
}

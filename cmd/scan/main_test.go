package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventpass/backend/internal/qrcode"
)

var fixedNow = func() time.Time { return time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC) }

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out, fixedNow, zap.NewNop()).Run(context.Background(), append([]string{"scan"}, args...))
	return out.String(), err
}

func TestScanText(t *testing.T) {
	out, err := run(t, "text", `{"first_name":"Bob","last_name":"Ray","email":"bob@x.com","phone":"5559876543"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "First name: Bob")
	assert.Contains(t, out, "Phone:      5559876543")
}

func TestScanText_JSON(t *testing.T) {
	out, err := run(t, "text", "--json", "plain ticket 42")
	require.NoError(t, err)
	var d map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, false, d["recognized"])
	assert.Equal(t, "plain ticket 42", d["raw"])
	assert.Equal(t, "2026-03-14T18:00:00Z", d["scannedAt"])
}

func TestScanImage(t *testing.T) {
	code, err := qrcode.NewGenerator(qrcode.DefaultSize, nil).Generate(qrcode.Attendee{
		FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", Phone: "5551234567",
	}, fixedNow())
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(file, code.PNG, 0o600))

	out, err := run(t, "image", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Email:      jane@x.com")
}

func TestScanImage_Errors(t *testing.T) {
	_, err := run(t, "image")
	assert.Error(t, err)

	_, err = run(t, "image", filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, err = run(t, "text")
	assert.Error(t, err)
}

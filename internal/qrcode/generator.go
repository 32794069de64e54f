package qrcode

import (
	"errors"
	"fmt"
	"strings"
	"time"

	goqrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 200

// ErrEncoding is returned when the encoder rejects a payload at every level tried.
var ErrEncoding = errors.New("qr encoding failed")

// EncodeFunc renders content as PNG bytes. goqrcode.Encode satisfies it.
type EncodeFunc func(content string, level goqrcode.RecoveryLevel, size int) ([]byte, error)

// Code is one generated code.
type Code struct {
	Payload string
	DataURL string
	PNG     []byte
}

// Generator renders attendee codes.
type Generator struct {
	size   int
	encode EncodeFunc
	logger *zap.Logger
}

// NewGenerator creates a generator producing size x size PNGs.
func NewGenerator(size int, logger *zap.Logger) *Generator {
	return NewGeneratorWithEncoder(size, goqrcode.Encode, logger)
}

// NewGeneratorWithEncoder creates a generator with a custom PNG encoder.
func NewGeneratorWithEncoder(size int, encode EncodeFunc, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{size: size, encode: encode, logger: logger}
}

// Generate encodes the attendee payload and renders it as a PNG data URL.
func (g *Generator) Generate(a Attendee, now time.Time) (*Code, error) {
	payload, err := EncodePayload(a, now)
	if err != nil {
		return nil, err
	}
	dataURL, png, err := g.RenderPNG(payload)
	if err != nil {
		return nil, err
	}
	return &Code{Payload: payload, DataURL: dataURL, PNG: png}, nil
}

// RenderPNG renders payload at medium error correction, retrying once at low
// error correction (more capacity) before giving up with ErrEncoding.
func (g *Generator) RenderPNG(payload string) (string, []byte, error) {
	png, err := g.encode(payload, goqrcode.Medium, g.size)
	if err == nil && len(png) == 0 {
		err = errors.New("encoder returned empty image")
	}
	if err != nil {
		g.logger.Warn("qr encode failed, retrying with low error correction",
			zap.Error(err), zap.Int("payload_len", len(payload)))
		png, err = g.encode(payload, goqrcode.Low, g.size)
		if err == nil && len(png) == 0 {
			err = errors.New("encoder returned empty image")
		}
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrEncoding, err)
		}
	}
	dataURL := ToDataURL(png)
	if !strings.HasPrefix(dataURL, DataURLPrefix) {
		return "", nil, fmt.Errorf("%w: unexpected data url", ErrEncoding)
	}
	return dataURL, png, nil
}

// RenderSVG renders payload as an SVG document of the given edge length.
func (g *Generator) RenderSVG(payload string, size int) (string, error) {
	if size <= 0 {
		size = g.size
	}
	q, err := goqrcode.New(payload, goqrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	bitmap := q.Bitmap()
	n := len(bitmap)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, size, size, n, n)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/><path fill="#000000" d="`)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&b, "M%d %dh1v1h-1z", x, y)
			}
		}
	}
	b.WriteString(`"/></svg>`)
	return b.String(), nil
}

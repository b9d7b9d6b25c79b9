// Package qr renders text payloads as QR code images.
package qr

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/chmouel/lazyqr/internal/config"
)

// ErrEmptyPayload is returned when asked to encode blank text.
var ErrEmptyPayload = errors.New("qr: empty payload")

// Image is a rendered QR code. The same text, size and level always produce
// byte-identical PNG data.
type Image struct {
	Text  string
	Size  int
	Level string
	PNG   []byte

	bitmap   [][]bool
	terminal string
}

// Bitmap returns the module matrix including the quiet zone; true is dark.
func (i *Image) Bitmap() [][]bool {
	return i.bitmap
}

// Terminal returns a half-block rendering of Bitmap, two module rows per
// line. Light modules are drawn with block glyphs and dark ones are left
// blank, so the caller should paint light on dark.
func (i *Image) Terminal() string {
	return i.terminal
}

// Renderer encodes payloads at a fixed error-correction level.
type Renderer struct {
	Level string
}

// NewRenderer returns a renderer for the given recovery level name; unknown
// names fall back to medium.
func NewRenderer(level string) *Renderer {
	normalized := config.NormalizeRecoveryLevel(level)
	if normalized == "" {
		normalized = config.RecoveryMedium
	}
	return &Renderer{Level: normalized}
}

// Render encodes text into a size×size PNG. Sizes outside the supported
// range are clamped.
func (r *Renderer) Render(text string, size int) (*Image, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyPayload
	}
	size = config.ClampQRSize(size)

	code, err := qrcode.New(text, recoveryLevel(r.Level))
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	png, err := code.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	bitmap := code.Bitmap()
	return &Image{
		Text:     text,
		Size:     size,
		Level:    r.Level,
		PNG:      png,
		bitmap:   bitmap,
		terminal: halfBlocks(bitmap),
	}, nil
}

// halfBlocks packs pairs of module rows into one line of text. A missing
// last row counts as light, like the quiet zone around it.
func halfBlocks(bitmap [][]bool) string {
	var b strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := range bitmap[y] {
			topLight := !bitmap[y][x]
			bottomLight := y+1 >= len(bitmap) || !bitmap[y+1][x]
			switch {
			case topLight && bottomLight:
				b.WriteString("█")
			case topLight:
				b.WriteString("▀")
			case bottomLight:
				b.WriteString("▄")
			default:
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

func recoveryLevel(level string) qrcode.RecoveryLevel {
	switch level {
	case config.RecoveryLow:
		return qrcode.Low
	case config.RecoveryHigh:
		return qrcode.High
	case config.RecoveryHighest:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

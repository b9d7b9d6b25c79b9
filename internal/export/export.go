// Package export turns rendered QR images into PNG, PDF and DOCX files.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chmouel/lazyqr/internal/qr"
)

// Format identifies an export file type.
type Format int

// Supported formats.
const (
	PNG Format = iota
	PDF
	DOC
)

// maxDuplicates bounds the "QRCode (n).ext" search.
const maxDuplicates = 999

// Formats returns the formats in menu order.
func Formats() []Format {
	return []Format{PNG, PDF, DOC}
}

// String returns the lowercase format name used on the command line.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case PDF:
		return "pdf"
	case DOC:
		return "doc"
	default:
		return "unknown"
	}
}

// Label returns the name shown on buttons.
func (f Format) Label() string {
	return strings.ToUpper(f.String())
}

// Extension returns the file extension, including the dot. DOC exports are
// written in the Office Open XML format.
func (f Format) Extension() string {
	switch f {
	case PNG:
		return ".png"
	case PDF:
		return ".pdf"
	case DOC:
		return ".docx"
	default:
		return ""
	}
}

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "."))) {
	case "png":
		return PNG, nil
	case "pdf":
		return PDF, nil
	case "doc", "docx", "word":
		return DOC, nil
	}
	return 0, fmt.Errorf("unknown export format %q (want png, pdf or doc)", name)
}

// Encoder writes an image in a specific file format.
type Encoder interface {
	Encode(w io.Writer, img *qr.Image) error
}

// Exporter produces a file from a rendered image and returns its path.
type Exporter interface {
	Export(ctx context.Context, img *qr.Image) (string, error)
}

// EncoderFor returns the encoder of format f.
func EncoderFor(f Format) (Encoder, error) {
	switch f {
	case PNG:
		return PNGEncoder{}, nil
	case PDF:
		return PDFEncoder{}, nil
	case DOC:
		return DOCXEncoder{}, nil
	}
	return nil, fmt.Errorf("no encoder for format %d", int(f))
}

// FileExporter encodes images and saves them through a Saver.
type FileExporter struct {
	Format  Format
	Encoder Encoder
	Saver   *Saver
}

// Export implements Exporter.
func (e *FileExporter) Export(ctx context.Context, img *qr.Image) (string, error) {
	if img == nil {
		return "", errors.New("no image to export")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := e.Encoder.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode %s: %w", e.Format, err)
	}
	return e.Saver.Save(e.Format.Extension(), buf.Bytes())
}

// NewSet returns one FileExporter per format, all saving into dir.
func NewSet(dir, basename string) map[Format]Exporter {
	saver := &Saver{Dir: dir, Basename: basename}
	set := make(map[Format]Exporter, len(Formats()))
	for _, f := range Formats() {
		enc, _ := EncoderFor(f)
		set[f] = &FileExporter{Format: f, Encoder: enc, Saver: saver}
	}
	return set
}

// Saver writes files without clobbering existing ones, naming duplicates
// the way browsers do: "QRCode.png", "QRCode (1).png", ...
type Saver struct {
	Dir      string
	Basename string
}

// Save writes data to a fresh file with extension ext and returns its path.
func (s *Saver) Save(ext string, data []byte) (string, error) {
	const dirPerms = 0o750
	if err := os.MkdirAll(s.Dir, dirPerms); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	base := s.Basename
	if base == "" {
		base = "QRCode"
	}

	for i := 0; i <= maxDuplicates; i++ {
		name := base + ext
		if i > 0 {
			name = fmt.Sprintf("%s (%d)%s", base, i, ext)
		}
		path := filepath.Join(s.Dir, name)
		// #nosec G304 -- path is built from the configured export dir
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("too many existing %s%s files in %s", base, ext, s.Dir)
}

package export

import (
	"errors"
	"io"

	"github.com/chmouel/lazyqr/internal/qr"
)

// PNGEncoder writes the raster as-is.
type PNGEncoder struct{}

// Encode implements Encoder.
func (PNGEncoder) Encode(w io.Writer, img *qr.Image) error {
	if len(img.PNG) == 0 {
		return errors.New("image has no PNG data")
	}
	_, err := w.Write(img.PNG)
	return err
}

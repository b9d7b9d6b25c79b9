package export

import (
	"bytes"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/chmouel/lazyqr/internal/qr"
)

const (
	pdfMarginMM     = 10.0
	pdfPageWidthMM  = 210.0
	mmPerCSSPixel   = 25.4 / 96
	pdfImageName    = "qrcode"
	pdfCreatorLabel = "lazyqr"
)

// PDFEncoder places the image in the top-left corner of an A4 page at its
// natural size (96 dpi), shrinking it only when it would overflow the page.
type PDFEncoder struct{}

// Encode implements Encoder.
func (PDFEncoder) Encode(w io.Writer, img *qr.Image) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreator(pdfCreatorLabel, true)
	pdf.SetTitle("QR Code", true)
	pdf.SetSubject(img.Text, true)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(pdfImageName, opts, bytes.NewReader(img.PNG))

	side := math.Min(float64(img.Size)*mmPerCSSPixel, pdfPageWidthMM-2*pdfMarginMM)
	pdf.ImageOptions(pdfImageName, pdfMarginMM, pdfMarginMM, side, side, false, opts, 0, "")

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

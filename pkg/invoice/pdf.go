// pkg/invoice/pdf.go

package invoice

import (
	"bytes"
	"math"
	"time"

	"github.com/h2non/filetype"
	"github.com/jung-kurt/gofpdf"
	ierr "github.com/receipt-microservice/pkg/errors"
	"github.com/receipt-microservice/pkg/metrics"
	"github.com/receipt-microservice/pkg/money"
)

// Layout constants, in millimetres unless noted.
const (
	marginLeft    = 20.0
	headerHeight  = 26.0
	contentTop    = 34.0
	keyWidth      = 36.0
	lineHeight    = 6.8
	sectionGap    = 3.0
	sectionHeader = 8.0

	logoMaxWidth  = 36.0
	logoMaxHeight = 22.0
	logoGap       = 6.0
	logoRaise     = 4.0

	watermarkOpacity = 0.06
	watermarkSize    = 52.0 // pt

	logoImageName = "logo"

	Title      = "RECEIPT / INVOICE"
	Disclaimer = "This document is a simple receipt and does not replace a fiscal invoice (NF-e)."
)

// accent is the brand colour, #6b72ff.
var accent = [3]int{0x6b, 0x72, 0xff}

// Renderer draws single-page A4 receipts. It holds no per-document state and
// can be shared between goroutines.
type Renderer struct {
	brand    string
	now      func() time.Time
	compress bool
}

type Option func(*Renderer)

// WithClock fixes the timestamp written into the PDF metadata.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// WithCompression toggles deflate on page streams. On by default.
func WithCompression(compress bool) Option {
	return func(r *Renderer) {
		r.compress = compress
	}
}

func NewRenderer(brand string, opts ...Option) *Renderer {
	r := &Renderer{
		brand:    brand,
		now:      time.Now,
		compress: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render builds the receipt PDF. A logo that cannot be decoded is left out
// without error. The returned reader is positioned at the start.
func (r *Renderer) Render(req Request, logo []byte) (*bytes.Reader, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	stamp := r.now()
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetCompression(r.compress)
	pdf.SetTitle(Title, true)
	pdf.SetCreator(r.brand, true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	d := &drawing{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	w, h := pdf.GetPageSize()

	d.watermark(r.brand, w, h)
	d.header(r.brand, w)

	y := contentTop
	x := marginLeft
	placed := len(logo) > 0 && d.logo(logo, x, y)
	if placed {
		x += logoMaxWidth + logoGap
	}

	item := req.Item()

	y = d.sectionTitle(x, y, "Company")
	y = d.keyValue(x, y, "Name:", req.CompanyName)
	y = d.keyValue(x, y, "Tax ID:", req.CompanyDoc)
	y = d.keyValue(x, y, "Address:", req.CompanyAddress)

	y = d.sectionTitle(marginLeft, y+sectionGap, "Client")
	y = d.keyValue(marginLeft, y, "Name:", req.ClientName)
	y = d.keyValue(marginLeft, y, "Tax ID:", req.ClientDoc)

	y = d.sectionTitle(marginLeft, y+sectionGap, "Document")
	y = d.keyValue(marginLeft, y, "Number:", req.DocNumber)
	y = d.keyValue(marginLeft, y, "Date:", req.FormattedIssueDate())

	y = d.sectionTitle(marginLeft, y+sectionGap, "Items")
	pdf.SetFont("Helvetica", "", 10)
	d.text(marginLeft, y, "- "+item.Description+
		" | qty: 1 | "+money.Format(item.UnitCost)+
		" | Subtotal: "+money.Format(item.Amount))
	y += 10

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(accent[0], accent[1], accent[2])
	d.text(marginLeft, y, "TOTAL: "+money.Format(req.Total()))
	pdf.SetTextColor(0, 0, 0)
	y += 12

	pdf.SetFont("Helvetica", "", 9)
	d.text(marginLeft, y, Disclaimer)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to render receipt").
			Mark(ierr.ErrSystem)
	}

	metrics.ObserveRender(placed)
	return bytes.NewReader(buf.Bytes()), nil
}

// drawing bundles the document with its code page translator.
type drawing struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (d *drawing) text(x, y float64, s string) {
	d.pdf.Text(x, y, d.tr(s))
}

func (d *drawing) watermark(brand string, w, h float64) {
	pdf := d.pdf
	pdf.TransformBegin()
	pdf.TransformRotate(45, w/2, h/2)
	pdf.SetFont("Helvetica", "B", watermarkSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetAlpha(watermarkOpacity, "Normal")
	s := d.tr(brand)
	pdf.Text(w/2-pdf.GetStringWidth(s)/2, h/2, s)
	pdf.SetAlpha(1, "Normal")
	pdf.TransformEnd()
}

func (d *drawing) header(brand string, w float64) {
	pdf := d.pdf
	pdf.SetFillColor(accent[0], accent[1], accent[2])
	pdf.Rect(0, 0, w, headerHeight, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	d.text(marginLeft, 16, Title)

	pdf.SetFont("Helvetica", "", 10)
	s := d.tr(brand)
	pdf.Text(w-marginLeft-pdf.GetStringWidth(s), 12, s)
	pdf.SetTextColor(0, 0, 0)
}

// logo places the image scaled into the logo box with its top edge just above
// the cursor. It reports false, leaving the document untouched, when the
// image cannot be decoded.
func (d *drawing) logo(data []byte, x, y float64) bool {
	pdf := d.pdf
	if pdf.Err() {
		return false
	}

	imageType, ok := detectImageType(data)
	if !ok {
		return false
	}

	info, ok := registerImage(pdf, imageType, data)
	if !ok {
		return false
	}

	iw, ih := info.Width(), info.Height()
	ratio := math.Min(logoMaxWidth/iw, logoMaxHeight/ih)
	dw, dh := iw*ratio, ih*ratio

	pdf.ImageOptions(logoImageName, x, y-logoRaise, dw, dh, false,
		gofpdf.ImageOptions{ImageType: imageType}, 0, "")
	return !pdf.Err()
}

// registerImage parses the image into the document. gofpdf's parsers index
// into chunk data without bounds checks, so a panic counts as a decode failure.
func registerImage(pdf *gofpdf.Fpdf, imageType string, data []byte) (info *gofpdf.ImageInfoType, ok bool) {
	defer func() {
		if recover() != nil {
			info, ok = nil, false
		}
		if !ok {
			pdf.ClearError()
		}
	}()

	info = pdf.RegisterImageOptionsReader(logoImageName,
		gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	ok = !pdf.Err() && info != nil && info.Width() > 0 && info.Height() > 0
	return info, ok
}

func (d *drawing) sectionTitle(x, y float64, title string) float64 {
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetFont("Helvetica", "B", 12)
	d.text(x, y, title)
	return y + sectionHeader
}

func (d *drawing) keyValue(x, y float64, key, value string) float64 {
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetFont("Helvetica", "B", 10)
	d.text(x, y, key)
	d.pdf.SetFont("Helvetica", "", 10)
	d.text(x+keyWidth, y, value)
	return y + lineHeight
}

// detectImageType maps the sniffed file type onto the names gofpdf accepts.
func detectImageType(data []byte) (string, bool) {
	kind, err := filetype.Match(data)
	if err != nil {
		return "", false
	}
	switch kind.Extension {
	case "png":
		return "PNG", true
	case "jpg":
		return "JPG", true
	case "gif":
		return "GIF", true
	}
	return "", false
}

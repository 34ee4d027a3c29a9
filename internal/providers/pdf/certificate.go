package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/smallbiznis/clubhouse/pkg/textsafe"
	"go.uber.org/zap"
)

// Page geometry in millimetres (A4 portrait).
const (
	pageWidth     = 210.0
	pageHeight    = 297.0
	margin        = 15.0
	contentWidth  = pageWidth - 2*margin
	labelWidth    = 42.0
	headerHeight  = 34.0
	codeBlockH    = 24.0
	headingHeight = 9.0
	sectionGap    = 4.0
	rowGap        = 1.5

	qrSize        = 38.0
	footerReserve = 14.0
	qrTop         = pageHeight - footerReserve - qrSize - 6
	contentBottom = qrTop - sectionGap

	minInfoHeight = 18.0
	maxInfoHeight = 48.0
	minDescHeight = 14.0
	maxDescHeight = 30.0
)

// Font sizes in points.
const (
	titleSize   = 17.0
	codeSize    = 20.0
	headingSize = 12.0
	labelSize   = 9.0
	bodySize    = 10.0
	smallSize   = 8.0
)

const family = "Helvetica"

var ErrRender = errors.New("pdf_render_failed")

// CertificateData is everything printed on a registration certificate.
// Strings are sanitized during rendering.
type CertificateData struct {
	Organization     string
	RegistrationCode string
	BookingID        string

	EventTitle       string
	EventDate        string
	EventTime        string
	Venue            string
	Eligibility      string
	EventDescription string

	Name         string
	School       string
	Email        string
	Phone        string
	ParentsPhone string
	Information  string

	VerificationURL string
	// QRCode is a PNG; when empty it is generated from VerificationURL.
	QRCode   []byte
	IssuedAt time.Time
}

// Document is a rendered PDF.
type Document struct {
	Bytes []byte
	Pages int
}

type rgb struct{ r, g, b int }

var (
	colorBrand  = rgb{28, 61, 114}
	colorTint   = rgb{232, 239, 250}
	colorText   = rgb{33, 37, 41}
	colorMuted  = rgb{108, 117, 125}
	colorLink   = rgb{13, 82, 170}
	colorRule   = rgb{206, 212, 218}
	colorOnDark = rgb{255, 255, 255}
)

// certificate holds one in-progress layout. Every section method takes the
// current Y position and returns the next one.
type certificate struct {
	doc  *gofpdf.Fpdf
	data CertificateData
	log  *zap.Logger
}

func (p *PDFProvider) RenderCertificate(ctx context.Context, data CertificateData) (*Document, error) {
	data = sanitizeCertificate(data)
	if data.RegistrationCode == "" {
		return nil, fmt.Errorf("%w: registration code is required", ErrRender)
	}
	if len(data.QRCode) == 0 && data.VerificationURL != "" {
		png, err := p.qr.PNG(data.VerificationURL)
		if err != nil {
			return nil, fmt.Errorf("%w: qr code: %v", ErrRender, err)
		}
		data.QRCode = png
	}
	if data.IssuedAt.IsZero() {
		data.IssuedAt = time.Now().UTC()
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(margin, margin, margin)
	doc.SetTitle("Registration "+data.RegistrationCode, false)
	doc.SetAuthor(data.Organization, false)
	doc.SetCreator("clubhouse", false)
	doc.SetCreationDate(data.IssuedAt)

	p.engageFonts(doc)
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("%w: fonts: %v", ErrRender, err)
	}

	doc.AddPage()
	c := &certificate{doc: doc, data: data, log: p.log}

	y := c.header(0)
	y = c.codeBlock(y)
	y = c.eventDetails(y)
	y = c.registrantDetails(y)
	y = c.textBlock(y, "Additional Information", data.Information, minInfoHeight, maxInfoHeight)
	c.textBlock(y, "About the Event", data.EventDescription, minDescHeight, maxDescHeight)
	c.qrBlock()
	c.footer()

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	out := &Document{Bytes: buf.Bytes(), Pages: doc.PageCount()}
	p.observePages(ctx, "certificate", out.Pages)
	return out, nil
}

// engageFonts resolves metric files before any text is drawn. When nothing
// resolves the engine keeps its built-in core font metrics.
func (p *PDFProvider) engageFonts(doc *gofpdf.Fpdf) {
	if p.fonts == nil {
		return
	}
	resolve, dir, err := p.fonts.LocateStandard()
	if err != nil {
		p.log.Warn("font resources not found, using engine defaults", zap.Error(err))
		return
	}
	installed := installFonts(doc, resolve)
	p.log.Debug("font resources engaged", zap.String("dir", dir), zap.Int("files", installed))
}

func sanitizeCertificate(d CertificateData) CertificateData {
	d.Organization = textsafe.Line(d.Organization)
	d.RegistrationCode = textsafe.Line(d.RegistrationCode)
	d.BookingID = textsafe.Line(d.BookingID)
	d.EventTitle = textsafe.Line(d.EventTitle)
	d.EventDate = textsafe.Line(d.EventDate)
	d.EventTime = textsafe.Line(d.EventTime)
	d.Venue = textsafe.Line(d.Venue)
	d.Eligibility = textsafe.Line(d.Eligibility)
	d.EventDescription = textsafe.Sanitize(d.EventDescription)
	d.Name = textsafe.Line(d.Name)
	d.School = textsafe.Line(d.School)
	d.Email = textsafe.Line(d.Email)
	d.Phone = textsafe.Line(d.Phone)
	d.ParentsPhone = textsafe.Line(d.ParentsPhone)
	d.Information = textsafe.Sanitize(d.Information)
	d.VerificationURL = textsafe.Line(d.VerificationURL)
	return d
}

func (c *certificate) setFont(style string, size float64, color rgb) {
	c.doc.SetFont(family, style, size)
	c.doc.SetTextColor(color.r, color.g, color.b)
}

func (c *certificate) header(y float64) float64 {
	c.doc.SetFillColor(colorBrand.r, colorBrand.g, colorBrand.b)
	c.doc.Rect(0, y, pageWidth, headerHeight, "F")

	c.setFont("B", titleSize, colorOnDark)
	c.doc.SetXY(margin, y+9)
	c.doc.CellFormat(contentWidth, lineHeight(titleSize), "Event Registration Confirmation", "", 0, "L", false, 0, "")

	org := c.data.Organization
	if org == "" {
		org = "Clubhouse"
	}
	c.setFont("", bodySize, colorOnDark)
	c.doc.SetXY(margin, y+20)
	c.doc.CellFormat(contentWidth, lineHeight(bodySize), truncateAt(org, charsPerLine(contentWidth, bodySize)), "", 0, "L", false, 0, "")

	return y + headerHeight + 8
}

func (c *certificate) codeBlock(y float64) float64 {
	c.doc.SetFillColor(colorTint.r, colorTint.g, colorTint.b)
	c.doc.SetDrawColor(colorBrand.r, colorBrand.g, colorBrand.b)
	c.doc.SetLineWidth(0.4)
	c.doc.RoundedRect(margin, y, contentWidth, codeBlockH, 3, "1234", "FD")

	c.setFont("B", labelSize, colorMuted)
	c.doc.SetXY(margin, y+3)
	c.doc.CellFormat(contentWidth, lineHeight(labelSize), "REGISTRATION ID", "", 0, "C", false, 0, "")

	c.setFont("B", codeSize, colorBrand)
	c.doc.SetXY(margin, y+9)
	c.doc.CellFormat(contentWidth, lineHeight(codeSize), c.data.RegistrationCode, "", 0, "C", false, 0, "")

	return y + codeBlockH + 6
}

func (c *certificate) heading(y float64, title string) float64 {
	c.setFont("B", headingSize, colorBrand)
	c.doc.SetXY(margin, y)
	c.doc.CellFormat(contentWidth, lineHeight(headingSize), title, "", 0, "L", false, 0, "")
	c.doc.SetDrawColor(colorRule.r, colorRule.g, colorRule.b)
	c.doc.SetLineWidth(0.3)
	c.doc.Line(margin, y+headingHeight-2, margin+contentWidth, y+headingHeight-2)
	return y + headingHeight
}

func (c *certificate) eventDetails(y float64) float64 {
	y = c.heading(y, "Event Details")
	y = c.field(y, "Event", orPlaceholder(c.data.EventTitle, "-"), 2)
	y = c.field(y, "Date", orPlaceholder(c.data.EventDate, "To be announced"), 1)
	y = c.field(y, "Time", c.data.EventTime, 1)
	y = c.field(y, "Venue", c.data.Venue, 2)
	y = c.field(y, "Eligibility", c.data.Eligibility, 2)
	return y + sectionGap
}

func (c *certificate) registrantDetails(y float64) float64 {
	y = c.heading(y, "Registrant Details")
	y = c.field(y, "Name", orPlaceholder(c.data.Name, "-"), 2)
	y = c.field(y, "School", orPlaceholder(c.data.School, "-"), 2)
	y = c.field(y, "Email", orPlaceholder(c.data.Email, "-"), 1)
	y = c.field(y, "Parent's Phone", orPlaceholder(c.data.ParentsPhone, "-"), 1)
	y = c.field(y, "Phone", c.data.Phone, 1)
	return y + sectionGap
}

// field draws a label/value row. Empty values are skipped.
func (c *certificate) field(y float64, label, value string, maxLines int) float64 {
	if value == "" {
		return y
	}
	lh := lineHeight(bodySize)
	valueWidth := contentWidth - labelWidth

	c.setFont("B", labelSize, colorMuted)
	c.doc.SetXY(margin, y)
	c.doc.CellFormat(labelWidth, lh, label, "", 0, "L", false, 0, "")

	c.setFont("", bodySize, colorText)
	lines := c.wrap(value, valueWidth, bodySize, maxLines)
	for i, line := range lines {
		c.doc.SetXY(margin+labelWidth, y+float64(i)*lh)
		c.doc.CellFormat(valueWidth, lh, line, "", 0, "L", false, 0, "")
	}
	return y + float64(len(lines))*lh + rowGap
}

// textBlock draws a titled free-text box in the space left above the QR
// section. It is skipped when less than minHeight remains.
func (c *certificate) textBlock(y float64, title, body string, minHeight, maxHeight float64) float64 {
	if body == "" {
		return y
	}
	available := contentBottom - y - headingHeight
	if available < minHeight {
		c.log.Debug("certificate block skipped",
			zap.String("block", title),
			zap.Float64("available_mm", available),
		)
		return y
	}
	height := math.Min(available, maxHeight)

	y = c.heading(y, title)
	c.setFont("", bodySize, colorText)
	lh := lineHeight(bodySize)
	lines := c.wrap(body, contentWidth, bodySize, linesInBox(height, bodySize))
	for i, line := range lines {
		c.doc.SetXY(margin, y+float64(i)*lh)
		c.doc.CellFormat(contentWidth, lh, line, "", 0, "L", false, 0, "")
	}
	return y + float64(len(lines))*lh + sectionGap
}

// wrap fits text to maxLines lines of width w using the current font.
func (c *certificate) wrap(text string, w, size float64, maxLines int) []string {
	if maxLines <= 0 {
		return nil
	}
	fitted := fitText(text, w, float64(maxLines)*lineHeight(size), size)
	if fitted == "" {
		return nil
	}
	return clipLines(c.doc.SplitText(fitted, w), maxLines, charsPerLine(w, size))
}

func (c *certificate) qrBlock() {
	c.doc.SetDrawColor(colorRule.r, colorRule.g, colorRule.b)
	c.doc.SetLineWidth(0.3)
	c.doc.Line(margin, qrTop-3, margin+contentWidth, qrTop-3)

	textX := margin
	if len(c.data.QRCode) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		name := "qr-" + c.data.RegistrationCode
		c.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(c.data.QRCode))
		c.doc.ImageOptions(name, margin, qrTop, qrSize, qrSize, false, opts, 0, "")
		textX = margin + qrSize + 6
	}
	textWidth := margin + contentWidth - textX

	y := qrTop + 4
	c.setFont("B", 11, colorBrand)
	c.doc.SetXY(textX, y)
	c.doc.CellFormat(textWidth, lineHeight(11), "Verify this registration", "", 0, "L", false, 0, "")
	y += lineHeight(11) + 1

	c.setFont("", 9, colorText)
	for _, line := range c.wrap("Scan the QR code or open the link below. Present this document at the event entrance.", textWidth, 9, 2) {
		c.doc.SetXY(textX, y)
		c.doc.CellFormat(textWidth, lineHeight(9), line, "", 0, "L", false, 0, "")
		y += lineHeight(9)
	}

	if c.data.VerificationURL == "" {
		return
	}
	y += 1
	c.setFont("", smallSize, colorLink)
	for _, line := range c.urlLines(c.data.VerificationURL, textWidth, 3) {
		c.doc.SetXY(textX, y)
		c.doc.CellFormat(textWidth, lineHeight(smallSize), line, "", 0, "L", false, 0, c.data.VerificationURL)
		y += lineHeight(smallSize)
	}
}

// urlLines breaks a URL by measured width since it has no spaces to wrap on.
func (c *certificate) urlLines(url string, w float64, maxLines int) []string {
	var lines []string
	current := ""
	for _, r := range url {
		next := current + string(r)
		if current != "" && c.doc.GetStringWidth(next) > w {
			lines = append(lines, current)
			current = string(r)
			continue
		}
		current = next
	}
	if current != "" {
		lines = append(lines, current)
	}
	return clipLines(lines, maxLines, 0)
}

func (c *certificate) footer() {
	y := pageHeight - footerReserve + 3
	c.doc.SetDrawColor(colorRule.r, colorRule.g, colorRule.b)
	c.doc.SetLineWidth(0.3)
	c.doc.Line(margin, y, margin+contentWidth, y)

	c.setFont("", smallSize, colorMuted)
	half := contentWidth / 2
	issued := "Issued " + c.data.IssuedAt.UTC().Format("02 Jan 2006 15:04 MST")
	c.doc.SetXY(margin, y+2)
	c.doc.CellFormat(half, lineHeight(smallSize), issued, "", 0, "L", false, 0, "")

	ref := "Booking " + c.data.BookingID
	if c.data.BookingID == "" {
		ref = c.data.RegistrationCode
	}
	c.doc.SetXY(margin+half, y+2)
	c.doc.CellFormat(half, lineHeight(smallSize), truncateAt(ref, charsPerLine(half, smallSize)), "", 0, "R", false, 0, "")
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

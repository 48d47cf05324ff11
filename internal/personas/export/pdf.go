// Package export renders personas and persona reports as PDF documents.
package export

import (
	_ "embed"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/persona-lab/persona-backend/internal/personas/domain"
	"github.com/persona-lab/persona-backend/internal/personas/report"
)

const (
	ContentType    = "application/pdf"
	ReportFilename = "personas-report.pdf"

	titleSize   = 24
	headingSize = 14
	bodySize    = 12
	lineHeight  = 6
	bullet      = "•"
	fontFamily  = "DejaVu"
)

// DejaVu covers Latin, Greek and Cyrillic scripts; the core PDF fonts only
// cover cp1252.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

var whitespace = regexp.MustCompile(`\s+`)

// Filename is the attachment name used for a persona's PDF.
func Filename(personaName string) string {
	return whitespace.ReplaceAllString(strings.ToLower(personaName), "-") + "-persona.pdf"
}

// Renderer writes A4 portrait documents using the embedded DejaVu fonts.
type Renderer struct {
	compress bool
	now      func() time.Time
}

// NewRenderer returns a Renderer. Uncompressed output keeps page text
// readable in the raw bytes.
func NewRenderer(compress bool) *Renderer {
	return &Renderer{compress: compress, now: time.Now}
}

// Persona writes the one-page profile of p to w.
func (r *Renderer) Persona(w io.Writer, p domain.Persona) error {
	doc := r.newDocument(p.Name)

	doc.title(p.Name)

	doc.heading("Basic Information")
	doc.line("Age: " + strconv.Itoa(int(p.Age)))
	doc.line("Occupation: " + p.Occupation)
	doc.line("Location: " + p.Location)
	doc.gap()

	doc.heading("Background")
	doc.paragraph(p.Background)
	doc.gap()

	if len(p.Goals) > 0 {
		doc.heading("Goals")
		doc.bullets(p.Goals)
		doc.gap()
	}
	if len(p.PainPoints) > 0 {
		doc.heading("Pain Points")
		doc.bullets(p.PainPoints)
	}

	return doc.output(w)
}

// Report writes the analysis report of a project's personas to w.
func (r *Renderer) Report(w io.Writer, projectName string, rep report.Report) error {
	doc := r.newDocument("Personas Analysis Report")

	doc.title("Personas Analysis Report")
	if projectName != "" {
		doc.line("Project: " + projectName)
		doc.gap()
	}

	doc.heading("Summary")
	doc.line(fmt.Sprintf("Total Personas: %d", rep.Total))
	doc.line(fmt.Sprintf("Base Personas: %d", rep.Base))
	doc.line(fmt.Sprintf("Generated Personas: %d", rep.Generated))
	doc.line(fmt.Sprintf("Average Age: %.1f", rep.AverageAge))
	doc.gap()

	for _, section := range []struct {
		name    string
		buckets []report.Bucket
	}{
		{"Age Distribution", rep.AgeGroups},
		{"Occupations", rep.Occupations},
		{"Locations", rep.Locations},
	} {
		if len(section.buckets) == 0 {
			continue
		}
		doc.heading(section.name)
		items := make([]string, len(section.buckets))
		for i, b := range section.buckets {
			items[i] = fmt.Sprintf("%s: %d", b.Label, b.Count)
		}
		doc.bullets(items)
		doc.gap()
	}

	return doc.output(w)
}

type document struct {
	pdf *fpdf.Fpdf
}

func (r *Renderer) newDocument(title string) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(r.now())
	pdf.SetTitle(title, true)
	pdf.SetCreator("persona-backend", true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldFont)
	pdf.AddPage()

	return &document{pdf: pdf}
}

func (d *document) title(text string) {
	d.pdf.SetFont(fontFamily, "B", titleSize)
	d.pdf.MultiCell(0, 12, text, "", "C", false)
	d.gap()
}

func (d *document) heading(text string) {
	d.pdf.SetFont(fontFamily, "U", headingSize)
	d.pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
}

func (d *document) line(text string) {
	d.pdf.SetFont(fontFamily, "", bodySize)
	d.pdf.CellFormat(0, lineHeight, text, "", 1, "L", false, 0, "")
}

func (d *document) paragraph(text string) {
	d.pdf.SetFont(fontFamily, "", bodySize)
	d.pdf.MultiCell(0, lineHeight, text, "", "L", false)
}

func (d *document) bullets(items []string) {
	d.pdf.SetFont(fontFamily, "", bodySize)
	for _, item := range items {
		d.pdf.MultiCell(0, lineHeight, bullet+" "+item, "", "L", false)
	}
}

func (d *document) gap() {
	d.pdf.Ln(lineHeight)
}

func (d *document) output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

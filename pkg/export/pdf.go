package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// KeyValue is one labeled line in the form header.
type KeyValue struct {
	Label string
	Value string
}

// ScoreRow is one scored question line.
type ScoreRow struct {
	Label string
	Score int
}

// EvaluationForm is the printable view of one evaluation.
type EvaluationForm struct {
	Title    string
	Meta     []KeyValue
	Scores   []ScoreRow
	Comments string
}

// PDFExporter renders evaluation forms into a printable PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a single-page PDF for the given form.
func (e *PDFExporter) Render(form EvaluationForm) ([]byte, error) {
	if len(form.Scores) == 0 {
		return nil, fmt.Errorf("pdf requires at least one score row")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	title := form.Title
	if title == "" {
		title = "EMPLOYEE EVALUATION"
	}
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	for _, kv := range form.Meta {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(55, 7, kv.Label, "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, kv.Value, "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(150, 8, "Question", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, "Score", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	total := 0
	for _, row := range form.Scores {
		pdf.CellFormat(150, 7, row.Label, "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%d", row.Score), "1", 1, "C", false, 0, "")
		total += row.Score
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(150, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%d", total), "1", 1, "C", false, 0, "")

	if form.Comments != "" {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, "Comments", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, form.Comments, "", "", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

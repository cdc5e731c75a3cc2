package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders reports (удобно мокать в тестах).
type Generator interface {
	PipelineReport(w io.Writer, data ReportData) error
}

// ReportGenerator draws A4 reports with gofpdf.
type ReportGenerator struct {
	FontPath string // TTF for non-Latin text; empty uses the core Helvetica font
	fontName string
}

type ReportRow struct {
	Stage    string
	Deals    int
	Total    float64
	Weighted float64
}

type ReportDeal struct {
	Title             string
	Customer          string
	Stage             string
	Value             float64
	Probability       int
	ExpectedCloseDate string
}

type ReportData struct {
	Title         string
	GeneratedAt   time.Time
	Rows          []ReportRow
	TotalValue    float64
	WeightedValue float64
	Deals         []ReportDeal
}

func NewReportGenerator(fontPath string) *ReportGenerator {
	g := &ReportGenerator{FontPath: fontPath, fontName: "Helvetica"}
	if fontPath != "" {
		g.fontName = "DejaVu"
	}
	return g
}

func (g *ReportGenerator) PipelineReport(w io.Writer, data ReportData) error {
	title := data.Title
	if title == "" {
		title = "Sales Pipeline Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetAuthor("ApexCRM", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	g.addUTF8Font(pdf)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 7, "Generated "+data.GeneratedAt.Format("Jan 2, 2006 15:04"), "", 1, "C", false, 0, "")
	g.hr(pdf)

	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Total value", money(data.TotalValue))
	g.kvLine(pdf, "Weighted value", money(data.WeightedValue))
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Stages
	g.sectionTitle(pdf, "By stage")
	widths := []float64{60, 25, 42.5, 42.5}
	g.tableHeader(pdf, widths, "Stage", "Deals", "Total", "Weighted")
	pdf.SetFont(g.fontName, "", 10)
	for _, r := range data.Rows {
		pdf.CellFormat(widths[0], 7, r.Stage, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", r.Deals), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, money(r.Total), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, money(r.Weighted), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	if len(data.Deals) > 0 {
		g.sectionTitle(pdf, "Deals")
		widths = []float64{55, 40, 25, 30, 20}
		g.tableHeader(pdf, widths, "Title", "Customer", "Stage", "Value", "Close")
		pdf.SetFont(g.fontName, "", 9)
		for _, d := range data.Deals {
			pdf.CellFormat(widths[0], 6, truncate(pdf, d.Title, widths[0]), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 6, truncate(pdf, d.Customer, widths[1]), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 6, d.Stage, "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[3], 6, money(d.Value), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[4], 6, d.ExpectedCloseDate, "1", 1, "C", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pipeline report: %w", err)
	}
	return nil
}

// ===== helpers =====

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) tableHeader(pdf *gofpdf.Fpdf, widths []float64, cols ...string) {
	pdf.SetFont(g.fontName, "B", 10)
	pdf.SetFillColor(230, 230, 240)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, c, "1", ln, "C", true, 0, "")
	}
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *ReportGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	if g.FontPath == "" {
		return
	}
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}

func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	const pad = 2
	if pdf.GetStringWidth(s) <= width-pad {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width-pad {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	cents := int64((v-float64(whole))*100 + 0.5)
	if cents == 100 {
		whole++
		cents = 0
	}
	s := fmt.Sprintf("%d", whole)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	out := fmt.Sprintf("$%s.%02d", s, cents)
	if neg {
		out = "-" + out
	}
	return out
}

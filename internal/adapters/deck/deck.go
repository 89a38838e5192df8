// Package deck renders a monthly time report as a fixed-layout PDF slide
// deck, one landscape page per section.
package deck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hylla/tidrapport/internal/app"
	"github.com/hylla/tidrapport/internal/domain"
)

// Input carries everything one deck needs. Summary is required; Forecast
// adds two extra pages when non-empty.
type Input struct {
	Summary     *domain.SummarySet
	GeneratedAt time.Time
	LeadPerson  string
	Forecast    []app.ForecastMonth
}

const (
	pageWidth  = 297.0
	pageHeight = 210.0
	margin     = 18.0
)

// Accent and alternating row fill used across all tables.
var (
	accentR, accentG, accentB = 0, 112, 192
	altR, altG, altB          = 217, 225, 242
)

// Render writes the deck to outPath, creating parent directories as needed.
func Render(in Input, outPath string) error {
	if in.Summary == nil {
		return errors.New("deck input needs a summary")
	}
	if strings.TrimSpace(outPath) == "" {
		return errors.New("deck output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, margin)

	d := &builder{pdf: pdf, in: in}
	d.titlePage()
	d.monthOverviewPage()
	d.teamSummaryPage()
	d.hoursCompletedPage()
	d.remainingHoursPage()
	d.projectBreakdownPage()
	d.leadSchedulePage()
	d.weeklyProgressPage()
	d.insightsPage()
	if len(in.Forecast) > 0 {
		d.forecastOverviewPage()
		d.forecastDetailPage()
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write deck: %w", err)
	}
	return nil
}

type builder struct {
	pdf *gofpdf.Fpdf
	in  Input
}

func (d *builder) newPage(title string) {
	d.pdf.AddPage()
	d.pdf.SetFillColor(accentR, accentG, accentB)
	d.pdf.Rect(0, 0, pageWidth, 24, "F")
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont("Arial", "B", 20)
	d.pdf.SetXY(margin, 6)
	d.pdf.CellFormat(pageWidth-2*margin, 12, title, "", 1, "L", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetXY(margin, 34)
}

func (d *builder) titlePage() {
	s := d.in.Summary
	d.pdf.AddPage()
	d.pdf.SetFillColor(accentR, accentG, accentB)
	d.pdf.Rect(0, 0, pageWidth, pageHeight, "F")
	d.pdf.SetTextColor(255, 255, 255)

	d.pdf.SetFont("Arial", "B", 40)
	d.pdf.SetXY(margin, 70)
	d.pdf.CellFormat(pageWidth-2*margin, 20, "Department Time Report", "", 1, "C", false, 0, "")

	d.pdf.SetFont("Arial", "", 24)
	d.pdf.SetXY(margin, 98)
	d.pdf.CellFormat(pageWidth-2*margin, 12, s.Month.Label(), "", 1, "C", false, 0, "")

	d.pdf.SetFont("Arial", "I", 12)
	d.pdf.SetXY(margin, 120)
	line := fmt.Sprintf("Hours as of %s", s.AsOf.Format("January 2, 2006"))
	if !d.in.GeneratedAt.IsZero() {
		line = fmt.Sprintf("%s, generated %s", line, d.in.GeneratedAt.Format("2006-01-02"))
	}
	d.pdf.CellFormat(pageWidth-2*margin, 8, line, "", 1, "C", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *builder) monthOverviewPage() {
	s := d.in.Summary
	totals := s.Totals()
	projects := s.ProjectSummaries()
	people := s.PersonSummaries()

	d.newPage("Month Overview")
	d.pdf.SetFont("Arial", "", 14)

	rows := [][2]string{
		{"Month", s.Month.Label()},
		{"Active projects", fmt.Sprintf("%d", len(projects))},
		{"Team members", fmt.Sprintf("%d", len(people))},
		{"Hours completed", formatHours(totals.Completed)},
		{"Hours remaining", formatHours(totals.Remaining)},
		{"Total planned hours", formatHours(totals.Total())},
	}
	y := 44.0
	for i, row := range rows {
		fill := i%2 == 1
		d.pdf.SetFillColor(altR, altG, altB)
		d.pdf.SetXY(margin, y)
		d.pdf.SetFont("Arial", "B", 14)
		d.pdf.CellFormat(90, 12, row[0], "", 0, "L", fill, 0, "")
		d.pdf.SetFont("Arial", "", 14)
		d.pdf.CellFormat(120, 12, row[1], "", 1, "L", fill, 0, "")
		y += 12
	}
}

func (d *builder) teamSummaryPage() {
	d.newPage("Team Summary")
	people := d.in.Summary.PersonSummaries()

	headers := []string{"Person", "Completed", "Remaining", "Total"}
	widths := []float64{110, 50, 50, 50}
	d.tableHeader(headers, widths)
	for i, p := range people {
		d.tableRow(i, widths, []string{
			p.Person,
			formatHours(p.Completed),
			formatHours(p.Remaining),
			formatHours(p.Total),
		})
	}
	totals := d.in.Summary.Totals()
	d.tableFooter(widths, []string{"Department total", formatHours(totals.Completed), formatHours(totals.Remaining), formatHours(totals.Total())})
}

func (d *builder) hoursCompletedPage() {
	d.newPage("Hours Completed")
	people := d.in.Summary.PersonSummaries()
	d.barChart(people, func(p domain.PersonSummary) float64 { return p.Completed })
}

func (d *builder) remainingHoursPage() {
	d.newPage("Remaining Hours")
	people := d.in.Summary.PersonSummaries()
	d.barChart(people, func(p domain.PersonSummary) float64 { return p.Remaining })
}

func (d *builder) projectBreakdownPage() {
	d.newPage("Project Breakdown")
	projects := d.in.Summary.ProjectSummaries()

	headers := []string{"Project", "Completed", "Remaining", "Total", "Team"}
	widths := []float64{80, 40, 40, 40, 60}
	d.tableHeader(headers, widths)
	for i, p := range projects {
		names := make([]string, 0, len(p.People))
		for _, share := range p.People {
			names = append(names, share.Person)
		}
		d.tableRow(i, widths, []string{
			p.Name,
			formatHours(p.Completed),
			formatHours(p.Remaining),
			formatHours(p.Total),
			strings.Join(names, ", "),
		})
	}
}

// leadPerson picks the configured lead, falling back to the person with the
// most total hours.
func (d *builder) leadPerson() (domain.PersonSummary, bool) {
	if lead := strings.TrimSpace(d.in.LeadPerson); lead != "" {
		if p, ok := d.in.Summary.Person(lead); ok {
			return p, true
		}
	}
	people := d.in.Summary.PersonSummaries()
	if len(people) == 0 {
		return domain.PersonSummary{}, false
	}
	return people[0], true
}

func (d *builder) leadSchedulePage() {
	lead, ok := d.leadPerson()
	if !ok {
		d.newPage("Lead Schedule")
		d.emptyNote("No team members this month.")
		return
	}
	d.newPage(fmt.Sprintf("Lead Schedule: %s", lead.Person))

	headers := []string{"Project", "Completed", "Remaining", "Total"}
	widths := []float64{120, 47, 47, 47}
	d.tableHeader(headers, widths)
	for i, share := range lead.Projects {
		d.tableRow(i, widths, []string{
			share.ProjectName,
			formatHours(share.Hours.Completed),
			formatHours(share.Hours.Remaining),
			formatHours(share.Hours.Total()),
		})
	}
	d.tableFooter(widths, []string{"Total", formatHours(lead.Completed), formatHours(lead.Remaining), formatHours(lead.Total)})
}

func (d *builder) weeklyProgressPage() {
	d.newPage("Weekly Progress")
	weeks := d.in.Summary.Weeks
	if len(weeks) == 0 {
		d.emptyNote("No scheduled hours this month.")
		return
	}

	maxTotal := 0.0
	for _, w := range weeks {
		if t := w.Hours.Total(); t > maxTotal {
			maxTotal = t
		}
	}

	y := 44.0
	barMax := 150.0
	for _, w := range weeks {
		label := fmt.Sprintf("%s - %s", w.Start.Format("Jan 2"), w.End.Format("Jan 2"))
		d.pdf.SetFont("Arial", "", 11)
		d.pdf.SetXY(margin, y)
		d.pdf.CellFormat(55, 10, label, "", 0, "L", false, 0, "")

		total := w.Hours.Total()
		width := 0.0
		if maxTotal > 0 {
			width = barMax * total / maxTotal
		}
		completedWidth := 0.0
		if total > 0 {
			completedWidth = width * w.Hours.Completed / total
		}
		x := margin + 58
		d.pdf.SetFillColor(accentR, accentG, accentB)
		d.pdf.Rect(x, y+1.5, completedWidth, 7, "F")
		d.pdf.SetFillColor(altR, altG, altB)
		d.pdf.Rect(x+completedWidth, y+1.5, width-completedWidth, 7, "F")

		d.pdf.SetXY(x+barMax+4, y)
		d.pdf.CellFormat(60, 10, fmt.Sprintf("%s done / %s total", formatHours(w.Hours.Completed), formatHours(total)), "", 1, "L", false, 0, "")
		y += 13
	}
}

func (d *builder) insightsPage() {
	s := d.in.Summary
	totals := s.Totals()
	people := s.PersonSummaries()

	d.newPage("Insights")

	var lines []string
	if total := totals.Total(); total > 0 {
		pct := 100 * totals.Completed / total
		lines = append(lines, fmt.Sprintf("The department has completed %.0f%% of the month's planned hours.", pct))
	} else {
		lines = append(lines, "No hours were scheduled this month.")
	}
	for _, p := range people {
		days := p.Total / 8
		lines = append(lines, fmt.Sprintf("%s carries %s (about %.1f full working days).", p.Person, formatHours(p.Total), days))
	}
	if totals.Remaining > 0 {
		lines = append(lines, fmt.Sprintf("%s remain before %s closes.", formatHours(totals.Remaining), s.Month.Label()))
	}

	y := 44.0
	d.pdf.SetFont("Arial", "", 13)
	for _, line := range lines {
		d.pdf.SetXY(margin, y)
		d.pdf.CellFormat(6, 9, "-", "", 0, "L", false, 0, "")
		d.pdf.CellFormat(pageWidth-2*margin-6, 9, line, "", 1, "L", false, 0, "")
		y += 11
	}
}

func (d *builder) forecastOverviewPage() {
	d.newPage("Forecast Overview")

	headers := []string{"Month", "Projected hours", "Projects"}
	widths := []float64{90, 80, 80}
	d.tableHeader(headers, widths)
	for i, m := range d.in.Forecast {
		d.tableRow(i, widths, []string{
			m.Month.Label(),
			formatHours(m.Total),
			fmt.Sprintf("%d", len(m.Projects)),
		})
	}
}

func (d *builder) forecastDetailPage() {
	d.newPage("Forecast by Project")

	y := 44.0
	for _, m := range d.in.Forecast {
		d.pdf.SetFont("Arial", "B", 14)
		d.pdf.SetXY(margin, y)
		d.pdf.CellFormat(pageWidth-2*margin, 9, m.Month.Label(), "", 1, "L", false, 0, "")
		y += 10
		d.pdf.SetFont("Arial", "", 12)
		if len(m.Projects) == 0 {
			d.pdf.SetXY(margin+6, y)
			d.pdf.CellFormat(200, 8, "No scheduled work.", "", 1, "L", false, 0, "")
			y += 9
			continue
		}
		for _, p := range m.Projects {
			d.pdf.SetXY(margin+6, y)
			d.pdf.CellFormat(140, 8, p.ProjectName, "", 0, "L", false, 0, "")
			d.pdf.CellFormat(60, 8, formatHours(p.Hours), "", 1, "R", false, 0, "")
			y += 9
		}
		y += 4
	}
}

func (d *builder) tableHeader(headers []string, widths []float64) {
	d.pdf.SetFillColor(accentR, accentG, accentB)
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont("Arial", "B", 12)
	d.pdf.SetXY(margin, 40)
	for i, h := range headers {
		last := 0
		if i == len(headers)-1 {
			last = 1
		}
		d.pdf.CellFormat(widths[i], 10, h, "", last, "L", true, 0, "")
	}
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *builder) tableRow(index int, widths []float64, cells []string) {
	fill := index%2 == 1
	d.pdf.SetFillColor(altR, altG, altB)
	d.pdf.SetFont("Arial", "", 12)
	d.pdf.SetX(margin)
	for i, c := range cells {
		last := 0
		if i == len(cells)-1 {
			last = 1
		}
		d.pdf.CellFormat(widths[i], 9, c, "", last, "L", fill, 0, "")
	}
}

func (d *builder) tableFooter(widths []float64, cells []string) {
	d.pdf.SetFont("Arial", "B", 12)
	d.pdf.SetX(margin)
	for i, c := range cells {
		last := 0
		if i == len(cells)-1 {
			last = 1
		}
		d.pdf.CellFormat(widths[i], 10, c, "T", last, "L", false, 0, "")
	}
}

func (d *builder) barChart(people []domain.PersonSummary, value func(domain.PersonSummary) float64) {
	if len(people) == 0 {
		d.emptyNote("No team members this month.")
		return
	}
	maxVal := 0.0
	for _, p := range people {
		if v := value(p); v > maxVal {
			maxVal = v
		}
	}

	y := 44.0
	barMax := 160.0
	for _, p := range people {
		v := value(p)
		width := 0.0
		if maxVal > 0 {
			width = barMax * v / maxVal
		}
		d.pdf.SetFont("Arial", "", 12)
		d.pdf.SetXY(margin, y)
		d.pdf.CellFormat(60, 10, p.Person, "", 0, "L", false, 0, "")
		d.pdf.SetFillColor(accentR, accentG, accentB)
		d.pdf.Rect(margin+63, y+1.5, width, 7, "F")
		d.pdf.SetXY(margin+63+barMax+4, y)
		d.pdf.CellFormat(40, 10, formatHours(v), "", 1, "L", false, 0, "")
		y += 13
	}
}

func (d *builder) emptyNote(msg string) {
	d.pdf.SetFont("Arial", "I", 13)
	d.pdf.SetXY(margin, 50)
	d.pdf.CellFormat(pageWidth-2*margin, 10, msg, "", 1, "L", false, 0, "")
}

func formatHours(v float64) string {
	return fmt.Sprintf("%.1fh", domain.Round1(v))
}

// FileName is the conventional deck file name for a month.
func FileName(month domain.Month) string {
	return fmt.Sprintf("time-report-%s.pdf", month.String())
}

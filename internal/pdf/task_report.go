package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"todoapp/internal/models"
)

// ReportGenerator — интерфейс (удобно мокать в тестах)
type ReportGenerator interface {
	TaskReport(w io.Writer, tasks []models.Task, generatedAt time.Time) error
}

type TaskReportGenerator struct {
	fontName string
}

func NewTaskReportGenerator() *TaskReportGenerator {
	return &TaskReportGenerator{fontName: "Helvetica"}
}

// TaskReport writes an A4 summary of the given tasks: status totals first,
// then one line per task.
func (g *TaskReportGenerator) TaskReport(w io.Writer, tasks []models.Task, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Task Report", false)
	pdf.SetAuthor("Todo App", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "TASK REPORT", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("Generated %s", generatedAt.Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	byStatus := map[models.TaskStatus]int{}
	for _, t := range tasks {
		byStatus[t.Status]++
	}

	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Total tasks", fmt.Sprintf("%d", len(tasks)))
	for _, st := range []models.TaskStatus{
		models.StatusPending, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled,
	} {
		g.kvLine(pdf, string(st), fmt.Sprintf("%d", byStatus[st]))
	}
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Tasks")
	pdf.SetFont(g.fontName, "", 10)
	for _, t := range tasks {
		line := fmt.Sprintf("#%d  %s  [%s/%s]  assignee=%d", t.ID, t.Name, t.Status, t.Priority, t.AssignedToID)
		pdf.SetX(20)
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}

// ===== helpers =====

func (g *TaskReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(g.fontName, "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *TaskReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, value string) {
	pdf.SetX(20)
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(55, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (g *TaskReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY()
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

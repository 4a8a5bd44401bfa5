package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todoapp/internal/middleware"
	"todoapp/internal/models"
	"todoapp/internal/pdf"
	"todoapp/internal/services"
)

type ReportHandler struct {
	tasks     services.TaskService
	generator pdf.ReportGenerator
}

func NewReportHandler(tasks services.TaskService, generator pdf.ReportGenerator) *ReportHandler {
	return &ReportHandler{tasks: tasks, generator: generator}
}

// @Summary      Task report PDF
// @Description  Streams a PDF summary of all tasks (admin only)
// @Tags         Admin
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200
// @Router       /admin/reports/tasks [get]
func (h *ReportHandler) TasksPDF(c *gin.Context) {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, err, "no authenticated user")
		return
	}

	tasks, err := h.tasks.ListAll(c.Request.Context(), actor, models.TaskFilter{})
	if err != nil {
		log.Printf("[report][tasks][err] %v", err)
		respondError(c, err, "failed to build report")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="tasks_report.pdf"`)
	c.Status(http.StatusOK)
	if err := h.generator.TaskReport(c.Writer, tasks, time.Now()); err != nil {
		log.Printf("[report][tasks][err] pdf output: %v", err)
	}
}

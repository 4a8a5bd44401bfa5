package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"todoapp/internal/middleware"
	"todoapp/internal/models"
	"todoapp/internal/services"
)

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// @Summary      Create a task
// @Description  Creates a task and assigns it to a user (admin only)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  models.Task
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req struct {
		AssignedToID int                 `json:"assigned_to_id" binding:"required"`
		Name         string              `json:"name" binding:"required"`
		Description  string              `json:"description"`
		StartDate    string              `json:"start_date"` // RFC3339
		EndDate      string              `json:"end_date"`   // RFC3339
		Priority     models.TaskPriority `json:"priority"`   // low|medium|high
		Status       models.TaskStatus   `json:"status"`
	}

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, err, "no authenticated user")
		return
	}
	log.Printf("[task][create] call by userID=%d role=%s", actor.ID, actor.Role)

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, ok := parseOptionalTime(c, req.StartDate, "start_date")
	if !ok {
		return
	}
	end, ok := parseOptionalTime(c, req.EndDate, "end_date")
	if !ok {
		return
	}

	task := &models.Task{
		AssignedToID: req.AssignedToID,
		Name:         req.Name,
		Description:  req.Description,
		StartDate:    start,
		EndDate:      end,
		Priority:     req.Priority,
		Status:       req.Status,
	}

	created, err := h.service.Create(c.Request.Context(), actor, task)
	if err != nil {
		log.Printf("[task][create][err] %v", err)
		respondError(c, err, "failed to create task")
		return
	}
	log.Printf("[task][create][ok] id=%d assigned_to=%d name=%q", created.ID, created.AssignedToID, created.Name)
	c.JSON(http.StatusCreated, created)
}

// @Summary      List all tasks
// @Description  Lists every task with optional filters (admin only)
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Task
// @Router       /admin/tasks [get]
func (h *TaskHandler) ListAll(c *gin.Context) {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, err, "no authenticated user")
		return
	}
	log.Printf("[task][list] call by userID=%d q=%v", actor.ID, c.Request.URL.RawQuery)

	filter, ok := buildFilter(c, true)
	if !ok {
		return
	}

	tasks, err := h.service.ListAll(c.Request.Context(), actor, filter)
	if err != nil {
		log.Printf("[task][list][err] %v", err)
		respondError(c, err, "failed to retrieve tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	log.Printf("[task][list][ok] count=%d", len(tasks))
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Update a task
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Task
// @Failure      404  {object}  map[string]string
// @Router       /admin/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, err, "no authenticated user")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		AssignedToID int                 `json:"assigned_to_id"`
		Name         string              `json:"name"`
		Description  string              `json:"description"`
		StartDate    string              `json:"start_date"`
		EndDate      string              `json:"end_date"`
		Priority     models.TaskPriority `json:"priority"`
		Status       models.TaskStatus   `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, ok := parseOptionalTime(c, req.StartDate, "start_date")
	if !ok {
		return
	}
	end, ok := parseOptionalTime(c, req.EndDate, "end_date")
	if !ok {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), actor, id, &models.Task{
		AssignedToID: req.AssignedToID,
		Name:         req.Name,
		Description:  req.Description,
		StartDate:    start,
		EndDate:      end,
		Priority:     req.Priority,
		Status:       req.Status,
	})
	if err != nil {
		log.Printf("[task][update][err] id=%d: %v", id, err)
		respondError(c, err, "failed to update task")
		return
	}
	log.Printf("[task][update][ok] id=%d", id)
	c.JSON(http.StatusOK, updated)
}

// @Summary      Delete a task
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, err, "no authenticated user")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		log.Printf("[task][delete][err] id=%d: %v", id, err)
		respondError(c, err, "failed to delete task")
		return
	}
	log.Printf("[task][delete][ok] id=%d", id)
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// @Summary      List own tasks
// @Description  Lists tasks assigned to the caller
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Task
// @Router       /user/tasks [get]
func (h *TaskHandler) ListAssigned(c *gin.Context) {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, err, "no authenticated user")
		return
	}

	filter, ok := buildFilter(c, false)
	if !ok {
		return
	}

	tasks, err := h.service.ListAssigned(c.Request.Context(), actor, filter)
	if err != nil {
		log.Printf("[task][listOwn][err] userID=%d: %v", actor.ID, err)
		respondError(c, err, "failed to retrieve tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Get one of own tasks
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Task
// @Failure      404  {object}  map[string]string
// @Router       /user/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, err, "no authenticated user")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		log.Printf("[task][getByID][err] id=%d userID=%d: %v", id, actor.ID, err)
		respondError(c, err, "failed to get task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Complete a task
// @Description  Marks an assigned task completed and notifies the creator
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /user/tasks/{id}/complete [put]
func (h *TaskHandler) Complete(c *gin.Context) {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, err, "no authenticated user")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if _, err := h.service.ChangeStatus(c.Request.Context(), actor, id, models.StatusCompleted); err != nil {
		log.Printf("[task][complete][err] id=%d userID=%d: %v", id, actor.ID, err)
		respondError(c, err, "failed to complete task")
		return
	}
	log.Printf("[task][complete][ok] id=%d userID=%d", id, actor.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Task marked as completed"})
}

// @Summary      Change task status
// @Description  Transitions an assigned task; cancelling an admin-assigned task is forbidden for the assignee
// @Tags         User
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Task
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /user/tasks/{id}/status [post]
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, err, "no authenticated user")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.ChangeStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		log.Printf("[task][status][err] id=%d userID=%d to=%s: %v", id, actor.ID, req.Status, err)
		respondError(c, err, "failed to change status")
		return
	}
	log.Printf("[task][status][ok] id=%d to=%s", id, req.Status)
	c.JSON(http.StatusOK, updated)
}

func parseOptionalTime(c *gin.Context, value, field string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field + " (RFC3339)"})
		return nil, false
	}
	return &t, true
}

func buildFilter(c *gin.Context, withDates bool) (models.TaskFilter, bool) {
	var filter models.TaskFilter
	if v, ok := c.GetQuery("status"); ok {
		st := models.TaskStatus(v)
		filter.Status = &st
	}
	if v, ok := c.GetQuery("priority"); ok {
		p := models.TaskPriority(v)
		filter.Priority = &p
	}
	if withDates {
		if v, ok := c.GetQuery("start_date"); ok {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date (RFC3339)"})
				return filter, false
			}
			filter.StartsAfter = &t
		}
		if v, ok := c.GetQuery("end_date"); ok {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date (RFC3339)"})
				return filter, false
			}
			filter.EndsBefore = &t
		}
	}
	filter.Limit = queryInt(c, "limit", 100)
	filter.Offset = queryInt(c, "skip", 0)
	return filter, true
}

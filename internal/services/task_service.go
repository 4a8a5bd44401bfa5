package services

import (
	"context"
	"log"

	"todoapp/internal/apperrors"
	"todoapp/internal/authz"
	"todoapp/internal/models"
	"todoapp/internal/repositories"
)

// TaskService defines the interface for task-related business logic.
// Permission checks run here, before any write, so every caller gets the
// same role/ownership rules.
type TaskService interface {
	Create(ctx context.Context, creator *models.User, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, actor *models.User, id int64) (*models.Task, error)
	ListAll(ctx context.Context, actor *models.User, filter models.TaskFilter) ([]models.Task, error)
	ListAssigned(ctx context.Context, actor *models.User, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, actor *models.User, id int64, updateData *models.Task) (*models.Task, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
	ChangeStatus(ctx context.Context, actor *models.User, id int64, to models.TaskStatus) (*models.Task, error)
}

type taskService struct {
	repo  repositories.TaskRepository
	users repositories.UserRepository
	email EmailService
	tg    *TelegramService
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repositories.TaskRepository, users repositories.UserRepository, email EmailService, tg *TelegramService) TaskService {
	return &taskService{repo: repo, users: users, email: email, tg: tg}
}

func (s *taskService) Create(ctx context.Context, creator *models.User, task *models.Task) (*models.Task, error) {
	if !authz.IsAdmin(creator) {
		return nil, apperrors.Forbidden("admin access required")
	}
	if task.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if task.StartDate != nil && task.EndDate != nil && task.EndDate.Before(*task.StartDate) {
		return nil, apperrors.Validation("end_date must not be before start_date")
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !task.Status.Valid() {
		return nil, apperrors.Validation("invalid status")
	}
	if !task.Priority.Valid() {
		return nil, apperrors.Validation("invalid priority")
	}

	assignee, err := s.users.GetByID(task.AssignedToID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.NotFound("assigned user not found")
		}
		return nil, err
	}

	task.CreatedByID = creator.ID
	task.IsAdminAssigned = true

	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}

	s.notifyAssigned(ctx, task, assignee)
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, actor *models.User, id int64) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CheckTask(actor, task, authz.ActionView, ""); !d.Allowed {
		// не раскрываем чужие задачи: для владельца это просто "нет такой"
		return nil, apperrors.NotFound("task not found")
	}
	return task, nil
}

func (s *taskService) ListAll(ctx context.Context, actor *models.User, filter models.TaskFilter) ([]models.Task, error) {
	if !authz.IsAdmin(actor) {
		return nil, apperrors.Forbidden("admin access required")
	}
	return s.repo.FindAll(ctx, filter)
}

func (s *taskService) ListAssigned(ctx context.Context, actor *models.User, filter models.TaskFilter) ([]models.Task, error) {
	filter.AssignedToID = &actor.ID
	return s.repo.FindAll(ctx, filter)
}

func (s *taskService) Update(ctx context.Context, actor *models.User, id int64, updateData *models.Task) (*models.Task, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CheckTask(actor, existing, authz.ActionManage, ""); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}
	if updateData.StartDate != nil && updateData.EndDate != nil && updateData.EndDate.Before(*updateData.StartDate) {
		return nil, apperrors.Validation("end_date must not be before start_date")
	}

	if updateData.AssignedToID != 0 && updateData.AssignedToID != existing.AssignedToID {
		if _, err := s.users.GetByID(updateData.AssignedToID); err != nil {
			if apperrors.KindOf(err) == apperrors.KindNotFound {
				return nil, apperrors.NotFound("assigned user not found")
			}
			return nil, err
		}
		existing.AssignedToID = updateData.AssignedToID
	}
	if updateData.Name != "" {
		existing.Name = updateData.Name
	}
	if updateData.Description != "" {
		existing.Description = updateData.Description
	}
	if updateData.StartDate != nil {
		existing.StartDate = updateData.StartDate
	}
	if updateData.EndDate != nil {
		existing.EndDate = updateData.EndDate
	}
	if updateData.Priority != "" {
		if !updateData.Priority.Valid() {
			return nil, apperrors.Validation("invalid priority")
		}
		existing.Priority = updateData.Priority
	}
	if updateData.Status != "" {
		if !updateData.Status.Valid() {
			return nil, apperrors.Validation("invalid status")
		}
		existing.Status = updateData.Status
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) Delete(ctx context.Context, actor *models.User, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if d := authz.CheckTask(actor, existing, authz.ActionManage, ""); !d.Allowed {
		return apperrors.Forbidden(d.Reason)
	}
	return s.repo.Delete(ctx, id)
}

func (s *taskService) ChangeStatus(ctx context.Context, actor *models.User, id int64, to models.TaskStatus) (*models.Task, error) {
	if !to.Valid() {
		return nil, apperrors.Validation("invalid status")
	}
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.IsAdmin(actor) && task.AssignedToID != actor.ID {
		return nil, apperrors.NotFound("task not found")
	}
	if d := authz.CheckTask(actor, task, authz.ActionTransition, to); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}

	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if to == models.StatusCompleted {
		s.notifyCompleted(ctx, updated, actor)
	}
	return updated, nil
}

// notifyAssigned is best-effort: a delivery failure is logged and recorded,
// never returned.
func (s *taskService) notifyAssigned(ctx context.Context, task *models.Task, assignee *models.User) {
	if s.email != nil {
		if err := s.email.SendTaskAssignedEmail(ctx, task, assignee); err != nil {
			log.Printf("[task][notify] warning: assignment email to %s failed: %v", assignee.Email, err)
		}
	}
	s.tg.NotifyTaskAssigned(ctx, task, assignee)
}

func (s *taskService) notifyCompleted(ctx context.Context, task *models.Task, completedBy *models.User) {
	creator, err := s.users.GetByID(task.CreatedByID)
	if err != nil {
		log.Printf("[task][notify] warning: creator %d not found for task %d: %v", task.CreatedByID, task.ID, err)
		return
	}
	if s.email != nil {
		if err := s.email.SendTaskCompletedEmail(ctx, task, completedBy, creator); err != nil {
			log.Printf("[task][notify] warning: completion email to %s failed: %v", creator.Email, err)
		}
	}
	s.tg.NotifyTaskCompleted(ctx, task, creator)
}

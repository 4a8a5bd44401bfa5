package services

import (
	"context"
	"testing"
	"time"

	"todoapp/internal/apperrors"
	"todoapp/internal/models"
)

func testAdmin() *models.User {
	return &models.User{ID: 1, Email: "admin@example.com", Role: models.RoleAdmin, ReceiveNotifications: true}
}

func testUser() *models.User {
	return &models.User{ID: 2, Email: "bob@example.com", Role: models.RoleUser, ReceiveNotifications: true}
}

func TestTaskCreateRequiresAdmin(t *testing.T) {
	svc := NewTaskService(&mockTaskRepo{}, newMockUserRepo(), &mockEmailService{}, nil)

	_, err := svc.Create(context.Background(), testUser(), &models.Task{Name: "x", AssignedToID: 2})
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestTaskCreateUnknownAssignee(t *testing.T) {
	users := newMockUserRepo()
	users.getByIDFunc = func(id int) (*models.User, error) {
		return nil, apperrors.NotFound("user not found")
	}
	svc := NewTaskService(&mockTaskRepo{}, users, &mockEmailService{}, nil)

	_, err := svc.Create(context.Background(), testAdmin(), &models.Task{Name: "x", AssignedToID: 99})
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTaskCreateDefaultsAndFlags(t *testing.T) {
	assignee := testUser()
	users := newMockUserRepo()
	users.getByIDFunc = func(id int) (*models.User, error) { return assignee, nil }

	var stored *models.Task
	repo := &mockTaskRepo{
		storeFunc: func(ctx context.Context, task *models.Task) error {
			task.ID = 10
			stored = task
			return nil
		},
	}
	email := &mockEmailService{}
	svc := NewTaskService(repo, users, email, nil)

	task, err := svc.Create(context.Background(), testAdmin(), &models.Task{Name: "deploy", AssignedToID: assignee.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if stored == nil {
		t.Fatal("task was never stored")
	}
	if task.Status != models.StatusPending {
		t.Errorf("default status = %q, want %q", task.Status, models.StatusPending)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("default priority = %q, want %q", task.Priority, models.PriorityMedium)
	}
	if !task.IsAdminAssigned {
		t.Error("task created by admin must be flagged admin-assigned")
	}
	if task.CreatedByID != 1 {
		t.Errorf("created_by = %d, want 1", task.CreatedByID)
	}
	if len(email.sent) != 1 || email.sent[0].kind != models.NotificationTaskAssigned {
		t.Errorf("expected one assignment email, got %v", email.sent)
	}
}

func TestTaskCreateEndBeforeStart(t *testing.T) {
	start := time.Now()
	end := start.Add(-time.Hour)
	svc := NewTaskService(&mockTaskRepo{}, newMockUserRepo(), &mockEmailService{}, nil)

	_, err := svc.Create(context.Background(), testAdmin(), &models.Task{
		Name: "x", AssignedToID: 2, StartDate: &start, EndDate: &end,
	})
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTaskCreateEmailFailureDoesNotFailCreate(t *testing.T) {
	assignee := testUser()
	users := newMockUserRepo()
	users.getByIDFunc = func(id int) (*models.User, error) { return assignee, nil }
	svc := NewTaskService(&mockTaskRepo{}, users, &mockEmailService{failAll: true}, nil)

	if _, err := svc.Create(context.Background(), testAdmin(), &models.Task{Name: "x", AssignedToID: assignee.ID}); err != nil {
		t.Fatalf("create must not fail on email error, got %v", err)
	}
}

func TestTaskGetByIDHidesOthersTasks(t *testing.T) {
	repo := &mockTaskRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Task, error) {
			return &models.Task{ID: id, AssignedToID: 7, CreatedByID: 1}, nil
		},
	}
	svc := NewTaskService(repo, newMockUserRepo(), &mockEmailService{}, nil)

	_, err := svc.GetByID(context.Background(), testUser(), 5)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found for someone else's task, got %v", err)
	}

	// the assignee sees it
	task, err := svc.GetByID(context.Background(), &models.User{ID: 7, Role: models.RoleUser}, 5)
	if err != nil {
		t.Fatalf("assignee get: %v", err)
	}
	if task.ID != 5 {
		t.Errorf("task.ID = %d, want 5", task.ID)
	}
}

func TestTaskListAllRequiresAdmin(t *testing.T) {
	svc := NewTaskService(&mockTaskRepo{}, newMockUserRepo(), &mockEmailService{}, nil)

	if _, err := svc.ListAll(context.Background(), testUser(), models.TaskFilter{}); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestTaskListAssignedForcesActorFilter(t *testing.T) {
	var got models.TaskFilter
	repo := &mockTaskRepo{
		findAllFunc: func(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
			got = filter
			return nil, nil
		},
	}
	svc := NewTaskService(repo, newMockUserRepo(), &mockEmailService{}, nil)

	other := 99
	if _, err := svc.ListAssigned(context.Background(), testUser(), models.TaskFilter{AssignedToID: &other}); err != nil {
		t.Fatalf("list assigned: %v", err)
	}
	if got.AssignedToID == nil || *got.AssignedToID != 2 {
		t.Errorf("filter must be pinned to the actor, got %v", got.AssignedToID)
	}
}

func TestTaskChangeStatusCancelAdminAssigned(t *testing.T) {
	task := &models.Task{ID: 3, AssignedToID: 2, CreatedByID: 1, Status: models.StatusPending, IsAdminAssigned: true}
	repo := &mockTaskRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Task, error) {
			copied := *task
			return &copied, nil
		},
		updateStatusFunc: func(ctx context.Context, id int64, to models.TaskStatus) error {
			task.Status = to
			return nil
		},
	}
	users := newMockUserRepo()
	users.getByIDFunc = func(id int) (*models.User, error) { return testAdmin(), nil }
	svc := NewTaskService(repo, users, &mockEmailService{}, nil)

	// the assignee may not cancel a task an admin assigned to them
	_, err := svc.ChangeStatus(context.Background(), testUser(), 3, models.StatusCancelled)
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("expected forbidden for assignee cancelling admin-assigned task, got %v", err)
	}
	if task.Status != models.StatusPending {
		t.Errorf("status changed despite denial: %q", task.Status)
	}

	// but completing it is fine
	updated, err := svc.ChangeStatus(context.Background(), testUser(), 3, models.StatusCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if updated.Status != models.StatusCompleted {
		t.Errorf("status = %q, want %q", updated.Status, models.StatusCompleted)
	}

	// and the admin can cancel it
	task.Status = models.StatusPending
	if _, err := svc.ChangeStatus(context.Background(), testAdmin(), 3, models.StatusCancelled); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
}

func TestTaskChangeStatusNonAssigneeGetsNotFound(t *testing.T) {
	repo := &mockTaskRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Task, error) {
			return &models.Task{ID: id, AssignedToID: 7, CreatedByID: 1, Status: models.StatusPending}, nil
		},
	}
	svc := NewTaskService(repo, newMockUserRepo(), &mockEmailService{}, nil)

	_, err := svc.ChangeStatus(context.Background(), testUser(), 4, models.StatusCompleted)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTaskChangeStatusInvalidValue(t *testing.T) {
	svc := NewTaskService(&mockTaskRepo{}, newMockUserRepo(), &mockEmailService{}, nil)

	_, err := svc.ChangeStatus(context.Background(), testUser(), 1, models.TaskStatus("done"))
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTaskCompleteNotifiesCreator(t *testing.T) {
	admin := testAdmin()
	task := &models.Task{ID: 3, AssignedToID: 2, CreatedByID: admin.ID, Status: models.StatusInProgress}
	repo := &mockTaskRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Task, error) {
			copied := *task
			return &copied, nil
		},
		updateStatusFunc: func(ctx context.Context, id int64, to models.TaskStatus) error {
			task.Status = to
			return nil
		},
	}
	users := newMockUserRepo()
	users.getByIDFunc = func(id int) (*models.User, error) { return admin, nil }
	email := &mockEmailService{}
	svc := NewTaskService(repo, users, email, nil)

	if _, err := svc.ChangeStatus(context.Background(), testUser(), 3, models.StatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(email.sent) != 1 || email.sent[0].kind != models.NotificationTaskCompleted {
		t.Fatalf("expected one completion email, got %v", email.sent)
	}
	if email.sent[0].recipient != admin.Email {
		t.Errorf("completion email went to %q, want creator %q", email.sent[0].recipient, admin.Email)
	}
}

func TestTaskUpdateMergesFields(t *testing.T) {
	stored := &models.Task{ID: 3, Name: "old", Description: "d", AssignedToID: 2, CreatedByID: 1,
		Status: models.StatusPending, Priority: models.PriorityLow}
	repo := &mockTaskRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Task, error) {
			copied := *stored
			return &copied, nil
		},
		updateFunc: func(ctx context.Context, task *models.Task) error {
			stored = task
			return nil
		},
	}
	svc := NewTaskService(repo, newMockUserRepo(), &mockEmailService{}, nil)

	updated, err := svc.Update(context.Background(), testAdmin(), 3, &models.Task{Name: "new", Priority: models.PriorityHigh})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "new" || updated.Priority != models.PriorityHigh {
		t.Errorf("updated fields not applied: %+v", updated)
	}
	if updated.Description != "d" || updated.Status != models.StatusPending {
		t.Errorf("untouched fields must survive: %+v", updated)
	}
}

func TestTaskUpdateAndDeleteRequireAdmin(t *testing.T) {
	repo := &mockTaskRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Task, error) {
			return &models.Task{ID: id, AssignedToID: 2, CreatedByID: 1}, nil
		},
	}
	svc := NewTaskService(repo, newMockUserRepo(), &mockEmailService{}, nil)

	if _, err := svc.Update(context.Background(), testUser(), 3, &models.Task{Name: "x"}); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("update: expected forbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), testUser(), 3); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("delete: expected forbidden, got %v", err)
	}
}

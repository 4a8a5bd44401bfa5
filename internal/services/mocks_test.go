package services

import (
	"context"
	"errors"

	"todoapp/internal/models"
)

type mockUserRepo struct {
	createFunc     func(user *models.User) error
	getByIDFunc    func(id int) (*models.User, error)
	getByEmailFunc func(email string) (*models.User, error)
	getByOAuthFunc func(provider, oauthID string) (*models.User, error)

	verifiedIDs  []int
	prefUpdates  map[int]bool
	tgUpdates    map[int]int64
	oauthUpdates map[int]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		prefUpdates:  map[int]bool{},
		tgUpdates:    map[int]int64{},
		oauthUpdates: map[int]string{},
	}
}

func (m *mockUserRepo) Create(user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) GetByID(id int) (*models.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(id)
	}
	return nil, errors.New("getByIDFunc not set")
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(email)
	}
	return nil, errors.New("getByEmailFunc not set")
}

func (m *mockUserRepo) GetByOAuth(provider, oauthID string) (*models.User, error) {
	if m.getByOAuthFunc != nil {
		return m.getByOAuthFunc(provider, oauthID)
	}
	return nil, errors.New("getByOAuthFunc not set")
}

func (m *mockUserRepo) List(limit, offset int) ([]*models.User, error) { return nil, nil }

func (m *mockUserRepo) MarkEmailVerified(userID int) error {
	m.verifiedIDs = append(m.verifiedIDs, userID)
	return nil
}

func (m *mockUserRepo) UpdateNotificationPref(userID int, receive bool) error {
	m.prefUpdates[userID] = receive
	return nil
}

func (m *mockUserRepo) UpdateTelegramLink(userID int, chatID int64) error {
	m.tgUpdates[userID] = chatID
	return nil
}

func (m *mockUserRepo) UpdateOAuthLink(userID int, provider, oauthID string) error {
	m.oauthUpdates[userID] = provider + ":" + oauthID
	return nil
}

type mockTaskRepo struct {
	storeFunc        func(ctx context.Context, task *models.Task) error
	findByIDFunc     func(ctx context.Context, id int64) (*models.Task, error)
	findAllFunc      func(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	updateFunc       func(ctx context.Context, task *models.Task) error
	deleteFunc       func(ctx context.Context, id int64) error
	updateStatusFunc func(ctx context.Context, id int64, to models.TaskStatus) error
}

func (m *mockTaskRepo) Store(ctx context.Context, task *models.Task) error {
	if m.storeFunc != nil {
		return m.storeFunc(ctx, task)
	}
	task.ID = 1
	return nil
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockTaskRepo) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, task)
	}
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, to)
	}
	return nil
}

type sentMail struct {
	kind      string
	recipient string
}

type mockEmailService struct {
	sent    []sentMail
	failAll bool
}

func (m *mockEmailService) SendVerificationEmail(ctx context.Context, user *models.User, token string) error {
	m.sent = append(m.sent, sentMail{kind: models.NotificationEmailVerification, recipient: user.Email})
	if m.failAll {
		return errors.New("smtp down")
	}
	return nil
}

func (m *mockEmailService) SendTaskAssignedEmail(ctx context.Context, task *models.Task, assignee *models.User) error {
	m.sent = append(m.sent, sentMail{kind: models.NotificationTaskAssigned, recipient: assignee.Email})
	if m.failAll {
		return errors.New("smtp down")
	}
	return nil
}

func (m *mockEmailService) SendTaskCompletedEmail(ctx context.Context, task *models.Task, completedBy, creator *models.User) error {
	m.sent = append(m.sent, sentMail{kind: models.NotificationTaskCompleted, recipient: creator.Email})
	if m.failAll {
		return errors.New("smtp down")
	}
	return nil
}

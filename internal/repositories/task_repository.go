package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"todoapp/internal/apperrors"
	"todoapp/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			created_by_id, assigned_to_id, name, description,
			start_date, end_date, priority, status, is_admin_assigned,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.CreatedByID, task.AssignedToID, task.Name, task.Description,
		task.StartDate, task.EndDate, task.Priority, task.Status, task.IsAdminAssigned,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT id, created_by_id, assigned_to_id, name, description,
       start_date, end_date, priority, status, is_admin_assigned, created_at, updated_at
       FROM tasks WHERE id = $1`
	task := &models.Task{}
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.CreatedByID, &task.AssignedToID, &task.Name, &description,
		&task.StartDate, &task.EndDate, &task.Priority, &task.Status,
		&task.IsAdminAssigned, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("task not found")
		}
		return nil, err
	}
	if description.Valid {
		task.Description = description.String
	}
	return task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT id, created_by_id, assigned_to_id, name, description,
       start_date, end_date, priority, status, is_admin_assigned, created_at, updated_at FROM tasks`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.AssignedToID != nil {
		conditions = append(conditions, fmt.Sprintf("assigned_to_id = $%d", argID))
		args = append(args, *filter.AssignedToID)
		argID++
	}
	if filter.CreatedByID != nil {
		conditions = append(conditions, fmt.Sprintf("created_by_id = $%d", argID))
		args = append(args, *filter.CreatedByID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argID))
		args = append(args, *filter.Priority)
		argID++
	}
	if filter.StartsAfter != nil {
		conditions = append(conditions, fmt.Sprintf("start_date >= $%d", argID))
		args = append(args, *filter.StartsAfter)
		argID++
	}
	if filter.EndsBefore != nil {
		conditions = append(conditions, fmt.Sprintf("end_date <= $%d", argID))
		args = append(args, *filter.EndsBefore)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		baseQuery += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		baseQuery += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var description sql.NullString
		if err := rows.Scan(
			&t.ID, &t.CreatedByID, &t.AssignedToID, &t.Name, &description,
			&t.StartDate, &t.EndDate, &t.Priority, &t.Status,
			&t.IsAdminAssigned, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if description.Valid {
			t.Description = description.String
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			assigned_to_id=$1, name=$2, description=$3, start_date=$4,
			end_date=$5, priority=$6, status=$7, updated_at=NOW()
		WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query,
		task.AssignedToID, task.Name, task.Description, task.StartDate,
		task.EndDate, task.Priority, task.Status, task.ID,
	)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	return err
}

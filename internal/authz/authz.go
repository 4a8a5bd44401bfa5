package authz

import "todoapp/internal/models"

// TaskAction is what an actor wants to do with a task.
type TaskAction string

const (
	ActionView   TaskAction = "view"
	ActionManage TaskAction = "manage" // update/delete, admin only

	// ActionTransition changes the task status; pass the target status to
	// CheckTask so the cancellation rule can be applied.
	ActionTransition TaskAction = "transition"
)

// Decision is the outcome of a permission check. Reason is set on deny and
// is safe to return to the client.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// CheckTask evaluates whether actor may perform action on task.
// Role axis: admins may do anything. Ownership axis: a regular user only
// touches tasks assigned to them. Transition rule: an admin-assigned task
// may not be cancelled by its assignee, only by its creator or an admin.
// Any other status jump is allowed, including pending -> completed directly.
func CheckTask(actor *models.User, task *models.Task, action TaskAction, to models.TaskStatus) Decision {
	if actor == nil {
		return deny("no actor")
	}
	if IsAdmin(actor) {
		return allow()
	}
	if action == ActionManage {
		return deny("admin access required")
	}
	if task == nil || task.AssignedToID != actor.ID {
		return deny("task not assigned to you")
	}
	if action == ActionTransition && to == models.StatusCancelled &&
		task.IsAdminAssigned && task.CreatedByID != actor.ID {
		return deny("cannot cancel an admin-assigned task")
	}
	return allow()
}

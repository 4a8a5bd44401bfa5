package authz

import "todoapp/internal/models"

func IsAdmin(u *models.User) bool {
	return u != nil && u.Role == models.RoleAdmin
}

package main

import "todoapp/internal/app"

// @title           Todo App API
// @version         1.0
// @description     Todo list service with admin-assigned tasks and email notifications.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}

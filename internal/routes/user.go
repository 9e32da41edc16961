package routes

import (
	"github.com/labstack/echo/v4"

	"parc-info/internal/controllers"
)

func runUserRouter(admin *echo.Group, ctrl *controllers.UserController) {
	admin.GET("/getAllUsers", ctrl.GetAllUsers)
	admin.DELETE("/deleteUser/:id", ctrl.DeleteUser)
}

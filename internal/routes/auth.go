package routes

import (
	"github.com/labstack/echo/v4"

	"parc-info/internal/controllers"
)

func runAuthRouter(public *echo.Group, authed *echo.Group, ctrl *controllers.AuthController) {
	public.POST("/register", ctrl.Register)
	public.POST("/login", ctrl.Login)

	authed.GET("/logout", ctrl.Logout)
	authed.GET("/getRole", ctrl.GetRole)
	authed.GET("/getUser", ctrl.GetUser)
}

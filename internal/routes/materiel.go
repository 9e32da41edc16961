package routes

import (
	"github.com/labstack/echo/v4"

	"parc-info/internal/controllers"
)

func runMaterielRouter(authed *echo.Group, gestion *echo.Group, ctrl *controllers.MaterielController) {
	// Read-only listing is open to every authenticated user: plain users
	// browse the inventory to pick a designation before submitting a demande.
	authed.GET("/getMateriels", ctrl.GetMateriels)

	gestion.POST("/createMateriel", ctrl.CreateMateriel)
	gestion.GET("/getMatNoAffectation", ctrl.GetMaterielsSansAffectation)
	gestion.PUT("/updateMateriel/:sn", ctrl.UpdateMateriel)
	gestion.DELETE("/deleteMateriel/:sn", ctrl.DeleteMateriel)
	gestion.POST("/importMateriels", ctrl.ImportMateriels)
	gestion.GET("/exportMateriels", ctrl.ExportMateriels)
}

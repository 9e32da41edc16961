package routes

import (
	"github.com/labstack/echo/v4"

	"parc-info/internal/controllers"
)

func runDemandeRouter(authed *echo.Group, gestion *echo.Group, ctrl *controllers.DemandeController) {
	// Any authenticated user can submit and follow their own demandes.
	authed.POST("/createDemande", ctrl.CreateDemande)
	authed.GET("/getDemandes", ctrl.GetDemandes)

	// Deciding and managing affectations is reserved to the stock managers.
	gestion.GET("/getAllDemandes", ctrl.GetAllDemandes)
	gestion.PATCH("/updateDemande/:id", ctrl.UpdateDemande)
	gestion.GET("/getAffect", ctrl.GetAffect)
	gestion.DELETE("/delAffect/:id", ctrl.DelAffect)
}

// file: internals/features/training/centres/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	centreCtrl "pelatihanku_backend/internals/features/training/centres/controller"
)

func TrainingCentreAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := centreCtrl.NewTrainingCentreController(db)

	g := r.Group("/centres")
	g.Post("/", ctl.CreateTrainingCentre)
	g.Get("/", ctl.ListTrainingCentres)
	g.Get("/:id", ctl.GetTrainingCentreByID)
}

func TrainingCentrePublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := centreCtrl.NewTrainingCentreController(db)

	g := r.Group("/centres")
	g.Get("/", ctl.ListTrainingCentres)
	g.Get("/:id", ctl.GetTrainingCentreByID)
}

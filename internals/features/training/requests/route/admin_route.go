// file: internals/features/training/requests/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	requestCtrl "pelatihanku_backend/internals/features/training/requests/controller"
)

func TrainingRequestAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := requestCtrl.NewTrainingRequestController(db)

	g := r.Group("/training-requests")
	g.Post("/", ctl.CreateTrainingRequest)
	g.Get("/", ctl.ListTrainingRequests)
	g.Get("/:id", ctl.GetTrainingRequestByID)
	g.Get("/:id/available-participants", ctl.GetAvailableParticipants)
}

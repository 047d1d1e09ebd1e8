// file: internals/features/training/batches/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	batchCtrl "pelatihanku_backend/internals/features/training/batches/controller"
	middlewares "pelatihanku_backend/internals/middlewares"
)

func TrainingBatchAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := batchCtrl.NewTrainingBatchController(db)

	g := r.Group("/batches")
	g.Post("/allocate", middlewares.AllocationRateLimiter(), ctl.AllocateBatches)
	g.Get("/:id", ctl.GetBatchByID)
	g.Get("/:id/roster", ctl.GetBatchRoster)
	g.Put("/:id/daily-start-time", ctl.SetDailyStartTime)
}

func TrainingBatchPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := batchCtrl.NewTrainingBatchController(db)

	g := r.Group("/batches")
	g.Get("/:id", ctl.GetBatchByID)
	g.Get("/:id/roster", ctl.GetBatchRoster)
}

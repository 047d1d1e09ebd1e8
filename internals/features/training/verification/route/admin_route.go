// file: internals/features/training/verification/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	verifCtrl "pelatihanku_backend/internals/features/training/verification/controller"
)

func VerificationAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := verifCtrl.NewVerificationController(db)

	g := r.Group("/batches/:batch_id/verifications")
	g.Post("/", ctl.VerifyParticipant)
	g.Get("/", ctl.GetBatchVerificationStatus)
}

func VerificationPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := verifCtrl.NewVerificationController(db)

	r.Get("/batches/:batch_id/verifications", ctl.GetBatchVerificationStatus)
}

// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "pelatihanku_backend/internals/features/training/attendance/route"
	batchRoute "pelatihanku_backend/internals/features/training/batches/route"
	centreRoute "pelatihanku_backend/internals/features/training/centres/route"
	requestRoute "pelatihanku_backend/internals/features/training/requests/route"
	verifRoute "pelatihanku_backend/internals/features/training/verification/route"
	authMiddleware "pelatihanku_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	app.Get("/uptime", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"uptime": time.Since(startTime).String()})
	})

	// ===================== PUBLIC =====================
	// Read-only: tanpa JWT
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")
	centreRoute.TrainingCentrePublicRoutes(public, db)
	batchRoute.TrainingBatchPublicRoutes(public, db)
	verifRoute.VerificationPublicRoutes(public, db)
	attendanceRoute.AttendancePublicRoutes(public, db)

	// ===================== ADMIN =====================
	// Seluruh operasi tulis: alokasi, verifikasi, absensi
	log.Println("[INFO] Setting up ADMIN group (Auth)...")
	admin := app.Group("/api/a", authMiddleware.AuthMiddleware())
	centreRoute.TrainingCentreAdminRoutes(admin, db)
	requestRoute.TrainingRequestAdminRoutes(admin, db)
	batchRoute.TrainingBatchAdminRoutes(admin, db)
	verifRoute.VerificationAdminRoutes(admin, db)
	attendanceRoute.AttendanceAdminRoutes(admin, db)
}

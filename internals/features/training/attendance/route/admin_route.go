// file: internals/features/training/attendance/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceCtrl "pelatihanku_backend/internals/features/training/attendance/controller"
	"pelatihanku_backend/internals/middlewares"
)

func AttendanceAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := attendanceCtrl.NewAttendanceController(db)

	g := r.Group("/batches/:batch_id/attendance")
	g.Get("/schedule", ctl.GetScheduleStatus)
	g.Get("/days/:date", ctl.GetDayDetail)
	g.Post("/days", middlewares.AttendanceRateLimiter(), ctl.RecordDay)
	g.Post("/backfill", middlewares.AttendanceRateLimiter(), ctl.BackfillAbsent)
}

func AttendancePublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := attendanceCtrl.NewAttendanceController(db)

	g := r.Group("/batches/:batch_id/attendance")
	g.Get("/schedule", ctl.GetScheduleStatus)
	g.Get("/days/:date", ctl.GetDayDetail)
}

// file: internals/features/training/attendance/controller/attendance_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/constants"
	helper "pelatihanku_backend/internals/helpers"
	"pelatihanku_backend/internals/helpers/errs"

	attendanceDTO "pelatihanku_backend/internals/features/training/attendance/dto"
	attendanceService "pelatihanku_backend/internals/features/training/attendance/service"
)

type AttendanceController struct {
	DB        *gorm.DB
	Validator *validator.Validate

	Svc *attendanceService.RecorderService
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{
		DB:        db,
		Validator: validator.New(),
		Svc:       attendanceService.NewRecorderService(db),
	}
}

// GET /batches/:batch_id/attendance/schedule
// State per tanggal sepanjang span + daftar hari bolong urut naik.
func (ctl *AttendanceController) GetScheduleStatus(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("batch_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	days, missing, fully, err := ctl.Svc.ScheduleStatus(c.UserContext(), batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Batch tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil status jadwal")
	}

	return helper.Success(c, "OK", attendanceDTO.ScheduleStatusResponse{
		BatchID:       batchID,
		FullyVerified: fully,
		Days:          days,
		MissingDates:  missing,
	})
}

// GET /batches/:batch_id/attendance/days/:date
func (ctl *AttendanceController) GetDayDetail(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("batch_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}
	date, err := time.Parse(constants.DateLayout, c.Params("date"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}

	day, rows, err := ctl.Svc.DayDetail(c.UserContext(), batchID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Absensi tanggal ini belum tercatat")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil detail absensi")
	}

	return helper.Success(c, "OK", attendanceDTO.AttendanceDayDetailResponse{
		Day:          attendanceDTO.NewAttendanceDayResponse(day),
		Participants: attendanceDTO.NewParticipantAttendanceResponses(rows),
	})
}

// POST /batches/:batch_id/attendance/days
// Hanya jalan saat window tanggal tsb OPEN; peserta di luar presence = absen.
func (ctl *AttendanceController) RecordDay(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	batchID, err := uuid.Parse(c.Params("batch_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var req attendanceDTO.RecordDayRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	date, err := time.Parse(constants.DateLayout, req.Date)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}

	day, outcomes, err := ctl.Svc.RecordDay(c.UserContext(), batchID, date, req.PresenceMap(), actorID)
	if err != nil {
		if pe, ok := errs.AsPrecondition(err); ok {
			return helper.ErrorWithDetails(c, fiber.StatusUnprocessableEntity, pe.Message, fiber.Map{"code": pe.Code})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Batch tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mencatat absensi")
	}

	failed := 0
	for _, o := range outcomes {
		if o.Error != "" {
			failed++
		}
	}
	msg := "Absensi tercatat"
	if failed > 0 {
		msg = "Absensi tercatat sebagian; ulangi untuk peserta yang gagal"
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, msg, attendanceDTO.RecordDayResponse{
		Day:      attendanceDTO.NewAttendanceDayResponse(day),
		Outcomes: outcomes,
		Failed:   failed,
	})
}

// POST /batches/:batch_id/attendance/backfill
// Idempoten: retry setelah gagal separuh melanjutkan sisanya.
func (ctl *AttendanceController) BackfillAbsent(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	batchID, err := uuid.Parse(c.Params("batch_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var req attendanceDTO.BackfillAbsentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	dates, err := attendanceDTO.ParseDates(req.Dates)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}

	results, err := ctl.Svc.BackfillAbsent(c.UserContext(), batchID, dates, actorID)
	if err != nil {
		if pe, ok := errs.AsPrecondition(err); ok {
			return helper.ErrorWithDetails(c, fiber.StatusUnprocessableEntity, pe.Message, fiber.Map{"code": pe.Code})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Batch tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memproses backfill")
	}

	return helper.Success(c, "Backfill selesai", attendanceDTO.BackfillAbsentResponse{
		BatchID: batchID,
		Results: results,
	})
}

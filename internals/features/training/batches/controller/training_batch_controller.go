// file: internals/features/training/batches/controller/training_batch_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "pelatihanku_backend/internals/helpers"
	"pelatihanku_backend/internals/helpers/errs"

	batchDTO "pelatihanku_backend/internals/features/training/batches/dto"
	batchModel "pelatihanku_backend/internals/features/training/batches/model"
	batchService "pelatihanku_backend/internals/features/training/batches/service"
)

type TrainingBatchController struct {
	DB        *gorm.DB
	Validator *validator.Validate

	AllocSvc *batchService.AllocationService
}

func NewTrainingBatchController(db *gorm.DB) *TrainingBatchController {
	return &TrainingBatchController{
		DB:        db,
		Validator: validator.New(),
		AllocSvc:  batchService.NewAllocationService(db),
	}
}

// POST /batches/allocate
// Satu sesi alokasi: beberapa batch dibuat bersama, claimed-set dibagi lintas
// batch supaya tidak ada double booking. Error validasi dilaporkan per batch.
func (ctl *TrainingBatchController) AllocateBatches(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req batchDTO.AllocateBatchesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	session := batchService.NewAllocationSession()
	outcomes := make([]batchDTO.BatchAllocationOutcome, 0, len(req.Batches))
	failed := 0

	for i := range req.Batches {
		in := req.Batches[i].ToBatchInput()

		rows, err := ctl.AllocSvc.Allocate(c.UserContext(), session, in, actorID)
		if err != nil {
			if ve, ok := errs.AsValidation(err); ok {
				failed++
				outcomes = append(outcomes, batchDTO.BatchAllocationOutcome{Index: i, Errors: ve.Errors})
				continue
			}
			return helper.Error(c, fiber.StatusInternalServerError, "Gagal memproses alokasi")
		}

		resp := batchDTO.NewTrainingBatchResponse(in.Batch)
		roster := make([]batchDTO.RosterEntryResponse, 0, len(rows))
		for j := range rows {
			roster = append(roster, batchDTO.NewRosterEntryResponse(&rows[j], in.Batch.TrainingBatchRequestID))
		}
		outcomes = append(outcomes, batchDTO.BatchAllocationOutcome{Index: i, Batch: &resp, Roster: roster})
	}

	msg := "Semua batch berhasil dialokasikan"
	if failed > 0 {
		msg = "Sebagian batch gagal dialokasikan, periksa errors per batch"
	}
	return helper.Success(c, msg, fiber.Map{
		"allocation_session_id": session.ID,
		"outcomes":              outcomes,
	})
}

// GET /batches/:id
func (ctl *TrainingBatchController) GetBatchByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var b batchModel.TrainingBatchModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("training_batch_id = ?", id).
		Take(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Batch tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil batch")
	}
	return helper.Success(c, "OK", batchDTO.NewTrainingBatchResponse(&b))
}

// GET /batches/:id/roster
// Roster urut alokasi, dengan asal peserta (home/pooled request id).
func (ctl *TrainingBatchController) GetBatchRoster(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var b batchModel.TrainingBatchModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("training_batch_id = ?", id).
		Take(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Batch tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil batch")
	}

	var rows []batchModel.BatchParticipantModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("batch_participant_batch_id = ?", id).
		Order("batch_participant_created_at ASC").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil roster")
	}

	roster := make([]batchDTO.RosterEntryResponse, 0, len(rows))
	for i := range rows {
		roster = append(roster, batchDTO.NewRosterEntryResponse(&rows[i], b.TrainingBatchRequestID))
	}
	return helper.Success(c, "OK", fiber.Map{
		"batch":  batchDTO.NewTrainingBatchResponse(&b),
		"roster": roster,
	})
}

// PUT /batches/:id/daily-start-time
// Set-once: percobaan ke-2 dst. no-op, nilai pertama yang selalu dipakai scheduler.
func (ctl *TrainingBatchController) SetDailyStartTime(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var req batchDTO.SetDailyStartTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	stored, changed, err := ctl.AllocSvc.SetDailyStartTime(c.UserContext(), id, req.TrainingBatchDailyStartTime)
	if err != nil {
		if ve, ok := errs.AsValidation(err); ok {
			return helper.ErrorWithDetails(c, fiber.StatusBadRequest, "Validasi gagal", ve.Errors)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Batch tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menyimpan jam mulai")
	}

	msg := "Jam mulai absensi tersimpan"
	if !changed {
		msg = "Jam mulai sudah pernah diset, nilai tersimpan yang dipakai"
	}
	return helper.Success(c, msg, fiber.Map{
		"training_batch_daily_start_time": stored,
		"changed":                         changed,
	})
}

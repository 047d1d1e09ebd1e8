// file: internals/features/training/verification/controller/verification_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "pelatihanku_backend/internals/helpers"
	"pelatihanku_backend/internals/helpers/errs"

	verifDTO "pelatihanku_backend/internals/features/training/verification/dto"
	verifService "pelatihanku_backend/internals/features/training/verification/service"
)

type VerificationController struct {
	DB        *gorm.DB
	Validator *validator.Validate

	Svc *verifService.VerificationService
}

func NewVerificationController(db *gorm.DB) *VerificationController {
	return &VerificationController{
		DB:        db,
		Validator: validator.New(),
		Svc:       verifService.NewVerificationService(db),
	}
}

// POST /batches/:batch_id/verifications
// Idempoten: pasangan yang sudah verified mengembalikan record yang sama.
func (ctl *VerificationController) VerifyParticipant(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	batchID, err := uuid.Parse(c.Params("batch_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	var req verifDTO.VerifyParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	rec, err := ctl.Svc.Verify(c.UserContext(), batchID, req.ParticipantID, actorID)
	if err != nil {
		if pe, ok := errs.AsPrecondition(err); ok {
			return helper.ErrorWithDetails(c, fiber.StatusUnprocessableEntity, pe.Message, fiber.Map{"code": pe.Code})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Batch tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memproses verifikasi")
	}

	return helper.Success(c, "Peserta terverifikasi", verifDTO.NewVerificationRecordResponse(rec))
}

// GET /batches/:batch_id/verifications
// Status per peserta + agregat fully_verified (gate absensi).
func (ctl *VerificationController) GetBatchVerificationStatus(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("batch_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID batch tidak valid")
	}

	statuses, fully, err := ctl.Svc.BatchStatus(c.UserContext(), batchID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil status verifikasi")
	}

	return helper.Success(c, "OK", verifDTO.NewBatchVerificationStatusResponse(batchID, statuses, fully))
}

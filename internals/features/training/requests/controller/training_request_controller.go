// file: internals/features/training/requests/controller/training_request_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "pelatihanku_backend/internals/helpers"

	requestDTO "pelatihanku_backend/internals/features/training/requests/dto"
	requestModel "pelatihanku_backend/internals/features/training/requests/model"
	requestService "pelatihanku_backend/internals/features/training/requests/service"
)

type TrainingRequestController struct {
	DB        *gorm.DB
	Validator *validator.Validate

	Pool *requestService.ParticipantPool
}

func NewTrainingRequestController(db *gorm.DB) *TrainingRequestController {
	return &TrainingRequestController{
		DB:        db,
		Validator: validator.New(),
		Pool:      requestService.NewParticipantPool(db),
	}
}

// POST /training-requests
// Intake: request + daftar peserta dibuat sekali, peserta immutable setelahnya.
func (ctl *TrainingRequestController) CreateTrainingRequest(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req requestDTO.CreateTrainingRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	reqModel, participants := req.ToModels(actorID)

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reqModel).Error; err != nil {
			return err
		}
		for i := range participants {
			participants[i].TrainingParticipantRequestID = reqModel.TrainingRequestID
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menyimpan training request")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Training request berhasil dibuat",
		requestDTO.NewTrainingRequestResponse(reqModel, participants))
}

// GET /training-requests/:id
func (ctl *TrainingRequestController) GetTrainingRequestByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID request tidak valid")
	}

	var req requestModel.TrainingRequestModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("training_request_id = ?", id).
		Take(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Training request tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil training request")
	}

	var participants []requestModel.TrainingParticipantModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("training_participant_request_id = ?", id).
		Order("training_participant_created_at ASC").
		Find(&participants).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil peserta")
	}

	return helper.Success(c, "OK", requestDTO.NewTrainingRequestResponse(&req, participants))
}

// GET /training-requests?status=&partner_id=&page=&per_page=
func (ctl *TrainingRequestController) ListTrainingRequests(c *fiber.Ctx) error {
	p := helper.ParsePagination(c, "training_request_created_at", "desc")

	q := ctl.DB.WithContext(c.UserContext()).Model(&requestModel.TrainingRequestModel{})

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("training_request_status = ?", status)
	}
	if partner := strings.TrimSpace(c.Query("partner_id")); partner != "" {
		partnerID, err := uuid.Parse(partner)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "partner_id tidak valid")
		}
		q = q.Where("training_request_partner_id = ?", partnerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menghitung data")
	}

	var rows []requestModel.TrainingRequestModel
	if err := q.
		Order(p.SortBy + " " + p.SortOrder).
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	resp := make([]requestDTO.TrainingRequestResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, requestDTO.NewTrainingRequestResponse(&rows[i], nil))
	}

	return helper.Success(c, "OK", fiber.Map{
		"items":       resp,
		"page":        p.Page,
		"per_page":    p.PerPage,
		"total":       total,
		"total_pages": p.TotalPages(total),
	})
}

// GET /training-requests/:id/available-participants?pool_siblings=true
// Preview isi pool untuk alokasi; hasil tidak boleh di-cache antar langkah alokasi.
func (ctl *TrainingRequestController) GetAvailableParticipants(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID request tidak valid")
	}
	poolSiblings := c.QueryBool("pool_siblings", false)

	rows, err := ctl.Pool.AvailableParticipants(c.UserContext(), id, poolSiblings, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Training request tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil pool peserta")
	}

	resp := make([]requestDTO.TrainingParticipantResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, requestDTO.NewTrainingParticipantResponse(&rows[i]))
	}
	return helper.Success(c, "OK", resp)
}

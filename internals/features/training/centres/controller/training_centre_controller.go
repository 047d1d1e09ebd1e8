// file: internals/features/training/centres/controller/training_centre_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "pelatihanku_backend/internals/helpers"

	centreDTO "pelatihanku_backend/internals/features/training/centres/dto"
	centreModel "pelatihanku_backend/internals/features/training/centres/model"
)

// Direktori balai pelatihan: lookup read-mostly yang dikonsumsi alokasi batch.
type TrainingCentreController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewTrainingCentreController(db *gorm.DB) *TrainingCentreController {
	return &TrainingCentreController{DB: db, Validator: validator.New()}
}

// POST /centres
func (ctl *TrainingCentreController) CreateTrainingCentre(c *fiber.Ctx) error {
	var req centreDTO.CreateTrainingCentreRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := ctl.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menyimpan balai pelatihan")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Balai pelatihan berhasil dibuat",
		centreDTO.NewTrainingCentreResponse(m))
}

// GET /centres?partner_id=
func (ctl *TrainingCentreController) ListTrainingCentres(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.UserContext()).Model(&centreModel.TrainingCentreModel{})

	if partner := strings.TrimSpace(c.Query("partner_id")); partner != "" {
		partnerID, err := uuid.Parse(partner)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "partner_id tidak valid")
		}
		q = q.Where("training_centre_partner_id = ?", partnerID)
	}

	var rows []centreModel.TrainingCentreModel
	if err := q.Order("training_centre_name ASC").Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil balai pelatihan")
	}

	resp := make([]centreDTO.TrainingCentreResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, centreDTO.NewTrainingCentreResponse(&rows[i]))
	}
	return helper.Success(c, "OK", resp)
}

// GET /centres/:id
func (ctl *TrainingCentreController) GetTrainingCentreByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID balai tidak valid")
	}

	var m centreModel.TrainingCentreModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("training_centre_id = ?", id).
		Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Balai pelatihan tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil balai pelatihan")
	}
	return helper.Success(c, "OK", centreDTO.NewTrainingCentreResponse(&m))
}

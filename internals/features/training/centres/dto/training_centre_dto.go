package dto

import (
	"github.com/google/uuid"

	centreModel "pelatihanku_backend/internals/features/training/centres/model"
)

type CreateTrainingCentreRequest struct {
	TrainingCentrePartnerID    uuid.UUID `json:"training_centre_partner_id" validate:"required"`
	TrainingCentreName         string    `json:"training_centre_name" validate:"required,min=3"`
	TrainingCentreAddress      *string   `json:"training_centre_address,omitempty"`
	TrainingCentreHallCapacity int       `json:"training_centre_hall_capacity" validate:"required,min=1"`
}

func (r *CreateTrainingCentreRequest) ToModel() *centreModel.TrainingCentreModel {
	return &centreModel.TrainingCentreModel{
		TrainingCentrePartnerID:    r.TrainingCentrePartnerID,
		TrainingCentreName:         r.TrainingCentreName,
		TrainingCentreAddress:      r.TrainingCentreAddress,
		TrainingCentreHallCapacity: r.TrainingCentreHallCapacity,
	}
}

type TrainingCentreResponse struct {
	TrainingCentreID           uuid.UUID `json:"training_centre_id"`
	TrainingCentrePartnerID    uuid.UUID `json:"training_centre_partner_id"`
	TrainingCentreName         string    `json:"training_centre_name"`
	TrainingCentreAddress      *string   `json:"training_centre_address,omitempty"`
	TrainingCentreHallCapacity int       `json:"training_centre_hall_capacity"`
}

func NewTrainingCentreResponse(m *centreModel.TrainingCentreModel) TrainingCentreResponse {
	return TrainingCentreResponse{
		TrainingCentreID:           m.TrainingCentreID,
		TrainingCentrePartnerID:    m.TrainingCentrePartnerID,
		TrainingCentreName:         m.TrainingCentreName,
		TrainingCentreAddress:      m.TrainingCentreAddress,
		TrainingCentreHallCapacity: m.TrainingCentreHallCapacity,
	}
}

// file: internals/features/training/requests/dto/training_request_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"pelatihanku_backend/internals/constants"
	requestModel "pelatihanku_backend/internals/features/training/requests/model"
)

/* ===================== Requests ===================== */

type TrainingRequestParticipantInput struct {
	TrainingParticipantRole string  `json:"training_participant_role" validate:"required,oneof=trainer trainee"`
	TrainingParticipantName string  `json:"training_participant_name" validate:"required,min=2"`
	TrainingParticipantNIK  *string `json:"training_participant_nik,omitempty" validate:"omitempty,len=16,numeric"`
}

type CreateTrainingRequestRequest struct {
	TrainingRequestPartnerID        uuid.UUID  `json:"training_request_partner_id" validate:"required"`
	TrainingRequestPlanID           uuid.UUID  `json:"training_request_plan_id" validate:"required"`
	TrainingRequestTrainingType     string     `json:"training_request_training_type" validate:"required,oneof=residential non_residential"`
	TrainingRequestBlockID          *uuid.UUID `json:"training_request_block_id,omitempty"`
	TrainingRequestDistrictID       *uuid.UUID `json:"training_request_district_id,omitempty"`
	TrainingRequestStartDate        string     `json:"training_request_start_date" validate:"required,datetime=2006-01-02"`
	TrainingRequestPlanDurationDays int        `json:"training_request_plan_duration_days" validate:"required,min=1,max=365"`

	Participants []TrainingRequestParticipantInput `json:"participants" validate:"required,min=1,dive"`
}

func (r *CreateTrainingRequestRequest) ToModels(actorID uuid.UUID) (*requestModel.TrainingRequestModel, []requestModel.TrainingParticipantModel) {
	startDate, _ := time.Parse(constants.DateLayout, r.TrainingRequestStartDate)

	req := &requestModel.TrainingRequestModel{
		TrainingRequestPartnerID:        r.TrainingRequestPartnerID,
		TrainingRequestPlanID:           r.TrainingRequestPlanID,
		TrainingRequestTrainingType:     requestModel.TrainingType(r.TrainingRequestTrainingType),
		TrainingRequestStatus:           requestModel.RequestStatusSubmitted,
		TrainingRequestBlockID:          r.TrainingRequestBlockID,
		TrainingRequestDistrictID:       r.TrainingRequestDistrictID,
		TrainingRequestStartDate:        startDate,
		TrainingRequestPlanDurationDays: r.TrainingRequestPlanDurationDays,
		TrainingRequestCreatedBy:        &actorID,
	}

	participants := make([]requestModel.TrainingParticipantModel, 0, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, requestModel.TrainingParticipantModel{
			TrainingParticipantRole:        requestModel.ParticipantRole(p.TrainingParticipantRole),
			TrainingParticipantName:        p.TrainingParticipantName,
			TrainingParticipantNIK:         p.TrainingParticipantNIK,
			TrainingParticipantClaimStatus: requestModel.ClaimStatusUnclaimed,
		})
	}
	return req, participants
}

/* ===================== Responses ===================== */

type TrainingParticipantResponse struct {
	TrainingParticipantID          uuid.UUID               `json:"training_participant_id"`
	TrainingParticipantRequestID   uuid.UUID               `json:"training_participant_request_id"`
	TrainingParticipantRole        string                  `json:"training_participant_role"`
	TrainingParticipantName        string                  `json:"training_participant_name"`
	TrainingParticipantClaimStatus requestModel.ClaimStatus `json:"training_participant_claim_status"`
}

func NewTrainingParticipantResponse(m *requestModel.TrainingParticipantModel) TrainingParticipantResponse {
	return TrainingParticipantResponse{
		TrainingParticipantID:          m.TrainingParticipantID,
		TrainingParticipantRequestID:   m.TrainingParticipantRequestID,
		TrainingParticipantRole:        string(m.TrainingParticipantRole),
		TrainingParticipantName:        m.TrainingParticipantName,
		TrainingParticipantClaimStatus: m.TrainingParticipantClaimStatus,
	}
}

type TrainingRequestResponse struct {
	TrainingRequestID               uuid.UUID  `json:"training_request_id"`
	TrainingRequestPartnerID        uuid.UUID  `json:"training_request_partner_id"`
	TrainingRequestPlanID           uuid.UUID  `json:"training_request_plan_id"`
	TrainingRequestTrainingType     string     `json:"training_request_training_type"`
	TrainingRequestStatus           string     `json:"training_request_status"`
	TrainingRequestBlockID          *uuid.UUID `json:"training_request_block_id,omitempty"`
	TrainingRequestDistrictID       *uuid.UUID `json:"training_request_district_id,omitempty"`
	TrainingRequestStartDate        string     `json:"training_request_start_date"`
	TrainingRequestPlanDurationDays int        `json:"training_request_plan_duration_days"`
	TrainingRequestCreatedAt        time.Time  `json:"training_request_created_at"`

	Participants []TrainingParticipantResponse `json:"participants,omitempty"`
}

func NewTrainingRequestResponse(m *requestModel.TrainingRequestModel, participants []requestModel.TrainingParticipantModel) TrainingRequestResponse {
	resp := TrainingRequestResponse{
		TrainingRequestID:               m.TrainingRequestID,
		TrainingRequestPartnerID:        m.TrainingRequestPartnerID,
		TrainingRequestPlanID:           m.TrainingRequestPlanID,
		TrainingRequestTrainingType:     string(m.TrainingRequestTrainingType),
		TrainingRequestStatus:           string(m.TrainingRequestStatus),
		TrainingRequestBlockID:          m.TrainingRequestBlockID,
		TrainingRequestDistrictID:       m.TrainingRequestDistrictID,
		TrainingRequestStartDate:        m.TrainingRequestStartDate.Format(constants.DateLayout),
		TrainingRequestPlanDurationDays: m.TrainingRequestPlanDurationDays,
		TrainingRequestCreatedAt:        m.TrainingRequestCreatedAt,
	}
	for i := range participants {
		resp.Participants = append(resp.Participants, NewTrainingParticipantResponse(&participants[i]))
	}
	return resp
}

// file: internals/features/training/verification/dto/verification_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	verifModel "pelatihanku_backend/internals/features/training/verification/model"
	verifService "pelatihanku_backend/internals/features/training/verification/service"
)

type VerifyParticipantRequest struct {
	ParticipantID uuid.UUID `json:"participant_id" validate:"required"`
}

type VerificationRecordResponse struct {
	ParticipantVerificationID            uuid.UUID  `json:"participant_verification_id"`
	ParticipantVerificationBatchID       uuid.UUID  `json:"participant_verification_batch_id"`
	ParticipantVerificationParticipantID uuid.UUID  `json:"participant_verification_participant_id"`
	ParticipantVerificationStatus        string     `json:"participant_verification_status"`
	ParticipantVerificationVerifiedAt    *time.Time `json:"participant_verification_verified_at,omitempty"`
}

func NewVerificationRecordResponse(m *verifModel.ParticipantVerificationModel) VerificationRecordResponse {
	return VerificationRecordResponse{
		ParticipantVerificationID:            m.ParticipantVerificationID,
		ParticipantVerificationBatchID:       m.ParticipantVerificationBatchID,
		ParticipantVerificationParticipantID: m.ParticipantVerificationParticipantID,
		ParticipantVerificationStatus:        string(m.ParticipantVerificationStatus),
		ParticipantVerificationVerifiedAt:    m.ParticipantVerificationVerifiedAt,
	}
}

type ParticipantStatusResponse struct {
	ParticipantID uuid.UUID  `json:"participant_id"`
	Status        string     `json:"status"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
}

type BatchVerificationStatusResponse struct {
	BatchID       uuid.UUID                   `json:"batch_id"`
	FullyVerified bool                        `json:"fully_verified"`
	Participants  []ParticipantStatusResponse `json:"participants"`
}

func NewBatchVerificationStatusResponse(batchID uuid.UUID, statuses []verifService.ParticipantVerificationStatus, fully bool) BatchVerificationStatusResponse {
	resp := BatchVerificationStatusResponse{BatchID: batchID, FullyVerified: fully}
	for _, s := range statuses {
		resp.Participants = append(resp.Participants, ParticipantStatusResponse{
			ParticipantID: s.ParticipantID,
			Status:        string(s.Status),
			VerifiedAt:    s.VerifiedAt,
		})
	}
	return resp
}

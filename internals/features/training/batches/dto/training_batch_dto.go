// file: internals/features/training/batches/dto/training_batch_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"pelatihanku_backend/internals/constants"
	batchModel "pelatihanku_backend/internals/features/training/batches/model"
	batchService "pelatihanku_backend/internals/features/training/batches/service"
	"pelatihanku_backend/internals/helpers/errs"
)

/* ===================== Requests ===================== */

// Field wajib batch sengaja TIDAK pakai tag `required`: ketiadaannya harus jadi
// error validasi per-batch yang dikumpulkan service, bukan 400 yang menggugurkan
// seluruh sesi.
type BatchAllocationInput struct {
	TrainingBatchRequestID      uuid.UUID   `json:"training_batch_request_id" validate:"required"`
	TrainingBatchType           string      `json:"training_batch_type" validate:"omitempty,oneof=separate combined"`
	TrainingBatchCentreID       uuid.UUID   `json:"training_batch_centre_id"`
	TrainingBatchStartDate      string      `json:"training_batch_start_date" validate:"omitempty,datetime=2006-01-02"`
	TrainingBatchDailyStartTime *string     `json:"training_batch_daily_start_time,omitempty" validate:"omitempty,datetime=15:04"`
	ParticipantIDs              []uuid.UUID `json:"participant_ids"`
}

type AllocateBatchesRequest struct {
	Batches []BatchAllocationInput `json:"batches" validate:"required,min=1,dive"`
}

func (in *BatchAllocationInput) ToBatchInput() batchService.BatchInput {
	var startDate time.Time
	if in.TrainingBatchStartDate != "" {
		startDate, _ = time.Parse(constants.DateLayout, in.TrainingBatchStartDate)
	}
	return batchService.BatchInput{
		Batch: &batchModel.TrainingBatchModel{
			TrainingBatchRequestID:      in.TrainingBatchRequestID,
			TrainingBatchCentreID:       in.TrainingBatchCentreID,
			TrainingBatchType:           batchModel.BatchType(in.TrainingBatchType),
			TrainingBatchStatus:         batchModel.BatchStatusDraft,
			TrainingBatchStartDate:      startDate,
			TrainingBatchDailyStartTime: in.TrainingBatchDailyStartTime,
		},
		ParticipantIDs: in.ParticipantIDs,
	}
}

type SetDailyStartTimeRequest struct {
	TrainingBatchDailyStartTime string `json:"training_batch_daily_start_time" validate:"required,datetime=15:04"`
}

/* ===================== Responses ===================== */

type TrainingBatchResponse struct {
	TrainingBatchID             uuid.UUID `json:"training_batch_id"`
	TrainingBatchRequestID      uuid.UUID `json:"training_batch_request_id"`
	TrainingBatchCentreID       uuid.UUID `json:"training_batch_centre_id"`
	TrainingBatchType           string    `json:"training_batch_type"`
	TrainingBatchStatus         string    `json:"training_batch_status"`
	TrainingBatchStartDate      string    `json:"training_batch_start_date"`
	TrainingBatchEndDate        string    `json:"training_batch_end_date"`
	TrainingBatchDailyStartTime *string   `json:"training_batch_daily_start_time,omitempty"`
	TrainingBatchCreatedAt      time.Time `json:"training_batch_created_at"`
}

func NewTrainingBatchResponse(m *batchModel.TrainingBatchModel) TrainingBatchResponse {
	return TrainingBatchResponse{
		TrainingBatchID:             m.TrainingBatchID,
		TrainingBatchRequestID:      m.TrainingBatchRequestID,
		TrainingBatchCentreID:       m.TrainingBatchCentreID,
		TrainingBatchType:           string(m.TrainingBatchType),
		TrainingBatchStatus:         string(m.TrainingBatchStatus),
		TrainingBatchStartDate:      m.TrainingBatchStartDate.Format(constants.DateLayout),
		TrainingBatchEndDate:        m.TrainingBatchEndDate.Format(constants.DateLayout),
		TrainingBatchDailyStartTime: m.TrainingBatchDailyStartTime,
		TrainingBatchCreatedAt:      m.TrainingBatchCreatedAt,
	}
}

// Hasil per batch dalam satu sesi alokasi: batch sukses ATAU daftar error
// validasinya — batch lain tidak terpengaruh.
type BatchAllocationOutcome struct {
	Index  int                    `json:"index"`
	Batch  *TrainingBatchResponse `json:"batch,omitempty"`
	Roster []RosterEntryResponse  `json:"roster,omitempty"`
	Errors []errs.FieldError      `json:"errors,omitempty"`
}

type RosterEntryResponse struct {
	BatchParticipantID              uuid.UUID              `json:"batch_participant_id"`
	BatchParticipantParticipantID   uuid.UUID              `json:"batch_participant_participant_id"`
	BatchParticipantSourceRequestID uuid.UUID              `json:"batch_participant_source_request_id"`
	BatchParticipantOrigin          string                 `json:"batch_participant_origin"` // home|pooled
	BatchParticipantRole            string                 `json:"batch_participant_role"`
	BatchParticipantSnapshot        map[string]interface{} `json:"batch_participant_snapshot,omitempty"`
}

func NewRosterEntryResponse(m *batchModel.BatchParticipantModel, batchRequestID uuid.UUID) RosterEntryResponse {
	origin := "home"
	if m.IsPooled(batchRequestID) {
		origin = "pooled"
	}
	return RosterEntryResponse{
		BatchParticipantID:              m.BatchParticipantID,
		BatchParticipantParticipantID:   m.BatchParticipantParticipantID,
		BatchParticipantSourceRequestID: m.BatchParticipantSourceRequestID,
		BatchParticipantOrigin:          origin,
		BatchParticipantRole:            m.BatchParticipantRole,
		BatchParticipantSnapshot:        m.BatchParticipantSnapshot,
	}
}

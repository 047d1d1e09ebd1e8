package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================
   Model: batch_participants
   (hasil alokasi peserta → batch)
========================================= */

type BatchParticipantModel struct {
	// PK
	BatchParticipantID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:batch_participant_id" json:"batch_participant_id"`

	// Eksklusivitas: satu peserta maksimal satu batch →
	// unique index tunggal di participant_id (partial, deleted_at IS NULL, via migration)
	BatchParticipantBatchID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_batch_participant;column:batch_participant_batch_id" json:"batch_participant_batch_id"`
	BatchParticipantParticipantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_batch_participant;uniqueIndex:uq_participant_single_batch;column:batch_participant_participant_id" json:"batch_participant_participant_id"`

	// Asal request: sama dgn request batch = "home", beda = "pooled"
	BatchParticipantSourceRequestID uuid.UUID `gorm:"type:uuid;not null;column:batch_participant_source_request_id" json:"batch_participant_source_request_id"`

	BatchParticipantRole string `gorm:"type:text;not null;column:batch_participant_role" json:"batch_participant_role"`

	// SNAPSHOT (raw JSONB): identitas peserta saat dialokasikan
	BatchParticipantSnapshot datatypes.JSONMap `gorm:"type:jsonb;column:batch_participant_snapshot" json:"batch_participant_snapshot,omitempty"`

	// Audit
	BatchParticipantCreatedBy *uuid.UUID     `gorm:"type:uuid;column:batch_participant_created_by" json:"batch_participant_created_by,omitempty"`
	BatchParticipantCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:batch_participant_created_at" json:"batch_participant_created_at"`
	BatchParticipantDeletedAt gorm.DeletedAt `gorm:"column:batch_participant_deleted_at;index" json:"batch_participant_deleted_at,omitempty"`
}

func (BatchParticipantModel) TableName() string { return "batch_participants" }

// IsPooled: true kalau peserta ditarik dari sibling request (batch combined).
func (m *BatchParticipantModel) IsPooled(batchRequestID uuid.UUID) bool {
	return m.BatchParticipantSourceRequestID != batchRequestID
}

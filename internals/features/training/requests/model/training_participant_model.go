package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Enums (selaras dgn DB)
========================= */

type ParticipantRole string

const (
	ParticipantRoleTrainer ParticipantRole = "trainer"
	ParticipantRoleTrainee ParticipantRole = "trainee"
)

func (r ParticipantRole) Valid() bool {
	switch r {
	case ParticipantRoleTrainer, ParticipantRoleTrainee:
		return true
	default:
		return false
	}
}

// ClaimStatus: penanda eksplisit "sudah diambil batch" (pengganti remark teks bebas).
type ClaimStatus string

const (
	ClaimStatusUnclaimed ClaimStatus = "unclaimed"
	ClaimStatusClaimed   ClaimStatus = "claimed"
)

/* =========================================
   Model: training_participants
========================================= */

type TrainingParticipantModel struct {
	// PK
	TrainingParticipantID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:training_participant_id" json:"training_participant_id"`

	// Relasi ke request asal
	TrainingParticipantRequestID uuid.UUID `gorm:"type:uuid;not null;index;column:training_participant_request_id" json:"training_participant_request_id"`

	// Identitas (immutable setelah intake)
	TrainingParticipantRole ParticipantRole `gorm:"type:text;not null;column:training_participant_role" json:"training_participant_role"`
	TrainingParticipantName string          `gorm:"type:text;not null;column:training_participant_name" json:"training_participant_name"`
	TrainingParticipantNIK  *string         `gorm:"type:varchar(16);column:training_participant_nik" json:"training_participant_nik,omitempty"`

	// Claim state: satu-satunya mutasi yang diizinkan setelah intake
	TrainingParticipantClaimStatus    ClaimStatus `gorm:"type:text;not null;default:'unclaimed';index;column:training_participant_claim_status" json:"training_participant_claim_status"`
	TrainingParticipantClaimSessionID *uuid.UUID  `gorm:"type:uuid;column:training_participant_claim_session_id" json:"training_participant_claim_session_id,omitempty"`
	TrainingParticipantClaimNote      *string     `gorm:"type:text;column:training_participant_claim_note" json:"training_participant_claim_note,omitempty"`

	// Audit
	TrainingParticipantCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:training_participant_created_at" json:"training_participant_created_at"`
	TrainingParticipantUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:training_participant_updated_at" json:"training_participant_updated_at"`
	TrainingParticipantDeletedAt gorm.DeletedAt `gorm:"column:training_participant_deleted_at;index" json:"training_participant_deleted_at,omitempty"`
}

func (TrainingParticipantModel) TableName() string { return "training_participants" }

// IsClaimed: peserta yang sudah punya claim marker tidak boleh ditawarkan ulang oleh pool.
func (m *TrainingParticipantModel) IsClaimed() bool {
	return m.TrainingParticipantClaimStatus == ClaimStatusClaimed
}

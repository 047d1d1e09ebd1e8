package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Enums (selaras dgn DB)
========================= */

type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusVerified VerificationStatus = "verified"
)

/* =========================================
   Model: participant_verifications
   Satu baris per (batch, peserta). Dibuat lazy saat verifikasi pertama;
   baris yang tidak ada ≡ pending.
========================================= */

type ParticipantVerificationModel struct {
	// PK
	ParticipantVerificationID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:participant_verification_id" json:"participant_verification_id"`

	ParticipantVerificationBatchID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_participant_verification;column:participant_verification_batch_id" json:"participant_verification_batch_id"`
	ParticipantVerificationParticipantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_participant_verification;column:participant_verification_participant_id" json:"participant_verification_participant_id"`

	ParticipantVerificationStatus VerificationStatus `gorm:"type:text;not null;default:'pending';column:participant_verification_status" json:"participant_verification_status"`

	ParticipantVerificationVerifiedAt *time.Time `gorm:"type:timestamptz;column:participant_verification_verified_at" json:"participant_verification_verified_at,omitempty"`
	ParticipantVerificationVerifiedBy *uuid.UUID `gorm:"type:uuid;column:participant_verification_verified_by" json:"participant_verification_verified_by,omitempty"`

	// Audit
	ParticipantVerificationCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:participant_verification_created_at" json:"participant_verification_created_at"`
	ParticipantVerificationUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:participant_verification_updated_at" json:"participant_verification_updated_at"`
	ParticipantVerificationDeletedAt gorm.DeletedAt `gorm:"column:participant_verification_deleted_at;index" json:"participant_verification_deleted_at,omitempty"`
}

func (ParticipantVerificationModel) TableName() string { return "participant_verifications" }

func (m *ParticipantVerificationModel) IsVerified() bool {
	return m.ParticipantVerificationStatus == VerificationStatusVerified
}

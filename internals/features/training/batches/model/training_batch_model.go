package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Enums (selaras dgn DB)
========================= */

type BatchType string

const (
	BatchTypeSeparate BatchType = "separate"
	BatchTypeCombined BatchType = "combined" // boleh menarik peserta dari sibling request
)

func (t BatchType) Valid() bool {
	switch t {
	case BatchTypeSeparate, BatchTypeCombined:
		return true
	default:
		return false
	}
}

type BatchStatus string

const (
	BatchStatusDraft     BatchStatus = "draft"
	BatchStatusReady     BatchStatus = "ready"
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusCanceled  BatchStatus = "canceled"
)

/* =========================================
   Model: training_batches
========================================= */

type TrainingBatchModel struct {
	// PK
	TrainingBatchID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:training_batch_id" json:"training_batch_id"`

	// Relasi utama (batch combined tetap punya satu request "rumah")
	TrainingBatchRequestID uuid.UUID `gorm:"type:uuid;not null;index;column:training_batch_request_id" json:"training_batch_request_id"`
	TrainingBatchCentreID  uuid.UUID `gorm:"type:uuid;not null;column:training_batch_centre_id" json:"training_batch_centre_id"`

	TrainingBatchType   BatchType   `gorm:"type:text;not null;column:training_batch_type" json:"training_batch_type"`
	TrainingBatchStatus BatchStatus `gorm:"type:text;not null;default:'draft';column:training_batch_status" json:"training_batch_status"`

	// Rentang hari berjalan (end date diturunkan dari durasi plan)
	TrainingBatchStartDate time.Time `gorm:"type:date;not null;column:training_batch_start_date" json:"training_batch_start_date"`
	TrainingBatchEndDate   time.Time `gorm:"type:date;not null;column:training_batch_end_date" json:"training_batch_end_date"`

	// Jam mulai absensi harian (HH:MM). Set sekali, immutable setelah tersimpan;
	// scheduler selalu memakai nilai pertama.
	TrainingBatchDailyStartTime *string `gorm:"type:varchar(5);column:training_batch_daily_start_time" json:"training_batch_daily_start_time,omitempty"`

	// Audit
	TrainingBatchCreatedBy *uuid.UUID     `gorm:"type:uuid;column:training_batch_created_by" json:"training_batch_created_by,omitempty"`
	TrainingBatchCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:training_batch_created_at" json:"training_batch_created_at"`
	TrainingBatchUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:training_batch_updated_at" json:"training_batch_updated_at"`
	TrainingBatchDeletedAt gorm.DeletedAt `gorm:"column:training_batch_deleted_at;index" json:"training_batch_deleted_at,omitempty"`
}

func (TrainingBatchModel) TableName() string { return "training_batches" }

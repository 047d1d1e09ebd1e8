package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Enums (selaras dgn DB)
========================= */

type TrainingRequestStatus string

const (
	RequestStatusSubmitted TrainingRequestStatus = "submitted"
	RequestStatusApproved  TrainingRequestStatus = "approved"
	RequestStatusAllocated TrainingRequestStatus = "allocated"
	RequestStatusClosed    TrainingRequestStatus = "closed"
)

type TrainingType string

const (
	TrainingTypeResidential    TrainingType = "residential"
	TrainingTypeNonResidential TrainingType = "non_residential"
)

/* =========================================
   Model: training_requests
========================================= */

type TrainingRequestModel struct {
	// PK
	TrainingRequestID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:training_request_id" json:"training_request_id"`

	// Relasi utama
	TrainingRequestPartnerID uuid.UUID `gorm:"type:uuid;not null;column:training_request_partner_id" json:"training_request_partner_id"`
	TrainingRequestPlanID    uuid.UUID `gorm:"type:uuid;not null;column:training_request_plan_id" json:"training_request_plan_id"`

	// Jenis & status
	TrainingRequestTrainingType TrainingType          `gorm:"type:text;not null;column:training_request_training_type" json:"training_request_training_type"`
	TrainingRequestStatus       TrainingRequestStatus `gorm:"type:text;not null;default:'submitted';column:training_request_status" json:"training_request_status"`

	// Cakupan wilayah (layanan referensi geografi eksternal, disimpan sbg id)
	TrainingRequestBlockID    *uuid.UUID `gorm:"type:uuid;column:training_request_block_id" json:"training_request_block_id,omitempty"`
	TrainingRequestDistrictID *uuid.UUID `gorm:"type:uuid;column:training_request_district_id" json:"training_request_district_id,omitempty"`

	// Jadwal yang diminta (end date batch diturunkan dari durasi plan)
	TrainingRequestStartDate        time.Time `gorm:"type:date;not null;column:training_request_start_date" json:"training_request_start_date"`
	TrainingRequestPlanDurationDays int       `gorm:"not null;column:training_request_plan_duration_days" json:"training_request_plan_duration_days"`

	// Audit
	TrainingRequestCreatedBy *uuid.UUID     `gorm:"type:uuid;column:training_request_created_by" json:"training_request_created_by,omitempty"`
	TrainingRequestCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:training_request_created_at" json:"training_request_created_at"`
	TrainingRequestUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:training_request_updated_at" json:"training_request_updated_at"`
	TrainingRequestDeletedAt gorm.DeletedAt `gorm:"column:training_request_deleted_at;index" json:"training_request_deleted_at,omitempty"`
}

func (TrainingRequestModel) TableName() string { return "training_requests" }

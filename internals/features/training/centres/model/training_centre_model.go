package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================
   Model: training_centres
========================================= */

type TrainingCentreModel struct {
	// PK
	TrainingCentreID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:training_centre_id" json:"training_centre_id"`

	// Pemilik (mitra pelatihan)
	TrainingCentrePartnerID uuid.UUID `gorm:"type:uuid;not null;index;column:training_centre_partner_id" json:"training_centre_partner_id"`

	TrainingCentreName         string  `gorm:"type:text;not null;column:training_centre_name" json:"training_centre_name"`
	TrainingCentreAddress      *string `gorm:"type:text;column:training_centre_address" json:"training_centre_address,omitempty"`
	TrainingCentreHallCapacity int     `gorm:"not null;default:0;column:training_centre_hall_capacity" json:"training_centre_hall_capacity"`

	// Audit
	TrainingCentreCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:training_centre_created_at" json:"training_centre_created_at"`
	TrainingCentreUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:training_centre_updated_at" json:"training_centre_updated_at"`
	TrainingCentreDeletedAt gorm.DeletedAt `gorm:"column:training_centre_deleted_at;index" json:"training_centre_deleted_at,omitempty"`
}

func (TrainingCentreModel) TableName() string { return "training_centres" }

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Enums (selaras dgn DB)
========================= */

// AttendanceSource: hari dicatat normal atau hasil backfill hari bolong.
type AttendanceSource string

const (
	AttendanceSourceRecorded AttendanceSource = "recorded"
	AttendanceSourceBackfill AttendanceSource = "backfill"
)

/* =========================================
   Model: attendance_days
   Maksimal satu baris per (batch, tanggal); pembuatan conflict-safe —
   dua pencatat yang balapan harus konvergen ke baris yang sama.
========================================= */

type AttendanceDayModel struct {
	// PK
	AttendanceDayID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_day_id" json:"attendance_day_id"`

	AttendanceDayBatchID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_day;column:attendance_day_batch_id" json:"attendance_day_batch_id"`
	AttendanceDayDate    time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_day;column:attendance_day_date" json:"attendance_day_date"`

	AttendanceDaySource AttendanceSource `gorm:"type:text;not null;default:'recorded';column:attendance_day_source" json:"attendance_day_source"`

	// Rekap (diisi ulang setelah baris peserta ditulis)
	AttendanceDayPresentCount *int `gorm:"column:attendance_day_present_count" json:"attendance_day_present_count,omitempty"`
	AttendanceDayAbsentCount  *int `gorm:"column:attendance_day_absent_count" json:"attendance_day_absent_count,omitempty"`

	// Audit
	AttendanceDayCreatedBy *uuid.UUID     `gorm:"type:uuid;column:attendance_day_created_by" json:"attendance_day_created_by,omitempty"`
	AttendanceDayCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:attendance_day_created_at" json:"attendance_day_created_at"`
	AttendanceDayUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:attendance_day_updated_at" json:"attendance_day_updated_at"`
	AttendanceDayDeletedAt gorm.DeletedAt `gorm:"column:attendance_day_deleted_at;index" json:"attendance_day_deleted_at,omitempty"`
}

func (AttendanceDayModel) TableName() string { return "attendance_days" }

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================================
   Model: participant_attendances
   Satu baris per (attendance_day, peserta); hanya pernah ditambah,
   tidak pernah di-update setelah tertulis.
========================================= */

type ParticipantAttendanceModel struct {
	// PK
	ParticipantAttendanceID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:participant_attendance_id" json:"participant_attendance_id"`

	ParticipantAttendanceDayID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_participant_attendance;column:participant_attendance_day_id" json:"participant_attendance_day_id"`
	ParticipantAttendanceParticipantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_participant_attendance;column:participant_attendance_participant_id" json:"participant_attendance_participant_id"`

	ParticipantAttendancePresent bool             `gorm:"not null;default:false;column:participant_attendance_present" json:"participant_attendance_present"`
	ParticipantAttendanceSource  AttendanceSource `gorm:"type:text;not null;default:'recorded';column:participant_attendance_source" json:"participant_attendance_source"`

	// SNAPSHOT (raw JSONB): identitas peserta saat absensi ditulis
	ParticipantAttendanceSnapshot datatypes.JSONMap `gorm:"type:jsonb;column:participant_attendance_snapshot" json:"participant_attendance_snapshot,omitempty"`

	// Audit
	ParticipantAttendanceMarkedBy  *uuid.UUID `gorm:"type:uuid;column:participant_attendance_marked_by" json:"participant_attendance_marked_by,omitempty"`
	ParticipantAttendanceCreatedAt time.Time  `gorm:"type:timestamptz;not null;default:now();column:participant_attendance_created_at" json:"participant_attendance_created_at"`
}

func (ParticipantAttendanceModel) TableName() string { return "participant_attendances" }

// file: internals/features/training/attendance/dto/attendance_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"pelatihanku_backend/internals/constants"
	attendanceModel "pelatihanku_backend/internals/features/training/attendance/model"
	attendanceService "pelatihanku_backend/internals/features/training/attendance/service"
)

/* =========================
   Requests
========================= */

type ParticipantPresenceInput struct {
	ParticipantID uuid.UUID `json:"participant_id" validate:"required"`
	Present       bool      `json:"present"`
}

type RecordDayRequest struct {
	Date     string                     `json:"date" validate:"required"` // YYYY-MM-DD
	Presence []ParticipantPresenceInput `json:"presence" validate:"dive"`
}

// PresenceMap: peserta di luar daftar otomatis absen.
func (r *RecordDayRequest) PresenceMap() map[uuid.UUID]bool {
	m := make(map[uuid.UUID]bool, len(r.Presence))
	for _, p := range r.Presence {
		m[p.ParticipantID] = p.Present
	}
	return m
}

type BackfillAbsentRequest struct {
	Dates []string `json:"dates" validate:"required,min=1,dive,required"` // YYYY-MM-DD, urut naik
}

func ParseDates(raw []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		d, err := time.Parse(constants.DateLayout, s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

/* =========================
   Responses
========================= */

type AttendanceDayResponse struct {
	AttendanceDayID uuid.UUID                       `json:"attendance_day_id"`
	BatchID         uuid.UUID                       `json:"batch_id"`
	Date            string                          `json:"date"`
	Source          attendanceModel.AttendanceSource `json:"source"`
	PresentCount    *int                            `json:"present_count,omitempty"`
	AbsentCount     *int                            `json:"absent_count,omitempty"`
	CreatedAt       time.Time                       `json:"created_at"`
}

func NewAttendanceDayResponse(m *attendanceModel.AttendanceDayModel) AttendanceDayResponse {
	return AttendanceDayResponse{
		AttendanceDayID: m.AttendanceDayID,
		BatchID:         m.AttendanceDayBatchID,
		Date:            m.AttendanceDayDate.Format(constants.DateLayout),
		Source:          m.AttendanceDaySource,
		PresentCount:    m.AttendanceDayPresentCount,
		AbsentCount:     m.AttendanceDayAbsentCount,
		CreatedAt:       m.AttendanceDayCreatedAt,
	}
}

type ParticipantAttendanceResponse struct {
	ParticipantID uuid.UUID                        `json:"participant_id"`
	Present       bool                             `json:"present"`
	Source        attendanceModel.AttendanceSource `json:"source"`
	Snapshot      map[string]interface{}           `json:"snapshot,omitempty"`
	MarkedBy      *uuid.UUID                       `json:"marked_by,omitempty"`
	MarkedAt      time.Time                        `json:"marked_at"`
}

func NewParticipantAttendanceResponses(rows []attendanceModel.ParticipantAttendanceModel) []ParticipantAttendanceResponse {
	out := make([]ParticipantAttendanceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ParticipantAttendanceResponse{
			ParticipantID: rows[i].ParticipantAttendanceParticipantID,
			Present:       rows[i].ParticipantAttendancePresent,
			Source:        rows[i].ParticipantAttendanceSource,
			Snapshot:      rows[i].ParticipantAttendanceSnapshot,
			MarkedBy:      rows[i].ParticipantAttendanceMarkedBy,
			MarkedAt:      rows[i].ParticipantAttendanceCreatedAt,
		})
	}
	return out
}

type AttendanceDayDetailResponse struct {
	Day          AttendanceDayResponse           `json:"day"`
	Participants []ParticipantAttendanceResponse `json:"participants"`
}

type RecordDayResponse struct {
	Day      AttendanceDayResponse                       `json:"day"`
	Outcomes []attendanceService.ParticipantWriteOutcome `json:"outcomes"`
	Failed   int                                         `json:"failed"`
}

type ScheduleStatusResponse struct {
	BatchID       uuid.UUID                   `json:"batch_id"`
	FullyVerified bool                        `json:"fully_verified"`
	Days          []attendanceService.DayStatus `json:"days"`
	MissingDates  []string                    `json:"missing_dates"`
}

type BackfillAbsentResponse struct {
	BatchID uuid.UUID                           `json:"batch_id"`
	Results []attendanceService.BackfillDayResult `json:"results"`
}

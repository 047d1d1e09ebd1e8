// file: internals/features/training/attendance/service/recorder_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pelatihanku_backend/internals/configs"
	"pelatihanku_backend/internals/constants"
	attendanceModel "pelatihanku_backend/internals/features/training/attendance/model"
	batchModel "pelatihanku_backend/internals/features/training/batches/model"
	verifService "pelatihanku_backend/internals/features/training/verification/service"
	"pelatihanku_backend/internals/helpers/errs"
)

/* =========================
   Collaborators
========================= */

// VerificationGate: gerbang EKYC — tidak ada hari yang boleh buka sebelum
// seluruh roster terverifikasi.
type VerificationGate interface {
	IsBatchFullyVerified(ctx context.Context, batchID uuid.UUID) (bool, error)
}

type RecorderStore interface {
	BatchByID(ctx context.Context, id uuid.UUID) (*batchModel.TrainingBatchModel, error)
	RosterEntries(ctx context.Context, batchID uuid.UUID) ([]batchModel.BatchParticipantModel, error)
	AttendanceDayByBatchDate(ctx context.Context, batchID uuid.UUID, date time.Time) (*attendanceModel.AttendanceDayModel, error)
	// CreateAttendanceDay: insert ON CONFLICT DO NOTHING; false = baris sudah ada.
	CreateAttendanceDay(ctx context.Context, day *attendanceModel.AttendanceDayModel) (bool, error)
	// RecordedDateKeys: semua tanggal ber-AttendanceDay milik batch, sbg set DateKey.
	RecordedDateKeys(ctx context.Context, batchID uuid.UUID) (map[string]bool, error)
	// RecordedDateKeysAmong: subset `dates` yang sudah punya AttendanceDay.
	RecordedDateKeysAmong(ctx context.Context, batchID uuid.UUID, dates []time.Time) (map[string]bool, error)
	ExistingAttendanceParticipantIDs(ctx context.Context, dayID uuid.UUID) (map[uuid.UUID]bool, error)
	CreateParticipantAttendance(ctx context.Context, row *attendanceModel.ParticipantAttendanceModel) error
	ParticipantAttendanceRows(ctx context.Context, dayID uuid.UUID) ([]attendanceModel.ParticipantAttendanceModel, error)
	UpdateDayCounts(ctx context.Context, dayID uuid.UUID, present, absent int) error
}

/* =========================
   RecorderService
========================= */

type RecorderService struct {
	store RecorderStore
	gate  VerificationGate
	loc   *time.Location
	nowFn func() time.Time
}

func NewRecorderService(db *gorm.DB) *RecorderService {
	return &RecorderService{
		store: &gormRecorderStore{DB: db},
		gate:  verifService.NewVerificationService(db),
		loc:   configs.AppLocation,
		nowFn: time.Now,
	}
}

func NewRecorderServiceWithStore(st RecorderStore, gate VerificationGate, loc *time.Location, nowFn func() time.Time) *RecorderService {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &RecorderService{store: st, gate: gate, loc: loc, nowFn: nowFn}
}

func (svc *RecorderService) windowOf(b *batchModel.TrainingBatchModel) BatchWindow {
	w := BatchWindow{
		StartDate: b.TrainingBatchStartDate,
		EndDate:   b.TrainingBatchEndDate,
		Location:  svc.loc,
	}
	if b.TrainingBatchDailyStartTime != nil {
		w.DailyStartTime = *b.TrainingBatchDailyStartTime
	}
	return w
}

/* =========================
   GetOrCreateAttendanceDay
========================= */

// GetOrCreateAttendanceDay: fetch dulu, kalau kosong create. Balapan dua
// pencatat di-recover lokal — konflik unique → re-fetch baris milik pemenang,
// caller tidak pernah lihat error konflik.
func (svc *RecorderService) GetOrCreateAttendanceDay(
	ctx context.Context,
	batchID uuid.UUID,
	date time.Time,
	actorID uuid.UUID,
	source attendanceModel.AttendanceSource,
) (*attendanceModel.AttendanceDayModel, error) {
	if day, err := svc.store.AttendanceDayByBatchDate(ctx, batchID, date); err == nil {
		return day, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	day := &attendanceModel.AttendanceDayModel{
		AttendanceDayBatchID:   batchID,
		AttendanceDayDate:      date,
		AttendanceDaySource:    source,
		AttendanceDayCreatedBy: &actorID,
	}
	created, err := svc.store.CreateAttendanceDay(ctx, day)
	if err != nil {
		if errs.IsDuplicateKey(err) {
			return svc.store.AttendanceDayByBatchDate(ctx, batchID, date)
		}
		return nil, err
	}
	if !created {
		return svc.store.AttendanceDayByBatchDate(ctx, batchID, date)
	}
	return day, nil
}

/* =========================
   RecordDay
========================= */

// ParticipantWriteOutcome: hasil tulis per peserta. Kegagalan satu baris tidak
// menggugurkan sisanya; caller memutuskan retry untuk yang gagal saja.
type ParticipantWriteOutcome struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Written       bool      `json:"written"`
	Skipped       bool      `json:"skipped"` // baris sudah ada (idempoten)
	Error         string    `json:"error,omitempty"`
}

// RecordDay mencatat absensi tanggal ber-state OPEN: AttendanceDay (kalau belum
// ada) + satu baris per peserta roster yang belum tercatat hari itu. Peserta
// yang tidak ada di presence map default absen. State selain OPEN ditolak
// dengan menyebut apa yang menghalangi.
func (svc *RecorderService) RecordDay(
	ctx context.Context,
	batchID uuid.UUID,
	date time.Time,
	presence map[uuid.UUID]bool,
	actorID uuid.UUID,
) (*attendanceModel.AttendanceDayModel, []ParticipantWriteOutcome, error) {
	b, err := svc.store.BatchByID(ctx, batchID)
	if err != nil {
		return nil, nil, err
	}
	w := svc.windowOf(b)

	fullyVerified, err := svc.gate.IsBatchFullyVerified(ctx, batchID)
	if err != nil {
		return nil, nil, err
	}
	recorded, err := svc.store.RecordedDateKeys(ctx, batchID)
	if err != nil {
		return nil, nil, err
	}

	now := svc.nowFn()
	state := StateFor(w, fullyVerified, recorded, date, now)
	if state != DayStateOpen {
		return nil, nil, svc.rejectFor(state, w, recorded, now)
	}

	day, err := svc.GetOrCreateAttendanceDay(ctx, batchID, date, actorID, attendanceModel.AttendanceSourceRecorded)
	if err != nil {
		return nil, nil, err
	}

	outcomes, err := svc.writeRows(ctx, day, presence, actorID, attendanceModel.AttendanceSourceRecorded)
	if err != nil {
		return nil, nil, err
	}
	return day, outcomes, nil
}

func (svc *RecorderService) rejectFor(state DayState, w BatchWindow, recorded map[string]bool, now time.Time) error {
	switch state {
	case DayStateBlockedUnverified:
		return errs.NewPrecondition("window_blocked_unverified",
			"verifikasi peserta batch belum lengkap, absensi belum bisa dibuka")
	case DayStateBlockedBacklog:
		missing := MissingDates(w, recorded, now)
		first := ""
		if len(missing) > 0 {
			first = DateKey(missing[0])
		}
		return errs.NewPrecondition("window_blocked_backlog",
			fmt.Sprintf("ada %d hari bolong yang harus di-backfill dulu, mulai dari %s", len(missing), first))
	case DayStateRecorded:
		return errs.NewPrecondition("window_recorded", "absensi tanggal ini sudah tercatat")
	default:
		return errs.NewPrecondition("window_not_open", "jendela absensi tanggal ini belum terbuka")
	}
}

/* =========================
   BackfillAbsent
========================= */

type BackfillDayResult struct {
	Date string `json:"date"`
	// true: AttendanceDay sudah ada sebelum backfill (resume dari run yang gagal)
	DayExisted bool                      `json:"day_existed"`
	Outcomes   []ParticipantWriteOutcome `json:"outcomes"`
}

// BackfillAbsent menutup hari bolong: AttendanceDay dibuat kalau belum ada dan
// seluruh roster saat ini ditandai absen. Idempoten & resumable — baris yang
// sudah ada dilewati, retry tidak menduplikasi dan tidak gagal karena baris lama.
// Daftar `dates` seharusnya persis hasil MissingDates (urut naik).
func (svc *RecorderService) BackfillAbsent(
	ctx context.Context,
	batchID uuid.UUID,
	dates []time.Time,
	actorID uuid.UUID,
) ([]BackfillDayResult, error) {
	b, err := svc.store.BatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	w := svc.windowOf(b)
	loc := w.loc()
	now := svc.nowFn()
	today := dateOnly(now, loc)
	start := dateOnly(w.StartDate, loc)
	end := dateOnly(w.EndDate, loc)

	// Hanya tanggal lampau dalam span yang boleh di-backfill; hari ini dan
	// masa depan tetap lewat jalur window normal.
	for _, d := range dates {
		dd := dateOnly(d, loc)
		if !dd.Before(today) || dd.Before(start) || dd.After(end) {
			return nil, errs.NewPrecondition("backfill_date_out_of_range",
				fmt.Sprintf("tanggal %s tidak bisa di-backfill", DateKey(dd)))
		}
	}

	// Satu query untuk tahu mana yang sudah punya AttendanceDay. Hari yang
	// sudah ada tetap diproses — baris pesertanya bisa saja belum lengkap.
	already, err := svc.store.RecordedDateKeysAmong(ctx, batchID, dates)
	if err != nil {
		return nil, err
	}

	results := make([]BackfillDayResult, 0, len(dates))
	for _, d := range dates {
		dd := dateOnly(d, loc)
		day, err := svc.GetOrCreateAttendanceDay(ctx, batchID, dd, actorID, attendanceModel.AttendanceSourceBackfill)
		if err != nil {
			return results, err
		}
		outcomes, err := svc.writeRows(ctx, day, nil, actorID, attendanceModel.AttendanceSourceBackfill)
		if err != nil {
			return results, err
		}
		results = append(results, BackfillDayResult{
			Date:       DateKey(dd),
			DayExisted: already[DateKey(dd)],
			Outcomes:   outcomes,
		})
	}
	return results, nil
}

/* =========================
   Shared row writer
========================= */

// writeRows menulis baris peserta yang belum ada untuk sebuah AttendanceDay.
// presence nil = semua absen (backfill). Kegagalan per baris dicatat di outcome,
// penulisan lanjut terus; rekap day di-update best effort setelahnya.
func (svc *RecorderService) writeRows(
	ctx context.Context,
	day *attendanceModel.AttendanceDayModel,
	presence map[uuid.UUID]bool,
	actorID uuid.UUID,
	source attendanceModel.AttendanceSource,
) ([]ParticipantWriteOutcome, error) {
	roster, err := svc.store.RosterEntries(ctx, day.AttendanceDayBatchID)
	if err != nil {
		return nil, err
	}
	existing, err := svc.store.ExistingAttendanceParticipantIDs(ctx, day.AttendanceDayID)
	if err != nil {
		return nil, err
	}

	outcomes := make([]ParticipantWriteOutcome, 0, len(roster))
	present, absent := 0, 0
	for i := range roster {
		pid := roster[i].BatchParticipantParticipantID
		if existing[pid] {
			outcomes = append(outcomes, ParticipantWriteOutcome{ParticipantID: pid, Skipped: true})
			continue
		}

		row := &attendanceModel.ParticipantAttendanceModel{
			ParticipantAttendanceDayID:         day.AttendanceDayID,
			ParticipantAttendanceParticipantID: pid,
			ParticipantAttendancePresent:       presence[pid], // nil map → false
			ParticipantAttendanceSource:        source,
			ParticipantAttendanceSnapshot:      roster[i].BatchParticipantSnapshot,
			ParticipantAttendanceMarkedBy:      &actorID,
		}
		if err := svc.store.CreateParticipantAttendance(ctx, row); err != nil {
			if errs.IsDuplicateKey(err) {
				// balapan dgn pencatat lain → baris sudah ada, bukan kegagalan
				outcomes = append(outcomes, ParticipantWriteOutcome{ParticipantID: pid, Skipped: true})
				continue
			}
			outcomes = append(outcomes, ParticipantWriteOutcome{ParticipantID: pid, Error: err.Error()})
			continue
		}
		outcomes = append(outcomes, ParticipantWriteOutcome{ParticipantID: pid, Written: true})
		if row.ParticipantAttendancePresent {
			present++
		} else {
			absent++
		}
	}

	// Rekap bukan sumber kebenaran; kegagalan update tidak membatalkan tulisan
	_ = svc.store.UpdateDayCounts(ctx, day.AttendanceDayID, present, absent)
	return outcomes, nil
}

/* =========================
   DayDetail
========================= */

// DayDetail: AttendanceDay sebuah tanggal + seluruh baris peserta-nya.
func (svc *RecorderService) DayDetail(
	ctx context.Context,
	batchID uuid.UUID,
	date time.Time,
) (*attendanceModel.AttendanceDayModel, []attendanceModel.ParticipantAttendanceModel, error) {
	day, err := svc.store.AttendanceDayByBatchDate(ctx, batchID, date)
	if err != nil {
		return nil, nil, err
	}
	rows, err := svc.store.ParticipantAttendanceRows(ctx, day.AttendanceDayID)
	if err != nil {
		return nil, nil, err
	}
	return day, rows, nil
}

/* =========================
   ScheduleStatus
========================= */

type DayStatus struct {
	Date  string   `json:"date"`
	State DayState `json:"state"`
}

// ScheduleStatus: state per tanggal sepanjang span batch + daftar hari bolong
// urut naik, supaya operator tahu persis tanggal mana yang menghalangi.
func (svc *RecorderService) ScheduleStatus(ctx context.Context, batchID uuid.UUID) ([]DayStatus, []string, bool, error) {
	b, err := svc.store.BatchByID(ctx, batchID)
	if err != nil {
		return nil, nil, false, err
	}
	w := svc.windowOf(b)

	fullyVerified, err := svc.gate.IsBatchFullyVerified(ctx, batchID)
	if err != nil {
		return nil, nil, false, err
	}
	recorded, err := svc.store.RecordedDateKeys(ctx, batchID)
	if err != nil {
		return nil, nil, false, err
	}

	now := svc.nowFn()
	loc := w.loc()
	start := dateOnly(w.StartDate, loc)
	end := dateOnly(w.EndDate, loc)

	var days []DayStatus
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, DayStatus{
			Date:  DateKey(d),
			State: StateFor(w, fullyVerified, recorded, d, now),
		})
	}

	var missing []string
	for _, d := range MissingDates(w, recorded, now) {
		missing = append(missing, DateKey(d))
	}
	return days, missing, fullyVerified, nil
}

/* =========================
   GORM store
========================= */

type gormRecorderStore struct{ DB *gorm.DB }

func (st *gormRecorderStore) BatchByID(ctx context.Context, id uuid.UUID) (*batchModel.TrainingBatchModel, error) {
	var b batchModel.TrainingBatchModel
	if err := st.DB.WithContext(ctx).
		Where("training_batch_id = ?", id).
		Take(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (st *gormRecorderStore) RosterEntries(ctx context.Context, batchID uuid.UUID) ([]batchModel.BatchParticipantModel, error) {
	var rows []batchModel.BatchParticipantModel
	err := st.DB.WithContext(ctx).
		Where("batch_participant_batch_id = ?", batchID).
		Order("batch_participant_created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (st *gormRecorderStore) AttendanceDayByBatchDate(ctx context.Context, batchID uuid.UUID, date time.Time) (*attendanceModel.AttendanceDayModel, error) {
	var day attendanceModel.AttendanceDayModel
	if err := st.DB.WithContext(ctx).
		Where("attendance_day_batch_id = ?", batchID).
		Where("attendance_day_date = ?", date.Format(constants.DateLayout)).
		Take(&day).Error; err != nil {
		return nil, err
	}
	return &day, nil
}

func (st *gormRecorderStore) CreateAttendanceDay(ctx context.Context, day *attendanceModel.AttendanceDayModel) (bool, error) {
	res := st.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "attendance_day_batch_id"},
				{Name: "attendance_day_date"},
			},
			DoNothing: true,
		}).
		Create(day)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (st *gormRecorderStore) RecordedDateKeys(ctx context.Context, batchID uuid.UUID) (map[string]bool, error) {
	var dates []time.Time
	if err := st.DB.WithContext(ctx).
		Model(&attendanceModel.AttendanceDayModel{}).
		Where("attendance_day_batch_id = ?", batchID).
		Pluck("attendance_day_date", &dates).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(dates))
	for _, d := range dates {
		out[DateKey(d)] = true
	}
	return out, nil
}

func (st *gormRecorderStore) RecordedDateKeysAmong(ctx context.Context, batchID uuid.UUID, dates []time.Time) (map[string]bool, error) {
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, DateKey(d))
	}
	var found []time.Time
	if err := st.DB.WithContext(ctx).
		Model(&attendanceModel.AttendanceDayModel{}).
		Where("attendance_day_batch_id = ?", batchID).
		Where("attendance_day_date = ANY(?)", pq.Array(keys)).
		Pluck("attendance_day_date", &found).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(found))
	for _, d := range found {
		out[DateKey(d)] = true
	}
	return out, nil
}

func (st *gormRecorderStore) ExistingAttendanceParticipantIDs(ctx context.Context, dayID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	if err := st.DB.WithContext(ctx).
		Model(&attendanceModel.ParticipantAttendanceModel{}).
		Where("participant_attendance_day_id = ?", dayID).
		Pluck("participant_attendance_participant_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (st *gormRecorderStore) CreateParticipantAttendance(ctx context.Context, row *attendanceModel.ParticipantAttendanceModel) error {
	return st.DB.WithContext(ctx).Create(row).Error
}

func (st *gormRecorderStore) ParticipantAttendanceRows(ctx context.Context, dayID uuid.UUID) ([]attendanceModel.ParticipantAttendanceModel, error) {
	var rows []attendanceModel.ParticipantAttendanceModel
	err := st.DB.WithContext(ctx).
		Where("participant_attendance_day_id = ?", dayID).
		Order("participant_attendance_created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (st *gormRecorderStore) UpdateDayCounts(ctx context.Context, dayID uuid.UUID, present, absent int) error {
	return st.DB.WithContext(ctx).
		Model(&attendanceModel.AttendanceDayModel{}).
		Where("attendance_day_id = ?", dayID).
		Updates(map[string]interface{}{
			"attendance_day_present_count": gorm.Expr("COALESCE(attendance_day_present_count, 0) + ?", present),
			"attendance_day_absent_count":  gorm.Expr("COALESCE(attendance_day_absent_count, 0) + ?", absent),
			"attendance_day_updated_at":    time.Now(),
		}).Error
}

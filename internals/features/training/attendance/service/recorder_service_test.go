// file: internals/features/training/attendance/service/recorder_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	attendanceModel "pelatihanku_backend/internals/features/training/attendance/model"
	batchModel "pelatihanku_backend/internals/features/training/batches/model"
	"pelatihanku_backend/internals/helpers/errs"
)

/* =========================
   Fakes
========================= */

type fakeGate struct{ fully bool }

func (g *fakeGate) IsBatchFullyVerified(ctx context.Context, batchID uuid.UUID) (bool, error) {
	return g.fully, nil
}

type fakeRecorderStore struct {
	batch  *batchModel.TrainingBatchModel
	roster []batchModel.BatchParticipantModel

	days map[string]*attendanceModel.AttendanceDayModel              // DateKey → day
	rows map[uuid.UUID][]attendanceModel.ParticipantAttendanceModel // dayID → rows

	failCreateFor map[uuid.UUID]bool // participant → gagal tulis (simulasi error DB)
}

func newFakeRecorderStore(batch *batchModel.TrainingBatchModel, roster []batchModel.BatchParticipantModel) *fakeRecorderStore {
	return &fakeRecorderStore{
		batch:         batch,
		roster:        roster,
		days:          make(map[string]*attendanceModel.AttendanceDayModel),
		rows:          make(map[uuid.UUID][]attendanceModel.ParticipantAttendanceModel),
		failCreateFor: make(map[uuid.UUID]bool),
	}
}

func (st *fakeRecorderStore) BatchByID(ctx context.Context, id uuid.UUID) (*batchModel.TrainingBatchModel, error) {
	if st.batch == nil || st.batch.TrainingBatchID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return st.batch, nil
}

func (st *fakeRecorderStore) RosterEntries(ctx context.Context, batchID uuid.UUID) ([]batchModel.BatchParticipantModel, error) {
	return st.roster, nil
}

func (st *fakeRecorderStore) AttendanceDayByBatchDate(ctx context.Context, batchID uuid.UUID, date time.Time) (*attendanceModel.AttendanceDayModel, error) {
	if day, ok := st.days[DateKey(date)]; ok {
		return day, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (st *fakeRecorderStore) CreateAttendanceDay(ctx context.Context, day *attendanceModel.AttendanceDayModel) (bool, error) {
	key := DateKey(day.AttendanceDayDate)
	if _, ok := st.days[key]; ok {
		return false, nil // ON CONFLICT DO NOTHING
	}
	day.AttendanceDayID = uuid.New()
	st.days[key] = day
	return true, nil
}

func (st *fakeRecorderStore) RecordedDateKeys(ctx context.Context, batchID uuid.UUID) (map[string]bool, error) {
	out := make(map[string]bool, len(st.days))
	for k := range st.days {
		out[k] = true
	}
	return out, nil
}

func (st *fakeRecorderStore) RecordedDateKeysAmong(ctx context.Context, batchID uuid.UUID, dates []time.Time) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, d := range dates {
		if _, ok := st.days[DateKey(d)]; ok {
			out[DateKey(d)] = true
		}
	}
	return out, nil
}

func (st *fakeRecorderStore) ExistingAttendanceParticipantIDs(ctx context.Context, dayID uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool)
	for _, r := range st.rows[dayID] {
		out[r.ParticipantAttendanceParticipantID] = true
	}
	return out, nil
}

func (st *fakeRecorderStore) CreateParticipantAttendance(ctx context.Context, row *attendanceModel.ParticipantAttendanceModel) error {
	if st.failCreateFor[row.ParticipantAttendanceParticipantID] {
		return errors.New("write failed")
	}
	for _, r := range st.rows[row.ParticipantAttendanceDayID] {
		if r.ParticipantAttendanceParticipantID == row.ParticipantAttendanceParticipantID {
			return errors.New(`duplicate key value violates unique constraint "uq_participant_attendance"`)
		}
	}
	row.ParticipantAttendanceID = uuid.New()
	row.ParticipantAttendanceCreatedAt = time.Now()
	st.rows[row.ParticipantAttendanceDayID] = append(st.rows[row.ParticipantAttendanceDayID], *row)
	return nil
}

func (st *fakeRecorderStore) ParticipantAttendanceRows(ctx context.Context, dayID uuid.UUID) ([]attendanceModel.ParticipantAttendanceModel, error) {
	return st.rows[dayID], nil
}

func (st *fakeRecorderStore) UpdateDayCounts(ctx context.Context, dayID uuid.UUID, present, absent int) error {
	return nil
}

/* =========================
   Fixtures
========================= */

func recorderFixture(t *testing.T, fully bool, now time.Time) (*RecorderService, *fakeRecorderStore, uuid.UUID, []uuid.UUID) {
	t.Helper()

	batchID := uuid.New()
	start := "08:00"
	batch := &batchModel.TrainingBatchModel{
		TrainingBatchID:             batchID,
		TrainingBatchStartDate:      time.Date(2026, 3, 2, 0, 0, 0, 0, wib),
		TrainingBatchEndDate:        time.Date(2026, 3, 6, 0, 0, 0, 0, wib),
		TrainingBatchDailyStartTime: &start,
	}

	pids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	roster := make([]batchModel.BatchParticipantModel, 0, len(pids))
	for _, pid := range pids {
		roster = append(roster, batchModel.BatchParticipantModel{
			BatchParticipantBatchID:       batchID,
			BatchParticipantParticipantID: pid,
		})
	}

	st := newFakeRecorderStore(batch, roster)
	svc := NewRecorderServiceWithStore(st, &fakeGate{fully: fully}, wib, func() time.Time { return now })
	return svc, st, batchID, pids
}

/* =========================
   RecordDay
========================= */

func TestRecordDay_WritesRosterWithDefaultAbsent(t *testing.T) {
	now := at(2, 9, 0)
	svc, st, batchID, pids := recorderFixture(t, true, now)

	presence := map[uuid.UUID]bool{pids[0]: true} // sisanya tidak disebut → absen
	day, outcomes, err := svc.RecordDay(context.Background(), batchID, at(2, 0, 0), presence, uuid.New())
	require.NoError(t, err)
	require.NotNil(t, day)
	require.Len(t, outcomes, 3)

	for _, o := range outcomes {
		assert.True(t, o.Written)
		assert.Empty(t, o.Error)
	}

	byPID := make(map[uuid.UUID]bool)
	for _, r := range st.rows[day.AttendanceDayID] {
		byPID[r.ParticipantAttendanceParticipantID] = r.ParticipantAttendancePresent
		assert.Equal(t, attendanceModel.AttendanceSourceRecorded, r.ParticipantAttendanceSource)
	}
	assert.True(t, byPID[pids[0]])
	assert.False(t, byPID[pids[1]])
	assert.False(t, byPID[pids[2]])
}

func TestRecordDay_RejectedWhenUnverified(t *testing.T) {
	now := at(2, 9, 0)
	svc, _, batchID, _ := recorderFixture(t, false, now)

	_, _, err := svc.RecordDay(context.Background(), batchID, at(2, 0, 0), nil, uuid.New())
	pe, ok := errs.AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "window_blocked_unverified", pe.Code)
}

func TestRecordDay_RejectedWhenBacklog(t *testing.T) {
	// Hari 1 kelewat, sekarang hari 2
	now := at(3, 9, 0)
	svc, _, batchID, _ := recorderFixture(t, true, now)

	_, _, err := svc.RecordDay(context.Background(), batchID, at(3, 0, 0), nil, uuid.New())
	pe, ok := errs.AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "window_blocked_backlog", pe.Code)
	assert.Contains(t, pe.Message, "2026-03-02") // tanggal bolong pertama disebut
}

func TestRecordDay_RejectedBeforeDailyStart(t *testing.T) {
	now := at(2, 7, 30)
	svc, _, batchID, _ := recorderFixture(t, true, now)

	_, _, err := svc.RecordDay(context.Background(), batchID, at(2, 0, 0), nil, uuid.New())
	pe, ok := errs.AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "window_not_open", pe.Code)
}

func TestRecordDay_RejectedWhenAlreadyRecorded(t *testing.T) {
	now := at(2, 9, 0)
	svc, _, batchID, _ := recorderFixture(t, true, now)

	_, _, err := svc.RecordDay(context.Background(), batchID, at(2, 0, 0), nil, uuid.New())
	require.NoError(t, err)

	_, _, err = svc.RecordDay(context.Background(), batchID, at(2, 0, 0), nil, uuid.New())
	pe, ok := errs.AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "window_recorded", pe.Code)
}

func TestRecordDay_PartialFailureKeepsGoing(t *testing.T) {
	now := at(2, 9, 0)
	svc, st, batchID, pids := recorderFixture(t, true, now)
	st.failCreateFor[pids[1]] = true

	day, outcomes, err := svc.RecordDay(context.Background(), batchID, at(2, 0, 0), nil, uuid.New())
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	var failed, written int
	for _, o := range outcomes {
		if o.Error != "" {
			failed++
			assert.Equal(t, pids[1], o.ParticipantID)
		}
		if o.Written {
			written++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, written)
	assert.Len(t, st.rows[day.AttendanceDayID], 2)
}

/* =========================
   BackfillAbsent
========================= */

func TestBackfillAbsent_CoversAllRosterAllAbsent(t *testing.T) {
	// Hari 1-2 kelewat, sekarang hari 3
	now := at(4, 9, 0)
	svc, st, batchID, _ := recorderFixture(t, true, now)

	dates := []time.Time{at(2, 0, 0), at(3, 0, 0)}
	results, err := svc.BackfillAbsent(context.Background(), batchID, dates, uuid.New())
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, res := range results {
		assert.False(t, res.DayExisted)
		assert.Len(t, res.Outcomes, 3)
		for _, o := range res.Outcomes {
			assert.True(t, o.Written)
		}
	}
	for _, key := range []string{"2026-03-02", "2026-03-03"} {
		day := st.days[key]
		require.NotNil(t, day)
		assert.Equal(t, attendanceModel.AttendanceSourceBackfill, day.AttendanceDaySource)
		for _, r := range st.rows[day.AttendanceDayID] {
			assert.False(t, r.ParticipantAttendancePresent)
		}
	}

	// Backlog tertutup → hari ini bisa buka
	_, _, err = svc.RecordDay(context.Background(), batchID, at(4, 0, 0), nil, uuid.New())
	assert.NoError(t, err)
}

func TestBackfillAbsent_RerunIsIdempotent(t *testing.T) {
	now := at(4, 9, 0)
	svc, st, batchID, _ := recorderFixture(t, true, now)

	dates := []time.Time{at(2, 0, 0)}
	_, err := svc.BackfillAbsent(context.Background(), batchID, dates, uuid.New())
	require.NoError(t, err)

	results, err := svc.BackfillAbsent(context.Background(), batchID, dates, uuid.New())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].DayExisted)
	for _, o := range results[0].Outcomes {
		assert.True(t, o.Skipped)
		assert.False(t, o.Written)
	}
	assert.Len(t, st.rows[st.days["2026-03-02"].AttendanceDayID], 3) // tidak dobel
}

func TestBackfillAbsent_ResumesHalfDoneDay(t *testing.T) {
	now := at(4, 9, 0)
	svc, st, batchID, pids := recorderFixture(t, true, now)

	// Run pertama gagal di peserta kedua
	st.failCreateFor[pids[1]] = true
	_, err := svc.BackfillAbsent(context.Background(), batchID, []time.Time{at(2, 0, 0)}, uuid.New())
	require.NoError(t, err)
	require.Len(t, st.rows[st.days["2026-03-02"].AttendanceDayID], 2)

	// Retry menutup sisanya tanpa menduplikasi yang sudah ada
	delete(st.failCreateFor, pids[1])
	results, err := svc.BackfillAbsent(context.Background(), batchID, []time.Time{at(2, 0, 0)}, uuid.New())
	require.NoError(t, err)
	require.True(t, results[0].DayExisted)

	var written, skipped int
	for _, o := range results[0].Outcomes {
		if o.Written {
			written++
		}
		if o.Skipped {
			skipped++
		}
	}
	assert.Equal(t, 1, written)
	assert.Equal(t, 2, skipped)
	assert.Len(t, st.rows[st.days["2026-03-02"].AttendanceDayID], 3)
}

func TestBackfillAbsent_RejectsTodayAndOutOfSpan(t *testing.T) {
	now := at(4, 9, 0)
	svc, _, batchID, _ := recorderFixture(t, true, now)

	for _, d := range []time.Time{at(4, 0, 0), at(5, 0, 0), at(1, 0, 0)} {
		_, err := svc.BackfillAbsent(context.Background(), batchID, []time.Time{d}, uuid.New())
		pe, ok := errs.AsPrecondition(err)
		require.True(t, ok, "date %s", DateKey(d))
		assert.Equal(t, "backfill_date_out_of_range", pe.Code)
	}
}

/* =========================
   GetOrCreateAttendanceDay
========================= */

func TestGetOrCreateAttendanceDay_ConvergesOnRace(t *testing.T) {
	now := at(2, 9, 0)
	svc, _, batchID, _ := recorderFixture(t, true, now)
	ctx := context.Background()

	first, err := svc.GetOrCreateAttendanceDay(ctx, batchID, at(2, 0, 0), uuid.New(), attendanceModel.AttendanceSourceRecorded)
	require.NoError(t, err)

	// Pemanggil kedua utk (batch, tanggal) yang sama dapat baris yang sama
	second, err := svc.GetOrCreateAttendanceDay(ctx, batchID, at(2, 0, 0), uuid.New(), attendanceModel.AttendanceSourceRecorded)
	require.NoError(t, err)
	assert.Equal(t, first.AttendanceDayID, second.AttendanceDayID)
}

/* =========================
   ScheduleStatus
========================= */

func TestScheduleStatus_ReportsStatesAndMissing(t *testing.T) {
	now := at(4, 9, 0)
	svc, _, batchID, _ := recorderFixture(t, true, now)

	// Tutup hari 1, biarkan hari 2 bolong
	_, err := svc.BackfillAbsent(context.Background(), batchID, []time.Time{at(2, 0, 0)}, uuid.New())
	require.NoError(t, err)

	days, missing, fully, err := svc.ScheduleStatus(context.Background(), batchID)
	require.NoError(t, err)
	assert.True(t, fully)
	require.Len(t, days, 5)

	assert.Equal(t, DayStateRecorded, days[0].State)
	assert.Equal(t, DayStateBlockedBacklog, days[1].State)
	assert.Equal(t, DayStateBlockedBacklog, days[2].State) // hari ini tertahan backlog
	assert.Equal(t, DayStateNotOpen, days[3].State)
	assert.Equal(t, DayStateNotOpen, days[4].State)

	require.Len(t, missing, 1)
	assert.Equal(t, "2026-03-03", missing[0])
}

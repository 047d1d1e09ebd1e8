// file: internals/features/training/batches/service/allocation_service_test.go
package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	batchModel "pelatihanku_backend/internals/features/training/batches/model"
	requestModel "pelatihanku_backend/internals/features/training/requests/model"
	"pelatihanku_backend/internals/helpers/errs"
)

/* =========================
   Fake store
========================= */

type fakeAllocationStore struct {
	requests     map[uuid.UUID]*requestModel.TrainingRequestModel
	participants map[uuid.UUID]*requestModel.TrainingParticipantModel
	batches      map[uuid.UUID]*batchModel.TrainingBatchModel
	allocations  []batchModel.BatchParticipantModel
}

func newFakeAllocationStore() *fakeAllocationStore {
	return &fakeAllocationStore{
		requests:     make(map[uuid.UUID]*requestModel.TrainingRequestModel),
		participants: make(map[uuid.UUID]*requestModel.TrainingParticipantModel),
		batches:      make(map[uuid.UUID]*batchModel.TrainingBatchModel),
	}
}

func (st *fakeAllocationStore) RequestByID(ctx context.Context, id uuid.UUID) (*requestModel.TrainingRequestModel, error) {
	req, ok := st.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return req, nil
}

func (st *fakeAllocationStore) ParticipantsByIDs(ctx context.Context, ids []uuid.UUID) ([]requestModel.TrainingParticipantModel, error) {
	out := make([]requestModel.TrainingParticipantModel, 0, len(ids))
	for _, id := range ids {
		if p, ok := st.participants[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (st *fakeAllocationStore) BatchByID(ctx context.Context, id uuid.UUID) (*batchModel.TrainingBatchModel, error) {
	b, ok := st.batches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

// CreateBatchWithAllocations meniru semantik transaksi + guard claim_status:
// kalau ada satu saja peserta yang sudah claimed, seluruh commit batal.
func (st *fakeAllocationStore) CreateBatchWithAllocations(
	ctx context.Context,
	batch *batchModel.TrainingBatchModel,
	rows []batchModel.BatchParticipantModel,
	patch ClaimPatch,
) error {
	for _, pid := range patch.ParticipantIDs {
		p, ok := st.participants[pid]
		if !ok || p.IsClaimed() {
			return ErrClaimConflict
		}
	}

	batch.TrainingBatchID = uuid.New()
	st.batches[batch.TrainingBatchID] = batch
	for i := range rows {
		rows[i].BatchParticipantBatchID = batch.TrainingBatchID
		st.allocations = append(st.allocations, rows[i])
	}
	for _, pid := range patch.ParticipantIDs {
		sid := patch.SessionID
		st.participants[pid].TrainingParticipantClaimStatus = requestModel.ClaimStatusClaimed
		st.participants[pid].TrainingParticipantClaimSessionID = &sid
	}
	return nil
}

func (st *fakeAllocationStore) SetDailyStartTimeOnce(ctx context.Context, batchID uuid.UUID, hhmm string) (int64, error) {
	b, ok := st.batches[batchID]
	if !ok || b.TrainingBatchDailyStartTime != nil {
		return 0, nil
	}
	v := hhmm
	b.TrainingBatchDailyStartTime = &v
	return 1, nil
}

/* =========================
   Fixtures
========================= */

func (st *fakeAllocationStore) addRequest(durationDays int) uuid.UUID {
	id := uuid.New()
	st.requests[id] = &requestModel.TrainingRequestModel{
		TrainingRequestID:               id,
		TrainingRequestPlanID:           uuid.New(),
		TrainingRequestTrainingType:     requestModel.TrainingTypeResidential,
		TrainingRequestStatus:           requestModel.RequestStatusApproved,
		TrainingRequestStartDate:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		TrainingRequestPlanDurationDays: durationDays,
	}
	return id
}

func (st *fakeAllocationStore) addParticipants(requestID uuid.UUID, n int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		id := uuid.New()
		st.participants[id] = &requestModel.TrainingParticipantModel{
			TrainingParticipantID:          id,
			TrainingParticipantRequestID:   requestID,
			TrainingParticipantName:        fmt.Sprintf("Peserta %d", i+1),
			TrainingParticipantRole:        requestModel.ParticipantRoleTrainee,
			TrainingParticipantClaimStatus: requestModel.ClaimStatusUnclaimed,
		}
		ids = append(ids, id)
	}
	return ids
}

func draftBatch(requestID uuid.UUID, bt batchModel.BatchType) *batchModel.TrainingBatchModel {
	return &batchModel.TrainingBatchModel{
		TrainingBatchRequestID: requestID,
		TrainingBatchCentreID:  uuid.New(),
		TrainingBatchType:      bt,
		TrainingBatchStartDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	}
}

func fieldSet(ve *errs.ValidationError) map[string]bool {
	out := make(map[string]bool, len(ve.Errors))
	for _, fe := range ve.Errors {
		out[fe.Field] = true
	}
	return out
}

/* =========================
   Allocate
========================= */

func TestAllocate_HappyPath(t *testing.T) {
	st := newFakeAllocationStore()
	reqID := st.addRequest(5)
	pids := st.addParticipants(reqID, 3)

	svc := NewAllocationServiceWithStore(st)
	session := NewAllocationSession()
	b := draftBatch(reqID, batchModel.BatchTypeSeparate)

	rows, err := svc.Allocate(context.Background(), session, BatchInput{Batch: b, ParticipantIDs: pids}, uuid.New())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// End date diturunkan dari durasi rencana (5 hari → start+4)
	assert.Equal(t, "2026-03-13", b.TrainingBatchEndDate.Format("2006-01-02"))

	// Claim marker terpasang di peserta sumber
	for _, pid := range pids {
		assert.True(t, st.participants[pid].IsClaimed())
		require.NotNil(t, st.participants[pid].TrainingParticipantClaimSessionID)
		assert.Equal(t, session.ID, *st.participants[pid].TrainingParticipantClaimSessionID)
	}

	// Snapshot identitas ikut tersimpan di baris alokasi
	assert.Equal(t, "Peserta 1", rows[0].BatchParticipantSnapshot["name"])
}

func TestAllocate_CollectsFieldErrorsPerBatch(t *testing.T) {
	st := newFakeAllocationStore()
	svc := NewAllocationServiceWithStore(st)

	b := &batchModel.TrainingBatchModel{} // semua field kosong
	_, err := svc.Allocate(context.Background(), NewAllocationSession(), BatchInput{Batch: b}, uuid.New())

	ve, ok := errs.AsValidation(err)
	require.True(t, ok)
	fields := fieldSet(ve)
	assert.True(t, fields["training_batch_type"])
	assert.True(t, fields["training_batch_centre_id"])
	assert.True(t, fields["training_batch_start_date"])
	assert.True(t, fields["participants"])
}

func TestAllocate_CapacityCap(t *testing.T) {
	st := newFakeAllocationStore()
	reqID := st.addRequest(5)
	pids := st.addParticipants(reqID, 51)
	svc := NewAllocationServiceWithStore(st)

	// 51 ditolak
	_, err := svc.Allocate(context.Background(), NewAllocationSession(),
		BatchInput{Batch: draftBatch(reqID, batchModel.BatchTypeSeparate), ParticipantIDs: pids}, uuid.New())
	ve, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.True(t, fieldSet(ve)["participants"])

	// Tepat 50 lolos
	rows, err := svc.Allocate(context.Background(), NewAllocationSession(),
		BatchInput{Batch: draftBatch(reqID, batchModel.BatchTypeSeparate), ParticipantIDs: pids[:50]}, uuid.New())
	require.NoError(t, err)
	assert.Len(t, rows, 50)
}

func TestAllocate_RejectsDuplicateSelection(t *testing.T) {
	st := newFakeAllocationStore()
	reqID := st.addRequest(5)
	pids := st.addParticipants(reqID, 2)
	svc := NewAllocationServiceWithStore(st)

	_, err := svc.Allocate(context.Background(), NewAllocationSession(),
		BatchInput{
			Batch:          draftBatch(reqID, batchModel.BatchTypeSeparate),
			ParticipantIDs: []uuid.UUID{pids[0], pids[1], pids[0]},
		}, uuid.New())
	ve, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.True(t, fieldSet(ve)["participants"])
}

func TestAllocate_NoDoubleBookingWithinSession(t *testing.T) {
	st := newFakeAllocationStore()
	reqID := st.addRequest(5)
	pids := st.addParticipants(reqID, 4)
	svc := NewAllocationServiceWithStore(st)
	session := NewAllocationSession()
	actor := uuid.New()

	_, err := svc.Allocate(context.Background(), session,
		BatchInput{Batch: draftBatch(reqID, batchModel.BatchTypeSeparate), ParticipantIDs: pids[:2]}, actor)
	require.NoError(t, err)

	// Batch kedua di sesi yang sama mencoba peserta yang sudah diambil
	_, err = svc.Allocate(context.Background(), session,
		BatchInput{Batch: draftBatch(reqID, batchModel.BatchTypeSeparate), ParticipantIDs: []uuid.UUID{pids[1], pids[2]}}, actor)
	ve, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.True(t, fieldSet(ve)["participants"])

	// Sisa yang belum diambil tetap bisa
	_, err = svc.Allocate(context.Background(), session,
		BatchInput{Batch: draftBatch(reqID, batchModel.BatchTypeSeparate), ParticipantIDs: pids[2:]}, actor)
	assert.NoError(t, err)
}

func TestAllocate_FirstCommitterWinsAcrossSessions(t *testing.T) {
	st := newFakeAllocationStore()
	reqID := st.addRequest(5)
	pids := st.addParticipants(reqID, 2)
	svc := NewAllocationServiceWithStore(st)
	actor := uuid.New()

	// Dua sesi melihat pool yang sama, sesi pertama commit duluan
	s1, s2 := NewAllocationSession(), NewAllocationSession()
	_, err := svc.Allocate(context.Background(), s1,
		BatchInput{Batch: draftBatch(reqID, batchModel.BatchTypeSeparate), ParticipantIDs: pids}, actor)
	require.NoError(t, err)

	_, err = svc.Allocate(context.Background(), s2,
		BatchInput{Batch: draftBatch(reqID, batchModel.BatchTypeSeparate), ParticipantIDs: pids}, actor)
	ve, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.True(t, fieldSet(ve)["participants"])

	// Tidak ada alokasi ganda yang lolos diam-diam
	assert.Len(t, st.allocations, 2)
	for _, pid := range pids {
		assert.Equal(t, s1.ID, *st.participants[pid].TrainingParticipantClaimSessionID)
	}
}

func TestAllocate_SeparateBatchRejectsForeignParticipant(t *testing.T) {
	st := newFakeAllocationStore()
	reqID := st.addRequest(5)
	otherID := st.addRequest(5)
	home := st.addParticipants(reqID, 1)
	foreign := st.addParticipants(otherID, 1)
	svc := NewAllocationServiceWithStore(st)

	_, err := svc.Allocate(context.Background(), NewAllocationSession(),
		BatchInput{
			Batch:          draftBatch(reqID, batchModel.BatchTypeSeparate),
			ParticipantIDs: []uuid.UUID{home[0], foreign[0]},
		}, uuid.New())
	ve, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.True(t, fieldSet(ve)["participants"])

	// Batch combined boleh menarik peserta sibling
	rows, err := svc.Allocate(context.Background(), NewAllocationSession(),
		BatchInput{
			Batch:          draftBatch(reqID, batchModel.BatchTypeCombined),
			ParticipantIDs: []uuid.UUID{home[0], foreign[0]},
		}, uuid.New())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, reqID, rows[0].BatchParticipantSourceRequestID)
	assert.Equal(t, otherID, rows[1].BatchParticipantSourceRequestID)
}

/* =========================
   SetDailyStartTime
========================= */

func TestSetDailyStartTime_WriteOnce(t *testing.T) {
	st := newFakeAllocationStore()
	batchID := uuid.New()
	st.batches[batchID] = &batchModel.TrainingBatchModel{TrainingBatchID: batchID}
	svc := NewAllocationServiceWithStore(st)
	ctx := context.Background()

	stored, changed, err := svc.SetDailyStartTime(ctx, batchID, "08:30")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "08:30", stored)

	// Percobaan kedua: no-op, nilai pertama yang bertahan
	stored, changed, err = svc.SetDailyStartTime(ctx, batchID, "09:00")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "08:30", stored)
}

func TestSetDailyStartTime_RejectsBadFormat(t *testing.T) {
	svc := NewAllocationServiceWithStore(newFakeAllocationStore())

	for _, bad := range []string{"25:00", "0800", "pagi"} {
		_, _, err := svc.SetDailyStartTime(context.Background(), uuid.New(), bad)
		_, ok := errs.AsValidation(err)
		assert.True(t, ok, "input %q", bad)
	}
}

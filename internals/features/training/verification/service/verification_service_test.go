// file: internals/features/training/verification/service/verification_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	verifModel "pelatihanku_backend/internals/features/training/verification/model"
	"pelatihanku_backend/internals/helpers/errs"
)

/* =========================
   Fake store
========================= */

type pair struct{ batch, participant uuid.UUID }

type fakeVerificationStore struct {
	roster  map[uuid.UUID][]uuid.UUID // batch → participant ids
	records map[pair]*verifModel.ParticipantVerificationModel
}

func newFakeVerificationStore() *fakeVerificationStore {
	return &fakeVerificationStore{
		roster:  make(map[uuid.UUID][]uuid.UUID),
		records: make(map[pair]*verifModel.ParticipantVerificationModel),
	}
}

func (st *fakeVerificationStore) RosterParticipantIDs(ctx context.Context, batchID uuid.UUID) ([]uuid.UUID, error) {
	return st.roster[batchID], nil
}

func (st *fakeVerificationStore) RecordByPair(ctx context.Context, batchID, participantID uuid.UUID) (*verifModel.ParticipantVerificationModel, error) {
	if rec, ok := st.records[pair{batchID, participantID}]; ok {
		return rec, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (st *fakeVerificationStore) CreateRecord(ctx context.Context, rec *verifModel.ParticipantVerificationModel) (bool, error) {
	key := pair{rec.ParticipantVerificationBatchID, rec.ParticipantVerificationParticipantID}
	if _, ok := st.records[key]; ok {
		return false, nil // ON CONFLICT DO NOTHING
	}
	rec.ParticipantVerificationID = uuid.New()
	st.records[key] = rec
	return true, nil
}

func (st *fakeVerificationStore) MarkVerified(ctx context.Context, batchID, participantID uuid.UUID, at time.Time, by uuid.UUID) error {
	rec, ok := st.records[pair{batchID, participantID}]
	if !ok || rec.ParticipantVerificationStatus != verifModel.VerificationStatusPending {
		return nil // guard status=pending: no-op
	}
	rec.ParticipantVerificationStatus = verifModel.VerificationStatusVerified
	rec.ParticipantVerificationVerifiedAt = &at
	rec.ParticipantVerificationVerifiedBy = &by
	return nil
}

func (st *fakeVerificationStore) RecordsByBatch(ctx context.Context, batchID uuid.UUID) ([]verifModel.ParticipantVerificationModel, error) {
	var out []verifModel.ParticipantVerificationModel
	for k, rec := range st.records {
		if k.batch == batchID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func fixture(n int) (*fakeVerificationStore, uuid.UUID, []uuid.UUID) {
	st := newFakeVerificationStore()
	batchID := uuid.New()
	pids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		pids = append(pids, uuid.New())
	}
	st.roster[batchID] = pids
	return st, batchID, pids
}

/* =========================
   Verify
========================= */

func TestVerify_LazyCreatesVerifiedRecord(t *testing.T) {
	st, batchID, pids := fixture(2)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewVerificationServiceWithStore(st, func() time.Time { return now })
	actor := uuid.New()

	rec, err := svc.Verify(context.Background(), batchID, pids[0], actor)
	require.NoError(t, err)
	assert.True(t, rec.IsVerified())
	require.NotNil(t, rec.ParticipantVerificationVerifiedAt)
	assert.Equal(t, now, *rec.ParticipantVerificationVerifiedAt)
	assert.Equal(t, actor, *rec.ParticipantVerificationVerifiedBy)
}

func TestVerify_IsIdempotent(t *testing.T) {
	st, batchID, pids := fixture(1)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewVerificationServiceWithStore(st, func() time.Time { return now })
	actor1, actor2 := uuid.New(), uuid.New()

	first, err := svc.Verify(context.Background(), batchID, pids[0], actor1)
	require.NoError(t, err)

	// Verifikasi ulang oleh aktor lain: record lama apa adanya, bukan error
	second, err := svc.Verify(context.Background(), batchID, pids[0], actor2)
	require.NoError(t, err)
	assert.Equal(t, first.ParticipantVerificationID, second.ParticipantVerificationID)
	assert.Equal(t, actor1, *second.ParticipantVerificationVerifiedBy)
	assert.Equal(t, *first.ParticipantVerificationVerifiedAt, *second.ParticipantVerificationVerifiedAt)
}

func TestVerify_PromotesPendingRecord(t *testing.T) {
	st, batchID, pids := fixture(1)
	st.records[pair{batchID, pids[0]}] = &verifModel.ParticipantVerificationModel{
		ParticipantVerificationID:            uuid.New(),
		ParticipantVerificationBatchID:       batchID,
		ParticipantVerificationParticipantID: pids[0],
		ParticipantVerificationStatus:        verifModel.VerificationStatusPending,
	}
	svc := NewVerificationServiceWithStore(st, nil)

	rec, err := svc.Verify(context.Background(), batchID, pids[0], uuid.New())
	require.NoError(t, err)
	assert.True(t, rec.IsVerified())
}

func TestVerify_RejectsParticipantOffRoster(t *testing.T) {
	st, batchID, _ := fixture(2)
	svc := NewVerificationServiceWithStore(st, nil)

	_, err := svc.Verify(context.Background(), batchID, uuid.New(), uuid.New())
	pe, ok := errs.AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "not_on_roster", pe.Code)
}

/* =========================
   IsBatchFullyVerified
========================= */

func TestIsBatchFullyVerified(t *testing.T) {
	st, batchID, pids := fixture(3)
	svc := NewVerificationServiceWithStore(st, nil)
	ctx := context.Background()
	actor := uuid.New()

	fully, err := svc.IsBatchFullyVerified(ctx, batchID)
	require.NoError(t, err)
	assert.False(t, fully)

	// Sebagian verified → masih belum
	for _, pid := range pids[:2] {
		_, err := svc.Verify(ctx, batchID, pid, actor)
		require.NoError(t, err)
	}
	fully, err = svc.IsBatchFullyVerified(ctx, batchID)
	require.NoError(t, err)
	assert.False(t, fully)

	// Lengkap → true
	_, err = svc.Verify(ctx, batchID, pids[2], actor)
	require.NoError(t, err)
	fully, err = svc.IsBatchFullyVerified(ctx, batchID)
	require.NoError(t, err)
	assert.True(t, fully)
}

func TestIsBatchFullyVerified_EmptyRosterNeverFully(t *testing.T) {
	st := newFakeVerificationStore()
	batchID := uuid.New()
	st.roster[batchID] = nil
	svc := NewVerificationServiceWithStore(st, nil)

	fully, err := svc.IsBatchFullyVerified(context.Background(), batchID)
	require.NoError(t, err)
	assert.False(t, fully)
}

/* =========================
   BatchStatus
========================= */

func TestBatchStatus_PendingByDefault(t *testing.T) {
	st, batchID, pids := fixture(3)
	svc := NewVerificationServiceWithStore(st, nil)
	ctx := context.Background()

	_, err := svc.Verify(ctx, batchID, pids[1], uuid.New())
	require.NoError(t, err)

	statuses, fully, err := svc.BatchStatus(ctx, batchID)
	require.NoError(t, err)
	assert.False(t, fully)
	require.Len(t, statuses, 3)

	// Urutan mengikuti roster; tanpa record ≡ pending
	assert.Equal(t, verifModel.VerificationStatusPending, statuses[0].Status)
	assert.Equal(t, verifModel.VerificationStatusVerified, statuses[1].Status)
	assert.NotNil(t, statuses[1].VerifiedAt)
	assert.Equal(t, verifModel.VerificationStatusPending, statuses[2].Status)
}

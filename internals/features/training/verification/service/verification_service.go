// file: internals/features/training/verification/service/verification_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	batchModel "pelatihanku_backend/internals/features/training/batches/model"
	verifModel "pelatihanku_backend/internals/features/training/verification/model"
	"pelatihanku_backend/internals/helpers/errs"
)

// Verifikasi peserta di luar roster merusak kalkulasi "fully verified",
// jadi ditolak eksplisit, bukan diterima diam-diam.
var ErrNotOnRoster = errs.NewPrecondition("not_on_roster", "peserta tidak terdaftar di roster batch ini")

/* =========================
   Store
========================= */

type VerificationStore interface {
	RosterParticipantIDs(ctx context.Context, batchID uuid.UUID) ([]uuid.UUID, error)
	RecordByPair(ctx context.Context, batchID, participantID uuid.UUID) (*verifModel.ParticipantVerificationModel, error)
	// CreateRecord: insert dgn ON CONFLICT DO NOTHING; return true kalau baris baru dibuat.
	CreateRecord(ctx context.Context, rec *verifModel.ParticipantVerificationModel) (bool, error)
	// MarkVerified: update guard status=pending (idempoten saat balapan).
	MarkVerified(ctx context.Context, batchID, participantID uuid.UUID, at time.Time, by uuid.UUID) error
	RecordsByBatch(ctx context.Context, batchID uuid.UUID) ([]verifModel.ParticipantVerificationModel, error)
}

/* =========================
   VerificationGate
========================= */

type VerificationService struct {
	store VerificationStore
	nowFn func() time.Time
}

func NewVerificationService(db *gorm.DB) *VerificationService {
	return &VerificationService{store: &gormVerificationStore{DB: db}, nowFn: time.Now}
}

func NewVerificationServiceWithStore(st VerificationStore, nowFn func() time.Time) *VerificationService {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &VerificationService{store: st, nowFn: nowFn}
}

// Verify: idempoten. Pasangan yang sudah verified dikembalikan apa adanya —
// tidak re-verify, tidak error. Peserta di luar roster ditolak (ErrNotOnRoster).
func (svc *VerificationService) Verify(ctx context.Context, batchID, participantID, actorID uuid.UUID) (*verifModel.ParticipantVerificationModel, error) {
	onRoster, err := svc.isOnRoster(ctx, batchID, participantID)
	if err != nil {
		return nil, err
	}
	if !onRoster {
		return nil, ErrNotOnRoster
	}

	rec, err := svc.store.RecordByPair(ctx, batchID, participantID)
	switch {
	case err == nil:
		if rec.IsVerified() {
			return rec, nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Lazy create saat percobaan verifikasi pertama
		now := svc.nowFn()
		fresh := &verifModel.ParticipantVerificationModel{
			ParticipantVerificationBatchID:       batchID,
			ParticipantVerificationParticipantID: participantID,
			ParticipantVerificationStatus:        verifModel.VerificationStatusVerified,
			ParticipantVerificationVerifiedAt:    &now,
			ParticipantVerificationVerifiedBy:    &actorID,
		}
		created, err := svc.store.CreateRecord(ctx, fresh)
		if err != nil {
			return nil, err
		}
		if created {
			return fresh, nil
		}
		// Kalah balapan: baris dibuat caller lain → pakai baris itu
		rec, err = svc.store.RecordByPair(ctx, batchID, participantID)
		if err != nil {
			return nil, err
		}
		if rec.IsVerified() {
			return rec, nil
		}
	default:
		return nil, err
	}

	// Baris pending → tandai verified (guard di store bikin aman saat balapan)
	if err := svc.store.MarkVerified(ctx, batchID, participantID, svc.nowFn(), actorID); err != nil {
		return nil, err
	}
	return svc.store.RecordByPair(ctx, batchID, participantID)
}

// IsBatchFullyVerified: true iff setiap peserta roster punya record verified.
// Roster kosong tidak pernah dianggap fully verified.
func (svc *VerificationService) IsBatchFullyVerified(ctx context.Context, batchID uuid.UUID) (bool, error) {
	roster, err := svc.store.RosterParticipantIDs(ctx, batchID)
	if err != nil {
		return false, err
	}
	if len(roster) == 0 {
		return false, nil
	}

	records, err := svc.store.RecordsByBatch(ctx, batchID)
	if err != nil {
		return false, err
	}
	verified := make(map[uuid.UUID]bool, len(records))
	for i := range records {
		if records[i].IsVerified() {
			verified[records[i].ParticipantVerificationParticipantID] = true
		}
	}
	for _, pid := range roster {
		if !verified[pid] {
			return false, nil
		}
	}
	return true, nil
}

// BatchStatus: status per peserta (tanpa record ≡ pending) + agregat fully verified.
type ParticipantVerificationStatus struct {
	ParticipantID uuid.UUID
	Status        verifModel.VerificationStatus
	VerifiedAt    *time.Time
}

func (svc *VerificationService) BatchStatus(ctx context.Context, batchID uuid.UUID) ([]ParticipantVerificationStatus, bool, error) {
	roster, err := svc.store.RosterParticipantIDs(ctx, batchID)
	if err != nil {
		return nil, false, err
	}
	records, err := svc.store.RecordsByBatch(ctx, batchID)
	if err != nil {
		return nil, false, err
	}
	byParticipant := make(map[uuid.UUID]*verifModel.ParticipantVerificationModel, len(records))
	for i := range records {
		byParticipant[records[i].ParticipantVerificationParticipantID] = &records[i]
	}

	out := make([]ParticipantVerificationStatus, 0, len(roster))
	fully := len(roster) > 0
	for _, pid := range roster {
		st := ParticipantVerificationStatus{ParticipantID: pid, Status: verifModel.VerificationStatusPending}
		if rec, ok := byParticipant[pid]; ok && rec.IsVerified() {
			st.Status = verifModel.VerificationStatusVerified
			st.VerifiedAt = rec.ParticipantVerificationVerifiedAt
		} else {
			fully = false
		}
		out = append(out, st)
	}
	return out, fully, nil
}

func (svc *VerificationService) isOnRoster(ctx context.Context, batchID, participantID uuid.UUID) (bool, error) {
	roster, err := svc.store.RosterParticipantIDs(ctx, batchID)
	if err != nil {
		return false, err
	}
	for _, pid := range roster {
		if pid == participantID {
			return true, nil
		}
	}
	return false, nil
}

/* =========================
   GORM store
========================= */

type gormVerificationStore struct{ DB *gorm.DB }

func (st *gormVerificationStore) RosterParticipantIDs(ctx context.Context, batchID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := st.DB.WithContext(ctx).
		Model(&batchModel.BatchParticipantModel{}).
		Where("batch_participant_batch_id = ?", batchID).
		Order("batch_participant_created_at ASC").
		Pluck("batch_participant_participant_id", &ids).Error
	return ids, err
}

func (st *gormVerificationStore) RecordByPair(ctx context.Context, batchID, participantID uuid.UUID) (*verifModel.ParticipantVerificationModel, error) {
	var rec verifModel.ParticipantVerificationModel
	if err := st.DB.WithContext(ctx).
		Where("participant_verification_batch_id = ?", batchID).
		Where("participant_verification_participant_id = ?", participantID).
		Take(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (st *gormVerificationStore) CreateRecord(ctx context.Context, rec *verifModel.ParticipantVerificationModel) (bool, error) {
	res := st.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "participant_verification_batch_id"},
				{Name: "participant_verification_participant_id"},
			},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (st *gormVerificationStore) MarkVerified(ctx context.Context, batchID, participantID uuid.UUID, at time.Time, by uuid.UUID) error {
	return st.DB.WithContext(ctx).
		Model(&verifModel.ParticipantVerificationModel{}).
		Where("participant_verification_batch_id = ?", batchID).
		Where("participant_verification_participant_id = ?", participantID).
		Where("participant_verification_status = ?", verifModel.VerificationStatusPending).
		Updates(map[string]interface{}{
			"participant_verification_status":      verifModel.VerificationStatusVerified,
			"participant_verification_verified_at": at,
			"participant_verification_verified_by": by,
			"participant_verification_updated_at":  at,
		}).Error
}

func (st *gormVerificationStore) RecordsByBatch(ctx context.Context, batchID uuid.UUID) ([]verifModel.ParticipantVerificationModel, error) {
	var rows []verifModel.ParticipantVerificationModel
	err := st.DB.WithContext(ctx).
		Where("participant_verification_batch_id = ?", batchID).
		Find(&rows).Error
	return rows, err
}

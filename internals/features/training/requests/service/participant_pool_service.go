// file: internals/features/training/requests/service/participant_pool_service.go
package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	requestModel "pelatihanku_backend/internals/features/training/requests/model"
)

/* =========================
   Store
========================= */

// PoolStore: akses baca yang dibutuhkan pool. Implementasi default GORM,
// test memakai fake in-memory.
type PoolStore interface {
	RequestByID(ctx context.Context, id uuid.UUID) (*requestModel.TrainingRequestModel, error)
	// SiblingRequestIDs: request lain yang cocok (plan, jenis, status), exclude request sendiri.
	SiblingRequestIDs(ctx context.Context, req *requestModel.TrainingRequestModel) ([]uuid.UUID, error)
	// UnclaimedParticipants: peserta tanpa claim marker, urut per request lalu created_at.
	UnclaimedParticipants(ctx context.Context, requestIDs []uuid.UUID) ([]requestModel.TrainingParticipantModel, error)
}

/* =========================
   ParticipantPool
========================= */

type ParticipantPool struct {
	store PoolStore
}

func NewParticipantPool(db *gorm.DB) *ParticipantPool {
	return &ParticipantPool{store: &gormPoolStore{DB: db}}
}

func NewParticipantPoolWithStore(st PoolStore) *ParticipantPool {
	return &ParticipantPool{store: st}
}

// AvailableParticipants mengembalikan peserta yang masih bisa dialokasikan untuk
// sebuah request. `sessionClaimed` adalah id peserta yang sudah diambil batch lain
// dalam sesi alokasi yang sama (shared lintas batch, jangan di-cache oleh caller).
// Pool kosong adalah kondisi valid, bukan error.
func (p *ParticipantPool) AvailableParticipants(
	ctx context.Context,
	requestID uuid.UUID,
	poolSiblings bool,
	sessionClaimed map[uuid.UUID]uuid.UUID,
) ([]requestModel.TrainingParticipantModel, error) {
	req, err := p.store.RequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	requestIDs := []uuid.UUID{req.TrainingRequestID}
	if poolSiblings {
		siblings, err := p.store.SiblingRequestIDs(ctx, req)
		if err != nil {
			return nil, err
		}
		requestIDs = append(requestIDs, siblings...)
	}

	rows, err := p.store.UnclaimedParticipants(ctx, requestIDs)
	if err != nil {
		return nil, err
	}

	// Urutkan home request duluan, lalu pooled; claim marker & claim sesi disaring.
	out := make([]requestModel.TrainingParticipantModel, 0, len(rows))
	for _, r := range rows {
		if r.TrainingParticipantRequestID != requestID {
			continue
		}
		if eligible(&r, sessionClaimed) {
			out = append(out, r)
		}
	}
	for _, r := range rows {
		if r.TrainingParticipantRequestID == requestID {
			continue
		}
		if eligible(&r, sessionClaimed) {
			out = append(out, r)
		}
	}
	return out, nil
}

func eligible(m *requestModel.TrainingParticipantModel, sessionClaimed map[uuid.UUID]uuid.UUID) bool {
	if m.IsClaimed() {
		return false
	}
	if _, taken := sessionClaimed[m.TrainingParticipantID]; taken {
		return false
	}
	return true
}

/* =========================
   GORM store
========================= */

type gormPoolStore struct{ DB *gorm.DB }

func (s *gormPoolStore) RequestByID(ctx context.Context, id uuid.UUID) (*requestModel.TrainingRequestModel, error) {
	var req requestModel.TrainingRequestModel
	if err := s.DB.WithContext(ctx).
		Where("training_request_id = ?", id).
		Take(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *gormPoolStore) SiblingRequestIDs(ctx context.Context, req *requestModel.TrainingRequestModel) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.DB.WithContext(ctx).
		Model(&requestModel.TrainingRequestModel{}).
		Where(`
			training_request_plan_id = ?
			AND training_request_training_type = ?
			AND training_request_status = ?
			AND training_request_id <> ?
		`, req.TrainingRequestPlanID, req.TrainingRequestTrainingType, req.TrainingRequestStatus, req.TrainingRequestID).
		Pluck("training_request_id", &ids).Error
	return ids, err
}

func (s *gormPoolStore) UnclaimedParticipants(ctx context.Context, requestIDs []uuid.UUID) ([]requestModel.TrainingParticipantModel, error) {
	var rows []requestModel.TrainingParticipantModel
	err := s.DB.WithContext(ctx).
		Where("training_participant_request_id IN ?", requestIDs).
		Where("training_participant_claim_status = ?", requestModel.ClaimStatusUnclaimed).
		Order("training_participant_request_id, training_participant_created_at ASC").
		Find(&rows).Error
	return rows, err
}

// file: internals/features/training/batches/service/allocation_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/constants"
	batchModel "pelatihanku_backend/internals/features/training/batches/model"
	requestModel "pelatihanku_backend/internals/features/training/requests/model"
	"pelatihanku_backend/internals/helpers/errs"
)

// ErrClaimConflict: commit kalah balapan dgn sesi lain (first-committer wins).
var ErrClaimConflict = errors.New("peserta sudah diambil alokasi lain")

/* =========================
   Store
========================= */

type ClaimPatch struct {
	SessionID      uuid.UUID
	Note           string
	ParticipantIDs []uuid.UUID
}

type AllocationStore interface {
	RequestByID(ctx context.Context, id uuid.UUID) (*requestModel.TrainingRequestModel, error)
	ParticipantsByIDs(ctx context.Context, ids []uuid.UUID) ([]requestModel.TrainingParticipantModel, error)
	BatchByID(ctx context.Context, id uuid.UUID) (*batchModel.TrainingBatchModel, error)
	// CreateBatchWithAllocations: satu langkah logis — batch + baris alokasi +
	// claim marker peserta sumber. Patch claim menyasar baris peserta masing-masing
	// request (termasuk sibling), bukan hanya request utama.
	CreateBatchWithAllocations(ctx context.Context, batch *batchModel.TrainingBatchModel, rows []batchModel.BatchParticipantModel, patch ClaimPatch) error
	// SetDailyStartTimeOnce: update atomik hanya kalau belum pernah diset.
	// Return rowsAffected utk deteksi no-op.
	SetDailyStartTimeOnce(ctx context.Context, batchID uuid.UUID, hhmm string) (int64, error)
}

/* =========================
   AllocationSession
========================= */

// AllocationSession melacak peserta yang sudah diambil batch manapun dalam satu
// sesi alokasi (shared lintas batch yang sedang dibuat bersama). Query pool harus
// selalu membaca state terbaru dari sini — jangan cache hasil pool antar langkah.
type AllocationSession struct {
	ID      uuid.UUID
	claimed map[uuid.UUID]uuid.UUID // participant → batch pemilik
}

func NewAllocationSession() *AllocationSession {
	return &AllocationSession{
		ID:      uuid.New(),
		claimed: make(map[uuid.UUID]uuid.UUID),
	}
}

// Claimed: id peserta yang sudah diambil sesi ini, untuk exclude pool.
func (s *AllocationSession) Claimed() map[uuid.UUID]uuid.UUID { return s.claimed }

func (s *AllocationSession) owner(participantID uuid.UUID) (uuid.UUID, bool) {
	b, ok := s.claimed[participantID]
	return b, ok
}

func (s *AllocationSession) claim(participantID, batchID uuid.UUID) {
	s.claimed[participantID] = batchID
}

/* =========================
   AllocationService
========================= */

type AllocationService struct {
	store AllocationStore
}

func NewAllocationService(db *gorm.DB) *AllocationService {
	return &AllocationService{store: &gormAllocationStore{DB: db}}
}

func NewAllocationServiceWithStore(st AllocationStore) *AllocationService {
	return &AllocationService{store: st}
}

// BatchInput: batch yang sedang dibangun + peserta pilihan caller (subset pool).
type BatchInput struct {
	Batch          *batchModel.TrainingBatchModel
	ParticipantIDs []uuid.UUID
}

// Allocate memvalidasi lalu meng-commit satu batch. Error validasi dikembalikan
// sebagai *errs.ValidationError per batch — batch lain dalam sesi tidak ikut gugur.
func (svc *AllocationService) Allocate(
	ctx context.Context,
	session *AllocationSession,
	in BatchInput,
	actorID uuid.UUID,
) ([]batchModel.BatchParticipantModel, error) {
	b := in.Batch
	ve := &errs.ValidationError{}

	// Field wajib batch
	if b.TrainingBatchType == "" {
		ve.Add("training_batch_type", "jenis batch wajib diisi")
	} else if !b.TrainingBatchType.Valid() {
		ve.Add("training_batch_type", "jenis batch tidak dikenal")
	}
	if b.TrainingBatchCentreID == uuid.Nil {
		ve.Add("training_batch_centre_id", "balai pelatihan wajib diisi")
	}
	if b.TrainingBatchStartDate.IsZero() {
		ve.Add("training_batch_start_date", "tanggal mulai wajib diisi")
	}

	// Kapasitas
	if len(in.ParticipantIDs) == 0 {
		ve.Add("participants", "minimal 1 peserta")
	}
	if len(in.ParticipantIDs) > constants.MaxBatchParticipants {
		ve.Add("participants", fmt.Sprintf("melebihi kapasitas %d peserta per batch", constants.MaxBatchParticipants))
	}

	// Duplikat dalam satu pilihan + konflik dgn batch lain di sesi yang sama
	seen := make(map[uuid.UUID]struct{}, len(in.ParticipantIDs))
	for _, pid := range in.ParticipantIDs {
		if _, dup := seen[pid]; dup {
			ve.Add("participants", fmt.Sprintf("peserta %s muncul lebih dari sekali", pid))
			continue
		}
		seen[pid] = struct{}{}
		if _, taken := session.owner(pid); taken {
			ve.Add("participants", fmt.Sprintf("peserta %s sudah dialokasikan ke batch lain", pid))
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	// Request rumah: dipakai utk derive end date & penanda home/pooled
	req, err := svc.store.RequestByID(ctx, b.TrainingBatchRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ve.Add("training_batch_request_id", "training request tidak ditemukan")
			return nil, ve
		}
		return nil, err
	}
	if b.TrainingBatchEndDate.IsZero() {
		b.TrainingBatchEndDate = b.TrainingBatchStartDate.AddDate(0, 0, req.TrainingRequestPlanDurationDays-1)
	}

	// Muat peserta sumber & cek claim marker dari run sebelumnya
	participants, err := svc.store.ParticipantsByIDs(ctx, in.ParticipantIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*requestModel.TrainingParticipantModel, len(participants))
	for i := range participants {
		byID[participants[i].TrainingParticipantID] = &participants[i]
	}
	for _, pid := range in.ParticipantIDs {
		p, ok := byID[pid]
		if !ok {
			ve.Add("participants", fmt.Sprintf("peserta %s tidak ditemukan", pid))
			continue
		}
		if p.IsClaimed() {
			ve.Add("participants", fmt.Sprintf("peserta %s sudah dialokasikan ke batch lain", pid))
		}
		if b.TrainingBatchType == batchModel.BatchTypeSeparate &&
			p.TrainingParticipantRequestID != b.TrainingBatchRequestID {
			ve.Add("participants", fmt.Sprintf("peserta %s bukan milik request ini (batch bukan combined)", pid))
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	// Susun baris alokasi + snapshot identitas
	b.TrainingBatchCreatedBy = &actorID
	rows := make([]batchModel.BatchParticipantModel, 0, len(in.ParticipantIDs))
	for _, pid := range in.ParticipantIDs {
		p := byID[pid]
		snap := datatypes.JSONMap{
			"name": p.TrainingParticipantName,
			"role": string(p.TrainingParticipantRole),
		}
		if p.TrainingParticipantNIK != nil {
			snap["nik"] = *p.TrainingParticipantNIK
		}
		rows = append(rows, batchModel.BatchParticipantModel{
			BatchParticipantParticipantID:   pid,
			BatchParticipantSourceRequestID: p.TrainingParticipantRequestID,
			BatchParticipantRole:            string(p.TrainingParticipantRole),
			BatchParticipantSnapshot:        snap,
			BatchParticipantCreatedBy:       &actorID,
		})
	}

	patch := ClaimPatch{
		SessionID:      session.ID,
		Note:           fmt.Sprintf("claimed by allocation session %s", session.ID),
		ParticipantIDs: in.ParticipantIDs,
	}

	if err := svc.store.CreateBatchWithAllocations(ctx, b, rows, patch); err != nil {
		// Balapan dgn sesi lain: yang commit duluan menang, sisanya dapat
		// error "sudah dialokasikan" — tidak boleh diam-diam double booking.
		if errors.Is(err, ErrClaimConflict) || errs.IsDuplicateKey(err) {
			ve.Add("participants", "sebagian peserta sudah dialokasikan ke batch lain")
			return nil, ve
		}
		return nil, err
	}

	for _, pid := range in.ParticipantIDs {
		session.claim(pid, b.TrainingBatchID)
	}
	return rows, nil
}

// SetDailyStartTime menyimpan jam mulai absensi harian, sekali saja.
// Percobaan kedua jadi no-op dan nilai tersimpan pertama yang dikembalikan.
func (svc *AllocationService) SetDailyStartTime(ctx context.Context, batchID uuid.UUID, hhmm string) (string, bool, error) {
	if _, err := time.Parse(constants.DailyTimeLayout, hhmm); err != nil {
		ve := &errs.ValidationError{}
		ve.Add("training_batch_daily_start_time", "format jam harus HH:MM (24 jam)")
		return "", false, ve
	}

	affected, err := svc.store.SetDailyStartTimeOnce(ctx, batchID, hhmm)
	if err != nil {
		return "", false, err
	}
	if affected > 0 {
		return hhmm, true, nil
	}

	// Sudah pernah diset (atau batch tidak ada) → baca nilai tersimpan
	b, err := svc.store.BatchByID(ctx, batchID)
	if err != nil {
		return "", false, err
	}
	if b.TrainingBatchDailyStartTime == nil {
		return "", false, gorm.ErrRecordNotFound
	}
	return *b.TrainingBatchDailyStartTime, false, nil
}

/* =========================
   GORM store
========================= */

type gormAllocationStore struct{ DB *gorm.DB }

func (st *gormAllocationStore) RequestByID(ctx context.Context, id uuid.UUID) (*requestModel.TrainingRequestModel, error) {
	var req requestModel.TrainingRequestModel
	if err := st.DB.WithContext(ctx).
		Where("training_request_id = ?", id).
		Take(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (st *gormAllocationStore) ParticipantsByIDs(ctx context.Context, ids []uuid.UUID) ([]requestModel.TrainingParticipantModel, error) {
	var rows []requestModel.TrainingParticipantModel
	err := st.DB.WithContext(ctx).
		Where("training_participant_id IN ?", ids).
		Find(&rows).Error
	return rows, err
}

func (st *gormAllocationStore) BatchByID(ctx context.Context, id uuid.UUID) (*batchModel.TrainingBatchModel, error) {
	var b batchModel.TrainingBatchModel
	if err := st.DB.WithContext(ctx).
		Where("training_batch_id = ?", id).
		Take(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (st *gormAllocationStore) CreateBatchWithAllocations(
	ctx context.Context,
	batch *batchModel.TrainingBatchModel,
	rows []batchModel.BatchParticipantModel,
	patch ClaimPatch,
) error {
	return st.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].BatchParticipantBatchID = batch.TrainingBatchID
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		// Claim marker di baris peserta sumber — guard claim_status memastikan
		// first-committer wins; kalau ada yang keburu di-claim, rollback.
		res := tx.Model(&requestModel.TrainingParticipantModel{}).
			Where("training_participant_id IN ?", patch.ParticipantIDs).
			Where("training_participant_claim_status = ?", requestModel.ClaimStatusUnclaimed).
			Updates(map[string]interface{}{
				"training_participant_claim_status":     requestModel.ClaimStatusClaimed,
				"training_participant_claim_session_id": patch.SessionID,
				"training_participant_claim_note":       patch.Note,
				"training_participant_updated_at":       time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(patch.ParticipantIDs)) {
			return ErrClaimConflict
		}
		return nil
	})
}

func (st *gormAllocationStore) SetDailyStartTimeOnce(ctx context.Context, batchID uuid.UUID, hhmm string) (int64, error) {
	res := st.DB.WithContext(ctx).
		Model(&batchModel.TrainingBatchModel{}).
		Where("training_batch_id = ?", batchID).
		Where("training_batch_daily_start_time IS NULL").
		Updates(map[string]interface{}{
			"training_batch_daily_start_time": hhmm,
			"training_batch_updated_at":       time.Now(),
		})
	return res.RowsAffected, res.Error
}

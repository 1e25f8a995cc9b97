package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	customErr "github.com/shiv90154/CarrerPath-sub002/internal/domain/errors"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	defaultProofMaxBytes  = 5 << 20
	defaultProofURLTTL    = 5 * time.Minute
	defaultProofKeyPrefix = "proofs"
)

// ProofConfig controls proof uploads. Zero values fall back to defaults.
type ProofConfig struct {
	MaxBytes  int64
	URLTTL    time.Duration
	KeyPrefix string
}

func (c ProofConfig) withDefaults() ProofConfig {
	if c.MaxBytes <= 0 {
		c.MaxBytes = defaultProofMaxBytes
	}
	if c.URLTTL <= 0 {
		c.URLTTL = defaultProofURLTTL
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = defaultProofKeyPrefix
	}
	return c
}

// ProofService accepts payment screenshots and moves orders into review.
type ProofService struct {
	machine *stateMachine
	proofs  domainRepo.ProofRepository
	storage provider.ObjectStorage
	config  ProofConfig
	logger  *zap.Logger
}

func NewProofService(
	tx domainRepo.Transactor,
	orders domainRepo.OrderRepository,
	proofs domainRepo.ProofRepository,
	transitions domainRepo.TransitionRepository,
	storage provider.ObjectStorage,
	publisher provider.EventPublisher,
	metrics *Metrics,
	config ProofConfig,
	logger *zap.Logger,
) *ProofService {
	return &ProofService{
		machine: &stateMachine{
			tx:          tx,
			orders:      orders,
			transitions: transitions,
			publisher:   publisher,
			metrics:     metrics,
			logger:      logger,
			now:         defaultClock,
		},
		proofs:  proofs,
		storage: storage,
		config:  config.withDefaults(),
		logger:  logger,
	}
}

// MaxBytes is the upload limit, exposed so transports can bound their reads.
func (s *ProofService) MaxBytes() int64 {
	return s.config.MaxBytes
}

// AttachProof stores the screenshot and moves the order to pending_review.
// A second upload while in review replaces the proof in place.
func (s *ProofService) AttachProof(ctx context.Context, actor entity.Actor, orderID uuid.UUID, data []byte, contentType string) (*model.PaymentProof, error) {
	order, err := s.machine.orders.GetByID(ctx, orderID)
	if errors.Is(err, domainRepo.ErrNotFound) {
		return nil, customErr.NewOrderNotFoundError(orderID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order.BuyerID != actor.ID {
		return nil, customErr.NewForbiddenError(orderID.String(), "only the buyer can upload a payment proof")
	}
	if !acceptsProof(order.State) {
		return nil, customErr.NewInvalidStateError(orderID.String(),
			fmt.Sprintf("order is %s, proof can no longer be uploaded", order.State))
	}

	size := int64(len(data))
	if size == 0 {
		s.machine.metrics.ProofUploads.WithLabelValues("rejected").Inc()
		return nil, customErr.NewInvalidArgumentError("proof image is empty")
	}
	if size > s.config.MaxBytes {
		s.machine.metrics.ProofUploads.WithLabelValues("rejected").Inc()
		return nil, customErr.NewPayloadTooLargeError(size, s.config.MaxBytes)
	}
	if _, ok := normalizeContentType(contentType); !ok {
		s.machine.metrics.ProofUploads.WithLabelValues("rejected").Inc()
		return nil, customErr.NewInvalidContentTypeError(contentType)
	}
	sniffed := sniffImage(data)
	if sniffed == "" {
		s.machine.metrics.ProofUploads.WithLabelValues("rejected").Inc()
		return nil, customErr.NewInvalidContentTypeError(contentType)
	}

	sum := sha256.Sum256(data)
	now := s.machine.now()
	proof := &model.PaymentProof{
		ID:          uuid.New(),
		OrderID:     order.ID,
		ContentType: sniffed,
		ByteSize:    size,
		Checksum:    hex.EncodeToString(sum[:]),
		UploadedAt:  now,
	}
	proof.ObjectKey = path.Join(s.config.KeyPrefix, order.ID.String(), proof.ID.String()+acceptedImageTypes[sniffed])

	if err := s.storage.Store(ctx, proof.ObjectKey, data, proof.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store proof image: %w", err)
	}

	var previous *model.PaymentProof
	err = s.machine.withinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.machine.orders.LockByID(ctx, order.ID)
		if err != nil {
			return err
		}
		if !acceptsProof(locked.State) {
			return customErr.NewInvalidStateError(orderID.String(),
				fmt.Sprintf("order is %s, proof can no longer be uploaded", locked.State))
		}

		previous, err = s.proofs.Replace(ctx, proof)
		if err != nil {
			return err
		}

		duplicates, err := s.proofs.OrdersWithChecksum(ctx, proof.Checksum, order.ID)
		if err != nil {
			return err
		}

		metadata := map[string]interface{}{
			"proof_id": proof.ID.String(),
			"checksum": proof.Checksum,
		}
		if previous != nil {
			metadata["replaced_proof_id"] = previous.ID.String()
		}
		if len(duplicates) > 0 {
			ids := make([]string, len(duplicates))
			for i, id := range duplicates {
				ids[i] = id.String()
			}
			metadata["duplicate_of"] = ids
			s.logger.Warn("Proof image already used on another order",
				zap.String("order_id", order.ID.String()),
				zap.Strings("duplicate_of", ids))
		}

		return s.machine.advance(ctx, locked, transition{
			From: []model.OrderState{locked.State},
			Change: domainRepo.StateChange{
				To:               model.OrderStatePendingReview,
				ProofSubmittedAt: &now,
				UpdatedAt:        now,
			},
			Actor:    actor.ID,
			Metadata: metadata,
		})
	})
	if err != nil {
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), proof.ObjectKey); delErr != nil {
			s.logger.Error("Failed to remove orphaned proof image",
				zap.String("order_id", order.ID.String()),
				zap.String("object_key", proof.ObjectKey),
				zap.Error(delErr))
		}
		return nil, err
	}

	result := "accepted"
	if previous != nil {
		result = "replaced"
	}
	s.machine.metrics.ProofUploads.WithLabelValues(result).Inc()

	s.logger.Info("Payment proof attached",
		zap.String("order_id", order.ID.String()),
		zap.String("proof_id", proof.ID.String()),
		zap.String("content_type", proof.ContentType),
		zap.Int64("byte_size", proof.ByteSize))

	return proof, nil
}

// GetProof returns the current proof and a short-lived URL to view it.
func (s *ProofService) GetProof(ctx context.Context, actor entity.Actor, orderID uuid.UUID) (*entity.ProofView, error) {
	order, err := s.machine.orders.GetByID(ctx, orderID)
	if errors.Is(err, domainRepo.ErrNotFound) {
		return nil, customErr.NewOrderNotFoundError(orderID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !actor.CanView(order.BuyerID) {
		return nil, customErr.NewForbiddenError(orderID.String(), "order belongs to another buyer")
	}

	proof, err := s.proofs.GetByOrderID(ctx, orderID)
	if errors.Is(err, domainRepo.ErrNotFound) {
		return nil, customErr.NewProofNotFoundError(orderID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proof: %w", err)
	}

	url, err := s.storage.Presign(ctx, proof.ObjectKey, s.config.URLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign proof url: %w", err)
	}

	return &entity.ProofView{Proof: proof, URL: url}, nil
}

// HasProof reports whether the order has a proof on file.
func (s *ProofService) HasProof(ctx context.Context, orderID uuid.UUID) (bool, error) {
	_, err := s.proofs.GetByOrderID(ctx, orderID)
	if errors.Is(err, domainRepo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func acceptsProof(state model.OrderState) bool {
	return state == model.OrderStatePendingProof || state == model.OrderStatePendingReview
}

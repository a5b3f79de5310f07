package service

import (
	"context"
	"fmt"

	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/cashflowpro/forecast-go/internal/infra/observability"
	"github.com/cashflowpro/forecast-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var checkpointsTracer = otel.Tracer("service/checkpoints")

// CheckpointsService validates and persists balance checkpoints.
type CheckpointsService struct {
	store       port.CheckpointStore
	invalidator ForecastInvalidator
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewCheckpointsService creates the checkpoints service.
func NewCheckpointsService(store port.CheckpointStore, invalidator ForecastInvalidator, metrics *observability.Metrics, logger *zap.Logger) *CheckpointsService {
	return &CheckpointsService{store: store, invalidator: invalidator, metrics: metrics, logger: logger}
}

// List returns all balance checkpoints for a user.
func (s *CheckpointsService) List(ctx context.Context, userID string) ([]domain.BalanceCheckpoint, error) {
	ctx, span := checkpointsTracer.Start(ctx, "CheckpointsService.List")
	defer span.End()

	return s.store.ListCheckpoints(ctx, userID)
}

// Create validates and stores a checkpoint. One checkpoint per date:
// a second checkpoint on the same date is rejected rather than
// silently replacing the first.
func (s *CheckpointsService) Create(ctx context.Context, userID string, req *domain.CreateCheckpointRequest) (*domain.BalanceCheckpoint, error) {
	ctx, span := checkpointsTracer.Start(ctx, "CheckpointsService.Create")
	defer span.End()

	if err := validateDate("date", req.Date); err != nil {
		return nil, err
	}
	if req.Balance < -maxAbsoluteValue || req.Balance > maxAbsoluteValue {
		return nil, &domain.ErrValidation{
			Field:   "balance",
			Message: fmt.Sprintf("must be between %d and %d", -maxAbsoluteValue, maxAbsoluteValue),
		}
	}
	if err := validateMaxLen("notes", req.Notes, maxNotesLen); err != nil {
		return nil, err
	}

	existing, err := s.store.GetCheckpointByDate(ctx, userID, req.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ErrConflict{
			Message: fmt.Sprintf("a checkpoint already exists on %s", req.Date),
		}
	}

	cp, err := s.store.CreateCheckpoint(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateUser(userID)
	s.logger.Info("balance checkpoint created",
		zap.String("user_id", userID),
		zap.String("checkpoint_id", cp.ID),
		zap.String("date", cp.Date),
	)
	return cp, nil
}

// Delete removes a checkpoint.
func (s *CheckpointsService) Delete(ctx context.Context, userID, checkpointID string) error {
	ctx, span := checkpointsTracer.Start(ctx, "CheckpointsService.Delete")
	defer span.End()

	if err := s.store.DeleteCheckpoint(ctx, userID, checkpointID); err != nil {
		return err
	}

	s.invalidator.InvalidateUser(userID)
	s.logger.Info("balance checkpoint deleted", zap.String("user_id", userID), zap.String("checkpoint_id", checkpointID))
	return nil
}

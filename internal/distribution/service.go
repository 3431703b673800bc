package distribution

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Aadhavan2906/task-manager/internal/agent"
	"github.com/Aadhavan2906/task-manager/internal/batch"
	"github.com/Aadhavan2906/task-manager/internal/observability"
	"github.com/Aadhavan2906/task-manager/model"
)

// Service exposes the distribution operations to the transport layer. Each
// call is an independent short-lived operation; the only shared state lives
// behind the injected store and directory.
type Service struct {
	store     batch.Store
	directory agent.Directory
	logger    *zap.Logger
	metrics   *observability.Metrics
	replay    ReplayGuard
	replayTTL time.Duration
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics wires distribution metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithReplayGuard enables idempotency-key replay protection for Distribute.
func WithReplayGuard(g ReplayGuard, ttl time.Duration) Option {
	return func(s *Service) {
		s.replay = g
		s.replayTTL = ttl
	}
}

// NewService creates a distribution service over the given store and
// directory.
func NewService(store batch.Store, directory agent.Directory, opts ...Option) *Service {
	s := &Service{
		store:     store,
		directory: directory,
		logger:    zap.NewNop(),
		replayTTL: time.Hour,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Distribute splits items across the caller's active agents and persists the
// resulting run atomically. Re-calling with the same input creates a second,
// independent run unless the caller supplies an idempotency key and a replay
// guard is configured.
func (s *Service) Distribute(ctx context.Context, rctx *model.RequestContext, items []model.WorkItem, meta UploadMeta) (*model.RunReceipt, error) {
	ctx, span := observability.Tracer().Start(ctx, "distribution.Distribute")
	defer span.End()
	span.SetAttributes(
		observability.AttrAssignedBy.String(rctx.SubjectID),
		observability.AttrItemCount.Int(len(items)),
		observability.AttrFileName.String(meta.FileName),
	)

	meta.AssignedBy = rctx.SubjectID

	var inputHash string
	if s.replay != nil && meta.IdempotencyKey != "" {
		inputHash = hashInput(items, meta)
		if receipt, found, err := s.replay.Check(ctx, replayKey(rctx.SubjectID, meta.IdempotencyKey), inputHash); err != nil {
			return nil, err
		} else if found {
			s.logger.Info("distribution replayed from idempotency cache",
				zap.String("assigned_by", rctx.SubjectID),
				zap.String("file_name", meta.FileName),
			)
			return receipt, nil
		}
	}

	agents, err := s.directory.ListActive(ctx, rctx.SubjectID)
	if err != nil {
		return nil, err
	}

	batches, err := Split(items, agents, meta, s.now())
	if err != nil {
		s.countRun("rejected")
		return nil, err
	}

	if err := s.store.CreateRun(ctx, batches); err != nil {
		s.countRun("failed")
		return nil, err
	}
	s.countRun("ok")
	if s.metrics != nil {
		s.metrics.BatchesCreatedTotal.Add(float64(len(batches)))
		s.metrics.ItemsAssignedTotal.Add(float64(len(items)))
	}

	receipt := buildReceipt(batches, len(items), len(agents), meta)
	s.logger.Info("distribution run created",
		zap.String("assigned_by", rctx.SubjectID),
		zap.String("file_name", meta.FileName),
		zap.Int("items", len(items)),
		zap.Int("batches", len(batches)),
	)

	if s.replay != nil && meta.IdempotencyKey != "" {
		if err := s.replay.Store(ctx, replayKey(rctx.SubjectID, meta.IdempotencyKey), inputHash, *receipt, s.replayTTL); err != nil {
			// The run is already durable; a failed cache write only costs
			// replay protection.
			s.logger.Warn("storing idempotency entry failed", zap.Error(err))
		}
	}

	return receipt, nil
}

// UpdateBatch applies a status/count update to a batch owned by the calling
// agent and returns the updated batch.
func (s *Service) UpdateBatch(ctx context.Context, rctx *model.RequestContext, batchID, status string, completedCount *int) (model.Batch, error) {
	ctx, span := observability.Tracer().Start(ctx, "distribution.UpdateBatch")
	defer span.End()
	span.SetAttributes(
		observability.AttrBatchID.String(batchID),
		observability.AttrAgentEmail.String(rctx.Email),
	)

	b, err := s.store.Get(ctx, batchID)
	if err != nil {
		return model.Batch{}, err
	}

	if rctx.Email == "" || b.AgentEmail != rctx.Email {
		return model.Batch{}, model.NewForbiddenError("batch belongs to a different agent")
	}

	updated, err := ApplyTransition(b, status, completedCount)
	if err != nil {
		return model.Batch{}, err
	}

	result, err := s.store.UpdateProgress(ctx, batchID, updated.Status, updated.CompletedCount)
	if err != nil {
		return model.Batch{}, err
	}

	if s.metrics != nil {
		s.metrics.StatusUpdatesTotal.WithLabelValues(status).Inc()
	}
	s.logger.Info("batch updated",
		zap.String("batch_id", batchID),
		zap.String("status", result.Status),
		zap.Int("completed", result.CompletedCount),
	)
	return result, nil
}

// ListAssigned returns the batches the caller created, newest first.
func (s *Service) ListAssigned(ctx context.Context, rctx *model.RequestContext) ([]model.Batch, error) {
	return s.store.FindByAssigner(ctx, rctx.SubjectID)
}

// ListReceived returns the batches assigned to the caller, newest first.
func (s *Service) ListReceived(ctx context.Context, rctx *model.RequestContext) ([]model.Batch, error) {
	return s.store.FindByAgentEmail(ctx, rctx.Email)
}

// Stats summarizes every batch the caller has assigned.
func (s *Service) Stats(ctx context.Context, rctx *model.RequestContext) (model.Summary, error) {
	batches, err := s.store.FindByAssigner(ctx, rctx.SubjectID)
	if err != nil {
		return model.Summary{}, err
	}
	return Summarize(batches), nil
}

func (s *Service) countRun(outcome string) {
	if s.metrics != nil {
		s.metrics.DistributionRunsTotal.WithLabelValues(outcome).Inc()
	}
}

func buildReceipt(batches []model.Batch, totalItems, totalAgents int, meta UploadMeta) *model.RunReceipt {
	receipt := &model.RunReceipt{
		FileName:    meta.FileName,
		FileSize:    meta.FileSize,
		TotalItems:  totalItems,
		TotalAgents: totalAgents,
		Batches:     make([]model.BatchReceipt, 0, len(batches)),
	}
	for i := range batches {
		receipt.Batches = append(receipt.Batches, model.BatchReceipt{
			BatchID:    batches[i].ID,
			AgentName:  batches[i].AgentName,
			AgentEmail: batches[i].AgentEmail,
			TaskCount:  batches[i].TotalCount,
			Status:     batches[i].Status,
		})
	}
	return receipt
}

func replayKey(subjectID, idempotencyKey string) string {
	return "dist:" + subjectID + ":" + idempotencyKey
}

func hashInput(items []model.WorkItem, meta UploadMeta) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(meta.FileName)
	_ = enc.Encode(items)
	return hex.EncodeToString(h.Sum(nil))
}

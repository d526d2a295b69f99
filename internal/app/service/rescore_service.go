package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"podium/internal/common"
	"podium/internal/domain/format"
	"podium/internal/domain/repository"
	"podium/internal/domain/scoring"
	"podium/internal/platform/config"
	"podium/internal/platform/metrics"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type RescoreService struct {
	contestRepo repository.ContestRepository
	partRepo    repository.ParticipationRepository
	subRepo     repository.SubmissionRepository
	rdb         *redis.Client
	db          *sql.DB
}

func NewRescoreService(
	contestRepo repository.ContestRepository,
	partRepo repository.ParticipationRepository,
	subRepo repository.SubmissionRepository,
	rdb *redis.Client,
	db *sql.DB,
) *RescoreService {
	return &RescoreService{
		contestRepo: contestRepo,
		partRepo:    partRepo,
		subRepo:     subRepo,
		rdb:         rdb,
		db:          db,
	}
}

// CellChangedEvent is published once per completed recompute so scoreboard
// consumers can refresh.
type CellChangedEvent struct {
	ContestID       string `json:"contest_id"`
	ParticipationID string `json:"participation_id"`
}

// EnqueueRescore hands a participation to the background worker.
func (s *RescoreService) EnqueueRescore(ctx context.Context, participationID string) error {
	if err := s.rdb.RPush(ctx, config.AppConfig.RescoreQueueName, participationID).Err(); err != nil {
		return common.Errorf("failed to enqueue rescore for participation %s: %w", participationID, err)
	}
	return nil
}

// EnqueueContestRescore queues every participation of the contest.
func (s *RescoreService) EnqueueContestRescore(ctx context.Context, contestID string) error {
	parts, err := s.partRepo.ListParticipations(ctx, contestID)
	if err != nil {
		return err
	}
	for _, p := range parts {
		if err := s.EnqueueRescore(ctx, p.ID); err != nil {
			return err
		}
	}
	log.Printf("INFO: Queued rescore for %d participations of contest %s", len(parts), contestID)
	return nil
}

// RecomputeParticipation rebuilds one participation's cells and cached
// totals from its full submission history. The row lock serializes
// concurrent recomputes of the same participation; distinct participations
// proceed in parallel. The computation is pure, so replays are idempotent.
func (s *RescoreService) RecomputeParticipation(ctx context.Context, participationID string) error {
	started := time.Now()

	part, err := s.partRepo.FindParticipationByID(ctx, participationID)
	if err != nil {
		return err
	}
	contest, err := s.contestRepo.FindContestByID(ctx, part.ContestID)
	if err != nil {
		return err
	}
	f, err := format.New(contest.FormatName, contest.FormatConfig)
	if err != nil {
		return err
	}
	subs, err := s.subRepo.ListByParticipation(ctx, participationID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin rescore transaction: %w", err)
	}
	defer tx.Rollback()

	locked, err := s.partRepo.LockParticipation(ctx, tx, participationID)
	if err != nil {
		return err
	}

	res, err := scoring.Recompute(f, contest, locked, subs)
	if err != nil {
		metrics.RescoreFailures.Inc()
		return err
	}

	if err := s.partRepo.UpdateCachedTotals(ctx, tx, participationID, res.TotalPoints, res.Tiebreak, res.Solved); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit rescore for participation %s: %w", participationID, err)
	}

	metrics.RescoresTotal.WithLabelValues(contest.FormatName).Inc()
	metrics.RescoreDuration.Observe(time.Since(started).Seconds())

	event, err := json.Marshal(CellChangedEvent{ContestID: contest.ID, ParticipationID: participationID})
	if err != nil {
		return common.Errorf("failed to marshal cell changed event: %w", err)
	}
	if err := s.rdb.Publish(ctx, config.AppConfig.CellChangedChannel, event).Err(); err != nil {
		// The cache is already committed; consumers will catch up on the
		// next full read.
		log.Printf("WARN: Failed to publish cell changed event for participation %s: %v", participationID, err)
	}
	return nil
}

// RescoreContest recomputes every participation immediately, bounded by the
// configured parallelism. Used for synchronous admin rescores; routine
// changes go through the queue instead.
func (s *RescoreService) RescoreContest(ctx context.Context, contestID string) error {
	parts, err := s.partRepo.ListParticipations(ctx, contestID)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.AppConfig.RescoreParallelism)
	for _, p := range parts {
		p := p
		g.Go(func() error {
			return s.RecomputeParticipation(gctx, p.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return common.Errorf("contest %s rescore: %w", contestID, err)
	}
	log.Printf("INFO: Rescored %d participations of contest %s", len(parts), contestID)
	return nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"podium/internal/common"
	"podium/internal/domain/format"
	"podium/internal/domain/model"
	"podium/internal/domain/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// RescoreEnqueuer is the slice of the rescore service the contest
// lifecycle needs: hand participations (or whole contests) to the
// background recompute path.
type RescoreEnqueuer interface {
	EnqueueRescore(ctx context.Context, participationID string) error
	EnqueueContestRescore(ctx context.Context, contestID string) error
}

type ContestService struct {
	contestRepo repository.ContestRepository
	partRepo    repository.ParticipationRepository
	subRepo     repository.SubmissionRepository
	rescore     RescoreEnqueuer
	db          *sql.DB
	validate    *validator.Validate
}

func NewContestService(
	contestRepo repository.ContestRepository,
	partRepo repository.ParticipationRepository,
	subRepo repository.SubmissionRepository,
	rescore RescoreEnqueuer,
	db *sql.DB,
) *ContestService {
	return &ContestService{
		contestRepo: contestRepo,
		partRepo:    partRepo,
		subRepo:     subRepo,
		rescore:     rescore,
		db:          db,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

type ContestProblemInput struct {
	ID               string   `json:"id"` // empty for new attachments
	ProblemID        string   `json:"problem_id" validate:"required"`
	Points           float64  `json:"points" validate:"required,gt=0"`
	Label            string   `json:"label" validate:"required"`
	Pretested        bool     `json:"pretested"`
	HiddenSubtasks   []int    `json:"hidden_subtasks" validate:"dive,gt=0"`
	OutputComparator *string  `json:"output_comparator"`
}

type SaveContestInput struct {
	Name             string                `json:"name" validate:"required,min=3,max=128"`
	FormatName       string                `json:"format_name" validate:"required"`
	FormatConfig     map[string]any        `json:"format_config"`
	StartTime        time.Time             `json:"start_time" validate:"required"`
	EndTime          time.Time             `json:"end_time" validate:"required"`
	PublicScoreboard bool                  `json:"public_scoreboard"`
	FreezeTime       *time.Time            `json:"freeze_time"`
	Problems         []ContestProblemInput `json:"problems" validate:"required,min=1,dive"`
}

// validateInput runs the structural checks shared by create and update.
// Format name and options are rejected here, at save time; compute never
// sees an invalid configuration.
func (s *ContestService) validateInput(in *SaveContestInput) error {
	if err := s.validate.Struct(in); err != nil {
		return common.Errorf("%v: %w", err, common.ErrValidation)
	}
	if !in.EndTime.After(in.StartTime) {
		return common.Errorf("end time must be after start time: %w", common.ErrValidation)
	}
	if in.FreezeTime != nil && (in.FreezeTime.Before(in.StartTime) || in.FreezeTime.After(in.EndTime)) {
		return common.Errorf("freeze time must fall inside the contest window: %w", common.ErrValidation)
	}
	if err := format.ValidateConfig(in.FormatName, in.FormatConfig); err != nil {
		return err
	}
	labels := make(map[string]bool, len(in.Problems))
	for _, p := range in.Problems {
		if labels[p.Label] {
			return common.Errorf("duplicate problem label %q: %w", p.Label, common.ErrValidation)
		}
		labels[p.Label] = true
	}
	return nil
}

func (s *ContestService) CreateContest(ctx context.Context, in SaveContestInput) (*model.Contest, error) {
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	contest := &model.Contest{
		ID:               uuid.NewString(),
		Key:              slug.Make(in.Name),
		Name:             in.Name,
		FormatName:       in.FormatName,
		FormatConfig:     in.FormatConfig,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		PublicScoreboard: in.PublicScoreboard,
		FreezeTime:       in.FreezeTime,
	}
	for i, p := range in.Problems {
		contest.Problems = append(contest.Problems, model.ContestProblem{
			ID:               uuid.NewString(),
			ContestID:        contest.ID,
			ProblemID:        p.ProblemID,
			Points:           p.Points,
			Order:            i + 1,
			Label:            p.Label,
			Pretested:        p.Pretested,
			HiddenSubtasks:   p.HiddenSubtasks,
			OutputComparator: p.OutputComparator,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.contestRepo.CreateContest(ctx, tx, contest); err != nil {
		return nil, err
	}
	if err := s.contestRepo.ReplaceContestProblems(ctx, tx, contest.ID, contest.Problems); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit contest creation: %w", err)
	}

	log.Printf("INFO: Contest %s (%s) created with format %s", contest.Key, contest.ID, contest.FormatName)
	return contest, nil
}

// UpdateContest saves new settings and, when the scoring inputs changed
// (format, options, or problem weights), queues a full contest rescore.
func (s *ContestService) UpdateContest(ctx context.Context, key string, in SaveContestInput) (*model.Contest, error) {
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	existing, err := s.contestRepo.FindContestByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	scoringChanged := existing.FormatName != in.FormatName ||
		!configEqual(existing.FormatConfig, in.FormatConfig)

	updated := &model.Contest{
		ID:               existing.ID,
		Key:              existing.Key,
		Name:             in.Name,
		FormatName:       in.FormatName,
		FormatConfig:     in.FormatConfig,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		PublicScoreboard: in.PublicScoreboard,
		FreezeTime:       in.FreezeTime,
	}

	existingByProblem := make(map[string]model.ContestProblem, len(existing.Problems))
	for _, p := range existing.Problems {
		existingByProblem[p.ProblemID] = p
	}
	for i, p := range in.Problems {
		id := p.ID
		if prev, ok := existingByProblem[p.ProblemID]; ok {
			id = prev.ID
			if prev.Points != p.Points {
				scoringChanged = true
			}
		} else {
			scoringChanged = true
			if id == "" {
				id = uuid.NewString()
			}
		}
		updated.Problems = append(updated.Problems, model.ContestProblem{
			ID:               id,
			ContestID:        existing.ID,
			ProblemID:        p.ProblemID,
			Points:           p.Points,
			Order:            i + 1,
			Label:            p.Label,
			Pretested:        p.Pretested,
			HiddenSubtasks:   p.HiddenSubtasks,
			OutputComparator: p.OutputComparator,
		})
	}
	if len(updated.Problems) != len(existing.Problems) {
		scoringChanged = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.contestRepo.UpdateContest(ctx, tx, updated); err != nil {
		return nil, err
	}
	if err := s.contestRepo.ReplaceContestProblems(ctx, tx, updated.ID, updated.Problems); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit contest update: %w", err)
	}

	if scoringChanged {
		log.Printf("INFO: Scoring inputs changed for contest %s, queueing full rescore", updated.Key)
		if err := s.rescore.EnqueueContestRescore(ctx, updated.ID); err != nil {
			log.Printf("ERROR: Failed to queue rescore for contest %s: %v", updated.ID, err)
		}
	}
	return updated, nil
}

func configEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || va != vb {
			return false
		}
	}
	return true
}

func (s *ContestService) GetContestByKey(ctx context.Context, key string) (*model.Contest, error) {
	return s.contestRepo.FindContestByKey(ctx, key)
}

func (s *ContestService) ListContests(ctx context.Context, limit, offset int) ([]model.Contest, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.contestRepo.ListContests(ctx, limit, offset)
}

// JoinContest opens a participation window for the user. Live joins run
// against the remaining contest window; virtual joins are allowed only
// after the contest ends and get the full duration; spectators can join
// any time but never rank.
func (s *ContestService) JoinContest(ctx context.Context, contestKey, userID string, mode model.ParticipationMode) (*model.ContestParticipation, error) {
	contest, err := s.contestRepo.FindContestByKey(ctx, contestKey)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch mode {
	case model.ModeLive:
		if !contest.IsRunning(now) {
			return nil, common.Errorf("contest is not running: %w", common.ErrForbidden)
		}
	case model.ModeVirtual:
		if now.Before(contest.EndTime) {
			return nil, common.Errorf("virtual participation opens after the contest ends: %w", common.ErrForbidden)
		}
	case model.ModeSpectate:
		// always allowed
	default:
		return nil, common.Errorf("unknown participation mode %q: %w", mode, common.ErrValidation)
	}

	start := now
	if mode == model.ModeLive && start.Before(contest.StartTime) {
		start = contest.StartTime
	}

	part := &model.ContestParticipation{
		ID:        uuid.NewString(),
		ContestID: contest.ID,
		UserID:    userID,
		Mode:      mode,
		StartTime: start,
	}
	if err := s.partRepo.CreateParticipation(ctx, nil, part); err != nil {
		return nil, err
	}
	log.Printf("INFO: User %s joined contest %s as %s (participation %s)", userID, contest.Key, mode, part.ID)
	return part, nil
}

// RecordSubmission ties an incoming judge submission to the caller's
// active participation, live or virtual. Elapsed is pinned at submit time
// and never changes, even across rejudges.
func (s *ContestService) RecordSubmission(ctx context.Context, contestKey, userID, submissionID, contestProblemID string) (*model.ContestSubmission, error) {
	contest, err := s.contestRepo.FindContestByKey(ctx, contestKey)
	if err != nil {
		return nil, err
	}
	if contest.ProblemByID(contestProblemID) == nil {
		return nil, common.Errorf("problem %s is not part of contest %s: %w", contestProblemID, contest.Key, common.ErrNotFound)
	}

	part, err := s.partRepo.FindActiveParticipation(ctx, contest.ID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("no active participation in contest %s: %w", contest.Key, common.ErrForbidden)
		}
		return nil, err
	}

	elapsed := int64(time.Since(part.StartTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > part.WindowSeconds(contest) {
		return nil, common.Errorf("participation window is closed: %w", common.ErrForbidden)
	}

	cs := &model.ContestSubmission{
		ID:               uuid.NewString(),
		ParticipationID:  part.ID,
		ContestProblemID: contestProblemID,
		SubmissionID:     submissionID,
		Points:           0, // awarded once judged
		Elapsed:          elapsed,
	}
	if err := s.subRepo.CreateContestSubmission(ctx, nil, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// SetDisqualified flips the flag; cells and totals are untouched, the row
// just loses (or regains) its rank number. The queued rescore changes no
// numbers but carries the cell-changed publish that tells live consumers
// the ranking moved.
func (s *ContestService) SetDisqualified(ctx context.Context, participationID string, disqualified bool) error {
	if _, err := s.partRepo.FindParticipationByID(ctx, participationID); err != nil {
		return err
	}
	if err := s.partRepo.SetDisqualified(ctx, nil, participationID, disqualified); err != nil {
		return err
	}
	log.Printf("INFO: Participation %s disqualified=%v", participationID, disqualified)
	return s.rescore.EnqueueRescore(ctx, participationID)
}

// ResetVirtualParticipation retires a virtual attempt so the user can
// start a fresh one with JoinContest. The retired row keeps its submission
// history but leaves the board; the queued rescore's publish tells live
// consumers the row went away.
func (s *ContestService) ResetVirtualParticipation(ctx context.Context, participationID, userID string, privileged bool) error {
	part, err := s.partRepo.FindParticipationByID(ctx, participationID)
	if err != nil {
		return err
	}
	if part.Mode != model.ModeVirtual {
		return common.Errorf("only virtual participations can be reset: %w", common.ErrValidation)
	}
	if part.Retired {
		return common.Errorf("participation %s is already retired: %w", participationID, common.ErrConflict)
	}
	if !privileged && part.UserID != userID {
		return common.Errorf("not your participation: %w", common.ErrForbidden)
	}

	if err := s.partRepo.SetRetired(ctx, nil, participationID, true); err != nil {
		return err
	}
	log.Printf("INFO: Virtual participation %s retired by user %s", participationID, userID)
	return s.rescore.EnqueueRescore(ctx, participationID)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"podium/internal/common"
	"podium/internal/domain/model"
	"podium/internal/domain/repository"
)

type JudgeResultService struct {
	contestRepo repository.ContestRepository
	partRepo    repository.ParticipationRepository
	subRepo     repository.SubmissionRepository
	rescore     *RescoreService
	db          *sql.DB
}

func NewJudgeResultService(
	contestRepo repository.ContestRepository,
	partRepo repository.ParticipationRepository,
	subRepo repository.SubmissionRepository,
	rescore *RescoreService,
	db *sql.DB,
) *JudgeResultService {
	return &JudgeResultService{
		contestRepo: contestRepo,
		partRepo:    partRepo,
		subRepo:     subRepo,
		rescore:     rescore,
		db:          db,
	}
}

// JudgedResultPayload is what the grading subsystem posts when a submission
// reaches a final verdict. Rejudges arrive through the same payload and are
// handled identically: new verdict, new awarded points, recompute.
type JudgedResultPayload struct {
	SubmissionID string                 `json:"submission_id"`
	Status       model.SubmissionStatus `json:"status"`
	CasePoints   float64                `json:"case_points"`
	CaseTotal    float64                `json:"case_total"`
	Batches      []model.BatchResult    `json:"batches,omitempty"`
	WallTimeMs   int                    `json:"wall_time_ms"`
}

func (s *JudgeResultService) HandleJudgedResult(ctx context.Context, payload JudgedResultPayload) error {
	if payload.SubmissionID == "" {
		return common.Errorf("submission_id is required: %w", common.ErrBadRequest)
	}
	if !payload.Status.IsJudged() {
		return common.Errorf("status %q is not a final verdict: %w", payload.Status, common.ErrBadRequest)
	}
	if payload.CaseTotal < 0 || payload.CasePoints < 0 || payload.CasePoints > payload.CaseTotal {
		return common.Errorf("case points out of range: %w", common.ErrBadRequest)
	}
	log.Printf("INFO: Judge result for submission %s: %s (%g/%g)", payload.SubmissionID, payload.Status, payload.CasePoints, payload.CaseTotal)

	cs, err := s.subRepo.FindBySubmissionID(ctx, payload.SubmissionID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin verdict transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.subRepo.UpdateJudgedVerdict(ctx, tx, payload.SubmissionID, payload.Status, payload.CasePoints, payload.CaseTotal, payload.Batches); err != nil {
		return err
	}

	if cs == nil {
		// Practice submission, no contest scoring involved.
		return tx.Commit()
	}

	awarded, err := s.awardedPoints(ctx, cs, payload)
	if err != nil {
		return err
	}
	if err := s.subRepo.UpdateAwardedPoints(ctx, tx, cs.ID, awarded); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit verdict for submission %s: %w", payload.SubmissionID, err)
	}

	return s.rescore.EnqueueRescore(ctx, cs.ParticipationID)
}

// awardedPoints scales the judged case points to the contest problem's
// weight. Verdicts that never count as attempts award nothing.
func (s *JudgeResultService) awardedPoints(ctx context.Context, cs *model.ContestSubmission, payload JudgedResultPayload) (float64, error) {
	if !payload.Status.CountsAsAttempt() || payload.CaseTotal == 0 {
		return 0, nil
	}

	part, err := s.partRepo.FindParticipationByID(ctx, cs.ParticipationID)
	if err != nil {
		return 0, err
	}
	contest, err := s.contestRepo.FindContestByID(ctx, part.ContestID)
	if err != nil {
		return 0, err
	}
	problem := contest.ProblemByID(cs.ContestProblemID)
	if problem == nil {
		return 0, common.Errorf("contest submission %s references unknown problem %s: %w", cs.ID, cs.ContestProblemID, common.ErrDataIntegrity)
	}
	return problem.Points * payload.CasePoints / payload.CaseTotal, nil
}

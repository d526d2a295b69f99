package service

import (
	"context"
	"time"

	"podium/internal/common"
	"podium/internal/domain/format"
	"podium/internal/domain/model"
	"podium/internal/domain/repository"
	"podium/internal/domain/scoring"
	"podium/internal/platform/metrics"
)

type ScoreboardService struct {
	contestRepo repository.ContestRepository
	partRepo    repository.ParticipationRepository
	subRepo     repository.SubmissionRepository
}

func NewScoreboardService(
	contestRepo repository.ContestRepository,
	partRepo repository.ParticipationRepository,
	subRepo repository.SubmissionRepository,
) *ScoreboardService {
	return &ScoreboardService{
		contestRepo: contestRepo,
		partRepo:    partRepo,
		subRepo:     subRepo,
	}
}

type ProblemHeader struct {
	ContestProblemID string  `json:"contest_problem_id"`
	Label            string  `json:"label"`
	Points           float64 `json:"points"`
}

type ScoreboardRow struct {
	Rank            int                     `json:"rank,omitempty"` // 0 for disqualified rows
	ParticipationID string                  `json:"participation_id"`
	UserID          string                  `json:"user_id"`
	Username        string                  `json:"username"`
	Mode            model.ParticipationMode `json:"mode"`
	Disqualified    bool                    `json:"disqualified"`
	Cells           []scoring.DisplayCell   `json:"cells"`
	TotalPoints     float64                 `json:"total_points"`
	Tiebreak        float64                 `json:"tiebreak"`
	Solved          int                     `json:"solved"`
}

type ScoreboardView struct {
	ContestKey  string          `json:"contest_key"`
	ContestName string          `json:"contest_name"`
	FormatName  string          `json:"format_name"`
	FreezeTime  *time.Time      `json:"freeze_time,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	Problems    []ProblemHeader `json:"problems"`
	Rows        []ScoreboardRow `json:"rows"`
}

// GetScoreboard recomputes every row from the submission history and ranks
// them. Ranking always uses true totals; hidden-subtask redaction is applied
// to the displayed cells and displayed totals afterwards, so no recompute is
// ever needed when the contest ends and the data unhides.
func (s *ScoreboardService) GetScoreboard(ctx context.Context, contestKey, viewerID, viewerRole string) (*ScoreboardView, error) {
	contest, err := s.contestRepo.FindContestByKey(ctx, contestKey)
	if err != nil {
		return nil, err
	}
	privileged := model.Privileged(viewerRole)

	parts, err := s.partRepo.ListParticipations(ctx, contest.ID)
	if err != nil {
		return nil, err
	}

	if !contest.PublicScoreboard && !privileged {
		if !isParticipant(parts, viewerID) {
			return nil, common.Errorf("scoreboard is private: %w", common.ErrForbidden)
		}
	}

	f, err := format.New(contest.FormatName, contest.FormatConfig)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	running := contest.IsRunning(now)

	rows := make([]model.RankingRow, 0, len(parts))
	for i := range parts {
		part := &parts[i]
		if part.Mode == model.ModeSpectate {
			continue // scored on demand, never on the board
		}
		subs, err := s.subRepo.ListByParticipation(ctx, part.ID)
		if err != nil {
			return nil, err
		}
		res, err := scoring.Recompute(f, contest, part, subs)
		if err != nil {
			return nil, err
		}
		rows = append(rows, scoring.BuildRow(part, res))
	}
	ranked := scoring.Rank(f, rows)

	view := &ScoreboardView{
		ContestKey:  contest.Key,
		ContestName: contest.Name,
		FormatName:  contest.FormatName,
		FreezeTime:  contest.FreezeTime,
		GeneratedAt: now,
	}
	for _, p := range contest.Problems {
		view.Problems = append(view.Problems, ProblemHeader{
			ContestProblemID: p.ID,
			Label:            p.Label,
			Points:           p.Points,
		})
	}
	for _, row := range ranked {
		view.Rows = append(view.Rows, s.displayRow(contest, row, running, privileged))
	}

	metrics.ScoreboardBuilds.Inc()
	return view, nil
}

func (s *ScoreboardService) displayRow(contest *model.Contest, row model.RankingRow, running, privileged bool) ScoreboardRow {
	out := ScoreboardRow{
		Rank:            row.Rank,
		ParticipationID: row.ParticipationID,
		UserID:          row.UserID,
		Username:        row.Username,
		Mode:            row.Mode,
		Disqualified:    row.Disqualified,
		TotalPoints:     row.TotalPoints,
		Tiebreak:        row.Tiebreak,
		Solved:          row.Solved,
	}

	redactedAny := false
	var visibleTotal float64
	for _, cell := range row.Cells {
		p := contest.ProblemByID(cell.ContestProblemID)
		display := scoring.RedactCell(cell, p, contest.FormatName, running, privileged)
		if display.Redacted {
			redactedAny = true
		}
		visibleTotal += display.Points + display.Decoration.Bonus
		out.Cells = append(out.Cells, display)
	}
	// A redacted row also shows a redacted total; the rank stays computed
	// from the true totals.
	if redactedAny {
		out.TotalPoints = visibleTotal
	}
	return out
}

// GetParticipationScore computes a single participation's row, spectators
// included. Audit view for organizers and the participant themselves.
func (s *ScoreboardService) GetParticipationScore(ctx context.Context, participationID, viewerID, viewerRole string) (*ScoreboardRow, error) {
	part, err := s.partRepo.FindParticipationByID(ctx, participationID)
	if err != nil {
		return nil, err
	}
	privileged := model.Privileged(viewerRole)
	if !privileged && part.UserID != viewerID {
		return nil, common.Errorf("not your participation: %w", common.ErrForbidden)
	}

	contest, err := s.contestRepo.FindContestByID(ctx, part.ContestID)
	if err != nil {
		return nil, err
	}
	f, err := format.New(contest.FormatName, contest.FormatConfig)
	if err != nil {
		return nil, err
	}
	subs, err := s.subRepo.ListByParticipation(ctx, part.ID)
	if err != nil {
		return nil, err
	}
	res, err := scoring.Recompute(f, contest, part, subs)
	if err != nil {
		return nil, err
	}

	row := s.displayRow(contest, scoring.BuildRow(part, res), contest.IsRunning(time.Now()), privileged)
	return &row, nil
}

func isParticipant(parts []model.ContestParticipation, userID string) bool {
	if userID == "" {
		return false
	}
	for i := range parts {
		if parts[i].UserID == userID {
			return true
		}
	}
	return false
}

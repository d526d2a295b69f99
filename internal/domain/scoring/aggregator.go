// Package scoring is the pure middle of the engine: it projects the
// immutable submission log into per-problem histories, runs a contest
// format over them, and turns the results into ranked rows. Nothing in
// this package performs I/O.
package scoring

import (
	"fmt"
	"sort"

	"podium/internal/common"
	"podium/internal/domain/model"
)

// Aggregate partitions a participation's contest submissions by contest
// problem, ordered by elapsed time, keeping only judged submissions inside
// the participation's active window. The projection is a view over the
// append-only log; it is always re-derivable.
//
// A submission referencing a problem outside the contest, or a foreign
// participation, is a data-integrity error, never silently dropped.
func Aggregate(c *model.Contest, part *model.ContestParticipation, subs []model.ContestSubmission) (map[string][]model.ContestSubmission, error) {
	known := make(map[string]struct{}, len(c.Problems))
	for _, p := range c.Problems {
		known[p.ID] = struct{}{}
	}

	window := part.WindowSeconds(c)
	partitions := make(map[string][]model.ContestSubmission, len(c.Problems))

	for _, cs := range subs {
		if cs.ParticipationID != part.ID {
			return nil, fmt.Errorf("contest submission %s belongs to participation %s, not %s: %w",
				cs.ID, cs.ParticipationID, part.ID, common.ErrDataIntegrity)
		}
		if _, ok := known[cs.ContestProblemID]; !ok {
			return nil, fmt.Errorf("contest submission %s references problem %s outside contest %s: %w",
				cs.ID, cs.ContestProblemID, c.ID, common.ErrDataIntegrity)
		}
		if cs.Submission == nil || !cs.Submission.Status.IsJudged() {
			continue
		}
		// Window filtering happens before selection, not after.
		if cs.Elapsed < 0 || cs.Elapsed > window {
			continue
		}
		partitions[cs.ContestProblemID] = append(partitions[cs.ContestProblemID], cs)
	}

	for _, history := range partitions {
		sort.SliceStable(history, func(i, j int) bool {
			if history[i].Elapsed != history[j].Elapsed {
				return history[i].Elapsed < history[j].Elapsed
			}
			return history[i].Submission.SubmittedAt.Before(history[j].Submission.SubmittedAt)
		})
	}
	return partitions, nil
}

package scoring

import (
	"sort"

	"podium/internal/domain/format"
	"podium/internal/domain/model"
)

// BuildRow assembles a participation's ranking row from its recomputed
// result. Cells keep the contest's problem order.
func BuildRow(part *model.ContestParticipation, res *Result) model.RankingRow {
	row := model.RankingRow{
		ParticipationID: part.ID,
		UserID:          part.UserID,
		Mode:            part.Mode,
		Disqualified:    part.Disqualified,
		Cells:           res.Cells,
		TotalPoints:     res.TotalPoints,
		Tiebreak:        res.Tiebreak,
		Solved:          res.Solved,
	}
	if part.Username != nil {
		row.Username = *part.Username
	}
	return row
}

// Rank orders rows by the format's comparator and assigns standard
// competition ranking: tied rows share a rank number and the next distinct
// row skips ahead by the tie-group size (1, 1, 3, 4, ...).
//
// Disqualified rows never receive a numeric rank and never affect the
// numbering of others; they are kept in the list, sorted by the same
// comparator, after all ranked rows.
func Rank(f format.Format, rows []model.RankingRow) []model.RankingRow {
	ranked := make([]model.RankingRow, 0, len(rows))
	excluded := make([]model.RankingRow, 0)
	for _, row := range rows {
		if row.Disqualified {
			excluded = append(excluded, row)
		} else {
			ranked = append(ranked, row)
		}
	}

	byFormat := func(list []model.RankingRow) func(i, j int) bool {
		return func(i, j int) bool { return f.Compare(&list[i], &list[j]) < 0 }
	}
	sort.SliceStable(ranked, byFormat(ranked))
	sort.SliceStable(excluded, byFormat(excluded))

	for i := range ranked {
		if i > 0 && f.Compare(&ranked[i-1], &ranked[i]) == 0 {
			ranked[i].Rank = ranked[i-1].Rank
		} else {
			ranked[i].Rank = i + 1
		}
	}
	for i := range excluded {
		excluded[i].Rank = 0
	}
	return append(ranked, excluded...)
}

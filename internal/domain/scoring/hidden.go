package scoring

import "podium/internal/domain/model"

// SubtaskStatus is the non-numeric marker shown in place of a hidden
// subtask's points while the contest runs.
type SubtaskStatus string

const (
	SubtaskPass    SubtaskStatus = "pass"
	SubtaskPartial SubtaskStatus = "partial"
	SubtaskFail    SubtaskStatus = "fail"
)

// HiddenSubtaskMarker replaces one hidden subtask's numeric result.
type HiddenSubtaskMarker struct {
	Ordinal int           `json:"ordinal"`
	Status  SubtaskStatus `json:"status"`
}

// DisplayCell is a ScoreCell as exposed to one particular viewer. When
// Redacted is set, Points covers only visible subtasks and every hidden
// subtask appears as a marker instead of a number.
type DisplayCell struct {
	model.ScoreCell
	Redacted       bool                  `json:"redacted,omitempty"`
	HiddenSubtasks []HiddenSubtaskMarker `json:"hidden_subtasks,omitempty"`
}

// RedactCell applies hidden-subtask redaction for the new_ioi format.
// The stored cell always carries the true values; this wrapper only
// shapes what leaves the presentation boundary, so post-contest reveal
// needs no recomputation. Redaction applies when the live window is open,
// the viewer is not privileged (problem editor, organizer, admin), and
// the problem actually hides subtasks.
func RedactCell(cell model.ScoreCell, p *model.ContestProblem, formatName string, contestRunning, privileged bool) DisplayCell {
	out := DisplayCell{ScoreCell: cell}
	if formatName != "new_ioi" || !contestRunning || privileged || len(p.HiddenSubtasks) == 0 {
		return out
	}
	dec := cell.Decoration
	if len(dec.SubtaskOrdinals) == 0 {
		// Nothing judged yet; a zero cell has nothing to hide.
		return out
	}

	var visiblePoints float64
	visible := model.CellDecoration{
		Solved:  dec.Solved,
		Penalty: dec.Penalty,
		Bonus:   dec.Bonus,
		FirstAC: dec.FirstAC,
	}
	var markers []HiddenSubtaskMarker
	for i, ordinal := range dec.SubtaskOrdinals {
		points, total := dec.SubtaskPoints[i], dec.SubtaskTotals[i]
		if !p.SubtaskHidden(ordinal) {
			visiblePoints += points
			visible.SubtaskOrdinals = append(visible.SubtaskOrdinals, ordinal)
			visible.SubtaskPoints = append(visible.SubtaskPoints, points)
			visible.SubtaskTotals = append(visible.SubtaskTotals, total)
			continue
		}
		status := SubtaskFail
		switch {
		case total > 0 && points >= total:
			status = SubtaskPass
		case points > 0:
			status = SubtaskPartial
		}
		markers = append(markers, HiddenSubtaskMarker{Ordinal: ordinal, Status: status})
	}

	out.Points = visiblePoints
	out.Decoration = visible
	out.Redacted = true
	out.HiddenSubtasks = markers
	return out
}

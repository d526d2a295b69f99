// Package format implements the seven contest rule sets as a strategy
// table keyed by format name. Every entry is a pure value: given the same
// ordered submission history it always produces the same cells, totals and
// ordering, which is what makes recomputation idempotent.
package format

import (
	"fmt"
	"sort"

	"podium/internal/common"
	"podium/internal/domain/model"
)

// Format is the contract every contest rule set implements. All methods
// are pure; histories arrive time-ordered and already windowed by the
// submission aggregator.
type Format interface {
	// Name returns the registry key for this format.
	Name() string

	// Select returns the subset of a single (participation, problem)
	// history that counts under this format's rules, in history order.
	Select(history []model.ContestSubmission) []model.ContestSubmission

	// ComputeCell derives the score cell for one (participation, problem)
	// pair. An empty history yields a zero cell.
	ComputeCell(p *model.ContestProblem, participationID string, windowSeconds int64, history []model.ContestSubmission) model.ScoreCell

	// ComputeTotal folds a participation's cells into its total points,
	// tiebreak value and solved count.
	ComputeTotal(cells []model.ScoreCell) (points float64, tiebreak float64, solved int)

	// Compare imposes the format's total order over ranking rows.
	// Negative means a ranks strictly before b; zero means the rows tie
	// and share a rank number.
	Compare(a, b *model.RankingRow) int
}

// Factory builds a format from its contest-level config map. Factories
// validate the config and reject unknown keys; they are invoked both at
// contest save time and when the engine loads a contest for scoring.
type Factory func(cfg map[string]any) (Format, error)

var factories = map[string]Factory{
	"default":  newDefault,
	"icpc":     newICPC,
	"ioi":      newIOI,
	"new_ioi":  newNewIOI,
	"atcoder":  newAtCoder,
	"ecoo":     newECOO,
	"ultimate": newUltimate,
}

// New instantiates the named format with its validated config.
// An unknown name is a configuration error; there is deliberately no
// fallback format.
func New(name string, cfg map[string]any) (Format, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown contest format %q: %w", name, common.ErrValidation)
	}
	f, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("format %q: %w", name, err)
	}
	return f, nil
}

// ValidateConfig checks a (name, config) pair at contest save time.
func ValidateConfig(name string, cfg map[string]any) error {
	_, err := New(name, cfg)
	return err
}

// Names lists the supported format keys, sorted for stable output.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

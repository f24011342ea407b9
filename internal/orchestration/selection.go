package orchestration

import (
	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/candidates"
	apperrors "github.com/agbru/bigocalc/internal/errors"
)

// SelectCandidates resolves the candidates to analyse. Selection is "all" or
// a comma-separated list of names; a non-empty mode keeps only candidates
// taking that input kind. Results are in sorted name order for "all" and in
// the given order otherwise.
//
// Parameters:
//   - reg: The registry to resolve names against.
//   - selection: "all" or a list of candidate names.
//   - mode: Optional input mode filter.
//
// Returns:
//   - []candidates.Candidate: The candidates to run.
//   - error: A ConfigError for unknown names or an empty selection.
func SelectCandidates(reg *candidates.Registry, selection string, mode bench.Mode) ([]candidates.Candidate, error) {
	selected, err := reg.Select(selection)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		return selected, nil
	}
	filtered := selected[:0:0]
	for _, c := range selected {
		if c.Mode == mode {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return nil, apperrors.NewConfigError("no candidate in %q takes %s input", selection, mode)
	}
	return filtered, nil
}

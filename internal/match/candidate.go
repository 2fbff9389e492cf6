package match

import "sort"

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name string
	// Score is the normalized similarity (0-1, higher is closer).
	Score float64
	// Exact is set when both names normalize to the same identifier.
	Exact bool
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankNames scores every name against target. The result is sorted by score
// descending, then by name for determinism. Duplicate names are scored once.
func RankNames(target string, names []string) CandidateList {
	targetNorm := NormalizeIdent(target)
	seen := make(map[string]struct{}, len(names))

	candidates := make(CandidateList, 0, len(names))

	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}

		seen[name] = struct{}{}

		norm := NormalizeIdent(name)
		candidates = append(candidates, Candidate{
			Name:  name,
			Score: Similarity(norm, targetNorm),
			Exact: norm == targetNorm,
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns candidates with a score of at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// Names returns the candidate names in rank order.
func (c CandidateList) Names() []string {
	names := make([]string, len(c))
	for i, cand := range c {
		names[i] = cand.Name
	}

	return names
}

const (
	// DefaultMinScore is the minimum similarity worth suggesting.
	DefaultMinScore = 0.6
	// DefaultMaxSuggestions caps how many names Suggest returns.
	DefaultMaxSuggestions = 3
)

// Suggest returns up to DefaultMaxSuggestions names close to target. A name
// that normalizes to target is returned alone.
func Suggest(target string, names []string) []string {
	ranked := RankNames(target, names)

	if best := ranked.Best(); best != nil && best.Exact {
		return []string{best.Name}
	}

	return ranked.AboveThreshold(DefaultMinScore).Top(DefaultMaxSuggestions).Names()
}

package prompts

import (
	"errors"
	"sort"
)

var (
	// ErrNotOnboarded means the user has no preference record yet.
	ErrNotOnboarded = errors.New("user has not completed onboarding")
	// ErrNoEligibleSubjects means the user's exclusions cover every
	// selected subject, which is a preference configuration error.
	ErrNoEligibleSubjects = errors.New("no eligible subjects after exclusions")
	// ErrNotFound means no matching prompt row exists.
	ErrNotFound = errors.New("prompt not found")
)

// EligibleSubjects computes the candidate subject set for generation:
// selected subjects minus exclusions minus recently used. If the
// rotation window would leave nothing, repeats are allowed again, but
// exclusions are absolute and never relaxed. Returns
// ErrNoEligibleSubjects when exclusions alone empty the set.
//
// The result is sorted so that a seeded random pick is reproducible.
func EligibleSubjects(subjects, exclusions []string, recentlyUsed map[string]bool) ([]string, error) {
	excluded := make(map[string]bool, len(exclusions))
	for _, s := range exclusions {
		excluded[s] = true
	}

	var eligible, fallback []string
	seen := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		if excluded[s] || seen[s] {
			continue
		}
		seen[s] = true
		fallback = append(fallback, s)
		if !recentlyUsed[s] {
			eligible = append(eligible, s)
		}
	}

	if len(eligible) == 0 {
		eligible = fallback
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleSubjects
	}
	sort.Strings(eligible)
	return eligible, nil
}

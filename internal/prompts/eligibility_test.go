package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligibleSubjectsExcludesRecentlyUsed(t *testing.T) {
	subjects := []string{"landscape", "animals", "still_life"}
	recent := map[string]bool{"animals": true}

	eligible, err := EligibleSubjects(subjects, nil, recent)
	require.NoError(t, err)
	assert.Equal(t, []string{"landscape", "still_life"}, eligible)
}

func TestEligibleSubjectsNeverReturnsExclusions(t *testing.T) {
	subjects := []string{"landscape", "animals", "still_life"}
	exclusions := []string{"animals"}

	eligible, err := EligibleSubjects(subjects, exclusions, nil)
	require.NoError(t, err)
	assert.NotContains(t, eligible, "animals")
}

func TestEligibleSubjectsFallbackAllowsRepeatsButNotExclusions(t *testing.T) {
	// Every non-excluded subject was recently used: the rotation window
	// must relax, the exclusion must not.
	subjects := []string{"landscape", "animals"}
	exclusions := []string{"animals"}
	recent := map[string]bool{"landscape": true}

	eligible, err := EligibleSubjects(subjects, exclusions, recent)
	require.NoError(t, err)
	assert.Equal(t, []string{"landscape"}, eligible)
}

func TestEligibleSubjectsFallbackToFullSet(t *testing.T) {
	// All subjects recently used, no exclusions: fall back to the full
	// selected set rather than returning empty.
	subjects := []string{"landscape", "animals"}
	recent := map[string]bool{"landscape": true, "animals": true}

	eligible, err := EligibleSubjects(subjects, nil, recent)
	require.NoError(t, err)
	assert.ElementsMatch(t, subjects, eligible)
}

func TestEligibleSubjectsAllExcludedFailsFast(t *testing.T) {
	subjects := []string{"landscape", "animals"}
	exclusions := []string{"landscape", "animals"}

	_, err := EligibleSubjects(subjects, exclusions, nil)
	assert.ErrorIs(t, err, ErrNoEligibleSubjects)
}

func TestEligibleSubjectsToleratesExclusionOutsideSelection(t *testing.T) {
	// The editing UI should prevent this, but the engine must cope.
	subjects := []string{"landscape"}
	exclusions := []string{"fantasy"}

	eligible, err := EligibleSubjects(subjects, exclusions, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"landscape"}, eligible)
}

func TestEligibleSubjectsDeduplicates(t *testing.T) {
	eligible, err := EligibleSubjects([]string{"landscape", "landscape"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"landscape"}, eligible)
}

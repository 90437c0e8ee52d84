package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextCandidates_RejectsInvalidGender(t *testing.T) {
	cmd := NextCandidatesCmd(&AppContext{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.SetArgs([]string{"-g", "X"})
	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gender must be M or F")
}

func TestNextCandidates_RequiresGender(t *testing.T) {
	cmd := NextCandidatesCmd(&AppContext{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.SetArgs([]string{})
	err := cmd.Execute()

	require.Error(t, err)
}

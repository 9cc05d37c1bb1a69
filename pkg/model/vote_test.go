package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parknn/pkg/core"
)

func TestVote(t *testing.T) {
	tests := []struct {
		name   string
		labels []core.Label
		want   core.Label
	}{
		{"single", []core.Label{"a"}, "a"},
		{"clear majority", []core.Label{"x", "y", "x"}, "x"},
		{"majority late", []core.Label{"a", "b", "c", "c", "c"}, "c"},
		// first occurrence wins among tied labels, not first to reach the count
		{"tie first seen", []core.Label{"a", "b", "b", "a"}, "a"},
		{"tie three way", []core.Label{"q", "r", "s"}, "q"},
		{"tie after leader", []core.Label{"b", "a", "a", "b", "c"}, "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Vote(tt.labels)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVote_ManyClasses(t *testing.T) {
	// more distinct labels than the inline tally buffer holds
	var labels []core.Label
	for i := 0; i < 40; i++ {
		labels = append(labels, core.Label(rune('A'+i)))
	}
	labels = append(labels, "Z")
	labels = append(labels, core.Label(rune('A'+30)))

	got, err := Vote(labels)
	require.NoError(t, err)
	assert.Equal(t, core.Label(rune('A'+25)), got)
}

func TestVote_Empty(t *testing.T) {
	_, err := Vote(nil)
	assert.ErrorIs(t, err, core.ErrEmptyVote)

	_, err = VoteNeighbors(nil)
	assert.ErrorIs(t, err, core.ErrEmptyVote)
}

func TestVoteNeighbors_TieGoesToNearest(t *testing.T) {
	nbrs := []Neighbor{
		{Index: 4, Distance: 0.5, Label: "near"},
		{Index: 1, Distance: 0.7, Label: "far"},
		{Index: 0, Distance: 0.9, Label: "far"},
		{Index: 3, Distance: 1.2, Label: "near"},
	}
	got, err := VoteNeighbors(nbrs)
	require.NoError(t, err)
	assert.Equal(t, core.Label("near"), got)

	assert.Equal(t, []core.Label{"near", "far", "far", "near"}, Labels(nbrs))
}

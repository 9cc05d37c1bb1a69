package model

import "parknn/pkg/core"

// Vote returns the most frequent label. Among labels tied for the highest
// count, the one that occurs first in labels wins.
func Vote(labels []core.Label) (core.Label, error) {
	return vote(len(labels), func(i int) core.Label { return labels[i] })
}

// VoteNeighbors votes over neighbors ordered nearest first, so a tie goes to
// the label of the closest neighbor among the tied labels.
func VoteNeighbors(nbrs []Neighbor) (core.Label, error) {
	return vote(len(nbrs), func(i int) core.Label { return nbrs[i].Label })
}

type tally struct {
	label core.Label
	count int
}

func vote(n int, at func(int) core.Label) (core.Label, error) {
	if n == 0 {
		return "", core.WrapError("knn.Vote", core.ErrEmptyVote)
	}

	// k is small; a linear table in first-seen order avoids a map per query.
	var stack [16]tally
	tallies := stack[:0]
	for i := 0; i < n; i++ {
		l := at(i)
		found := false
		for j := range tallies {
			if tallies[j].label == l {
				tallies[j].count++
				found = true
				break
			}
		}
		if !found {
			tallies = append(tallies, tally{label: l, count: 1})
		}
	}

	best := tallies[0]
	for _, t := range tallies[1:] {
		if t.count > best.count {
			best = t
		}
	}
	return best.label, nil
}

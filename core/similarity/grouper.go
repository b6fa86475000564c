package similarity

import "sort"

const (
	// DefaultEditRatioThreshold is the edit ratio above which two forms are similar.
	DefaultEditRatioThreshold = 0.79
	// DefaultTokenRatioThreshold is the token ratio above which two forms are similar.
	DefaultTokenRatioThreshold = 0.65
)

// Grouper partitions surface forms into candidate-duplicate groups.
type Grouper struct {
	EditRatioThreshold  float64
	TokenRatioThreshold float64
	// OrderIndependent groups by connected components of the similarity
	// relation instead of the default greedy growing groups.
	OrderIndependent bool
}

// NewGrouper returns a Grouper with the default thresholds.
func NewGrouper() *Grouper {
	return &Grouper{
		EditRatioThreshold:  DefaultEditRatioThreshold,
		TokenRatioThreshold: DefaultTokenRatioThreshold,
	}
}

// GroupSimilar groups texts with the default Grouper.
func GroupSimilar(texts []string) [][]string {
	return NewGrouper().Group(texts)
}

// Similar reports whether a and b exceed either threshold.
func (g *Grouper) Similar(a, b string) bool {
	return EditRatio(a, b) > g.EditRatioThreshold || TokenRatio(a, b) > g.TokenRatioThreshold
}

// Group returns every input text in exactly one group. Texts are processed in
// sorted order.
//
// By default each ungrouped text seeds a group and a single pass over the
// remaining ungrouped texts pulls in every text similar to any current member.
// Similarity therefore chains through the growing group, and the result
// depends on processing order: a text skipped early in the pass is not
// reconsidered after a later member joins.
func (g *Grouper) Group(texts []string) [][]string {
	sorted := make([]string, len(texts))
	copy(sorted, texts)
	sort.Strings(sorted)

	if g.OrderIndependent {
		return g.components(sorted)
	}

	grouped := make([]bool, len(sorted))
	var groups [][]string
	for i, seed := range sorted {
		if grouped[i] {
			continue
		}
		grouped[i] = true

		group := []string{seed}
		for j, candidate := range sorted {
			if grouped[j] {
				continue
			}
			if g.similarToAny(group, candidate) {
				group = append(group, candidate)
				grouped[j] = true
			}
		}
		groups = append(groups, group)
	}

	return groups
}

func (g *Grouper) similarToAny(group []string, candidate string) bool {
	for _, member := range group {
		if g.Similar(member, candidate) {
			return true
		}
	}
	return false
}

// components groups by connected components with union-find.
func (g *Grouper) components(sorted []string) [][]string {
	parent := make([]int, len(sorted))
	for i := range parent {
		parent[i] = i
	}

	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if g.Similar(sorted[i], sorted[j]) {
				ri, rj := find(i), find(j)
				if ri != rj {
					parent[max(ri, rj)] = min(ri, rj)
				}
			}
		}
	}

	index := map[int]int{}
	var groups [][]string
	for i, text := range sorted {
		root := find(i)
		k, ok := index[root]
		if !ok {
			k = len(groups)
			index[root] = k
			groups = append(groups, nil)
		}
		groups[k] = append(groups[k], text)
	}

	return groups
}

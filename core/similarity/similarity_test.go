package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditRatio(t *testing.T) {
	tests := []struct {
		a, b     string
		expected float64
	}{
		{"abc", "abc", 1},
		{"", "", 1},
		{"abc", "", 0},
		{"kitten", "sitting", 8.0 / 13.0},
		{"Ramon Allen Felman", "Ramón Allen Felman", 34.0 / 36.0},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EditRatio(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.expected, EditRatio(tt.b, tt.a), 1e-9, "Expected ratio to be symmetric")
		})
	}

	t.Run("Composed and decomposed accents agree", func(t *testing.T) {
		assert.Equal(t, 1.0, EditRatio("Al\u00ed", "Ali\u0301"))
	})
}

func TestTokenRatio(t *testing.T) {
	assert.InDelta(t, 2.0/3.0, TokenRatio("Alfredo Brown Manister", "Alfredo Francisco Brown"), 1e-9)
	assert.Equal(t, 1.0, TokenRatio("LABOR court", "Court labor"), "Expected case-insensitive token sets")
	assert.Equal(t, 0.5, TokenRatio("Labor Court", "Labor Court of Honduras"), "Expected ratio against the larger set")
	assert.Equal(t, 0.0, TokenRatio("", "  "), "Expected zero for two empty token sets")
	assert.Equal(t, 0.0, TokenRatio("Court", ""))
}

func TestGroupSimilar(t *testing.T) {
	t.Run("Word overlap groups names", func(t *testing.T) {
		groups := GroupSimilar([]string{"José Martínez López", "Alfredo Francisco Brown", "Alfredo Brown Manister"})

		require.Len(t, groups, 2)
		assert.Equal(t, []string{"Alfredo Brown Manister", "Alfredo Francisco Brown"}, groups[0])
		assert.Equal(t, []string{"José Martínez López"}, groups[1])
	})

	t.Run("Edit ratio groups spelling variants", func(t *testing.T) {
		groups := GroupSimilar([]string{"Timoteo Lemus Pissaty", "Timoteo Lemus Pizzati", "Santana"})

		require.Len(t, groups, 2)
		assert.ElementsMatch(t, []string{"Timoteo Lemus Pissaty", "Timoteo Lemus Pizzati"}, groups[1])
	})

	t.Run("Every input in exactly one group", func(t *testing.T) {
		input := []string{
			"Procuraduría de Trabajo", "Procuraduría del Trabajo", "Labor Court", "Labor Courts",
			"IACHR", "CEJIL", "Juzgado de Trabajo", "Juzgados de Trabajo", "Court", "Commission",
			"Court",
		}

		groups := GroupSimilar(input)

		count := 0
		seen := map[string]int{}
		for _, group := range groups {
			require.NotEmpty(t, group, "Expected no empty groups")
			for _, text := range group {
				seen[text]++
				count++
			}
		}
		assert.Equal(t, len(input), count, "Expected every input exactly once")
		assert.Equal(t, 2, seen["Court"], "Expected duplicates to be kept")
	})

	t.Run("Empty input", func(t *testing.T) {
		assert.Empty(t, GroupSimilar(nil))
	})
}

func TestGrouperOrderDependence(t *testing.T) {
	// Sorted order: "Ana Bell Cruz" < "Mia Zoe Cruz" < "Zoe Bell Cruz".
	// Ana~Zoe and Mia~Zoe, but Ana is not similar to Mia.
	input := []string{"Zoe Bell Cruz", "Mia Zoe Cruz", "Ana Bell Cruz"}

	t.Run("Greedy growing groups do not revisit skipped texts", func(t *testing.T) {
		groups := NewGrouper().Group(input)

		require.Len(t, groups, 2)
		assert.Equal(t, []string{"Ana Bell Cruz", "Zoe Bell Cruz"}, groups[0])
		assert.Equal(t, []string{"Mia Zoe Cruz"}, groups[1])
	})

	t.Run("Order independent grouping follows connectivity", func(t *testing.T) {
		grouper := NewGrouper()
		grouper.OrderIndependent = true

		groups := grouper.Group(input)

		require.Len(t, groups, 1)
		assert.Equal(t, []string{"Ana Bell Cruz", "Mia Zoe Cruz", "Zoe Bell Cruz"}, groups[0])
	})

	t.Run("Chaining through group members", func(t *testing.T) {
		// "Ana Bell Cruz" seeds; "Ana Bell Diaz" joins; "Eva Bell Diaz" joins through the second member only.
		groups := NewGrouper().Group([]string{"Eva Bell Diaz", "Ana Bell Diaz", "Ana Bell Cruz"})

		require.Len(t, groups, 1)
		assert.Equal(t, []string{"Ana Bell Cruz", "Ana Bell Diaz", "Eva Bell Diaz"}, groups[0])
	})
}

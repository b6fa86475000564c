package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/siherrmann/lexent/core/oracle"
	"github.com/siherrmann/lexent/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answering(answer string, prompts *[]string) oracle.Oracle {
	return oracle.Func(func(ctx context.Context, prompt string, opts oracle.Options) (string, error) {
		if prompts != nil {
			*prompts = append(*prompts, prompt)
		}
		return answer, nil
	})
}

func TestLLMExtractor(t *testing.T) {
	text := `against the State of Honduras (hereinafter "Honduras"), represented by Bans López Solaisa`

	t.Run("Fenced JSON array", func(t *testing.T) {
		var prompts []string
		answer := "```json\n[" +
			`{"text":"Honduras","type":"location"},` +
			`{"text":"Miskitu","type":"NORP"},` +
			`{"source_text":"Bans López Solaisa","entity_type":"PERSON"},` +
			`{"text":"Atlantis","type":"LOCATION"}` +
			"]\n```"
		e := NewLLMExtractor(answering(answer, &prompts), oracle.Options{Model: "llama3.1"}, nil)

		candidates, err := e.Extract(context.Background(), text)

		require.NoError(t, err)
		require.Len(t, candidates, 3, "Expected every occurrence of known labels")
		assert.Equal(t, model.CandidateEntity{Text: "Honduras", Label: "LOCATION", Start: 21, End: 29}, candidates[0])
		assert.Equal(t, "Honduras", text[candidates[1].Start:candidates[1].End])
		assert.Equal(t, "PERSON", candidates[2].Label)
		assert.Equal(t, "Bans López Solaisa", text[candidates[2].Start:candidates[2].End])

		require.Len(t, prompts, 1)
		assert.Contains(t, prompts[0], "- LOCATION: Cities, countries, geographic locations")
		assert.Contains(t, prompts[0], text)
	})

	t.Run("Wrapped entities object", func(t *testing.T) {
		answer := `{"entities":[{"text":"State of Honduras","type":"GPE"}]}`
		e := NewLLMExtractor(answering(answer, nil), oracle.Options{}, map[string]string{"GPE": "Countries"})

		candidates, err := e.Extract(context.Background(), text)

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "State of Honduras", candidates[0].Text)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		e := NewLLMExtractor(answering("Honduras, Bans López Solaisa", nil), oracle.Options{}, nil)

		_, err := e.Extract(context.Background(), text)

		assert.Error(t, err)
	})

	t.Run("Oracle failure", func(t *testing.T) {
		failing := oracle.Func(func(ctx context.Context, prompt string, opts oracle.Options) (string, error) {
			return "", errors.New("unavailable")
		})

		_, err := NewLLMExtractor(failing, oracle.Options{}, nil).Extract(context.Background(), text)

		assert.Error(t, err)
	})

	t.Run("Blank text skips oracle", func(t *testing.T) {
		var prompts []string
		candidates, err := NewLLMExtractor(answering("[]", &prompts), oracle.Options{}, nil).Extract(context.Background(), " ")

		assert.NoError(t, err)
		assert.Empty(t, candidates)
		assert.Empty(t, prompts)
	})
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `[1]`, stripCodeFence("```json\n[1]\n```"))
	assert.Equal(t, `[1]`, stripCodeFence("```\n[1]```"))
	assert.Equal(t, `[1]`, stripCodeFence("  [1] "))
}

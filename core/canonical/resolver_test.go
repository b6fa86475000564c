package canonical

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/siherrmann/lexent/core/oracle"
	"github.com/siherrmann/lexent/core/registry"
	"github.com/siherrmann/lexent/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOracle struct {
	answer  string
	err     error
	prompts []string
	options []oracle.Options
}

func (o *recordingOracle) Adjudicate(ctx context.Context, prompt string, opts oracle.Options) (string, error) {
	o.prompts = append(o.prompts, prompt)
	o.options = append(o.options, opts)
	return o.answer, o.err
}

func addMention(reg *registry.Registry, text string, page int) {
	segment := "Counsel for " + text + " appeared."
	reg.Add(text, model.Mention{
		Page:          "doc - p:" + string(rune('0'+page)),
		Text:          segment,
		Start:         len("Counsel for "),
		End:           len("Counsel for ") + len(text),
		SegmentNumber: page,
	})
}

func ibmRegistry() *registry.Registry {
	reg := registry.New("ORG")
	addMention(reg, "IBM", 1)
	addMention(reg, "I.B.M.", 2)
	addMention(reg, "International Business Machines", 3)
	addMention(reg, "IBM", 4)
	return reg
}

func TestResolve(t *testing.T) {
	group := []string{"IBM", "I.B.M.", "International Business Machines"}

	t.Run("Single answer merges group", func(t *testing.T) {
		reg := ibmRegistry()
		o := &recordingOracle{answer: "International Business Machines\n"}
		r := NewResolver(o, "llama3.1", time.Second, nil)

		res, err := r.Resolve(context.Background(), group, reg)

		require.NoError(t, err, "Expected resolve to succeed")
		assert.True(t, res.Merged)
		assert.Equal(t, "International Business Machines", res.Canonical())
		assert.Equal(t, []string{"International Business Machines"}, reg.Keys(), "Expected other keys to be removed")

		info, ok := reg.Get("International Business Machines")
		require.True(t, ok)
		assert.Equal(t, 4, info.Len(), "Expected all mention histories under the canonical key")
		for _, m := range info.Mentions {
			assert.NotEmpty(t, m.Surface(), "Expected offsets to stay aligned with their segment")
		}

		require.Len(t, o.prompts, 1)
		assert.Contains(t, o.prompts[0], "IBM\nI.B.M.\nInternational Business Machines")
		assert.Contains(t, o.prompts[0], "organization names")
		assert.Equal(t, oracle.Options{Model: "llama3.1", Temperature: 0}, o.options[0])
	})

	t.Run("Answer naming a new canonical form", func(t *testing.T) {
		reg := ibmRegistry()
		r := NewResolver(&recordingOracle{answer: "- International Business Machines Corporation"}, "m", 0, nil)

		res, err := r.Resolve(context.Background(), group, reg)

		require.NoError(t, err)
		assert.True(t, res.Merged)
		assert.Equal(t, []string{"International Business Machines Corporation"}, reg.Keys())
		assert.Equal(t, 4, reg.MentionCount())
	})

	t.Run("Multiple answers reject merge", func(t *testing.T) {
		reg := ibmRegistry()
		r := NewResolver(&recordingOracle{answer: "IBM\nInternational Business Machines\n"}, "m", 0, nil)

		res, err := r.Resolve(context.Background(), group, reg)

		require.NoError(t, err, "Expected rejection not to be an error")
		assert.False(t, res.Merged)
		assert.Equal(t, []string{"IBM", "International Business Machines"}, res.Names)
		assert.Equal(t, 3, reg.Len(), "Expected registry to be untouched")
	})

	t.Run("Duplicate lines count once", func(t *testing.T) {
		reg := ibmRegistry()
		r := NewResolver(&recordingOracle{answer: "IBM\n  IBM  \n\n"}, "m", 0, nil)

		res, err := r.Resolve(context.Background(), group, reg)

		require.NoError(t, err)
		assert.True(t, res.Merged)
		assert.Equal(t, []string{"IBM"}, reg.Keys())
	})

	t.Run("Oracle failure", func(t *testing.T) {
		reg := ibmRegistry()
		r := NewResolver(&recordingOracle{err: errors.New("connection refused")}, "m", 0, nil)

		res, err := r.Resolve(context.Background(), group, reg)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrOracleFailure)
		assert.False(t, res.Merged)
		assert.Equal(t, group, res.Names, "Expected members to be kept")
		assert.Equal(t, 3, reg.Len())
	})

	t.Run("Blank answer", func(t *testing.T) {
		reg := ibmRegistry()
		r := NewResolver(&recordingOracle{answer: " \n\n"}, "m", 0, nil)

		_, err := r.Resolve(context.Background(), group, reg)

		assert.ErrorIs(t, err, model.ErrOracleFailure)
		assert.Equal(t, 3, reg.Len())
	})

	t.Run("Timeout", func(t *testing.T) {
		reg := ibmRegistry()
		slow := oracle.Func(func(ctx context.Context, prompt string, opts oracle.Options) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})
		r := NewResolver(slow, "m", 20*time.Millisecond, nil)

		_, err := r.Resolve(context.Background(), group, reg)

		assert.ErrorIs(t, err, model.ErrOracleFailure)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 3, reg.Len())
	})

	t.Run("Singleton group", func(t *testing.T) {
		reg := ibmRegistry()
		o := &recordingOracle{answer: "x"}
		r := NewResolver(o, "m", 0, nil)

		res, err := r.Resolve(context.Background(), []string{"IBM"}, reg)

		require.NoError(t, err)
		assert.False(t, res.Merged)
		assert.Empty(t, o.prompts, "Expected no oracle call")
	})
}

func TestCanonicalize(t *testing.T) {
	t.Run("Failure of one group does not block others", func(t *testing.T) {
		reg := registry.New("PERSON")
		addMention(reg, "Alfredo Brown Manister", 1)
		addMention(reg, "Alfredo Francisco Brown", 2)
		addMention(reg, "José Martínez López", 3)
		addMention(reg, "Ugarte Bell", 4)
		addMention(reg, "Ugarte Bell Cruz", 5)

		o := oracle.Func(func(ctx context.Context, prompt string, opts oracle.Options) (string, error) {
			if strings.Contains(prompt, "Ugarte") {
				return "", errors.New("unavailable")
			}
			return "Alfredo Francisco Brown Manister", nil
		})
		r := NewResolver(o, "m", 0, nil)

		names, err := r.Canonicalize(context.Background(), reg)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"Alfredo Francisco Brown Manister",
			"José Martínez López",
			"Ugarte Bell",
			"Ugarte Bell Cruz",
		}, names)
		assert.Equal(t, []string{
			"Alfredo Francisco Brown Manister",
			"José Martínez López",
			"Ugarte Bell",
			"Ugarte Bell Cruz",
		}, reg.Keys(), "Expected sorted registry")
		assert.Equal(t, 5, reg.MentionCount())
	})

	t.Run("Canceled context", func(t *testing.T) {
		reg := ibmRegistry()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewResolver(&recordingOracle{answer: "x"}, "m", 0, nil).Canonicalize(ctx, reg)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseNames(t *testing.T) {
	assert.Equal(t, []string{"Article 1", "Article 2"}, ParseNames("### OUTPUT:\n- Article 1\n* Article 2\n• Article 1\n"))
	assert.Equal(t, []string{}, ParseNames(""))
	assert.Equal(t, []string{"A-B Corp"}, ParseNames("  A-B Corp  "))
}

func TestPrompt(t *testing.T) {
	names := []string{"Articles 1 and 2", "Article 3"}

	assert.Contains(t, Prompt("PROVISION", names), "individual provisions")
	assert.Contains(t, Prompt("LAW", names), "law entities")
	assert.Contains(t, Prompt("person", names), "person names")
	assert.Contains(t, Prompt("GPE", names), "location names")
	assert.Contains(t, Prompt("MISC", names), "EXAMPLE INPUT 1")
	assert.True(t, strings.HasSuffix(Prompt("LAW", names), "Articles 1 and 2\nArticle 3\n\n### OUTPUT:"))
}

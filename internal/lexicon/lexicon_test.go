package lexicon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prepscore/internal/errors"
	"prepscore/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLexiconIsValid(t *testing.T) {
	lex, err := Parse(defaultData)
	require.NoError(t, err)
	assert.NotEmpty(t, lex.Version)
	assert.Same(t, Default(), Default())
}

func TestEveryQuestionTypeHasKeywords(t *testing.T) {
	lex := Default()
	for _, qt := range types.AllQuestionTypes() {
		tiers := lex.Keywords(qt)
		assert.NotEmpty(t, tiers.Primary, "primary tier for %s", qt)
		assert.NotEmpty(t, tiers.Secondary, "secondary tier for %s", qt)
		assert.NotEmpty(t, tiers.Bonus, "bonus tier for %s", qt)
	}
	for _, jt := range types.AllJobTypes() {
		assert.NotEmpty(t, lex.JobKeywordList(jt), "job keywords for %s", jt)
	}
}

func TestTermsAreNormalized(t *testing.T) {
	data := strings.Replace(string(defaultData), "primary: [team,", "primary: [  TEAM  , team,", 1)
	lex, err := Parse([]byte(data))
	require.NoError(t, err)

	primary := lex.Keywords(types.QuestionBehavioral).Primary
	assert.Equal(t, "team", primary[0])
	assert.Equal(t, 1, countOf(primary, "team"))
}

func TestValidateReportsMissingQuestionType(t *testing.T) {
	data := strings.Replace(string(defaultData), "  go:\n    primary:", "  golang:\n    primary:", 1)
	_, err := Parse([]byte(data))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "question_keywords.go is missing")
	assert.Contains(t, err.Error(), "question_keywords.golang is not a known question type")
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("version: [unclosed"))
	assert.Error(t, err)
}

func TestStopWords(t *testing.T) {
	lex := Default()
	assert.True(t, lex.IsStopWord("describe"))
	assert.False(t, lex.IsStopWord("conflict"))
}

func TestQuantityPattern(t *testing.T) {
	re := Default().QuantityPattern()
	matches := []string{"Increased sales by 20%", "Saved $1.2M annually", "Served 5 million users", "grew to 10,000 customers", "cut 40 percent"}
	for _, m := range matches {
		assert.True(t, re.MatchString(m), m)
	}
	misses := []string{"Led the platform team", "Worked on version 2 of the app"}
	for _, m := range misses {
		assert.False(t, re.MatchString(m), m)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	data := strings.Replace(string(defaultData), `version: "2025.1"`, `version: "test-2"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	lex, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-2", lex.Version)

	defaultLex, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), defaultLex)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
}

func TestStoreSwap(t *testing.T) {
	first := Default()
	second := &Lexicon{Version: "next"}
	store := NewStore(first)

	assert.Same(t, first, store.Current())
	assert.Same(t, first, store.Swap(second))
	assert.Same(t, second, store.Current())
}

func TestWatcherReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: broken"), 0600))

	store := NewStore(Default())
	var gotErr error
	w := NewWatcher(path, store, 0, func(_ string, err error) { gotErr = err }, nil)

	w.Reload()
	assert.Error(t, gotErr)
	assert.Same(t, Default(), store.Current())

	data := strings.Replace(string(defaultData), `version: "2025.1"`, `version: "reloaded"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))
	w.Reload()
	assert.NoError(t, gotErr)
	assert.Equal(t, "reloaded", store.Current().Version)
}

func countOf(list []string, v string) int {
	n := 0
	for _, s := range list {
		if s == v {
			n++
		}
	}
	return n
}

func TestSummary(t *testing.T) {
	summary := Default().Summary("")
	assert.Equal(t, "built-in", summary.Source)
	assert.Equal(t, Default().Version, summary.Version)
	assert.Positive(t, summary.Tables["action_verbs"])
	assert.Equal(t, "custom.yaml", Default().Summary("custom.yaml").Source)
}

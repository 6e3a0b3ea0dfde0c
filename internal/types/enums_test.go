package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionType(t *testing.T) {
	tests := []struct {
		input    string
		expected QuestionType
		wantErr  bool
	}{
		{input: "Behavioral", expected: QuestionBehavioral},
		{input: "behavioral", expected: QuestionBehavioral},
		{input: "  TECHNICAL ", expected: QuestionTechnical},
		{input: "Software Engineering", expected: QuestionSoftwareEngineering},
		{input: "data-science", expected: QuestionDataScience},
		{input: "JavaScript", expected: QuestionJavaScript},
		{input: "golang", expected: QuestionGo},
		{input: "Go", expected: QuestionGo},
		{input: "astrology", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseQuestionType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestQuestionTypeRoundTrip(t *testing.T) {
	for _, qt := range AllQuestionTypes() {
		parsed, err := ParseQuestionType(qt.DisplayName())
		require.NoError(t, err, "display name %q should parse", qt.DisplayName())
		assert.Equal(t, qt, parsed)
		assert.True(t, qt.Valid())
	}
}

func TestIsProgrammingLanguage(t *testing.T) {
	languages := map[QuestionType]bool{
		QuestionJavaScript: true,
		QuestionPython:     true,
		QuestionJava:       true,
		QuestionGo:         true,
	}
	for _, qt := range AllQuestionTypes() {
		assert.Equal(t, languages[qt], qt.IsProgrammingLanguage(), "type %s", qt)
	}
}

func TestParseJobTypeFallsBackToGeneral(t *testing.T) {
	assert.Equal(t, JobSoftwareEngineer, ParseJobType("Software Engineer"))
	assert.Equal(t, JobMarketing, ParseJobType("marketing"))
	assert.Equal(t, JobGeneral, ParseJobType(""))
	assert.Equal(t, JobGeneral, ParseJobType("astronaut"))
}

func TestSeverityPenalty(t *testing.T) {
	assert.Equal(t, 5.0, SeverityHigh.Penalty())
	assert.Equal(t, 3.0, SeverityMedium.Penalty())
	assert.Equal(t, 1.0, SeverityLow.Penalty())
}

func TestResumeInfoJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(ATSAnalysis{Score: 42})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"score", "keywordsFound", "missingKeywords", "actionVerbsFound", "formattingIssues", "recommendations"} {
		assert.Contains(t, decoded, key)
	}
}

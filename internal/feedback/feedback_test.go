package feedback

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Tier
		label string
	}{
		{score: 100, want: TierStrong, label: "Strong"},
		{score: 71, want: TierStrong, label: "Strong"},
		{score: 70, want: TierModerate, label: "Good Start"},
		{score: 50, want: TierModerate, label: "Good Start"},
		{score: 49, want: TierWeak, label: "Needs Work"},
		{score: 0, want: TierWeak, label: "Needs Work"},
		{score: -5, want: TierWeak, label: "Needs Work"},
		{score: 140, want: TierStrong, label: "Strong"},
	}
	for _, tt := range tests {
		got := Classify(tt.score)
		if got.Tier != tt.want || got.Label != tt.label {
			t.Fatalf("Classify(%d) = %+v, want %s/%s", tt.score, got, tt.want, tt.label)
		}
	}
}

func TestClassifyYieldsExactlyOneTier(t *testing.T) {
	for s := -10; s <= 110; s++ {
		switch Classify(s).Tier {
		case TierStrong, TierModerate, TierWeak:
		default:
			t.Fatalf("Classify(%d) returned unknown tier", s)
		}
	}
}

func TestScoreTone(t *testing.T) {
	assert.Equal(t, ToneHigh, ScoreTone(80))
	assert.Equal(t, ToneMedium, ScoreTone(79))
	assert.Equal(t, ToneMedium, ScoreTone(50))
	assert.Equal(t, ToneLow, ScoreTone(49))
}

func TestPartitionTipsPreservesOrder(t *testing.T) {
	tips := []Tip{
		{Type: TipImprove, Tip: "i1"},
		{Type: TipGood, Tip: "g1"},
		{Type: TipGood, Tip: "g2"},
		{Type: TipImprove, Tip: "i2"},
		{Type: TipGood, Tip: "g3"},
	}
	good, improve := PartitionTips(tips)

	require.Equal(t, len(tips), len(good)+len(improve))
	assert.Equal(t, []string{"g1", "g2", "g3"}, labels(good))
	assert.Equal(t, []string{"i1", "i2"}, labels(improve))
}

func TestPartitionTipsEmpty(t *testing.T) {
	good, improve := PartitionTips(nil)
	assert.Empty(t, good)
	assert.Empty(t, improve)
}

const validFeedback = `{
  "overallScore": 70,
  "ATS": {"score": 82, "tips": [{"type": "good", "tip": "Standard headings"}, {"type": "improve", "tip": "Avoid tables"}]},
  "toneAndStyle": {"score": 71, "tips": [{"type": "good", "tip": "Confident", "explanation": "Active verbs"}]},
  "content": {"score": 50, "tips": [{"type": "improve", "tip": "Quantify", "explanation": "Add numbers"}, {"type": "good", "tip": "Relevant", "explanation": "Matches role"}]},
  "structure": {"score": 49, "tips": []},
  "skills": {"score": 90, "tips": [{"type": "good", "tip": "Go", "explanation": "Listed"}]}
}`

func TestParseValidFeedback(t *testing.T) {
	f, err := Parse(validFeedback)
	require.NoError(t, err)
	assert.Equal(t, 70, f.OverallScore)
	assert.Equal(t, 82, f.ATS.Score)
	assert.Equal(t, TipImprove, f.Content.Tips[0].Type)
	assert.Empty(t, f.ATS.Tips[0].Explanation)
}

func TestParseStripsCodeFence(t *testing.T) {
	f, err := Parse("```json\n" + validFeedback + "\n```")
	require.NoError(t, err)
	assert.Equal(t, 90, f.Skills.Score)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: "  "},
		{name: "not json", raw: "{nope"},
		{name: "score out of range", raw: `{"overallScore": 101, "toneAndStyle": {"score": 1, "tips": []}, "content": {"score": 1, "tips": []}, "structure": {"score": 1, "tips": []}, "skills": {"score": 1, "tips": []}}`},
		{name: "third tip type", raw: `{"overallScore": 10, "toneAndStyle": {"score": 1, "tips": [{"type": "neutral", "tip": "x"}]}, "content": {"score": 1, "tips": []}, "structure": {"score": 1, "tips": []}, "skills": {"score": 1, "tips": []}}`},
		{name: "missing category", raw: `{"overallScore": 10, "toneAndStyle": {"score": 1, "tips": []}, "content": {"score": 1, "tips": []}, "structure": {"score": 1, "tips": []}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFeedback))
		})
	}
}

func TestBuildReport(t *testing.T) {
	f, err := Parse(validFeedback)
	require.NoError(t, err)

	r := BuildReport(f)
	assert.Equal(t, 70, r.OverallScore)
	assert.Equal(t, "Good Start", r.Badge.Label)
	assert.Equal(t, "Strong", r.ATS.Badge.Label)
	assert.Equal(t, 1, r.ATS.StrengthCount)
	assert.Equal(t, 1, r.ATS.ImprovementCount)

	require.Len(t, r.Categories, 4)
	keys := make([]CategoryKey, 0, 4)
	for _, c := range r.Categories {
		keys = append(keys, c.Key)
	}
	assert.Equal(t, []CategoryKey{CategoryToneAndStyle, CategoryContent, CategoryStructure, CategorySkills}, keys)

	assert.Equal(t, "Strong", r.Categories[0].Badge.Label)
	assert.Equal(t, "Good Start", r.Categories[1].Badge.Label)
	assert.Equal(t, []string{"Relevant"}, labels(r.Categories[1].Strengths))
	assert.Equal(t, []string{"Quantify"}, labels(r.Categories[1].Improvements))
	assert.Equal(t, "Needs Work", r.Categories[2].Badge.Label)
	assert.Equal(t, 0, r.Categories[2].StrengthCount)
}

func TestCategoryScoreSeventyIsGoodStart(t *testing.T) {
	r := BuildReport(Feedback{Content: CategoryFeedback{Score: 70}})
	assert.Equal(t, "Good Start", r.Categories[1].Badge.Label)
	assert.NotEqual(t, "Strong", r.Categories[1].Badge.Label)
}

func labels(tips []Tip) []string {
	out := make([]string, 0, len(tips))
	for _, t := range tips {
		out = append(out, t.Tip)
	}
	return out
}

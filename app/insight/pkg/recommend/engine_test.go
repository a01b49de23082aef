package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

func names(recs []model.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Name)
	}
	return out
}

func assessedSummary() *model.Summary {
	return &model.Summary{
		Assessments: []model.AttributeAssessment{
			{Attribute: "Inquirer", Level: model.LevelInsufficient},
			{Attribute: "Communicator", Level: model.LevelExceeding},
			{Attribute: "Reflective", Level: model.LevelMixed},
			{Attribute: "Caring", Level: model.LevelInsufficient},
			{Attribute: "Thinker", Level: model.LevelMeeting},
		},
	}
}

func TestRecommendOrdering(t *testing.T) {
	recs := NewEngine().Recommend(assessedSummary(), "3")

	assert.Equal(t, []string{
		"Junior Robotics Club",
		"Science Museum Visits",
		"Team Sports League",
		"Community Volunteering",
		"Chess Club",
		"Library Reading Program",
		"Drama and Public Speaking",
	}, names(recs))

	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Priority.Rank(), recs[i].Priority.Rank())
	}
}

func TestRecommendMergesSharedActivity(t *testing.T) {
	recs := NewEngine().Recommend(assessedSummary(), "3")

	var library *model.Recommendation
	for i := range recs {
		if recs[i].Name == "Library Reading Program" {
			library = &recs[i]
		}
	}
	require.NotNil(t, library)
	assert.Equal(t, model.PriorityMedium, library.Priority)
	assert.Equal(t, []string{"Communicator", "Reflective"}, library.TargetAttributes)
	assert.Contains(t, library.WhyRecommended, "reinforces Reflective")
	assert.Contains(t, library.WhyRecommended, "keeps Communicator strong")
	assert.NotNil(t, library.Venues)
}

func TestRecommendGapBeatsStrength(t *testing.T) {
	s := &model.Summary{
		KeyStrengths:          []string{"Communicator: presents ideas with real confidence."},
		AreasNeedingAttention: []string{"Communicator: written work still needs structure."},
	}
	recs := NewEngine().Recommend(s, "4")

	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, model.PriorityHigh, r.Priority)
	}
	assert.Equal(t, []string{"Drama and Public Speaking", "Library Reading Program"}, names(recs))
}

func TestRecommendAssessmentsOverrideText(t *testing.T) {
	s := &model.Summary{
		Assessments: []model.AttributeAssessment{
			{Attribute: "Communicator", Level: model.LevelExceeding},
		},
		KeyStrengths:          []string{"Communicator: presents ideas with real confidence."},
		AreasNeedingAttention: []string{"Communicator skills could help her ask more questions as an Inquirer."},
	}
	recs := NewEngine().Recommend(s, "4")

	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, model.PriorityLow, r.Priority)
		assert.Equal(t, []string{"Communicator"}, r.TargetAttributes)
	}
}

func TestRecommendFreeTextAttributes(t *testing.T) {
	s := &model.Summary{
		AreasNeedingAttention: []string{"More evidence of being a risk-taker would help."},
	}
	recs := NewEngine(WithPerAttribute(1)).Recommend(s, "7")

	require.Len(t, recs, 1)
	assert.Equal(t, "Drama and Public Speaking", recs[0].Name)
	assert.Equal(t, []string{"Risk-taker"}, recs[0].TargetAttributes)
}

func TestRecommendStageEligibility(t *testing.T) {
	s := &model.Summary{Assessments: []model.AttributeAssessment{
		{Attribute: "Inquirer", Level: model.LevelInsufficient},
	}}
	recs := NewEngine().Recommend(s, "Kindergarten")

	assert.Equal(t, []string{"Science Museum Visits", "Nature Exploration Program"}, names(recs))
}

func TestRecommendLimit(t *testing.T) {
	recs := NewEngine(WithLimit(3)).Recommend(assessedSummary(), "3")
	assert.Len(t, recs, 3)
	assert.Equal(t, model.PriorityHigh, recs[2].Priority)
}

func TestRecommendUniqueNames(t *testing.T) {
	s := &model.Summary{Assessments: []model.AttributeAssessment{
		{Attribute: "Balanced", Level: model.LevelInsufficient},
		{Attribute: "Risk-taker", Level: model.LevelMixed},
		{Attribute: "Principled", Level: model.LevelExceeding},
		{Attribute: "Open-minded", Level: model.LevelInsufficient},
		{Attribute: "Knowledgeable", Level: model.LevelMixed},
	}}
	recs := NewEngine(WithPerAttribute(4)).Recommend(s, model.Unresolved)

	seen := map[string]bool{}
	for _, r := range recs {
		assert.False(t, seen[r.Name], "duplicate %s", r.Name)
		seen[r.Name] = true
	}
	assert.NotEmpty(t, recs)
}

func TestRecommendEmpty(t *testing.T) {
	assert.Empty(t, NewEngine().Recommend(nil, "3"))
	assert.Empty(t, NewEngine().Recommend(&model.Summary{}, "3"))
}

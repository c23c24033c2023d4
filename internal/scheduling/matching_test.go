package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

func division(id, agegroup, name string, teams int) models.Division {
	return models.Division{ID: id, AgegroupName: agegroup, Name: name, TeamCount: teams}
}

func TestMatchDivisionsClassifies(t *testing.T) {
	source := []models.Division{
		division("s1", "2024 Boys", "Gold", 6),
		division("s2", "2024 Boys", "Silver", 5),
		division("s3", "2024 Girls", "Gold", 4),
	}
	current := []models.Division{
		division("c1", "2025 Boys", "Gold", 6),
		division("c2", "2025 Boys", "Silver", 7),
		division("c3", "2025 Boys", "Bronze", 4),
	}

	result := MatchDivisions(source, current, DefaultYearShifter())
	require.Len(t, result.Matches, 4)

	byType := map[models.MatchType][]models.DivisionMatch{}
	for _, m := range result.Matches {
		byType[m.MatchType] = append(byType[m.MatchType], m)
	}
	require.Len(t, byType[models.MatchExact], 1)
	assert.Equal(t, "s1", *byType[models.MatchExact][0].SourceDivisionID)
	assert.Equal(t, "c1", *byType[models.MatchExact][0].CurrentDivisionID)

	require.Len(t, byType[models.MatchSizeMismatch], 1)
	assert.Equal(t, 5, byType[models.MatchSizeMismatch][0].SourceTeamCount)
	assert.Equal(t, 7, byType[models.MatchSizeMismatch][0].CurrentTeamCount)

	require.Len(t, byType[models.MatchNewDivision], 1)
	assert.Nil(t, byType[models.MatchNewDivision][0].SourceDivisionID)

	require.Len(t, byType[models.MatchRemovedDivision], 1)
	assert.Nil(t, byType[models.MatchRemovedDivision][0].CurrentDivisionID)
	assert.Equal(t, "2024 Girls", byType[models.MatchRemovedDivision][0].AgegroupName)
}

func TestMatchDivisionsPrefersShiftedName(t *testing.T) {
	source := []models.Division{
		division("s-old", "2024 Boys", "Gold", 6),
		division("s-same", "2025 Boys", "Gold", 6),
	}
	current := []models.Division{division("c1", "2025 Boys", "Gold", 6)}

	result := MatchDivisions(source, current, DefaultYearShifter())

	assert.Equal(t, "s-old", *result.Matches[0].SourceDivisionID)
	assert.Equal(t, models.MatchRemovedDivision, result.Matches[1].MatchType)
}

func TestMatchDivisionsFallsBackToExactName(t *testing.T) {
	source := []models.Division{division("s1", "Open", "Premier", 8)}
	current := []models.Division{division("c1", "open", "premier", 8)}

	result := MatchDivisions(source, current, DefaultYearShifter())
	require.Len(t, result.Matches, 1)
	assert.Equal(t, models.MatchExact, result.Matches[0].MatchType)
}

func TestMatchDivisionsWarnsOnAmbiguousSource(t *testing.T) {
	source := []models.Division{
		division("s2", "2024 Boys", "Gold", 6),
		division("s1", "2024 Boys", "Gold", 6),
	}
	current := []models.Division{division("c1", "2025 Boys", "Gold", 6)}

	result := MatchDivisions(source, current, DefaultYearShifter())

	assert.Equal(t, "s1", *result.Matches[0].SourceDivisionID)
	assert.NotEmpty(t, result.Warnings)
}

func TestConfidenceExtremes(t *testing.T) {
	percent, level := Confidence(0, 5)
	assert.Equal(t, 0, percent)
	assert.Equal(t, models.ConfidenceRed, level)

	percent, level = Confidence(5, 5)
	assert.Equal(t, 100, percent)
	assert.Equal(t, models.ConfidenceGreen, level)

	percent, level = Confidence(2, 3)
	assert.Equal(t, 67, percent)
	assert.Equal(t, models.ConfidenceYellow, level)

	percent, level = Confidence(4, 5)
	assert.Equal(t, 80, percent)
	assert.Equal(t, models.ConfidenceYellow, level)

	percent, _ = Confidence(0, 0)
	assert.Equal(t, 0, percent)
}

func TestAssessFeasibilityWarnings(t *testing.T) {
	id := "c1"
	matches := []models.DivisionMatch{
		{MatchType: models.MatchExact, CurrentDivisionID: &id},
		{MatchType: models.MatchNewDivision, CurrentDivisionID: &id},
		{MatchType: models.MatchSizeMismatch, CurrentDivisionID: &id},
		{MatchType: models.MatchRemovedDivision},
	}

	feasibility := AssessFeasibility(matches, []string{"North", "South", "South"}, []string{"North"}, []string{"ambiguous"})

	assert.Equal(t, 33, feasibility.ConfidencePercent)
	assert.Equal(t, models.ConfidenceRed, feasibility.ConfidenceLevel)
	require.Len(t, feasibility.Warnings, 4)
	assert.Equal(t, "ambiguous", feasibility.Warnings[0])
	assert.Contains(t, feasibility.Warnings[1], `"South"`)
}

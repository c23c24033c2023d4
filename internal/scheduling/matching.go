package scheduling

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

// DivisionKey identifies a division by names, which are the only identifiers
// that survive from one season to the next. Keys are case-insensitive.
type DivisionKey struct {
	Agegroup string
	Division string
}

// KeyFor builds a DivisionKey from display names.
func KeyFor(agegroup, division string) DivisionKey {
	return DivisionKey{Agegroup: fold(agegroup), Division: fold(division)}
}

func (k DivisionKey) String() string {
	return k.Agegroup + "/" + k.Division
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// MatchResult is the outcome of lining up source and current divisions.
type MatchResult struct {
	Matches  []models.DivisionMatch
	Warnings []string
}

// MatchDivisions pairs each current division with a source division. The
// year-shifted source name is tried first, then the unshifted one. When two
// source divisions collapse onto the same key the first in (agegroup,
// division, id) order wins and a warning is recorded. Source divisions left
// over are reported as removed.
func MatchDivisions(source, current []models.Division, shifter YearShifter) MatchResult {
	src := sortedDivisions(source)
	cur := sortedDivisions(current)

	var result MatchResult
	shiftedIdx := map[DivisionKey]int{}
	exactIdx := map[DivisionKey]int{}
	warned := map[DivisionKey]struct{}{}
	index := func(idx map[DivisionKey]int, key DivisionKey, i int) {
		if first, ok := idx[key]; ok {
			if _, done := warned[key]; !done && src[first].ID != src[i].ID {
				warned[key] = struct{}{}
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"source divisions %q and %q both match %s; using %q",
					label(src[first]), label(src[i]), key, label(src[first])))
			}
			return
		}
		idx[key] = i
	}
	for i, d := range src {
		index(shiftedIdx, KeyFor(shifter.Forward(d.AgegroupName), d.Name), i)
		index(exactIdx, KeyFor(d.AgegroupName, d.Name), i)
	}

	used := make([]bool, len(src))
	lookup := func(key DivisionKey) (int, bool) {
		if i, ok := shiftedIdx[key]; ok && !used[i] {
			return i, true
		}
		if i, ok := exactIdx[key]; ok && !used[i] {
			return i, true
		}
		return 0, false
	}

	for _, d := range cur {
		currentID := d.ID
		match := models.DivisionMatch{
			AgegroupName:      d.AgegroupName,
			DivisionName:      d.Name,
			CurrentDivisionID: &currentID,
			CurrentTeamCount:  d.TeamCount,
			MatchType:         models.MatchNewDivision,
		}
		if i, ok := lookup(KeyFor(d.AgegroupName, d.Name)); ok {
			used[i] = true
			s := src[i]
			sourceID := s.ID
			match.SourceDivisionID = &sourceID
			match.SourceAgegroupName = s.AgegroupName
			match.SourceDivisionName = s.Name
			match.SourceTeamCount = s.TeamCount
			match.MatchType = classify(s.TeamCount, d.TeamCount)
		}
		result.Matches = append(result.Matches, match)
	}

	for i, s := range src {
		if used[i] {
			continue
		}
		sourceID := s.ID
		result.Matches = append(result.Matches, models.DivisionMatch{
			AgegroupName:       s.AgegroupName,
			DivisionName:       s.Name,
			SourceAgegroupName: s.AgegroupName,
			SourceDivisionName: s.Name,
			SourceDivisionID:   &sourceID,
			SourceTeamCount:    s.TeamCount,
			MatchType:          models.MatchRemovedDivision,
		})
	}
	return result
}

func classify(sourceTeams, currentTeams int) models.MatchType {
	if sourceTeams == currentTeams {
		return models.MatchExact
	}
	return models.MatchSizeMismatch
}

// Confidence returns round(100 * exact / total), 0 when total is 0, and its level.
func Confidence(exact, total int) (int, string) {
	if total <= 0 {
		return 0, models.ConfidenceRed
	}
	percent := int(math.Round(100 * float64(exact) / float64(total)))
	switch {
	case percent > 80:
		return percent, models.ConfidenceGreen
	case percent > 50:
		return percent, models.ConfidenceYellow
	default:
		return percent, models.ConfidenceRed
	}
}

// AssessFeasibility scores a match set. Missing field names and divisions
// that will fall back to auto-scheduling become warnings, never errors.
func AssessFeasibility(matches []models.DivisionMatch, sourceFields, currentFields []string, warnings []string) models.Feasibility {
	var exact, total, added, resized int
	for _, m := range matches {
		switch m.MatchType {
		case models.MatchExact:
			exact++
			total++
		case models.MatchSizeMismatch:
			resized++
			total++
		case models.MatchNewDivision:
			added++
			total++
		}
	}
	percent, level := Confidence(exact, total)

	out := append([]string{}, warnings...)
	for _, name := range missingFields(sourceFields, currentFields) {
		out = append(out, fmt.Sprintf("field %q from the source season is not in the current field list; its games will be placed greedily", name))
	}
	if added > 0 {
		out = append(out, fmt.Sprintf("%d new division(s) have no source pattern and will be auto-scheduled", added))
	}
	if resized > 0 {
		out = append(out, fmt.Sprintf("%d division(s) changed team count and will be auto-scheduled", resized))
	}
	return models.Feasibility{ConfidencePercent: percent, ConfidenceLevel: level, Warnings: out}
}

func missingFields(sourceFields, currentFields []string) []string {
	current := make(map[string]struct{}, len(currentFields))
	for _, name := range currentFields {
		current[name] = struct{}{}
	}
	seen := map[string]struct{}{}
	var missing []string
	for _, name := range sourceFields {
		if _, ok := current[name]; ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return missing
}

func sortedDivisions(divs []models.Division) []models.Division {
	out := append([]models.Division(nil), divs...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if fold(a.AgegroupName) != fold(b.AgegroupName) {
			return fold(a.AgegroupName) < fold(b.AgegroupName)
		}
		if fold(a.Name) != fold(b.Name) {
			return fold(a.Name) < fold(b.Name)
		}
		return a.ID < b.ID
	})
	return out
}

func label(d models.Division) string {
	return d.AgegroupName + " / " + d.Name
}

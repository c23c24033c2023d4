package scheduling

import (
	"sort"
	"time"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

// ExtractPattern turns a source season's games into placement rules keyed by
// division names. Each rule records the game's day ordinal (the rank of its
// date among the division's distinct dates), its field name and its time of
// day. If two source divisions share a key only the one with the lowest id is
// used, matching the tie-break in MatchDivisions.
func ExtractPattern(games []models.PatternSourceGame) map[DivisionKey][]models.PlacementPattern {
	owner := map[DivisionKey]string{}
	byKey := map[DivisionKey][]models.PatternSourceGame{}
	for _, g := range games {
		key := KeyFor(g.AgegroupName, g.DivisionName)
		if id, ok := owner[key]; !ok || g.DivisionID < id {
			owner[key] = g.DivisionID
		}
	}
	for _, g := range games {
		key := KeyFor(g.AgegroupName, g.DivisionName)
		if owner[key] != g.DivisionID {
			continue
		}
		byKey[key] = append(byKey[key], g)
	}

	patterns := make(map[DivisionKey][]models.PlacementPattern, len(byKey))
	for key, group := range byKey {
		raw := make([]time.Time, 0, len(group))
		for _, g := range group {
			raw = append(raw, g.GameDate)
		}
		days := sortedDays(raw)
		ordinal := make(map[time.Time]int, len(days))
		for i, d := range days {
			ordinal[d] = i
		}

		rules := make([]models.PlacementPattern, 0, len(group))
		for _, g := range group {
			day := truncateDay(g.GameDate)
			rules = append(rules, models.PlacementPattern{
				AgegroupName: g.AgegroupName,
				DivisionName: g.DivisionName,
				DayOrdinal:   ordinal[day],
				FieldName:    g.FieldName,
				TimeOfDay:    g.GameDate.UTC().Sub(day),
				Round:        g.Round,
				GameNumber:   g.GameNumber,
				T1Type:       g.T1Type,
				T2Type:       g.T2Type,
				T1Rank:       g.T1Rank,
				T2Rank:       g.T2Rank,
			})
		}
		sort.SliceStable(rules, func(i, j int) bool {
			a, b := rules[i], rules[j]
			if a.DayOrdinal != b.DayOrdinal {
				return a.DayOrdinal < b.DayOrdinal
			}
			if a.TimeOfDay != b.TimeOfDay {
				return a.TimeOfDay < b.TimeOfDay
			}
			if a.FieldName != b.FieldName {
				return a.FieldName < b.FieldName
			}
			return a.GameNumber < b.GameNumber
		})
		patterns[key] = rules
	}
	return patterns
}

// FallbackReason names the replay step that had to hand a placement to the
// greedy allocator.
type FallbackReason string

const (
	FallbackDate     FallbackReason = "date"
	FallbackField    FallbackReason = "field"
	FallbackSlot     FallbackReason = "slot"
	FallbackOccupied FallbackReason = "occupied"
)

// Placement is a pairing resolved onto a slot.
type Placement struct {
	Pairing  models.Pairing
	Slot     Slot
	Fallback FallbackReason
}

// ReplayInput is everything needed to replay one division.
type ReplayInput struct {
	Patterns       []models.PlacementPattern
	Pairings       []models.Pairing
	Dates          []time.Time
	Fields         []FieldWindow
	IncludeBracket bool
}

// ReplayResult reports placements and failures for one division. Unplaced
// counts eligible current pairings that no rule referenced at all.
type ReplayResult struct {
	Placements []Placement
	Failed     int
	Unplaced   int
	Fallbacks  map[FallbackReason]int
}

type pairingKey struct {
	round, game int
}

// Replay maps each rule onto the current season. The pairing is resolved by
// (round, game number) against the current table; the day ordinal picks a
// current date; the field name picks a current field. Any step that does not
// transfer, a resolved time no current window of that field offers, or a
// resolved slot that is already booked, falls back to
// FindNextAvailableSlot. Placements are added to occupied as they are made.
func Replay(in ReplayInput, occupied *OccupiedSlots) ReplayResult {
	result := ReplayResult{Fallbacks: map[FallbackReason]int{}}

	pairings := make(map[pairingKey]models.Pairing, len(in.Pairings))
	for _, p := range in.Pairings {
		pairings[pairingKey{p.Round, p.GameNumber}] = p
	}
	dates := sortedDays(in.Dates)
	fieldByName := map[string]string{}
	windows := map[string][]FieldWindow{}
	for _, w := range sortedWindows(in.Fields) {
		if _, ok := fieldByName[w.FieldName]; !ok {
			fieldByName[w.FieldName] = w.FieldID
		}
		windows[w.FieldID] = append(windows[w.FieldID], w)
	}
	placed := map[pairingKey]struct{}{}
	referenced := map[pairingKey]struct{}{}

	for _, rule := range in.Patterns {
		bracket := rule.T1Type.IsBracket()
		if bracket && !in.IncludeBracket {
			continue
		}
		key := pairingKey{rule.Round, rule.GameNumber}
		referenced[key] = struct{}{}
		pairing, ok := pairings[key]
		if !ok || !sameKind(pairing, rule) {
			result.Failed++
			continue
		}
		if _, dup := placed[key]; dup {
			result.Failed++
			continue
		}

		slot, reason := resolveRule(rule, dates, fieldByName, windows, occupied)
		if reason != "" {
			result.Fallbacks[reason]++
			var found bool
			slot, found = FindNextAvailableSlot(dates, in.Fields, occupied)
			if !found {
				result.Failed++
				continue
			}
		}

		occupied.Add(slot.FieldID, slot.At)
		placed[key] = struct{}{}
		result.Placements = append(result.Placements, Placement{Pairing: pairing, Slot: slot, Fallback: reason})
	}

	for _, p := range in.Pairings {
		if !p.IsRoundRobin() && !in.IncludeBracket {
			continue
		}
		if _, ok := referenced[pairingKey{p.Round, p.GameNumber}]; !ok {
			result.Unplaced++
		}
	}
	return result
}

func resolveRule(rule models.PlacementPattern, dates []time.Time, fieldByName map[string]string, windows map[string][]FieldWindow, occupied *OccupiedSlots) (Slot, FallbackReason) {
	if rule.DayOrdinal < 0 || rule.DayOrdinal >= len(dates) {
		return Slot{}, FallbackDate
	}
	fieldID, ok := fieldByName[rule.FieldName]
	if !ok {
		return Slot{}, FallbackField
	}
	at := dates[rule.DayOrdinal].Add(rule.TimeOfDay)
	if !offered(windows[fieldID], at) {
		return Slot{}, FallbackSlot
	}
	if occupied.Has(fieldID, at) {
		return Slot{}, FallbackOccupied
	}
	return Slot{FieldID: fieldID, At: at}, ""
}

func offered(windows []FieldWindow, at time.Time) bool {
	for _, w := range windows {
		if w.Offers(at) {
			return true
		}
	}
	return false
}

func sameKind(p models.Pairing, rule models.PlacementPattern) bool {
	if rule.T1Type == models.TierTeam {
		return p.IsRoundRobin()
	}
	return p.T1Type == rule.T1Type
}

func sortedWindows(fields []FieldWindow) []FieldWindow {
	out := append([]FieldWindow(nil), fields...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].FieldID < out[j].FieldID })
	return out
}

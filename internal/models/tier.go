package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// TierCode identifies what a pairing slot refers to: a round-robin team slot
// or one of the fixed single-elimination tiers. The single-letter form only
// exists on the wire and in storage.
type TierCode int

const (
	TierUnknown TierCode = iota
	TierTeam
	TierRoundOf64
	TierRoundOf32
	TierRoundOf16
	TierQuarterfinal
	TierSemifinal
	TierFinal
)

// EliminationTiers is the fixed cascade order for single-elimination brackets.
var EliminationTiers = []TierCode{TierRoundOf64, TierRoundOf32, TierRoundOf16, TierQuarterfinal, TierSemifinal, TierFinal}

var tierCodes = map[TierCode]string{
	TierTeam:         "T",
	TierRoundOf64:    "Z",
	TierRoundOf32:    "Y",
	TierRoundOf16:    "X",
	TierQuarterfinal: "Q",
	TierSemifinal:    "S",
	TierFinal:        "F",
}

// ParseTierCode converts a wire code into a TierCode.
func ParseTierCode(raw string) (TierCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	for tier, s := range tierCodes {
		if s == code {
			return tier, nil
		}
	}
	return TierUnknown, fmt.Errorf("unknown tier code %q", raw)
}

// String returns the wire code, or "" for TierUnknown.
func (t TierCode) String() string {
	return tierCodes[t]
}

// IsBracket reports whether the tier belongs to a single-elimination bracket.
func (t TierCode) IsBracket() bool {
	return t >= TierRoundOf64 && t <= TierFinal
}

// SeedCount is the number of bracket positions at this tier: 64 for Z down to 2 for F.
func (t TierCode) SeedCount() int {
	if !t.IsBracket() {
		return 0
	}
	return 2 << (TierFinal - t)
}

// Next returns the tier that follows in the cascade; Final has no successor.
func (t TierCode) Next() (TierCode, bool) {
	if !t.IsBracket() || t == TierFinal {
		return TierUnknown, false
	}
	return t + 1, true
}

// MarshalText implements encoding.TextMarshaler. TierUnknown renders empty.
func (t TierCode) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TierCode) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*t = TierUnknown
		return nil
	}
	parsed, err := ParseTierCode(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer.
func (t TierCode) Value() (driver.Value, error) {
	if t == TierUnknown {
		return nil, fmt.Errorf("cannot store unknown tier code")
	}
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *TierCode) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return t.UnmarshalText([]byte(v))
	case []byte:
		return t.UnmarshalText(v)
	case nil:
		*t = TierUnknown
		return nil
	default:
		return fmt.Errorf("unsupported tier code source %T", src)
	}
}

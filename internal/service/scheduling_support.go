package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/league-scheduler-api/internal/models"
	"github.com/noah-isme/league-scheduler-api/internal/scheduling"
	appErrors "github.com/noah-isme/league-scheduler-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type divisionReader interface {
	FindDivision(ctx context.Context, id string) (*models.Division, error)
}

type timeslotReader interface {
	ListDatesByDivision(ctx context.Context, divisionID string) ([]models.TimeslotDate, error)
	ListDatesByAgegroup(ctx context.Context, agegroupID string) ([]models.TimeslotDate, error)
	ListFieldsByDivision(ctx context.Context, divisionID string) ([]models.TimeslotField, error)
	ListFieldsByAgegroup(ctx context.Context, agegroupID string) ([]models.TimeslotField, error)
}

type pairingLister interface {
	ListByPool(ctx context.Context, jobID string, poolSize int) ([]models.Pairing, error)
}

// divisionTimeslots is the date and field availability that applies to one division.
type divisionTimeslots struct {
	dates   []models.TimeslotDate
	windows []scheduling.FieldWindow
}

// loadTimeslots prefers division-scoped dates and fields and falls back to the
// agegroup-wide configuration for whichever of the two the division lacks.
func loadTimeslots(ctx context.Context, repo timeslotReader, division models.Division) (divisionTimeslots, error) {
	dates, err := repo.ListDatesByDivision(ctx, division.ID)
	if err != nil {
		return divisionTimeslots{}, internalError(err, "failed to load timeslot dates")
	}
	if len(dates) == 0 {
		if dates, err = repo.ListDatesByAgegroup(ctx, division.AgegroupID); err != nil {
			return divisionTimeslots{}, internalError(err, "failed to load timeslot dates")
		}
	}

	fields, err := repo.ListFieldsByDivision(ctx, division.ID)
	if err != nil {
		return divisionTimeslots{}, internalError(err, "failed to load timeslot fields")
	}
	if len(fields) == 0 {
		if fields, err = repo.ListFieldsByAgegroup(ctx, division.AgegroupID); err != nil {
			return divisionTimeslots{}, internalError(err, "failed to load timeslot fields")
		}
	}

	windows, err := scheduling.FieldWindows(fields)
	if err != nil {
		return divisionTimeslots{}, configError(err)
	}
	return divisionTimeslots{dates: dates, windows: windows}, nil
}

// placeGreedy schedules round-robin pairings in (round, game number) order,
// each onto the first free slot among the dates allowed for its round.
func placeGreedy(division models.Division, pairings []models.Pairing, slots divisionTimeslots, occupied *scheduling.OccupiedSlots) ([]*models.Game, int) {
	var (
		games  []*models.Game
		failed int
	)
	for _, p := range pairings {
		if !p.IsRoundRobin() {
			continue
		}
		dates := scheduling.DatesForRound(slots.dates, p.Round)
		slot, ok := scheduling.FindNextAvailableSlot(dates, slots.windows, occupied)
		if !ok {
			failed++
			continue
		}
		occupied.Add(slot.FieldID, slot.At)
		games = append(games, newGame(division, p, slot))
	}
	return games, failed
}

func newGame(division models.Division, p models.Pairing, slot scheduling.Slot) *models.Game {
	return &models.Game{
		JobID:      division.JobID,
		AgegroupID: division.AgegroupID,
		DivisionID: division.ID,
		FieldID:    slot.FieldID,
		GameDate:   slot.At,
		Round:      p.Round,
		GameNumber: p.GameNumber,
		T1Rank:     p.T1Rank,
		T2Rank:     p.T2Rank,
		T1Type:     p.T1Type,
		T2Type:     p.T2Type,
		StatusCode: models.GameStatusScheduled,
	}
}

// slotLabel renders one side of a pairing: the rank for round-robin slots,
// the feeding reference ("W12") when known, otherwise tier and seed ("Q1").
func slotLabel(tier models.TierCode, rank int, ref *models.DerivedRef) string {
	if tier == models.TierTeam {
		return strconv.Itoa(rank)
	}
	if ref != nil {
		return ref.Label()
	}
	return tier.String() + strconv.Itoa(rank)
}

// teamLabel prefers the resolved team name and falls back to slotLabel.
// Bracket seeds never resolve by rank since they are not division ranks.
func teamLabel(resolver scheduling.TeamResolver, divisionID string, teamID *string, tier models.TierCode, rank int) string {
	lookupRank := rank
	if tier != models.TierTeam {
		if teamID == nil {
			return slotLabel(tier, rank, nil)
		}
		lookupRank = 0
	}
	if team, ok := resolver.Resolve(divisionID, teamID, lookupRank); ok {
		return team.Name
	}
	return slotLabel(tier, rank, nil)
}

func notFoundOr(err error, subject string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, subject+" not found")
	}
	return internalError(err, "failed to load "+subject)
}

func internalError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func configError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrInvalidConfiguration.Code, appErrors.ErrInvalidConfiguration.Status, err.Error())
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func rollback(tx *sqlx.Tx, logger *zap.Logger) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.Warn("rollback failed", zap.Error(err))
	}
}

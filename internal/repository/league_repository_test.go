package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var divisionRowColumns = []string{"id", "job_id", "agegroup_id", "agegroup_name", "agegroup_color", "name", "team_count"}

func TestLeagueRepositoryFindJobNotFound(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewLeagueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, season, year, sport_name FROM jobs WHERE id = $1")).
		WithArgs("job-x").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindJob(context.Background(), "job-x")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeagueRepositoryFindDivision(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewLeagueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE d.id = $1 GROUP BY d.id")).
		WithArgs("div-1").
		WillReturnRows(sqlmock.NewRows(divisionRowColumns).AddRow("div-1", "job-1", "ag-1", "2015 Boys", "#0044aa", "Gold", 6))

	division, err := repo.FindDivision(context.Background(), "div-1")
	require.NoError(t, err)
	assert.Equal(t, 6, division.TeamCount)
	assert.Equal(t, "2015 Boys", division.AgegroupName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeagueRepositoryListDivisionsByJob(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewLeagueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.job_id = $1 GROUP BY d.id, a.job_id, d.agegroup_id, a.name, a.color, d.name ORDER BY a.name, d.name, d.id")).
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows(divisionRowColumns).
			AddRow("div-1", "job-1", "ag-1", "2015 Boys", "", "Gold", 6).
			AddRow("div-2", "job-1", "ag-1", "2015 Boys", "", "Silver", 0))

	divisions, err := repo.ListDivisionsByJob(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, divisions, 2)
	assert.Zero(t, divisions[1].TeamCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeagueRepositoryListTeamsByJob(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewLeagueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT t.id, t.division_id, t.name, t.div_rank FROM teams t")).
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "division_id", "name", "div_rank"}).AddRow("t-1", "div-1", "Arrows", 1))

	teams, err := repo.ListTeamsByJob(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, 1, teams[0].DivRank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeagueRepositoryListFieldNamesByJob(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewLeagueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT f.name FROM timeslot_fields tf")).
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("North").AddRow("South"))

	names, err := repo.ListFieldNamesByJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"North", "South"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

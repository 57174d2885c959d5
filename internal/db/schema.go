// Package db persists the feature dataset in SQLite, Turso (libSQL) or
// Postgres.
package db

import (
	"database/sql"
	"fmt"

	"match-analyzer/internal/dataset"
	"match-analyzer/internal/match"
)

// featureColumns is the insert/select order for early_features, minus seq
var featureColumns = []string{
	"match_id",
	"my_team",
	"team1_gold",
	"team2_gold",
	"gold_diff",
	"gold_leading_team",
	"my_team_ahead_gold",
	"team1_kills",
	"team2_kills",
	"kill_diff",
	"kill_leading_team",
	"my_team_ahead_kills",
	"my_team_win",
	"winner",
	"first_tower_team",
	"first_dragon_team",
	"first_herald_team",
}

// rowArgs returns the insert arguments for r in featureColumns order. A
// missing winner is NULL.
func rowArgs(r match.FeatureRecord) []any {
	var winner any
	if !r.WinnerAnomaly && r.Winner.Valid() {
		winner = int(r.Winner)
	}
	return []any{
		r.MatchID,
		int(r.MyTeam),
		r.Team1Gold,
		r.Team2Gold,
		r.GoldDiff,
		int(r.GoldLeadingTeam),
		r.MyTeamAheadGold,
		r.Team1Kills,
		r.Team2Kills,
		r.KillDiff,
		int(r.KillLeadingTeam),
		r.MyTeamAheadKills,
		r.MyTeamWin,
		winner,
		int(r.Objectives.FirstTower),
		int(r.Objectives.FirstDragon),
		int(r.Objectives.FirstHerald),
	}
}

// scanner is satisfied by *sql.Rows and pgx.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (match.FeatureRecord, error) {
	var r match.FeatureRecord
	var myTeam, goldLeader, killLeader int
	var firstTower, firstDragon, firstHerald int
	var winner sql.NullInt64
	err := row.Scan(
		&r.MatchID,
		&myTeam,
		&r.Team1Gold,
		&r.Team2Gold,
		&r.GoldDiff,
		&goldLeader,
		&r.MyTeamAheadGold,
		&r.Team1Kills,
		&r.Team2Kills,
		&r.KillDiff,
		&killLeader,
		&r.MyTeamAheadKills,
		&r.MyTeamWin,
		&winner,
		&firstTower,
		&firstDragon,
		&firstHerald,
	)
	if err != nil {
		return r, fmt.Errorf("%w: scan row: %v", dataset.ErrCorruptDataset, err)
	}

	r.MyTeam = match.TeamID(myTeam)
	r.GoldLeadingTeam = match.TeamID(goldLeader)
	r.KillLeadingTeam = match.TeamID(killLeader)
	if winner.Valid {
		r.Winner = match.TeamID(winner.Int64)
	}
	r.WinnerAnomaly = !r.Winner.Valid()
	r.Objectives = match.Objectives{
		FirstTower:  match.TeamID(firstTower),
		FirstDragon: match.TeamID(firstDragon),
		FirstHerald: match.TeamID(firstHerald),
	}
	return r, nil
}

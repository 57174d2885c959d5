// Package dataset builds and persists the early-game feature table.
package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"match-analyzer/internal/match"
)

// Dataset is an ordered list of feature records keyed by MatchID
type Dataset []match.FeatureRecord

// ErrCorruptDataset is returned when persisted rows cannot be trusted:
// unparseable cells, a missing column, or a missing/repeated match id.
var ErrCorruptDataset = errors.New("corrupt dataset")

// Columns is the persisted column order
var Columns = []string{
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
}

// IDs returns the match ids in order
func (d Dataset) IDs() []string {
	ids := make([]string, len(d))
	for i, r := range d {
		ids[i] = r.MatchID
	}
	return ids
}

// Validate checks the primary-key invariant: every row has a non-empty
// match id and no id appears twice.
func (d Dataset) Validate() error {
	seen := make(map[string]int, len(d))
	for i, r := range d {
		if r.MatchID == "" {
			return fmt.Errorf("%w: row %d has an empty match_id", ErrCorruptDataset, i)
		}
		if prev, ok := seen[r.MatchID]; ok {
			return fmt.Errorf("%w: match_id %s repeated at rows %d and %d", ErrCorruptDataset, r.MatchID, prev, i)
		}
		seen[r.MatchID] = i
	}
	return nil
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "1.0":
		return true, nil
	case "false", "0", "0.0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// parseInt accepts "1500" and the "1500.0" form a float column round-trips to
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if whole, frac, ok := strings.Cut(s, "."); ok && strings.Trim(frac, "0") == "" {
		s = whole
	}
	return strconv.Atoi(s)
}

func parseTeam(s string) (match.TeamID, error) {
	if strings.TrimSpace(s) == "" {
		return match.TeamNone, nil
	}
	n, err := parseInt(s)
	if err != nil {
		return match.TeamNone, err
	}
	team := match.TeamID(n)
	if team != match.TeamNone && !team.Valid() {
		return match.TeamNone, fmt.Errorf("invalid team %q", s)
	}
	return team, nil
}

func formatTeam(t match.TeamID) string {
	return strconv.Itoa(int(t))
}

// toRow encodes a record in Columns order. An anomalous winner is an empty
// cell.
func toRow(r match.FeatureRecord) []string {
	winner := ""
	if !r.WinnerAnomaly && r.Winner.Valid() {
		winner = formatTeam(r.Winner)
	}
	return []string{
		r.MatchID,
		formatTeam(r.MyTeam),
		strconv.Itoa(r.Team1Gold),
		strconv.Itoa(r.Team2Gold),
		strconv.Itoa(r.GoldDiff),
		formatTeam(r.GoldLeadingTeam),
		formatBool(r.MyTeamAheadGold),
		strconv.Itoa(r.Team1Kills),
		strconv.Itoa(r.Team2Kills),
		strconv.Itoa(r.KillDiff),
		formatTeam(r.KillLeadingTeam),
		formatBool(r.MyTeamAheadKills),
		formatBool(r.MyTeamWin),
		winner,
	}
}

// rowDecoder reads cells by column name so files with extra or reordered
// columns still load
type rowDecoder struct {
	index map[string]int
}

func newRowDecoder(header []string) (*rowDecoder, error) {
	d := &rowDecoder{index: make(map[string]int, len(header))}
	for i, name := range header {
		d.index[strings.TrimSpace(name)] = i
	}
	for _, col := range Columns {
		if _, ok := d.index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrCorruptDataset, col)
		}
	}
	return d, nil
}

func (d *rowDecoder) decode(row []string) (match.FeatureRecord, error) {
	var (
		r        match.FeatureRecord
		firstErr error
	)
	cell := func(col string) string {
		i := d.index[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}
	fail := func(col string, err error) {
		if firstErr == nil {
			firstErr = fmt.Errorf("%w: column %s: %v", ErrCorruptDataset, col, err)
		}
	}
	integer := func(col string) int {
		n, err := parseInt(cell(col))
		if err != nil {
			fail(col, err)
		}
		return n
	}
	boolean := func(col string) bool {
		b, err := parseBool(cell(col))
		if err != nil {
			fail(col, err)
		}
		return b
	}
	team := func(col string) match.TeamID {
		t, err := parseTeam(cell(col))
		if err != nil {
			fail(col, err)
		}
		return t
	}

	r.MatchID = strings.TrimSpace(cell("match_id"))
	if r.MatchID == "" {
		return r, fmt.Errorf("%w: empty match_id", ErrCorruptDataset)
	}
	r.MyTeam = team("my_team")
	r.Team1Gold = integer("team1_gold")
	r.Team2Gold = integer("team2_gold")
	r.GoldDiff = integer("gold_diff")
	r.GoldLeadingTeam = team("gold_leading_team")
	r.MyTeamAheadGold = boolean("my_team_ahead_gold")
	r.Team1Kills = integer("team1_kills")
	r.Team2Kills = integer("team2_kills")
	r.KillDiff = integer("kill_diff")
	r.KillLeadingTeam = team("kill_leading_team")
	r.MyTeamAheadKills = boolean("my_team_ahead_kills")
	r.MyTeamWin = boolean("my_team_win")
	r.Winner = team("winner")
	r.WinnerAnomaly = !r.Winner.Valid()

	if firstErr != nil {
		return match.FeatureRecord{}, fmt.Errorf("match %s: %w", r.MatchID, firstErr)
	}
	return r, nil
}

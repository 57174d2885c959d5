package dataset

import "match-analyzer/internal/match"

// Rate is a win count over a number of games
type Rate struct {
	Games int
	Wins  int
}

// Pct returns the win rate in percent, 0 for no games
func (r Rate) Pct() float64 {
	if r.Games == 0 {
		return 0
	}
	return 100 * float64(r.Wins) / float64(r.Games)
}

func (r *Rate) add(win bool) {
	r.Games++
	if win {
		r.Wins++
	}
}

// Split is the player's win rate by whether their team led a metric
type Split struct {
	Ahead  Rate
	Behind Rate
	// Even is a tie, or for objectives, nobody took it
	Even Rate
}

func (s *Split) add(leader, mine match.TeamID, win bool) {
	switch {
	case leader == match.TeamNone:
		s.Even.add(win)
	case leader == mine:
		s.Ahead.add(win)
	default:
		s.Behind.add(win)
	}
}

// Stats is a descriptive summary of a dataset
type Stats struct {
	Rows      int
	Overall   Rate
	Anomalies int
	Gold      Split
	Kills     Split

	// HasObjectives is false for datasets loaded from CSV, which does not
	// carry first-objective columns
	HasObjectives bool
	FirstTower    Split
	FirstDragon   Split
	FirstHerald   Split
}

// Summarize computes win rates when ahead, behind or even in gold and kills
// at the cutoff minute
func Summarize(d Dataset) Stats {
	var s Stats
	s.Rows = len(d)
	for _, r := range d {
		s.Overall.add(r.MyTeamWin)
		if r.WinnerAnomaly {
			s.Anomalies++
		}
		s.Gold.add(r.GoldLeadingTeam, r.MyTeam, r.MyTeamWin)
		s.Kills.add(r.KillLeadingTeam, r.MyTeam, r.MyTeamWin)

		o := r.Objectives
		if o.FirstTower.Valid() || o.FirstDragon.Valid() || o.FirstHerald.Valid() {
			s.HasObjectives = true
		}
		s.FirstTower.add(o.FirstTower, r.MyTeam, r.MyTeamWin)
		s.FirstDragon.add(o.FirstDragon, r.MyTeam, r.MyTeamWin)
		s.FirstHerald.add(o.FirstHerald, r.MyTeam, r.MyTeamWin)
	}
	return s
}

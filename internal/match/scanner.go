package match

import "fmt"

// TeamCounts is a per-side event count
type TeamCounts struct {
	Blue int
	Red  int
}

func (c *TeamCounts) add(team TeamID) bool {
	switch team {
	case TeamBlue:
		c.Blue++
	case TeamRed:
		c.Red++
	default:
		return false
	}
	return true
}

// EventTally is the attributed event count up to a cutoff minute
type EventTally struct {
	Kills         TeamCounts
	Buildings     TeamCounts
	EliteMonsters TeamCounts
	// Events that could not be attributed (environment kills, events
	// without a team)
	Discarded int
}

// Attribute returns the side an event counts for, or TeamNone when it must
// be discarded
func Attribute(e Event) TeamID {
	switch ev := e.(type) {
	case ChampionKill:
		return ev.KillerSlot.Team()
	case BuildingKill:
		return ev.Team
	case EliteMonsterKill:
		return ev.KillerTeam
	default:
		return TeamNone
	}
}

// ScanEvents walks every event in frames 0..minute (inclusive), frame order
// then event order, and attributes kills, building kills and elite monster
// kills to a side.
func ScanEvents(tl *Timeline, minute int) (EventTally, error) {
	var tally EventTally
	if minute < 0 || len(tl.Frames) <= minute {
		return tally, fmt.Errorf("%w: %d frames, need minute %d", ErrTimelineTooShort, len(tl.Frames), minute)
	}

	for _, frame := range tl.Frames[:minute+1] {
		for _, e := range frame.Events {
			var counts *TeamCounts
			switch e.(type) {
			case ChampionKill:
				counts = &tally.Kills
			case BuildingKill:
				counts = &tally.Buildings
			case EliteMonsterKill:
				counts = &tally.EliteMonsters
			default:
				continue
			}
			if !counts.add(Attribute(e)) {
				tally.Discarded++
			}
		}
	}
	return tally, nil
}

// Comparison is one metric compared across both sides
type Comparison struct {
	Blue int
	Red  int
	// Diff is relative to the subject team: own value minus opponent's
	Diff   int
	Leader TeamID
}

// Compare builds the subject-relative comparison of a per-side metric.
// Leader is TeamNone on a tie.
func Compare(blue, red int, subject TeamID) Comparison {
	c := Comparison{Blue: blue, Red: red}
	if subject == TeamRed {
		c.Diff = red - blue
	} else {
		c.Diff = blue - red
	}
	switch {
	case blue > red:
		c.Leader = TeamBlue
	case red > blue:
		c.Leader = TeamRed
	default:
		c.Leader = TeamNone
	}
	return c
}

// firstMatch returns the attributed team of the first event accepted by
// pred, scanning the whole timeline
func firstMatch(tl *Timeline, pred func(Event) bool) (TeamID, bool) {
	for _, frame := range tl.Frames {
		for _, e := range frame.Events {
			if pred(e) {
				team := Attribute(e)
				return team, team.Valid()
			}
		}
	}
	return TeamNone, false
}

// FirstTower returns the team field of the first tower destruction
func FirstTower(tl *Timeline) (TeamID, bool) {
	return firstMatch(tl, func(e Event) bool {
		b, ok := e.(BuildingKill)
		return ok && b.BuildingType == BuildingTower
	})
}

// FirstElite returns the killer team of the first elite monster of the given
// type (MonsterDragon, MonsterRiftHerald, ...)
func FirstElite(tl *Timeline, monsterType string) (TeamID, bool) {
	return firstMatch(tl, func(e Event) bool {
		m, ok := e.(EliteMonsterKill)
		return ok && m.MonsterType == monsterType
	})
}

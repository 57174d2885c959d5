package match

import (
	"errors"
	"fmt"
)

// SkipReason names an expected condition under which a match yields no record
type SkipReason string

const (
	SkipParticipantNotFound SkipReason = "participant not found"
	SkipTimelineShortGold   SkipReason = "timeline too short for gold"
	SkipTimelineShortKills  SkipReason = "timeline too short for kills"
	SkipPlayerRecordMissing SkipReason = "player record missing"
)

// SkipError is returned by Compose for expected, non-fatal conditions
type SkipError struct {
	MatchID string
	Reason  SkipReason
	Err     error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skip %s: %s", e.MatchID, e.Reason)
}

func (e *SkipError) Unwrap() error { return e.Err }

// AsSkip extracts the skip reason from err, if any
func AsSkip(err error) (SkipReason, bool) {
	var skip *SkipError
	if errors.As(err, &skip) {
		return skip.Reason, true
	}
	return "", false
}

// Objectives records which side took each first objective; TeamNone when it
// never happened
type Objectives struct {
	FirstTower  TeamID
	FirstDragon TeamID
	FirstHerald TeamID
}

// FeatureRecord is one dataset row
type FeatureRecord struct {
	MatchID          string
	MyTeam           TeamID
	Team1Gold        int
	Team2Gold        int
	GoldDiff         int
	GoldLeadingTeam  TeamID
	MyTeamAheadGold  bool
	Team1Kills       int
	Team2Kills       int
	KillDiff         int
	KillLeadingTeam  TeamID
	MyTeamAheadKills bool
	MyTeamWin        bool
	Winner           TeamID

	// WinnerAnomaly is set when the summary did not flag exactly one winner;
	// Winner is then TeamNone
	WinnerAnomaly bool
	Objectives    Objectives
}

// Composer builds FeatureRecords at a fixed minute
type Composer struct {
	Minute int
}

// NewComposer returns a composer at FeatureMinute
func NewComposer() Composer {
	return Composer{Minute: FeatureMinute}
}

// Compose derives the feature record for one match from the perspective of
// the player identified by puuid. Expected failures come back as *SkipError;
// anything else (ErrMalformedPayload) is a payload problem.
func (c Composer) Compose(matchID, puuid string, s *Summary, tl *Timeline) (FeatureRecord, error) {
	skip := func(reason SkipReason, err error) (FeatureRecord, error) {
		return FeatureRecord{}, &SkipError{MatchID: matchID, Reason: reason, Err: err}
	}

	seat, err := ResolveParticipant(s, puuid)
	switch {
	case errors.Is(err, ErrParticipantNotFound):
		return skip(SkipParticipantNotFound, err)
	case errors.Is(err, ErrPlayerRecordMissing):
		return skip(SkipPlayerRecordMissing, err)
	case err != nil:
		return FeatureRecord{}, err
	}

	myWin, err := PlayerWin(s, puuid)
	if err != nil {
		return skip(SkipPlayerRecordMissing, err)
	}

	blueGold, redGold, err := TeamGoldAt(tl, c.Minute)
	if errors.Is(err, ErrTimelineTooShort) {
		return skip(SkipTimelineShortGold, err)
	} else if err != nil {
		return FeatureRecord{}, fmt.Errorf("gold at minute %d: %w", c.Minute, err)
	}
	gold := Compare(blueGold, redGold, seat.Team)

	tally, err := ScanEvents(tl, c.Minute)
	if errors.Is(err, ErrTimelineTooShort) {
		return skip(SkipTimelineShortKills, err)
	} else if err != nil {
		return FeatureRecord{}, fmt.Errorf("events to minute %d: %w", c.Minute, err)
	}
	kills := Compare(tally.Kills.Blue, tally.Kills.Red, seat.Team)

	winner, ok := Winner(s)

	rec := FeatureRecord{
		MatchID:          matchID,
		MyTeam:           seat.Team,
		Team1Gold:        gold.Blue,
		Team2Gold:        gold.Red,
		GoldDiff:         gold.Diff,
		GoldLeadingTeam:  gold.Leader,
		MyTeamAheadGold:  gold.Leader == seat.Team,
		Team1Kills:       kills.Blue,
		Team2Kills:       kills.Red,
		KillDiff:         kills.Diff,
		KillLeadingTeam:  kills.Leader,
		MyTeamAheadKills: kills.Leader == seat.Team,
		MyTeamWin:        myWin,
		Winner:           winner,
		WinnerAnomaly:    !ok,
		Objectives:       objectives(tl),
	}
	return rec, nil
}

func objectives(tl *Timeline) Objectives {
	var o Objectives
	o.FirstTower, _ = FirstTower(tl)
	o.FirstDragon, _ = FirstElite(tl, MonsterDragon)
	o.FirstHerald, _ = FirstElite(tl, MonsterRiftHerald)
	return o
}

// Package match turns Match-V5 summary and timeline payloads into early-game
// team features.
package match

import (
	"errors"
	"strconv"
)

// TeamID identifies a side of the map
type TeamID int

const (
	// TeamNone is the neutral value: a tie, no event found, or no winner
	TeamNone TeamID = 0
	TeamBlue TeamID = 100
	TeamRed  TeamID = 200
)

// Valid reports whether t is one of the two playable sides
func (t TeamID) Valid() bool {
	return t == TeamBlue || t == TeamRed
}

func (t TeamID) String() string {
	switch t {
	case TeamBlue:
		return "100"
	case TeamRed:
		return "200"
	case TeamNone:
		return "none"
	default:
		return "team(" + strconv.Itoa(int(t)) + ")"
	}
}

// Slot is a 1-based participant seat. Slots 1-5 play blue, 6-10 play red.
type Slot int

const (
	SlotsPerTeam = 5
	MaxSlot      = 2 * SlotsPerTeam
)

// Team returns the side a slot plays on, or TeamNone for slot 0 and
// out-of-range values
func (s Slot) Team() TeamID {
	switch {
	case s >= 1 && s <= SlotsPerTeam:
		return TeamBlue
	case s > SlotsPerTeam && s <= MaxSlot:
		return TeamRed
	default:
		return TeamNone
	}
}

var (
	// ErrMalformedPayload marks a summary or timeline that is missing
	// required fields
	ErrMalformedPayload = errors.New("malformed payload")

	ErrParticipantNotFound = errors.New("participant not found in match")
	ErrPlayerRecordMissing = errors.New("player record missing from match info")
	ErrTimelineTooShort    = errors.New("timeline too short")
)

// Participant is one entry of the match summary
type Participant struct {
	PUUID string
	Team  TeamID
	Win   bool
}

// TeamResult is one entry of the summary's per-team block
type TeamResult struct {
	Team TeamID
	Win  bool
}

// Summary is the validated form of a Match-V5 match payload
type Summary struct {
	MatchID string
	// PUUIDs in participant order; index = slot - 1
	ParticipantIDs []string
	Participants   []Participant
	Teams          []TeamResult
}

// Frame is the cumulative state of a match at one minute
type Frame struct {
	Minute int
	Gold   map[Slot]int
	Events []Event
}

// Timeline is the validated form of a Match-V5 timeline payload
type Timeline struct {
	MatchID string
	Frames  []Frame
}

// Event is a timeline event. The concrete types are ChampionKill,
// BuildingKill, EliteMonsterKill and OtherEvent.
type Event interface {
	At() int
	isEvent()
}

// ChampionKill is a champion death. KillerSlot 0 means a turret or minion.
type ChampionKill struct {
	Timestamp  int
	KillerSlot Slot
	VictimSlot Slot
}

// BuildingKill is a destroyed structure. Team is the event's teamId field as
// the timeline reports it, TeamNone when the payload omitted it.
type BuildingKill struct {
	Timestamp    int
	Team         TeamID
	BuildingType string
}

// EliteMonsterKill is a dragon, herald, baron or grubs kill
type EliteMonsterKill struct {
	Timestamp   int
	KillerTeam  TeamID
	MonsterType string
}

// OtherEvent is any event the feature pipeline does not interpret
type OtherEvent struct {
	Timestamp int
	Type      string
}

func (e ChampionKill) At() int     { return e.Timestamp }
func (e BuildingKill) At() int     { return e.Timestamp }
func (e EliteMonsterKill) At() int { return e.Timestamp }
func (e OtherEvent) At() int       { return e.Timestamp }

func (ChampionKill) isEvent()     {}
func (BuildingKill) isEvent()     {}
func (EliteMonsterKill) isEvent() {}
func (OtherEvent) isEvent()       {}

// Building and monster type values as emitted by the timeline
const (
	BuildingTower     = "TOWER_BUILDING"
	BuildingInhibitor = "INHIBITOR_BUILDING"

	MonsterDragon     = "DRAGON"
	MonsterRiftHerald = "RIFTHERALD"
)

package match

import (
	"fmt"
	"strconv"

	"match-analyzer/internal/riot"
)

// ParseSummary validates a Match-V5 payload. A participant or team block
// without teamId/win is rejected here rather than during feature extraction.
func ParseSummary(m *riot.MatchResponse) (*Summary, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil match", ErrMalformedPayload)
	}
	if len(m.Metadata.Participants) == 0 {
		return nil, fmt.Errorf("%w: metadata.participants is empty", ErrMalformedPayload)
	}

	s := &Summary{
		MatchID:        m.Metadata.MatchID,
		ParticipantIDs: append([]string(nil), m.Metadata.Participants...),
		Participants:   make([]Participant, 0, len(m.Info.Participants)),
		Teams:          make([]TeamResult, 0, len(m.Info.Teams)),
	}

	for i, p := range m.Info.Participants {
		if p.TeamID == nil || p.Win == nil {
			return nil, fmt.Errorf("%w: info.participants[%d] missing teamId or win", ErrMalformedPayload, i)
		}
		team := TeamID(*p.TeamID)
		if !team.Valid() {
			return nil, fmt.Errorf("%w: info.participants[%d] has teamId %d", ErrMalformedPayload, i, *p.TeamID)
		}
		s.Participants = append(s.Participants, Participant{PUUID: p.PUUID, Team: team, Win: *p.Win})
	}

	for i, t := range m.Info.Teams {
		if t.TeamID == nil || t.Win == nil {
			return nil, fmt.Errorf("%w: info.teams[%d] missing teamId or win", ErrMalformedPayload, i)
		}
		s.Teams = append(s.Teams, TeamResult{Team: TeamID(*t.TeamID), Win: *t.Win})
	}

	return s, nil
}

// ParseTimeline validates a timeline payload. Frame k becomes minute k.
func ParseTimeline(t *riot.TimelineResponse) (*Timeline, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil timeline", ErrMalformedPayload)
	}

	tl := &Timeline{
		MatchID: t.Metadata.MatchID,
		Frames:  make([]Frame, len(t.Info.Frames)),
	}

	for i, raw := range t.Info.Frames {
		frame := Frame{
			Minute: i,
			Gold:   make(map[Slot]int, len(raw.ParticipantFrames)),
			Events: make([]Event, 0, len(raw.Events)),
		}

		for key, pf := range raw.ParticipantFrames {
			slot, err := strconv.Atoi(key)
			if err != nil || slot < 1 || slot > MaxSlot {
				return nil, fmt.Errorf("%w: frame %d has participant key %q", ErrMalformedPayload, i, key)
			}
			if pf.TotalGold == nil {
				return nil, fmt.Errorf("%w: frame %d participant %d missing totalGold", ErrMalformedPayload, i, slot)
			}
			frame.Gold[Slot(slot)] = *pf.TotalGold
		}

		for j, ev := range raw.Events {
			event, err := parseEvent(ev)
			if err != nil {
				return nil, fmt.Errorf("frame %d event %d: %w", i, j, err)
			}
			frame.Events = append(frame.Events, event)
		}

		tl.Frames[i] = frame
	}

	return tl, nil
}

func parseEvent(ev riot.TimelineEvent) (Event, error) {
	switch ev.Type {
	case riot.EventChampionKill:
		if ev.KillerID < 0 || ev.KillerID > MaxSlot {
			return nil, fmt.Errorf("%w: killerId %d out of range", ErrMalformedPayload, ev.KillerID)
		}
		return ChampionKill{
			Timestamp:  ev.Timestamp,
			KillerSlot: Slot(ev.KillerID),
			VictimSlot: Slot(ev.VictimID),
		}, nil
	case riot.EventBuildingKill:
		return BuildingKill{
			Timestamp:    ev.Timestamp,
			Team:         sideOrNone(ev.TeamID),
			BuildingType: ev.BuildingType,
		}, nil
	case riot.EventEliteMonsterKill:
		return EliteMonsterKill{
			Timestamp:   ev.Timestamp,
			KillerTeam:  sideOrNone(ev.KillerTeamID),
			MonsterType: ev.MonsterType,
		}, nil
	default:
		return OtherEvent{Timestamp: ev.Timestamp, Type: ev.Type}, nil
	}
}

// sideOrNone maps a raw team field to a side; absent or neutral values
// (0, 300) become TeamNone so the scanner discards them.
func sideOrNone(raw int) TeamID {
	if t := TeamID(raw); t.Valid() {
		return t
	}
	return TeamNone
}

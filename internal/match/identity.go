package match

// Seat is where a player sat in one match
type Seat struct {
	Slot Slot
	Team TeamID
}

// ResolveParticipant finds the player's slot from the metadata participant
// order and the team from the matching info.participants entry.
//
// ErrParticipantNotFound means the PUUID is not in this match (stale id or a
// remake); callers skip the match.
func ResolveParticipant(s *Summary, puuid string) (Seat, error) {
	for i, id := range s.ParticipantIDs {
		if id != puuid {
			continue
		}
		if i >= len(s.Participants) {
			return Seat{}, ErrPlayerRecordMissing
		}
		return Seat{Slot: Slot(i + 1), Team: s.Participants[i].Team}, nil
	}
	return Seat{}, ErrParticipantNotFound
}

// PlayerWin returns the win flag of the info.participants entry whose puuid
// matches
func PlayerWin(s *Summary, puuid string) (bool, error) {
	for _, p := range s.Participants {
		if p.PUUID == puuid {
			return p.Win, nil
		}
	}
	return false, ErrPlayerRecordMissing
}

// Winner returns the one team flagged as winner. ok is false when zero or
// several teams claim the win.
func Winner(s *Summary) (team TeamID, ok bool) {
	winners := 0
	for _, t := range s.Teams {
		if t.Win {
			team = t.Team
			winners++
		}
	}
	if winners != 1 || !team.Valid() {
		return TeamNone, false
	}
	return team, true
}

package match

import "fmt"

// testSummary builds a ten-player summary with PUUIDs P1..P10, slots 1-5 on
// blue, and the given side winning
func testSummary(winner TeamID) *Summary {
	s := &Summary{MatchID: "LA1_1"}
	for i := 1; i <= MaxSlot; i++ {
		id := fmt.Sprintf("P%d", i)
		team := Slot(i).Team()
		s.ParticipantIDs = append(s.ParticipantIDs, id)
		s.Participants = append(s.Participants, Participant{PUUID: id, Team: team, Win: team == winner})
	}
	s.Teams = []TeamResult{
		{Team: TeamBlue, Win: winner == TeamBlue},
		{Team: TeamRed, Win: winner == TeamRed},
	}
	return s
}

// testTimeline builds frames 0..n-1 where every slot holds gold[slot] at
// every minute
func testTimeline(n int, gold map[Slot]int) *Timeline {
	tl := &Timeline{MatchID: "LA1_1"}
	for m := 0; m < n; m++ {
		frame := Frame{Minute: m, Gold: make(map[Slot]int, MaxSlot)}
		for slot := Slot(1); slot <= MaxSlot; slot++ {
			frame.Gold[slot] = gold[slot]
		}
		tl.Frames = append(tl.Frames, frame)
	}
	return tl
}

func flatGold(blueEach, redEach int) map[Slot]int {
	gold := make(map[Slot]int, MaxSlot)
	for slot := Slot(1); slot <= MaxSlot; slot++ {
		if slot.Team() == TeamBlue {
			gold[slot] = blueEach
		} else {
			gold[slot] = redEach
		}
	}
	return gold
}

func withEvents(tl *Timeline, minute int, events ...Event) *Timeline {
	tl.Frames[minute].Events = append(tl.Frames[minute].Events, events...)
	return tl
}

// scenarioGold is the minute-10 gold of the P3 scenario: blue 7000, red 5500
var scenarioGold = map[Slot]int{
	1: 1500, 2: 1400, 3: 1600, 4: 1300, 5: 1200,
	6: 1000, 7: 1100, 8: 1050, 9: 1200, 10: 1150,
}

package match

import "fmt"

// FeatureMinute is the early-game cutoff the dataset is built at
const FeatureMinute = 10

// frameAt returns the frame for minute, which exists only when
// len(frames) > minute
func frameAt(tl *Timeline, minute int) (*Frame, error) {
	if minute < 0 || len(tl.Frames) <= minute {
		return nil, fmt.Errorf("%w: %d frames, need minute %d", ErrTimelineTooShort, len(tl.Frames), minute)
	}
	return &tl.Frames[minute], nil
}

// ParticipantGoldAt returns one participant's cumulative gold at minute
func ParticipantGoldAt(tl *Timeline, minute int, slot Slot) (int, error) {
	frame, err := frameAt(tl, minute)
	if err != nil {
		return 0, err
	}
	gold, ok := frame.Gold[slot]
	if !ok {
		return 0, fmt.Errorf("%w: minute %d has no gold for slot %d", ErrMalformedPayload, minute, slot)
	}
	return gold, nil
}

// TeamGoldAt sums cumulative gold per side at minute
func TeamGoldAt(tl *Timeline, minute int) (blue, red int, err error) {
	for slot := Slot(1); slot <= MaxSlot; slot++ {
		gold, err := ParticipantGoldAt(tl, minute, slot)
		if err != nil {
			return 0, 0, err
		}
		if slot.Team() == TeamBlue {
			blue += gold
		} else {
			red += gold
		}
	}
	return blue, red, nil
}

package riot

import "fmt"

// AccountResponse represents the response from /riot/account/v1/accounts/by-riot-id
type AccountResponse struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// RiotID returns the display form "gameName#tagLine"
func (a AccountResponse) RiotID() string {
	return fmt.Sprintf("%s#%s", a.GameName, a.TagLine)
}

// MatchResponse represents the response from /lol/match/v5/matches/{matchId}
type MatchResponse struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs, index = participantId - 1
}

type MatchInfo struct {
	GameCreation int64              `json:"gameCreation"`
	GameDuration int                `json:"gameDuration"`
	GameVersion  string             `json:"gameVersion"`
	QueueID      int                `json:"queueId"`
	Participants []MatchParticipant `json:"participants"`
	Teams        []MatchTeam        `json:"teams"`
}

type MatchParticipant struct {
	ParticipantID  int    `json:"participantId"`
	PUUID          string `json:"puuid"`
	RiotIdGameName string `json:"riotIdGameName"`
	RiotIdTagline  string `json:"riotIdTagline"`
	ChampionID     int    `json:"championId"`
	ChampionName   string `json:"championName"`
	TeamPosition   string `json:"teamPosition"` // TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY
	TeamID         *int   `json:"teamId"`       // 100 or 200
	Win            *bool  `json:"win"`
}

// MatchTeam is one entry of info.teams
type MatchTeam struct {
	TeamID *int  `json:"teamId"`
	Win    *bool `json:"win"`
}

// TimelineResponse represents the response from /lol/match/v5/matches/{matchId}/timeline
type TimelineResponse struct {
	Metadata TimelineMetadata `json:"metadata"`
	Info     TimelineInfo     `json:"info"`
}

type TimelineMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type TimelineInfo struct {
	FrameInterval int             `json:"frameInterval"`
	Frames        []TimelineFrame `json:"frames"`
}

// TimelineFrame is one minute snapshot. ParticipantFrames is keyed by the
// participant id as a string ("1".."10").
type TimelineFrame struct {
	Timestamp         int                         `json:"timestamp"`
	ParticipantFrames map[string]ParticipantFrame `json:"participantFrames"`
	Events            []TimelineEvent             `json:"events"`
}

// ParticipantFrame holds the cumulative state of one participant
type ParticipantFrame struct {
	ParticipantID int  `json:"participantId"`
	TotalGold     *int `json:"totalGold"`
	CurrentGold   int  `json:"currentGold"`
	Level         int  `json:"level"`
	XP            int  `json:"xp"`
}

// TimelineEvent is the flat union of every event shape the timeline emits.
// Only the fields used by the feature pipeline are decoded.
type TimelineEvent struct {
	Type          string `json:"type"`
	Timestamp     int    `json:"timestamp"`
	ParticipantID int    `json:"participantId,omitempty"`

	// CHAMPION_KILL
	KillerID   int `json:"killerId,omitempty"`
	VictimID   int `json:"victimId,omitempty"`
	Bounty     int `json:"bounty,omitempty"`
	KillStreak int `json:"killStreakLength,omitempty"`

	// BUILDING_KILL
	TeamID       int    `json:"teamId,omitempty"`
	BuildingType string `json:"buildingType,omitempty"`
	LaneType     string `json:"laneType,omitempty"`
	TowerType    string `json:"towerType,omitempty"`

	// ELITE_MONSTER_KILL
	KillerTeamID   int    `json:"killerTeamId,omitempty"`
	MonsterType    string `json:"monsterType,omitempty"`
	MonsterSubType string `json:"monsterSubType,omitempty"`
}

// Timeline event types
const (
	EventChampionKill     = "CHAMPION_KILL"
	EventBuildingKill     = "BUILDING_KILL"
	EventEliteMonsterKill = "ELITE_MONSTER_KILL"
)

// LeagueEntryResponse represents a ranked league entry from /lol/league/v4/entries
type LeagueEntryResponse struct {
	LeagueID     string `json:"leagueId"`
	PUUID        string `json:"puuid"`
	QueueType    string `json:"queueType"` // RANKED_SOLO_5x5, RANKED_FLEX_SR
	Tier         string `json:"tier"`      // IRON, BRONZE, SILVER, GOLD, PLATINUM, EMERALD, DIAMOND, MASTER, GRANDMASTER, CHALLENGER
	Rank         string `json:"rank"`      // I, II, III, IV
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// LeagueListResponse represents /lol/league/v4/{challenger,grandmaster}leagues/by-queue
type LeagueListResponse struct {
	LeagueID string               `json:"leagueId"`
	Tier     string               `json:"tier"`
	Queue    string               `json:"queue"`
	Entries  []LeagueItemResponse `json:"entries"`
}

type LeagueItemResponse struct {
	PUUID        string `json:"puuid"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// Tier order for comparison (higher index = higher rank)
var TierOrder = map[string]int{
	"IRON":        0,
	"BRONZE":      1,
	"SILVER":      2,
	"GOLD":        3,
	"PLATINUM":    4,
	"EMERALD":     5,
	"DIAMOND":     6,
	"MASTER":      7,
	"GRANDMASTER": 8,
	"CHALLENGER":  9,
}

// Division order (higher index = higher rank within tier)
var DivisionOrder = map[string]int{
	"IV":  0,
	"III": 1,
	"II":  2,
	"I":   3,
}

// IsApexTier reports whether the tier is Master or above. Apex tiers have no
// divisions and are served by dedicated league endpoints.
func IsApexTier(tier string) bool {
	idx, ok := TierOrder[tier]
	return ok && idx >= TierOrder["MASTER"]
}

// ValidateLadder checks a tier/division pair before it is sent to League-V4
func ValidateLadder(tier, division string) error {
	if _, ok := TierOrder[tier]; !ok {
		return fmt.Errorf("unknown tier %q", tier)
	}
	if IsApexTier(tier) {
		return nil
	}
	if _, ok := DivisionOrder[division]; !ok {
		return fmt.Errorf("tier %s needs a division (I-IV), got %q", tier, division)
	}
	return nil
}

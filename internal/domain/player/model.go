package player

import (
	"fmt"
	"strings"
)

// Position is the canonical label derived from the upstream element_type code.
type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefender   Position = "Defender"
	PositionMidfielder Position = "Midfielder"
	PositionForward    Position = "Forward"
	PositionUnknown    Position = "Unknown"
)

// StatusAvailable is the upstream availability code for a selectable player.
const StatusAvailable = "a"

var positionByElementType = map[int]Position{
	1: PositionGoalkeeper,
	2: PositionDefender,
	3: PositionMidfielder,
	4: PositionForward,
}

var elementTypeByLabel = map[string]int{
	"goalkeeper": 1,
	"defender":   2,
	"midfielder": 3,
	"forward":    4,
}

// PositionFromElementType never fails; unrecognized codes map to PositionUnknown.
func PositionFromElementType(code int) Position {
	if position, ok := positionByElementType[code]; ok {
		return position
	}
	return PositionUnknown
}

// ElementTypeFromLabel resolves a canonical position label, case-insensitive.
func ElementTypeFromLabel(label string) (int, bool) {
	code, ok := elementTypeByLabel[strings.ToLower(strings.TrimSpace(label))]
	return code, ok
}

// Player is the typed view of one upstream element record.
type Player struct {
	ID                       int     `json:"id"`
	Code                     int     `json:"code"`
	ElementType              int     `json:"element_type"`
	EventPoints              int     `json:"event_points"`
	FirstName                string  `json:"first_name"`
	SecondName               string  `json:"second_name"`
	WebName                  string  `json:"web_name"`
	Team                     int     `json:"team"`
	TeamCode                 int     `json:"team_code"`
	NowCost                  int     `json:"now_cost"`
	TotalPoints              int     `json:"total_points"`
	Minutes                  int     `json:"minutes"`
	GoalsScored              int     `json:"goals_scored"`
	Assists                  int     `json:"assists"`
	CleanSheets              int     `json:"clean_sheets"`
	GoalsConceded            int     `json:"goals_conceded"`
	OwnGoals                 int     `json:"own_goals"`
	PenaltiesSaved           int     `json:"penalties_saved"`
	PenaltiesMissed          int     `json:"penalties_missed"`
	YellowCards              int     `json:"yellow_cards"`
	RedCards                 int     `json:"red_cards"`
	Saves                    int     `json:"saves"`
	Bonus                    int     `json:"bonus"`
	BPS                      int     `json:"bps"`
	Form                     string  `json:"form"`
	PointsPerGame            string  `json:"points_per_game"`
	SelectedByPercent        string  `json:"selected_by_percent"`
	Influence                string  `json:"influence"`
	Creativity               string  `json:"creativity"`
	Threat                   string  `json:"threat"`
	ICTIndex                 string  `json:"ict_index"`
	ChanceOfPlayingThisRound *int    `json:"chance_of_playing_this_round"`
	ChanceOfPlayingNextRound *int    `json:"chance_of_playing_next_round"`
	EPNext                   string  `json:"ep_next"`
	EPThis                   string  `json:"ep_this"`
	Status                   string  `json:"status"`
	News                     string  `json:"news"`
	NewsAdded                *string `json:"news_added"`
}

// Position resolves the canonical label for the player's element_type code.
func (p Player) Position() Position {
	return PositionFromElementType(p.ElementType)
}

// Cost converts now_cost from tenths of a million to millions.
func (p Player) Cost() float64 {
	return float64(p.NowCost) / 10.0
}

// DisplayName prefers the upstream web name, falling back to first and second name.
func (p Player) DisplayName() string {
	if name := strings.TrimSpace(p.WebName); name != "" {
		return name
	}
	return strings.TrimSpace(p.FirstName + " " + p.SecondName)
}

// PriceLabel renders the player as "name (X.Xm)".
func (p Player) PriceLabel() string {
	return fmt.Sprintf("%s (%.1fm)", p.DisplayName(), p.Cost())
}

// Schema maps each queryable field to its primitive type. The table is
// hand-maintained because filter coercion and introspection depend on it.
func Schema() map[string]string {
	return map[string]string{
		"id":                           "int",
		"code":                         "int",
		"element_type":                 "int",
		"event_points":                 "int",
		"first_name":                   "string",
		"second_name":                  "string",
		"web_name":                     "string",
		"team":                         "int",
		"team_code":                    "int",
		"now_cost":                     "int",
		"total_points":                 "int",
		"minutes":                      "int",
		"goals_scored":                 "int",
		"assists":                      "int",
		"clean_sheets":                 "int",
		"goals_conceded":               "int",
		"own_goals":                    "int",
		"penalties_saved":              "int",
		"penalties_missed":             "int",
		"yellow_cards":                 "int",
		"red_cards":                    "int",
		"saves":                        "int",
		"bonus":                        "int",
		"bps":                          "int",
		"form":                         "string",
		"points_per_game":              "string",
		"selected_by_percent":          "string",
		"influence":                    "string",
		"creativity":                   "string",
		"threat":                       "string",
		"ict_index":                    "string",
		"chance_of_playing_this_round": "int",
		"chance_of_playing_next_round": "int",
		"ep_next":                      "string",
		"ep_this":                      "string",
		"status":                       "string",
		"news":                         "string",
		"news_added":                   "string",
	}
}

package fixture

// Fixture is the typed view of one upstream fixture record. Scores and the
// gameweek reference stay nullable until the match is scheduled or played.
type Fixture struct {
	ID                   int     `json:"id"`
	Code                 int     `json:"code"`
	Event                *int    `json:"event"`
	Finished             bool    `json:"finished"`
	FinishedProvisional  bool    `json:"finished_provisional"`
	KickoffTime          *string `json:"kickoff_time"`
	Minutes              int     `json:"minutes"`
	ProvisionalStartTime bool    `json:"provisional_start_time"`
	Started              *bool   `json:"started"`
	TeamA                int     `json:"team_a"`
	TeamAScore           *int    `json:"team_a_score"`
	TeamH                int     `json:"team_h"`
	TeamHScore           *int    `json:"team_h_score"`
	TeamHDifficulty      int     `json:"team_h_difficulty"`
	TeamADifficulty      int     `json:"team_a_difficulty"`
	PulseID              int     `json:"pulse_id"`
}

// HasResult reports whether the fixture finished with both scores present.
func (f Fixture) HasResult() bool {
	return f.Finished && f.TeamHScore != nil && f.TeamAScore != nil
}

// Schema maps each queryable field to its primitive type.
func Schema() map[string]string {
	return map[string]string{
		"id":                "int",
		"code":              "int",
		"event":             "int",
		"finished":          "bool",
		"kickoff_time":      "string",
		"minutes":           "int",
		"started":           "bool",
		"team_a":            "int",
		"team_a_score":      "int",
		"team_h":            "int",
		"team_h_score":      "int",
		"team_h_difficulty": "int",
		"team_a_difficulty": "int",
		"pulse_id":          "int",
	}
}

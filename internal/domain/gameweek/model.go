package gameweek

// Gameweek is the typed view of one upstream event record.
type Gameweek struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	DeadlineTime      string  `json:"deadline_time"`
	DeadlineTimeEpoch int64   `json:"deadline_time_epoch"`
	Finished          bool    `json:"finished"`
	DataChecked       bool    `json:"data_checked"`
	IsPrevious        bool    `json:"is_previous"`
	IsCurrent         bool    `json:"is_current"`
	IsNext            bool    `json:"is_next"`
	AverageEntryScore int     `json:"average_entry_score"`
	HighestScore      *int    `json:"highest_score"`
	MostSelected      *int    `json:"most_selected"`
	MostTransferredIn *int    `json:"most_transferred_in"`
	MostCaptained     *int    `json:"most_captained"`
	TopElement        *int    `json:"top_element"`
	TransfersMade     int     `json:"transfers_made"`
	ChipPlays         []Chips `json:"chip_plays"`
}

type Chips struct {
	ChipName  string `json:"chip_name"`
	NumPlayed int    `json:"num_played"`
}

// Schema maps each queryable field to its primitive type.
func Schema() map[string]string {
	return map[string]string{
		"id":                  "int",
		"name":                "string",
		"deadline_time":       "string",
		"deadline_time_epoch": "int",
		"finished":            "bool",
		"data_checked":        "bool",
		"is_previous":         "bool",
		"is_current":          "bool",
		"is_next":             "bool",
		"average_entry_score": "int",
		"highest_score":       "int",
		"transfers_made":      "int",
	}
}

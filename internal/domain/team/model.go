package team

// Team is the typed view of one upstream team record.
type Team struct {
	ID                  int    `json:"id"`
	Code                int    `json:"code"`
	Name                string `json:"name"`
	ShortName           string `json:"short_name"`
	Strength            int    `json:"strength"`
	StrengthOverallHome int    `json:"strength_overall_home"`
	StrengthOverallAway int    `json:"strength_overall_away"`
	StrengthAttackHome  int    `json:"strength_attack_home"`
	StrengthAttackAway  int    `json:"strength_attack_away"`
	StrengthDefenceHome int    `json:"strength_defence_home"`
	StrengthDefenceAway int    `json:"strength_defence_away"`
	PulseID             int    `json:"pulse_id"`
}

// Schema maps each queryable field to its primitive type.
func Schema() map[string]string {
	return map[string]string{
		"id":                    "int",
		"code":                  "int",
		"name":                  "string",
		"short_name":            "string",
		"strength":              "int",
		"strength_overall_home": "int",
		"strength_overall_away": "int",
		"strength_attack_home":  "int",
		"strength_attack_away":  "int",
		"strength_defence_home": "int",
		"strength_defence_away": "int",
		"pulse_id":              "int",
	}
}

package model

// LeaderboardRow is a read-time derivation over submission state: solved
// count descending, then total time ascending. Exact ties keep a stable
// order.
type LeaderboardRow struct {
	Rank              int     `json:"rank"`
	Name              string  `json:"name"`
	College           string  `json:"college"`
	SystemNumber      string  `json:"system_number"`
	SolvedCount       int     `json:"solved_count"`
	TotalTimeSeconds  float64 `json:"total_time"`
	TotalWrongAttempts int    `json:"total_wrong"`
}

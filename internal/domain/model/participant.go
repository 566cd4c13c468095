package model

import "time"

type Participant struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	College      string     `json:"college"`
	SystemNumber string     `json:"system_number"`
	Phone        string     `json:"phone"`
	LoginTime    time.Time  `json:"login_time"`
	Submitted    bool       `json:"submitted"`
	SubmitTime   *time.Time `json:"submit_time,omitempty"`
}

// ParticipantOverview is the admin monitoring view: the participant row plus
// their solved count.
type ParticipantOverview struct {
	Participant
	SolvedCount int `json:"solved_count"`
}

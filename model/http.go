package model

type TimelineResponse struct {
	Id        string  `json:"id"`
	BPM       float64 `json:"bpm"`
	Players   int     `json:"players"`
	Measures  int     `json:"measures"`
	Documents any     `json:"documents"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

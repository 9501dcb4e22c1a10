package models

// StationList is the server's response for a listing request
type StationList struct {
	Stations   []*Station `json:"stations"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// ErrorResponse is the body of every non-2xx server response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

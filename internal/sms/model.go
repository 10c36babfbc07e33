package sms

type Request struct {
	Destination string `json:"destination"`
	Text        string `json:"text"`
}

type Result struct {
	Destination string   `json:"destination"`
	Segments    []string `json:"segments"`
	// Sent counts the segments the pager accepted.
	Sent int `json:"sent"`
	// MessageID identifies the stored outbound copy, if one was kept.
	MessageID string `json:"message_id,omitempty"`
}

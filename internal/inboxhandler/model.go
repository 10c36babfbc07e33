package inboxhandler

import "time"

type MessageSummary struct {
	Ordinal    int       `json:"ordinal"`
	ID         string    `json:"id"`
	Direction  string    `json:"direction"`
	Size       int       `json:"size"`
	ReceivedAt time.Time `json:"received_at"`
	Subject    string    `json:"subject"`
	From       string    `json:"from"`
	Text       string    `json:"text"`
}

type SendSMSReq struct {
	Destination string `json:"destination"`
	Text        string `json:"text"`
}

type SendSMSResp struct {
	Destination string `json:"destination"`
	Segments    int    `json:"segments"`
	MessageID   string `json:"message_id,omitempty"`
}

package inboxhandler

import (
	"bytes"
	"unicode/utf8"

	"github.com/OliverSchlueter/smsgate/internal/gsm"
	"github.com/OliverSchlueter/smsgate/internal/messages"
	"golang.org/x/text/encoding/charmap"
)

var (
	headerEnd     = []byte("\r\n\r\n")
	subjectMarker = []byte("Subject: ")
	fromMarker    = []byte("From: ")
)

func summarize(ordinal int, msg *messages.Message) MessageSummary {
	head, body := splitMessage(msg.Bytes())

	return MessageSummary{
		Ordinal:    ordinal,
		ID:         msg.ID,
		Direction:  string(msg.Direction),
		Size:       msg.Len(),
		ReceivedAt: msg.ReceivedAt,
		Subject:    headerValue(head, subjectMarker),
		From:       headerValue(head, fromMarker),
		Text:       gsm.DecodeString(body),
	}
}

// splitMessage separates the header block from the body. Without a blank
// line the whole message counts as header.
func splitMessage(raw []byte) (head, body []byte) {
	i := bytes.Index(raw, headerEnd)
	if i < 0 {
		return raw, nil
	}
	return raw[:i+2], raw[i+len(headerEnd):]
}

// headerValue returns the printable run following marker at the start of a
// header line. Bytes that are not valid UTF-8 are read as ISO-8859-1.
func headerValue(head, marker []byte) string {
	start := -1
	for i := 0; i+len(marker) <= len(head); {
		if bytes.HasPrefix(head[i:], marker) {
			start = i + len(marker)
			break
		}
		next := bytes.IndexByte(head[i:], '\n')
		if next < 0 {
			break
		}
		i += next + 1
	}
	if start < 0 {
		return ""
	}

	end := start
	for end < len(head) && printable(head[end]) {
		end++
	}
	value := head[start:end]

	if utf8.Valid(value) {
		return string(value)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(value)
	if err != nil {
		return ""
	}
	return string(decoded)
}

func printable(b byte) bool {
	return b >= 0x20 && b != 0x7F
}

package sms

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/OliverSchlueter/goutils/sloki"
	"github.com/OliverSchlueter/smsgate/internal/gsm"
	"github.com/OliverSchlueter/smsgate/internal/messages"
	"github.com/OliverSchlueter/smsgate/internal/metrics"
	"github.com/OliverSchlueter/smsgate/internal/pager"
)

type Gateway struct {
	pager       pager.Pager
	store       *messages.Store
	hostname    string
	maxUnits    int
	storeCopies bool
}

type Configuration struct {
	Pager    pager.Pager
	Store    *messages.Store
	Hostname string
	MaxUnits int
	// StoreCopies keeps every fully paged request in the store as an
	// outbound message.
	StoreCopies bool
}

func NewGateway(config Configuration) *Gateway {
	if config.MaxUnits <= 0 {
		config.MaxUnits = DefaultMaxUnits
	}
	if config.Pager == nil {
		config.Pager = pager.LogPager{}
	}

	return &Gateway{
		pager:       config.Pager,
		store:       config.Store,
		hostname:    config.Hostname,
		maxUnits:    config.MaxUnits,
		storeCopies: config.StoreCopies,
	}
}

// Send pages req.Text to req.Destination one segment at a time, in order,
// and stops at the first segment the pager refuses.
func (g *Gateway) Send(ctx context.Context, req Request) (Result, error) {
	destination := strings.TrimSpace(req.Destination)
	if !ValidDestination(destination) {
		metrics.SMSRequestsTotal.WithLabelValues("invalid").Inc()
		return Result{}, ErrInvalidDestination
	}

	text := gsm.Sanitize(req.Text)
	if text == "" {
		metrics.SMSRequestsTotal.WithLabelValues("invalid").Inc()
		return Result{}, ErrEmptyText
	}

	result := Result{
		Destination: destination,
		Segments:    Split(text, g.maxUnits),
	}

	for i, segment := range result.Segments {
		if err := g.pager.Page(ctx, destination, segment); err != nil {
			metrics.SMSRequestsTotal.WithLabelValues("failed").Inc()
			slog.Warn("Pager refused segment", "destination", destination, "segment", i+1, "segments", len(result.Segments), sloki.WrapError(err))
			return result, fmt.Errorf("failed to page segment %d of %d: %w", i+1, len(result.Segments), err)
		}
		result.Sent++
		metrics.SMSSegmentsTotal.Inc()
	}

	metrics.SMSRequestsTotal.WithLabelValues("sent").Inc()
	slog.Info("SMS sent", "destination", destination, "segments", result.Sent)

	if g.storeCopies && g.store != nil {
		id, err := g.storeCopy(destination, text)
		if err != nil {
			slog.Warn("Failed to store outbound copy", "destination", destination, sloki.WrapError(err))
		} else {
			result.MessageID = id
		}
	}

	return result, nil
}

// storeCopy keeps the request as a mail whose body is the base64 transport
// form of the encoded text.
func (g *Gateway) storeCopy(destination, text string) (string, error) {
	msg := g.store.Create()
	msg.Direction = messages.Outbound

	var b strings.Builder
	fmt.Fprintf(&b, "From: smsgate@%s\r\n", g.hostname)
	fmt.Fprintf(&b, "To: %s\r\n", destination)
	fmt.Fprintf(&b, "Subject: SMS to %s\r\n", destination)
	b.WriteString("\r\n")
	b.WriteString(gsm.EncodeBase64(gsm.Encode(text)))

	if err := g.store.Write(msg, []byte(b.String())); err != nil {
		_ = g.store.Delete(msg)
		metrics.MessagesDiscarded.WithLabelValues("too_large").Inc()
		return "", err
	}
	if err := g.store.Insert(msg); err != nil {
		_ = g.store.Delete(msg)
		return "", err
	}
	return msg.ID, nil
}

// ValidDestination accepts a non-empty run of digits with an optional
// leading plus sign.
func ValidDestination(destination string) bool {
	digits := strings.TrimPrefix(destination, "+")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

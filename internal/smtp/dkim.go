package smtp

import (
	"bytes"
	"log/slog"

	"github.com/OliverSchlueter/goutils/sloki"
	"github.com/OliverSchlueter/smsgate/internal/messages"
	"github.com/OliverSchlueter/smsgate/internal/metrics"
	"github.com/emersion/go-msgauth/dkim"
)

// VerifyDKIM checks every DKIM-Signature header of raw. A message without
// signatures yields an empty slice.
func VerifyDKIM(raw []byte, lookupTXT func(domain string) ([]string, error)) ([]*dkim.Verification, error) {
	if lookupTXT == nil {
		return dkim.Verify(bytes.NewReader(raw))
	}

	return dkim.VerifyWithOptions(bytes.NewReader(raw), &dkim.VerifyOptions{
		LookupTXT: lookupTXT,
	})
}

// DKIMResult summarizes verifications as "none", "pass" or "fail".
func DKIMResult(verifications []*dkim.Verification) string {
	if len(verifications) == 0 {
		return "none"
	}
	for _, v := range verifications {
		if v.Err != nil {
			return "fail"
		}
	}
	return "pass"
}

func (s *Server) checkDKIM(msg *messages.Message) {
	verifications, err := VerifyDKIM(msg.Bytes(), s.lookupTXT)
	if err != nil {
		metrics.DKIMVerifications.WithLabelValues("error").Inc()
		slog.Warn("Failed to verify DKIM signatures", "message_id", msg.ID, sloki.WrapError(err))
		return
	}

	result := DKIMResult(verifications)
	metrics.DKIMVerifications.WithLabelValues(result).Inc()

	for _, v := range verifications {
		if v.Err != nil {
			slog.Warn("DKIM signature invalid", "message_id", msg.ID, "domain", v.Domain, sloki.WrapError(v.Err))
			continue
		}
		slog.Info("DKIM signature valid", "message_id", msg.ID, "domain", v.Domain)
	}
}

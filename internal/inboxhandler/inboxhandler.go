package inboxhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/OliverSchlueter/goutils/problems"
	"github.com/OliverSchlueter/goutils/sloki"
	"github.com/OliverSchlueter/smsgate/internal/gsm"
	"github.com/OliverSchlueter/smsgate/internal/messages"
	"github.com/OliverSchlueter/smsgate/internal/sms"
	"github.com/gorilla/mux"
)

type Handler struct {
	store   *messages.Store
	gateway *sms.Gateway
}

func New(store *messages.Store, gateway *sms.Gateway) *Handler {
	return &Handler{
		store:   store,
		gateway: gateway,
	}
}

func (h *Handler) Register(prefix string, router *mux.Router) {
	router.HandleFunc(prefix+"/messages", h.handleMessages)
	router.HandleFunc(prefix+"/messages/{ordinal}", h.handleMessage)
	router.HandleFunc(prefix+"/messages/{ordinal}/raw", h.handleRaw)
	router.HandleFunc(prefix+"/messages/{ordinal}/text", h.handleText)
	router.HandleFunc(prefix+"/sms", h.handleSMS)
}

func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getMessages(w, r)
	default:
		problems.MethodNotAllowed(r.Method, []string{http.MethodGet}).WriteToHTTP(w)
	}
}

func (h *Handler) getMessages(w http.ResponseWriter, r *http.Request) {
	list := h.store.List()
	summaries := make([]MessageSummary, 0, len(list))
	for i, msg := range list {
		summaries = append(summaries, summarize(i+1, msg))
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getMessage(w, r)
	case http.MethodDelete:
		h.deleteMessage(w, r)
	default:
		problems.MethodNotAllowed(r.Method, []string{http.MethodGet, http.MethodDelete}).WriteToHTTP(w)
	}
}

func (h *Handler) getMessage(w http.ResponseWriter, r *http.Request) {
	n, msg, ok := h.lookup(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, summarize(n, msg))
}

func (h *Handler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	n, ok := ordinal(w, r)
	if !ok {
		return
	}

	msg, err := h.store.DeleteNth(n)
	if err != nil {
		if errors.Is(err, messages.ErrMessageNotFound) {
			problems.NotFound("message", strconv.Itoa(n)).WriteToHTTP(w)
			return
		}
		problems.InternalServerError(err.Error()).WriteToHTTP(w)
		return
	}

	slog.Info("Message deleted", "message_id", msg.ID, "ordinal", n)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRaw(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		_, msg, ok := h.lookup(w, r)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "message/rfc822")
		w.WriteHeader(http.StatusOK)
		w.Write(msg.Bytes())
	default:
		problems.MethodNotAllowed(r.Method, []string{http.MethodGet}).WriteToHTTP(w)
	}
}

func (h *Handler) handleText(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getText(w, r)
	default:
		problems.MethodNotAllowed(r.Method, []string{http.MethodGet}).WriteToHTTP(w)
	}
}

// getText decodes the body from its base64 transport form into the
// requested display charset.
func (h *Handler) getText(w http.ResponseWriter, r *http.Request) {
	charset := strings.ToLower(r.URL.Query().Get("charset"))
	if charset != "" && charset != "utf-8" && charset != "iso-8859-1" {
		problems.ValidationError("charset", "Supported charsets are utf-8 and iso-8859-1").WriteToHTTP(w)
		return
	}

	_, msg, ok := h.lookup(w, r)
	if !ok {
		return
	}
	_, body := splitMessage(msg.Bytes())

	if charset == "iso-8859-1" {
		w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
		w.WriteHeader(http.StatusOK)
		w.Write(gsm.DecodeLatin1(body))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(gsm.DecodeString(body)))
}

func (h *Handler) handleSMS(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.sendSMS(w, r)
	default:
		problems.MethodNotAllowed(r.Method, []string{http.MethodPost}).WriteToHTTP(w)
	}
}

func (h *Handler) sendSMS(w http.ResponseWriter, r *http.Request) {
	var req SendSMSReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problems.CouldNotDecodeBody().WriteToHTTP(w)
		return
	}

	result, err := h.gateway.Send(r.Context(), sms.Request{
		Destination: req.Destination,
		Text:        req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, sms.ErrInvalidDestination):
			problems.ValidationError("destination", err.Error()).WriteToHTTP(w)
		case errors.Is(err, sms.ErrEmptyText):
			problems.ValidationError("text", err.Error()).WriteToHTTP(w)
		default:
			slog.Error("Failed to send SMS", "destination", req.Destination, sloki.WrapError(err))
			problems.InternalServerError("Failed to send SMS: " + err.Error()).WriteToHTTP(w)
		}
		return
	}

	writeJSON(w, http.StatusAccepted, SendSMSResp{
		Destination: result.Destination,
		Segments:    len(result.Segments),
		MessageID:   result.MessageID,
	})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (int, *messages.Message, bool) {
	n, ok := ordinal(w, r)
	if !ok {
		return 0, nil, false
	}

	msg, err := h.store.Nth(n)
	if err != nil {
		problems.NotFound("message", strconv.Itoa(n)).WriteToHTTP(w)
		return 0, nil, false
	}
	return n, msg, true
}

func ordinal(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(mux.Vars(r)["ordinal"])
	if err != nil || n < 1 {
		problems.ValidationError("ordinal", "Invalid message ordinal").WriteToHTTP(w)
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		problems.InternalServerError("Error marshalling response").WriteToHTTP(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

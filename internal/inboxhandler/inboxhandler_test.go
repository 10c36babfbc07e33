package inboxhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/OliverSchlueter/smsgate/internal/gsm"
	"github.com/OliverSchlueter/smsgate/internal/messages"
	"github.com/OliverSchlueter/smsgate/internal/messages/database/memory"
	"github.com/OliverSchlueter/smsgate/internal/sms"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePager struct {
	pages []string
	err   error
}

func (p *fakePager) Page(ctx context.Context, destination, text string) error {
	if p.err != nil {
		return p.err
	}
	p.pages = append(p.pages, text)
	return nil
}

func setup(t *testing.T, p *fakePager, raws ...string) (*mux.Router, *messages.Store) {
	t.Helper()

	store := messages.NewStore(messages.Configuration{DB: memory.NewDB()})
	for _, raw := range raws {
		msg := store.Create()
		require.NoError(t, store.Write(msg, []byte(raw)))
		require.NoError(t, store.Insert(msg))
	}

	gateway := sms.NewGateway(sms.Configuration{Pager: p, Store: store, Hostname: "gw.example.com", StoreCopies: true})

	router := mux.NewRouter()
	New(store, gateway).Register("/api/v1", router)
	return router, store
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func mail(subject, from, text string) string {
	return "From: " + from + "\r\nSubject: " + subject + "\r\n\r\n" + gsm.EncodeBase64(gsm.Encode(text))
}

func TestGetMessages(t *testing.T) {
	router, _ := setup(t, &fakePager{},
		mail("first", "a@example.com", "hello"),
		mail("second", "b@example.com", "{ok}"),
	)

	rec := do(router, http.MethodGet, "/api/v1/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var summaries []MessageSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 2)

	assert.Equal(t, 1, summaries[0].Ordinal)
	assert.Equal(t, "first", summaries[0].Subject)
	assert.Equal(t, "a@example.com", summaries[0].From)
	assert.Equal(t, "hello", summaries[0].Text)
	assert.Equal(t, "inbound", summaries[0].Direction)

	assert.Equal(t, 2, summaries[1].Ordinal)
	assert.Equal(t, "{ok}", summaries[1].Text)
}

func TestGetMessagesEmpty(t *testing.T) {
	router, _ := setup(t, &fakePager{})

	rec := do(router, http.MethodGet, "/api/v1/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetMessage(t *testing.T) {
	router, _ := setup(t, &fakePager{}, mail("one", "a@example.com", "x"), mail("two", "b@example.com", "y"))

	rec := do(router, http.MethodGet, "/api/v1/messages/2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary MessageSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "two", summary.Subject)

	rec = do(router, http.MethodGet, "/api/v1/messages/3", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var problem struct {
		Type   string `json:"type"`
		Status int    `json:"status"`
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "NotFound", problem.Type)
	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Contains(t, problem.Detail, "'3'")

	rec = do(router, http.MethodGet, "/api/v1/messages/abc", "")
	assert.GreaterOrEqual(t, rec.Code, 400)
	assert.Less(t, rec.Code, 500)

	rec = do(router, http.MethodPut, "/api/v1/messages/1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetRawAndText(t *testing.T) {
	raw := mail("s", "a@example.com", "Grüße")
	router, _ := setup(t, &fakePager{}, raw)

	rec := do(router, http.MethodGet, "/api/v1/messages/1/raw", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, raw, rec.Body.String())

	rec = do(router, http.MethodGet, "/api/v1/messages/1/text", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Grüße", rec.Body.String())

	rec = do(router, http.MethodGet, "/api/v1/messages/1/text?charset=ISO-8859-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=iso-8859-1", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{'G', 'r', 0xFC, 0xDF, 'e'}, rec.Body.Bytes())

	rec = do(router, http.MethodGet, "/api/v1/messages/1/text?charset=koi8-r", "")
	assert.GreaterOrEqual(t, rec.Code, 400)
	assert.Less(t, rec.Code, 500)
}

func TestDeleteMessageRenumbers(t *testing.T) {
	router, store := setup(t, &fakePager{}, mail("A", "a", ""), mail("B", "b", ""), mail("C", "c", ""))

	rec := do(router, http.MethodDelete, "/api/v1/messages/2", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/messages/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary MessageSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "C", summary.Subject)

	rec = do(router, http.MethodDelete, "/api/v1/messages/3", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	count, _ := store.Stat()
	assert.Equal(t, 2, count)
}

func TestSendSMS(t *testing.T) {
	p := &fakePager{}
	router, store := setup(t, p)

	rec := do(router, http.MethodPost, "/api/v1/sms", `{"destination":"+4912345","text":"hello"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp SendSMSResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "+4912345", resp.Destination)
	assert.Equal(t, 1, resp.Segments)
	assert.NotEmpty(t, resp.MessageID)
	assert.Equal(t, []string{"hello"}, p.pages)

	rec = do(router, http.MethodGet, "/api/v1/messages/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary MessageSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "outbound", summary.Direction)
	assert.Equal(t, "SMS to +4912345", summary.Subject)
	assert.Equal(t, "smsgate@gw.example.com", summary.From)
	assert.Equal(t, "hello", summary.Text)

	count, _ := store.Stat()
	assert.Equal(t, 1, count)
}

func TestSendSMSErrors(t *testing.T) {
	router, _ := setup(t, &fakePager{})

	rec := do(router, http.MethodPost, "/api/v1/sms", `{"destination":`)
	assert.GreaterOrEqual(t, rec.Code, 400)
	assert.Less(t, rec.Code, 500)

	rec = do(router, http.MethodPost, "/api/v1/sms", `{"destination":"abc","text":"hi"}`)
	assert.GreaterOrEqual(t, rec.Code, 400)
	assert.Less(t, rec.Code, 500)

	rec = do(router, http.MethodGet, "/api/v1/sms", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	failing, _ := setup(t, &fakePager{err: errors.New("modem offline")})
	rec = do(failing, http.MethodPost, "/api/v1/sms", `{"destination":"123","text":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHeaderValue(t *testing.T) {
	head := []byte("X-Original-From: nobody\r\nFrom: J\xf6rg <j@example.com>\r\nSubject: caf\xc3\xa9\r\n")

	assert.Equal(t, "Jörg <j@example.com>", headerValue(head, fromMarker))
	assert.Equal(t, "café", headerValue(head, subjectMarker))
	assert.Equal(t, "", headerValue([]byte("To: x\r\n"), subjectMarker))
}

func TestSplitMessage(t *testing.T) {
	head, body := splitMessage([]byte("Subject: a\r\n\r\nbody"))
	assert.Equal(t, "Subject: a\r\n", string(head))
	assert.Equal(t, "body", string(body))

	head, body = splitMessage([]byte("no blank line"))
	assert.Equal(t, "no blank line", string(head))
	assert.Nil(t, body)
}

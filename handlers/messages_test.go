package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"admissions/models"
	"admissions/services/intake"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssistant struct {
	lastUser  string
	lastEvent intake.Event
	reply     *models.Reply
	err       error
}

func (s *stubAssistant) Respond(_ context.Context, userID string, ev intake.Event) (*models.Reply, error) {
	s.lastUser = userID
	s.lastEvent = ev
	return s.reply, s.err
}

func newMessageRouter(stub *stubAssistant) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/messages", NewMessageHandler(stub).HandleMessage)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleMessageRoutesTextEvent(t *testing.T) {
	stub := &stubAssistant{reply: &models.Reply{
		Text:    "Выберите дату",
		Choices: []models.Choice{{Label: "Пн 01.09", Token: "pick_date:2025-09-01"}},
	}}
	r := newMessageRouter(stub)

	w := postJSON(t, r, gin.H{"user_id": "u1", "text": "/book"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", stub.lastUser)
	assert.Equal(t, "/book", stub.lastEvent.Text)

	var reply models.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "Выберите дату", reply.Text)
	require.Len(t, reply.Choices, 1)
	assert.Equal(t, "pick_date:2025-09-01", reply.Choices[0].Token)
}

func TestHandleMessageRoutesCallbackEvent(t *testing.T) {
	stub := &stubAssistant{reply: models.TextReply("ок")}
	r := newMessageRouter(stub)

	w := postJSON(t, r, gin.H{"user_id": "u1", "callback": "pick_date:2025-09-01"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pick_date:2025-09-01", stub.lastEvent.Callback)
	assert.Empty(t, stub.lastEvent.Text)
}

func TestHandleMessageRejectsEmptyEvent(t *testing.T) {
	stub := &stubAssistant{reply: models.TextReply("ок")}
	r := newMessageRouter(stub)

	w := postJSON(t, r, gin.H{"user_id": "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, gin.H{"text": "привет"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMessageSurfacesFailure(t *testing.T) {
	stub := &stubAssistant{err: assert.AnError}
	r := newMessageRouter(stub)

	w := postJSON(t, r, gin.H{"user_id": "u1", "text": "привет"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

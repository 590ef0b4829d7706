package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/support-router/internal/agent"
	"github.com/bull/support-router/internal/app"
	"github.com/bull/support-router/internal/classifier"
)

type fakeAgent struct {
	questions []string
	resp      agent.Response
	status    app.Status
}

func (f *fakeAgent) Ask(ctx context.Context, question string) agent.Response {
	f.questions = append(f.questions, question)
	return f.resp
}

func (f *fakeAgent) Status(ctx context.Context) app.Status { return f.status }

func TestAskHandler(t *testing.T) {
	a := &fakeAgent{resp: agent.Response{
		Text:         "Orders ship within 2 business days.",
		QuestionType: classifier.TypeFAQ,
		Confidence:   0.9,
	}}

	result, out, err := makeAskHandler(a)(context.Background(), nil, AskSupportInput{Question: "What are your shipping times?"})
	require.NoError(t, err)

	assert.Equal(t, []string{"What are your shipping times?"}, a.questions)
	assert.Equal(t, "Orders ship within 2 business days.", out.Answer)
	assert.Equal(t, classifier.TypeFAQ, out.QuestionType)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, out.Answer, text.Text)
}

func TestAskHandler_EmptyQuestion(t *testing.T) {
	a := &fakeAgent{}

	_, _, err := makeAskHandler(a)(context.Background(), nil, AskSupportInput{Question: "  "})
	assert.ErrorIs(t, err, errEmptyQuestion)
	assert.Empty(t, a.questions)
}

func TestStatusHandler(t *testing.T) {
	a := &fakeAgent{status: app.Status{IndexAvailable: true, IndexedReviews: 12, FAQSections: []string{"FAQ"}}}

	_, out, err := makeStatusHandler(a)(context.Background(), nil, StatusInput{})
	require.NoError(t, err)
	assert.True(t, out.IndexAvailable)
	assert.Equal(t, 12, out.IndexedReviews)
}

func TestNewServer_RegistersTools(t *testing.T) {
	s := NewServer(&fakeAgent{}, "")
	assert.NotNil(t, s.MCPServer())
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
		wantStore  string
	}{
		{name: "healthy", wantCode: http.StatusOK, wantStatus: "healthy", wantStore: "connected"},
		{name: "store down", err: errors.New("connection refused"), wantCode: http.StatusServiceUnavailable, wantStatus: "unhealthy", wantStore: "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(healthFunc(func(ctx context.Context) error { return tt.err }), "qdrant", true)

			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantStore, body.Store)
			assert.Equal(t, "qdrant", body.Backend)
			assert.True(t, body.Reviews)
		})
	}
}

func TestLandingHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewLandingHandler()(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ask_support")

	rec = httptest.NewRecorder()
	NewLandingHandler()(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

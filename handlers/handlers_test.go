package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpchat/db"
	"erpchat/logging"
	"erpchat/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeChat struct {
	requests   []models.ChatRequest
	history    []models.ChatMessage
	historyErr error
}

func (f *fakeChat) Respond(_ context.Context, req models.ChatRequest) models.Envelope {
	f.requests = append(f.requests, req)
	return models.Envelope{
		ChatMessage: models.ChatMessage{
			UserRequest:       req.UserInput,
			FinalTextResponse: "answer",
			Timestamp:         "2025-01-01T00:00:00.000Z",
			ChatID:            req.ChatID,
		},
		POApproved: true,
		PONumber:   "123",
	}
}

func (f *fakeChat) History(context.Context) ([]models.ChatMessage, error) {
	return f.history, f.historyErr
}

type fakeSQL struct{ up bool }

func (f fakeSQL) IsConnected(context.Context) bool { return f.up }

type testEnv struct {
	router *gin.Engine
	docs   *db.DB
	chat   *fakeChat
}

func newTestEnv(t *testing.T, mutate func(*Options)) *testEnv {
	t.Helper()
	docs, err := db.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { docs.Close() })

	chat := &fakeChat{}
	opts := Options{
		Documents: docs,
		Chat:      chat,
		AIReady:   true,
		Logger:    logging.Discard(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	return &testEnv{
		router: NewRouter(New(opts), logging.Discard()),
		docs:   docs,
		chat:   chat,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestFileHandler_MissingID(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(httptest.NewRequest(http.MethodGet, "/file", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Error: File ID parameter is required. Use ?id=FILE_ID or ?fileid=FILE_ID", w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestFileHandler_ReturnsContents(t *testing.T) {
	env := newTestEnv(t, nil)
	id, err := env.docs.Create(context.Background(), models.Document{Name: "2025-01-01query_results.csv", Contents: "id,name\n1,a\n"})
	require.NoError(t, err)

	for _, q := range []string{"id", "fileid"} {
		req := httptest.NewRequest(http.MethodGet, "/file?"+q+"="+id, nil)
		req.Header.Set("Origin", "https://erp.example.com")
		w := env.do(req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "id,name\n1,a\n", w.Body.String())
		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestFileHandler_LoadError(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(httptest.NewRequest(http.MethodGet, "/file?id=404", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Error loading file: "), w.Body.String())
}

func TestFileHandler_Preflight(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(httptest.NewRequest(http.MethodOptions, "/file", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	req := httptest.NewRequest(http.MethodOptions, "/file", nil)
	req.Header.Set("Origin", "https://erp.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = env.do(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestChatPageHandler_DefaultTemplate(t *testing.T) {
	env := newTestEnv(t, nil)
	env.chat.history = []models.ChatMessage{
		{ChatID: "a", UserRequest: "<script>", FinalTextResponse: "r1"},
		{ChatID: "b", UserRequest: "q2", FinalTextResponse: "r2"},
	}

	w := env.do(httptest.NewRequest(http.MethodGet, "/chat", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "var numChats = 2;")
	assert.Contains(t, body, `"user_request":"q2"`)
	assert.NotContains(t, body, "{{messages}}")
	assert.NotContains(t, body, `"user_request":"<script>"`)
}

func TestChatPageHandler_TemplateDocument(t *testing.T) {
	env := newTestEnv(t, nil)
	templateID, err := env.docs.Create(context.Background(), models.Document{
		Name:     "chat.html",
		Contents: "<p>{{numChats}}</p><script>m={{messages}};n={{numChats}}</script>",
	})
	require.NoError(t, err)
	env.router = NewRouter(New(Options{
		Documents:      env.docs,
		Chat:           env.chat,
		TemplateFileID: templateID,
		Logger:         logging.Discard(),
	}), logging.Discard())
	env.chat.historyErr = errors.New("history unavailable")

	w := env.do(httptest.NewRequest(http.MethodGet, "/chat", nil))

	assert.Equal(t, "<p>0</p><script>m=[];n={{numChats}}</script>", w.Body.String())
}

func TestChatHandler_Form(t *testing.T) {
	env := newTestEnv(t, nil)
	form := url.Values{"user_input": {"approve PO123"}, "current_chatId": {"chat-7"}}
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message []map[string]interface{} `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Message, 1)
	msg := resp.Message[0]
	assert.Equal(t, "approve PO123", msg["user_request"])
	assert.Equal(t, "chat-7", msg["chatId"])
	assert.Equal(t, true, msg["po_approved"])
	assert.Equal(t, "123", msg["po_number"])
	assert.NotContains(t, msg, "sql_query")

	require.Len(t, env.chat.requests, 1)
	assert.Equal(t, models.ChatRequest{UserInput: "approve PO123", ChatID: "chat-7"}, env.chat.requests[0])
}

func TestChatHandler_QueryParameters(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(httptest.NewRequest(http.MethodPost, "/chat?user_input=hello&current_chatId=c1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.chat.requests, 1)
	assert.Equal(t, "hello", env.chat.requests[0].UserInput)
	assert.Equal(t, "c1", env.chat.requests[0].ChatID)
}

func TestChatHandler_JSON(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"user_input":"q","current_chatId":"c"}`))
	req.Header.Set("Content-Type", "application/json")

	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ChatRequest{UserInput: "q", ChatID: "c"}, env.chat.requests[0])
}

func TestChatHandler_MalformedJSONStillAnswers(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")

	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Message, 1)
	require.Len(t, env.chat.requests, 1)
	assert.Equal(t, models.ChatRequest{}, env.chat.requests[0])
}

func TestDocuments_UploadAndList(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.UploadFolder = "reference" })

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "customer.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("customer(id, name)"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := env.do(req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var info models.DocumentInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "customer.txt", info.Name)
	assert.Equal(t, "reference", info.Folder)
	assert.Equal(t, len("customer(id, name)"), info.Size)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/documents?name=cust", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Documents []models.DocumentInfo `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Documents, 1)
	assert.Equal(t, info.ID, list.Documents[0].ID)
}

func TestDocuments_UploadWithoutFile(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(httptest.NewRequest(http.MethodPost, "/api/documents", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryHandler(t *testing.T) {
	env := newTestEnv(t, nil)
	env.chat.history = []models.ChatMessage{
		{ChatID: "a", UserRequest: "1"},
		{ChatID: "b", UserRequest: "2"},
		{ChatID: "a", UserRequest: "3"},
	}

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/history?chatId=a", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "3", resp.Messages[1].UserRequest)
}

func TestHistoryHandler_Error(t *testing.T) {
	env := newTestEnv(t, nil)
	env.chat.historyErr = errors.New("boom")

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/history", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.SQL = fakeSQL{up: true} })

	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status["status"])
	assert.Equal(t, "ready", status["ai_service"])
	assert.Equal(t, "connected", status["sql_server"])
}

func TestHealthHandler_NoSQL(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.AIReady = false })

	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	var status map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "not_configured", status["ai_service"])
	assert.Equal(t, "not_configured", status["sql_server"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	w := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "erpchat_http_latency_seconds")
}

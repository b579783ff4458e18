package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/pixora/backend/internal/media"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/observability"
	"github.com/anonto42/pixora/backend/internal/router"
	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/anonto42/pixora/backend/internal/testutil"
	"github.com/anonto42/pixora/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "handler-test-secret"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testAPI struct {
	t      *testing.T
	e      *echo.Echo
	db     *gorm.DB
	clock  *clock
	tokens *services.TokenManager
}

// envelope is the decoded {"success", "data", "error", "code"} body
type envelope struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta"`
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testutil.NewDB(t)
	// tokens are checked against the wall clock, so the app clock starts at real time
	clk := &clock{now: time.Now().UTC().Truncate(time.Second)}

	e := echo.New()
	e.Validator = validators.NewValidator()
	err := router.SetupRoutes(e, router.Dependencies{
		DB:             db,
		Media:          media.NewMemoryStore(),
		JWTSecret:      testSecret,
		JWTTTL:         time.Hour,
		MaxUploadBytes: 1 << 20,
		Clock:          clk.Now,
		Logger:         observability.NopLogger(),
	})
	require.NoError(t, err)

	return &testAPI{
		t:      t,
		e:      e,
		db:     db,
		clock:  clk,
		tokens: services.NewTokenManager(testSecret, time.Hour, clk.Now),
	}
}

func (a *testAPI) user(name string, staff bool) (*models.User, string) {
	a.t.Helper()
	u := testutil.CreateUser(a.t, a.db, name, staff)
	token, err := a.tokens.Issue(u)
	require.NoError(a.t, err)
	return u, token
}

func (a *testAPI) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return a.send(req, token)
}

func (a *testAPI) upload(path, field string, files int, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for i := 0; i < files; i++ {
		part, err := w.CreateFormFile(field, fmt.Sprintf("pic%d.png", i))
		require.NoError(a.t, err)
		_, err = part.Write(pngHeader)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return a.send(req, token)
}

func (a *testAPI) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func postPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/v1/posts/%d%s", id, suffix)
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, strings.TrimSpace(rec.Body.String()))
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"todo-app/backend/internal/config"
	"todo-app/backend/internal/models"
	"todo-app/backend/internal/router"
	"todo-app/backend/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testCookieName = "todo_session"

type testApp struct {
	engine *gin.Engine
	db     *gorm.DB
	redis  *miniredis.Miniredis
	cfg    *config.Config
}

// newTestApp wires the full engine against an in-memory database and a
// miniredis-backed session store.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.Must(uuid.NewV4()).String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := session.NewStoreWithClient(client, time.Hour)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Environment:   "test",
			TemplatesGlob: "../../web/templates/*.html",
			CORSOrigins:   []string{"http://localhost:3000"},
		},
		Session: config.SessionConfig{
			CookieName: testCookieName,
			TTL:        time.Hour,
		},
		Auth: config.AuthConfig{
			BCryptCost:    4,
			AdminSecret:   "test-admin-secret",
			AdminTokenTTL: time.Hour,
		},
	}

	return &testApp{
		engine: router.New(cfg, db, store),
		db:     db,
		redis:  mr,
		cfg:    cfg,
	}
}

// doJSON performs a request with an optional JSON body and session cookie.
func (a *testApp) doJSON(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// doForm performs a request with an urlencoded form body, like a browser.
func (a *testApp) doForm(t *testing.T, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) doGet(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// signupAndLogin registers a user over the API and returns the session
// cookie from a successful login.
func (a *testApp) signupAndLogin(t *testing.T, email, nickname string) *http.Cookie {
	t.Helper()

	w := a.doJSON(t, http.MethodPost, "/api/users/signup", map[string]string{
		"email":           email,
		"password":        "secret1",
		"passwordConfirm": "secret1",
		"nickname":        nickname,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.doJSON(t, http.MethodPost, "/api/users/login", map[string]string{
		"email":    email,
		"password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	return cookie
}

// sessionCookie extracts the session cookie from a recorded response, or
// nil when none was set.
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	return nil
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Message     string            `json:"message"`
	Status      int               `json:"status"`
	ErrorCode   string            `json:"errorCode"`
	Timestamp   time.Time         `json:"timestamp"`
	Path        string            `json:"path"`
	FieldErrors map[string]string `json:"fieldErrors"`
	Details     map[string]any    `json:"details"`
}

type taskBody struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsDone      bool    `json:"isDone"`
}

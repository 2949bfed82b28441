package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	storedb "budget-planner-server/src/db"
	"budget-planner-server/src/middleware"
	"budget-planner-server/src/session"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSessions counts Create calls so tests can assert that failed
// logins never mint a session.
type countingSessions struct {
	session.Store
	created int
}

func (c *countingSessions) Create(userID int64, email string) session.Session {
	c.created++
	return c.Store.Create(userID, email)
}

// These tests run against a real PostgreSQL database. Set TEST_DATABASE_URL
// to enable them.
func authTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database tests")
	}

	require.NoError(t, storedb.Migrate(url))

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `TRUNCATE transactions, budgets, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}

func sessionCookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

func postJSON(handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)))
	return rec
}

func TestLoginCredentialFlow(t *testing.T) {
	pool := authTestPool(t)
	memory := session.NewMemoryStore(time.Hour, 0)
	defer memory.Close()
	sessions := &countingSessions{Store: memory}
	cfg := testConfig()

	// Registration creates the user and the first session.
	rec := postJSON(Register(pool, sessions, cfg), "/auth/register",
		`{"email":"a@x.com","password":"Str0ng!pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"userId":1,"email":"a@x.com"}`, rec.Body.String())
	require.NotNil(t, sessionCookieFrom(rec))
	require.Equal(t, 1, sessions.created)

	// Wrong password: 401, no cookie, and no session minted.
	rec = postJSON(Login(pool, sessions, cfg), "/auth/login",
		`{"email":"a@x.com","password":"Wr0ng!pw1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"invalid credentials"}`, rec.Body.String())
	assert.Nil(t, sessionCookieFrom(rec))
	assert.Equal(t, 1, sessions.created)

	// Unknown email answers exactly like a wrong password.
	rec = postJSON(Login(pool, sessions, cfg), "/auth/login",
		`{"email":"ghost@x.com","password":"Str0ng!pw"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"invalid credentials"}`, rec.Body.String())
	assert.Nil(t, sessionCookieFrom(rec))
	assert.Equal(t, 1, sessions.created)

	// Correct credentials: a fresh session whose cookie resolves to the
	// same user.
	rec = postJSON(Login(pool, sessions, cfg), "/auth/login",
		`{"email":"a@x.com","password":"Str0ng!pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":1,"email":"a@x.com"}`, rec.Body.String())
	cookie := sessionCookieFrom(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, 2, sessions.created)

	sessionEndpoint := middleware.SessionAuthMiddleware(sessions)(Session())
	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	sessionEndpoint.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":1,"email":"a@x.com"}`, rec.Body.String())
}

func TestLoginEmailIsCaseInsensitive(t *testing.T) {
	pool := authTestPool(t)
	memory := session.NewMemoryStore(time.Hour, 0)
	defer memory.Close()
	sessions := &countingSessions{Store: memory}
	cfg := testConfig()

	rec := postJSON(Register(pool, sessions, cfg), "/auth/register",
		`{"email":"A@X.com","password":"Str0ng!pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(Login(pool, sessions, cfg), "/auth/login",
		`{"email":"a@x.COM","password":"Str0ng!pw"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":1,"email":"a@x.com"}`, rec.Body.String())
}

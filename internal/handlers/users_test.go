package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupReturnsProfileWithoutSecrets(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, http.MethodPost, "/api/users/signup", map[string]string{
		"email":           "  New.User@Example.COM ",
		"password":        "secret1",
		"passwordConfirm": "secret1",
		"nickname":        " newuser ",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	profile := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "new.user@example.com", profile["email"])
	assert.Equal(t, "newuser", profile["nickname"])
	assert.NotContains(t, profile, "password")
	assert.NotContains(t, w.Body.String(), "secret1")
}

func TestSignupValidationErrors(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, http.MethodPost, "/api/users/signup", map[string]string{
		"email":           "not-an-email",
		"password":        "secret1",
		"passwordConfirm": "different",
		"nickname":        "x",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeJSON[errorBody](t, w)
	assert.Equal(t, http.StatusBadRequest, body.Status)
	assert.Contains(t, body.FieldErrors, "email")
	assert.Contains(t, body.FieldErrors, "nickname")
}

func TestSignupPasswordMismatch(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, http.MethodPost, "/api/users/signup", map[string]string{
		"email":           "mismatch@example.com",
		"password":        "secret1",
		"passwordConfirm": "secret2",
		"nickname":        "mismatch",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeJSON[errorBody](t, w)
	assert.Contains(t, body.FieldErrors, "passwordConfirm")
}

func TestSignupDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	app.signupAndLogin(t, "taken@example.com", "first")

	w := app.doJSON(t, http.MethodPost, "/api/users/signup", map[string]string{
		"email":           " TAKEN@example.com ",
		"password":        "secret1",
		"passwordConfirm": "secret1",
		"nickname":        "second",
	}, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	body := decodeJSON[errorBody](t, w)
	assert.Equal(t, "DUPLICATE_EMAIL", body.ErrorCode)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	app := newTestApp(t)
	app.signupAndLogin(t, "ivy@example.com", "ivy")

	w := app.doJSON(t, http.MethodPost, "/api/users/login", map[string]string{
		"email":    "ivy@example.com",
		"password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Positive(t, cookie.MaxAge)

	// The session id is opaque: no user data encoded in the cookie.
	assert.NotContains(t, cookie.Value, "ivy")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	app := newTestApp(t)
	app.signupAndLogin(t, "judy@example.com", "judy")

	unknown := app.doJSON(t, http.MethodPost, "/api/users/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "secret1",
	}, nil)
	wrongPassword := app.doJSON(t, http.MethodPost, "/api/users/login", map[string]string{
		"email":    "judy@example.com",
		"password": "wrong-password",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)

	a := decodeJSON[errorBody](t, unknown)
	b := decodeJSON[errorBody](t, wrongPassword)
	assert.Equal(t, a.ErrorCode, b.ErrorCode)
	assert.Equal(t, a.Message, b.Message)

	assert.Nil(t, sessionCookie(t, unknown))
	assert.Nil(t, sessionCookie(t, wrongPassword))
}

func TestLogoutDestroysSession(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signupAndLogin(t, "kate@example.com", "kate")

	w := app.doGet(t, "/api/tasks", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(t, http.MethodPost, "/api/users/logout", nil, cookie)
	require.Equal(t, http.StatusNoContent, w.Code)

	cleared := sessionCookie(t, w)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)

	// The old cookie no longer resolves.
	w = app.doGet(t, "/api/tasks", cookie)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutWithoutSessionIsNotAnError(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, http.MethodPost, "/api/users/logout", nil, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}

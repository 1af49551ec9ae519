package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	f := newBareFixture(t)

	account := CreateUserRequest{
		Username:  "principal",
		Email:     "principal@example.com",
		FirstName: "Paola",
		LastName:  "Preside",
		Password:  testPassword,
	}

	t.Run("requires the token header", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/v1/bootstrap", "", account)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects a wrong token", func(t *testing.T) {
		resp := f.doBootstrap("wrong", account)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("creates the first admin", func(t *testing.T) {
		resp := f.doBootstrap(testBootstrapToken, account)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var out UserResponse
		decode(t, resp, &out)
		require.Equal(t, "admin", out.Role)

		// The new admin can log in immediately.
		login := f.do(http.MethodPost, "/v1/auth/login", "", LoginRequest{
			Username: "principal",
			Password: testPassword,
		})
		require.Equal(t, http.StatusOK, login.StatusCode)
	})

	t.Run("only works once", func(t *testing.T) {
		resp := f.doBootstrap(testBootstrapToken, account)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestBootstrapDisabled(t *testing.T) {
	f := newBareFixture(t)
	f.router.BootstrapService.Token = ""

	resp := f.doBootstrap(testBootstrapToken, CreateUserRequest{Username: "x"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// doBootstrap posts the bootstrap request with the given token header.
func (f *fixture) doBootstrap(token string, account CreateUserRequest) *http.Response {
	f.t.Helper()

	raw, err := json.Marshal(account)
	require.NoError(f.t, err)

	req, err := http.NewRequest(http.MethodPost, f.srv.URL+"/v1/bootstrap", bytes.NewReader(raw))
	require.NoError(f.t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Bootstrap-Token", token)

	resp, err := f.srv.Client().Do(req)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

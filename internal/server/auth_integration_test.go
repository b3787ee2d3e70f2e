package server_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatwire/chatwire/internal/domain"
)

func TestAuth_LoginRejectsUnknownUser(t *testing.T) {
	_, testServer, cleanup := setupIntegrationTest(t)
	defer cleanup()

	resp := apiRequest(t, http.MethodPost, testServer.URL+"/api/auth/login", nil,
		`{"userId":"nobody"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuth_APIRequiresSession(t *testing.T) {
	_, testServer, cleanup := setupIntegrationTest(t)
	defer cleanup()

	resp := apiRequest(t, http.MethodPost, testServer.URL+"/api/messages/send/bob", nil,
		`{"text":"hi"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_SessionGrantsAPIAccess(t *testing.T) {
	s, testServer, cleanup := setupIntegrationTest(t)
	defer cleanup()

	seedUser(t, s, "alice")
	cookie := login(t, testServer.URL, "alice")

	resp := apiRequest(t, http.MethodPost, testServer.URL+"/api/groups", cookie,
		`{"name":"team","members":[]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var group domain.Group
	decodeJSONBody(t, resp, &group)
	assert.True(t, group.IsAdmin("alice"))
}

func TestAuth_LogoutClearsSession(t *testing.T) {
	s, testServer, cleanup := setupIntegrationTest(t)
	defer cleanup()

	seedUser(t, s, "alice")
	cookie := login(t, testServer.URL, "alice")

	resp := apiRequest(t, http.MethodPost, testServer.URL+"/api/auth/logout", cookie, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// The original cookie is still presented, but an expired replacement was
	// issued; a fresh client without it is unauthenticated.
	resp = apiRequest(t, http.MethodPost, testServer.URL+"/api/groups", nil,
		`{"name":"team","members":[]}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

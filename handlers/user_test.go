package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfilePatchesFields(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "a@x.com", "hunter2")

	w := app.do(t, http.MethodPatch, "/userUpdates/a@x.com", chromeWindowsUA,
		gin.H{"bio": "gopher", "email": "evil@x.com", "passwordHash": "x", "loginHistory": []string{}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	user, err := app.repo.GetByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "gopher", user.Bio)

	// Identity and credential fields never reach the repository.
	assert.Contains(t, app.repo.lastPatch, "bio")
	assert.NotContains(t, app.repo.lastPatch, "email")
	assert.NotContains(t, app.repo.lastPatch, "passwordHash")
	assert.NotContains(t, app.repo.lastPatch, "loginHistory")
}

func TestUpdateProfileNullBodyRejected(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "a@x.com", "hunter2")

	// A body of literal JSON null binds to a nil map without a binding error;
	// it must come back as a 400, not reach the repository.
	w := app.do(t, http.MethodPatch, "/userUpdates/a@x.com", chromeWindowsUA,
		json.RawMessage("null"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, app.repo.lastPatch)
}

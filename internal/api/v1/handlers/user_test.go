package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserData(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	token, id := signupUser(t, app, "Profile User")

	resp, err := app.Test(jsonRequest("GET", "/api/user/data", nil, token), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	userData := body["userData"].(map[string]interface{})
	assert.Equal(t, id, userData["id"])
	assert.Equal(t, "Profile User", userData["name"])
	assert.Equal(t, "IT", userData["department"])
	assert.Equal(t, "Junior Staff", userData["role"])
	assert.Equal(t, false, userData["isAccountVerified"])
}

func TestGetEmployees(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	token, id := signupUser(t, app, "Directory User")

	resp, err := app.Test(jsonRequest("GET", "/api/user/employees", nil, token), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	users := body["users"].([]interface{})
	require.NotEmpty(t, users)

	var found bool
	for _, raw := range users {
		user := raw.(map[string]interface{})
		if user["id"] == id {
			found = true
			assert.Equal(t, "Directory User", user["name"])
			assert.Equal(t, "IT", user["department"])
			assert.Equal(t, "Junior Staff", user["role"])
			assert.NotEmpty(t, user["email"])
		}
		// nothing beyond the directory projection leaks out
		assert.NotContains(t, user, "isAccountVerified")
		assert.NotContains(t, user, "createdAt")
		assert.NotContains(t, user, "updatedAt")
	}
	assert.True(t, found, "signed-up user missing from directory")
}

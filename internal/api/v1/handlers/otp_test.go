package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PaoloBaltazar/trackflow-server/internal/config"
	"github.com/PaoloBaltazar/trackflow-server/internal/models"
	"github.com/PaoloBaltazar/trackflow-server/internal/repository"
	"github.com/PaoloBaltazar/trackflow-server/pkg/crypto"
)

// seedOTP plants an encrypted one-time code on a user document directly,
// standing in for the email delivery step.
func seedOTP(t *testing.T, userID, field string, otp string, expireAt int64) {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(userID)
	require.NoError(t, err)

	encrypted, err := crypto.Encrypt(otp, string(config.SecretKey))
	require.NoError(t, err)

	_, err = config.DB.Collection(repository.Users).UpdateOne(context.Background(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{field: encrypted, field + "ExpireAt": expireAt}},
	)
	require.NoError(t, err)
}

func TestVerifyEmail(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	token, id := signupUser(t, app, "Verify User")
	seedOTP(t, id, "verifyOtp", "271828", time.Now().Add(24*time.Hour).UnixMilli())

	// wrong code first
	resp, err := app.Test(jsonRequest("POST", "/api/auth/verify-email",
		map[string]string{"otp": "000000"}, token), -1)
	require.NoError(t, err)
	body := decodeBody(t, resp)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid OTP", body["message"])

	// correct code flips the verification flag
	resp, err = app.Test(jsonRequest("POST", "/api/auth/verify-email",
		map[string]string{"otp": "271828"}, token), -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user models.User
	objID, _ := primitive.ObjectIDFromHex(id)
	require.NoError(t, config.DB.Collection(repository.Users).
		FindOne(context.Background(), bson.M{"_id": objID}).Decode(&user))
	assert.True(t, user.IsAccountVerified)
	assert.Empty(t, user.VerifyOtp)
}

func TestVerifyEmailExpiredOTP(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	token, id := signupUser(t, app, "Expired Verify")
	seedOTP(t, id, "verifyOtp", "314159", time.Now().Add(-time.Minute).UnixMilli())

	resp, err := app.Test(jsonRequest("POST", "/api/auth/verify-email",
		map[string]string{"otp": "314159"}, token), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "OTP Expired", body["message"])
}

func TestResetPassword(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	_, id := signupUser(t, app, "Reset User")

	var user models.User
	objID, _ := primitive.ObjectIDFromHex(id)
	require.NoError(t, config.DB.Collection(repository.Users).
		FindOne(context.Background(), bson.M{"_id": objID}).Decode(&user))

	seedOTP(t, id, "resetOtp", "161803", time.Now().Add(15*time.Minute).UnixMilli())

	resp, err := app.Test(jsonRequest("POST", "/api/auth/reset-password", map[string]string{
		"email":       user.Email,
		"otp":         "161803",
		"newPassword": "brand-new-pass",
	}, ""), -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// the old password no longer works, the new one does
	resp, err = app.Test(jsonRequest("POST", "/api/auth/login", map[string]string{
		"email":    user.Email,
		"password": "secret123",
	}, ""), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonRequest("POST", "/api/auth/login", map[string]string{
		"email":    user.Email,
		"password": "brand-new-pass",
	}, ""), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestResetPasswordUnknownEmail(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	resp, err := app.Test(jsonRequest("POST", "/api/auth/send-reset-otp",
		map[string]string{"email": "ghost@example.com"}, ""), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

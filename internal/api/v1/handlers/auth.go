package handlers

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/PaoloBaltazar/trackflow-server/internal/config"
	"github.com/PaoloBaltazar/trackflow-server/internal/middleware"
	"github.com/PaoloBaltazar/trackflow-server/internal/models"
	"github.com/PaoloBaltazar/trackflow-server/internal/repository"
	"github.com/PaoloBaltazar/trackflow-server/pkg/crypto"
	"github.com/PaoloBaltazar/trackflow-server/pkg/logger"
)

const tokenLifetime = 7 * 24 * time.Hour

// generateToken signs a session JWT carrying the caller's identity.
func generateToken(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    user.ID.Hex(),
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(tokenLifetime).Unix(),
	})
	return token.SignedString(config.SecretKey)
}

func setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(tokenLifetime),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func clearTokenCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// generateOTP returns a 6 digit one-time code.
func generateOTP() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

func Signup(c *fiber.Ctx) error {
	type SignupRequest struct {
		FullName   string `json:"fullName" validate:"required"`
		Email      string `json:"email" validate:"required,email"`
		Password   string `json:"password" validate:"required,min=6"`
		Department string `json:"department" validate:"required"`
		Role       string `json:"role" validate:"required"`
	}

	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in signup", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Bad request",
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during signup", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Missing Details",
			"errors":  err.Error(),
		})
	}

	if !models.ValidDepartment(req.Department) {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid department",
		})
	}
	if !models.ValidRole(req.Role) {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid role",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	now := time.Now()
	user := models.User{
		Name:       req.FullName,
		Email:      req.Email,
		Password:   string(hashedPassword),
		Department: req.Department,
		Role:       req.Role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result, err := config.DB.Collection(repository.Users).InsertOne(c.Context(), user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.SecurityLogger.Warn("Duplicate email in signup", zap.String("email", req.Email))
			return c.Status(409).JSON(fiber.Map{
				"success": false,
				"message": "Email already registered",
			})
		}
		logger.ErrorLogger.Error("Error creating user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := generateToken(user)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	setTokenCookie(c, token)

	logger.AuditLogger.Info("User signed up", zap.String("userID", user.ID.Hex()))
	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":         user.ID.Hex(),
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"department": user.Department,
		},
	})
}

func Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Bad request",
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Email and password are required",
		})
	}

	var user models.User
	err := config.DB.Collection(repository.Users).
		FindOne(c.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		logger.SecurityLogger.Warn("Login for unknown email", zap.String("email", req.Email))
		return c.Status(401).JSON(fiber.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.SecurityLogger.Warn("Invalid password", zap.String("email", req.Email))
		return c.Status(401).JSON(fiber.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	token, err := generateToken(user)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	setTokenCookie(c, token)

	logger.AuditLogger.Info("Login success", zap.String("userID", user.ID.Hex()))
	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":         user.ID.Hex(),
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"department": user.Department,
		},
	})
}

// Logout revokes the presented token for its remaining lifetime and
// clears the session cookie.
func Logout(c *fiber.Ctx) error {
	tokenString := middleware.ExtractToken(c)

	if tokenString != "" && config.RedisClient != nil {
		ttl := tokenLifetime
		if token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{}); err == nil {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if exp, ok := claims["exp"].(float64); ok {
					if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
						ttl = remaining
					}
				}
			}
		}
		if err := config.RedisClient.Set(config.Ctx, "revoked:"+tokenString, "1", ttl).Err(); err != nil {
			logger.ErrorLogger.Error("Error revoking token", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
	}

	clearTokenCookie(c)
	logger.AuditLogger.Info("User logged out", zap.String("userID", c.Locals("userID").(string)))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged Out",
	})
}

// IsAuth echoes the identity the auth middleware attached to the request.
func IsAuth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":    c.Locals("userID"),
			"name":  c.Locals("userName"),
			"email": c.Locals("userEmail"),
			"role":  c.Locals("userRole"),
		},
	})
}

func SendVerifyOtp(c *fiber.Ctx) error {
	userID, err := callerObjectID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{
			"success": false,
			"message": "Not Authorized. Login Again",
		})
	}

	var user models.User
	err = config.DB.Collection(repository.Users).
		FindOne(c.Context(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	if user.IsAccountVerified {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Account already verified",
		})
	}

	otp := generateOTP()
	encryptedOtp, err := crypto.Encrypt(otp, string(config.SecretKey))
	if err != nil {
		logger.ErrorLogger.Error("Error encrypting OTP", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	_, err = config.DB.Collection(repository.Users).UpdateOne(c.Context(),
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"verifyOtp":         encryptedOtp,
			"verifyOtpExpireAt": time.Now().Add(24 * time.Hour).UnixMilli(),
			"updatedAt":         time.Now(),
		}},
	)
	if err != nil {
		logger.ErrorLogger.Error("Error storing verify OTP", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	if err := config.Mailer.SendOTP(user.Email, "TrackFlow account verification", otp, "24 hours"); err != nil {
		logger.ErrorLogger.Error("Error sending verify OTP", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	logger.AuditLogger.Info("Verification OTP sent", zap.String("userID", user.ID.Hex()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Verification OTP sent on email",
	})
}

func VerifyEmail(c *fiber.Ctx) error {
	type VerifyRequest struct {
		Otp string `json:"otp" validate:"required"`
	}

	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil || req.Otp == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Missing Details",
		})
	}

	userID, err := callerObjectID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{
			"success": false,
			"message": "Not Authorized. Login Again",
		})
	}

	var user models.User
	err = config.DB.Collection(repository.Users).
		FindOne(c.Context(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	if ok, msg := checkOTP(user.VerifyOtp, user.VerifyOtpExpireAt, req.Otp); !ok {
		logger.SecurityLogger.Warn("Verify email OTP rejected", zap.String("userID", user.ID.Hex()))
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": msg,
		})
	}

	_, err = config.DB.Collection(repository.Users).UpdateOne(c.Context(),
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"isAccountVerified": true,
			"verifyOtp":         "",
			"verifyOtpExpireAt": int64(0),
			"updatedAt":         time.Now(),
		}},
	)
	if err != nil {
		logger.ErrorLogger.Error("Error verifying email", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	logger.AuditLogger.Info("Email verified", zap.String("userID", user.ID.Hex()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email verified successfully",
	})
}

func SendResetOtp(c *fiber.Ctx) error {
	type ResetOtpRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	var req ResetOtpRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Email is required",
		})
	}

	var user models.User
	err := config.DB.Collection(repository.Users).
		FindOne(c.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	otp := generateOTP()
	encryptedOtp, err := crypto.Encrypt(otp, string(config.SecretKey))
	if err != nil {
		logger.ErrorLogger.Error("Error encrypting OTP", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	_, err = config.DB.Collection(repository.Users).UpdateOne(c.Context(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{
			"resetOtp":         encryptedOtp,
			"resetOtpExpireAt": time.Now().Add(15 * time.Minute).UnixMilli(),
			"updatedAt":        time.Now(),
		}},
	)
	if err != nil {
		logger.ErrorLogger.Error("Error storing reset OTP", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	if err := config.Mailer.SendOTP(user.Email, "TrackFlow password reset", otp, "15 minutes"); err != nil {
		logger.ErrorLogger.Error("Error sending reset OTP", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	logger.AuditLogger.Info("Reset OTP sent", zap.String("userID", user.ID.Hex()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent to your email",
	})
}

func ResetPassword(c *fiber.Ctx) error {
	type ResetPasswordRequest struct {
		Email       string `json:"email" validate:"required,email"`
		Otp         string `json:"otp" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=6"`
	}

	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Bad request",
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Email, OTP and new password are required",
		})
	}

	var user models.User
	err := config.DB.Collection(repository.Users).
		FindOne(c.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	if ok, msg := checkOTP(user.ResetOtp, user.ResetOtpExpireAt, req.Otp); !ok {
		logger.SecurityLogger.Warn("Reset password OTP rejected", zap.String("userID", user.ID.Hex()))
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": msg,
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	_, err = config.DB.Collection(repository.Users).UpdateOne(c.Context(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{
			"password":         string(hashedPassword),
			"resetOtp":         "",
			"resetOtpExpireAt": int64(0),
			"updatedAt":        time.Now(),
		}},
	)
	if err != nil {
		logger.ErrorLogger.Error("Error resetting password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	logger.AuditLogger.Info("Password reset", zap.String("userID", user.ID.Hex()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password has been reset successfully",
	})
}

// checkOTP compares a stored encrypted OTP against the submitted code.
func checkOTP(stored string, expireAt int64, submitted string) (bool, string) {
	if stored == "" {
		return false, "Invalid OTP"
	}
	decrypted, err := crypto.Decrypt(stored, string(config.SecretKey))
	if err != nil || decrypted != submitted {
		return false, "Invalid OTP"
	}
	if expireAt < time.Now().UnixMilli() {
		return false, "OTP Expired"
	}
	return true, ""
}

package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/PaoloBaltazar/trackflow-server/internal/config"
	"github.com/PaoloBaltazar/trackflow-server/pkg/logger"
)

const unauthorizedMessage = "Not Authorized. Login Again"

// ExtractToken locates the session token: cookie "token" first,
// falling back to the Authorization: Bearer header.
func ExtractToken(c *fiber.Ctx) string {
	if token := c.Cookies("token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// UseToken validates the session token and attaches the caller's identity
// to the request locals: userID, userName, userEmail, userRole.
func UseToken(c *fiber.Ctx) error {
	tokenString := ExtractToken(c)
	if tokenString == "" {
		logger.SecurityLogger.Warn("No token provided",
			zap.String("path", c.Path()),
		)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": unauthorizedMessage,
		})
	}

	// Reject tokens revoked by logout
	if config.RedisClient != nil {
		if exists, err := config.RedisClient.Exists(config.Ctx, "revoked:"+tokenString).Result(); err == nil && exists > 0 {
			logger.SecurityLogger.Warn("Revoked token presented", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": unauthorizedMessage,
			})
		}
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return config.SecretKey, nil
	})
	if err != nil || !token.Valid {
		logger.SecurityLogger.Warn("Invalid token", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": unauthorizedMessage,
		})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		logger.SecurityLogger.Warn("Invalid token claims")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": unauthorizedMessage,
		})
	}

	// A usable session needs both a durable identifier and a display name
	userID, _ := claims["id"].(string)
	userName, _ := claims["name"].(string)
	if userID == "" || userName == "" {
		logger.SecurityLogger.Warn("Token missing identity claims")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": unauthorizedMessage,
		})
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	c.Locals("userID", userID)
	c.Locals("userName", userName)
	c.Locals("userEmail", email)
	c.Locals("userRole", role)
	return c.Next()
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/PaoloBaltazar/trackflow-server/internal/config"
	"github.com/PaoloBaltazar/trackflow-server/internal/models"
	"github.com/PaoloBaltazar/trackflow-server/internal/repository"
	"github.com/PaoloBaltazar/trackflow-server/pkg/logger"
)

// callerObjectID resolves the authenticated caller's id from request locals.
func callerObjectID(c *fiber.Ctx) (primitive.ObjectID, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return primitive.NilObjectID, errors.New("no caller identity")
	}
	return primitive.ObjectIDFromHex(userID)
}

// GetUserData returns the caller's own profile.
func GetUserData(c *fiber.Ctx) error {
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
		logger.SecurityLogger.Warn("User not found", zap.String("userID", userID.Hex()))
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"userData": fiber.Map{
			"id":                user.ID.Hex(),
			"name":              user.Name,
			"email":             user.Email,
			"role":              user.Role,
			"department":        user.Department,
			"isAccountVerified": user.IsAccountVerified,
		},
	})
}

// employeeEntry is the reduced projection the directory listing emits.
type employeeEntry struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Role       string             `bson:"role" json:"role"`
	Department string             `bson:"department" json:"department"`
}

// GetEmployees lists every user with the directory projection.
func GetEmployees(c *fiber.Ctx) error {
	projection := bson.M{"name": 1, "email": 1, "role": 1, "department": 1}
	cursor, err := config.DB.Collection(repository.Users).
		Find(c.Context(), bson.M{}, options.Find().SetProjection(projection))
	if err != nil {
		logger.ErrorLogger.Error("Error fetching users", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	defer cursor.Close(c.Context())

	users := []employeeEntry{}
	if err := cursor.All(c.Context(), &users); err != nil {
		logger.ErrorLogger.Error("Error decoding users", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

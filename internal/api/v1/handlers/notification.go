package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/PaoloBaltazar/trackflow-server/internal/config"
	"github.com/PaoloBaltazar/trackflow-server/internal/models"
	"github.com/PaoloBaltazar/trackflow-server/internal/repository"
	"github.com/PaoloBaltazar/trackflow-server/pkg/logger"
)

// GetNotifications returns the caller's mailbox, newest first.
func GetNotifications(c *fiber.Ctx) error {
	userID, err := callerObjectID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{
			"success": false,
			"message": "Not Authorized. Login Again",
		})
	}

	cursor, err := config.DB.Collection(repository.Notifications).
		Find(c.Context(), bson.M{"user": userID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		logger.ErrorLogger.Error("Error fetching notifications", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	defer cursor.Close(c.Context())

	notifications := []models.Notification{}
	if err := cursor.All(c.Context(), &notifications); err != nil {
		logger.ErrorLogger.Error("Error decoding notifications", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
	})
}

// ToggleNotificationRead sets the read flag to the submitted value.
// Ownership is not checked; the id alone addresses the notification.
func ToggleNotificationRead(c *fiber.Ctx) error {
	notifID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid notification ID",
		})
	}

	type ReadRequest struct {
		IsRead bool `json:"isRead"`
	}
	var req ReadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Bad request",
		})
	}

	var notification models.Notification
	err = config.DB.Collection(repository.Notifications).FindOneAndUpdate(c.Context(),
		bson.M{"_id": notifID},
		bson.M{"$set": bson.M{"read": req.IsRead, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"message": "Notification not found",
			})
		}
		logger.ErrorLogger.Error("Error updating notification", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"notification": notification,
	})
}

// MarkAllNotificationsRead flags every notification owned by the caller.
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	userID, err := callerObjectID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{
			"success": false,
			"message": "Not Authorized. Login Again",
		})
	}

	_, err = config.DB.Collection(repository.Notifications).UpdateMany(c.Context(),
		bson.M{"user": userID},
		bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		logger.ErrorLogger.Error("Error marking notifications read", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	logger.AuditLogger.Info("All notifications marked read", zap.String("userID", userID.Hex()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "All notifications marked as read",
	})
}

func DeleteNotification(c *fiber.Ctx) error {
	notifID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid notification ID",
		})
	}

	result, err := config.DB.Collection(repository.Notifications).
		DeleteOne(c.Context(), bson.M{"_id": notifID})
	if err != nil {
		logger.ErrorLogger.Error("Error deleting notification", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	if result.DeletedCount == 0 {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "Notification not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notification deleted",
	})
}

package handlers

import (
	"context"
	"fmt"
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

// taskResponse is a task with its assignee resolved to the reduced projection.
type taskResponse struct {
	models.Task
	AssigneeInfo *models.AssigneeInfo `json:"assigneeInfo,omitempty"`
}

// resolveAssignees fetches the reduced user projection for every distinct
// assignee referenced by the given tasks.
func resolveAssignees(ctx context.Context, tasks []models.Task) (map[primitive.ObjectID]models.AssigneeInfo, error) {
	ids := make([]primitive.ObjectID, 0, len(tasks))
	seen := make(map[primitive.ObjectID]bool)
	for _, task := range tasks {
		if !seen[task.Assignee] {
			seen[task.Assignee] = true
			ids = append(ids, task.Assignee)
		}
	}

	resolved := make(map[primitive.ObjectID]models.AssigneeInfo)
	if len(ids) == 0 {
		return resolved, nil
	}

	projection := bson.M{"name": 1, "department": 1, "role": 1}
	cursor, err := config.DB.Collection(repository.Users).
		Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.AssigneeInfo
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		resolved[u.ID] = u
	}
	return resolved, nil
}

// ListTasks returns every task, newest first, with assignees resolved.
func ListTasks(c *fiber.Ctx) error {
	cursor, err := config.DB.Collection(repository.Tasks).
		Find(c.Context(), bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	defer cursor.Close(c.Context())

	tasks := []models.Task{}
	if err := cursor.All(c.Context(), &tasks); err != nil {
		logger.ErrorLogger.Error("Error decoding tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	assignees, err := resolveAssignees(c.Context(), tasks)
	if err != nil {
		logger.ErrorLogger.Error("Error resolving assignees", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	resp := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		item := taskResponse{Task: task}
		if info, ok := assignees[task.Assignee]; ok {
			item.AssigneeInfo = &info
		}
		resp = append(resp, item)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"tasks":   resp,
	})
}

func CreateTask(c *fiber.Ctx) error {
	type TaskRequest struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description" validate:"required"`
		Assignee    string `json:"assignee" validate:"required"`
		DueDate     string `json:"dueDate" validate:"required"`
		Priority    string `json:"priority" validate:"required,oneof=Low Medium High"`
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Bad request",
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "All fields are required",
			"errors":  err.Error(),
		})
	}

	assigneeID, err := primitive.ObjectIDFromHex(req.Assignee)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid assignee",
		})
	}

	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		// The date picker submits bare dates as well
		dueDate, err = time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"message": "Invalid due date",
			})
		}
	}

	var assignee models.User
	err = config.DB.Collection(repository.Users).
		FindOne(c.Context(), bson.M{"_id": assigneeID}).Decode(&assignee)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Assignee does not exist",
		})
	}

	creatorID, err := callerObjectID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{
			"success": false,
			"message": "Not Authorized. Login Again",
		})
	}

	now := time.Now()
	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Assignee:    assigneeID,
		DueDate:     dueDate,
		Priority:    req.Priority,
		Status:      "Todo",
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := config.DB.Collection(repository.Tasks).InsertOne(c.Context(), task)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	// Fan out a single mailbox entry to the assignee
	notification := models.Notification{
		User:      assigneeID,
		Title:     "Task Assigned",
		Message:   fmt.Sprintf("You have been assigned a new task: %s", task.Title),
		Type:      "info",
		Icon:      "document",
		Read:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := config.DB.Collection(repository.Notifications).InsertOne(c.Context(), notification); err != nil {
		logger.ErrorLogger.Error("Error creating notification", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	logger.AuditLogger.Info("Task created",
		zap.String("taskID", task.ID.Hex()),
		zap.String("assignee", assigneeID.Hex()),
	)
	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"task":    task,
	})
}

func UpdateTaskStatus(c *fiber.Ctx) error {
	taskID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid task ID",
		})
	}

	type StatusRequest struct {
		NewStatus string `json:"newStatus" validate:"required"`
	}
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Bad request",
		})
	}
	if !models.ValidTaskStatus(req.NewStatus) {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid status",
		})
	}

	var task models.Task
	err = config.DB.Collection(repository.Tasks).
		FindOne(c.Context(), bson.M{"_id": taskID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"message": "Task not found",
			})
		}
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	// Only the assignee may move the task, compared by durable id
	callerID, err := callerObjectID(c)
	if err != nil || task.Assignee != callerID {
		logger.SecurityLogger.Warn("Status change denied",
			zap.String("taskID", taskID.Hex()),
			zap.String("caller", fmt.Sprint(c.Locals("userID"))),
		)
		return c.Status(403).JSON(fiber.Map{
			"success": false,
			"message": "Not authorized to change this task's status.",
		})
	}

	task.Status = req.NewStatus
	task.UpdatedAt = time.Now()
	_, err = config.DB.Collection(repository.Tasks).UpdateOne(c.Context(),
		bson.M{"_id": taskID},
		bson.M{"$set": bson.M{"status": task.Status, "updatedAt": task.UpdatedAt}},
	)
	if err != nil {
		logger.ErrorLogger.Error("Error updating task status", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	logger.AuditLogger.Info("Task status updated",
		zap.String("taskID", taskID.Hex()),
		zap.String("status", task.Status),
	)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Status updated",
		"task":    task,
	})
}

func DeleteTask(c *fiber.Ctx) error {
	taskID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid task ID",
		})
	}

	result, err := config.DB.Collection(repository.Tasks).
		DeleteOne(c.Context(), bson.M{"_id": taskID})
	if err != nil {
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	if result.DeletedCount == 0 {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "Task not found",
		})
	}

	logger.AuditLogger.Info("Task deleted", zap.String("taskID", taskID.Hex()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Task deleted",
	})
}

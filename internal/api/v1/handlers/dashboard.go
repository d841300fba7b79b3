package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/PaoloBaltazar/trackflow-server/internal/config"
	"github.com/PaoloBaltazar/trackflow-server/internal/models"
	"github.com/PaoloBaltazar/trackflow-server/internal/repository"
	"github.com/PaoloBaltazar/trackflow-server/pkg/logger"
)

const recentTaskLimit = 5

// GetDashboardStats gathers the six dashboard reads concurrently.
// Any failing sub-query fails the whole call; nothing is cached.
func GetDashboardStats(c *fiber.Ctx) error {
	var (
		totalTasks     int64
		completedTasks int64
		pendingTasks   int64
		userCount      int64
		documentCount  int64
		recentTasks    []taskResponse
	)

	g, ctx := errgroup.WithContext(c.Context())

	g.Go(func() error {
		var err error
		totalTasks, err = config.DB.Collection(repository.Tasks).CountDocuments(ctx, bson.M{})
		return err
	})
	g.Go(func() error {
		var err error
		completedTasks, err = config.DB.Collection(repository.Tasks).
			CountDocuments(ctx, bson.M{"status": "Completed"})
		return err
	})
	g.Go(func() error {
		var err error
		pendingTasks, err = config.DB.Collection(repository.Tasks).
			CountDocuments(ctx, bson.M{"status": "In Progress"})
		return err
	})
	g.Go(func() error {
		var err error
		userCount, err = config.DB.Collection(repository.Users).CountDocuments(ctx, bson.M{})
		return err
	})
	g.Go(func() error {
		var err error
		documentCount, err = config.DB.Collection(repository.Documents).CountDocuments(ctx, bson.M{})
		return err
	})
	g.Go(func() error {
		cursor, err := config.DB.Collection(repository.Tasks).Find(ctx, bson.M{},
			options.Find().
				SetSort(bson.D{{Key: "createdAt", Value: -1}}).
				SetLimit(recentTaskLimit))
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		tasks := []models.Task{}
		if err := cursor.All(ctx, &tasks); err != nil {
			return err
		}

		assignees, err := resolveAssignees(ctx, tasks)
		if err != nil {
			return err
		}

		recentTasks = make([]taskResponse, 0, len(tasks))
		for _, task := range tasks {
			item := taskResponse{Task: task}
			if info, ok := assignees[task.Assignee]; ok {
				info.Role = ""
				item.AssigneeInfo = &info
			}
			recentTasks = append(recentTasks, item)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.ErrorLogger.Error("Error computing dashboard stats", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats": fiber.Map{
			"totalTasks":     totalTasks,
			"completedTasks": completedTasks,
			"pendingTasks":   pendingTasks,
			"users":          userCount,
			"documents":      documentCount,
			"recentTasks":    recentTasks,
		},
	})
}

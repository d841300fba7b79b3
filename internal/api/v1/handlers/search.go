package handlers

import (
	"regexp"
	"strings"

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

const searchLimit = 5

type searchResult struct {
	ID    primitive.ObjectID `json:"id"`
	Title string             `json:"title"`
	Type  string             `json:"type"`
}

// Search runs a case-insensitive substring match over task titles and
// document names, each side capped independently.
func Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Query required",
		})
	}

	// Treat the query as a literal, not a pattern
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	limit := options.Find().SetLimit(searchLimit)

	taskCursor, err := config.DB.Collection(repository.Tasks).
		Find(c.Context(), bson.M{"title": pattern}, limit)
	if err != nil {
		logger.ErrorLogger.Error("Error searching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	tasks := []models.Task{}
	if err := taskCursor.All(c.Context(), &tasks); err != nil {
		logger.ErrorLogger.Error("Error decoding task matches", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	docCursor, err := config.DB.Collection(repository.Documents).
		Find(c.Context(), bson.M{"name": pattern}, limit)
	if err != nil {
		logger.ErrorLogger.Error("Error searching documents", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	docs := []models.Document{}
	if err := docCursor.All(c.Context(), &docs); err != nil {
		logger.ErrorLogger.Error("Error decoding document matches", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	results := make([]searchResult, 0, len(tasks)+len(docs))
	for _, task := range tasks {
		results = append(results, searchResult{ID: task.ID, Title: task.Title, Type: "task"})
	}
	for _, doc := range docs {
		results = append(results, searchResult{ID: doc.ID, Title: doc.Name, Type: "document"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"results": results,
	})
}

package handlers

import (
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
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

// humanReadableSize renders a byte count in binary megabytes, two decimals.
func humanReadableSize(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
}

// documentType derives the stored type tag from a filename: the extension
// without its dot, upper-cased.
func documentType(filename string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// attachmentName ensures the download filename carries an extension,
// deriving one from the content type when the stored name has none.
// Unknown content types fall back to .bin rather than shipping a bare name.
func attachmentName(name, contentType string) string {
	if filepath.Ext(name) != "" {
		return name
	}
	if contentType != "application/octet-stream" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			return name + exts[0]
		}
	}
	return name + ".bin"
}

func UploadDocument(c *fiber.Ctx) error {
	// Make sure the upload directory exists
	if _, err := os.Stat(config.UploadDir); os.IsNotExist(err) {
		if err := os.MkdirAll(config.UploadDir, os.ModePerm); err != nil {
			logger.ErrorLogger.Error("Error creating upload directory", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
	}

	file, err := c.FormFile("file")
	if err != nil {
		logger.ErrorLogger.Error("Error reading uploaded file", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "File is required",
		})
	}

	// Unique on-disk name based on the upload timestamp
	storedName := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	filePath := path.Join(config.UploadDir, storedName)
	if err := c.SaveFile(file, filePath); err != nil {
		logger.ErrorLogger.Error("Error saving file", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	category := c.FormValue("category")
	if category == "" {
		category = "General"
	}

	uploadedBy, _ := c.Locals("userName").(string)

	doc := models.Document{
		Name:       file.Filename,
		Type:       documentType(file.Filename),
		Size:       humanReadableSize(file.Size),
		UploadedBy: uploadedBy,
		UploadDate: time.Now(),
		Category:   category,
		Path:       filePath,
	}

	result, err := config.DB.Collection(repository.Documents).InsertOne(c.Context(), doc)
	if err != nil {
		logger.ErrorLogger.Error("Error creating document", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	doc.ID = result.InsertedID.(primitive.ObjectID)

	logger.AuditLogger.Info("Document uploaded",
		zap.String("documentID", doc.ID.Hex()),
		zap.String("name", doc.Name),
	)
	return c.JSON(fiber.Map{
		"success":  true,
		"document": doc,
	})
}

func ListDocuments(c *fiber.Ctx) error {
	cursor, err := config.DB.Collection(repository.Documents).
		Find(c.Context(), bson.M{}, options.Find().SetSort(bson.D{{Key: "uploadDate", Value: -1}}))
	if err != nil {
		logger.ErrorLogger.Error("Error fetching documents", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	defer cursor.Close(c.Context())

	docs := []models.Document{}
	if err := cursor.All(c.Context(), &docs); err != nil {
		logger.ErrorLogger.Error("Error decoding documents", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"documents": docs,
	})
}

func DownloadDocument(c *fiber.Ctx) error {
	docID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid document ID",
		})
	}

	var doc models.Document
	err = config.DB.Collection(repository.Documents).
		FindOne(c.Context(), bson.M{"_id": docID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"message": "Not found",
			})
		}
		logger.ErrorLogger.Error("Error fetching document", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	contentType := mime.TypeByExtension(filepath.Ext(doc.Path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fileName := attachmentName(doc.Name, contentType)

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))

	if err := c.SendFile(doc.Path); err != nil {
		logger.ErrorLogger.Error("Error streaming document",
			zap.String("path", doc.Path),
			zap.Error(err),
		)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	logger.AuditLogger.Info("Document downloaded", zap.String("documentID", docID.Hex()))
	return nil
}

func DeleteDocument(c *fiber.Ctx) error {
	docID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Invalid document ID",
		})
	}

	// Removes the metadata row only; the stored file stays on disk.
	// TODO: remove the orphaned file once retention requirements are settled.
	result, err := config.DB.Collection(repository.Documents).
		DeleteOne(c.Context(), bson.M{"_id": docID})
	if err != nil {
		logger.ErrorLogger.Error("Error deleting document", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	if result.DeletedCount == 0 {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"message": "Document not found",
		})
	}

	logger.AuditLogger.Info("Document deleted", zap.String("documentID", docID.Hex()))
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Document deleted",
	})
}

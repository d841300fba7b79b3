package v1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PaoloBaltazar/trackflow-server/internal/api/v1/handlers"
	"github.com/PaoloBaltazar/trackflow-server/internal/middleware"
)

func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth
	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", handlers.Signup)
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/logout", middleware.UseToken, handlers.Logout)
	authRoutes.Post("/is-auth", middleware.UseToken, handlers.IsAuth)
	authRoutes.Post("/send-verify-otp", middleware.UseToken, handlers.SendVerifyOtp)
	authRoutes.Post("/verify-email", middleware.UseToken, handlers.VerifyEmail)
	authRoutes.Post("/send-reset-otp", handlers.SendResetOtp)
	authRoutes.Post("/reset-password", handlers.ResetPassword)

	// User directory
	userRoutes := api.Group("/user", middleware.UseToken)
	userRoutes.Get("/data", handlers.GetUserData)
	userRoutes.Get("/employees", handlers.GetEmployees)

	// Tasks
	taskRoutes := api.Group("/task", middleware.UseToken)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Put("/:id/status", handlers.UpdateTaskStatus)
	taskRoutes.Delete("/:id", handlers.DeleteTask)

	// Documents
	documentRoutes := api.Group("/documents", middleware.UseToken)
	documentRoutes.Get("/", handlers.ListDocuments)
	documentRoutes.Post("/upload", handlers.UploadDocument)
	documentRoutes.Get("/download/:id", handlers.DownloadDocument)
	documentRoutes.Delete("/delete/:id", handlers.DeleteDocument)

	// Notifications
	notificationRoutes := api.Group("/notification", middleware.UseToken)
	notificationRoutes.Get("/", handlers.GetNotifications)
	notificationRoutes.Put("/mark-all-read", handlers.MarkAllNotificationsRead)
	notificationRoutes.Put("/:id/read", handlers.ToggleNotificationRead)
	notificationRoutes.Delete("/:id", handlers.DeleteNotification)

	// Search and dashboard
	api.Get("/search", middleware.UseToken, handlers.Search)
	api.Get("/dashboard", middleware.UseToken, handlers.GetDashboardStats)
}

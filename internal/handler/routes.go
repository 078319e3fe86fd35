package handler

import (
	"quiz-maker/internal/middleware"
	"quiz-maker/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler mounted under /api.
type Handlers struct {
	Auth     *AuthHandler
	Quiz     *QuizHandler
	Category *CategoryHandler
	History  *HistoryHandler
	Review   *ReviewHandler
	Settings *SettingsHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the API. Quiz and category routes accept anonymous callers;
// history, logout and profile routes require a session JWT.
func RegisterRoutes(app *fiber.App, authService service.AuthService, h Handlers) {
	protected := middleware.Protected(authService)
	optional := middleware.OptionalAuth(authService)
	validate := middleware.NewValidationMiddleware()
	jsonBody := middleware.RequireJSON()

	api := app.Group("/api")
	api.Get("/health", h.Health.Health)

	auth := api.Group("/auth")
	auth.Get("/login", h.Auth.Login)
	auth.Get("/callback", h.Auth.Callback)
	auth.Post("/logout", protected, h.Auth.Logout)
	auth.Get("/me", protected, h.Auth.Me)

	api.Get("/categories", optional, h.Category.GetCategories)
	api.Post("/categories", optional, jsonBody, h.Category.AddCategory)
	api.Delete("/categories/:name", optional, validate.ValidateCategoryName(), h.Category.DeleteCategory)
	api.Get("/difficulties", h.Category.GetDifficulties)

	sessions := api.Group("/quiz/sessions", optional)
	sessions.Post("/", jsonBody, h.Quiz.StartQuiz)
	sessions.Get("/:id", validate.ValidateSessionID(), h.Quiz.GetSession)
	sessions.Post("/:id/answers", validate.ValidateSessionID(), jsonBody, h.Quiz.SubmitAnswer)
	sessions.Delete("/:id", validate.ValidateSessionID(), h.Quiz.QuitQuiz)
	sessions.Get("/:id/result", validate.ValidateSessionID(), h.Quiz.GetResult)

	api.Get("/history", protected, h.History.GetHistory)

	api.Post("/reviews", jsonBody, h.Review.SubmitReview)
	api.Get("/admin/reviews/stats", protected, middleware.AdminOnly(authService), h.Review.GetReviewStats)

	api.Get("/settings", h.Settings.GetSettings)
	api.Put("/settings/theme", jsonBody, h.Settings.SetTheme)
}

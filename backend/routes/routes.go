package routes

import (
	"errors"

	"learnhub/backend/config"
	"learnhub/backend/controllers"
	"learnhub/backend/middleware"
	"learnhub/backend/payments"
	"learnhub/backend/services"
	"learnhub/backend/store"
	"learnhub/backend/uploads"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// Dependencies are the clients the handlers run against. Payments and
// Uploader may be nil when the matching credentials are not configured.
type Dependencies struct {
	Cfg      *config.Config
	Log      *zap.Logger
	Store    *store.Store
	Payments payments.Provider
	Uploader uploads.VideoUploader
}

// NewApp builds the fiber app with the shared middleware stack and every
// route registered.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "learnhub",
		ErrorHandler: errorHandler,
	})

	app.Use(requestid.New())
	app.Use(middleware.LoggingMiddleware(deps.Log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	SetupRoutes(app, deps)
	return app
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return utils.Success(c, "ok", nil)
	})

	// Middleware
	authMiddleware := middleware.AuthMiddleware(deps.Cfg)
	selfMiddleware := middleware.SelfMiddleware()

	// Courses routes
	coursesController := controllers.NewCoursesController(deps.Store.Courses, deps.Uploader, deps.Cfg, deps.Log)
	commentsController := controllers.NewCommentsController(deps.Store.Courses)
	courses := app.Group("/courses")
	courses.Get("/", coursesController.ListCourses)
	courses.Post("/", authMiddleware, coursesController.CreateCourse)
	courses.Post("/upload-url", authMiddleware, coursesController.GetUploadVideoURL)
	courses.Get("/:courseId", coursesController.GetCourse)
	courses.Put("/:courseId", authMiddleware, coursesController.UpdateCourse)
	courses.Delete("/:courseId", authMiddleware, coursesController.DeleteCourse)
	courses.Get("/:courseId/sections/:sectionId/chapters/:chapterId/comments", authMiddleware, commentsController.GetChapterComments)
	courses.Post("/:courseId/sections/:sectionId/chapters/:chapterId/comments", authMiddleware, commentsController.AddChapterComment)

	// Transactions routes
	var verifier payments.Provider
	if deps.Cfg.RequirePaymentVerification {
		verifier = deps.Payments
	}
	purchases := services.NewPurchaseService(deps.Log, deps.Store, verifier)
	transactionsController := controllers.NewTransactionsController(deps.Store.Transactions, deps.Payments, purchases, deps.Log)
	transactions := app.Group("/transactions", authMiddleware)
	transactions.Get("/", transactionsController.ListTransactions)
	transactions.Post("/", transactionsController.CreateTransaction)
	transactions.Post("/payment-intent", transactionsController.CreateStripePaymentIntent)

	// User course progress routes
	progressController := controllers.NewProgressController(deps.Store.Progress, deps.Store.Courses)
	users := app.Group("/users")
	users.Get("/:userId/enrolled-courses", authMiddleware, selfMiddleware, progressController.GetUserEnrolledCourses)
	users.Get("/:userId/courses/:courseId/progress", authMiddleware, selfMiddleware, progressController.GetUserCourseProgress)
	users.Put("/:userId/courses/:courseId/progress", authMiddleware, selfMiddleware, progressController.UpdateUserCourseProgress)
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}
	return utils.Error(c, status, message, nil)
}

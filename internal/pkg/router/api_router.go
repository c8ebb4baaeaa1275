package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"coursebox/app/controllers"
	"coursebox/app/repository"
	"coursebox/internal/pkg/constants"
	"coursebox/internal/pkg/middleware"
	"coursebox/internal/pkg/payments"
	"coursebox/internal/pkg/security"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	tokenManager := security.NewTokenManagerFromEnv()
	controllers.SetTokenManager(tokenManager)
	controllers.SetPaymentService(payments.NewService(
		payments.NewStripeClientFromEnv(),
		repository.GetGlobalRepositories(),
	))

	// Bearer token resolution runs on every API request; handlers decide
	// what anonymous callers may do.
	api := app.Group(constants.APIPrefix, limiter.New(), middleware.UserContextMiddleware(tokenManager))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "coursebox api",
		})
	})

	v1 := api.Group(constants.APIV1Prefix)

	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)

	users := v1.Group("/users", middleware.RequireAuth)
	users.Get("/", middleware.RequireStaff, controllers.HandleListUsers)
	users.Get("/:id", controllers.HandleGetUser)
	users.Patch("/:id", controllers.HandleUpdateUser)

	courses := v1.Group("/courses", middleware.RequireAuth)
	courses.Get("/", controllers.HandleListCourses)
	courses.Post("/", controllers.HandleCreateCourse)
	courses.Get("/:id", controllers.HandleGetCourse)
	courses.Patch("/:id", controllers.HandleUpdateCourse)
	courses.Delete("/:id", controllers.HandleDeleteCourse)

	lessons := v1.Group("/lessons", middleware.RequireAuth)
	lessons.Get("/", controllers.HandleListLessons)
	lessons.Post("/", controllers.HandleCreateLesson)
	lessons.Get("/:id", controllers.HandleGetLesson)
	lessons.Patch("/:id", controllers.HandleUpdateLesson)
	lessons.Delete("/:id", controllers.HandleDeleteLesson)

	v1.Post("/subscriptions", middleware.RequireAuth, controllers.HandleToggleSubscription)

	paymentsGroup := v1.Group("/payments", middleware.RequireAuth)
	paymentsGroup.Get("/", controllers.HandleListPayments)
	paymentsGroup.Post("/", controllers.HandleCreatePayment)
	paymentsGroup.Get("/:id/status", controllers.HandlePaymentStatus)
}

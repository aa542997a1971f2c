package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Omondi01/sciencefair-system/handlers"
	"github.com/Omondi01/sciencefair-system/middleware"
	"github.com/Omondi01/sciencefair-system/models"
)

// SetupRoutes mounts the full portal API. Rankings and the live
// websocket are public; everything else requires a valid token, with
// role guards on the administrative surfaces.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	assignmentHandler *handlers.AssignmentHandler,
	rankingHandler *handlers.RankingHandler,
	publishHandler *handlers.PublishHandler,
	dashboardHandler *handlers.DashboardHandler,
	editionHandler *handlers.EditionHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	// Public read surface for spectators.
	router.Get("/rankings/{level}", rankingHandler.GetRankings)
	router.Get("/ws/levels/{level}", webSocketHandler.ServeWs)

	router.Route("/users", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/me", userHandler.GetMe)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthorizeAdmin)
			r.Get("/", userHandler.List)
			r.Get("/{userID}", userHandler.GetByID)
			r.Put("/{userID}/roles", userHandler.UpdateRoles)
		})
	})

	router.Route("/projects", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/", projectHandler.List)
		r.Get("/{projectID}", projectHandler.GetByID)
		r.Get("/{projectID}/scores/{level}", rankingHandler.GetProjectScore)
		r.Post("/{projectID}/certificates/{level}", rankingHandler.GenerateCertificate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.RolePatron))
			r.Post("/", projectHandler.Create)
		})

		r.Put("/{projectID}", projectHandler.Update)
		r.Delete("/{projectID}", projectHandler.Delete)
	})

	router.Route("/assignments", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthorizeAdmin)
			r.Post("/", assignmentHandler.AssignJudges)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.RoleJudge, models.RoleCoordinator))
			r.Get("/mine", assignmentHandler.ListMine)
			r.Put("/{assignmentID}/progress", assignmentHandler.MarkInProgress)
			r.Put("/{assignmentID}/score", assignmentHandler.SubmitScore)
		})
	})

	router.Route("/arbitration", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(
			models.RoleCoordinator,
			models.RoleSubCountyAdmin,
			models.RoleCountyAdmin,
			models.RoleRegionalAdmin,
			models.RoleNationalAdmin,
			models.RoleSuperAdmin,
		))
		r.Get("/", rankingHandler.ArbitrationQueue)
	})

	router.Route("/levels/{level}", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.AuthorizeAdmin)

		r.Post("/publish", publishHandler.Publish)
		r.Post("/rollback", publishHandler.Rollback)
		r.Get("/can-rollback", publishHandler.CanRollback)
	})

	router.Route("/editions", func(r chi.Router) {
		r.Get("/active", editionHandler.GetActive)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.AuthorizeAdmin)
			r.Get("/", editionHandler.List)
			r.Post("/", editionHandler.Create)
		})
	})

	router.Route("/dashboard", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.AuthorizeAdmin)
		r.Get("/", dashboardHandler.GetStats)
		r.Get("/activity", dashboardHandler.RecentActivity)
	})
}

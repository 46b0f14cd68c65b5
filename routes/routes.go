package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/football-cup/handlers"
	"github.com/Dosada05/football-cup/middleware"
	"github.com/Dosada05/football-cup/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps bundles what the router needs.
type Deps struct {
	AuthHandler       *handlers.AuthHandler
	TeamHandler       *handlers.TeamHandler
	MatchHandler      *handlers.MatchHandler
	UserHandler       *handlers.UserHandler
	DashboardHandler  *handlers.DashboardHandler
	TournamentHandler *handlers.TournamentHandler

	JWTSecret      []byte
	AllowedOrigins []string
	LoginLimiter   *middleware.IPRateLimiter
	Metrics        http.Handler
}

func SetupRoutes(router chi.Router, deps Deps) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(30 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	requireAdmin := func(r chi.Router) {
		r.Use(middleware.Authenticate(deps.JWTSecret))
		r.Use(middleware.Authorize(models.RoleAdmin))
	}

	router.Route("/auth", func(r chi.Router) {
		if deps.LoginLimiter != nil {
			r.Use(deps.LoginLimiter.Middleware)
		}
		r.Post("/login", deps.AuthHandler.Login)
	})

	router.Route("/users", func(r chi.Router) {
		r.With(middleware.Authenticate(deps.JWTSecret)).Get("/me", deps.UserHandler.GetMe)

		r.Group(func(r chi.Router) {
			requireAdmin(r)
			r.Post("/", deps.UserHandler.CreateUser)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", deps.TeamHandler.ListTeams)
		r.Get("/{teamID}", deps.TeamHandler.GetTeamByID)

		r.Group(func(r chi.Router) {
			requireAdmin(r)
			r.Post("/", deps.TeamHandler.CreateTeam)
			r.Post("/{teamID}/logo", deps.TeamHandler.UploadTeamLogo)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", deps.MatchHandler.ListMatches)
		r.Get("/{matchID}", deps.MatchHandler.GetMatchByID)

		r.Group(func(r chi.Router) {
			requireAdmin(r)
			r.Post("/", deps.MatchHandler.CreateFixture)
			r.Put("/{matchID}/result", deps.MatchHandler.RecordResult)
		})
	})

	router.Route("/standings", func(r chi.Router) {
		r.Get("/", deps.TournamentHandler.GetStandings)
		r.Get("/groups", deps.TournamentHandler.GetGroupStandings)
		r.Get("/qualifiers", deps.TournamentHandler.GetQualifiers)
		r.Get("/export.xlsx", deps.TournamentHandler.ExportStandings)
	})

	router.Get("/progress", deps.TournamentHandler.GetProgress)
	router.Get("/champion", deps.TournamentHandler.GetChampion)
	router.Get("/draws", deps.TournamentHandler.GetDrawHistory)
	router.Get("/stats", deps.DashboardHandler.Stats)

	router.Group(func(r chi.Router) {
		requireAdmin(r)
		r.Post("/draws/groups", deps.TournamentHandler.DrawGroups)
		r.Post("/fixtures/groups", deps.TournamentHandler.GenerateGroupFixtures)
		r.Post("/phases/quarterfinal", deps.TournamentHandler.GenerateQuarterfinals)
		r.Post("/phases/semifinal", deps.TournamentHandler.GenerateSemifinals)
		r.Post("/phases/final", deps.TournamentHandler.GenerateFinal)
	})

	if deps.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", deps.Metrics)
	}
	router.Get("/swagger/doc.json", handlers.OpenAPIDocument)
	router.Get("/swagger/*", handlers.SwaggerUI("/swagger/doc.json"))
}

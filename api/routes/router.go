package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avenirinteriors/estimation-backend/api/controllers"
	"github.com/avenirinteriors/estimation-backend/api/middleware"
	"github.com/avenirinteriors/estimation-backend/internal/customers"
	"github.com/avenirinteriors/estimation-backend/internal/estimates"
	"github.com/avenirinteriors/estimation-backend/internal/notifications"
	"github.com/avenirinteriors/estimation-backend/internal/teams"
	"github.com/avenirinteriors/estimation-backend/internal/workflow"
	"github.com/avenirinteriors/estimation-backend/pkg/config"
	"github.com/avenirinteriors/estimation-backend/pkg/db"
	"github.com/avenirinteriors/estimation-backend/pkg/logger"
	"github.com/avenirinteriors/estimation-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	estimatesService estimates.Service,
	promotionEngine *workflow.Engine,
	notificationsService notifications.Service,
	customersService customers.Service,
	teamsService teams.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.Idempotency(redisClient, logg),
		)

		r.Route("/estimates", func(r chi.Router) {
			r.Get("/assigned", controllers.AssignedEstimates(estimatesService, logg))

			r.Route("/{category}", func(r chi.Router) {
				r.Post("/", controllers.CreateEstimate(estimatesService, logg))
				r.Get("/", controllers.ListEstimates(estimatesService, logg))
				r.Get("/summary", controllers.EstimateSummary(estimatesService, logg))
				r.Get("/next-version", controllers.NextEstimateVersion(estimatesService, logg))
				r.Post("/promote", controllers.PromoteEstimate(promotionEngine, logg))
				r.Get("/{estimateID}", controllers.GetEstimate(estimatesService, logg))
				r.Delete("/{estimateID}", controllers.DeleteEstimate(estimatesService, logg))
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Get("/unseen-count", controllers.UnseenNotificationCount(notificationsService, logg))
			r.Post("/seen-all", controllers.MarkAllNotificationsSeen(notificationsService, logg))
			r.Post("/{notificationID}/seen", controllers.MarkNotificationSeen(notificationsService, logg))
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", controllers.ListMyTeams(teamsService, logg))
			r.Get("/{teamID}/members", controllers.ListTeamMembers(teamsService, logg))
			r.Post("/{teamID}/members", controllers.AddTeamMember(teamsService, logg))
			r.Delete("/{teamID}/members/{userID}", controllers.RemoveTeamMember(teamsService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CreateCustomer(customersService, logg))
			r.Get("/", controllers.ListCustomers(customersService, logg))
			r.Get("/{customerID}", controllers.GetCustomer(customersService, logg))
			r.Patch("/{customerID}", controllers.UpdateCustomer(customersService, logg))
			r.Delete("/{customerID}", controllers.DeleteCustomer(customersService, logg))
		})
	})

	return r
}

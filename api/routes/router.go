package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirayahq/kiraya-backend/api/controllers"
	"github.com/kirayahq/kiraya-backend/api/middleware"
	"github.com/kirayahq/kiraya-backend/internal/notifications"
	"github.com/kirayahq/kiraya-backend/internal/payments"
	"github.com/kirayahq/kiraya-backend/internal/referrals"
	"github.com/kirayahq/kiraya-backend/internal/refunds"
	"github.com/kirayahq/kiraya-backend/internal/reservations"
	"github.com/kirayahq/kiraya-backend/pkg/config"
	"github.com/kirayahq/kiraya-backend/pkg/enums"
	"github.com/kirayahq/kiraya-backend/pkg/logger"
	"github.com/kirayahq/kiraya-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            redis.Pinger
	Redis         *redis.Client
	Registry      *prometheus.Registry
	Reservations  reservations.Service
	Payments      payments.Service
	Refunds       refunds.Service
	Referrals     referrals.Service
	Notifications notifications.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		tenant := string(enums.UserRoleClient)
		advertiser := string(enums.UserRoleAdvertiser)
		admin := string(enums.UserRoleAdmin)

		r.Route("/reservations", func(r chi.Router) {
			r.With(middleware.RequireAnyRole(logg, tenant, admin)).Post("/", controllers.CreateReservation(deps.Reservations, logg))
			r.Get("/", controllers.ListTenantReservations(deps.Reservations, logg))
			r.Get("/{reservationID}", controllers.GetReservation(deps.Reservations, logg))

			r.With(middleware.RequireAnyRole(logg, advertiser, admin)).Post("/{reservationID}/approve", controllers.ApproveReservation(deps.Reservations, logg))
			r.With(middleware.RequireAnyRole(logg, advertiser, admin)).Post("/{reservationID}/reject", controllers.RejectReservation(deps.Reservations, logg))
			r.With(middleware.RequireAnyRole(logg, tenant, admin)).Post("/{reservationID}/counter-offer", controllers.RespondCounterOffer(deps.Reservations, logg))

			r.With(middleware.RequireAnyRole(logg, tenant, admin)).Post("/{reservationID}/pay", controllers.PayReservation(deps.Reservations, logg))
			r.With(middleware.RequireAnyRole(logg, tenant, admin)).Post("/{reservationID}/move-in", controllers.MoveInReservation(deps.Reservations, logg))
			r.With(middleware.RequireAnyRole(logg, tenant, admin)).Post("/{reservationID}/cancel", controllers.CancelReservation(deps.Reservations, logg))

			r.With(middleware.RequireAnyRole(logg, tenant, admin)).Post("/{reservationID}/refund", controllers.RequestRefund(deps.Refunds, logg))
			r.With(middleware.RequireAnyRole(logg, tenant, admin)).Post("/{reservationID}/standard-cancellation", controllers.StandardCancellation(deps.Refunds, logg))
		})

		r.Route("/advertiser", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, advertiser, admin))
			r.Get("/reservations", controllers.ListAdvertiserReservations(deps.Reservations, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			paymentLimit := middleware.UserRateLimit("payments", 10, time.Minute, deps.Redis, logg)
			r.Get("/", controllers.ListUserPayments(deps.Payments, logg))
			r.With(paymentLimit).Post("/{reservationID}/process", controllers.ProcessPayment(deps.Payments, logg))
			r.With(paymentLimit).Post("/{reservationID}/move-in", controllers.PaymentMoveIn(deps.Payments, logg))
		})

		r.Route("/refunds", func(r chi.Router) {
			r.Get("/", controllers.ListRefundRequests(deps.Refunds, logg))
		})

		r.Route("/referrals", func(r chi.Router) {
			r.Post("/apply", controllers.ApplyReferralCode(deps.Referrals, logg))
			r.Get("/discount", controllers.GetUserDiscount(deps.Referrals, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})
	})

	return r
}

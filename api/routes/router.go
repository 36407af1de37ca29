package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/borrowbox/borrowbox-backend/api/controllers"
	"github.com/borrowbox/borrowbox-backend/api/middleware"
	itemsvc "github.com/borrowbox/borrowbox-backend/internal/items"
	lendingsvc "github.com/borrowbox/borrowbox-backend/internal/lending"
	mediasvc "github.com/borrowbox/borrowbox-backend/internal/media"
	profilesvc "github.com/borrowbox/borrowbox-backend/internal/profiles"
	"github.com/borrowbox/borrowbox-backend/pkg/config"
	"github.com/borrowbox/borrowbox-backend/pkg/logger"
	"github.com/borrowbox/borrowbox-backend/pkg/metrics"
	"github.com/borrowbox/borrowbox-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface depends on. Optional
// collaborators (redis, metrics, media) may be nil and their routes or
// middleware degrade gracefully.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	Readiness   map[string]controllers.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics

	Items    itemsvc.Service
	Lending  lendingsvc.Service
	Profiles profilesvc.Service
	Media    mediasvc.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(params.HTTPMetrics),
		middleware.CORS(),
	)
	if params.Redis != nil {
		r.Use(middleware.Idempotency(params.Redis, logg))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.Readiness))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/items", func(r chi.Router) {
		r.Post("/", controllers.CreateItem(params.Items, logg))
		r.Get("/", controllers.ListItems(params.Items, logg))
		r.Get("/{itemId}", controllers.GetItem(params.Items, logg))
		r.Patch("/{itemId}", controllers.UpdateItem(params.Items, logg))
		r.Delete("/{itemId}", controllers.DeleteItem(params.Items, logg))
		r.Get("/owner/{ownerId}", controllers.ListItemsByOwner(params.Items, logg))
		r.Get("/borrower/{borrowerId}", controllers.ListItemsByBorrower(params.Items, logg))
		r.Post("/{itemId}/borrow", controllers.BorrowItem(params.Lending, params.Items, logg))
		r.Post("/{itemId}/return", controllers.ReturnItem(params.Lending, params.Items, logg))
	})

	r.Route("/api/v1/requests", func(r chi.Router) {
		r.Post("/", controllers.SubmitRequest(params.Lending, logg))
		r.Get("/{requestId}", controllers.GetRequest(params.Lending, logg))
		r.Get("/owner/{ownerId}", controllers.ListOwnerRequests(params.Lending, logg))
		r.Post("/{requestId}/respond", controllers.RespondToRequest(params.Lending, logg))
	})

	r.Route("/api/v1/profiles", func(r chi.Router) {
		r.Post("/", controllers.CreateProfile(params.Profiles, logg))
		r.Get("/{profileId}", controllers.GetProfile(params.Profiles, logg))
		r.Get("/by-email", controllers.GetProfileByEmail(params.Profiles, logg))
		r.Patch("/{profileId}", controllers.UpdateProfile(params.Profiles, logg))
		r.Delete("/{profileId}", controllers.DeleteProfile(params.Profiles, logg))
	})

	if params.Media != nil {
		r.Route("/api/v1/media", func(r chi.Router) {
			r.Post("/upload", controllers.UploadMedia(params.Media, cfg.Media.MaxUploadMB, logg))
		})
	}

	return r
}

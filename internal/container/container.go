package container

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/rendez/internal/cache"
	"github.com/joshua-takyi/rendez/internal/config"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/media"
	"github.com/joshua-takyi/rendez/internal/metrics"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Clients are the external connections opened in main. Only the client for
// the selected store backend is required; the rest may be nil.
type Clients struct {
	Supabase   *supabase.Client
	Postgres   *sql.DB
	Mongo      *mongo.Client
	Redis      *redis.Client
	Cloudinary *cloudinary.Cloudinary
	Tokens     *helpers.TokenValidator
}

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Clients Clients

	VenueService     *services.VenuesService
	EventService     *services.EventsService
	RSVPService      *services.RSVPService
	EventViewService *services.EventViewService
	IdentityService  *services.IdentityService
}

type store interface {
	models.VenuesRepo
	models.EventsRepo
	models.RSVPRepo
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, clients Clients) (*Container, error) {
	primary, err := selectStore(cfg, clients)
	if err != nil {
		return nil, err
	}

	var venues models.VenuesRepo = primary
	var events models.EventsRepo = primary
	if clients.Redis != nil {
		rc := cache.NewRedisCache(clients.Redis, models.DBName)
		venues = cache.NewVenues(primary, rc, cfg.CacheTTL, logger, m)
		events = cache.NewEvents(primary, rc, cfg.CacheTTL, logger, m)
		logger.Info("catalog cache enabled", "ttl", cfg.CacheTTL)
	}

	deps := services.Deps{Logger: logger, Metrics: m}
	if clients.Cloudinary != nil {
		deps.Uploader = media.NewCloudinaryUploader(clients.Cloudinary, models.DBName)
	}

	rsvpService := services.NewRSVPService(primary, events, deps)
	identityRepo := models.SupabaseNewRepo(clients.Supabase, cfg.Supabase.URL, cfg.Supabase.AnonKey)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Metrics:          m,
		Clients:          clients,
		VenueService:     services.NewVenuesService(venues, deps),
		EventService:     services.NewEventsService(events, venues, cfg.Location(), deps),
		RSVPService:      rsvpService,
		EventViewService: services.NewEventViewService(events, venues, rsvpService, deps),
		IdentityService:  services.NewIdentityService(identityRepo, clients.Tokens),
	}, nil
}

func selectStore(cfg *config.Config, clients Clients) (store, error) {
	switch cfg.StoreBackend {
	case config.BackendSupabase:
		if clients.Supabase == nil {
			return nil, errors.New("supabase backend selected but no client was provided")
		}
		return models.SupabaseNewRepo(clients.Supabase, cfg.Supabase.URL, cfg.Supabase.AnonKey), nil
	case config.BackendPostgres:
		if clients.Postgres == nil {
			return nil, errors.New("postgres backend selected but no connection was provided")
		}
		return models.PostgresNewRepo(clients.Postgres), nil
	case config.BackendMongo:
		if clients.Mongo == nil {
			return nil, errors.New("mongo backend selected but no client was provided")
		}
		return models.MongodbNewRepo(clients.Mongo, cfg.Mongo.Database), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

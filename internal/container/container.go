package container

import (
	"log/slog"

	"github.com/EGS-Tourist-Guide/event-service/internal/clients"
	"github.com/EGS-Tourist-Guide/event-service/internal/config"
	"github.com/EGS-Tourist-Guide/event-service/internal/models"
	"github.com/EGS-Tourist-Guide/event-service/internal/services"
	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger        *slog.Logger
	MongoDBClient *mongo.Client

	EventService    *services.EventService
	FavoriteService *services.FavoriteService
	KeyService      *services.KeyService
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger, mongoDBClient *mongo.Client, cld *cloudinary.Cloudinary) *Container {
	repo := models.MongodbNewRepo(mongoDBClient, cfg.DatabaseName)

	calendar := clients.NewCalendarClient(cfg.CalendarServiceURL, cfg.CalendarServiceKey)
	poi := clients.NewPoiClient(cfg.PoiServiceURL, cfg.PoiServiceKey)
	files := clients.NewCloudinaryStore(cld)

	return &Container{
		Logger:          logger,
		MongoDBClient:   mongoDBClient,
		EventService:    services.NewEventService(repo, calendar, poi, files, logger),
		FavoriteService: services.NewFavoriteService(repo),
		KeyService:      services.NewKeyService(repo, cfg.Secret),
	}
}

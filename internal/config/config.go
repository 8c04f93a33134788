package config

import (
	"fmt"
	"os"
	"regexp"
)

type Config struct {
	Port        string
	Secret      string
	Environment string
	LogLevel    string

	DatabaseURI  string
	DatabaseName string
	AppName      string

	CalendarServiceURL string
	CalendarServiceKey string

	PoiServiceURL string
	PoiServiceKey string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

// Domain constants shared by validation and the record store gateway.
var (
	AllowedCategories = []string{"business", "conference", "culture", "networking", "technology", "sports", "wellness", "workshop"}

	AllowedSearchParams = []string{"limit", "offset", "search", "name", "organizer", "city", "category", "startdate", "beforedate", "afterdate", "maxprice"}

	// Fields matched by the generic <search> query parameter.
	GenericSearchFields = []string{"name", "organizer", "category"}

	PriceFormatReq   = regexp.MustCompile(`^(EUR|USD|GBP)\d+\.\d{2}$`)
	PriceFormatQuery = regexp.MustCompile(`^\d+\.\d{2}$`)
)

const (
	DefaultListLimit = 25
	MaxListLimit     = 50

	// Image upload constraints.
	MaxFileSizeMB   = 10
	AllowedFileType = "image/jpeg"
)

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnvWithDefault("API_PORT", "3000"),
		Secret:      getEnvWithDefault("API_SECRET", "secret"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),

		DatabaseURI:  os.Getenv("DATABASE_URI"),
		DatabaseName: getEnvWithDefault("DATABASE_NAME", "event-service"),
		AppName:      getEnvWithDefault("API_NAME", "event-service"),

		CalendarServiceURL: os.Getenv("CALENDAR_SERVICE_URL"),
		CalendarServiceKey: os.Getenv("CALENDAR_SERVICE_KEY"),

		PoiServiceURL: os.Getenv("POI_SERVICE_URL"),
		PoiServiceKey: os.Getenv("POI_SERVICE_KEY"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}

	// Validate required fields
	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("DATABASE_URI is required")
	}
	if cfg.CalendarServiceURL == "" {
		return nil, fmt.Errorf("CALENDAR_SERVICE_URL is required")
	}
	if cfg.PoiServiceURL == "" {
		return nil, fmt.Errorf("POI_SERVICE_URL is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

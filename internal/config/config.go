package config

import (
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTransportBaseURL = "https://transport.opendata.ch/v1/"
	DefaultWeatherBaseURL   = "https://api.openweathermap.org/data/2.5/"
	DefaultTimezone         = "Europe/Zurich"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level

	TransportBaseURL string
	TransportTimeout time.Duration
	DepartureLimit   int

	WeatherBaseURL string
	WeatherAPIKey  string
	WeatherTimeout time.Duration
	WeatherRPS     float64
	WeatherBurst   int

	Timezone     string
	StationsFile string

	FavoritesBackend string
	FavoritesKey     string
	SQLitePath       string
	PostgresURL      string
	DynamoTable      string
	DynamoEndpoint   string
	S3Bucket         string
	S3Prefix         string
	S3Endpoint       string

	HTTPAddr string

	MQTTBroker   string
	MQTTClientID string

	HomeLatitude  *float64
	HomeLongitude *float64
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithTransport sets the transit API base URL and timeout
func WithTransport(baseURL string, timeout time.Duration) Option {
	return func(c *Config) {
		c.TransportBaseURL = baseURL
		c.TransportTimeout = timeout
	}
}

// WithWeather sets the weather API base URL, key and timeout
func WithWeather(baseURL, apiKey string, timeout time.Duration) Option {
	return func(c *Config) {
		c.WeatherBaseURL = baseURL
		c.WeatherAPIKey = apiKey
		c.WeatherTimeout = timeout
	}
}

// WithWeatherRateLimit sets the weather request budget
func WithWeatherRateLimit(rps float64, burst int) Option {
	return func(c *Config) {
		c.WeatherRPS = rps
		c.WeatherBurst = burst
	}
}

func WithTimezone(tz string) Option {
	return func(c *Config) {
		c.Timezone = tz
	}
}

func WithStationsFile(path string) Option {
	return func(c *Config) {
		c.StationsFile = path
	}
}

// WithFavoritesBackend selects the key-value backend used for favorites
func WithFavoritesBackend(backend string) Option {
	return func(c *Config) {
		c.FavoritesBackend = backend
	}
}

func WithHTTPAddr(addr string) Option {
	return func(c *Config) {
		c.HTTPAddr = addr
	}
}

func WithMQTT(broker, clientID string) Option {
	return func(c *Config) {
		c.MQTTBroker = broker
		c.MQTTClientID = clientID
	}
}

// WithHomeLocation sets the location used to pick the home station
func WithHomeLocation(lat, lon float64) Option {
	return func(c *Config) {
		c.HomeLatitude = &lat
		c.HomeLongitude = &lon
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:      "production",
		LogLevel:         zerolog.InfoLevel,
		TransportBaseURL: DefaultTransportBaseURL,
		TransportTimeout: 30 * time.Second,
		DepartureLimit:   50,
		WeatherBaseURL:   DefaultWeatherBaseURL,
		WeatherTimeout:   15 * time.Second,
		WeatherRPS:       1,
		WeatherBurst:     5,
		Timezone:         DefaultTimezone,
		FavoritesBackend: "memory",
		FavoritesKey:     "favorite_stations",
		SQLitePath:       "nextwave.db",
		DynamoTable:      "nextwave-favorites",
		S3Prefix:         "nextwave_favorites/",
		HTTPAddr:         ":8080",
		MQTTClientID:     "nextwave-refresher",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Location returns the service time zone, falling back to UTC when the
// zone database does not know it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.Timezone).Msg("Unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// LoadFromEnv loads configuration from environment variables, reading a
// .env file first when one is present.
func LoadFromEnv() *Config {
	_ = godotenv.Load()

	opts := []Option{
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithTransport(
			getEnvOrDefault("TRANSPORT_BASE_URL", DefaultTransportBaseURL),
			getDurationEnvOrDefault("TRANSPORT_TIMEOUT", 30*time.Second),
		),
		WithWeather(
			getEnvOrDefault("WEATHER_BASE_URL", DefaultWeatherBaseURL),
			os.Getenv("OPENWEATHER_API_KEY"),
			getDurationEnvOrDefault("WEATHER_TIMEOUT", 15*time.Second),
		),
		WithWeatherRateLimit(
			getFloatEnvOrDefault("WEATHER_RPS", 1),
			getEnvInt("WEATHER_BURST", 5),
		),
		WithTimezone(getEnvOrDefault("TZ_NAME", DefaultTimezone)),
		WithStationsFile(os.Getenv("STATIONS_FILE")),
		WithFavoritesBackend(getEnvOrDefault("FAVORITES_BACKEND", "memory")),
		WithHTTPAddr(getEnvOrDefault("HTTP_ADDR", ":8080")),
		WithMQTT(os.Getenv("MQTT_BROKER"), getEnvOrDefault("MQTT_CLIENT_ID", "nextwave-refresher")),
		func(c *Config) {
			c.DepartureLimit = getEnvInt("DEPARTURE_LIMIT", c.DepartureLimit)
			c.SQLitePath = getEnvOrDefault("SQLITE_PATH", c.SQLitePath)
			c.PostgresURL = os.Getenv("DATABASE_URL")
			c.DynamoTable = getEnvOrDefault("DYNAMODB_TABLE", c.DynamoTable)
			c.DynamoEndpoint = os.Getenv("DYNAMODB_ENDPOINT")
			c.S3Bucket = os.Getenv("S3_BUCKET")
			c.S3Prefix = getEnvOrDefault("S3_PREFIX", c.S3Prefix)
			c.S3Endpoint = os.Getenv("S3_ENDPOINT")
		},
	}

	lat, latErr := strconv.ParseFloat(os.Getenv("HOME_LAT"), 64)
	lon, lonErr := strconv.ParseFloat(os.Getenv("HOME_LON"), 64)
	if latErr == nil && lonErr == nil {
		opts = append(opts, WithHomeLocation(lat, lon))
	}

	return New(opts...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getFloatEnvOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

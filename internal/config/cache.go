package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// Current weather cache
	WeatherLRUSize       int
	WeatherLRUTTLMinutes int

	// Forecast cache, shared by tomorrow and specific-time lookups
	ForecastLRUSize       int
	ForecastLRUTTLMinutes int

	// Pressure trend window
	PressureWindowHours int

	// Station list cache
	StationListTTLHours int

	// Refresh loop intervals
	DepartureRefreshSeconds int
	WeatherRefreshMinutes   int

	EnableSingleflight bool
}

const (
	// Default values
	defaultWeatherLRUSize         = 500
	defaultWeatherTTLMinutes      = 5
	defaultForecastLRUSize        = 2000
	defaultForecastTTLMinutes     = 60
	defaultPressureWindowHours    = 6
	defaultStationListTTLHours    = 24
	defaultDepartureRefreshSecond = 60
	defaultWeatherRefreshMinutes  = 5
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		WeatherLRUSize:          getEnvInt("CACHE_WEATHER_LRU_SIZE", defaultWeatherLRUSize),
		WeatherLRUTTLMinutes:    getEnvInt("CACHE_WEATHER_TTL_MINUTES", defaultWeatherTTLMinutes),
		ForecastLRUSize:         getEnvInt("CACHE_FORECAST_LRU_SIZE", defaultForecastLRUSize),
		ForecastLRUTTLMinutes:   getEnvInt("CACHE_FORECAST_TTL_MINUTES", defaultForecastTTLMinutes),
		PressureWindowHours:     getEnvInt("PRESSURE_WINDOW_HOURS", defaultPressureWindowHours),
		StationListTTLHours:     getEnvInt("CACHE_STATION_LIST_TTL_HOURS", defaultStationListTTLHours),
		DepartureRefreshSeconds: getEnvInt("REFRESH_DEPARTURES_SECONDS", defaultDepartureRefreshSecond),
		WeatherRefreshMinutes:   getEnvInt("REFRESH_WEATHER_MINUTES", defaultWeatherRefreshMinutes),
		EnableSingleflight:      getEnvBool("CACHE_ENABLE_SINGLEFLIGHT", true),
	}

	log.Debug().
		Int("WeatherLRUSize", config.WeatherLRUSize).
		Int("WeatherLRUTTLMinutes", config.WeatherLRUTTLMinutes).
		Int("ForecastLRUSize", config.ForecastLRUSize).
		Int("ForecastLRUTTLMinutes", config.ForecastLRUTTLMinutes).
		Int("PressureWindowHours", config.PressureWindowHours).
		Int("StationListTTLHours", config.StationListTTLHours).
		Int("DepartureRefreshSeconds", config.DepartureRefreshSeconds).
		Int("WeatherRefreshMinutes", config.WeatherRefreshMinutes).
		Bool("EnableSingleflight", config.EnableSingleflight).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetWeatherTTL() time.Duration {
	return time.Duration(c.WeatherLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetForecastTTL() time.Duration {
	return time.Duration(c.ForecastLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetPressureWindow() time.Duration {
	return time.Duration(c.PressureWindowHours) * time.Hour
}

func (c *CacheConfig) GetStationListTTL() time.Duration {
	return time.Duration(c.StationListTTLHours) * time.Hour
}

func (c *CacheConfig) GetDepartureRefreshInterval() time.Duration {
	return time.Duration(c.DepartureRefreshSeconds) * time.Second
}

func (c *CacheConfig) GetWeatherRefreshInterval() time.Duration {
	return time.Duration(c.WeatherRefreshMinutes) * time.Minute
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

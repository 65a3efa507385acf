package models

import (
	"fmt"
	"time"
)

type PressureTrend string

const (
	PressureRising  PressureTrend = "RISING"
	PressureFalling PressureTrend = "FALLING"
	PressureStable  PressureTrend = "STABLE"
)

const knotsPerMeterPerSecond = 1.94384

const iconURLFormat = "https://openweathermap.org/img/wn/%s@2x.png"

// WeatherInfo is the condensed view of current weather or of a single
// forecast entry. Wind speeds are in m/s, pressure in hPa.
type WeatherInfo struct {
	Temperature   float64       `json:"temperature"`
	TempMin       float64       `json:"tempMin"`
	TempMax       float64       `json:"tempMax"`
	MorningTemp   *float64      `json:"morningTemp,omitempty"`
	AfternoonTemp *float64      `json:"afternoonTemp,omitempty"`
	WindSpeed     float64       `json:"windSpeed"`
	MaxWindSpeed  *float64      `json:"maxWindSpeed,omitempty"`
	WindDeg       int           `json:"windDeg"`
	WindGust      *float64      `json:"windGust,omitempty"`
	Pressure      int           `json:"pressure"`
	Description   string        `json:"description"`
	IconURL       string        `json:"iconUrl"`
	PressureTrend PressureTrend `json:"pressureTrend"`
	ForecastDate  *time.Time    `json:"forecastDate,omitempty"`
	Humidity      int           `json:"humidity"`
	LastUpdated   time.Time     `json:"lastUpdated"`
}

func (w *WeatherInfo) WindSpeedKnots() float64 {
	return w.WindSpeed * knotsPerMeterPerSecond
}

func (w *WeatherInfo) MaxWindSpeedKnots() *float64 {
	return toKnots(w.MaxWindSpeed)
}

func (w *WeatherInfo) WindGustKnots() *float64 {
	return toKnots(w.WindGust)
}

func (w *WeatherInfo) WindDirectionText() string {
	return WindDirectionText(w.WindDeg)
}

func toKnots(v *float64) *float64 {
	if v == nil {
		return nil
	}
	k := *v * knotsPerMeterPerSecond
	return &k
}

// WindDirectionText maps a bearing in degrees to an eight-point compass label.
func WindDirectionText(deg int) string {
	switch {
	case deg < 0 || deg > 360:
		return "N/A"
	case deg <= 22 || deg >= 338:
		return "N"
	case deg <= 67:
		return "NE"
	case deg <= 112:
		return "E"
	case deg <= 157:
		return "SE"
	case deg <= 202:
		return "S"
	case deg <= 247:
		return "SW"
	case deg <= 292:
		return "W"
	default:
		return "NW"
	}
}

// IconURL returns the OpenWeatherMap icon URL for an icon code.
func IconURL(icon string) string {
	return fmt.Sprintf(iconURLFormat, icon)
}

// WeatherInfoFromCurrent condenses a current weather response. The pressure
// trend and update time are left for the caller to fill in.
func WeatherInfoFromCurrent(resp *WeatherResponse) *WeatherInfo {
	cond := primaryCondition(resp.Weather)
	return &WeatherInfo{
		Temperature:   resp.Main.Temp,
		TempMin:       resp.Main.TempMin,
		TempMax:       resp.Main.TempMax,
		WindSpeed:     resp.Wind.Speed,
		WindDeg:       resp.Wind.Deg,
		WindGust:      resp.Wind.Gust,
		Pressure:      resp.Main.Pressure,
		Description:   cond.Description,
		IconURL:       IconURL(cond.Icon),
		PressureTrend: PressureStable,
		Humidity:      resp.Main.Humidity,
	}
}

// WeatherInfoFromForecast condenses one forecast entry.
func WeatherInfoFromForecast(item ForecastItem) *WeatherInfo {
	cond := primaryCondition(item.Weather)
	forecastDate := item.Time()
	return &WeatherInfo{
		Temperature:   item.Main.Temp,
		TempMin:       item.Main.TempMin,
		TempMax:       item.Main.TempMax,
		WindSpeed:     item.Wind.Speed,
		WindDeg:       item.Wind.Deg,
		WindGust:      item.Wind.Gust,
		Pressure:      item.Main.Pressure,
		Description:   cond.Description,
		IconURL:       IconURL(cond.Icon),
		PressureTrend: PressureStable,
		ForecastDate:  &forecastDate,
		Humidity:      item.Main.Humidity,
	}
}

func primaryCondition(conditions []WeatherCondition) WeatherCondition {
	if len(conditions) == 0 {
		return WeatherCondition{Main: "Unknown", Description: "Unknown", Icon: "01d"}
	}
	return conditions[0]
}

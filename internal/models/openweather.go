package models

import "time"

// Wire shapes of the OpenWeatherMap current weather and 5 day / 3 hour
// forecast endpoints.

type WeatherResponse struct {
	Coord      GeoPoint           `json:"coord"`
	Weather    []WeatherCondition `json:"weather"`
	Base       string             `json:"base"`
	Main       Main               `json:"main"`
	Visibility int                `json:"visibility"`
	Wind       Wind               `json:"wind"`
	Clouds     Clouds             `json:"clouds"`
	Dt         int64              `json:"dt"`
	Timezone   int                `json:"timezone"`
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	Cod        int                `json:"cod"`
}

type GeoPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Main struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
	SeaLevel  *int    `json:"sea_level,omitempty"`
	GrndLevel *int    `json:"grnd_level,omitempty"`
}

type Wind struct {
	Speed float64  `json:"speed"`
	Deg   int      `json:"deg"`
	Gust  *float64 `json:"gust,omitempty"`
}

type Clouds struct {
	All int `json:"all"`
}

type ForecastResponse struct {
	List []ForecastItem `json:"list"`
	City City           `json:"city"`
}

type ForecastItem struct {
	Dt      int64              `json:"dt"`
	Main    Main               `json:"main"`
	Weather []WeatherCondition `json:"weather"`
	Clouds  Clouds             `json:"clouds"`
	Wind    Wind               `json:"wind"`
	DtTxt   string             `json:"dt_txt"`
}

// Time returns the forecast instant.
func (f ForecastItem) Time() time.Time {
	return time.Unix(f.Dt, 0)
}

type City struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Coord    GeoPoint `json:"coord"`
	Country  string   `json:"country"`
	Timezone int      `json:"timezone"`
	Sunrise  int64    `json:"sunrise"`
	Sunset   int64    `json:"sunset"`
}

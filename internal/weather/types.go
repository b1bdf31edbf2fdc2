package weather

import (
	"time"

	"github.com/rickgao/totals-data/internal/fetch"
	"github.com/rickgao/totals-data/internal/model"
)

// Hourly channel names requested from the archive.
const (
	ChannelTemperature   = "temperature_2m"
	ChannelHumidity      = "relativehumidity_2m"
	ChannelPressure      = "surface_pressure"
	ChannelDewPoint      = "dewpoint_2m"
	ChannelPrecipitation = "precipitation"
	ChannelWindSpeed     = "wind_speed_10m"
	ChannelWindGust      = "wind_gusts_10m"
	ChannelWindDirection = "wind_direction_10m"
	ChannelWeatherCode   = "weathercode"
)

// Channels lists every requested hourly channel.
var Channels = []string{
	ChannelTemperature,
	ChannelHumidity,
	ChannelPressure,
	ChannelDewPoint,
	ChannelPrecipitation,
	ChannelWindSpeed,
	ChannelWindGust,
	ChannelWindDirection,
	ChannelWeatherCode,
}

// archiveTimeLayout is the hourly time format in GMT responses.
const archiveTimeLayout = "2006-01-02T15:04"

// ArchiveResponse from GET /v1/archive.
type ArchiveResponse struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timezone  string    `json:"timezone"`
	Hourly    HourlyDoc `json:"hourly"`
}

// HourlyDoc holds parallel arrays aligned by index on Time.
type HourlyDoc struct {
	Time          []string   `json:"time"`
	Temperature   []*float64 `json:"temperature_2m"`
	Humidity      []*float64 `json:"relativehumidity_2m"`
	Pressure      []*float64 `json:"surface_pressure"`
	DewPoint      []*float64 `json:"dewpoint_2m"`
	Precipitation []*float64 `json:"precipitation"`
	WindSpeed     []*float64 `json:"wind_speed_10m"`
	WindGust      []*float64 `json:"wind_gusts_10m"`
	WindDirection []*float64 `json:"wind_direction_10m"`
	WeatherCode   []*int     `json:"weathercode"`
}

// Samples validates the arrays and converts them to samples. A channel that
// is absent altogether is treated as missing; a channel present but shorter
// than Time is malformed.
func (h *HourlyDoc) Samples() ([]model.WeatherSample, error) {
	n := len(h.Time)

	floats := map[string][]*float64{
		ChannelTemperature:   h.Temperature,
		ChannelHumidity:      h.Humidity,
		ChannelPressure:      h.Pressure,
		ChannelDewPoint:      h.DewPoint,
		ChannelPrecipitation: h.Precipitation,
		ChannelWindSpeed:     h.WindSpeed,
		ChannelWindGust:      h.WindGust,
		ChannelWindDirection: h.WindDirection,
	}
	for name, values := range floats {
		if len(values) != 0 && len(values) < n {
			return nil, fetch.Malformed("hourly %s has %d values for %d times", name, len(values), n)
		}
	}
	if len(h.WeatherCode) != 0 && len(h.WeatherCode) < n {
		return nil, fetch.Malformed("hourly %s has %d values for %d times", ChannelWeatherCode, len(h.WeatherCode), n)
	}

	samples := make([]model.WeatherSample, 0, n)
	for i, ts := range h.Time {
		t, err := time.ParseInLocation(archiveTimeLayout, ts, time.UTC)
		if err != nil {
			return nil, fetch.Malformed("hourly time %q", ts)
		}
		s := model.WeatherSample{
			Time:          t,
			Temperature:   at(h.Temperature, i),
			Humidity:      at(h.Humidity, i),
			Pressure:      at(h.Pressure, i),
			DewPoint:      at(h.DewPoint, i),
			Precipitation: at(h.Precipitation, i),
			WindSpeed:     at(h.WindSpeed, i),
			WindGust:      at(h.WindGust, i),
			WindDirection: at(h.WindDirection, i),
		}
		if i < len(h.WeatherCode) {
			s.Code = h.WeatherCode[i]
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

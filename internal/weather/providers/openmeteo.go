package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-panel/internal/weather"
)

const openMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

// maxPayloadBytes bounds how much of a response body is read.
const maxPayloadBytes = 16 << 10

// OpenMeteoConfig locates the current-weather endpoint. Endpoint, when set,
// is used verbatim and the coordinates are ignored.
type OpenMeteoConfig struct {
	Endpoint  string
	Latitude  float64
	Longitude float64
	Timezone  string
}

// URL returns the request URL for the configuration.
func (c OpenMeteoConfig) URL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(c.Latitude, 'f', 4, 64))
	values.Set("longitude", strconv.FormatFloat(c.Longitude, 'f', 4, 64))
	values.Set("current_weather", "true")
	if c.Timezone != "" {
		values.Set("timezone", c.Timezone)
	}
	return fmt.Sprintf("%s?%s", openMeteoBaseURL, values.Encode())
}

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name     string
	endpoint string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, cfg OpenMeteoConfig, breaker BreakerConfig) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:     "openmeteo",
		endpoint: cfg.URL(),
		httpCfg:  HTTPClientConfig{Client: client},
		circuit:  newBreaker("openmeteo", breaker),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Endpoint returns the URL every request goes to.
func (p *OpenMeteoProvider) Endpoint() string {
	return p.endpoint
}

func (p *OpenMeteoProvider) Current(ctx context.Context) (weather.Reading, error) {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, p.endpoint, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Reading{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return weather.Reading{}, fmt.Errorf("%w: reading body: %v", weather.ErrTransport, err)
	}
	log.Printf("DEBUG: %s payload: %s", p.name, bytes.TrimSpace(body))

	return decodeCurrentWeather(body)
}

// decodeCurrentWeather requires all three current_weather fields to be
// present and numeric.
func decodeCurrentWeather(body []byte) (weather.Reading, error) {
	var payload struct {
		CurrentWeather *struct {
			Temperature   *float64 `json:"temperature"`
			WindSpeed     *float64 `json:"windspeed"`
			WindDirection *float64 `json:"winddirection"`
		} `json:"current_weather"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Reading{}, fmt.Errorf("%w: %v", weather.ErrDecode, err)
	}

	cw := payload.CurrentWeather
	switch {
	case cw == nil:
		return weather.Reading{}, fmt.Errorf("%w: missing current_weather", weather.ErrDecode)
	case cw.Temperature == nil:
		return weather.Reading{}, fmt.Errorf("%w: missing temperature", weather.ErrDecode)
	case cw.WindSpeed == nil:
		return weather.Reading{}, fmt.Errorf("%w: missing windspeed", weather.ErrDecode)
	case cw.WindDirection == nil:
		return weather.Reading{}, fmt.Errorf("%w: missing winddirection", weather.ErrDecode)
	}

	return weather.Reading{
		TemperatureC:     *cw.Temperature,
		WindSpeedKmh:     *cw.WindSpeed,
		WindDirectionDeg: int(*cw.WindDirection),
	}, nil
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type AppConfig struct {
	// WeatherEndpoint overrides the URL built from the coordinates below.
	WeatherEndpoint string  `validate:"omitempty,url"`
	Latitude        float64 `validate:"gte=-90,lte=90"`
	Longitude       float64 `validate:"gte=-180,lte=180"`
	Timezone        string

	// Coordinates are geocoded from these when not set explicitly.
	LocationCity    string
	LocationCountry string
	GeocoderAPIKey  string
	// CoordinatesSet is true when latitude and longitude came from the environment.
	CoordinatesSet bool

	WiFiSSID     string
	WiFiPassword string
	NetInterface string

	ConnectTimeout      time.Duration `validate:"gt=0"`
	ConnectPollInterval time.Duration `validate:"gt=0"`

	FetchInterval   time.Duration `validate:"gt=0"`
	DisplayInterval time.Duration `validate:"gt=0"`
	Debounce        time.Duration `validate:"gt=0"`
	TickInterval    time.Duration `validate:"gt=0"`
	HTTPTimeout     time.Duration `validate:"gt=0"`

	// Headless replaces the LCD and buttons with a log console.
	Headless      bool
	ButtonNextPin string `validate:"required_if=Headless false"`
	ButtonPrevPin string `validate:"required_if=Headless false"`
	LCDBus        string
	LCDAddress    uint16 `validate:"gt=0,lt=128"`

	// Port for the status API; empty disables it.
	Port string `validate:"omitempty,numeric"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.WeatherEndpoint = os.Getenv("WEATHER_ENDPOINT")
	cfg.Timezone = getenvDefault("WEATHER_TIMEZONE", "Asia/Jakarta")
	cfg.LocationCity = os.Getenv("WEATHER_LOCATION_CITY")
	cfg.LocationCountry = os.Getenv("WEATHER_LOCATION_COUNTRY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	latStr, lonStr := os.Getenv("WEATHER_LATITUDE"), os.Getenv("WEATHER_LONGITUDE")
	if (latStr == "") != (lonStr == "") {
		return nil, fmt.Errorf("WEATHER_LATITUDE and WEATHER_LONGITUDE must be set together")
	}
	cfg.CoordinatesSet = latStr != ""
	if cfg.Latitude, err = getenvFloat("WEATHER_LATITUDE", -7.9797); err != nil {
		return nil, err
	}
	if cfg.Longitude, err = getenvFloat("WEATHER_LONGITUDE", 112.6304); err != nil {
		return nil, err
	}

	cfg.WiFiSSID = os.Getenv("WIFI_SSID")
	cfg.WiFiPassword = os.Getenv("WIFI_PASSWORD")
	cfg.NetInterface = os.Getenv("NET_INTERFACE")

	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"CONNECT_TIMEOUT", "10s", &cfg.ConnectTimeout},
		{"CONNECT_POLL_INTERVAL", "1s", &cfg.ConnectPollInterval},
		{"FETCH_INTERVAL", "60s", &cfg.FetchInterval},
		{"DISPLAY_INTERVAL", "3s", &cfg.DisplayInterval},
		{"DEBOUNCE", "200ms", &cfg.Debounce},
		{"TICK_INTERVAL", "50ms", &cfg.TickInterval},
		{"HTTP_TIMEOUT", "10s", &cfg.HTTPTimeout},
	}
	for _, d := range durations {
		if *d.dst, err = getenvDuration(d.key, d.def); err != nil {
			return nil, err
		}
	}

	cfg.Headless = getenvBool("HEADLESS", false)
	cfg.ButtonNextPin = getenvDefault("BUTTON_NEXT_PIN", "GPIO17")
	cfg.ButtonPrevPin = getenvDefault("BUTTON_PREV_PIN", "GPIO27")
	cfg.LCDBus = os.Getenv("LCD_I2C_BUS")

	addr, err := strconv.ParseUint(getenvDefault("LCD_I2C_ADDR", "0x27"), 0, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid LCD_I2C_ADDR: %w", err)
	}
	cfg.LCDAddress = uint16(addr)

	cfg.Port = getenvDefault("PORT", "8080")
	if strings.EqualFold(cfg.Port, "off") {
		cfg.Port = ""
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// NeedsGeocoding reports whether coordinates should be resolved from the
// configured city before building the endpoint.
func (c *AppConfig) NeedsGeocoding() bool {
	return c.WeatherEndpoint == "" && !c.CoordinatesSet && c.LocationCity != "" && c.GeocoderAPIKey != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

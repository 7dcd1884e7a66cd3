package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"periph.io/x/host/v3"

	httpapi "github.com/i474232898/weather-panel/internal/api/http"
	"github.com/i474232898/weather-panel/internal/clock"
	"github.com/i474232898/weather-panel/internal/config"
	"github.com/i474232898/weather-panel/internal/display"
	"github.com/i474232898/weather-panel/internal/input"
	"github.com/i474232898/weather-panel/internal/metrics"
	"github.com/i474232898/weather-panel/internal/network"
	"github.com/i474232898/weather-panel/internal/scheduler"
	"github.com/i474232898/weather-panel/internal/store"
	"github.com/i474232898/weather-panel/internal/weather"
	"github.com/i474232898/weather-panel/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	bootID := uuid.NewString()
	log.Printf("INFO: weather-panel starting, boot %s", bootID)
	metrics.Init()

	clk := clock.Real{}

	// Screen and buttons: real hardware, or a log console when headless.
	var (
		screen     display.Screen
		next, prev input.Pin
	)
	if cfg.Headless {
		screen = display.NewConsole(nil)
		next, prev = input.Released{}, input.Released{}
	} else {
		if _, err := host.Init(); err != nil {
			log.Fatalf("failed to initialise host drivers: %v", err)
		}
		lcd, closeBus, err := display.OpenLCD(cfg.LCDBus, cfg.LCDAddress)
		if err != nil {
			log.Fatalf("failed to open lcd: %v", err)
		}
		defer closeBus()
		screen = lcd

		if next, err = input.OpenButton(cfg.ButtonNextPin); err != nil {
			log.Fatalf("failed to open next button: %v", err)
		}
		if prev, err = input.OpenButton(cfg.ButtonPrevPin); err != nil {
			log.Fatalf("failed to open prev button: %v", err)
		}
	}

	link := network.NewInterface(cfg.NetInterface, cfg.WiFiSSID, cfg.WiFiPassword)

	// Resolve coordinates from the configured city when asked to.
	omCfg := providers.OpenMeteoConfig{
		Endpoint:  cfg.WeatherEndpoint,
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Timezone:  cfg.Timezone,
	}
	if cfg.NeedsGeocoding() {
		lat, lon, err := providers.ResolveCoordinates(cfg.GeocoderAPIKey, cfg.LocationCity, cfg.LocationCountry)
		if err != nil {
			log.Printf("ERROR: geocoding failed, using default coordinates: %v", err)
		} else {
			omCfg.Latitude, omCfg.Longitude = lat, lon
		}
	}

	// Shared HTTP client for the weather endpoint.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	provider := providers.NewOpenMeteoProvider(httpClient, omCfg, providers.DefaultBreaker)
	log.Printf("INFO: weather endpoint %s", provider.Endpoint())

	statusStore := store.NewMemoryStore()
	renderer := display.NewRenderer(screen, statusStore, clk.Now)
	fetcher := weather.NewFetcher(provider, link, clk.Now)
	poller := input.NewPoller(next, prev, renderer, cfg.Debounce)

	loop := scheduler.NewLoop(clk, link, fetcher, poller, renderer, scheduler.Intervals{
		Fetch:          cfg.FetchInterval,
		Display:        cfg.DisplayInterval,
		ConnectTimeout: cfg.ConnectTimeout,
		ConnectPoll:    cfg.ConnectPollInterval,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Port != "" {
		app := newStatusApp(bootID, statusStore, loop)

		g.Go(func() error {
			return app.Listen(":" + cfg.Port)
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		})
	}

	// A failed connection is reported on screen but the loop still runs;
	// the fetcher checks the link itself.
	if err := loop.Boot(gctx); err != nil {
		log.Printf("ERROR: boot: %v", err)
	}

	sched := scheduler.New(loop, cfg.TickInterval)
	if err := sched.Start(gctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("weather-panel stopped: %v", err)
	}
}

func newStatusApp(bootID string, status *store.MemoryStore, loop *scheduler.Loop) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-panel",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-panel",
			"boot_id": bootID,
		})
	})

	httpapi.RegisterRoutes(app, status, loop)
	return app
}

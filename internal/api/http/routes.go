package httpapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-panel/internal/display"
	"github.com/i474232898/weather-panel/internal/state"
	"github.com/i474232898/weather-panel/internal/store"
	"github.com/i474232898/weather-panel/internal/weather"
)

var validate = validator.New()

// StatusReader returns what the panel last rendered.
type StatusReader interface {
	GetLatest() (store.Status, error)
}

// Refresher queues a fetch on the panel loop.
type Refresher interface {
	RequestRefresh() bool
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, status StatusReader, refresher Refresher) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		st, err := status.GetLatest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "panel has not rendered yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read panel status")
		}

		return c.JSON(st)
	})

	v1.Post("/weather/refresh", func(c *fiber.Ctx) error {
		if !refresher.RequestRefresh() {
			return fiber.NewError(fiber.StatusConflict, "a refresh is already pending")
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"queued": true,
		})
	})

	v1.Get("/display/preview", func(c *fiber.Ctx) error {
		var q previewQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Preview against the last published weather; before the first
		// redraw there is nothing yet.
		snap := weather.Snapshot{}
		if st, err := status.GetLatest(); err == nil {
			snap = st.Snapshot
		}

		f := display.Render(q.Page, snap)
		return c.JSON(fiber.Map{
			"page":       q.Page,
			"totalPages": state.TotalPages,
			"lines":      f.Lines(),
		})
	})
}

// previewQuery holds query parameters for the preview endpoint.
type previewQuery struct {
	Page int
}

func (q *previewQuery) bind(c *fiber.Ctx) error {
	raw := c.Query("page")
	if raw == "" {
		return errors.New("page query parameter is required")
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid page %q", raw)
	}
	if err := validate.Var(page, fmt.Sprintf("gte=0,lt=%d", state.TotalPages)); err != nil {
		return fmt.Errorf("page must be in [0, %d)", state.TotalPages)
	}

	q.Page = page
	return nil
}

package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/calendar"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d *dashboard.Dashboard) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		q := cityQuery{City: c.Query("city")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, weather.MsgCityRequired)
		}

		reading, err := d.Search(c.UserContext(), q.City)
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(reading)
	})

	v1.Get("/location", func(c *fiber.Ctx) error {
		current, ok := d.Locations().Current()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no current location")
		}
		pos := d.Locations().MapPosition()
		return c.JSON(fiber.Map{
			"location": current,
			"map": fiber.Map{
				"position": pos,
				"zoom":     location.MapZoom,
				"link":     location.MapLink(pos),
			},
		})
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		history := d.Locations().History()
		if history == nil {
			history = []weather.Reading{}
		}
		return c.JSON(history)
	})

	v1.Delete("/history", func(c *fiber.Ctx) error {
		if err := d.Locations().ClearHistory(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to clear history")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Delete("/history/:id", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		if err := d.Locations().DeleteHistoryEntry(id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete history entry")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/history/:id/select", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		reading, ok, err := d.SelectFromHistory(id)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no history entry with that id")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save current location")
		}
		return c.JSON(reading)
	})

	v1.Get("/events", func(c *fiber.Ctx) error {
		events := d.Calendar().Events()
		out := make([]eventResponse, 0, len(events))
		for _, e := range events {
			out = append(out, newEventResponse(e, d.Calendar().TimeZone()))
		}
		return c.JSON(out)
	})

	v1.Post("/events", func(c *fiber.Ctx) error {
		var draft calendar.Draft
		if err := c.BodyParser(&draft); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid event payload")
		}
		event, err := d.Calendar().AddEvent(c.UserContext(), draft)
		if err != nil {
			var v *weather.ValidationError
			if event.ID != 0 && !errors.As(err, &v) {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to save event")
			}
			return weatherError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(newEventResponse(event, d.Calendar().TimeZone()))
	})

	v1.Delete("/events/:id", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		if _, ok := d.Calendar().Event(id); !ok {
			return fiber.NewError(fiber.StatusNotFound, "no event with that id")
		}
		if err := d.Calendar().DeleteEvent(id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete event")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/events/:id/advisory", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		event, ok := d.Calendar().Event(id)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no event with that id")
		}
		return c.JSON(fiber.Map{
			"id":       event.ID,
			"advisory": calendar.DescribeForecastImpact(event),
		})
	})

	v1.Get("/theme", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"theme": d.Theme().Attribute()})
	})

	v1.Post("/theme/toggle", func(c *fiber.Ctx) error {
		attr, err := d.Theme().Toggle()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save theme")
		}
		return c.JSON(fiber.Map{"theme": attr})
	})

	v1.Get("/view", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"view": d.Router().Active()})
	})

	v1.Put("/view/:name", func(c *fiber.Ctx) error {
		view, err := dashboard.ParseView(c.Params("name"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		d.Router().Select(view)
		return c.JSON(fiber.Map{"view": view})
	})
}

// cityQuery holds the query parameters of a weather search.
type cityQuery struct {
	City string `validate:"required"`
}

type eventResponse struct {
	calendar.Event
	When    string `json:"when,omitempty"`
	Kind    string `json:"kind"`
	IconURL string `json:"iconUrl,omitempty"`
}

func newEventResponse(e calendar.Event, tz *time.Location) eventResponse {
	return eventResponse{
		Event:   e,
		When:    e.Display(tz),
		Kind:    e.Kind(),
		IconURL: e.Forecast.IconURL(),
	}
}

func idParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id must be an integer")
	}
	return id, nil
}

// weatherError maps the weather error taxonomy onto HTTP statuses.
func weatherError(err error) error {
	var (
		v *weather.ValidationError
		q *weather.QueryError
	)
	switch {
	case errors.As(err, &v):
		return fiber.NewError(fiber.StatusBadRequest, v.UserMessage())
	case errors.As(err, &q):
		if q.Status == fiber.StatusNotFound {
			return fiber.NewError(fiber.StatusNotFound, q.UserMessage())
		}
		return fiber.NewError(fiber.StatusBadGateway, q.UserMessage())
	case errors.Is(err, dashboard.ErrSuperseded):
		return fiber.NewError(fiber.StatusConflict, "superseded by a newer search")
	default:
		return fiber.NewError(fiber.StatusServiceUnavailable, weather.UserMessage(err))
	}
}

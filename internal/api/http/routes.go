package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/weatherapp/forecast/internal/location"
	"github.com/weatherapp/forecast/internal/store"
	"github.com/weatherapp/forecast/internal/weather"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("daylabel", func(fl validator.FieldLevel) bool {
		day := fl.Field().String()
		if day == weather.DayToday || day == weather.DayTomorrow {
			return true
		}
		_, err := time.Parse("2006-01-02", day)
		return err == nil
	})
	return v
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. resolver may be
// nil when geocoding is not configured.
func RegisterRoutes(app *fiber.App, service *weather.Service, resolver location.Resolver) {
	v1 := app.Group("/api/v1")

	v1.Post("/forecast/refresh", func(c *fiber.Ctx) error {
		q, err := parseCoordinatesQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		service.RequestForecast(q.toCoordinates())
		return c.Status(fiber.StatusAccepted).JSON(weather.Loading())
	})

	v1.Get("/forecast/state", func(c *fiber.Ctx) error {
		q, err := parseCoordinatesQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		st, err := service.State(q.toCoordinates())
		if err != nil {
			return forecastError(err)
		}
		return c.JSON(st)
	})

	v1.Get("/forecast/hourly", func(c *fiber.Ctx) error {
		var req hourlyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		coords := req.Location.toCoordinates()
		buckets, diags, err := service.Hourly(coords, req.Day)
		if err != nil {
			return forecastError(err)
		}

		items := make([]hourlyItem, 0, len(buckets))
		for _, b := range buckets {
			period, _ := weather.TimeOfDay(b.Time)
			items = append(items, hourlyItem{HourlyBucket: b, Period: period})
		}

		now, err := service.LocalNow(coords)
		if err != nil {
			return forecastError(err)
		}
		return c.JSON(fiber.Map{
			"location":   coords,
			"day":        req.Day,
			"date":       weather.FormatDisplayDate(now),
			"dayOrNight": weather.DayOrNight(now),
			"hours":      items,
			"skipped":    len(diags),
		})
	})

	v1.Get("/forecast/daily", func(c *fiber.Ctx) error {
		q, err := parseCoordinatesQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		coords := q.toCoordinates()
		rows, diags, err := service.Daily(coords)
		if err != nil {
			return forecastError(err)
		}
		return c.JSON(fiber.Map{
			"location": coords,
			"days":     rows,
			"skipped":  len(diags),
		})
	})

	v1.Get("/forecast/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		coords := req.Location.toCoordinates()
		snapshots, err := service.GetRange(coords, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no forecast history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast history")
		}

		return c.JSON(fiber.Map{
			"location":  coords,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})

	v1.Get("/places/search", func(c *fiber.Ctx) error {
		if resolver == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "place search is not configured")
		}
		coords, err := resolver.Resolve(c.UserContext(), c.Query("q"))
		switch {
		case errors.Is(err, location.ErrEmptyQuery):
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		case errors.Is(err, location.ErrNoResults):
			return fiber.NewError(fiber.StatusNotFound, "no place found")
		case err != nil:
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}

		locality, err := resolver.Locality(c.UserContext(), coords)
		if err != nil {
			locality = ""
		}
		return c.JSON(fiber.Map{
			"location": coords,
			"locality": locality,
		})
	})
}

func forecastError(err error) error {
	switch {
	case errors.Is(err, weather.ErrUnknownLocation):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrNotReady):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to read forecast")
	}
}

type hourlyItem struct {
	weather.HourlyBucket
	Period string `json:"period,omitempty"`
}

// coordinatesQuery holds query parameters for identifying a location.
type coordinatesQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func (q coordinatesQuery) toCoordinates() weather.Coordinates {
	return weather.Coordinates{Latitude: q.Lat, Longitude: q.Lon}
}

func parseCoordinatesQuery(c *fiber.Ctx) (coordinatesQuery, error) {
	var q coordinatesQuery

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		return q, errors.New("lat and lon query parameters are required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return q, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return q, errors.New("lon must be a number")
	}
	q.Lat, q.Lon = lat, lon

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// hourlyQuery holds query parameters for the hourly endpoint.
type hourlyQuery struct {
	Location coordinatesQuery
	Day      string `validate:"omitempty,daylabel"`
}

func (h *hourlyQuery) bind(c *fiber.Ctx) error {
	loc, err := parseCoordinatesQuery(c)
	if err != nil {
		return err
	}
	h.Location = loc
	h.Day = c.Query("day")
	return nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location coordinatesQuery
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	loc, err := parseCoordinatesQuery(c)
	if err != nil {
		return err
	}
	h.Location = loc

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}

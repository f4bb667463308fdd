package httpapi

import (
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-tracker/internal/analysis"
	"github.com/i474232898/weather-tracker/internal/common"
	"github.com/i474232898/weather-tracker/internal/store"
	"github.com/i474232898/weather-tracker/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the read-only analysis handlers into the Fiber app.
// The record log is reloaded on every request so new collector rows show up.
func RegisterRoutes(app *fiber.App, records weather.RecordLog) {
	v1 := app.Group("/api/v1")

	v1.Get("/stats", func(c *fiber.Ctx) error {
		table, err := loadTable(records)
		if err != nil {
			return err
		}

		stats := analysis.Describe(table)
		out := make([]statsResponse, 0, len(stats))
		for _, st := range stats {
			out = append(out, newStatsResponse(st))
		}
		return c.JSON(fiber.Map{"rows": table.Len(), "columns": out})
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		table, err := loadTable(records)
		if err != nil {
			return err
		}
		cities := table.Cities()
		if cities == nil {
			cities = []string{}
		}
		return c.JSON(fiber.Map{"cities": cities})
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		q := cityQuery{City: c.Query("city")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		table, err := loadTable(records)
		if err != nil {
			return err
		}
		ct := table.City(q.City)
		if ct.Len() == 0 {
			return fiber.NewError(fiber.StatusNotFound, "no weather data for requested city")
		}
		return c.JSON(fiber.Map{"city": q.City, "records": toRecordResponses(ct.Records())})
	})

	v1.Get("/weather/rolling", func(c *fiber.Ctx) error {
		q := rollingQuery{City: c.Query("city"), Window: c.QueryInt("window", analysis.DefaultWindow)}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		table, err := loadTable(records)
		if err != nil {
			return err
		}
		s, err := table.RollingTemperatures(q.City, q.Window)
		if err != nil {
			if errors.Is(err, analysis.ErrNoData) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested city")
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		points := make([]rollingPoint, len(s.Dates))
		for i, d := range s.Dates {
			points[i] = rollingPoint{Date: d.Format(weather.DateLayout), TMax: nullable(s.TMax[i]), TMin: nullable(s.TMin[i])}
		}
		return c.JSON(fiber.Map{"city": q.City, "window": q.Window, "points": points})
	})

	v1.Get("/weather/compare", func(c *fiber.Ctx) error {
		var q compareQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		table, err := loadTable(records)
		if err != nil {
			return err
		}
		cmp := table.ComparePeriods(q.City, q.First, q.Second)
		return c.JSON(fiber.Map{
			"city":   cmp.City,
			"first":  newPeriodResponse(cmp.First),
			"second": newPeriodResponse(cmp.Second),
		})
	})
}

func loadTable(records weather.RecordLog) (*analysis.Table, error) {
	table, err := analysis.Load(records)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusServiceUnavailable, "weather data has not been collected yet")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load weather data")
	}
	return table, nil
}

// cityQuery holds query parameters for identifying a city.
type cityQuery struct {
	City string `validate:"required"`
}

type rollingQuery struct {
	City   string `validate:"required"`
	Window int    `validate:"min=1,max=366"`
}

// compareQuery holds query parameters for the compare endpoint.
type compareQuery struct {
	City   string `validate:"required"`
	First  weather.Period
	Second weather.Period
}

func (q *compareQuery) bind(c *fiber.Ctx) error {
	q.City = c.Query("city")
	if err := validate.Struct(q); err != nil {
		return err
	}

	var err error
	if q.First, err = common.NewPeriod(c.Query("from1"), c.Query("to1")); err != nil {
		return err
	}
	if q.Second, err = common.NewPeriod(c.Query("from2"), c.Query("to2")); err != nil {
		return err
	}
	return nil
}

type statsResponse struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q1     *float64 `json:"25%"`
	Median *float64 `json:"50%"`
	Q3     *float64 `json:"75%"`
	Max    *float64 `json:"max"`
}

func newStatsResponse(st analysis.ColumnStats) statsResponse {
	return statsResponse{
		Column: st.Column,
		Count:  st.Count,
		Mean:   nullable(st.Mean),
		Std:    nullable(st.Std),
		Min:    nullable(st.Min),
		Q1:     nullable(st.Q1),
		Median: nullable(st.Median),
		Q3:     nullable(st.Q3),
		Max:    nullable(st.Max),
	}
}

type recordResponse struct {
	Date   string  `json:"date"`
	City   string  `json:"city"`
	TMax   float64 `json:"tmax"`
	TMin   float64 `json:"tmin"`
	Precip float64 `json:"precip"`
}

func toRecordResponses(recs []weather.Record) []recordResponse {
	out := make([]recordResponse, len(recs))
	for i, r := range recs {
		out[i] = recordResponse{Date: r.Date.Format(weather.DateLayout), City: r.City, TMax: r.TMax, TMin: r.TMin, Precip: r.Precip}
	}
	return out
}

type rollingPoint struct {
	Date string   `json:"date"`
	TMax *float64 `json:"tmax"`
	TMin *float64 `json:"tmin"`
}

type periodResponse struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Rows int      `json:"rows"`
	TMax *float64 `json:"tmax"`
	TMin *float64 `json:"tmin"`
}

func newPeriodResponse(m analysis.PeriodMeans) periodResponse {
	return periodResponse{
		From: m.Period.Start.Format(weather.DateLayout),
		To:   m.Period.End.Format(weather.DateLayout),
		Rows: m.Rows,
		TMax: nullable(m.TMax),
		TMin: nullable(m.TMin),
	}
}

// nullable maps NaN (undefined) to JSON null.
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

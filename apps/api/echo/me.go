package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/student"
	"github.com/trezcool/masomo-dashboard/core/timetable"
)

var nowFunc = time.Now // mockable

type meApi struct {
	svc student.Service
}

// registerMeAPI mounts the student portal endpoints.
func registerMeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc student.Service) {
	api := meApi{svc: svc}

	mg := g.Group("/me", jwt, studentMiddleware())
	mg.GET("", api.profile)
	mg.GET("/timetable", api.timetable)
	mg.GET("/timetable/today", api.today)
}

// Handlers

func (api *meApi) profile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return renderProfile(ctx, api.svc, claims.StudentID)
}

func (api *meApi) timetable(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	tt := timetable.FromSeed(claims.TimetableSeed)

	dayParam := ctx.QueryParam("day")
	if dayParam == "" {
		return ctx.JSON(http.StatusOK, tt)
	}
	day, err := timetable.ParseDay(dayParam)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "day", Error: err.Error()})
	}
	return ctx.JSON(http.StatusOK, DayScheduleResponse{Day: day.String(), Lectures: tt.Day(day)})
}

func (api *meApi) today(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	now := nowFunc()
	lectures := timetable.FromSeed(claims.TimetableSeed).Today(now)
	return ctx.JSON(http.StatusOK, DayScheduleResponse{Day: now.Weekday().String(), Lectures: lectures})
}

type DayScheduleResponse struct {
	Day      string              `json:"day"`
	Lectures []timetable.Lecture `json:"lectures"`
}

package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/analytics"
)

type metricsApi struct {
	validate *validator.Validate
}

// registerMetricsAPI mounts the ad-hoc metrics calculator, open to any signed in user.
func registerMetricsAPI(g *echo.Group, jwt echo.MiddlewareFunc, validate *validator.Validate) {
	api := metricsApi{validate: validate}
	g.POST("/metrics", api.computeMetrics, jwt)
}

func (api *metricsApi) computeMetrics(ctx echo.Context) error {
	var data MetricsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MetricsRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	report, err := analytics.Analyze(data.Input())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, report)
}

// MetricsRequest holds one student's raw performance data.
// Fields are pointers so that a missing field is told apart from a zero.
type MetricsRequest struct {
	Test1Score           *float64 `json:"test1_score" validate:"required"`
	Test2Score           *float64 `json:"test2_score" validate:"required"`
	Test3Score           *float64 `json:"test3_score" validate:"required"`
	AttendancePercentage *float64 `json:"attendance_percentage" validate:"required"`
	AssignmentsCompleted *int     `json:"assignments_completed" validate:"required"`
	TotalClasses         *int     `json:"total_classes" validate:"required"`
	ClassesAttended      *int     `json:"classes_attended" validate:"required"`
}

func (mr *MetricsRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(mr)
}

// Input must only be called on a validated request.
func (mr *MetricsRequest) Input() analytics.Input {
	return analytics.Input{
		Scores: analytics.Scores{
			Test1: *mr.Test1Score,
			Test2: *mr.Test2Score,
			Test3: *mr.Test3Score,
		},
		AttendancePercentage: *mr.AttendancePercentage,
		AssignmentsCompleted: *mr.AssignmentsCompleted,
		TotalClasses:         *mr.TotalClasses,
		ClassesAttended:      *mr.ClassesAttended,
	}
}

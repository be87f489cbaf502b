package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/student"
)

const orderingParam = "ordering"

type studentApi struct {
	svc student.Service
}

// registerStudentAPI mounts the staff dashboard endpoints.
func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc student.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("", jwt, staffMiddleware())
	sg.GET("/overview", api.overview)
	sg.GET("/distributions", api.distributions)
	sg.GET("/students", api.query)
	sg.GET("/students/filters", api.filters)
	sg.GET("/students/:id", api.retrieve)
}

// Handlers

func (api *studentApi) overview(ctx echo.Context) error {
	filter, err := bindQueryFilter(ctx)
	if err != nil {
		return err
	}
	ov, err := api.svc.Overview(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "computing overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *studentApi) distributions(ctx echo.Context) error {
	filter, err := bindQueryFilter(ctx)
	if err != nil {
		return err
	}
	dists, err := api.svc.Distributions(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "computing distributions")
	}
	return ctx.JSON(http.StatusOK, dists)
}

func (api *studentApi) query(ctx echo.Context) error {
	filter, err := bindQueryFilter(ctx)
	if err != nil {
		return err
	}
	orderings := core.ParseOrderings(ctx.QueryParam(orderingParam))

	res, err := api.svc.Query(ctx.Request().Context(), filter, orderings)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *studentApi) filters(ctx echo.Context) error {
	opts, err := api.svc.FilterOptions(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing filter options")
	}
	return ctx.JSON(http.StatusOK, opts)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	return renderProfile(ctx, api.svc, id)
}

func renderProfile(ctx echo.Context, svc student.Service, id int) error {
	profile, err := svc.Profile(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building student profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

func bindQueryFilter(ctx echo.Context) (student.QueryFilter, error) {
	var filter student.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return filter, errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	return filter, nil
}

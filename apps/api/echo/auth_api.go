package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/timetable"
	"github.com/trezcool/masomo-dashboard/core/user"
)

type authApi struct {
	auth     *authenticator
	svc      user.Service
	validate *validator.Validate
}

func registerAuthAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	auth *authenticator,
	svc user.Service,
	validate *validator.Validate,
) {
	api := authApi{
		auth:     auth,
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/staff/login", api.staffLogin)
	ag.POST("/students/login", api.studentLogin)

	// authed endpoints
	ag.POST("/token-refresh", api.refreshToken, jwt)
}

// Handlers

func (api *authApi) staffLogin(ctx echo.Context) error {
	var data StaffLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StaffLoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.AuthenticateStaff(data.Email, data.Password)
	if err != nil {
		return api.authError(err)
	}
	return api.login(ctx, usr)
}

func (api *authApi) studentLogin(ctx echo.Context) error {
	var data StudentLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentLoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.AuthenticateStudent(ctx.Request().Context(), data.StudentID, data.Password)
	if err != nil {
		return api.authError(err)
	}
	return api.login(ctx, usr)
}

// login starts a new session: a fresh timetable seed goes into the token.
func (api *authApi) login(ctx echo.Context, usr user.User) error {
	seed, err := timetable.NewSeed()
	if err != nil {
		return errors.Wrap(err, "generating timetable seed")
	}
	token, err := api.auth.GenerateToken(api.auth.userClaims(usr, seed))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *authApi) authError(err error) error {
	if errors.Cause(err) == user.ErrInvalidCredentials {
		return core.NewValidationError(user.ErrInvalidCredentials)
	}
	return errors.Wrap(err, "authenticating")
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

type (
	StaffLoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	StudentLoginRequest struct {
		StudentID string `json:"student_id" validate:"required,studentid"`
		Password  string `json:"password" validate:"required"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}
)

func (lr *StaffLoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (lr *StudentLoginRequest) Validate(validate *validator.Validate) error {
	lr.StudentID = core.CleanString(lr.StudentID)
	return validate.Struct(lr)
}

package echoapi

import (
	"sort"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/user"
)

const (
	contextTokenKey = "userToken"
	contextUserKey  = "user"
	tokenAudience   = "Dashboard"
)

// Claims represents the authorization claims transmitted via a JWT.
// They are the whole session: role, student & timetable seed are read back on every request.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt  int64    `json:"oriat,omitempty"`
	Name          string   `json:"name,omitempty"`
	Email         string   `json:"email,omitempty"`
	IsStaff       bool     `json:"is_staff,omitempty"`   // -> STAFF DASHBOARD
	IsStudent     bool     `json:"is_student,omitempty"` // -> STUDENT PORTAL
	Roles         []string `json:"roles,omitempty"`
	StudentID     int      `json:"student_id,omitempty"`
	TimetableSeed int64    `json:"tts,omitempty"`
}

func (c Claims) hasRole(role string) bool {
	roles := append([]string(nil), c.Roles...)
	sort.Strings(roles)
	i := sort.SearchStrings(roles, role)
	return i < len(roles) && roles[i] == role
}

type authenticator struct {
	conf      *core.Config
	jwtConfig middleware.JWTConfig
}

func newAuthenticator(conf *core.Config) *authenticator {
	return &authenticator{
		conf: conf,
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
	}
}

func (a *authenticator) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.jwtConfig)
}

// userClaims builds the claims of a new session for usr. origIat is set on refresh.
func (a *authenticator) userClaims(usr user.User, seed int64, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    a.conf.AppName,
			Subject:   usr.ID,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(a.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt:  oriat,
		Name:          usr.Name,
		Email:         usr.Email,
		IsStaff:       usr.IsStaff(),
		IsStudent:     usr.IsStudent(),
		Roles:         usr.Roles,
		StudentID:     usr.StudentID,
		TimetableSeed: seed,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func (a *authenticator) GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.jwtConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// contextUser rebuilds the principal from the token claims (no lookup).
func contextUser(ctx echo.Context) user.User {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}
	}
	usr := user.User{
		ID:        claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		Roles:     claims.Roles,
		StudentID: claims.StudentID,
	}
	ctx.Set(contextUserKey, usr)
	return usr
}

func (a *authenticator) refreshToken(ctx echo.Context, svc user.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	// check the account still exists
	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return "", errUnauthorized
		}
		return "", errors.Wrap(err, "finding user by ID")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(a.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := a.userClaims(usr, claims.TimetableSeed, claims.OrigIssuedAt)
	token, err := a.GenerateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}

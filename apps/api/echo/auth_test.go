package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core/user"
)

func parseToken(t *testing.T, body []byte) Claims {
	t.Helper()
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(body, &resp))

	claims := new(Claims)
	_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	return *claims
}

func TestHome(t *testing.T) {
	app := setup(t)
	req, rec := newAuthRequest(http.MethodGet, "/", "", nil)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Masomo Dashboard API!", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestAuthAPI_staffLogin(t *testing.T) {
	app := setup(t)
	path := "/v1/auth/staff/login"

	tests := []httpTest{
		{
			name:     "missing fields",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email": "this field is required", "password": "this field is required"}`),
		},
		{
			name:     "wrong password",
			body:     []byte(`{"email": "dean@upes.ac.in", "password": "nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "unknown email",
			body:     []byte(`{"email": "ghost@upes.ac.in", "password": "S3cret!pass"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "valid",
			body:     []byte(`{"email": " Dean@UPES.ac.in", "password": "S3cret!pass"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = path
			rec := app.run(t, tt)

			if tt.wantCode == http.StatusOK {
				claims := parseToken(t, rec.Body.Bytes())
				assert.Equal(t, staffEmail, claims.Subject)
				assert.True(t, claims.IsStaff)
				assert.False(t, claims.IsStudent)
				assert.Equal(t, []string{user.RoleStaff}, claims.Roles)
				assert.Equal(t, claims.IssuedAt, claims.OrigIssuedAt)
				assert.NotEmpty(t, claims.Id)
			}
		})
	}
}

func TestAuthAPI_studentLogin(t *testing.T) {
	app := setup(t)
	path := "/v1/auth/students/login"

	tests := []httpTest{
		{
			name:     "malformed ID",
			body:     []byte(`{"student_id": "12ab", "password": "12ab"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"student_id": "student ID must be a 6-digit number"}`),
		},
		{
			name:     "wrong password",
			body:     []byte(`{"student_id": "100001", "password": "100002"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "unknown student",
			body:     []byte(`{"student_id": "999999", "password": "999999"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "valid",
			body:     []byte(`{"student_id": "100001", "password": "100001"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = path
			rec := app.run(t, tt)

			if tt.wantCode == http.StatusOK {
				claims := parseToken(t, rec.Body.Bytes())
				assert.Equal(t, "100001", claims.Subject)
				assert.True(t, claims.IsStudent)
				assert.Equal(t, riya.ID, claims.StudentID)
				assert.Equal(t, riya.Name, claims.Name)
			}
		})
	}
}

func TestAuthAPI_sessionsGetTheirOwnTimetable(t *testing.T) {
	app := setup(t)
	login := httpTest{
		method:   http.MethodPost,
		path:     "/v1/auth/students/login",
		body:     []byte(`{"student_id": "100001", "password": "100001"}`),
		wantCode: http.StatusOK,
	}
	c1 := parseToken(t, app.run(t, login).Body.Bytes())
	c2 := parseToken(t, app.run(t, login).Body.Bytes())
	assert.NotEqual(t, c1.TimetableSeed, c2.TimetableSeed)
}

func TestAuthAPI_refreshToken(t *testing.T) {
	app := setup(t)
	path := "/v1/auth/token-refresh"
	stale := time.Now().Add(-5 * time.Hour).Unix()
	riyaUsr := user.User{ID: "100001", Name: riya.Name, Roles: []string{user.RoleStudent}, StudentID: riya.ID}

	tests := []httpTest{
		{
			name:     "missing token",
			wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, errMissingToken),
		},
		{
			name:     "invalid token",
			token:    "not.a.token",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "refresh expired",
			token:    app.token(t, riyaUsr, 42, stale),
			wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "refresh has expired"}),
		},
		{
			name:     "deleted account",
			token:    app.token(t, user.User{ID: "999999", Roles: []string{user.RoleStudent}, StudentID: 999999}, 42),
			wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, httpErr{Error: "user not authenticated"}),
		},
		{
			name:     "valid",
			token:    app.studentToken(t, riya, 42),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = path
			rec := app.run(t, tt)

			if tt.wantCode == http.StatusOK {
				claims := parseToken(t, rec.Body.Bytes())
				assert.Equal(t, "100001", claims.Subject)
				assert.Equal(t, int64(42), claims.TimetableSeed)
				assert.True(t, claims.IsStudent)
			}
		})
	}
}

func TestClaims_hasRole(t *testing.T) {
	c := Claims{Roles: []string{user.RoleStudent, user.RoleStaff}}
	assert.True(t, c.hasRole(user.RoleStaff))
	assert.True(t, c.hasRole(user.RoleStudent))
	assert.False(t, c.hasRole("admin:"))
	assert.False(t, Claims{}.hasRole(user.RoleStaff))
	// roles are left untouched
	assert.Equal(t, []string{user.RoleStudent, user.RoleStaff}, c.Roles)
}

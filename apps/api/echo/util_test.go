package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/student"
	"github.com/trezcool/masomo-dashboard/core/user"
	inmemdb "github.com/trezcool/masomo-dashboard/storage/inmem"
)

const (
	staffEmail = "dean@upes.ac.in"
	staffPwd   = "S3cret!pass"
)

var (
	riya = student.Student{
		ID: 100001, Name: "Riya Sharma", Email: "riya@upes.ac.in", Course: "B.Tech CSE", Semester: 5,
		Specialization: "AI & ML", Extracurricular: "Coding Club",
		Test1Score: 70, Test2Score: 80, Test3Score: 90,
		AttendancePercentage: 92, AssignmentsCompleted: 10, GPA: 3.8, TotalClasses: 100, ClassesAttended: 92,
	}
	arjun = student.Student{
		ID: 100002, Name: "Arjun Patel", Email: "arjun@upes.ac.in", Course: "B.Tech CSE", Semester: 5,
		Specialization: "Cloud Computing", Extracurricular: "Music Club",
		Test1Score: 80, Test2Score: 65, Test3Score: 60,
		AttendancePercentage: 70, AssignmentsCompleted: 5, GPA: 2.6, TotalClasses: 40, ClassesAttended: 28,
	}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}

	staffHashOnce sync.Once
	staffHash     string
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

// testLogger records what the server logs.
type testLogger struct {
	mu     sync.Mutex
	errors []interface{}
}

var _ core.Logger = (*testLogger)(nil)

func (l *testLogger) Debug(string, ...interface{}) {}
func (l *testLogger) Info(string, ...interface{})  {}
func (l *testLogger) Warn(string, ...interface{})  {}
func (l *testLogger) Fatal(string, ...interface{}) {}

func (l *testLogger) Error(_ string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, args...)
}

type testApp struct {
	*server
	logger     *testLogger
	studentSvc student.Service
}

func newTestConfig(t *testing.T) *core.Config {
	staffHashOnce.Do(func() {
		usr := user.User{}
		require.NoError(t, usr.SetPassword(staffPwd))
		staffHash = string(usr.PasswordHash)
	})
	return &core.Config{
		AppName:       "Masomo Dashboard",
		Env:           "TEST",
		TestMode:      true,
		SecretKey:     "secret",
		StaffAccounts: map[string]string{staffEmail: staffHash},
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

func setupWithRepo(t *testing.T, repo student.Repository) *testApp {
	t.Helper()
	conf := newTestConfig(t)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	logger := new(testLogger)
	studentSvc := student.NewService(repo)
	srv := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		StudentSvc: studentSvc,
		UserSvc:    user.NewService(conf, repo),
		Validate:   validate,
		Translator: translator,
	}).(*server)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return &testApp{server: srv, logger: logger, studentSvc: studentSvc}
}

func setup(t *testing.T) *testApp {
	t.Helper()
	repo := inmemdb.NewStudentRepository(inmemdb.Open())
	require.NoError(t, repo.CreateStudents(riya, arjun))
	return setupWithRepo(t, repo)
}

func (app *testApp) token(t *testing.T, usr user.User, seed int64, origIat ...int64) string {
	t.Helper()
	token, err := app.auth.GenerateToken(app.auth.userClaims(usr, seed, origIat...))
	require.NoError(t, err)
	return token
}

func (app *testApp) staffToken(t *testing.T) string {
	return app.token(t, user.User{ID: staffEmail, Email: staffEmail, Roles: []string{user.RoleStaff}}, 1)
}

func (app *testApp) studentToken(t *testing.T, s student.Student, seed int64) string {
	usr := user.User{
		ID:        strconv.Itoa(s.ID),
		Name:      s.Name,
		Roles:     []string{user.RoleStudent},
		StudentID: s.ID,
	}
	return app.token(t, usr, seed)
}

func (app *testApp) run(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	t.Helper()
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
	return rec
}

func newAuthRequest(method, path, token string, data []byte) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

package user

import (
	"context"
	"crypto/subtle"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/student"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Service interface {
		AuthenticateStaff(email, pwd string) (User, error)
		// AuthenticateStudent checks a student login. The password is the student ID itself.
		AuthenticateStudent(ctx context.Context, studentID, pwd string) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
	}

	service struct {
		staff    map[string]string // email -> bcrypt hash
		students student.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, students student.Repository) Service {
	staff := make(map[string]string, len(conf.StaffAccounts))
	for email, hash := range conf.StaffAccounts {
		staff[core.CleanString(email, true /* lower */)] = hash
	}
	return &service{staff: staff, students: students}
}

func (svc *service) AuthenticateStaff(email, pwd string) (User, error) {
	usr, err := svc.getStaff(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *service) AuthenticateStudent(ctx context.Context, studentID, pwd string) (User, error) {
	studentID = core.CleanString(studentID)
	if !core.IsStudentID(studentID) {
		return User{}, ErrInvalidCredentials
	}
	usr, err := svc.getStudent(ctx, studentID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if subtle.ConstantTimeCompare([]byte(pwd), []byte(studentID)) != 1 {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	if core.IsStudentID(id) {
		return svc.getStudent(ctx, id)
	}
	return svc.getStaff(id)
}

func (svc *service) getStaff(email string) (User, error) {
	email = core.CleanString(email, true /* lower */)
	hash, ok := svc.staff[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return User{
		ID:           email,
		Name:         email,
		Email:        email,
		Roles:        []string{RoleStaff},
		PasswordHash: []byte(hash),
	}, nil
}

func (svc *service) getStudent(ctx context.Context, studentID string) (User, error) {
	id, err := strconv.Atoi(studentID)
	if err != nil {
		return User{}, ErrNotFound
	}
	s, err := svc.students.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return User{}, ErrNotFound
		}
		return User{}, errors.Wrap(err, "finding student by ID")
	}
	return User{
		ID:        studentID,
		Name:      s.Name,
		Email:     s.Email,
		Roles:     []string{RoleStudent},
		StudentID: s.ID,
	}, nil
}

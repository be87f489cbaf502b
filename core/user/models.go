package user

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/masomo-dashboard/core"
)

// Roles
const (
	RoleStaff   = "staff:"
	RoleStudent = "student:"
)

// User is an authenticated principal: a staff member (config account) or a student (CSV record).
type User struct {
	ID           string   `json:"id"` // staff email | student ID
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
	StudentID    int      `json:"student_id,omitempty"`
	PasswordHash []byte   `json:"-"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) RoleStartsWith(prefix string) bool {
	for _, role := range u.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (u *User) IsStaff() bool {
	return u.RoleStartsWith(RoleStaff)
}

func (u *User) IsStudent() bool {
	return u.RoleStartsWith(RoleStudent)
}

// NewStaffAccount contains information needed to create a STAFF_ACCOUNTS entry.
type NewStaffAccount struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (na *NewStaffAccount) Validate(validate *validator.Validate) error {
	na.Email = core.CleanString(na.Email, true /* lower */)
	return validate.Struct(na)
}

// Entry hashes the password and returns the account as "email:hash".
func (na NewStaffAccount) Entry() (string, error) {
	usr := User{Email: na.Email}
	if err := usr.SetPassword(na.Password); err != nil {
		return "", err
	}
	return na.Email + ":" + string(usr.PasswordHash), nil
}

// Package validation checks the login and signup forms before anything is dispatched.
package validation

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fjod/shop-sphere/internal/domain"
)

const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Errors maps a form field to the message shown next to it.
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}

type SignupForm struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (f SignupForm) SignUpData() domain.SignUpData {
	return domain.SignUpData{
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
	}
}

func Login(c domain.Credentials) Errors {
	errs := Errors{}
	if strings.TrimSpace(c.Username) == "" {
		errs["username"] = "Username is required"
	}
	if strings.TrimSpace(c.Password) == "" {
		errs["password"] = "Password is required"
	}
	return errs
}

func Signup(f SignupForm) Errors {
	errs := Errors{}

	if strings.TrimSpace(f.Username) == "" {
		errs["username"] = "Username is required"
	}

	switch {
	case strings.TrimSpace(f.Email) == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(f.Email):
		errs["email"] = "Email is invalid"
	}

	switch {
	case f.Password == "":
		errs["password"] = "Password is required"
	case utf8.RuneCountInString(f.Password) < MinPasswordLength:
		errs["password"] = "Must be at least 6 characters"
	}

	if f.Password != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	return errs
}

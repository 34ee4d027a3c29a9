package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/smallbiznis/clubhouse/internal/config"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneNoise   = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Intake is the public registration form.
type Intake struct {
	EventID      string `json:"eventId"`
	Name         string `json:"name"`
	School       string `json:"school"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ParentsPhone string `json:"parentsPhone"`
	Information  string `json:"information"`
}

// NormalizeEmail is the key the duplicate guard and the unique index use.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate trims the intake and checks it against policy. The returned
// intake is only meaningful when err is nil.
func Validate(in Intake, policy config.IntakePolicy) (Intake, error) {
	out := Intake{
		EventID:      strings.TrimSpace(in.EventID),
		Name:         strings.TrimSpace(in.Name),
		School:       strings.TrimSpace(in.School),
		Email:        strings.TrimSpace(in.Email),
		Phone:        phoneNoise.Replace(strings.TrimSpace(in.Phone)),
		ParentsPhone: phoneNoise.Replace(strings.TrimSpace(in.ParentsPhone)),
		Information:  strings.TrimSpace(in.Information),
	}

	var errs ValidationErrors
	if out.EventID == "" {
		errs.Add("eventId", "required", "Event is required")
	}
	requireText(&errs, "name", "Name", out.Name, policy.MaxName)
	requireText(&errs, "school", "School", out.School, policy.MaxSchool)

	switch {
	case out.Email == "":
		errs.Add("email", "required", "Email is required")
	case utf8.RuneCountInString(out.Email) > policy.MaxEmail:
		errs.Add("email", "too_long", fmt.Sprintf("Email must be at most %d characters", policy.MaxEmail))
	case !emailPattern.MatchString(out.Email):
		errs.Add("email", "invalid", "Email address is not valid")
	}

	if out.Phone != "" && !validPhone(out.Phone, policy) {
		errs.Add("phone", "invalid", phoneMessage("Phone", policy))
	}
	switch {
	case out.ParentsPhone == "":
		errs.Add("parentsPhone", "required", "Parent's phone is required")
	case !validPhone(out.ParentsPhone, policy):
		errs.Add("parentsPhone", "invalid", phoneMessage("Parent's phone", policy))
	}

	if utf8.RuneCountInString(out.Information) > policy.MaxInformation {
		errs.Add("information", "too_long", fmt.Sprintf("Information must be at most %d characters", policy.MaxInformation))
	}

	return out, errs.orNil()
}

func requireText(errs *ValidationErrors, field, label, value string, max int) {
	switch {
	case value == "":
		errs.Add(field, "required", label+" is required")
	case utf8.RuneCountInString(value) > max:
		errs.Add(field, "too_long", fmt.Sprintf("%s must be at most %d characters", label, max))
	}
}

func validPhone(phone string, policy config.IntakePolicy) bool {
	if len(phone) != policy.PhoneDigits || !strings.HasPrefix(phone, policy.PhonePrefix) {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func phoneMessage(label string, policy config.IntakePolicy) string {
	return fmt.Sprintf("%s must be %d digits starting with %s", label, policy.PhoneDigits, policy.PhonePrefix)
}

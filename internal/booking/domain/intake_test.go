package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/smallbiznis/clubhouse/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validIntake() Intake {
	return Intake{
		EventID:      "E1",
		Name:         " Ada ",
		School:       "Tech High",
		Email:        "ada@example.com",
		ParentsPhone: "017-1234-5678",
	}
}

func TestValidateTrimsAndNormalizes(t *testing.T) {
	out, err := Validate(validIntake(), config.DefaultIntakePolicy())
	require.NoError(t, err)
	assert.Equal(t, "Ada", out.Name)
	assert.Equal(t, "01712345678", out.ParentsPhone)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	in := Intake{
		Email:        "ada@example",
		Phone:        "0171234567",
		ParentsPhone: "",
		Information:  strings.Repeat("x", 4001),
	}
	_, err := Validate(in, config.DefaultIntakePolicy())

	var verrs *ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, errors.Is(err, ErrInvalidIntake))

	codes := map[string]string{}
	for _, e := range verrs.Errors {
		codes[e.Field] = e.Code
	}
	assert.Equal(t, map[string]string{
		"eventId":      "required",
		"name":         "required",
		"school":       "required",
		"email":        "invalid",
		"phone":        "invalid",
		"parentsPhone": "required",
		"information":  "too_long",
	}, codes)
}

func TestValidatePhoneRules(t *testing.T) {
	policy := config.DefaultIntakePolicy()
	cases := map[string]bool{
		"01712345678":    true,
		"01 712 345 678": true,
		"02712345678":    false,
		"0171234567":     false,
		"017123456789":   false,
		"0171234567a":    false,
	}
	for phone, ok := range cases {
		in := validIntake()
		in.ParentsPhone = phone
		_, err := Validate(in, policy)
		if ok {
			assert.NoError(t, err, phone)
		} else {
			assert.Error(t, err, phone)
		}
	}
}

func TestValidateOptionalPhone(t *testing.T) {
	in := validIntake()
	in.Phone = "   "
	_, err := Validate(in, config.DefaultIntakePolicy())
	assert.NoError(t, err)
}

func TestValidateFollowsPolicy(t *testing.T) {
	policy := config.DefaultIntakePolicy()
	policy.PhonePrefix = "09"
	policy.MaxName = 3

	_, err := Validate(validIntake(), policy)
	var verrs *ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs.Errors, 1)
	assert.Equal(t, "parentsPhone", verrs.Errors[0].Field)

	in := validIntake()
	in.Name = "Ada Lovelace"
	in.ParentsPhone = "09123456789"
	_, err = Validate(in, policy)
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "too_long", verrs.Errors[0].Code)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM "))
}

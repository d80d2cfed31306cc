package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInstitutionalEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"gator@sfsu.edu", true},
		{"gator@mail.sfsu.edu", true},
		{"Gator@SFSU.EDU", true},
		{"gator@gmail.com", false},
		{"gator@notsfsu.edu", false},
		{"gator@sfsu.edu.evil.com", false},
		{"not-an-email", false},
		{"Gator <gator@sfsu.edu>", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInstitutionalEmail(tt.email, "sfsu.edu"))
		})
	}
}

type signup struct {
	Name     string `binding:"required"`
	Email    string `binding:"required,institutional"`
	Password string `binding:"required,min=8"`
}

func TestRegisterInstitutionalEmail(t *testing.T) {
	require.NoError(t, RegisterInstitutionalEmail("sfsu.edu"))

	err := binding.Validator.ValidateStruct(&signup{Name: "Al", Email: "al@sfsu.edu", Password: "longenough"})
	assert.NoError(t, err)

	err = binding.Validator.ValidateStruct(&signup{Email: "al@gmail.com", Password: "short"})
	require.Error(t, err)

	msg := FormatValidationError(err)
	assert.Contains(t, msg, "Name is required")
	assert.Contains(t, msg, "Email must be an institutional email address")
	assert.Contains(t, msg, "Password must be at least 8 characters")
}

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"finclusion/internal/shared/auth"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
		wantErr  string
	}{
		{name: "missing name", password: "secret1", wantErr: "please fill all fields"},
		{name: "server minimum accepted", user: "Asha", password: strings.Repeat("x", auth.MinPasswordLength)},
		{name: "below server minimum", user: "Asha", password: strings.Repeat("x", auth.MinPasswordLength-1), wantErr: auth.ErrPasswordTooShort.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRegistration(tt.user, "asha@example.com", tt.password)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

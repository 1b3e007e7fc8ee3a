package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/coding-portfolio/pkg/apperror"
	"github.com/khoahotran/coding-portfolio/pkg/auth"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

func newOwner(t *testing.T) Owner {
	t.Helper()
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	return Owner{ID: uuid.New(), Email: "owner@example.com", PasswordHash: hash}
}

func TestLoginUseCase_Execute(t *testing.T) {
	owner := newOwner(t)
	jwtSvc := auth.NewJWTService("secret", time.Hour)
	uc := NewLoginUseCase(owner, jwtSvc, logger.NewNopLogger())

	testCases := []struct {
		name    string
		input   LoginInput
		wantErr error
	}{
		{name: "valid credentials", input: LoginInput{Email: "Owner@Example.com", Password: "s3cret"}},
		{name: "wrong password", input: LoginInput{Email: "owner@example.com", Password: "nope"}, wantErr: apperror.ErrUnauthorized},
		{name: "wrong email", input: LoginInput{Email: "else@example.com", Password: "s3cret"}, wantErr: apperror.ErrUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), tc.input)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			claims, err := jwtSvc.ValidateToken(out.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, owner.ID, claims.OwnerID)
		})
	}
}

func TestLoginUseCase_NotConfigured(t *testing.T) {
	uc := NewLoginUseCase(Owner{}, auth.NewJWTService("secret", time.Hour), logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), LoginInput{Email: "a", Password: "b"})
	assert.ErrorIs(t, err, apperror.ErrPermission)
}

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/coding-portfolio/pkg/apperror"
	"github.com/khoahotran/coding-portfolio/pkg/auth"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("email or password is incorrect")
)

// Owner is the single account allowed into the admin endpoints.
type Owner struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
}

type LoginUseCase struct {
	owner  Owner
	jwtSvc *auth.JWTService
	logger logger.Logger
}

func NewLoginUseCase(owner Owner, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		owner:  owner,
		jwtSvc: jwtSvc,
		logger: log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	AccessToken string
}

var tracer = otel.Tracer("auth_usecase")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	_, span := tracer.Start(ctx, "Execute")
	defer span.End()

	if uc.owner.PasswordHash == "" {
		err := apperror.NewPermissionDenied("admin login is not configured")
		span.RecordError(err)
		return nil, err
	}

	emailMatches := subtle.ConstantTimeCompare(
		[]byte(strings.ToLower(input.Email)),
		[]byte(strings.ToLower(uc.owner.Email)),
	) == 1
	if !emailMatches || !auth.CheckPasswordHash(input.Password, uc.owner.PasswordHash) {
		err := apperror.NewUnauthorized("incorrect email or password", ErrInvalidCredentials)
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(uc.owner.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("owner_id", uc.owner.ID.String()))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("owner_id", uc.owner.ID.String()))
	return &LoginOutput{AccessToken: token}, nil
}

package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/storefront-cart/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AuthService handles login and registration at the identity boundary.
// It never stores credentials; the returned Identity is the caller's to keep.
type AuthService struct {
	gateway AuthGateway
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(gateway AuthGateway, tracer trace.Tracer, logger *slog.Logger) *AuthService {
	return &AuthService{
		gateway: gateway,
		tracer:  tracer,
		logger:  logger,
	}
}

// Login validates the form and exchanges it for an identity
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (domain.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	span.SetAttributes(attribute.String("user.name", creds.Username))

	if err := creds.Validate(); err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		return domain.Anonymous, err
	}

	id, err := s.gateway.Login(ctx, creds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Login failed")
		s.logger.WarnContext(ctx, "Login failed",
			slog.String("username", creds.Username),
			slog.String("error", err.Error()),
		)
		return domain.Anonymous, err
	}

	s.logger.InfoContext(ctx, "Logged in successfully",
		slog.String("username", id.Username),
	)
	span.SetStatus(codes.Ok, "Logged in")
	return id, nil
}

// Register validates the form and creates the account
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	span.SetAttributes(attribute.String("user.name", reg.Username))

	if err := reg.Validate(); err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		return err
	}

	if err := s.gateway.Register(ctx, reg.Credentials()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Registration failed")
		s.logger.WarnContext(ctx, "Registration failed",
			slog.String("username", reg.Username),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.InfoContext(ctx, "Registered successfully",
		slog.String("username", reg.Username),
	)
	span.SetStatus(codes.Ok, "Registered")
	return nil
}

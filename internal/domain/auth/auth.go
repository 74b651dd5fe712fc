package auth

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/faq-chatbot/pkg/errors"
)

// Config drives token verification. With neither Secret nor Issuer set,
// requests run as anonymous; the sign-in flow itself lives outside this
// service.
type Config struct {
	// Secret enables locally signed HS256 access tokens.
	Secret string
	// Issuer and Audience enable OIDC ID-token verification.
	Issuer   string
	Audience string
	// AdminKeyHash is a bcrypt hash guarding the schema admin endpoints.
	AdminKeyHash string
}

// Claims identifies the calling user.
type Claims struct {
	Subject string
	Email   string
}

// Service validates bearer tokens and admin keys.
type Service interface {
	// Enabled reports whether bearer tokens are required at all.
	Enabled() bool
	ValidateToken(ctx context.Context, token string) (Claims, error)
	ValidateAdminKey(key string) error
}

type service struct {
	cfg    Config
	logger *slog.Logger

	providerOnce sync.Once
	verifier     *oidc.IDTokenVerifier
	providerErr  error
}

// NewService constructs the verifier.
func NewService(cfg Config, logger *slog.Logger) Service {
	return &service{cfg: cfg, logger: logger.With("component", "auth.service")}
}

func (s *service) Enabled() bool {
	return strings.TrimSpace(s.cfg.Secret) != "" || strings.TrimSpace(s.cfg.Issuer) != ""
}

func (s *service) ValidateToken(ctx context.Context, token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.Wrap("invalid_token", "token cannot be empty", nil)
	}

	if strings.TrimSpace(s.cfg.Secret) != "" {
		claims, err := s.validateLocal(token)
		if err == nil {
			return claims, nil
		}
		if strings.TrimSpace(s.cfg.Issuer) == "" {
			return Claims{}, err
		}
	}
	if strings.TrimSpace(s.cfg.Issuer) != "" {
		return s.validateOIDC(ctx, token)
	}
	return Claims{}, apperrors.Wrap("invalid_token", "token verification is not configured", nil)
}

func (s *service) validateLocal(token string) (Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, apperrors.Wrap("invalid_token", "invalid access token", err)
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, apperrors.Wrap("invalid_token", "unexpected token claims", nil)
	}
	subject, _ := mapClaims["sub"].(string)
	if subject == "" {
		return Claims{}, apperrors.Wrap("invalid_token", "token has no subject", nil)
	}
	email, _ := mapClaims["email"].(string)
	return Claims{Subject: subject, Email: email}, nil
}

func (s *service) validateOIDC(ctx context.Context, token string) (Claims, error) {
	// Provider discovery performs network I/O; defer it to the first
	// request instead of service construction.
	s.providerOnce.Do(func() {
		provider, err := oidc.NewProvider(context.Background(), s.cfg.Issuer)
		if err != nil {
			s.providerErr = err
			return
		}
		s.verifier = provider.Verifier(&oidc.Config{ClientID: s.cfg.Audience})
	})
	if s.providerErr != nil {
		return Claims{}, apperrors.Wrap("auth_error", "oidc provider discovery failed", s.providerErr)
	}

	idToken, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return Claims{}, apperrors.Wrap("invalid_token", "invalid id token", err)
	}
	var payload struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&payload); err != nil {
		s.logger.Warn("id token claims decode failed", "error", err)
	}
	return Claims{Subject: idToken.Subject, Email: payload.Email}, nil
}

func (s *service) ValidateAdminKey(key string) error {
	if strings.TrimSpace(s.cfg.AdminKeyHash) == "" {
		return apperrors.Wrap("forbidden", "admin access is not configured", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminKeyHash), []byte(key)); err != nil {
		return apperrors.Wrap("forbidden", "invalid admin key", err)
	}
	return nil
}

package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/descope/go-sdk/descope"
	"github.com/descope/go-sdk/descope/client"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// descopeUserExistsCode is returned by password sign-up when the login id is taken.
const descopeUserExistsCode = "E062107"

type passwordAuth interface {
	SignUp(ctx context.Context, loginID string, user *descope.User, password string, w http.ResponseWriter) (*descope.AuthenticationInfo, error)
	SignIn(ctx context.Context, loginID string, password string, w http.ResponseWriter) (*descope.AuthenticationInfo, error)
}

type sessionValidator interface {
	ValidateSessionWithToken(ctx context.Context, sessionToken string) (bool, *descope.Token, error)
}

// DescopeGateway delegates accounts and sessions to Descope. Email is
// used as the login id, and the session JWT template must carry an
// "email" claim.
type DescopeGateway struct {
	passwords passwordAuth
	sessions  sessionValidator
	logger    zerolog.Logger
}

func NewDescopeGateway(projectID, managementKey string) (*DescopeGateway, error) {
	if projectID == "" {
		return nil, errs.NewConfigError("DESCOPE_PROJECT_ID", nil)
	}

	descopeClient, err := client.NewWithConfig(&client.Config{
		ProjectID:     projectID,
		ManagementKey: managementKey,
	})
	if err != nil {
		return nil, errs.NewServiceUnreachableError("descope", err)
	}

	return newDescopeGateway(descopeClient.Auth.Password(), descopeClient.Auth), nil
}

func newDescopeGateway(passwords passwordAuth, sessions sessionValidator) *DescopeGateway {
	return &DescopeGateway{
		passwords: passwords,
		sessions:  sessions,
		logger:    log.With().Str("component", "descopeIdentity").Logger(),
	}
}

func (g *DescopeGateway) Register(ctx context.Context, email, password string) (*Session, error) {
	info, err := g.passwords.SignUp(ctx, email, &descope.User{Email: email}, password, nil)
	if err != nil {
		return nil, mapSignUpError(email, err)
	}
	return sessionFromInfo(email, info)
}

func (g *DescopeGateway) Login(ctx context.Context, email, password string) (*Session, error) {
	info, err := g.passwords.SignIn(ctx, email, password, nil)
	if err != nil {
		return nil, errs.NewInvalidCredentialsError(err)
	}
	return sessionFromInfo(email, info)
}

func (g *DescopeGateway) Verify(ctx context.Context, token string) (*Claims, error) {
	ok, parsed, err := g.sessions.ValidateSessionWithToken(ctx, token)
	if err != nil {
		if isExpiry(err) {
			return nil, errs.NewExpiredTokenError(err)
		}
		return nil, errs.NewInvalidTokenError(err)
	}
	if !ok || parsed == nil || parsed.ID == "" {
		return nil, errs.NewInvalidTokenError(nil)
	}

	email, _ := parsed.Claims["email"].(string)
	return &Claims{
		UserID:    parsed.ID,
		Email:     email,
		ExpiresAt: time.Unix(parsed.Expiration, 0),
	}, nil
}

func sessionFromInfo(email string, info *descope.AuthenticationInfo) (*Session, error) {
	if info == nil || info.SessionToken == nil || info.User == nil {
		return nil, errs.NewIdentityProviderError("issue session", nil)
	}

	return &Session{
		Identity:  Identity{ID: info.User.UserID, Email: email},
		Token:     info.SessionToken.JWT,
		ExpiresAt: time.Unix(info.SessionToken.Expiration, 0),
	}, nil
}

func mapSignUpError(email string, err error) error {
	var descopeErr *descope.Error
	if errors.As(err, &descopeErr) {
		if descopeErr.Code == descopeUserExistsCode {
			return errs.NewEmailInUseError(email)
		}
		if strings.Contains(strings.ToLower(descopeErr.Description), "password") {
			return errs.NewWeakPasswordError(err)
		}
	}
	return errs.NewIdentityProviderError("create account", err)
}

func isExpiry(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "expired") || strings.Contains(msg, `"exp" not satisfied`)
}

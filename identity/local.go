package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const localIssuer = "blog-platform"

// LocalGateway keeps bcrypt password hashes in a CredentialStore and
// mints HS256 tokens.
type LocalGateway struct {
	credentials database.CredentialStore
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
	logger      zerolog.Logger
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewLocalGateway(credentials database.CredentialStore, secret []byte, ttl time.Duration) (*LocalGateway, error) {
	if len(secret) == 0 {
		return nil, errs.NewConfigError("JWT_SECRET", nil)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &LocalGateway{
		credentials: credentials,
		secret:      secret,
		ttl:         ttl,
		now:         time.Now,
		logger:      log.With().Str("component", "localIdentity").Logger(),
	}, nil
}

func (g *LocalGateway) Register(ctx context.Context, email, password string) (*Session, error) {
	if PasswordTooShort(password) {
		return nil, errs.NewWeakPasswordError(nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.NewWeakPasswordError(err)
	}

	credential := &models.Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := g.credentials.Add(ctx, credential); err != nil {
		if errs.IsAlreadyExists(err) {
			return nil, errs.NewEmailInUseError(email)
		}
		return nil, errs.NewIdentityProviderError("create account", err)
	}

	g.logger.Info().Str("userID", credential.ID).Msg("account created")
	return g.issue(Identity{ID: credential.ID, Email: credential.Email})
}

func (g *LocalGateway) Login(ctx context.Context, email, password string) (*Session, error) {
	credential, err := g.credentials.FindByEmail(ctx, email)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NewInvalidCredentialsError(err)
		}
		return nil, errs.NewIdentityProviderError("sign in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)); err != nil {
		return nil, errs.NewInvalidCredentialsError(err)
	}

	return g.issue(Identity{ID: credential.ID, Email: credential.Email})
}

func (g *LocalGateway) Verify(_ context.Context, token string) (*Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(localIssuer),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError(err)
		}
		return nil, errs.NewInvalidTokenError(err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, errs.NewInvalidTokenError(nil)
	}

	return &Claims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (g *LocalGateway) issue(id Identity) (*Session, error) {
	issuedAt := g.now()
	expiresAt := issuedAt.Add(g.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			Issuer:    localIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(g.secret)
	if err != nil {
		return nil, errs.NewIdentityProviderError("sign token", err)
	}

	return &Session{Identity: id, Token: signed, ExpiresAt: expiresAt}, nil
}

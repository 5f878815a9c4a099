package identity

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/descope/go-sdk/descope"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDescope struct {
	signUpErr   error
	signInErr   error
	validateErr error
	token       *descope.Token
}

func (f *fakeDescope) SignUp(_ context.Context, loginID string, _ *descope.User, _ string, _ http.ResponseWriter) (*descope.AuthenticationInfo, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.info(loginID), nil
}

func (f *fakeDescope) SignIn(_ context.Context, loginID string, _ string, _ http.ResponseWriter) (*descope.AuthenticationInfo, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.info(loginID), nil
}

func (f *fakeDescope) ValidateSessionWithToken(_ context.Context, _ string) (bool, *descope.Token, error) {
	if f.validateErr != nil {
		return false, nil, f.validateErr
	}
	return true, f.token, nil
}

func (f *fakeDescope) info(loginID string) *descope.AuthenticationInfo {
	return &descope.AuthenticationInfo{
		SessionToken: &descope.Token{JWT: "jwt-" + loginID, Expiration: time.Now().Add(time.Hour).Unix()},
		User:         &descope.UserResponse{UserID: "U-" + loginID},
	}
}

func TestDescopeRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		fake := &fakeDescope{}
		session, err := newDescopeGateway(fake, fake).Register(ctx, "ann@x.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "U-ann@x.com", session.ID)
		assert.Equal(t, "jwt-ann@x.com", session.Token)
	})

	t.Run("email in use", func(t *testing.T) {
		fake := &fakeDescope{signUpErr: &descope.Error{Code: descopeUserExistsCode}}
		_, err := newDescopeGateway(fake, fake).Register(ctx, "ann@x.com", "secret1")
		assert.True(t, errs.IsEmailInUseError(err))
	})

	t.Run("weak password", func(t *testing.T) {
		fake := &fakeDescope{signUpErr: &descope.Error{Code: "E000000", Description: "Password does not meet policy"}}
		_, err := newDescopeGateway(fake, fake).Register(ctx, "ann@x.com", "secret1")
		assert.True(t, errs.IsWeakPasswordError(err))
	})

	t.Run("anything else", func(t *testing.T) {
		fake := &fakeDescope{signUpErr: errors.New("boom")}
		_, err := newDescopeGateway(fake, fake).Register(ctx, "ann@x.com", "secret1")
		assert.ErrorIs(t, err, errs.ErrIdentityProvider)
	})
}

func TestDescopeLoginFailureIsInvalidCredentials(t *testing.T) {
	fake := &fakeDescope{signInErr: errors.New("user not found")}
	_, err := newDescopeGateway(fake, fake).Login(context.Background(), "ann@x.com", "secret1")
	assert.True(t, errs.IsInvalidCredentialsError(err))
}

func TestDescopeVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("claims", func(t *testing.T) {
		fake := &fakeDescope{token: &descope.Token{
			ID:         "U1",
			Expiration: time.Now().Add(time.Hour).Unix(),
			Claims:     map[string]interface{}{"email": "ann@x.com"},
		}}
		claims, err := newDescopeGateway(fake, fake).Verify(ctx, "t")
		require.NoError(t, err)
		assert.Equal(t, "U1", claims.UserID)
		assert.Equal(t, "ann@x.com", claims.Email)
	})

	t.Run("expired", func(t *testing.T) {
		fake := &fakeDescope{validateErr: errors.New(`"exp" not satisfied`)}
		_, err := newDescopeGateway(fake, fake).Verify(ctx, "t")
		assert.True(t, errs.IsExpiredTokenError(err))
	})

	t.Run("invalid", func(t *testing.T) {
		fake := &fakeDescope{validateErr: errors.New("signature mismatch")}
		_, err := newDescopeGateway(fake, fake).Verify(ctx, "t")
		assert.True(t, errs.IsInvalidTokenError(err))
	})
}

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/identity"
	"github.com/rpupo63/blog-platform/models"
	"github.com/rpupo63/blog-platform/views"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	identity  identity.Gateway
	profiles  database.ProfileStore
	cookies   sessionCookies
}

func newAuthHandler(gateway identity.Gateway, profiles database.ProfileStore, renderer *views.Renderer, cookies sessionCookies) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger, renderer),
		logger:    logger,
		identity:  gateway,
		profiles:  profiles,
		cookies:   cookies,
	}
}

type registrationForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// validateRegistration checks the form in a fixed order and reports only
// the first problem.
func validateRegistration(form registrationForm) error {
	switch {
	case strings.TrimSpace(form.Name) == "":
		return errs.NewMissingRequiredFieldError("name")
	case strings.TrimSpace(form.Email) == "":
		return errs.NewMissingRequiredFieldError("email")
	case strings.TrimSpace(form.Password) == "":
		return errs.NewMissingRequiredFieldError("password")
	case form.Password != form.ConfirmPassword:
		return errs.NewPasswordMismatchError()
	case identity.PasswordTooShort(form.Password):
		return errs.NewPasswordTooShortError(identity.MinPasswordLength)
	}
	return nil
}

// registrationMessage maps a validation or gateway error to the text shown on the form.
func registrationMessage(err error) string {
	switch {
	case errors.Is(err, errs.ErrMissingRequiredField):
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			switch apiErr.Field {
			case "name":
				return "Name is required."
			case "email":
				return "Email is required."
			case "password":
				return "Password is required."
			}
		}
		return "All fields are required."
	case errors.Is(err, errs.ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, errs.ErrPasswordTooShort):
		return "Password must be at least 6 characters."
	case errs.IsEmailInUseError(err):
		return "This email is already registered."
	case errs.IsWeakPasswordError(err):
		return "Password is too weak."
	default:
		return "Registration failed. Try again."
	}
}

// showAuth renders the login/sign-up page, or skips it when a session cookie exists.
func (h authHandler) showAuth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := sessionToken(r); err == nil {
			h.responder.Redirect(w, r, "/main")
			return
		}
		h.responder.Render(w, http.StatusOK, views.AuthPage, views.AuthView{})
	}
}

func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.renderSignupError(w, errs.NewBadRequestError("malformed form"))
			return
		}

		form := registrationForm{
			Name:            r.PostFormValue("name"),
			Email:           r.PostFormValue("email"),
			Password:        r.PostFormValue("password"),
			ConfirmPassword: r.PostFormValue("confirmPassword"),
		}
		if err := validateRegistration(form); err != nil {
			h.renderSignupError(w, err)
			return
		}

		session, err := h.registerAccount(r.Context(), form)
		if err != nil {
			h.renderSignupError(w, err)
			return
		}

		h.cookies.set(w, session.Token, session.ExpiresAt)
		h.responder.Redirect(w, r, "/main")
	}
}

// registerAccount creates the identity, then the profile. A profile failure
// leaves the identity in place.
func (h authHandler) registerAccount(ctx context.Context, form registrationForm) (*identity.Session, error) {
	session, err := h.identity.Register(ctx, form.Email, form.Password)
	if err != nil {
		h.logger.Warn().Err(err).Msg("identity registration failed")
		return nil, err
	}

	profile := &models.Profile{
		ID:    session.ID,
		Name:  strings.TrimSpace(form.Name),
		Email: form.Email,
	}
	if err := h.profiles.Add(ctx, profile); err != nil {
		h.logger.Error().Err(err).Str("userID", session.ID).Msg("identity created but profile could not be saved")
		return nil, errs.NewDatabaseError("create", "profile", err)
	}

	return session, nil
}

func (h authHandler) renderSignupError(w http.ResponseWriter, err error) {
	h.responder.Render(w, http.StatusOK, views.AuthPage, views.AuthView{
		Error:      registrationMessage(err),
		ShowSignup: true,
	})
}

// login never says whether the email exists.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.renderLoginError(w)
			return
		}

		session, err := h.identity.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
		if err != nil {
			if !errs.IsInvalidCredentialsError(err) {
				h.logger.Error().Err(err).Msg("login failed")
			}
			h.renderLoginError(w)
			return
		}

		h.cookies.set(w, session.Token, session.ExpiresAt)
		h.responder.Redirect(w, r, "/main")
	}
}

func (h authHandler) renderLoginError(w http.ResponseWriter) {
	h.responder.Render(w, http.StatusOK, views.AuthPage, views.AuthView{
		Error:      "Invalid email or password.",
		ShowSignup: false,
	})
}

func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.cookies.clear(w)
		h.responder.Redirect(w, r, authEntryPoint)
	}
}

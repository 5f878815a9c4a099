package api

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/identity"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const authEntryPoint = "/auth"

type authMiddleware struct {
	identity identity.Gateway
	cookies  sessionCookies
	logger   zerolog.Logger
}

func newAuthMiddleware(gateway identity.Gateway, cookies sessionCookies) authMiddleware {
	return authMiddleware{
		identity: gateway,
		cookies:  cookies,
		logger:   log.With().Str("handlerName", "authMiddleware").Logger(),
	}
}

// authenticate verifies the access_token cookie and puts the claims in the
// request context. Missing, expired and invalid tokens all end at /auth;
// the latter two also clear the cookie.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.verify(r)
		if err != nil {
			switch {
			case errs.IsMissingTokenError(err):
				m.logger.Debug().Str("path", r.URL.Path).Msg("No session, redirecting to login")
			case errs.IsExpiredTokenError(err):
				m.cookies.clear(w)
				m.logger.Info().Str("path", r.URL.Path).Msg("Token expired, redirecting to login")
			default:
				m.cookies.clear(w)
				m.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Error verifying token")
			}
			http.Redirect(w, r, authEntryPoint, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithClaims(r.Context(), claims)))
	})
}

// verify returns the claims of the request's session, or a missing, expired
// or invalid token error.
func (m authMiddleware) verify(r *http.Request) (*identity.Claims, error) {
	token, err := sessionToken(r)
	if err != nil {
		return nil, err
	}
	return m.identity.Verify(r.Context(), token)
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// HTTPLoggingMiddleware logs every request at a level chosen by status class
func HTTPLoggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, status: 200}

			next.ServeHTTP(srw, r)

			var logEvent *zerolog.Event
			switch {
			case srw.status >= 500:
				logEvent = logger.Error()
			case srw.status >= 400:
				logEvent = logger.Warn()
			default:
				logEvent = logger.Info()
			}

			logEvent.
				Str("requestID", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP Request")
		})
	}
}

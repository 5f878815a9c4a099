package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/views"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger   zerolog.Logger
	renderer *views.Renderer
}

func NewResponder(logger zerolog.Logger, renderer *views.Renderer) Responder {
	return Responder{logger: logger, renderer: renderer}
}

// Render writes page with the given status. A template failure becomes a
// plain 500 because nothing has been written yet.
func (r Responder) Render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := r.renderer.Render(&buf, page, data); err != nil {
		apiErr := errs.NewInternalErrorWithCause("render "+page, err)
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("error rendering page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) Redirect(w http.ResponseWriter, req *http.Request, location string) {
	http.Redirect(w, req, location, http.StatusFound)
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// mainPageURL is the reader scoped to one post.
func mainPageURL(blogID string) string {
	return "/main?blogId=" + url.QueryEscape(blogID)
}

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rpupo63/blog-platform/identity"
	"github.com/rpupo63/blog-platform/models"
	"github.com/rpupo63/blog-platform/services"
	"github.com/rpupo63/blog-platform/views"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const createBlogFailed = "Failed to create blog."

type blogHandler struct {
	responder      Responder
	logger         zerolog.Logger
	content        *services.ContentStore
	profiles       database.ProfileStore
	images         services.ImageEncoder
	maxUploadBytes int64
	now            func() time.Time
}

func newBlogHandler(content *services.ContentStore, profiles database.ProfileStore, images services.ImageEncoder, renderer *views.Renderer, maxUploadBytes int64) blogHandler {
	logger := log.With().Str("handlerName", "blogHandler").Logger()

	return blogHandler{
		responder:      NewResponder(logger, renderer),
		logger:         logger,
		content:        content,
		profiles:       profiles,
		images:         images,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

// getMainPage renders the post named by ?blogId, or the newest post.
func (h blogHandler) getMainPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ctxGetClaims(r.Context())
		view := h.buildMainView(r.Context(), claims, r.URL.Query().Get("blogId"))
		h.responder.Render(w, http.StatusOK, views.MainPage, view)
	}
}

// buildMainView never fails: any store error is logged and yields the
// view built so far, which has no post.
func (h blogHandler) buildMainView(ctx context.Context, claims *identity.Claims, requestedID string) views.MainView {
	view := views.MainView{UserName: claims.Email, UserEmail: claims.Email}

	profile, err := h.profiles.FindByID(ctx, claims.UserID)
	switch {
	case err == nil:
		view.UserName = profile.Name
	case !errs.IsNotFound(err):
		h.logger.Error().Err(err).Str("userID", claims.UserID).Msg("failed to load profile")
		return view
	}

	posts, err := h.content.ListPosts(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list blog posts")
		return view
	}

	current := currentPostIndex(posts, requestedID)
	if current < 0 {
		return view
	}

	post := posts[current]
	view.Post = post
	view.Comments = h.content.ResolveComments(ctx, post.Comments)
	view.NextID = nextPostID(posts, current)
	view.LikeCount = len(post.Likes)
	view.Liked = post.LikedBy(claims.UserID)
	return view
}

// currentPostIndex picks requestedID, or the first (newest) post when no id
// is given. -1 means there is nothing to show.
func currentPostIndex(posts []*models.BlogPost, requestedID string) int {
	if requestedID == "" {
		if len(posts) > 0 {
			return 0
		}
		return -1
	}
	for i, p := range posts {
		if p.ID == requestedID {
			return i
		}
	}
	return -1
}

// nextPostID is the id of the post after current in the listing, or "" for the last one.
func nextPostID(posts []*models.BlogPost, current int) string {
	if current+1 < len(posts) {
		return posts[current+1].ID
	}
	return ""
}

func (h blogHandler) createBlogForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.Render(w, http.StatusOK, views.CreateBlogPage, views.CreateBlogView{})
	}
}

func (h blogHandler) createBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ctxGetClaims(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		if err := parseBlogForm(r, h.maxUploadBytes); err != nil {
			h.renderCreateError(w, err)
			return
		}

		imageData, err := h.encodeImage(r)
		if err != nil {
			h.renderCreateError(w, err)
			return
		}

		fields := models.NewBlogPost{
			Title:       r.FormValue("title"),
			ImageHeader: r.FormValue("imageHeader"),
			SubHeaders:  r.FormValue("subHeaders"),
			AuthorEmail: r.FormValue("email"),
			Content:     r.FormValue("content"),
			ImageData:   imageData,
		}

		id, err := h.content.CreatePost(r.Context(), fields, claims.UserID)
		if err != nil {
			h.renderCreateError(w, err)
			return
		}

		h.logger.Info().Str("blogID", id).Str("userID", claims.UserID).Msg("blog post created")
		h.responder.Redirect(w, r, mainPageURL(id))
	}
}

// parseBlogForm accepts multipart bodies and, without an image, plain url-encoded ones.
func parseBlogForm(r *http.Request, maxMemory int64) error {
	err := r.ParseMultipartForm(maxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return errs.NewMaxBodySizeExceededError(maxBytesErr.Limit)
	}
	if err != nil {
		return errs.NewBadRequestError("malformed blog form")
	}
	return nil
}

// encodeImage returns "" when the optional image field is absent or empty.
func (h blogHandler) encodeImage(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", errs.NewInvalidFieldError("image", err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", errs.NewInvalidFieldError("image", err.Error())
	}
	if len(data) == 0 {
		return "", nil
	}

	return h.images.Encode(r.Context(), data, header.Header.Get("Content-Type"))
}

func (h blogHandler) renderCreateError(w http.ResponseWriter, err error) {
	h.logger.Error().Err(err).Msg("failed to create blog post")

	message := createBlogFailed
	if errors.Is(err, errs.ErrMaxBodySizeExceeded) {
		message = "The image is too large."
	}
	h.responder.Render(w, http.StatusOK, views.CreateBlogPage, views.CreateBlogView{Error: message})
}

// likeBlog toggles the caller's like and always returns to the post.
func (h blogHandler) likeBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ctxGetClaims(r.Context())
		blogID := r.PostFormValue("blogId")

		if blogID != "" {
			if err := h.content.ToggleLike(r.Context(), blogID, claims.UserID); err != nil {
				h.logger.Error().Err(err).Str("blogID", blogID).Msg("failed to toggle like")
			}
		}

		h.responder.Redirect(w, r, mainPageURL(blogID))
	}
}

// addComment appends a comment stamped with this server's clock and
// always returns to the post.
func (h blogHandler) addComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ctxGetClaims(r.Context())
		blogID := r.PostFormValue("blogId")

		comment := models.NewComment(r.PostFormValue("comment"), claims.Email, h.now())
		if err := h.content.AppendComment(r.Context(), blogID, comment); err != nil {
			h.logger.Error().Err(err).Str("blogID", blogID).Msg("failed to add comment")
		}

		h.responder.Redirect(w, r, mainPageURL(blogID))
	}
}

func (h blogHandler) nextBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.Redirect(w, r, mainPageURL(r.PostFormValue("nextId")))
	}
}

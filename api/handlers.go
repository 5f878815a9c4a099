package api

import (
	"github.com/rpupo63/blog-platform/config"
	"github.com/rpupo63/blog-platform/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, r router) *routeHandlers {
	cookies := newSessionCookies(config.GetBool(r.config, "COOKIE_SECURE", false))
	maxUploadBytes := int64(config.GetInt(r.config, "MAX_UPLOAD_MB", 10)) << 20

	content := services.NewContentStore(deps.Stores.BlogPostRepo(), deps.Stores.CommentRepo())

	return &routeHandlers{
		authHandler:   newAuthHandler(deps.Identity, deps.Stores.ProfileRepo(), deps.Renderer, cookies),
		blogHandler:   newBlogHandler(content, deps.Stores.ProfileRepo(), deps.Images, deps.Renderer, maxUploadBytes),
		healthHandler: newHealthHandler(r.startupTime),
	}
}

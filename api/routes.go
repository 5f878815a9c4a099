package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public auth routes and the session-protected blog routes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/healthz", handlers.healthHandler.health())

	// Authentication routes
	r.Get("/auth", handlers.authHandler.showAuth())
	r.Post("/register", handlers.authHandler.register())
	r.Post("/login", handlers.authHandler.login())
	r.Get("/logout", handlers.authHandler.logout())

	// Blog routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Get("/", handlers.blogHandler.getMainPage())
		r.Get("/main", handlers.blogHandler.getMainPage())
		r.Get("/create-blog", handlers.blogHandler.createBlogForm())
		r.Post("/create-blog", handlers.blogHandler.createBlog())
		r.Post("/like", handlers.blogHandler.likeBlog())
		r.Post("/comment", handlers.blogHandler.addComment())
		r.Post("/next-blog", handlers.blogHandler.nextBlog())
	})

	// Anything else goes back to the reader
	redirectHome := func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/", http.StatusFound)
	}
	r.NotFound(redirectHome)
	r.MethodNotAllowed(redirectHome)
}

package api

import (
	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/identity"
	"github.com/rpupo63/blog-platform/services"
	"github.com/rpupo63/blog-platform/views"
)

// Dependencies are the external collaborators the handlers are built from.
type Dependencies struct {
	Stores   database.Stores
	Identity identity.Gateway
	Images   services.ImageEncoder
	Renderer *views.Renderer
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler   authHandler
	blogHandler   blogHandler
	healthHandler healthHandler
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

package server

import (
	"io/fs"
	"net/http"

	"siteforge/internal/handler"
	"siteforge/internal/middleware"
)

func NewMux(
	generateHandler *handler.GenerateHandler,
	statusHandler *handler.StatusHandler,
	projectsHandler *handler.ProjectsHandler,
	plannerHandler *handler.PlannerHandler,
	previewFS fs.FS,
) http.Handler {
	mux := http.NewServeMux()

	// Generation
	mux.HandleFunc("/api/generate-website", generateHandler.HandleGenerate)
	mux.HandleFunc("/api/generation-status", statusHandler.HandleStatus)
	mux.HandleFunc("/api/generation-status/stream", statusHandler.HandleStream)

	// Projects
	mux.HandleFunc("/api/projects", projectsHandler.HandleList)
	mux.HandleFunc("/api/projects/", projectsHandler.HandleProject)

	// Planning
	mux.HandleFunc("/api/generate-sitemap", plannerHandler.HandleGenerateSitemap)
	mux.HandleFunc("/api/generate-brand-guide", plannerHandler.HandleGenerateBrandGuide)
	mux.HandleFunc("/api/sitemap", plannerHandler.HandleSitemap)
	mux.HandleFunc("/api/brand-guide", plannerHandler.HandleBrandGuide)

	// Deployed previews, served read-only
	mux.Handle("/preview/", http.StripPrefix("/preview/", http.FileServerFS(previewFS)))

	mux.HandleFunc("/healthz", handler.HandleHealth)

	// Middleware
	return middleware.CORS(mux)
}

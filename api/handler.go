package api

import (
	"context"

	"github.com/aseka33/nyumba-ai-marketplace/models"
	"github.com/aseka33/nyumba-ai-marketplace/pipeline"
	"github.com/aseka33/nyumba-ai-marketplace/utils"
)

// CatalogBrowser is the paged catalog view backing the browse endpoint.
type CatalogBrowser interface {
	GetPage(ctx context.Context, filter pipeline.CatalogFilter, page, limit int) ([]models.Product, int64, error)
}

// Handler carries the dependencies shared by all HTTP handlers.
type Handler struct {
	store   pipeline.Store
	catalog CatalogBrowser
	runner  *pipeline.Runner
	storage pipeline.ObjectStorage
	cache   *utils.Cache
	workDir string
}

// NewHandler creates a handler. cache may be nil when Redis is unavailable.
func NewHandler(store pipeline.Store, catalog CatalogBrowser, runner *pipeline.Runner, storage pipeline.ObjectStorage, cache *utils.Cache, workDir string) *Handler {
	return &Handler{
		store:   store,
		catalog: catalog,
		runner:  runner,
		storage: storage,
		cache:   cache,
		workDir: workDir,
	}
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aseka33/nyumba-ai-marketplace/models"
	"github.com/aseka33/nyumba-ai-marketplace/pipeline"
	"github.com/aseka33/nyumba-ai-marketplace/utils"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// HandleGetProducts serves the paginated vendor catalog, optionally filtered
// by category and budget tier.
func (h *Handler) HandleGetProducts(w http.ResponseWriter, r *http.Request) {
	var logMessage strings.Builder
	defer func() {
		fmt.Println(logMessage.String())
	}()

	if r.Method != http.MethodGet {
		utils.RespondError(w, &logMessage, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	filter := pipeline.CatalogFilter{
		Category:   query.Get("category"),
		BudgetTier: query.Get("budget_tier"),
	}
	if filter.BudgetTier != "" && !models.ValidBudgetTier(filter.BudgetTier) {
		utils.RespondError(w, &logMessage, "Unknown budget_tier "+strconv.Quote(filter.BudgetTier), http.StatusBadRequest)
		return
	}

	page := parsePositiveInt(query.Get("page"), 1)
	limit := parsePositiveInt(query.Get("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	utils.AddToLogMessage(&logMessage, fmt.Sprintf("Catalog page=%d limit=%d category=%q tier=%q",
		page, limit, filter.Category, filter.BudgetTier))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	products, total, err := h.catalog.GetPage(ctx, filter, page, limit)
	if err != nil {
		utils.RespondError(w, &logMessage, "Failed to load products: "+err.Error(), http.StatusInternalServerError)
		return
	}

	for i := range products {
		products[i].ImageURLs = utils.PresignImageURLs(r.Context(), products[i].ImageURLs)
	}
	if products == nil {
		products = []models.Product{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	utils.RespondJSON(w, http.StatusOK, models.ProductListResponse{
		Products:    products,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	})
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aseka33/nyumba-ai-marketplace/models"
	"github.com/aseka33/nyumba-ai-marketplace/pipeline"
	"github.com/aseka33/nyumba-ai-marketplace/utils"
)

// HandleGetAnalysis is the polling endpoint. While the asset is processing the
// analysis field is null; once the asset reaches a terminal status the
// response is stable and cacheable.
func (h *Handler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	var logMessage strings.Builder
	defer func() {
		fmt.Println(logMessage.String())
	}()

	if r.Method != http.MethodGet {
		utils.RespondError(w, &logMessage, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	assetID := r.URL.Query().Get("asset_id")
	if assetID == "" {
		utils.RespondError(w, &logMessage, "Missing asset_id parameter", http.StatusBadRequest)
		return
	}
	utils.AddToLogMessage(&logMessage, "Analysis lookup for asset "+assetID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	asset, err := h.store.GetAsset(ctx, assetID)
	if errors.Is(err, pipeline.ErrAssetNotFound) {
		utils.RespondError(w, &logMessage, "Asset not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessage, "Failed to load asset: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Owned assets are only visible to their owner. Anonymous uploads stay
	// readable by asset id alone.
	if asset.OwnerID != "" {
		requester, err := GetUserIDFromContext(r.Context())
		if err != nil || requester != asset.OwnerID {
			utils.RespondError(w, &logMessage, "Asset not found", http.StatusNotFound)
			return
		}
	}

	resp := models.AnalysisResponse{Asset: asset}
	if asset.Status == models.AssetStatusCompleted {
		if h.cache != nil {
			if cached, err := h.cache.GetAnalysis(ctx, assetID); err == nil && cached != nil {
				utils.AddToLogMessage(&logMessage, "Cache hit")
				utils.RespondJSON(w, http.StatusOK, cached)
				return
			}
		}

		analysis, err := h.store.GetAnalysisByAssetID(ctx, assetID)
		if err != nil {
			utils.RespondError(w, &logMessage, "Failed to load analysis: "+err.Error(), http.StatusInternalServerError)
			return
		}
		resp.Analysis = analysis
	}

	presignAnalysisResponse(r.Context(), &resp)

	if h.cache != nil && asset.Status == models.AssetStatusCompleted && resp.Analysis != nil {
		h.cache.SetAnalysis(ctx, assetID, &resp)
	}

	utils.AddToLogMessage(&logMessage, "Responding with status "+asset.Status)
	utils.RespondJSON(w, http.StatusOK, resp)
}

// presignAnalysisResponse swaps stored S3 keys for presigned URLs everywhere
// the response references media.
func presignAnalysisResponse(ctx context.Context, resp *models.AnalysisResponse) {
	if resp.Asset != nil {
		resp.Asset.SourceURL = utils.PresignKey(ctx, resp.Asset.SourceURL)
		resp.Asset.FrameURL = utils.PresignKey(ctx, resp.Asset.FrameURL)
		resp.Asset.ThumbnailURL = utils.PresignKey(ctx, resp.Asset.ThumbnailURL)
	}
	if resp.Analysis == nil {
		return
	}

	resp.Analysis.AfterImageURL = utils.PresignKey(ctx, resp.Analysis.AfterImageURL)
	for i := range resp.Analysis.Groups {
		for j := range resp.Analysis.Groups[i].Products {
			p := &resp.Analysis.Groups[i].Products[j]
			p.ImageURL = utils.PresignKey(ctx, p.ImageURL)
		}
	}
	for i := range resp.Analysis.ProductPlacements {
		resp.Analysis.ProductPlacements[i].ImageURL = utils.PresignKey(ctx, resp.Analysis.ProductPlacements[i].ImageURL)
	}
}

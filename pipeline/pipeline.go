package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aseka33/nyumba-ai-marketplace/models"
)

// Default bounded timeouts for external calls. Expiry fails the stage rather
// than hanging the run.
const (
	defaultAnalyzeTimeout = 2 * time.Minute
	defaultExtractTimeout = 60 * time.Second
	defaultStoreTimeout   = 10 * time.Second
)

// Storage key namespaces
const (
	FrameKeyPrefix     = "frames"
	ThumbnailKeyPrefix = "thumbnails"
	CompositeKeyPrefix = "composites"
	VideoKeyPrefix     = "videos"
	ProductKeyPrefix   = "products"
)

// ObjectStorage is the narrow view of object storage the pipeline consumes.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Runner executes the full analysis pipeline for one uploaded asset:
// ingest finish -> analyze -> resolve -> place, with compositing running
// best-effort alongside placement. Each run owns its work directory and
// shares no mutable state with concurrent runs.
type Runner struct {
	Store     Store
	Catalog   ProductCatalogReader
	Analyzer  Analyzer
	Storage   ObjectStorage
	Extractor *FrameExtractor
	Fetch     ImageFetcher

	// Optional hooks; both are best-effort and never affect asset status.
	Notify     func(assetID, ownerEmail string)
	Invalidate func(assetID string)

	AnalyzeTimeout time.Duration
	ExtractTimeout time.Duration
	StoreTimeout   time.Duration
}

// RunInput carries everything one pipeline run needs. LocalPath points at the
// uploaded bytes inside WorkDir; WorkDir is removed when the run ends.
type RunInput struct {
	Asset      models.MediaAsset
	OwnerEmail string
	LocalPath  string
	WorkDir    string
	Prefs      models.UserPreferences
}

// Run drives one asset from processing to a terminal status. Intended to be
// called on its own goroutine after the upload response has been sent.
func (r *Runner) Run(input RunInput) {
	defer os.RemoveAll(input.WorkDir)

	assetID := input.Asset.ID
	ctx := context.Background()
	log.Printf("pipeline %s: starting (%s)", assetID, input.Asset.Kind)

	frame, frameKey, err := r.finishIngest(ctx, input)
	if err != nil {
		r.markFailed(assetID, err)
		return
	}

	actx, cancelAnalyze := context.WithTimeout(ctx, r.analyzeTimeout())
	payload, fine, err := r.Analyzer.Analyze(actx, frame, input.Prefs)
	cancelAnalyze()
	if err != nil {
		r.markFailed(assetID, err)
		return
	}
	log.Printf("pipeline %s: analyzed room_type=%q groups=%d placements=%d",
		assetID, payload.RoomType, len(payload.Recommendations), len(fine))

	groups, err := Resolve(ctx, payload.Recommendations, input.Prefs.BudgetTier, r.Catalog)
	if err != nil {
		// Catalog trouble degrades to virtual products; it never fails the asset.
		log.Printf("pipeline %s: catalog read failed, synthesizing virtual products: %v", assetID, err)
		groups, _ = Resolve(ctx, payload.Recommendations, input.Prefs.BudgetTier, emptyCatalog{})
	}

	// Compositing depends only on the fine recommendations, so it runs
	// alongside placement.
	compositeCh := make(chan CompositeOutcome, 1)
	go func() {
		compositeCh <- Composite(ctx, frame, fine, productImageLookup(groups), r.Fetch)
	}()

	placements := Place(groups, payload.RoomType)
	outcome := <-compositeCh

	analysis := &models.RoomAnalysis{
		MediaAssetID:      assetID,
		OwnerID:           input.Asset.OwnerID,
		RoomType:          payload.RoomType,
		RoomSize:          payload.RoomSize,
		CurrentStyle:      payload.CurrentStyle,
		LightingCondition: payload.LightingCondition,
		ColorScheme:       payload.ColorScheme,
		BudgetTier:        input.Prefs.BudgetTier,
		SuggestedStyles:   payload.SuggestedStyles,
		Groups:            groups,
		ProductPlacements: placements,
		AnalysisText:      payload.AnalysisText,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if outcome.OK {
		key := fmt.Sprintf("%s/%s.jpg", CompositeKeyPrefix, assetID)
		if _, err := r.Storage.Put(ctx, key, outcome.Result.AfterImage, "image/jpeg"); err != nil {
			log.Printf("pipeline %s: composite upload failed, falling back to original frame: %v", assetID, err)
		} else {
			analysis.AfterImageURL = key
			analysis.ProductPositions = outcome.Result.ProductPositions
		}
	} else {
		log.Printf("pipeline %s: composite unavailable: %s", assetID, outcome.Reason)
	}
	if analysis.AfterImageURL == "" {
		// Degraded composite: the original frame stands in for "after".
		analysis.AfterImageURL = frameKey
	}

	sctx, cancelStore := context.WithTimeout(ctx, r.storeTimeout())
	defer cancelStore()

	if err := r.Store.CreateAnalysis(sctx, analysis); err != nil {
		r.markFailed(assetID, err)
		return
	}
	if err := r.Store.UpdateAssetStatus(sctx, assetID, models.AssetStatusCompleted, ""); err != nil {
		log.Printf("pipeline %s: completed status write refused: %v", assetID, err)
		return
	}

	if r.Invalidate != nil {
		r.Invalidate(assetID)
	}
	if r.Notify != nil && input.OwnerEmail != "" {
		r.Notify(assetID, input.OwnerEmail)
	}
	log.Printf("pipeline %s: completed with %d groups, %d placements", assetID, len(groups), len(placements))
}

// finishIngest produces the analysis frame and thumbnail, uploads both, and
// records their keys on the asset. For videos this extracts the
// representative still; for images the upload is the frame.
func (r *Runner) finishIngest(ctx context.Context, input RunInput) ([]byte, string, error) {
	var frame []byte
	var frameKey string
	var err error

	if input.Asset.Kind == models.MediaKindVideo {
		ectx, cancel := context.WithTimeout(ctx, r.extractTimeout())
		frame, err = r.Extractor.ExtractFrame(ectx, input.LocalPath, input.WorkDir)
		cancel()
		if err != nil {
			return nil, "", err
		}

		frameKey = fmt.Sprintf("%s/%s.jpg", FrameKeyPrefix, input.Asset.ID)
		if _, err := r.Storage.Put(ctx, frameKey, frame, "image/jpeg"); err != nil {
			return nil, "", &MediaProcessingError{Stage: "frame upload", Err: err}
		}
	} else {
		// For images the uploaded object is the frame; no extraction step.
		frame, err = os.ReadFile(input.LocalPath)
		if err != nil {
			return nil, "", &MediaProcessingError{Stage: "frame read", Err: err}
		}
		frameKey = input.Asset.SourceURL
	}

	thumbnail, err := MakeThumbnail(frame)
	if err != nil {
		return nil, "", err
	}

	thumbKey := fmt.Sprintf("%s/%s.jpg", ThumbnailKeyPrefix, input.Asset.ID)
	if _, err := r.Storage.Put(ctx, thumbKey, thumbnail, "image/jpeg"); err != nil {
		return nil, "", &MediaProcessingError{Stage: "thumbnail upload", Err: err}
	}

	sctx, cancel := context.WithTimeout(ctx, r.storeTimeout())
	defer cancel()
	if err := r.Store.SetAssetMedia(sctx, input.Asset.ID, frameKey, thumbKey); err != nil {
		return nil, "", &MediaProcessingError{Stage: "asset update", Err: err}
	}

	return frame, frameKey, nil
}

// markFailed flips the asset to its failed terminal status. The run's own
// error handling is the only path that marks failure; the upload
// request/response cycle has long since returned.
func (r *Runner) markFailed(assetID string, cause error) {
	log.Printf("pipeline %s: failed: %v", assetID, cause)

	ctx, cancel := context.WithTimeout(context.Background(), r.storeTimeout())
	defer cancel()

	if err := r.Store.UpdateAssetStatus(ctx, assetID, models.AssetStatusFailed, cause.Error()); err != nil {
		log.Printf("pipeline %s: failed status write refused: %v", assetID, err)
	}
	if r.Invalidate != nil {
		r.Invalidate(assetID)
	}
}

// productImageLookup maps resolved product names to their image references
// for the compositor. Virtual products have no image and are absent.
func productImageLookup(groups []models.RecommendationGroup) map[string]string {
	lookup := make(map[string]string)
	for _, group := range groups {
		for _, product := range group.Products {
			if product.ImageURL != "" {
				lookup[product.Name] = product.ImageURL
			}
		}
	}
	return lookup
}

func (r *Runner) analyzeTimeout() time.Duration {
	if r.AnalyzeTimeout > 0 {
		return r.AnalyzeTimeout
	}
	return defaultAnalyzeTimeout
}

func (r *Runner) extractTimeout() time.Duration {
	if r.ExtractTimeout > 0 {
		return r.ExtractTimeout
	}
	return defaultExtractTimeout
}

func (r *Runner) storeTimeout() time.Duration {
	if r.StoreTimeout > 0 {
		return r.StoreTimeout
	}
	return defaultStoreTimeout
}

// emptyCatalog is the degraded inventory view used when catalog reads fail.
type emptyCatalog struct{}

func (emptyCatalog) GetAllActive(context.Context, CatalogFilter) ([]models.Product, error) {
	return nil, nil
}

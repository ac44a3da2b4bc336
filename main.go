package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aseka33/nyumba-ai-marketplace/api"
	"github.com/aseka33/nyumba-ai-marketplace/config"
	"github.com/aseka33/nyumba-ai-marketplace/pipeline"
	"github.com/aseka33/nyumba-ai-marketplace/utils"
)

func main() {
	config.LoadConfig()

	// Initialize MongoDB
	if err := utils.ConnectMongo(config.MongoURI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	if err := utils.InitS3(); err != nil {
		log.Fatalf("Failed to initialize S3: %v", err)
	}

	db := utils.Database()
	store := pipeline.NewMongoStore(db)
	catalog := pipeline.NewMongoCatalog(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	// Redis is optional; without it the polling endpoint just skips caching.
	cache, err := utils.NewCache(config.RedisAddr, config.RedisPassword, config.RedisDB)
	if err != nil {
		log.Printf("Redis cache disabled: %v", err)
		cache = nil
	}

	runner := &pipeline.Runner{
		Store:   store,
		Catalog: catalog,
		Analyzer: &pipeline.GeminiAnalyzer{
			APIKey: config.GeminiAPIKey,
			Model:  config.GeminiModel,
		},
		Storage: utils.S3ObjectStorage{},
		Extractor: &pipeline.FrameExtractor{
			FFmpegBinary:  config.FFmpegBinary,
			FFprobeBinary: config.FFprobeBinary,
		},
		Fetch:  utils.FetchImage,
		Notify: utils.SendAnalysisReadyEmail,
	}
	if cache != nil {
		runner.Invalidate = cache.InvalidateAnalysis
	}

	handler := api.NewHandler(store, catalog, runner, utils.S3ObjectStorage{}, cache, config.WorkDir)

	// CORS Middleware
	corsMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/upload", corsMiddleware(api.WithAuth(handler.HandleUpload)))
	mux.HandleFunc("/analysis", corsMiddleware(api.WithAuth(handler.HandleGetAnalysis)))
	mux.HandleFunc("/products", corsMiddleware(handler.HandleGetProducts))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	port := config.Port
	fmt.Printf("Server starting on port %s...\n", port)
	if err := http.ListenAndServe(":"+port, utils.LatencyMiddleware(mux)); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

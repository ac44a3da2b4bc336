package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aseka33/nyumba-ai-marketplace/models"
	"github.com/aseka33/nyumba-ai-marketplace/pipeline"
	"github.com/aseka33/nyumba-ai-marketplace/utils"
)

// HandleUpload accepts a room photo or walkthrough video as multipart form
// data, stores the original, creates the tracking asset, and kicks off the
// analysis pipeline in the background. Responds 202 with the asset id;
// clients poll /analysis for the result.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	var logMessage strings.Builder
	defer func() {
		fmt.Println(logMessage.String())
	}()
	utils.AddToLogMessage(&logMessage, "Received media upload request")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessage, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(models.MaxVideoUploadBytes + 1<<20); err != nil {
		utils.RespondError(w, &logMessage, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		utils.RespondError(w, &logMessage, "Missing 'media' file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	declaredMIME := header.Header.Get("Content-Type")
	kind := pipeline.MediaKindFromMIME(declaredMIME)
	utils.AddToLogMessage(&logMessage, fmt.Sprintf("File: %s (%s, %d bytes)", header.Filename, declaredMIME, header.Size))

	// Everything is validated before an asset record exists, so a rejected
	// upload leaves no trace.
	if err := pipeline.ValidateUpload(kind, declaredMIME, header.Size); err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			utils.RespondError(w, &logMessage, verr.Error(), http.StatusBadRequest)
			return
		}
		utils.RespondError(w, &logMessage, "Invalid upload", http.StatusBadRequest)
		return
	}

	prefs, err := parsePreferences(r.FormValue("preferences"))
	if err != nil {
		utils.RespondError(w, &logMessage, err.Error(), http.StatusBadRequest)
		return
	}

	ownerID := ""
	if id, err := GetUserIDFromContext(r.Context()); err == nil {
		ownerID = id
	}
	ownerEmail := GetUserEmailFromContext(r.Context())

	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, &logMessage, "Failed to read upload", http.StatusInternalServerError)
		return
	}

	assetID := uuid.New().String()
	runDir := filepath.Join(h.workDir, assetID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		utils.RespondError(w, &logMessage, "Failed to prepare work directory", http.StatusInternalServerError)
		return
	}

	localPath := filepath.Join(runDir, "source"+uploadExt(header.Filename, kind))
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		os.RemoveAll(runDir)
		utils.RespondError(w, &logMessage, "Failed to store upload", http.StatusInternalServerError)
		return
	}

	sourceKey := sourceKeyFor(kind, assetID, localPath)
	if _, err := h.storage.Put(r.Context(), sourceKey, data, declaredMIME); err != nil {
		os.RemoveAll(runDir)
		utils.RespondError(w, &logMessage, "Failed to store media: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.AddToLogMessage(&logMessage, "Stored original at "+sourceKey)

	now := time.Now()
	asset := models.MediaAsset{
		ID:        assetID,
		OwnerID:   ownerID,
		SourceURL: sourceKey,
		Kind:      kind,
		Status:    models.AssetStatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := h.store.CreateAsset(ctx, &asset); err != nil {
		os.RemoveAll(runDir)
		utils.RespondError(w, &logMessage, "Failed to create asset: "+err.Error(), http.StatusInternalServerError)
		return
	}

	go h.runner.Run(pipeline.RunInput{
		Asset:      asset,
		OwnerEmail: ownerEmail,
		LocalPath:  localPath,
		WorkDir:    runDir,
		Prefs:      prefs,
	})

	utils.AddToLogMessage(&logMessage, "Asset "+assetID+" accepted, pipeline started")
	utils.RespondJSON(w, http.StatusAccepted, models.UploadResponse{
		AssetID: assetID,
		Status:  models.AssetStatusProcessing,
	})
}

// parsePreferences decodes the optional preferences form field. An empty
// field yields zero-value preferences; the resolver treats that as mid-range.
func parsePreferences(raw string) (models.UserPreferences, error) {
	var prefs models.UserPreferences
	if raw == "" {
		return prefs, nil
	}
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return prefs, fmt.Errorf("malformed preferences JSON: %v", err)
	}
	if prefs.BudgetTier != "" && !models.ValidBudgetTier(prefs.BudgetTier) {
		return prefs, fmt.Errorf("unknown budget_tier %q", prefs.BudgetTier)
	}
	return prefs, nil
}

func uploadExt(filename, kind string) string {
	if ext := filepath.Ext(filename); ext != "" {
		return ext
	}
	if kind == models.MediaKindVideo {
		return ".mp4"
	}
	return ".jpg"
}

func sourceKeyFor(kind, assetID, localPath string) string {
	prefix := pipeline.FrameKeyPrefix
	if kind == models.MediaKindVideo {
		prefix = pipeline.VideoKeyPrefix
	}
	return fmt.Sprintf("%s/%s%s", prefix, assetID, filepath.Ext(localPath))
}

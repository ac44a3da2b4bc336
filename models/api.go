package models

// UploadResponse is returned by the upload endpoint as soon as the asset
// exists; the pipeline continues in the background.
type UploadResponse struct {
	AssetID string `json:"asset_id"`
	Status  string `json:"status"`
}

// AnalysisResponse pairs an asset with its analysis. Analysis is null while
// the asset is still processing or has failed; polling clients retry with
// backoff until the asset reaches a terminal status.
type AnalysisResponse struct {
	Asset    *MediaAsset   `json:"asset"`
	Analysis *RoomAnalysis `json:"analysis"`
}

// ProductListResponse is the paginated catalog listing shape.
type ProductListResponse struct {
	Products    []Product `json:"products"`
	Total       int64     `json:"total"`
	CurrentPage int       `json:"current_page"`
	TotalPages  int       `json:"total_pages"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

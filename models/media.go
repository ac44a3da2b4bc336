package models

import "time"

// Media kinds accepted by the upload endpoint
const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

// Asset status values. An asset moves from processing to exactly one of
// completed or failed and never leaves a terminal status.
const (
	AssetStatusProcessing = "processing"
	AssetStatusCompleted  = "completed"
	AssetStatusFailed     = "failed"
)

// Upload size ceilings per media kind
const (
	MaxImageUploadBytes = 10 << 20 // 10MB
	MaxVideoUploadBytes = 50 << 20 // 50MB
)

// MediaAsset represents an uploaded room photo or video and its processing state.
// SourceURL, FrameURL and ThumbnailURL hold S3 object keys; presigned URLs are
// generated at response time.
type MediaAsset struct {
	ID           string    `bson:"_id" json:"id"`
	OwnerID      string    `bson:"owner_id" json:"owner_id"`
	SourceURL    string    `bson:"source_url" json:"source_url"`
	Kind         string    `bson:"kind" json:"kind"` // image | video
	Status       string    `bson:"status" json:"status"`
	FrameURL     string    `bson:"frame_url,omitempty" json:"frame_url,omitempty"`
	ThumbnailURL string    `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
	ErrorMessage string    `bson:"error_message,omitempty" json:"error_message,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

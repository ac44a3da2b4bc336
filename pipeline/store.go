package pipeline

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aseka33/nyumba-ai-marketplace/models"
)

// ErrAssetNotFound is returned when no asset exists for the given id.
var ErrAssetNotFound = errors.New("media asset not found")

// ErrAssetFinalized is returned when a terminal status write targets an asset
// that already reached completed or failed. Terminal statuses are never
// re-mutated.
var ErrAssetFinalized = errors.New("media asset already reached a terminal status")

// Store persists media assets and analyses and enforces the status machine:
// processing -> completed | failed, terminal exactly once, one analysis per
// asset.
type Store interface {
	CreateAsset(ctx context.Context, asset *models.MediaAsset) error
	GetAsset(ctx context.Context, id string) (*models.MediaAsset, error)
	SetAssetMedia(ctx context.Context, id, frameURL, thumbnailURL string) error
	UpdateAssetStatus(ctx context.Context, id, status, errorMessage string) error
	CreateAnalysis(ctx context.Context, analysis *models.RoomAnalysis) error
	GetAnalysisByAssetID(ctx context.Context, assetID string) (*models.RoomAnalysis, error)
}

// MongoStore backs the status machine with two collections: assets and
// analyses. A unique index on analyses.media_asset_id gives the
// one-analysis-per-asset invariant at the database level.
type MongoStore struct {
	assets   *mongo.Collection
	analyses *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		assets:   db.Collection("media_assets"),
		analyses: db.Collection("room_analyses"),
	}
}

// EnsureIndexes creates the unique analysis index. Call once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.analyses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "media_asset_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.assets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (s *MongoStore) CreateAsset(ctx context.Context, asset *models.MediaAsset) error {
	_, err := s.assets.InsertOne(ctx, asset)
	return err
}

func (s *MongoStore) GetAsset(ctx context.Context, id string) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	err := s.assets.FindOne(ctx, bson.M{"_id": id}).Decode(&asset)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// SetAssetMedia records the extracted frame and thumbnail keys. Non-terminal:
// only valid while the asset is still processing.
func (s *MongoStore) SetAssetMedia(ctx context.Context, id, frameURL, thumbnailURL string) error {
	update := bson.M{"$set": bson.M{
		"frame_url":     frameURL,
		"thumbnail_url": thumbnailURL,
		"updated_at":    time.Now(),
	}}
	result, err := s.assets.UpdateOne(ctx, bson.M{"_id": id, "status": models.AssetStatusProcessing}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrAssetFinalized
	}
	return nil
}

// UpdateAssetStatus moves an asset to a terminal status. The filter pins the
// current status to processing, so a second terminal write matches nothing
// and is refused.
func (s *MongoStore) UpdateAssetStatus(ctx context.Context, id, status, errorMessage string) error {
	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if errorMessage != "" {
		set["error_message"] = errorMessage
	}

	result, err := s.assets.UpdateOne(ctx, bson.M{"_id": id, "status": models.AssetStatusProcessing}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		if _, err := s.GetAsset(ctx, id); err != nil {
			return err
		}
		return ErrAssetFinalized
	}
	return nil
}

// CreateAnalysis writes the analysis record exactly once; a duplicate write
// for the same asset surfaces ErrAnalysisExists via the unique index.
func (s *MongoStore) CreateAnalysis(ctx context.Context, analysis *models.RoomAnalysis) error {
	_, err := s.analyses.InsertOne(ctx, analysis)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAnalysisExists
	}
	return err
}

// GetAnalysisByAssetID returns (nil, nil) while no analysis has been written.
func (s *MongoStore) GetAnalysisByAssetID(ctx context.Context, assetID string) (*models.RoomAnalysis, error) {
	var analysis models.RoomAnalysis
	err := s.analyses.FindOne(ctx, bson.M{"media_asset_id": assetID}).Decode(&analysis)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

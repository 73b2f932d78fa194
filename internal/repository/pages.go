package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Umar-fr/TextGuard-Plagiarism/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pagesCollection = "pages"

// ErrNotFound reports a missing document.
var ErrNotFound = errors.New("document not found")

type PagesRepository struct {
	mongoRepo *MongoRepository
}

func NewPagesRepository(mongoRepo *MongoRepository) *PagesRepository {
	return &PagesRepository{
		mongoRepo: mongoRepo,
	}
}

// Upsert writes the full page document keyed by its ID, replacing any prior
// version in one operation so readers never observe a half-updated page.
func (r *PagesRepository) Upsert(ctx context.Context, page *models.Page) error {
	filter := bson.M{"_id": page.ID}
	err := r.mongoRepo.ReplaceOne(ctx, pagesCollection, filter, page, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}
	return nil
}

func (r *PagesRepository) Get(ctx context.Context, docID string) (*models.Page, error) {
	var page models.Page
	err := r.mongoRepo.FindOne(ctx, pagesCollection, bson.M{"_id": docID}).Decode(&page)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find page: %w", err)
	}
	return &page, nil
}

// GetByURL resolves a crawled page by its unique URL. A URL with no page
// yet returns (nil, nil); an error always means the lookup itself failed.
func (r *PagesRepository) GetByURL(ctx context.Context, url string) (*models.Page, error) {
	var page models.Page
	err := r.mongoRepo.FindOne(ctx, pagesCollection, bson.M{"url": url}).Decode(&page)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find page by URL: %w", err)
	}
	return &page, nil
}

func (r *PagesRepository) List(ctx context.Context) ([]*models.Page, error) {
	cursor, err := r.mongoRepo.FindMany(ctx, pagesCollection, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer cursor.Close(ctx)

	var pages []*models.Page
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, fmt.Errorf("failed to decode pages: %w", err)
	}
	return pages, nil
}

// Clear removes every page as part of a corpus clear.
func (r *PagesRepository) Clear(ctx context.Context) error {
	if err := r.mongoRepo.DeleteMany(ctx, pagesCollection, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear pages: %w", err)
	}
	return nil
}

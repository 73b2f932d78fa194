package repository

import (
	"context"
	"fmt"

	"github.com/Umar-fr/TextGuard-Plagiarism/internal/models"
)

const (
	submissionsCollection = "submissions"
	reportsCollection     = "reports"
)

type SubmissionsRepository struct {
	mongoRepo *MongoRepository
}

func NewSubmissionsRepository(mongoRepo *MongoRepository) *SubmissionsRepository {
	return &SubmissionsRepository{
		mongoRepo: mongoRepo,
	}
}

// Insert appends one immutable submission audit record.
func (r *SubmissionsRepository) Insert(ctx context.Context, submission *models.Submission) error {
	if err := r.mongoRepo.InsertOne(ctx, submissionsCollection, submission); err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

type ReportsRepository struct {
	mongoRepo *MongoRepository
}

func NewReportsRepository(mongoRepo *MongoRepository) *ReportsRepository {
	return &ReportsRepository{
		mongoRepo: mongoRepo,
	}
}

// Insert appends one immutable report record.
func (r *ReportsRepository) Insert(ctx context.Context, report *models.Report) error {
	if err := r.mongoRepo.InsertOne(ctx, reportsCollection, report); err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

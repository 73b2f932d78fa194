package models

import (
	"time"
)

// Submission is the append-only audit record of a single check request.
// It is immutable once created.
type Submission struct {
	ID         string    `bson:"_id" json:"id"`
	UserRef    string    `bson:"userRef,omitempty" json:"userRef,omitempty"`
	Text       string    `bson:"text" json:"-"`
	Words      int       `bson:"words" json:"words"`
	Shingles   int       `bson:"shingles" json:"shingles"`
	Score      float64   `bson:"score" json:"score"`
	SourceFile string    `bson:"sourceFile,omitempty" json:"sourceFile,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// Report links a submission to the matches found for it. Immutable once
// created; a report may reference zero matches.
type Report struct {
	ID           string    `bson:"_id" json:"id"`
	SubmissionID string    `bson:"submissionId" json:"submissionId"`
	Matches      []Match   `bson:"matches" json:"matches"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

package models

// Match is one accepted candidate, re-scored with exact Jaccard and an
// optional semantic blend.
type Match struct {
	DocID    string  `bson:"docId" json:"docId"`
	URL      string  `bson:"url,omitempty" json:"url,omitempty"`
	Label    string  `bson:"label,omitempty" json:"label,omitempty"`
	Jaccard  float64 `bson:"jaccard" json:"jaccard"`
	Semantic float64 `bson:"semantic" json:"semantic"`
	Combined float64 `bson:"combined" json:"combined"`
	Percent  float64 `bson:"percent" json:"percent"`
	Words    int     `bson:"words" json:"words"`
	Shingles int     `bson:"shingles" json:"shingles"`
}

// CrawlStats counts per-URL outcomes for one check request.
type CrawlStats struct {
	Fetched  int `json:"fetched"`
	Cached   int `json:"cached"`
	Blocked  int `json:"blocked"`
	Failed   int `json:"failed"`
	TooShort int `json:"tooShort"`
}

// MatchReport is the result of a check request: the ranked matches plus the
// aggregate document-level score.
type MatchReport struct {
	SubmissionID string     `json:"submissionId"`
	ReportID     string     `json:"reportId"`
	Score        float64    `json:"score"`
	Percent      float64    `json:"percent"`
	Matches      []Match    `json:"matches"`
	Candidates   int        `json:"candidates"`
	Crawl        CrawlStats `json:"crawl"`
}

// CheckOptions bound the work done for one check request. Zero values fall
// back to the configured defaults.
type CheckOptions struct {
	MaxPhrases       int    `json:"maxPhrases"`
	MaxCandidateURLs int    `json:"maxCandidateUrls"`
	UseSemantic      bool   `json:"useSemantic"`
	TopK             int    `json:"topK"`
	UserRef          string `json:"userRef"`
}

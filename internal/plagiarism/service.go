package plagiarism

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"github.com/Umar-fr/TextGuard-Plagiarism/internal/cache"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/config"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/crawler"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/extract"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/models"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/search"
)

// Input errors rejected at the request boundary.
var (
	ErrEmptyText         = errors.New("empty text")
	ErrTextTooLarge      = errors.New("text exceeds the configured size limit")
	ErrNoExtractableText = errors.New("could not extract text from document")
)

// PageStore is the durable page table. Upsert must replace the whole
// document in one operation. GetByURL returns (nil, nil) for a URL with no
// page; a non-nil error means the lookup itself failed, not that the page
// is absent.
type PageStore interface {
	Upsert(ctx context.Context, page *models.Page) error
	Get(ctx context.Context, docID string) (*models.Page, error)
	GetByURL(ctx context.Context, url string) (*models.Page, error)
	List(ctx context.Context) ([]*models.Page, error)
	Clear(ctx context.Context) error
}

// SubmissionStore appends immutable submission audit records.
type SubmissionStore interface {
	Insert(ctx context.Context, submission *models.Submission) error
}

// ReportStore appends immutable report records.
type ReportStore interface {
	Insert(ctx context.Context, report *models.Report) error
}

// SnapshotStore persists the serialized index + seed table blob.
type SnapshotStore interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Fetcher resolves one candidate URL through the crawl/cache state machine.
type Fetcher interface {
	Fetch(ctx context.Context, url string) crawler.Outcome
}

// Dependencies are the collaborators injected into the service. Search and
// Semantic may be nil; the service degrades instead of failing.
type Dependencies struct {
	Pages       PageStore
	Submissions SubmissionStore
	Reports     ReportStore
	Snapshots   SnapshotStore
	Fetcher     Fetcher
	Search      search.Provider
	Extractor   extract.Extractor
	Semantic    SemanticScorer
	PageCache   cache.PageCache
}

// Service owns the banded index, the seed table and every shared mutable
// structure of the similarity engine. Handlers receive it fully constructed;
// its lifecycle (NewService / Shutdown) belongs to the host process.
//
// Locking: mu guards the index. Reads (candidate queries, snapshot encoding)
// take the read lock; inserts, removals and corpus clears take the write
// lock. No lock is ever held across a network call.
type Service struct {
	cfg  *config.Config
	deps Dependencies

	mu    sync.RWMutex
	index *BandedIndex
	seeds *SeedTable

	pool *ants.Pool
}

// NewService loads the persisted index or initializes an empty one. A
// missing snapshot is a normal first run; a corrupt or version-mismatched
// snapshot is returned as a fatal error so startup halts instead of
// silently discarding history.
func NewService(cfg *config.Config, deps Dependencies) (*Service, error) {
	s := &Service{cfg: cfg, deps: deps}

	data, err := deps.Snapshots.Load()
	if err != nil {
		return nil, err
	}
	if data == nil {
		s.seeds = NewSeedTable(cfg.NumPermutations, cfg.MinHashSeed)
		s.index, err = NewBandedIndex(cfg.LSHBands, cfg.LSHRows, cfg.NumPermutations)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("No index snapshot found, starting with an empty index")
	} else {
		s.index, s.seeds, err = DecodeIndex(data)
		if err != nil {
			return nil, err
		}
		log.Info().Int("documents", s.index.Len()).Msg("Loaded index snapshot")
	}

	s.pool, err = ants.NewPool(cfg.MaxConcurrentFetch)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Shutdown flushes the snapshot and releases the fetch pool.
func (s *Service) Shutdown(ctx context.Context) error {
	s.pool.Release()
	return s.saveSnapshot()
}

// CheckText runs the full similarity pipeline for a text submission.
func (s *Service) CheckText(ctx context.Context, text string, opts models.CheckOptions) (*models.MatchReport, error) {
	return s.check(ctx, text, "", opts)
}

// CheckDocument extracts text from a raw document and checks it. Empty
// extracted text is rejected as "could not analyze".
func (s *Service) CheckDocument(ctx context.Context, filename string, raw []byte, opts models.CheckOptions) (*models.MatchReport, error) {
	text, err := s.deps.Extractor.Extract(filename, raw)
	if err != nil || strings.TrimSpace(text) == "" {
		log.Warn().Err(err).Str("filename", filename).Msg("Failed to extract text from document")
		return nil, ErrNoExtractableText
	}
	return s.check(ctx, text, filename, opts)
}

func (s *Service) check(ctx context.Context, text, sourceFile string, opts models.CheckOptions) (*models.MatchReport, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if len(text) > s.cfg.MaxTextBytes {
		return nil, ErrTextTooLarge
	}
	opts = s.withDefaults(opts)

	// The whole request runs under its own budget; when it expires the
	// crawl stops issuing work and partial results are returned.
	ctx, cancel := context.WithTimeout(ctx, s.cfg.CheckBudget)
	defer cancel()

	tokens := Tokenize(text)
	shingles := Shingles(tokens, s.cfg.ShingleSize)

	var (
		candidates []Candidate
		stats      models.CrawlStats
	)
	if len(shingles) > 0 {
		sketch := s.seeds.Sketch(shingles)

		s.mu.RLock()
		localIDs := s.index.Query(sketch, "")
		s.mu.RUnlock()

		byID := make(map[string]Candidate)
		for _, cand := range s.loadStoredCandidates(ctx, localIDs) {
			byID[cand.DocID] = cand
		}
		fresh, crawlStats := s.crawlCandidates(ctx, tokens, opts)
		stats = crawlStats
		for _, cand := range fresh {
			byID[cand.DocID] = cand
		}

		candidates = make([]Candidate, 0, len(byID))
		for _, cand := range byID {
			candidates = append(candidates, cand)
		}
	}

	result := ScoreCandidates(ctx, text, shingles, candidates, s.deps.Semantic, opts.UseSemantic, s.thresholds(), opts.TopK)

	submission := &models.Submission{
		ID:         uuid.NewString(),
		UserRef:    opts.UserRef,
		Text:       text,
		Words:      len(tokens),
		Shingles:   len(shingles),
		Score:      result.Score,
		SourceFile: sourceFile,
		CreatedAt:  time.Now(),
	}
	report := &models.Report{
		ID:           uuid.NewString(),
		SubmissionID: submission.ID,
		Matches:      result.Matches,
		CreatedAt:    time.Now(),
	}

	// Audit records are best effort: a storage failure never discards the
	// result already computed in memory. They write outside the check budget
	// so a crawl that exhausts it does not starve them of context.
	auditCtx, auditCancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer auditCancel()
	if err := s.deps.Submissions.Insert(auditCtx, submission); err != nil {
		log.Error().Err(err).Str("submissionId", submission.ID).Msg("Failed to persist submission")
	}
	if err := s.deps.Reports.Insert(auditCtx, report); err != nil {
		log.Error().Err(err).Str("reportId", report.ID).Msg("Failed to persist report")
	}

	return &models.MatchReport{
		SubmissionID: submission.ID,
		ReportID:     report.ID,
		Score:        result.Score,
		Percent:      round2(result.Score * 100),
		Matches:      result.Matches,
		Candidates:   len(candidates),
		Crawl:        stats,
	}, nil
}

// IndexText adds a labeled document to the corpus and returns its docID.
func (s *Service) IndexText(ctx context.Context, label, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if len(text) > s.cfg.MaxTextBytes {
		return "", ErrTextTooLarge
	}

	tokens := Tokenize(text)
	shingles := Shingles(tokens, s.cfg.ShingleSize)

	page := &models.Page{
		ID:          uuid.NewString(),
		Label:       label,
		Text:        text,
		ContentHash: contentHash(text),
		Words:       len(tokens),
		Shingles:    len(shingles),
		FetchedAt:   time.Now(),
		Sketch:      s.seeds.Sketch(shingles),
	}
	if err := s.persistPage(ctx, page); err != nil {
		return "", err
	}
	log.Info().Str("docId", page.ID).Str("label", label).Int("words", page.Words).Msg("Indexed document")
	return page.ID, nil
}

// IndexDocument extracts text from a raw document and indexes it under the
// filename as label.
func (s *Service) IndexDocument(ctx context.Context, filename string, raw []byte) (string, error) {
	text, err := s.deps.Extractor.Extract(filename, raw)
	if err != nil || strings.TrimSpace(text) == "" {
		log.Warn().Err(err).Str("filename", filename).Msg("Failed to extract text from document")
		return "", ErrNoExtractableText
	}
	return s.IndexText(ctx, filename, text)
}

// ListDocs returns metadata for every page in the corpus.
func (s *Service) ListDocs(ctx context.Context) ([]*models.Page, error) {
	return s.deps.Pages.List(ctx)
}

// ClearCorpus atomically empties the index, the sketch store, the page
// store and the page cache, and rewrites the snapshot.
func (s *Service) ClearCorpus(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ix, err := NewBandedIndex(s.cfg.LSHBands, s.cfg.LSHRows, s.seeds.Len())
	if err != nil {
		return err
	}
	if err := s.deps.Pages.Clear(ctx); err != nil {
		return err
	}
	if err := s.deps.PageCache.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to clear page cache")
	}
	s.index = ix

	if err := s.deps.Snapshots.Save(EncodeIndex(s.index, s.seeds)); err != nil {
		log.Error().Err(err).Msg("Failed to persist cleared index snapshot")
	}
	log.Info().Msg("Corpus cleared")
	return nil
}

// crawlCandidates discovers candidate URLs for the query and fetches them
// on the worker pool. Freshly fetched pages are persisted and indexed as a
// side effect, so repeat queries hit the local index and cache.
func (s *Service) crawlCandidates(ctx context.Context, tokens []string, opts models.CheckOptions) ([]Candidate, models.CrawlStats) {
	var stats models.CrawlStats

	phrases := SearchPhrases(tokens, s.cfg.ShingleSize, opts.MaxPhrases)
	urls := crawler.Discover(ctx, s.deps.Search, phrases, opts.MaxCandidateURLs, s.cfg.SearchTimeout, s.cfg.FallbackSeedURLs)
	if len(urls) == 0 {
		return nil, stats
	}

	outcomes := make(chan crawler.Outcome, len(urls))
	var wg sync.WaitGroup
	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}
		u := u
		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			outcomes <- s.deps.Fetcher.Fetch(ctx, u)
		}); err != nil {
			wg.Done()
			log.Warn().Err(err).Str("url", u).Msg("Failed to schedule fetch")
		}
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var fresh []Candidate
	for outcome := range outcomes {
		switch outcome.Status {
		case crawler.StatusFetched:
			stats.Fetched++
		case crawler.StatusCached:
			stats.Cached++
		case crawler.StatusBlocked:
			stats.Blocked++
			continue
		case crawler.StatusTooShort:
			stats.TooShort++
			continue
		case crawler.StatusFailed:
			stats.Failed++
			log.Debug().Err(outcome.Err).Str("url", outcome.URL).Msg("Candidate fetch failed")
			continue
		}

		cand, ok := s.absorbPage(ctx, outcome)
		if ok {
			fresh = append(fresh, cand)
		}
	}
	return fresh, stats
}

// absorbPage persists a fetched page (reusing the docID when the URL is
// already known) and returns it as a scoring candidate. The store write
// happens before the index insert so a queried docID always has its text
// available.
func (s *Service) absorbPage(ctx context.Context, outcome crawler.Outcome) (Candidate, bool) {
	tokens := Tokenize(outcome.Text)
	shingles := Shingles(tokens, s.cfg.ShingleSize)
	if len(shingles) == 0 {
		return Candidate{}, false
	}

	// A fresh docID is minted only when the URL is verifiably unknown. On a
	// lookup failure the candidate is still scored but nothing is written,
	// so a transient store error cannot mint a duplicate page for the URL.
	existing, err := s.deps.Pages.GetByURL(ctx, outcome.URL)
	docID := uuid.NewString()
	if existing != nil {
		docID = existing.ID
	}

	cand := Candidate{
		DocID:    docID,
		URL:      outcome.URL,
		Text:     outcome.Text,
		Shingles: shingles,
		Words:    len(tokens),
	}
	if err != nil {
		log.Warn().Err(err).Str("url", outcome.URL).Msg("Page lookup failed, scoring candidate without persisting it")
		return cand, true
	}

	// A cache hit for a URL already indexed needs no writes.
	if outcome.Status == crawler.StatusCached {
		s.mu.RLock()
		_, indexed := s.index.Sketch(docID)
		s.mu.RUnlock()
		if indexed {
			return cand, true
		}
	}

	page := &models.Page{
		ID:          docID,
		URL:         outcome.URL,
		Domain:      domainOf(outcome.URL),
		Text:        outcome.Text,
		ContentHash: contentHash(outcome.Text),
		Words:       len(tokens),
		Shingles:    len(shingles),
		FetchedAt:   outcome.FetchedAt,
		Sketch:      s.seeds.Sketch(shingles),
	}
	if err := s.persistPage(ctx, page); err != nil {
		log.Error().Err(err).Str("url", outcome.URL).Msg("Failed to persist fetched page")
	} else {
		log.Debug().Str("doc", page.DisplayName()).Int("words", page.Words).Msg("Absorbed fetched page into corpus")
	}
	return cand, true
}

// persistPage writes the page to the store, inserts it into the index and
// flushes the snapshot. Store before index keeps queries consistent; the
// snapshot flush is best effort.
func (s *Service) persistPage(ctx context.Context, page *models.Page) error {
	if err := s.deps.Pages.Upsert(ctx, page); err != nil {
		return err
	}

	s.mu.Lock()
	s.index.Insert(page.ID, page.Sketch)
	s.mu.Unlock()

	if err := s.saveSnapshot(); err != nil {
		log.Error().Err(err).Msg("Failed to flush index snapshot")
	}
	return nil
}

func (s *Service) saveSnapshot() error {
	s.mu.RLock()
	data := EncodeIndex(s.index, s.seeds)
	s.mu.RUnlock()
	return s.deps.Snapshots.Save(data)
}

// loadStoredCandidates resolves index candidates to their stored pages.
// A page that cannot be loaded is skipped, not fatal.
func (s *Service) loadStoredCandidates(ctx context.Context, docIDs []string) []Candidate {
	candidates := make([]Candidate, 0, len(docIDs))
	for _, id := range docIDs {
		page, err := s.deps.Pages.Get(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("docId", id).Msg("Failed to load candidate page")
			continue
		}
		candidates = append(candidates, Candidate{
			DocID:    id,
			URL:      page.URL,
			Label:    page.Label,
			Text:     page.Text,
			Shingles: Shingles(Tokenize(page.Text), s.cfg.ShingleSize),
			Words:    page.Words,
		})
	}
	return candidates
}

func (s *Service) withDefaults(opts models.CheckOptions) models.CheckOptions {
	if opts.TopK <= 0 {
		opts.TopK = s.cfg.DefaultTopK
	}
	if opts.MaxPhrases <= 0 || opts.MaxPhrases > s.cfg.MaxPhrases {
		opts.MaxPhrases = s.cfg.MaxPhrases
	}
	if opts.MaxCandidateURLs <= 0 || opts.MaxCandidateURLs > s.cfg.MaxCandidateURLs {
		opts.MaxCandidateURLs = s.cfg.MaxCandidateURLs
	}
	return opts
}

func (s *Service) thresholds() Thresholds {
	return Thresholds{
		MinJaccard:     s.cfg.MinJaccard,
		MinSemantic:    s.cfg.MinSemantic,
		LexicalWeight:  s.cfg.LexicalWeight,
		SemanticWeight: s.cfg.SemanticWeight,
		SemanticWindow: s.cfg.SemanticWindowChars,
	}
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

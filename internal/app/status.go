package app

import "context"

// Status describes what the running agent can answer from.
type Status struct {
	CorpusSource   string   `json:"corpus_source"`
	SourceCommit   string   `json:"source_commit,omitempty"`
	FAQFound       bool     `json:"faq_found"`
	FAQSections    []string `json:"faq_sections"`
	IndexBackend   string   `json:"index_backend"`
	IndexAvailable bool     `json:"index_available"`
	TotalReviews   int      `json:"total_reviews"`
	IndexedReviews int      `json:"indexed_reviews"`
	SkippedReviews int      `json:"skipped_reviews"`
	StoredPoints   *int     `json:"stored_points,omitempty"`
	BuildDuration  string   `json:"build_duration,omitempty"`
}

// Status collects corpus and index statistics. Lookups against GitHub or the
// vector store are best effort and simply omitted on failure.
func (a *App) Status(ctx context.Context) Status {
	s := Status{
		CorpusSource:   a.Config.CorpusSource,
		FAQFound:       a.Corpus.FAQ.Found,
		FAQSections:    a.Corpus.FAQ.Sections,
		IndexBackend:   a.Config.IndexBackend,
		IndexAvailable: a.Index.Available(),
		TotalReviews:   len(a.Corpus.Reviews),
		IndexedReviews: a.Index.Size(),
	}
	if s.FAQSections == nil {
		s.FAQSections = []string{}
	}
	if a.Build != nil {
		s.SkippedReviews = a.Build.Skipped
		if a.Build.Duration > 0 {
			s.BuildDuration = a.Build.Duration.String()
		}
	}

	if a.store != nil && s.IndexAvailable {
		if n, err := a.store.Count(ctx); err == nil {
			s.StoredPoints = &n
		} else {
			a.logger.Warn("Failed to count stored reviews", "error", err)
		}
	}

	if a.fetcher != nil {
		if sha, err := a.fetcher.LatestCommitSHA(ctx); err == nil {
			s.SourceCommit = sha
		} else {
			a.logger.Warn("Failed to read corpus commit", "error", err)
		}
	}

	return s
}

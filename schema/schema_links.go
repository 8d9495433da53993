package schema

import "time"

// LinkResult is the outcome of requesting one path.
type LinkResult struct {
	Path             string    `json:"path" yaml:"path"`
	URL              string    `json:"url" yaml:"url"`
	Status           int       `json:"status" yaml:"status"`
	OK               bool      `json:"ok" yaml:"ok"`
	Class            LinkClass `json:"class" yaml:"class"`
	NotFoundExpected bool      `json:"notFoundExpected" yaml:"notFoundExpected"`
	DurationMs       int64     `json:"durationMs" yaml:"durationMs"`
	Source           string    `json:"source" yaml:"source"`
	Error            string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// LinkSummary aggregates the results of a link check run.
type LinkSummary struct {
	RunID         string    `json:"runId" yaml:"runId"`
	BaseURL       string    `json:"baseUrl" yaml:"baseUrl"`
	CheckedAt     time.Time `json:"checkedAt" yaml:"checkedAt"`
	SitemapPaths  int       `json:"sitemapPaths" yaml:"sitemapPaths"`
	Total         int       `json:"total" yaml:"total"`
	OK            int       `json:"ok" yaml:"ok"`
	NotFound      int       `json:"notFound" yaml:"notFound"`
	ClientErrors  int       `json:"clientErrors" yaml:"clientErrors"`
	ServerErrors  int       `json:"serverErrors" yaml:"serverErrors"`
	NetworkErrors int       `json:"networkErrors" yaml:"networkErrors"`
	Missing404    int       `json:"missing404" yaml:"missing404"`
	DurationMs    int64     `json:"durationMs" yaml:"durationMs"`
}

// LinkReport is the document written by the link checker.
type LinkReport struct {
	Summary  LinkSummary  `json:"summary" yaml:"summary"`
	Results  []LinkResult `json:"results" yaml:"results"`
	NotFound []LinkResult `json:"notFound" yaml:"notFound"`
	Warnings []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// SuccessRate returns the percentage of OK results, or 0 when nothing was checked.
func (s LinkSummary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.OK) / float64(s.Total) * 100
}

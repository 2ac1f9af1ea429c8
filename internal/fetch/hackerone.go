package fetch

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const reportUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var hackerOneIDPattern = regexp.MustCompile(`hackerone\.com/reports/(\d+)`)

// Report is the text extracted from a bug report page.
type Report struct {
	Title string
	Body  string
}

// ReportFetcher retrieves report text from a disclosure page. It is an
// interface so tests and alternative scrapers (e.g. a headless-browser
// variant) can stand in for the HTTP implementation.
type ReportFetcher interface {
	FetchReport(ctx context.Context, url string) (Report, error)
}

// ExtractReportID extracts the numeric report ID from a HackerOne report
// URL. The second return is false when the URL is not a report page.
func ExtractReportID(url string) (string, bool) {
	if m := hackerOneIDPattern.FindStringSubmatch(url); len(m) > 1 {
		return m[1], true
	}
	return "", false
}

// HTTPReportFetcher scrapes report pages over plain HTTP with goquery.
// Pages rendered entirely client-side may come back thin; the title and
// body selectors both fall back to broader elements before giving up.
type HTTPReportFetcher struct {
	httpClient *http.Client
}

// NewHTTPReportFetcher creates a report fetcher with a 60s request timeout.
func NewHTTPReportFetcher() *HTTPReportFetcher {
	return &HTTPReportFetcher{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// FetchReport downloads the report page and extracts its title and body
// text.
func (f *HTTPReportFetcher) FetchReport(ctx context.Context, url string) (Report, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return Report{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", reportUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("failed to fetch report: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("report page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Report{}, fmt.Errorf("failed to parse report page: %w", err)
	}

	return parseReportDocument(doc), nil
}

func parseReportDocument(doc *goquery.Document) Report {
	title := strings.TrimSpace(doc.Find(".report-heading .report-title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = "Unknown HackerOne Report"
	}

	body := strings.TrimSpace(doc.Find(".report-timeline-container").First().Text())
	if body == "" {
		body = strings.TrimSpace(doc.Find("body").First().Text())
	}

	return Report{Title: title, Body: body}
}

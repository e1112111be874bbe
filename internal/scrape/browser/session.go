// Package browser drives the listing site through a single headless
// Chrome tab. The tab is a shared, stateful, non-reentrant resource:
// navigation for one listing must finish before the next starts, so
// everything here is strictly sequential.
package browser

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"roomhunt-engine/internal/scrape"
)

const navTimeout = 10 * time.Second

type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
	domain  string
}

var _ scrape.CandidateSource = (*Session)(nil)
var _ scrape.PageFetcher = (*Session)(nil)

func NewSession(parent context.Context, domain string, headless bool) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Materialize the browser up front so a broken Chrome install fails
	// the run immediately rather than on the first candidate.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	log.Printf("[browser] launched (headless=%v)", headless)

	return &Session{
		ctx:     tabCtx,
		cancels: []context.CancelFunc{cancelTab, cancelAlloc},
		domain:  domain,
	}, nil
}

func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
	log.Printf("[browser] closed")
}

// Search fills the advanced-search form and submits it, leaving the tab
// on the first results page.
func (s *Session) Search(ctx context.Context, q scrape.SearchQuery) error {
	runCtx, cancel := context.WithTimeout(s.ctx, 60*time.Second)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(s.domain+"/flatshare/search.pl?searchtype=advanced"),
		chromedp.WaitVisible("#search_by_location_field"),
		chromedp.SendKeys("#search_by_location_field", q.Area),
		chromedp.WaitVisible("#min-rent"),
		chromedp.SetValue("#min-rent", fmt.Sprint(q.MinRent)),
		chromedp.WaitVisible("#max-rent"),
		chromedp.SetValue("#max-rent", fmt.Sprint(q.MaxRent)),
		chromedp.Evaluate(`document.getElementById('oneBedOrStudio').checked = false;`, nil),
		chromedp.Evaluate(`document.getElementById('wholeProperty').checked = false;`, nil),
		chromedp.Evaluate(`document.getElementById('wholeWeek').checked = true;`, nil),
		chromedp.Evaluate(`document.getElementById('doubleRoom').checked = true;`, nil),
		chromedp.Evaluate(`document.getElementById('adsWithPhoto').checked = true;`, nil),
		chromedp.Evaluate(`document.getElementById('liveOut').checked = true;`, nil),
		chromedp.Evaluate(fmt.Sprintf(
			`document.querySelector('select[name="min_term"]').value = '%d';`, q.MinTermMonths), nil),
		chromedp.SendKeys("#search_by_location_field", kb.Enter),
		chromedp.WaitReady("ul.listing-results"),
	)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	log.Printf("[browser] searched %s, rent %d-%d", q.Area, q.MinRent, q.MaxRent)
	return nil
}

// Candidates walks up to pages result pages, newest first, and returns
// the listing URLs in discovery order with duplicates removed.
func (s *Session) Candidates(ctx context.Context, pages int) ([]string, error) {
	runCtx, cancel := context.WithTimeout(s.ctx, time.Duration(pages)*30*time.Second)
	defer cancel()

	// Newest ads first so early-stop still sees everything recent.
	if err := chromedp.Run(runCtx,
		chromedp.SetValue("#sort_by", "days_since_placed"),
		chromedp.WaitReady("ul.listing-results"),
	); err != nil {
		return nil, fmt.Errorf("sort results: %w", err)
	}

	var all []string
	for page := 1; page <= pages; page++ {
		var urls []string
		err := chromedp.Run(runCtx,
			chromedp.WaitReady("ul.listing-results"),
			chromedp.Evaluate(`
Array.from(document.querySelectorAll('ul.listing-results li'))
  .map(li => li.getAttribute('data-listing-url'))
  .filter(u => u);`, &urls),
		)
		if err != nil {
			return nil, fmt.Errorf("collect page %d: %w", page, err)
		}
		all = append(all, urls...)
		log.Printf("[browser] page %d: %d listings", page, len(urls))

		if page == pages {
			break
		}

		var next string
		err = chromedp.Run(runCtx, chromedp.Evaluate(`
(() => {
  const a = document.querySelector('#paginationNextPageLink');
  return a ? (a.getAttribute('href') || '') : '';
})();`, &next))
		if err != nil {
			return nil, fmt.Errorf("next link: %w", err)
		}
		if next == "" {
			log.Printf("[browser] no more pages")
			break
		}
		if err := chromedp.Run(runCtx, chromedp.Navigate(s.domain+"/flatshare/"+next)); err != nil {
			return nil, fmt.Errorf("goto page %d: %w", page+1, err)
		}
	}

	return dedup(absoluteURLs(s.domain, all)), nil
}

// absoluteURLs joins the site domain onto candidate links. The results
// page emits them host-relative, and a relative URL can neither be
// navigated to nor compared against a stored record's URL.
func absoluteURLs(domain string, urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if !strings.HasPrefix(u, "http") {
			u = domain + "/" + strings.TrimPrefix(u, "/")
		}
		out = append(out, u)
	}
	return out
}

// FetchHTML navigates the shared tab to url and returns the rendered
// document plus the URL the navigation settled on.
func (s *Session) FetchHTML(ctx context.Context, url string) (string, string, error) {
	runCtx, cancel := context.WithTimeout(s.ctx, navTimeout)
	defer cancel()

	var html, finalURL string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", url, err)
	}
	return html, finalURL, nil
}

func dedup(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

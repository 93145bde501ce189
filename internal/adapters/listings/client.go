// internal/adapters/listings/client.go
package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/domain"
)

// maxBody caps how much of a listing page we read.
const maxBody = 4 << 20

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// Delay is a randomized pause drawn uniformly from [Min, Max].
type Delay struct{ Min, Max time.Duration }

func (d Delay) draw() time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + rand.N(d.Max-d.Min)
}

type Options struct {
	URLTemplate   string // %s receives the query-escaped city
	Timeout       time.Duration
	RPS           int
	PreDelay      Delay // before the request
	ItemDelay     Delay // between candidate extractions
	MaxCandidates int
}

type Client struct {
	tmpl  string
	hc    *http.Client
	rl    *rate.Limiter
	pre   Delay
	item  Delay
	limit int
}

func New(o Options) (*Client, error) {
	if !strings.Contains(o.URLTemplate, "%s") {
		return nil, fmt.Errorf("listing URL template must contain %%s, got %q", o.URLTemplate)
	}
	if o.RPS <= 0 {
		o.RPS = 1
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = 10
	}
	return &Client{
		tmpl:  o.URLTemplate,
		hc:    &http.Client{Timeout: o.Timeout},
		rl:    rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
		pre:   o.PreDelay,
		item:  o.ItemDelay,
		limit: o.MaxCandidates,
	}, nil
}

// Fetch performs exactly one GET for city and extracts at most MaxCandidates hotels.
// Every failure is a *domain.FetchError.
func (c *Client) Fetch(ctx context.Context, city string) ([]domain.Candidate, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, &domain.FetchError{Kind: classify(ctx, err), Err: err}
	}
	if !sleepCtx(ctx, c.pre.draw()) {
		return nil, &domain.FetchError{Kind: domain.FetchTimeout, Err: ctx.Err()}
	}

	u := fmt.Sprintf(c.tmpl, url.QueryEscape(city))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.FetchNetwork, Err: err}
	}
	req.Header.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("listings", "search", 0, time.Since(start))
		return nil, &domain.FetchError{Kind: classify(ctx, err), Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("listings", "search", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &domain.FetchError{Kind: domain.FetchHTTPStatus, Status: resp.StatusCode}
	}

	blocks, err := parseResults(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &domain.FetchError{Kind: classify(ctx, err), Err: err}
	}
	if len(blocks) == 0 {
		return nil, &domain.FetchError{Kind: domain.FetchShape, Err: errors.New("no result-title elements")}
	}
	if len(blocks) > c.limit {
		blocks = blocks[:c.limit]
	}

	out := make([]domain.Candidate, 0, len(blocks))
	for i, b := range blocks {
		if i > 0 && !sleepCtx(ctx, c.item.draw()) {
			// out of time: keep what we already extracted
			break
		}
		cand, err := b.candidate()
		if err != nil {
			log.Warn().Err(err).Str("city", city).Int("index", i).Msg("skipping listing candidate")
			continue
		}
		out = append(out, cand)
	}
	log.Info().Str("city", city).Int("count", len(out)).Msg("listing fetch done")
	return out, nil
}

func classify(ctx context.Context, err error) domain.FetchKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.FetchTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.FetchTimeout
	}
	return domain.FetchNetwork
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

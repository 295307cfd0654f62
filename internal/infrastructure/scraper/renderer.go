package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mcdlocator/backend/internal/domain"
)

// DefaultLocatorURL is the public store-locator page
const DefaultLocatorURL = "https://www.mcdonalds.com.my/locate-us"

const defaultPageTimeout = 20 * time.Second

// ErrStateNotFound is returned when the state dropdown has no matching option
var ErrStateNotFound = errors.New("state not offered by locator")

// pageDriver controls one browser tab on the locator page
type pageDriver interface {
	Open(url string) error
	FilterState(state string) error
	// Results returns the markup of the results container once outlets are shown
	Results() (string, error)
	// NextPage advances the pagination and reports whether a new page is shown
	NextPage() (bool, error)
	Close()
}

// RendererConfig configures the headless-browser scraper
type RendererConfig struct {
	ChromePath  string
	UserAgent   string
	NoSandbox   bool
	State       string // empty skips the state filter
	PageTimeout time.Duration
	MaxPages    int // 0 means no limit
}

// Renderer scrapes the locator by driving a headless browser through the
// state search and every results page
type Renderer struct {
	cfg       RendererConfig
	logger    zerolog.Logger
	newDriver func(ctx context.Context) (pageDriver, error)
}

// NewRenderer creates a Renderer backed by Chrome
func NewRenderer(cfg RendererConfig, logger zerolog.Logger) *Renderer {
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = defaultPageTimeout
	}

	r := &Renderer{
		cfg:    cfg,
		logger: logger.With().Str("component", "scraper").Logger(),
	}
	r.newDriver = func(ctx context.Context) (pageDriver, error) {
		d, err := newChromeDriver(ctx, r.cfg, r.logger)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return r
}

// Scrape opens url, filters by the configured state and collects the outlets
// from every results page. Outlets repeated across pages are kept once.
func (r *Renderer) Scrape(ctx context.Context, url string) ([]domain.Outlet, error) {
	driver, err := r.newDriver(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	defer driver.Close()

	if err := driver.Open(url); err != nil {
		return nil, fmt.Errorf("opening %s: %w", url, err)
	}
	if r.cfg.State != "" {
		if err := driver.FilterState(r.cfg.State); err != nil {
			return nil, fmt.Errorf("filtering by %q: %w", r.cfg.State, err)
		}
		r.logger.Info().Str("state", r.cfg.State).Msg("applied state filter")
	}

	var outlets []domain.Outlet

	for page := 1; ; page++ {
		markup, err := driver.Results()
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("reading results: %w", err)
			}
			r.logger.Warn().Err(err).Int("page", page).Msg("stopping pagination")
			break
		}

		found, err := ParseLocatorPage(strings.NewReader(markup))
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		before := len(outlets)
		outlets = Unique(append(outlets, found...))
		added := len(outlets) - before
		r.logger.Info().Int("page", page).Int("outlets", added).Msg("scraped results page")

		if r.cfg.MaxPages > 0 && page >= r.cfg.MaxPages {
			r.logger.Warn().Int("max_pages", r.cfg.MaxPages).Msg("page limit reached")
			break
		}

		more, err := driver.NextPage()
		if err != nil {
			r.logger.Warn().Err(err).Int("page", page).Msg("stopping pagination")
			break
		}
		if !more {
			break
		}
	}

	return outlets, nil
}

// Unique drops outlets repeating an earlier name and address, keeping order
func Unique(outlets []domain.Outlet) []domain.Outlet {
	seen := make(map[string]bool, len(outlets))
	unique := outlets[:0]
	for _, o := range outlets {
		key := o.Name + "\x00" + o.Address
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, o)
	}
	return unique
}

// FilterByState keeps outlets whose address mentions state, ignoring case
func FilterByState(outlets []domain.Outlet, state string) []domain.Outlet {
	state = strings.ToLower(strings.TrimSpace(state))
	if state == "" {
		return outlets
	}
	filtered := make([]domain.Outlet, 0, len(outlets))
	for _, o := range outlets {
		if strings.Contains(strings.ToLower(o.Address), state) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

package businessflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/app/services"
	"github.com/leadline/leadline/models"
)

// loopingProvider never runs out of pages; only a stop request or the
// result cap ends a session driven by it.
type loopingProvider struct {
	record services.PageRecord
}

func (p *loopingProvider) Open(ctx context.Context, url string) error { return nil }

func (p *loopingProvider) ExtractRecords(ctx context.Context) ([]services.PageRecord, error) {
	return []services.PageRecord{p.record}, nil
}

func (p *loopingProvider) NextPage(ctx context.Context) (bool, error) { return true, nil }

func (p *loopingProvider) Close() error { return nil }

func newScrapeFlowForTest(provider services.PageProvider) (*ScrapeFlowImpl, *fakeProspectRepo) {
	prospectRepo := newFakeProspectRepo()
	flow := &ScrapeFlowImpl{
		newProvider:  func() services.PageProvider { return provider },
		prospectRepo: prospectRepo,
		settleDelay:  time.Millisecond,
		sessions:     make(map[string]*scrapeSession),
	}
	return flow, prospectRepo
}

func waitForStatus(t *testing.T, flow *ScrapeFlowImpl, sessionID, want string) *dto.ScrapeResponse {
	t.Helper()
	var last *dto.ScrapeResponse
	require.Eventually(t, func() bool {
		resp, err := flow.GetScrape(context.Background(), sessionID)
		if err != nil {
			return false
		}
		last = resp
		return resp.Scrape.Status == want
	}, 5*time.Second, 5*time.Millisecond)
	return last
}

func TestStartScrape(t *testing.T) {
	ctx := context.Background()

	t.Run("walks every page then completes", func(t *testing.T) {
		provider := &fakePageProvider{pages: [][]services.PageRecord{
			{{Company: "Alpha Roofing", State: "TX"}, {Company: "Beta Paint"}},
			{{Company: "Gamma HVAC", Phone: "555-0103"}},
		}}
		flow, _ := newScrapeFlowForTest(provider)

		resp, err := flow.StartScrape(ctx, &dto.StartScrapeRequest{
			URL:        "https://directory.example/tx",
			MaxResults: 100,
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, ScrapeStatusRunning, resp.Scrape.Status)

		done := waitForStatus(t, flow, resp.Scrape.SessionID, ScrapeStatusCompleted)
		assert.Equal(t, 2, done.Scrape.Pages)
		require.Len(t, done.Scrape.Records, 3)
		assert.Equal(t, "Alpha Roofing", done.Scrape.Records[0].Company)
		assert.Equal(t, "Gamma HVAC", done.Scrape.Records[2].Company)
	})

	t.Run("caps results at the requested maximum", func(t *testing.T) {
		provider := &fakePageProvider{pages: [][]services.PageRecord{
			{{Company: "One"}, {Company: "Two"}, {Company: "Three"}},
			{{Company: "Four"}, {Company: "Five"}},
		}}
		flow, _ := newScrapeFlowForTest(provider)

		resp, err := flow.StartScrape(ctx, &dto.StartScrapeRequest{
			URL:        "https://directory.example",
			MaxResults: 4,
		}, nil)
		require.NoError(t, err)

		done := waitForStatus(t, flow, resp.Scrape.SessionID, ScrapeStatusCompleted)
		assert.Len(t, done.Scrape.Records, 4)
	})

	t.Run("open failure marks the session failed", func(t *testing.T) {
		provider := &fakePageProvider{openErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
		flow, _ := newScrapeFlowForTest(provider)

		resp, err := flow.StartScrape(ctx, &dto.StartScrapeRequest{URL: "https://bad.example"}, nil)
		require.NoError(t, err)

		failed := waitForStatus(t, flow, resp.Scrape.SessionID, ScrapeStatusFailed)
		assert.Contains(t, failed.Scrape.Error, "ERR_NAME_NOT_RESOLVED")
	})
}

func TestStopScrape(t *testing.T) {
	ctx := context.Background()
	flow, prospectRepo := newScrapeFlowForTest(&loopingProvider{
		record: services.PageRecord{Company: "Endless Listings"},
	})

	resp, err := flow.StartScrape(ctx, &dto.StartScrapeRequest{
		URL:        "https://directory.example/endless",
		MaxResults: 1000,
	}, nil)
	require.NoError(t, err)
	id := resp.Scrape.SessionID

	t.Run("import while running is rejected", func(t *testing.T) {
		_, err := flow.ImportResults(ctx, id, nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrScrapeStillRunning)
	})

	t.Run("stop keeps partial results", func(t *testing.T) {
		_, err := flow.StopScrape(ctx, id)
		require.NoError(t, err)

		stopped := waitForStatus(t, flow, id, ScrapeStatusStopped)
		assert.NotEmpty(t, stopped.Scrape.Records)
	})

	t.Run("second stop is rejected", func(t *testing.T) {
		_, err := flow.StopScrape(ctx, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrScrapeAlreadyStopped)
	})

	t.Run("partial results import as prospects", func(t *testing.T) {
		imported, err := flow.ImportResults(ctx, id, nil, nil)
		require.NoError(t, err)
		assert.Positive(t, imported.Imported)

		prospects, _ := prospectRepo.List(ctx)
		require.NotEmpty(t, prospects)
		assert.Equal(t, "Endless Listings", prospects[0].Company)
		assert.Equal(t, "https://directory.example/endless", prospects[0].Source)
		assert.Equal(t, models.ProspectStageUnreviewed, prospects[0].Stage)
	})
}

func TestImportScrapeResults(t *testing.T) {
	ctx := context.Background()

	t.Run("skips records without a company and honors source override", func(t *testing.T) {
		provider := &fakePageProvider{pages: [][]services.PageRecord{
			{{Company: "Named Co"}, {Website: "anon.example"}},
		}}
		flow, prospectRepo := newScrapeFlowForTest(provider)

		resp, err := flow.StartScrape(ctx, &dto.StartScrapeRequest{URL: "https://directory.example"}, nil)
		require.NoError(t, err)
		waitForStatus(t, flow, resp.Scrape.SessionID, ScrapeStatusCompleted)

		imported, err := flow.ImportResults(ctx, resp.Scrape.SessionID, &dto.ImportScrapeResultsRequest{
			Source: "yellow pages",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, imported.Imported)
		assert.Equal(t, 1, imported.Skipped)

		prospects, _ := prospectRepo.List(ctx)
		require.Len(t, prospects, 1)
		assert.Equal(t, "yellow pages", prospects[0].Source)
	})

	t.Run("empty session has nothing to import", func(t *testing.T) {
		provider := &fakePageProvider{pages: [][]services.PageRecord{{}}}
		flow, _ := newScrapeFlowForTest(provider)

		resp, err := flow.StartScrape(ctx, &dto.StartScrapeRequest{URL: "https://directory.example"}, nil)
		require.NoError(t, err)
		waitForStatus(t, flow, resp.Scrape.SessionID, ScrapeStatusCompleted)

		_, err = flow.ImportResults(ctx, resp.Scrape.SessionID, nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrScrapeNoResults)
	})

	t.Run("unknown session", func(t *testing.T) {
		flow, _ := newScrapeFlowForTest(&fakePageProvider{})
		_, err := flow.GetScrape(ctx, "missing")
		require.Error(t, err)
		assert.True(t, IsScrapeNotFound(err))
	})
}

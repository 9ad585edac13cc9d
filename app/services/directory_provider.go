// Package services provides external integrations and technical concerns like browser automation and caching
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/leadline/leadline/config"
)

// PageRecord is one business listing extracted from a directory page
type PageRecord struct {
	Company string `json:"company"`
	Website string `json:"website"`
	Phone   string `json:"phone"`
	State   string `json:"state"`
}

// PageProvider abstracts the browser so scrape sessions can be driven
// against real directory pages or an in-process fake.
type PageProvider interface {
	Open(ctx context.Context, url string) error
	ExtractRecords(ctx context.Context) ([]PageRecord, error)
	NextPage(ctx context.Context) (bool, error)
	Close() error
}

// RodPageProvider implements PageProvider on a headless Chrome instance
type RodPageProvider struct {
	config  *config.ScraperConfig
	browser *rod.Browser
	page    *rod.Page
}

// NewRodPageProvider creates a provider; the browser is launched lazily on Open
func NewRodPageProvider(cfg *config.ScraperConfig) *RodPageProvider {
	return &RodPageProvider{config: cfg}
}

func (p *RodPageProvider) connect(ctx context.Context) error {
	if p.browser != nil {
		return nil
	}

	controlURL := p.config.ControlURL
	if controlURL == "" {
		url, err := launcher.New().Headless(p.config.Headless).Launch()
		if err != nil {
			return fmt.Errorf("failed to launch browser: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	p.browser = browser
	return nil
}

// Open navigates a fresh page to the given URL and waits for it to load,
// bounded by the provider's page load timeout.
func (p *RodPageProvider) Open(ctx context.Context, url string) error {
	if err := p.connect(ctx); err != nil {
		return err
	}

	if p.page != nil {
		_ = p.page.Close()
		p.page = nil
	}

	page, err := p.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	p.page = page

	return p.waitLoaded(ctx)
}

func (p *RodPageProvider) waitLoaded(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, p.config.PageLoadTimeout)
	defer cancel()

	if err := p.page.Context(loadCtx).WaitLoad(); err != nil {
		return fmt.Errorf("page load timed out: %w", err)
	}
	return nil
}

// ExtractRecords reads every listing row on the current page using the
// configured selectors. Rows without a company name are dropped.
func (p *RodPageProvider) ExtractRecords(ctx context.Context) ([]PageRecord, error) {
	if p.page == nil {
		return nil, fmt.Errorf("no page open")
	}

	rows, err := p.page.Context(ctx).Elements(p.config.RowSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to query listing rows: %w", err)
	}

	records := make([]PageRecord, 0, len(rows))
	for _, row := range rows {
		record := PageRecord{
			Company: p.elementText(row, p.config.NameSelector),
			Website: p.elementAttr(row, p.config.WebsiteSelector, "href"),
		}
		if record.Company == "" {
			continue
		}

		rowText, textErr := row.Text()
		if textErr == nil {
			record.Phone = NormalizePhones(ExtractPhones(rowText))
			record.State = ExtractState(rowText)
		}
		records = append(records, record)
	}
	return records, nil
}

// NextPage follows the configured next-page link. It reports false without
// error when the current page is the last one.
func (p *RodPageProvider) NextPage(ctx context.Context) (bool, error) {
	if p.page == nil {
		return false, fmt.Errorf("no page open")
	}

	next, err := p.page.Context(ctx).Element(p.config.NextSelector)
	if err != nil || next == nil {
		return false, nil
	}

	if err := next.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, fmt.Errorf("failed to advance page: %w", err)
	}

	if err := p.waitLoaded(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Close shuts down the page and browser
func (p *RodPageProvider) Close() error {
	if p.page != nil {
		_ = p.page.Close()
		p.page = nil
	}
	if p.browser != nil {
		err := p.browser.Close()
		p.browser = nil
		return err
	}
	return nil
}

func (p *RodPageProvider) elementText(row *rod.Element, selector string) string {
	if selector == "" {
		return ""
	}
	el, err := row.Element(selector)
	if err != nil || el == nil {
		return ""
	}
	text, err := el.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func (p *RodPageProvider) elementAttr(row *rod.Element, selector, attr string) string {
	if selector == "" {
		return ""
	}
	el, err := row.Element(selector)
	if err != nil || el == nil {
		return ""
	}
	val, err := el.Attribute(attr)
	if err != nil || val == nil {
		return ""
	}
	return strings.TrimSpace(*val)
}

var (
	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	digitPattern = regexp.MustCompile(`\D`)
	statePattern = regexp.MustCompile(`\b(A[KLRZ]|C[AOT]|D[CE]|FL|GA|HI|I[ADLN]|K[SY]|LA|M[ADEINOST]|N[CDEHJMVY]|O[HKR]|PA|RI|S[CD]|T[NX]|UT|V[AT]|W[AIVY])\b`)
)

// ExtractPhones pulls every phone-number-shaped token from free text
func ExtractPhones(text string) []string {
	return phonePattern.FindAllString(text, -1)
}

// NormalizePhones formats ten-digit numbers as (xxx) xxx-xxxx and joins
// them with "; ". Numbers that do not reduce to ten digits pass through
// unchanged. Duplicates are dropped.
func NormalizePhones(phones []string) string {
	seen := make(map[string]bool)
	var formatted []string

	for _, phone := range phones {
		digits := digitPattern.ReplaceAllString(phone, "")

		var display string
		if len(digits) == 10 {
			display = fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
		} else {
			display = strings.TrimSpace(phone)
		}

		if display == "" || seen[display] {
			continue
		}
		seen[display] = true
		formatted = append(formatted, display)
	}
	return strings.Join(formatted, "; ")
}

// ExtractState finds the first two-letter US state abbreviation in free text
func ExtractState(text string) string {
	return statePattern.FindString(text)
}

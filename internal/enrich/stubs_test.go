package enrich

import (
	"context"
	"sync/atomic"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/opencorp"
	"github.com/sells-group/enrich-cli/pkg/serp"
)

// stubProvider is a scripted candidate provider that counts lookups.
type stubProvider struct {
	name  string
	cands []model.Candidate
	err   error
	calls atomic.Int32
	panic bool
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Lookup(_ context.Context, _, _ string) ([]model.Candidate, error) {
	s.calls.Add(1)
	if s.panic {
		panic("provider bug")
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.cands, nil
}

// stubSerp returns fixed organic results.
type stubSerp struct {
	results []serp.OrganicResult
	err     error
	calls   atomic.Int32
}

func (s *stubSerp) Search(_ context.Context, _ string, _ ...serp.SearchOption) (*serp.SearchResponse, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &serp.SearchResponse{OrganicResults: s.results}, nil
}

// stubPages serves canned HTML by URL.
type stubPages struct {
	pages map[string]string
	err   error
}

func (s *stubPages) Page(_ context.Context, url string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	html, ok := s.pages[url]
	if !ok {
		return "", nil
	}
	return html, nil
}

// stubEmailProvider is a scripted email-finder tier.
type stubEmailProvider struct {
	name  string
	hits  []model.EmailHit
	err   error
	calls atomic.Int32
}

func (s *stubEmailProvider) Name() string { return s.name }

func (s *stubEmailProvider) Emails(_ context.Context, _ string) ([]model.EmailHit, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.hits, nil
}

// stubRegistry returns a fixed company-search response.
type stubRegistry struct {
	resp  *opencorp.SearchResponse
	err   error
	calls atomic.Int32
}

func (s *stubRegistry) SearchCompanies(_ context.Context, _, _ string) (*opencorp.SearchResponse, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

// Package mpclient is a thin REST client for the Materials Project database.
// Handlers open one Session per request and close it when the request ends;
// the gateway never pools or caches upstream data.
package mpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/crystallum/matgateway/internal/config"
	"github.com/crystallum/matgateway/internal/metrics"
)

// ErrMissingAPIKey is returned from Open when no upstream key is configured.
var ErrMissingAPIKey = errors.New("materials database API key is not configured")

// ErrNoBandStructure is returned when no band structure exists for a
// material. Callers treat it as an empty result, not a failure.
var ErrNoBandStructure = errors.New("no band structure data for material")

// StatusError is a non-2xx reply from the materials database.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("materials database returned %d: %s", e.Status, e.Detail)
}

// SummaryQuery selects summary documents by ID or formula. Fields limits
// the projection the database returns.
type SummaryQuery struct {
	MaterialIDs []string
	Formula     string
	Fields      []string
}

// Session is one scoped connection to the materials database. Each method
// maps to one collection lookup.
type Session interface {
	SummarySearch(ctx context.Context, q SummaryQuery) ([]Document, error)
	Magnetism(ctx context.Context, materialID string) ([]Document, error)
	Elasticity(ctx context.Context, materialID string) ([]Document, error)
	EOS(ctx context.Context, materialID string) ([]Document, error)
	XAS(ctx context.Context, materialID string) ([]Document, error)
	SurfaceProperties(ctx context.Context, materialID string) ([]Document, error)
	Similarity(ctx context.Context, materialID string) ([]Document, error)
	GrainBoundaries(ctx context.Context, materialID string) ([]Document, error)
	Substrates(ctx context.Context, filmID string) ([]Document, error)
	Alloys(ctx context.Context, materialID string) ([]Document, error)
	Bandstructure(ctx context.Context, materialID string) (Document, error)
	Close() error
}

// Client opens scoped sessions against the materials database.
type Client interface {
	Open(ctx context.Context) (Session, error)
	Configured() bool
}

type restClient struct {
	cfg config.UpstreamConfig
}

// New creates a REST client for the configured upstream.
func New(cfg config.UpstreamConfig) Client {
	return &restClient{cfg: cfg}
}

func (c *restClient) Configured() bool {
	return c.cfg.APIKey != ""
}

func (c *restClient) Open(ctx context.Context) (Session, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &restSession{
		cfg:  c.cfg,
		http: &http.Client{Timeout: c.cfg.Timeout},
	}, nil
}

type restSession struct {
	cfg  config.UpstreamConfig
	http *http.Client
}

func (s *restSession) Close() error {
	s.http.CloseIdleConnections()
	return nil
}

func (s *restSession) SummarySearch(ctx context.Context, q SummaryQuery) ([]Document, error) {
	params := url.Values{}
	if len(q.MaterialIDs) > 0 {
		params.Set("material_ids", strings.Join(q.MaterialIDs, ","))
	}
	if q.Formula != "" {
		params.Set("formula", q.Formula)
	}
	if len(q.Fields) > 0 {
		params.Set("_fields", strings.Join(q.Fields, ","))
	}
	return s.search(ctx, "summary", params)
}

func (s *restSession) Magnetism(ctx context.Context, materialID string) ([]Document, error) {
	return s.byMaterial(ctx, "magnetism", materialID)
}

func (s *restSession) Elasticity(ctx context.Context, materialID string) ([]Document, error) {
	return s.byMaterial(ctx, "elasticity", materialID)
}

func (s *restSession) EOS(ctx context.Context, materialID string) ([]Document, error) {
	return s.byMaterial(ctx, "eos", materialID)
}

func (s *restSession) XAS(ctx context.Context, materialID string) ([]Document, error) {
	return s.byMaterial(ctx, "xas", materialID)
}

func (s *restSession) SurfaceProperties(ctx context.Context, materialID string) ([]Document, error) {
	return s.byMaterial(ctx, "surface_properties", materialID)
}

func (s *restSession) Similarity(ctx context.Context, materialID string) ([]Document, error) {
	return s.byMaterial(ctx, "similarity", materialID)
}

func (s *restSession) GrainBoundaries(ctx context.Context, materialID string) ([]Document, error) {
	return s.byMaterial(ctx, "grain_boundaries", materialID)
}

func (s *restSession) Substrates(ctx context.Context, filmID string) ([]Document, error) {
	params := url.Values{}
	params.Set("film_id", filmID)
	return s.search(ctx, "substrates", params)
}

func (s *restSession) Alloys(ctx context.Context, materialID string) ([]Document, error) {
	return s.byMaterial(ctx, "alloys", materialID)
}

// Bandstructure fetches the electronic structure record for a material.
// A material without one yields ErrNoBandStructure.
func (s *restSession) Bandstructure(ctx context.Context, materialID string) (Document, error) {
	docs, err := s.byMaterial(ctx, "electronic_structure", materialID)
	if err != nil {
		return Document{}, err
	}
	if len(docs) == 0 {
		return Document{}, ErrNoBandStructure
	}
	return docs[0], nil
}

func (s *restSession) byMaterial(ctx context.Context, collection, materialID string) ([]Document, error) {
	params := url.Values{}
	params.Set("material_ids", materialID)
	return s.search(ctx, collection, params)
}

func (s *restSession) search(ctx context.Context, collection string, params url.Values) ([]Document, error) {
	docs, err := s.doSearch(ctx, collection, params)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(collection, outcome).Inc()
	return docs, err
}

func (s *restSession) doSearch(ctx context.Context, collection string, params url.Values) ([]Document, error) {
	u := fmt.Sprintf("%s/materials/%s/?%s",
		strings.TrimRight(s.cfg.BaseURL, "/"), collection, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", collection, err)
	}
	req.Header.Set("X-API-KEY", s.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query %s collection: %w", collection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", collection, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := gjson.GetBytes(body, "detail").String()
		if detail == "" {
			detail = strings.TrimSpace(string(body))
		}
		return nil, &StatusError{Status: resp.StatusCode, Detail: detail}
	}

	var docs []Document
	for _, item := range gjson.GetBytes(body, "data").Array() {
		docs = append(docs, Document{raw: item})
	}
	return docs, nil
}

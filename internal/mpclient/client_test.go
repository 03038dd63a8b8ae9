package mpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystallum/matgateway/internal/config"
	"github.com/crystallum/matgateway/internal/mpclient"
)

func upstreamConfig(baseURL string) config.UpstreamConfig {
	return config.UpstreamConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}
}

func openSession(t *testing.T, baseURL string) mpclient.Session {
	t.Helper()
	sess, err := mpclient.New(upstreamConfig(baseURL)).Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })
	return sess
}

func TestOpen_MissingAPIKey(t *testing.T) {
	client := mpclient.New(config.UpstreamConfig{BaseURL: "http://localhost", Timeout: time.Second})

	assert.False(t, client.Configured())
	_, err := client.Open(context.Background())
	assert.ErrorIs(t, err, mpclient.ErrMissingAPIKey)
}

func TestSummarySearch_RequestShape(t *testing.T) {
	var gotPath, gotKey, gotIDs, gotFields string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-KEY")
		gotIDs = r.URL.Query().Get("material_ids")
		gotFields = r.URL.Query().Get("_fields")
		w.Write([]byte(`{"data": [{"material_id": "mp-13"}]}`))
	}))
	defer srv.Close()

	sess := openSession(t, srv.URL)
	docs, err := sess.SummarySearch(context.Background(), mpclient.SummaryQuery{
		MaterialIDs: []string{"mp-13"},
		Fields:      []string{"material_id", "density"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/materials/summary/", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "mp-13", gotIDs)
	assert.Equal(t, "material_id,density", gotFields)
	require.Len(t, docs, 1)
	assert.Equal(t, "mp-13", docs[0].Get("material_id").String())
}

func TestSummarySearch_FormulaParam(t *testing.T) {
	var gotFormula string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFormula = r.URL.Query().Get("formula")
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	sess := openSession(t, srv.URL)
	docs, err := sess.SummarySearch(context.Background(), mpclient.SummaryQuery{Formula: "Fe2O3"})
	require.NoError(t, err)

	assert.Equal(t, "Fe2O3", gotFormula)
	assert.Empty(t, docs)
}

func TestCollectionPaths(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	sess := openSession(t, srv.URL)
	ctx := context.Background()

	calls := []struct {
		call     func() error
		path     string
		idParam  string
	}{
		{func() error { _, err := sess.Magnetism(ctx, "mp-13"); return err }, "/materials/magnetism/", "material_ids"},
		{func() error { _, err := sess.Elasticity(ctx, "mp-13"); return err }, "/materials/elasticity/", "material_ids"},
		{func() error { _, err := sess.EOS(ctx, "mp-13"); return err }, "/materials/eos/", "material_ids"},
		{func() error { _, err := sess.XAS(ctx, "mp-13"); return err }, "/materials/xas/", "material_ids"},
		{func() error { _, err := sess.SurfaceProperties(ctx, "mp-13"); return err }, "/materials/surface_properties/", "material_ids"},
		{func() error { _, err := sess.Similarity(ctx, "mp-13"); return err }, "/materials/similarity/", "material_ids"},
		{func() error { _, err := sess.GrainBoundaries(ctx, "mp-13"); return err }, "/materials/grain_boundaries/", "material_ids"},
		{func() error { _, err := sess.Substrates(ctx, "mp-13"); return err }, "/materials/substrates/", "film_id"},
		{func() error { _, err := sess.Alloys(ctx, "mp-13"); return err }, "/materials/alloys/", "material_ids"},
	}
	for _, tc := range calls {
		require.NoError(t, tc.call(), tc.path)
		assert.Equal(t, tc.path, gotPath)
		assert.Equal(t, []string{"mp-13"}, gotQuery[tc.idParam], tc.path)
	}
}

func TestSearch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail": "API key not valid"}`))
	}))
	defer srv.Close()

	sess := openSession(t, srv.URL)
	_, err := sess.Magnetism(context.Background(), "mp-13")
	require.Error(t, err)

	var statusErr *mpclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Status)
	assert.Contains(t, statusErr.Detail, "API key not valid")
}

func TestSearch_UpstreamErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	sess := openSession(t, srv.URL)
	_, err := sess.Elasticity(context.Background(), "mp-13")

	var statusErr *mpclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "bad gateway", statusErr.Detail)
}

func TestBandstructure_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	sess := openSession(t, srv.URL)
	_, err := sess.Bandstructure(context.Background(), "mp-13")
	assert.ErrorIs(t, err, mpclient.ErrNoBandStructure)
}

func TestBandstructure_FirstDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/materials/electronic_structure/", r.URL.Path)
		w.Write([]byte(`{"data": [{"band_gap": 1.1}, {"band_gap": 2.2}]}`))
	}))
	defer srv.Close()

	sess := openSession(t, srv.URL)
	d, err := sess.Bandstructure(context.Background(), "mp-13")
	require.NoError(t, err)
	assert.Equal(t, 1.1, d.Get("band_gap").Float())
}

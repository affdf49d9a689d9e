package metacache

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/movierec/internal/db"
	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/metadata"
)

func avatarMeta() metadata.Metadata {
	return metadata.Metadata{
		PosterURL:  "https://image.tmdb.org/t/p/w500/avatar.jpg",
		Rating:     rating(7.2),
		Genres:     []string{"Action", "Adventure"},
		IMDbURL:    "https://www.imdb.com/title/tt0499549/",
		TrailerURL: "https://www.youtube.com/watch?v=5PSNL1qE6VY",
	}
}

func TestFetchMetadata_CacheMiss(t *testing.T) {
	inner := &mockProvider{result: avatarMeta()}
	cp, ms, counter := newTestProvider(t, inner)

	var (
		setKey string
		setTTL time.Duration
		setVal []byte
	)
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		setKey, setVal, setTTL = key, value, ttl
		return nil
	}

	got, err := cp.FetchMetadata(context.Background(), 19995)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, avatarMeta()) {
		t.Errorf("unexpected metadata: %+v", got)
	}
	if setKey != "movierec:meta:19995" {
		t.Errorf("set key = %q", setKey)
	}
	if setTTL != time.Hour {
		t.Errorf("set ttl = %v", setTTL)
	}
	if len(setVal) == 0 {
		t.Error("expected encoded value to be cached")
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("miss")); v != 1 {
		t.Errorf("miss counter = %v, want 1", v)
	}
}

func TestFetchMetadata_CacheHit(t *testing.T) {
	inner := &mockProvider{}
	cp, ms, counter := newTestProvider(t, inner)

	cached, err := encodeMetadata(avatarMeta())
	if err != nil {
		t.Fatal(err)
	}
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	got, err := cp.FetchMetadata(context.Background(), 19995)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, avatarMeta()) {
		t.Errorf("unexpected metadata: %+v", got)
	}
	if inner.calls != 0 {
		t.Errorf("inner called %d times on hit", inner.calls)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("hit")); v != 1 {
		t.Errorf("hit counter = %v, want 1", v)
	}
}

func TestFetchMetadata_PlaceholderFieldsSurviveCache(t *testing.T) {
	cached, err := encodeMetadata(metadata.Placeholder())
	if err != nil {
		t.Fatal(err)
	}
	if string(cached) != "{}" {
		t.Errorf("encoded placeholder = %s", cached)
	}

	got, err := decodeMetadata(cached)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rating != nil || got.HasPoster() || got.HasTrailer() || got.IMDbURL != "" {
		t.Errorf("expected placeholder, got %+v", got)
	}
}

func TestFetchMetadata_InnerErrorNotCached(t *testing.T) {
	inner := &mockProvider{err: domain.ErrMetadataFetchFailed}
	cp, ms, _ := newTestProvider(t, inner)

	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		setCalled = true
		return nil
	}

	_, err := cp.FetchMetadata(context.Background(), 1)
	if !errors.Is(err, domain.ErrMetadataFetchFailed) {
		t.Fatalf("expected ErrMetadataFetchFailed, got %v", err)
	}
	if setCalled {
		t.Error("failed lookup must not be cached")
	}
}

func TestFetchMetadata_PartialNotCached(t *testing.T) {
	partial := avatarMeta()
	partial.TrailerURL = ""
	partial.Partial = true
	inner := &mockProvider{result: partial}
	cp, ms, _ := newTestProvider(t, inner)

	stored := map[string][]byte{}
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if v, ok := stored[key]; ok {
			return v, nil
		}
		return nil, db.ErrKeyNotFound
	}
	ms.setFn = func(_ context.Context, key string, value []byte, _ time.Duration) error {
		stored[key] = value
		return nil
	}

	first, err := cp.FetchMetadata(context.Background(), 19995)
	if err != nil {
		t.Fatal(err)
	}
	if first.HasTrailer() {
		t.Error("expected trailer-less first result")
	}
	if len(stored) != 0 {
		t.Fatal("partial metadata must not be cached")
	}

	// Upstream recovers: the next lookup must reach it and get cached.
	inner.result = avatarMeta()
	second, err := cp.FetchMetadata(context.Background(), 19995)
	if err != nil {
		t.Fatal(err)
	}
	if !second.HasTrailer() {
		t.Error("expected trailer after upstream recovered")
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
	if len(stored) != 1 {
		t.Errorf("complete metadata must be cached, stored = %d", len(stored))
	}
}

func TestFetchMetadata_StoreErrorsBypassed(t *testing.T) {
	inner := &mockProvider{result: avatarMeta()}
	cp, ms, _ := newTestProvider(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, &db.Error{Op: db.OpGet, Err: context.DeadlineExceeded}
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return &db.Error{Op: db.OpSet, Err: context.DeadlineExceeded}
	}

	got, err := cp.FetchMetadata(context.Background(), 19995)
	if err != nil {
		t.Fatalf("store errors must not fail the lookup: %v", err)
	}
	if got.PosterURL != avatarMeta().PosterURL {
		t.Errorf("unexpected metadata: %+v", got)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}

func TestFetchMetadata_CorruptEntryFallsThrough(t *testing.T) {
	inner := &mockProvider{result: avatarMeta()}
	cp, ms, _ := newTestProvider(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("{not json"), nil
	}

	if _, err := cp.FetchMetadata(context.Background(), 19995); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}

func TestForget(t *testing.T) {
	cp, ms, _ := newTestProvider(t, &mockProvider{})

	var deleted string
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}

	if err := cp.Forget(context.Background(), 285); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "movierec:meta:285" {
		t.Errorf("deleted key = %q", deleted)
	}
}

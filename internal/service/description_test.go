package service

import (
	"context"
	"testing"
	"time"

	"opportunity-search-api/internal/common"
	"opportunity-search-api/internal/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDescriptionPassesThroughRawHTML(t *testing.T) {
	keys := newFakeApiKeyRepo()
	require.NoError(t, keys.UpsertKey(context.Background(), "org-1", common.SourceSamGov, "key-a"))

	samGov := &fakeProvider{description: `<p>Sources sought for <b>cloud migration</b> services.</p>`}
	svc := NewDescriptionService(keys, provider.NewRegistry(samGov, &fakeProvider{}), time.Second)

	html, err := svc.FetchDescription(context.Background(), "org-1", common.SourceSamGov, "https://api.sam.gov/noticedesc?noticeid=N1")
	require.NoError(t, err)

	// passthrough, unsanitized
	assert.Contains(t, html, "<b>cloud migration</b>")
}

func TestFetchDescriptionNotFound(t *testing.T) {
	keys := newFakeApiKeyRepo()
	require.NoError(t, keys.UpsertKey(context.Background(), "org-1", common.SourceSamGov, "key-a"))

	samGov := &fakeProvider{descriptionErr: provider.ErrNotFound}
	svc := NewDescriptionService(keys, provider.NewRegistry(samGov, &fakeProvider{}), time.Second)

	_, err := svc.FetchDescription(context.Background(), "org-1", common.SourceSamGov, "https://api.sam.gov/noticedesc?noticeid=GONE")
	assert.ErrorIs(t, err, ErrDescriptionNotFound)
}

func TestFetchDescriptionRequiresKey(t *testing.T) {
	svc := NewDescriptionService(newFakeApiKeyRepo(), provider.NewRegistry(&fakeProvider{}, &fakeProvider{}), time.Second)

	_, err := svc.FetchDescription(context.Background(), "org-1", common.SourceSamGov, "ref")
	assert.ErrorIs(t, err, ErrApiKeyNotConfigured)
}

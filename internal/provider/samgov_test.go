package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"opportunity-search-api/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamGovSearchTranslatesCriteria(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalRecords":1,"opportunitiesData":[{
			"noticeId":"abc123",
			"title":"Cloud Migration Services",
			"solicitationNumber":"SOL-42",
			"fullParentPathName":"DEPT OF DEFENSE.DLA",
			"naicsCode":"541512",
			"typeOfSetAside":"SBA",
			"typeOfSetAsideDescription":"Total Small Business Set-Aside",
			"postedDate":"2025-03-01",
			"responseDeadLine":"2025-04-01T17:00:00-05:00",
			"uiLink":"https://sam.gov/opp/abc123/view",
			"description":"https://api.sam.gov/prod/opportunities/v1/noticedesc?noticeid=abc123",
			"resourceLinks":["https://sam.gov/api/prod/opps/v3/opportunities/resources/files/f1/download"]
		}]}`))
	}))
	defer srv.Close()

	adapter := NewSamGovAdapter(srv.URL, time.Second)
	criteria := &entity.SearchCriteria{
		Keywords:     "cloud",
		Naics:        []string{"541511", "541512"},
		SetAsideCode: "SBA",
		Ptype:        []string{"o", "k"},
		PostedFrom:   "2025-03-01",
		PostedTo:     "2025-03-31",
		ClosingFrom:  "2025-04-01",
		ClosingTo:    "2025-05-01",
		Limit:        10,
		Offset:       20,
	}

	result, err := adapter.Search(context.Background(), criteria, "test-key")
	require.NoError(t, err)

	assert.Equal(t, "test-key", got.Get("api_key"))
	assert.Equal(t, "cloud", got.Get("title"))
	assert.Equal(t, "541511,541512", got.Get("ncode"))
	assert.Equal(t, "SBA", got.Get("typeOfSetAside"))
	assert.Equal(t, "o,k", got.Get("ptype"))
	assert.Equal(t, "10", got.Get("limit"))
	assert.Equal(t, "20", got.Get("offset"))

	// internal ISO dates cross the boundary as MM/DD/YYYY
	assert.Equal(t, "03/01/2025", got.Get("postedFrom"))
	assert.Equal(t, "03/31/2025", got.Get("postedTo"))
	assert.Equal(t, "04/01/2025", got.Get("rdlfrom"))
	assert.Equal(t, "05/01/2025", got.Get("rdlto"))

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "SAM_GOV:abc123", item.Id)
	assert.Equal(t, "SAM_GOV", item.Source)
	assert.Equal(t, "Cloud Migration Services", item.Title)
	assert.Equal(t, "DEPT OF DEFENSE.DLA", item.OrganizationName)
	assert.Equal(t, "Total Small Business Set-Aside", item.SetAside)
	assert.Equal(t, 1, item.AttachmentsCount)
}

func TestSamGovSearchRejectsMalformedDateBeforeCalling(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	adapter := NewSamGovAdapter(srv.URL, time.Second)
	_, err := adapter.Search(context.Background(), &entity.SearchCriteria{PostedFrom: "03/01/2025", Limit: 10}, "k")

	assert.Error(t, err)
	assert.False(t, called)
}

func TestSamGovSearchFlattensErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("<html>\n  <body>\n    Rate limit\n    exceeded\n  </body>\n</html>"))
	}))
	defer srv.Close()

	adapter := NewSamGovAdapter(srv.URL, time.Second)
	_, err := adapter.Search(context.Background(), &entity.SearchCriteria{Limit: 10}, "k")

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "SAM_GOV", provErr.Source)
	assert.Contains(t, provErr.Error(), "429")
	assert.NotContains(t, provErr.Error(), "\n")
}

func TestSamGovGetDescriptionJSONAndRawFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.URL.Query().Get("api_key"))
		switch r.URL.Path {
		case "/json":
			_, _ = w.Write([]byte(`{"description":"<p>From JSON</p>"}`))
		default:
			_, _ = w.Write([]byte(`<p>Bare HTML</p>`))
		}
	}))
	defer srv.Close()

	adapter := NewSamGovAdapter(srv.URL, time.Second)

	desc, err := adapter.GetDescription(context.Background(), srv.URL+"/json?noticeid=n1", "k")
	require.NoError(t, err)
	assert.Equal(t, "<p>From JSON</p>", desc)

	desc, err = adapter.GetDescription(context.Background(), srv.URL+"/raw?noticeid=n1", "k")
	require.NoError(t, err)
	assert.Equal(t, "<p>Bare HTML</p>", desc)
}

func TestSamGovGetDescriptionNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	adapter := NewSamGovAdapter(srv.URL, time.Second)
	_, err := adapter.GetDescription(context.Background(), srv.URL+"/gone", "k")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSamGovListAttachments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "abc123", q.Get("noticeid"))
		assert.Equal(t, "03/01/2025", q.Get("postedFrom"))
		assert.Equal(t, "03/31/2025", q.Get("postedTo"))

		_, _ = w.Write([]byte(`{"totalRecords":1,"opportunitiesData":[{
			"noticeId":"abc123",
			"resourceLinks":[
				"https://sam.gov/api/prod/opps/v3/opportunities/resources/files/f1/download?fileName=sow.pdf",
				"https://sam.gov/api/prod/opps/v3/opportunities/resources/files/f2/download"
			]
		}]}`))
	}))
	defer srv.Close()

	adapter := NewSamGovAdapter(srv.URL, time.Second)
	attachments, err := adapter.ListAttachments(context.Background(), &entity.AttachmentQuery{
		OpportunityId: "abc123",
		PostedFrom:    "2025-03-01",
		PostedTo:      "2025-03-31",
	}, "k")
	require.NoError(t, err)

	require.Len(t, attachments, 2)
	assert.Equal(t, "f1", attachments[0].AttachmentId)
	assert.Equal(t, "sow.pdf", attachments[0].Filename)
	assert.Equal(t, "f2", attachments[1].AttachmentId)
	assert.Equal(t, "f2", attachments[1].Filename)
}

func TestSamGovListAttachmentsNoticeMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalRecords":0,"opportunitiesData":[]}`))
	}))
	defer srv.Close()

	adapter := NewSamGovAdapter(srv.URL, time.Second)
	_, err := adapter.ListAttachments(context.Background(), &entity.AttachmentQuery{OpportunityId: "missing"}, "k")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResourceLinkHelpers(t *testing.T) {
	link := "https://sam.gov/api/prod/opps/v3/opportunities/resources/files/9a8b7c/download"

	assert.Equal(t, "9a8b7c", resourceLinkId(link))
	assert.Equal(t, "9a8b7c", resourceLinkFilename(link))
	assert.Equal(t, "combined.pdf", resourceLinkFilename(link+"?fileName=combined.pdf"))
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"opportunity-search-api/internal/common"
	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/pager"
)

const (
	dibbsDefaultBaseURL    = "https://www.dibbs.bsm.dla.mil/api"
	dibbsAttachmentPageSize = 50
	dibbsMaxAttachmentPages = 20
)

// DibbsAdapter talks to the DLA DIBBS solicitation API. DIBBS uses its own
// parameter vocabulary (keyword/fsc/postedAfter/postedBefore) and, unlike
// SAM.gov, reports no grand total on search responses.
type DibbsAdapter struct {
	baseURL string
	fetcher *httpFetcher
}

func NewDibbsAdapter(baseURL string, timeout time.Duration) *DibbsAdapter {
	if baseURL == "" {
		baseURL = dibbsDefaultBaseURL
	}

	return &DibbsAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: newHTTPFetcher(common.SourceDibbs, timeout, 5),
	}
}

type dibbsSearchResponse struct {
	Solicitations []dibbsSolicitation `json:"solicitations"`
}

type dibbsSolicitation struct {
	SolicitationNumber string `json:"solicitationNumber"`
	Nomenclature       string `json:"nomenclature"`
	Fsc                string `json:"fsc"`
	Nsn                string `json:"nsn"`
	SetAside           string `json:"setAside"`
	IssuedDate         string `json:"issuedDate"`   // MM/DD/YYYY
	ReturnByDate       string `json:"returnByDate"` // MM/DD/YYYY
	LinkUrl            string `json:"linkUrl"`
	AttachmentCount    int    `json:"attachmentCount"`
}

type dibbsAttachmentPage struct {
	Attachments []dibbsAttachment `json:"attachments"`
	Total       int               `json:"total"`
}

type dibbsAttachment struct {
	FileId   string `json:"fileId"`
	FileName string `json:"fileName"`
	Url      string `json:"url"`
}

// Search runs one page against DIBBS. DIBBS returns only the page itself, so
// the reported total is the conservative lower bound offset + len(items):
// "at least this many exist", never a fabricated precise count.
func (a *DibbsAdapter) Search(ctx context.Context, criteria *entity.SearchCriteria, apiKey string) (*SearchResult, error) {
	q, err := a.buildQuery(criteria, apiKey)
	if err != nil {
		return nil, err
	}

	body, _, err := a.fetcher.get(ctx, a.baseURL+"/solicitations?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp dibbsSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProviderError{Source: common.SourceDibbs, Message: fmt.Sprintf("DIBBS returned unparseable payload: %v", err)}
	}

	items := make([]entity.SearchOpportunitySlim, 0, len(resp.Solicitations))
	for _, s := range resp.Solicitations {
		item, err := a.mapSolicitation(s)
		if err != nil {
			return nil, &ProviderError{Source: common.SourceDibbs, Message: fmt.Sprintf("DIBBS returned malformed record %s: %v", s.SolicitationNumber, err)}
		}
		items = append(items, item)
	}

	return &SearchResult{Items: items, Total: criteria.Offset + len(items)}, nil
}

func (a *DibbsAdapter) buildQuery(criteria *entity.SearchCriteria, apiKey string) (url.Values, error) {
	q := url.Values{}
	q.Set("apiKey", apiKey)
	q.Set("pageSize", strconv.Itoa(criteria.Limit))
	q.Set("startRow", strconv.Itoa(criteria.Offset))

	if criteria.Keywords != "" {
		q.Set("keyword", criteria.Keywords)
	}
	if criteria.SetAsideCode != "" {
		q.Set("setAside", criteria.SetAsideCode)
	}
	// DIBBS has no NAICS filter; the closest native facet is the federal
	// supply class, fed from the classification side of the criteria.
	if len(criteria.Naics) > 0 {
		q.Set("fsc", strings.Join(criteria.Naics, ","))
	}

	for _, d := range []struct {
		param string
		value string
	}{
		{"postedAfter", criteria.PostedFrom},
		{"postedBefore", criteria.PostedTo},
		{"returnByAfter", criteria.ClosingFrom},
		{"returnByBefore", criteria.ClosingTo},
	} {
		native, err := entity.ToProviderDate(d.value)
		if err != nil {
			return nil, err
		}
		if native != "" {
			q.Set(d.param, native)
		}
	}

	return q, nil
}

func (a *DibbsAdapter) mapSolicitation(s dibbsSolicitation) (entity.SearchOpportunitySlim, error) {
	posted, err := entity.ToInternalDate(s.IssuedDate)
	if err != nil {
		return entity.SearchOpportunitySlim{}, err
	}
	closing, err := entity.ToInternalDate(s.ReturnByDate)
	if err != nil {
		return entity.SearchOpportunitySlim{}, err
	}

	return entity.SearchOpportunitySlim{
		Id:                 common.SourceDibbs + ":" + s.SolicitationNumber,
		Source:             common.SourceDibbs,
		Title:              s.Nomenclature,
		OrganizationName:   "Defense Logistics Agency",
		SolicitationNumber: s.SolicitationNumber,
		ClassificationCode: s.Fsc,
		SetAsideCode:       s.SetAside,
		PostedDate:         posted,
		ResponseDeadLine:   closing,
		Url:                s.LinkUrl,
		DescriptionUrl:     s.SolicitationNumber,
		AttachmentsCount:   s.AttachmentCount,
	}, nil
}

// GetDescription fetches one solicitation's long-form text by solicitation
// number. The returned string is unsanitized HTML.
func (a *DibbsAdapter) GetDescription(ctx context.Context, descriptionRef string, apiKey string) (string, error) {
	q := url.Values{}
	q.Set("apiKey", apiKey)

	body, _, err := a.fetcher.get(ctx, a.baseURL+"/solicitations/"+url.PathEscape(descriptionRef)+"/description?"+q.Encode())
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// ListAttachments drains the paged attachment listing for one solicitation.
func (a *DibbsAdapter) ListAttachments(ctx context.Context, query *entity.AttachmentQuery, apiKey string) ([]entity.Attachment, error) {
	fetch := func(ctx context.Context, offset int) ([]entity.Attachment, int, error) {
		q := url.Values{}
		q.Set("apiKey", apiKey)
		q.Set("pageSize", strconv.Itoa(dibbsAttachmentPageSize))
		q.Set("startRow", strconv.Itoa(offset))

		u := a.baseURL + "/solicitations/" + url.PathEscape(query.OpportunityId) + "/attachments?" + q.Encode()
		body, _, err := a.fetcher.get(ctx, u)
		if err != nil {
			return nil, pager.Done, err
		}

		var page dibbsAttachmentPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, pager.Done, &ProviderError{Source: common.SourceDibbs, Message: fmt.Sprintf("DIBBS returned unparseable attachment page: %v", err)}
		}

		items := make([]entity.Attachment, 0, len(page.Attachments))
		for _, f := range page.Attachments {
			items = append(items, entity.Attachment{
				AttachmentId: f.FileId,
				Filename:     f.FileName,
				DownloadUrl:  f.Url,
			})
		}

		next := offset + len(items)
		if len(items) < dibbsAttachmentPageSize || next >= page.Total {
			next = pager.Done
		}

		return items, next, nil
	}

	return pager.Drain(ctx, fetch, dibbsMaxAttachmentPages)
}

func (a *DibbsAdapter) DownloadAttachment(ctx context.Context, att *entity.Attachment, apiKey string) ([]byte, string, error) {
	ref, err := url.Parse(att.DownloadUrl)
	if err != nil {
		return nil, "", fmt.Errorf("parse download url: %w", err)
	}

	q := ref.Query()
	q.Set("apiKey", apiKey)
	ref.RawQuery = q.Encode()

	return a.fetcher.get(ctx, ref.String())
}

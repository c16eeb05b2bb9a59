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
)

const samGovDefaultBaseURL = "https://api.sam.gov/prod/opportunities/v2"

// SamGovAdapter talks to the SAM.gov opportunities API. SAM.gov expects
// MM/DD/YYYY date strings and comma-joined list parameters; that translation
// stays inside this adapter.
type SamGovAdapter struct {
	baseURL string
	fetcher *httpFetcher
}

func NewSamGovAdapter(baseURL string, timeout time.Duration) *SamGovAdapter {
	if baseURL == "" {
		baseURL = samGovDefaultBaseURL
	}

	return &SamGovAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: newHTTPFetcher(common.SourceSamGov, timeout, 5),
	}
}

// samGovResponse mirrors the top-level SAM.gov search payload.
type samGovResponse struct {
	TotalRecords      int                 `json:"totalRecords"`
	OpportunitiesData []samGovOpportunity `json:"opportunitiesData"`
}

type samGovOpportunity struct {
	NoticeId                  string   `json:"noticeId"`
	Title                     string   `json:"title"`
	SolicitationNumber        string   `json:"solicitationNumber"`
	FullParentPathName        string   `json:"fullParentPathName"`
	NaicsCode                 string   `json:"naicsCode"`
	ClassificationCode        string   `json:"classificationCode"`
	TypeOfSetAside            string   `json:"typeOfSetAside"`
	TypeOfSetAsideDescription string   `json:"typeOfSetAsideDescription"`
	PostedDate                string   `json:"postedDate"`
	ResponseDeadLine          string   `json:"responseDeadLine"`
	UiLink                    string   `json:"uiLink"`
	Description               string   `json:"description"` // URL of the long-form description
	ResourceLinks             []string `json:"resourceLinks"`
}

type samGovDescription struct {
	Description string `json:"description"`
}

func (a *SamGovAdapter) Search(ctx context.Context, criteria *entity.SearchCriteria, apiKey string) (*SearchResult, error) {
	q, err := a.buildQuery(criteria, apiKey)
	if err != nil {
		return nil, err
	}

	body, _, err := a.fetcher.get(ctx, a.baseURL+"/search?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp samGovResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProviderError{Source: common.SourceSamGov, Message: fmt.Sprintf("SAM_GOV returned unparseable payload: %v", err)}
	}

	items := make([]entity.SearchOpportunitySlim, 0, len(resp.OpportunitiesData))
	for _, o := range resp.OpportunitiesData {
		items = append(items, a.mapOpportunity(o))
	}

	return &SearchResult{Items: items, Total: resp.TotalRecords}, nil
}

func (a *SamGovAdapter) buildQuery(criteria *entity.SearchCriteria, apiKey string) (url.Values, error) {
	q := url.Values{}
	q.Set("api_key", apiKey)
	q.Set("limit", strconv.Itoa(criteria.Limit))
	q.Set("offset", strconv.Itoa(criteria.Offset))

	if criteria.Keywords != "" {
		q.Set("title", criteria.Keywords)
	}
	if len(criteria.Naics) > 0 {
		q.Set("ncode", strings.Join(criteria.Naics, ","))
	}
	if criteria.SetAsideCode != "" {
		q.Set("typeOfSetAside", criteria.SetAsideCode)
	}
	if criteria.OrganizationName != "" {
		q.Set("organizationName", criteria.OrganizationName)
	}
	if len(criteria.Ptype) > 0 {
		q.Set("ptype", strings.Join(criteria.Ptype, ","))
	}

	for _, d := range []struct {
		param string
		value string
	}{
		{"postedFrom", criteria.PostedFrom},
		{"postedTo", criteria.PostedTo},
		{"rdlfrom", criteria.ClosingFrom},
		{"rdlto", criteria.ClosingTo},
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

func (a *SamGovAdapter) mapOpportunity(o samGovOpportunity) entity.SearchOpportunitySlim {
	return entity.SearchOpportunitySlim{
		Id:                 common.SourceSamGov + ":" + o.NoticeId,
		Source:             common.SourceSamGov,
		Title:              o.Title,
		OrganizationName:   o.FullParentPathName,
		SolicitationNumber: o.SolicitationNumber,
		NoticeId:           o.NoticeId,
		NaicsCode:          o.NaicsCode,
		ClassificationCode: o.ClassificationCode,
		SetAside:           o.TypeOfSetAsideDescription,
		SetAsideCode:       o.TypeOfSetAside,
		PostedDate:         o.PostedDate,
		ResponseDeadLine:   o.ResponseDeadLine,
		Url:                o.UiLink,
		DescriptionUrl:     o.Description,
		AttachmentsCount:   len(o.ResourceLinks),
	}
}

// GetDescription fetches the long-form notice description. descriptionRef is
// the URL SAM.gov put in the search result's description field. The returned
// string is unsanitized HTML.
func (a *SamGovAdapter) GetDescription(ctx context.Context, descriptionRef string, apiKey string) (string, error) {
	ref, err := url.Parse(descriptionRef)
	if err != nil {
		return "", fmt.Errorf("parse description ref: %w", err)
	}

	q := ref.Query()
	q.Set("api_key", apiKey)
	ref.RawQuery = q.Encode()

	body, _, err := a.fetcher.get(ctx, ref.String())
	if err != nil {
		return "", err
	}

	var desc samGovDescription
	if err := json.Unmarshal(body, &desc); err != nil {
		// Some notice descriptions come back as bare HTML rather than JSON.
		return string(body), nil
	}

	return desc.Description, nil
}

// ListAttachments locates the notice via a noticeid-scoped search inside the
// given posted range and derives attachments from its resource links. SAM.gov
// has no standalone listing endpoint for a single notice.
func (a *SamGovAdapter) ListAttachments(ctx context.Context, query *entity.AttachmentQuery, apiKey string) ([]entity.Attachment, error) {
	q := url.Values{}
	q.Set("api_key", apiKey)
	q.Set("noticeid", query.OpportunityId)
	q.Set("limit", "1")
	q.Set("offset", "0")

	for _, d := range []struct {
		param string
		value string
	}{
		{"postedFrom", query.PostedFrom},
		{"postedTo", query.PostedTo},
	} {
		native, err := entity.ToProviderDate(d.value)
		if err != nil {
			return nil, err
		}
		if native != "" {
			q.Set(d.param, native)
		}
	}

	body, _, err := a.fetcher.get(ctx, a.baseURL+"/search?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp samGovResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProviderError{Source: common.SourceSamGov, Message: fmt.Sprintf("SAM_GOV returned unparseable payload: %v", err)}
	}
	if len(resp.OpportunitiesData) == 0 {
		return nil, ErrNotFound
	}

	links := resp.OpportunitiesData[0].ResourceLinks
	attachments := make([]entity.Attachment, 0, len(links))
	for _, link := range links {
		attachments = append(attachments, entity.Attachment{
			AttachmentId: resourceLinkId(link),
			Filename:     resourceLinkFilename(link),
			DownloadUrl:  link,
		})
	}

	return attachments, nil
}

func (a *SamGovAdapter) DownloadAttachment(ctx context.Context, att *entity.Attachment, apiKey string) ([]byte, string, error) {
	ref, err := url.Parse(att.DownloadUrl)
	if err != nil {
		return nil, "", fmt.Errorf("parse download url: %w", err)
	}

	q := ref.Query()
	q.Set("api_key", apiKey)
	ref.RawQuery = q.Encode()

	return a.fetcher.get(ctx, ref.String())
}

// resourceLinkId extracts the stable file identifier from a SAM.gov resource
// link of the form …/files/{id}/download.
func resourceLinkId(link string) string {
	if i := strings.IndexByte(link, '?'); i >= 0 {
		link = link[:i]
	}

	trimmed := strings.TrimSuffix(link, "/download")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}

	return trimmed
}

func resourceLinkFilename(link string) string {
	if u, err := url.Parse(link); err == nil {
		if name := u.Query().Get("fileName"); name != "" {
			return name
		}
	}

	return resourceLinkId(link)
}

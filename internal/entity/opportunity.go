package entity

// SearchOpportunitySlim is the normalized shape one opportunity takes
// regardless of which source produced it. Id is source-qualified so native
// identifiers from different sources can never collide.
type SearchOpportunitySlim struct {
	Id                 string `json:"id"`
	Source             string `json:"source"`
	Title              string `json:"title"`
	OrganizationName   string `json:"organizationName"`
	SolicitationNumber string `json:"solicitationNumber,omitempty"`
	NoticeId           string `json:"noticeId,omitempty"`
	NaicsCode          string `json:"naicsCode,omitempty"`
	ClassificationCode string `json:"classificationCode,omitempty"`
	SetAside           string `json:"setAside,omitempty"`
	SetAsideCode       string `json:"setAsideCode,omitempty"`
	ContractVehicle    string `json:"contractVehicle,omitempty"`
	TechnologyArea     string `json:"technologyArea,omitempty"`
	PostedDate         string `json:"postedDate,omitempty"`
	ResponseDeadLine   string `json:"responseDeadLine,omitempty"`
	Url                string `json:"url,omitempty"`
	DescriptionUrl     string `json:"descriptionUrl,omitempty"`
	AttachmentsCount   int    `json:"attachmentsCount"`
}

// SearchResultPage is the aggregator output. Opportunities are concatenated
// per source in fixed priority order, never interleaved. The per-source error
// strings are independently optional and non-fatal.
type SearchResultPage struct {
	Opportunities []SearchOpportunitySlim `json:"opportunities"`
	Total         int                     `json:"total"`
	TotalSamGov   int                     `json:"totalSamGov"`
	TotalDibbs    int                     `json:"totalDibbs"`
	SamGovError   string                  `json:"samGovError,omitempty"`
	DibbsError    string                  `json:"dibbsError,omitempty"`
	Limit         int                     `json:"limit"`
	Offset        int                     `json:"offset"`
}

// Attachment points at one downloadable file attached to an opportunity at
// its origin source.
type Attachment struct {
	AttachmentId string `json:"attachmentId"`
	Filename     string `json:"filename"`
	DownloadUrl  string `json:"downloadUrl"`
}

// AttachmentQuery identifies the opportunity whose attachments should be
// listed. The posted range narrows the lookup for sources whose listing API
// is a date-bounded search.
type AttachmentQuery struct {
	OpportunityId string
	PostedFrom    string // internal ISO date
	PostedTo      string // internal ISO date
}

package service

import (
	"context"
	"sync"
	"time"

	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/provider"
	"opportunity-search-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type fakeApiKeyRepo struct {
	mu   sync.Mutex
	keys map[string]entity.SourceKey // orgId + "/" + source
}

func newFakeApiKeyRepo() *fakeApiKeyRepo {
	return &fakeApiKeyRepo{keys: make(map[string]entity.SourceKey)}
}

func (r *fakeApiKeyRepo) GetKey(ctx context.Context, orgId string, source string) (*entity.SourceKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.keys[orgId+"/"+source]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &key, nil
}

func (r *fakeApiKeyRepo) UpsertKey(ctx context.Context, orgId string, source string, apiKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keys[orgId+"/"+source] = entity.SourceKey{
		OrgId:     orgId,
		Source:    source,
		ApiKey:    apiKey,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	return nil
}

type fakeProvider struct {
	mu          sync.Mutex
	searchCalls int

	searchResult *provider.SearchResult
	searchErr    error
	searchDelay  time.Duration

	description    string
	descriptionErr error

	attachments    []entity.Attachment
	attachmentsErr error

	downloads   map[string][]byte
	downloadErr map[string]error
}

func (p *fakeProvider) Search(ctx context.Context, criteria *entity.SearchCriteria, apiKey string) (*provider.SearchResult, error) {
	p.mu.Lock()
	p.searchCalls++
	p.mu.Unlock()

	if p.searchDelay > 0 {
		select {
		case <-time.After(p.searchDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if p.searchErr != nil {
		return nil, p.searchErr
	}

	return p.searchResult, nil
}

func (p *fakeProvider) GetDescription(ctx context.Context, descriptionRef string, apiKey string) (string, error) {
	if p.descriptionErr != nil {
		return "", p.descriptionErr
	}

	return p.description, nil
}

func (p *fakeProvider) ListAttachments(ctx context.Context, query *entity.AttachmentQuery, apiKey string) ([]entity.Attachment, error) {
	if p.attachmentsErr != nil {
		return nil, p.attachmentsErr
	}

	return p.attachments, nil
}

func (p *fakeProvider) DownloadAttachment(ctx context.Context, att *entity.Attachment, apiKey string) ([]byte, string, error) {
	if err, ok := p.downloadErr[att.AttachmentId]; ok {
		return nil, "", err
	}

	return p.downloads[att.AttachmentId], "application/pdf", nil
}

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.searchCalls
}

type docKey struct {
	orgId, projectId, source, opportunityId, attachmentId string
}

type fakeDocumentRepo struct {
	mu   sync.Mutex
	docs map[docKey]entity.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[docKey]entity.Document)}
}

func (r *fakeDocumentRepo) CreateDocument(ctx context.Context, input *entity.CreateDocumentInput) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := docKey{input.OrgId, input.ProjectId, input.Source, input.OpportunityId, input.AttachmentId}
	if _, ok := r.docs[key]; ok {
		return uuid.Nil, repo_errors.ErrAlreadyExists
	}

	id := uuid.New()
	r.docs[key] = entity.Document{
		Id:            id,
		OrgId:         input.OrgId,
		ProjectId:     input.ProjectId,
		Source:        input.Source,
		OpportunityId: input.OpportunityId,
		AttachmentId:  input.AttachmentId,
		Filename:      input.Filename,
		ObjectKey:     input.ObjectKey,
		ContentType:   input.ContentType,
	}

	return id, nil
}

func (r *fakeDocumentRepo) ListDocumentsByOpportunity(ctx context.Context, orgId string, projectId string, source string, opportunityId string) ([]entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.Document, 0)
	for key, doc := range r.docs {
		if key.orgId == orgId && key.projectId == projectId && key.source == source && key.opportunityId == opportunityId {
			out = append(out, doc)
		}
	}

	return out, nil
}

func (r *fakeDocumentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.docs)
}

type fakeSavedSearchRepo struct {
	mu       sync.Mutex
	searches map[uuid.UUID]entity.SavedSearch
}

func newFakeSavedSearchRepo() *fakeSavedSearchRepo {
	return &fakeSavedSearchRepo{searches: make(map[uuid.UUID]entity.SavedSearch)}
}

func (r *fakeSavedSearchRepo) CreateSavedSearch(ctx context.Context, input *entity.CreateSavedSearchInput) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	now := time.Now().UTC().Format(time.RFC3339)
	r.searches[id] = entity.SavedSearch{
		Id:           id,
		OrgId:        input.OrgId,
		Source:       input.Source,
		Name:         input.Name,
		ProjectId:    input.ProjectId,
		Criteria:     input.Criteria,
		Frequency:    input.Frequency,
		AutoImport:   input.AutoImport,
		NotifyEmails: input.NotifyEmails,
		IsEnabled:    input.IsEnabled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return id, nil
}

func (r *fakeSavedSearchRepo) GetSavedSearchById(ctx context.Context, id string) (*entity.SavedSearch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	s, ok := r.searches[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &s, nil
}

func (r *fakeSavedSearchRepo) ListSavedSearches(ctx context.Context, orgId string, source string, pg *entity.PaginationInput) ([]entity.SavedSearch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.SavedSearch, 0)
	for _, s := range r.searches {
		if s.OrgId == orgId && (source == "" || s.Source == source) {
			out = append(out, s)
		}
	}

	return out, nil
}

func (r *fakeSavedSearchRepo) ListEnabledSavedSearches(ctx context.Context, frequency string, pg *entity.PaginationInput) ([]entity.SavedSearch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.SavedSearch, 0)
	for _, s := range r.searches {
		if s.IsEnabled && s.Frequency == frequency {
			out = append(out, s)
		}
	}

	return out, nil
}

func (r *fakeSavedSearchRepo) UpdateSavedSearch(ctx context.Context, id string, s *entity.SavedSearch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	stored, ok := r.searches[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}

	stored.Name = s.Name
	stored.ProjectId = s.ProjectId
	stored.Criteria = s.Criteria
	stored.Frequency = s.Frequency
	stored.AutoImport = s.AutoImport
	stored.NotifyEmails = s.NotifyEmails
	stored.IsEnabled = s.IsEnabled
	r.searches[uuidForm] = stored

	return nil
}

func (r *fakeSavedSearchRepo) DeleteSavedSearch(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	if _, ok := r.searches[uuidForm]; !ok {
		return repo_errors.ErrNotFound
	}
	delete(r.searches, uuidForm)

	return nil
}

type fakePipeline struct {
	mu       sync.Mutex
	enqueued []entity.Document
}

func (p *fakePipeline) Enqueue(ctx context.Context, doc *entity.Document) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.enqueued = append(p.enqueued, *doc)

	return nil
}

func (p *fakePipeline) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.enqueued)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/provider"
	"opportunity-search-api/internal/repo"
	"opportunity-search-api/internal/repo/repo_errors"
	"opportunity-search-api/pkg/objectstore"
)

type ImportService struct {
	apiKeyRepo   repo.ApiKey
	documentRepo repo.Document
	providers    *provider.Registry
	store        objectstore.Store
	pipeline     PipelineTrigger
	timeout      time.Duration
}

func NewImportService(apiKeyRepo repo.ApiKey, documentRepo repo.Document, providers *provider.Registry,
	store objectstore.Store, pipeline PipelineTrigger, timeout time.Duration) *ImportService {
	return &ImportService{
		apiKeyRepo:   apiKeyRepo,
		documentRepo: documentRepo,
		providers:    providers,
		store:        store,
		pipeline:     pipeline,
		timeout:      timeout,
	}
}

// Import stages every attachment of one opportunity that has not been staged
// before and returns the count of newly created documents. Re-importing the
// same opportunity is safe: already-imported attachments are skipped without
// incrementing the count. A single attachment failing to download or stage
// reduces the count but never aborts the rest; failing to list attachments at
// all fails the whole call.
func (s *ImportService) Import(ctx context.Context, input *entity.ImportInput) (*entity.ImportResultOutputModel, error) {
	prov, ok := s.providers.Provider(input.Source)
	if !ok {
		return nil, ErrUnknownSource
	}

	key, err := s.apiKeyRepo.GetKey(ctx, input.OrgId, input.Source)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrApiKeyNotConfigured
		}

		return nil, err
	}

	query := &entity.AttachmentQuery{
		OpportunityId: input.OpportunityId,
		PostedFrom:    input.PostedFrom,
		PostedTo:      input.PostedTo,
	}

	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	attachments, err := prov.ListAttachments(listCtx, query, key.ApiKey)
	cancel()
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			return nil, ErrOpportunityNotFound
		}

		return nil, fmt.Errorf("list attachments: %w", err)
	}

	// Zero attachments is a valid outcome, not an error.
	if len(attachments) == 0 {
		return &entity.ImportResultOutputModel{Imported: 0}, nil
	}

	existing, err := s.documentRepo.ListDocumentsByOpportunity(ctx, input.OrgId, input.ProjectId, input.Source, input.OpportunityId)
	if err != nil {
		return nil, err
	}
	imported := make(map[string]bool, len(existing))
	for _, d := range existing {
		imported[d.AttachmentId] = true
	}

	count := 0
	for _, att := range attachments {
		if imported[att.AttachmentId] {
			// duplicate skip, deliberately not counted and not a failure
			continue
		}

		if s.importOne(ctx, prov, key.ApiKey, input, &att) {
			count++
		}
	}

	return &entity.ImportResultOutputModel{Imported: count}, nil
}

func (s *ImportService) importOne(ctx context.Context, prov provider.OpportunityProvider, apiKey string,
	input *entity.ImportInput, att *entity.Attachment) bool {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, contentType, err := prov.DownloadAttachment(callCtx, att, apiKey)
	if err != nil {
		log.Printf("[import] download %s/%s failed: %v, continuing", input.OpportunityId, att.AttachmentId, err)
		return false
	}

	objectKey := fmt.Sprintf("%s/%s/%s/%s/%s/%s",
		input.OrgId, input.ProjectId, input.Source, input.OpportunityId, att.AttachmentId, att.Filename)

	if err := s.store.Put(ctx, objectKey, data, contentType); err != nil {
		log.Printf("[import] stage %s failed: %v, continuing", objectKey, err)
		return false
	}

	id, err := s.documentRepo.CreateDocument(ctx, &entity.CreateDocumentInput{
		OrgId:         input.OrgId,
		ProjectId:     input.ProjectId,
		Source:        input.Source,
		OpportunityId: input.OpportunityId,
		AttachmentId:  att.AttachmentId,
		Filename:      att.Filename,
		ObjectKey:     objectKey,
		ContentType:   contentType,
	})
	if err != nil {
		if errors.Is(err, repo_errors.ErrAlreadyExists) {
			// A concurrent import won the insert; the object overwrite above
			// was harmless since keys are deterministic.
			return false
		}

		log.Printf("[import] record %s failed: %v, continuing", objectKey, err)
		return false
	}

	doc := &entity.Document{
		Id:            id,
		OrgId:         input.OrgId,
		ProjectId:     input.ProjectId,
		Source:        input.Source,
		OpportunityId: input.OpportunityId,
		AttachmentId:  att.AttachmentId,
		Filename:      att.Filename,
		ObjectKey:     objectKey,
		ContentType:   contentType,
	}
	if err := s.pipeline.Enqueue(ctx, doc); err != nil {
		// The document exists and can be reprocessed later; enqueue failure
		// does not undo the import.
		log.Printf("[import] enqueue %s failed: %v", objectKey, err)
	}

	return true
}

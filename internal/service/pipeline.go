package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"opportunity-search-api/internal/entity"
)

// PipelineTrigger hands a newly created document to the downstream
// document-processing pipeline. The importer's responsibility ends at
// enqueue; processing itself happens elsewhere.
type PipelineTrigger interface {
	Enqueue(ctx context.Context, doc *entity.Document) error
}

type HTTPPipelineTrigger struct {
	endpoint string
	client   *http.Client
}

func NewHTTPPipelineTrigger(endpoint string) *HTTPPipelineTrigger {
	return &HTTPPipelineTrigger{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *HTTPPipelineTrigger) Enqueue(ctx context.Context, doc *entity.Document) error {
	payload, err := json.Marshal(map[string]string{
		"documentId": doc.Id.String(),
		"orgId":      doc.OrgId,
		"projectId":  doc.ProjectId,
		"objectKey":  doc.ObjectKey,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("pipeline enqueue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("pipeline enqueue returned %d", resp.StatusCode)
	}

	return nil
}

// NoopPipelineTrigger is used when no pipeline endpoint is configured.
type NoopPipelineTrigger struct{}

func (NoopPipelineTrigger) Enqueue(ctx context.Context, doc *entity.Document) error {
	return nil
}

// Package scheduler re-runs enabled saved searches on their configured
// frequency and, for searches marked autoImport, imports attachments of every
// opportunity the re-run surfaces. It drives the same Search/Import contracts
// the HTTP handlers use.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"opportunity-search-api/internal/common"
	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/pager"
	"opportunity-search-api/internal/repo"
	"opportunity-search-api/internal/service"
)

const runPageSize = 100

type Scheduler struct {
	cron            *cron.Cron
	savedSearchRepo repo.SavedSearch
	searchService   service.Search
	importService   service.Importer
}

func New(savedSearchRepo repo.SavedSearch, searchService service.Search, importService service.Importer) *Scheduler {
	return &Scheduler{
		cron:            cron.New(),
		savedSearchRepo: savedSearchRepo,
		searchService:   searchService,
		importService:   importService,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	for spec, frequency := range map[string]string{
		"@hourly": common.FrequencyHourly,
		"@daily":  common.FrequencyDaily,
		"@weekly": common.FrequencyWeekly,
	} {
		frequency := frequency
		if _, err := s.cron.AddFunc(spec, func() { s.runFrequency(ctx, frequency) }); err != nil {
			return fmt.Errorf("cron.AddFunc: %w", err)
		}
	}

	s.cron.Start()
	log.Println("[scheduler] saved search runner started")

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] saved search runner stopped")
}

func (s *Scheduler) runFrequency(ctx context.Context, frequency string) {
	fetch := func(ctx context.Context, offset int) ([]entity.SavedSearch, int, error) {
		page, err := s.savedSearchRepo.ListEnabledSavedSearches(ctx, frequency,
			entity.NewPaginationInput(runPageSize, offset))
		if err != nil {
			return nil, pager.Done, err
		}

		next := offset + len(page)
		if len(page) < runPageSize {
			next = pager.Done
		}

		return page, next, nil
	}

	searches, err := pager.Drain(ctx, fetch, 0)
	if err != nil {
		log.Printf("[scheduler] list %s saved searches: %v", frequency, err)
		return
	}

	for i := range searches {
		s.runOne(ctx, &searches[i])
	}
}

func (s *Scheduler) runOne(ctx context.Context, saved *entity.SavedSearch) {
	criteria, err := saved.Criteria.WithInternalDates()
	if err != nil {
		log.Printf("[scheduler] saved search %s has unreadable criteria: %v", saved.Id, err)
		return
	}
	criteria.Sources = []string{saved.Source}
	if criteria.Limit == 0 {
		criteria.Limit = runPageSize
	}

	page, err := s.searchService.Search(ctx, saved.OrgId, criteria)
	if err != nil {
		log.Printf("[scheduler] saved search %s run failed: %v", saved.Id, err)
		return
	}

	log.Printf("[scheduler] saved search %s matched %d opportunities", saved.Id, page.Total)

	if !saved.AutoImport || saved.ProjectId == "" {
		return
	}

	for _, opp := range page.Opportunities {
		opportunityId := opp.NoticeId
		if opportunityId == "" {
			opportunityId = opp.SolicitationNumber
		}

		result, err := s.importService.Import(ctx, &entity.ImportInput{
			OrgId:         saved.OrgId,
			ProjectId:     saved.ProjectId,
			Source:        saved.Source,
			OpportunityId: opportunityId,
			PostedFrom:    criteria.PostedFrom,
			PostedTo:      criteria.PostedTo,
		})
		if err != nil {
			log.Printf("[scheduler] auto-import %s/%s failed: %v, continuing", saved.Source, opportunityId, err)
			continue
		}
		if result.Imported > 0 {
			log.Printf("[scheduler] auto-imported %d documents for %s/%s", result.Imported, saved.Source, opportunityId)
		}
	}
}

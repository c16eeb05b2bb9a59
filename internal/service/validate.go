package service

import (
	"time"

	"opportunity-search-api/internal/common"
	"opportunity-search-api/internal/entity"
)

// validateCriteria is the single gate in front of every adapter call. The
// saved search store runs the same gate on create and edit, so a persisted
// search can never carry criteria the aggregator would reject at run time.
func validateCriteria(criteria *entity.SearchCriteria) error {
	dates := make(map[string]time.Time)
	for name, value := range map[string]string{
		"postedFrom":  criteria.PostedFrom,
		"postedTo":    criteria.PostedTo,
		"closingFrom": criteria.ClosingFrom,
		"closingTo":   criteria.ClosingTo,
	} {
		if value == "" {
			continue
		}

		t, err := time.Parse(common.DateLayoutInternal, value)
		if err != nil {
			return ErrInvalidDate
		}
		dates[name] = t
	}

	if from, ok := dates["postedFrom"]; ok {
		if to, ok := dates["postedTo"]; ok && from.After(to) {
			return ErrInvalidDateRange
		}
	}
	if from, ok := dates["closingFrom"]; ok {
		if to, ok := dates["closingTo"]; ok && from.After(to) {
			return ErrInvalidDateRange
		}
	}

	for _, s := range criteria.Sources {
		if !common.IsKnownSource(s) {
			return ErrUnknownSource
		}
	}

	return nil
}

func validateFrequency(frequency string) error {
	switch frequency {
	case common.FrequencyHourly, common.FrequencyDaily, common.FrequencyWeekly:
		return nil
	}

	return ErrUnknownFrequency
}

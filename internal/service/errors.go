package service

import "errors"

var (
	// validation errors; the request never reaches an adapter
	ErrInvalidDate      = errors.New("date must be a calendar day formatted as YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("postedFrom must not be after postedTo")
	ErrUnknownSource    = errors.New("unknown opportunity source")
	ErrUnknownFrequency = errors.New("frequency must be HOURLY, DAILY or WEEKLY")

	ErrApiKeyNotConfigured = errors.New("no api key configured for source")
	ErrSavedSearchNotFound = errors.New("saved search not found")
	ErrOpportunityNotFound = errors.New("opportunity not found at source")
	ErrDescriptionNotFound = errors.New("description not found at source")
)

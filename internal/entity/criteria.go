package entity

import (
	"fmt"
	"time"

	"opportunity-search-api/internal/common"
)

// SearchCriteria is the normalized search input shared by every provider
// adapter. Date fields hold internal ISO (YYYY-MM-DD) values; adapters convert
// to the provider's native format at the boundary.
type SearchCriteria struct {
	Keywords         string   `json:"keywords,omitempty"`
	Naics            []string `json:"naics,omitempty"`
	SetAsideCode     string   `json:"setAsideCode,omitempty"`
	OrganizationName string   `json:"organizationName,omitempty"`
	Ptype            []string `json:"ptype,omitempty"`
	PostedFrom       string   `json:"postedFrom,omitempty"`
	PostedTo         string   `json:"postedTo,omitempty"`
	ClosingFrom      string   `json:"closingFrom,omitempty"`
	ClosingTo        string   `json:"closingTo,omitempty"`
	Sources          []string `json:"sources,omitempty"`
	Limit            int      `json:"limit"`
	Offset           int      `json:"offset"`
}

// ToProviderDate converts an internal ISO date into the MM/DD/YYYY form the
// upstream sources expect. Empty input stays empty.
func ToProviderDate(iso string) (string, error) {
	if iso == "" {
		return "", nil
	}

	t, err := time.Parse(common.DateLayoutInternal, iso)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", iso, err)
	}

	return t.Format(common.DateLayoutProvider), nil
}

// ToInternalDate converts a provider-native MM/DD/YYYY date back into the
// internal ISO form. Empty input stays empty.
func ToInternalDate(native string) (string, error) {
	if native == "" {
		return "", nil
	}

	t, err := time.Parse(common.DateLayoutProvider, native)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", native, err)
	}

	return t.Format(common.DateLayoutInternal), nil
}

// WithProviderDates returns a copy of the criteria with every date field
// rewritten to the provider-native format. Saved searches persist this form.
func (c *SearchCriteria) WithProviderDates() (*SearchCriteria, error) {
	out := *c
	for _, p := range []struct {
		dst *string
		src string
	}{
		{&out.PostedFrom, c.PostedFrom},
		{&out.PostedTo, c.PostedTo},
		{&out.ClosingFrom, c.ClosingFrom},
		{&out.ClosingTo, c.ClosingTo},
	} {
		v, err := ToProviderDate(p.src)
		if err != nil {
			return nil, err
		}
		*p.dst = v
	}

	return &out, nil
}

// WithInternalDates is the inverse of WithProviderDates; round-tripping a
// criteria through both reproduces the original ISO values exactly.
func (c *SearchCriteria) WithInternalDates() (*SearchCriteria, error) {
	out := *c
	for _, p := range []struct {
		dst *string
		src string
	}{
		{&out.PostedFrom, c.PostedFrom},
		{&out.PostedTo, c.PostedTo},
		{&out.ClosingFrom, c.ClosingFrom},
		{&out.ClosingTo, c.ClosingTo},
	} {
		v, err := ToInternalDate(p.src)
		if err != nil {
			return nil, err
		}
		*p.dst = v
	}

	return &out, nil
}

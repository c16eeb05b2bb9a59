package entity

// db model. The raw key never leaves the repo/service layers in full.
type SourceKey struct {
	OrgId     string `db:"org_id"`
	Source    string `db:"source"`
	ApiKey    string `db:"api_key"`
	UpdatedAt string `db:"updated_at"`
}

// controller model. Configured and Valid are distinct states: a stored key
// that the provider rejects reports configured=true, valid=false.
type KeyStatusOutputModel struct {
	Source     string `json:"source"`
	Configured bool   `json:"configured"`
	Valid      bool   `json:"valid"`
	MaskedKey  string `json:"maskedKey,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

package common

const (
	SourceSamGov       = "SAM_GOV"
	SourceDibbs        = "DIBBS"
	SourceManualUpload = "MANUAL_UPLOAD"
	SourceAll          = "ALL"

	FrequencyHourly = "HOURLY"
	FrequencyDaily  = "DAILY"
	FrequencyWeekly = "WEEKLY"

	// Dates are ISO inside the service and MM/DD/YYYY at the provider boundary.
	DateLayoutInternal = "2006-01-02"
	DateLayoutProvider = "01/02/2006"
)

// SourcePriority fixes the order in which per-source results are concatenated.
// Assembly order never depends on which provider call finishes first.
var SourcePriority = []string{SourceSamGov, SourceDibbs}

func IsKnownSource(source string) bool {
	for _, s := range SourcePriority {
		if s == source {
			return true
		}
	}

	return false
}

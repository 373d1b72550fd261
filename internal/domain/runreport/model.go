package runreport

import "time"

// Summary is the machine-readable outcome of one pipeline run. A run always
// completes and always emits a summary; non-zero gate violations mark the
// run unpublishable but still inspectable.
type Summary struct {
	RunID            string         `json:"run_id"`
	StartedAt        time.Time      `json:"started_at"`
	FinishedAt       time.Time      `json:"finished_at"`
	BaselineVersion  int            `json:"baseline_version"`
	DroppedRows      map[string]int `json:"dropped_rows"`
	MalformedFields  int            `json:"malformed_fields"`
	GamesWithoutDate int            `json:"games_without_date"`
	LegacyResolved   int            `json:"legacy_resolved"`
	LegacyAmbiguous  int            `json:"legacy_ambiguous"`
	LegacyUnmatched  int            `json:"legacy_unmatched"`
	SeasonTypeVotes  int            `json:"season_type_votes"`
	UnresolvedSides  int            `json:"unresolved_sides"`
	PtsMismatches    int            `json:"pts_mismatches"`
	InvalidMinutes   int            `json:"invalid_minutes"`
	ImputedValues    int            `json:"imputed_values"`
	Violations       map[string]int `json:"violations"`
	ExcludedGames    int            `json:"excluded_games"`
	Publishable      bool           `json:"publishable"`
}

// ViolationTotal sums the gate violation counts.
func (s Summary) ViolationTotal() int {
	total := 0
	for _, count := range s.Violations {
		total += count
	}
	return total
}

package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/courtledger/courtledger/internal/domain/game"
	"github.com/courtledger/courtledger/internal/domain/teamgame"
	"github.com/courtledger/courtledger/internal/platform/logging"
)

// ImputeService fills numeric box-score fields that are still missing after
// reconciliation, using the narrowest statistically valid fallback: the
// team-season median, else the season median, else the global median over
// regular-season history. Medians resist outlier blowout games; every
// substitution is flagged so consumers can exclude imputed values.
type ImputeService struct {
	logger *logging.Logger
}

type ImputeResult struct {
	Rows          []teamgame.TeamGame
	ImputedValues int
	// Uncovered counts (field, row) pairs left missing even by the global
	// fallback; a non-zero count gates publication.
	Uncovered int
}

func NewImputeService(logger *logging.Logger) *ImputeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ImputeService{logger: logger}
}

// imputeTier is one named fallback in the cascade, a pure function from a
// row to an optional estimate. Tiers are evaluated in order until one
// yields a value, keeping the precedence auditable.
type imputeTier struct {
	name     string
	estimate func(row teamgame.TeamGame, field string) *float64
}

type teamSeasonKey struct {
	teamID string
	season int
}

func (s *ImputeService) Impute(ctx context.Context, rows []teamgame.TeamGame) (ImputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImputeService.Impute")
	defer span.End()

	medians := buildMedianIndex(rows)
	tiers := []imputeTier{
		{name: "team_season_median", estimate: medians.teamSeason},
		{name: "season_median", estimate: medians.season},
		{name: "global_regular_season_median", estimate: medians.globalMedian},
	}

	result := ImputeResult{Rows: make([]teamgame.TeamGame, 0, len(rows))}
	for _, row := range rows {
		out := row
		out.Stats = cloneStats(row.Stats)
		for _, field := range teamgame.StatFields {
			if out.Stats[field] != nil {
				continue
			}
			filled := false
			for _, tier := range tiers {
				if estimate := tier.estimate(row, field); estimate != nil {
					out.SetStat(field, estimate)
					out.MarkImputed(field)
					result.ImputedValues++
					filled = true
					break
				}
			}
			if !filled {
				result.Uncovered++
			}
		}
		if out.Stat("pts") != nil && out.WasImputed("pts") {
			out.PtsSource = teamgame.PtsSourceImputed
		}
		result.Rows = append(result.Rows, out)
	}

	s.logger.InfoContext(ctx, "imputed missing metrics",
		"imputed_values", result.ImputedValues,
		"uncovered", result.Uncovered,
	)
	return result, nil
}

// medianIndex holds the cascade's pre-computed aggregates over the
// immutable input snapshot.
type medianIndex struct {
	byTeamSeason map[teamSeasonKey]map[string]float64
	bySeason     map[int]map[string]float64
	global       map[string]float64
}

func (m *medianIndex) teamSeason(row teamgame.TeamGame, field string) *float64 {
	return lookupMedian(m.byTeamSeason[teamSeasonKey{teamID: row.TeamID, season: row.Season}], field)
}

func (m *medianIndex) season(row teamgame.TeamGame, field string) *float64 {
	return lookupMedian(m.bySeason[row.Season], field)
}

func (m *medianIndex) globalMedian(_ teamgame.TeamGame, field string) *float64 {
	return lookupMedian(m.global, field)
}

func lookupMedian(medians map[string]float64, field string) *float64 {
	if medians == nil {
		return nil
	}
	value, ok := medians[field]
	if !ok {
		return nil
	}
	return &value
}

// buildMedianIndex computes every granularity once up front. Seasons are
// disjoint partitions of the same immutable snapshot, so the per-season
// work fans out concurrently.
func buildMedianIndex(rows []teamgame.TeamGame) *medianIndex {
	rowsBySeason := make(map[int][]teamgame.TeamGame)
	for _, row := range rows {
		rowsBySeason[row.Season] = append(rowsBySeason[row.Season], row)
	}

	index := &medianIndex{
		byTeamSeason: make(map[teamSeasonKey]map[string]float64),
		bySeason:     make(map[int]map[string]float64, len(rowsBySeason)),
	}

	var mu sync.Mutex
	workers := pool.New().WithMaxGoroutines(4)
	for season, seasonRows := range rowsBySeason {
		season, seasonRows := season, seasonRows
		workers.Go(func() {
			seasonMedians := fieldMedians(seasonRows, nil)
			teamMedians := make(map[string]map[string]float64)
			for teamID := range teamsIn(seasonRows) {
				teamMedians[teamID] = fieldMedians(seasonRows, func(r teamgame.TeamGame) bool {
					return r.TeamID == teamID
				})
			}
			mu.Lock()
			index.bySeason[season] = seasonMedians
			for teamID, medians := range teamMedians {
				index.byTeamSeason[teamSeasonKey{teamID: teamID, season: season}] = medians
			}
			mu.Unlock()
		})
	}
	workers.Wait()

	regularRows := make([]teamgame.TeamGame, 0, len(rows))
	for _, row := range rows {
		if row.SeasonType == game.SeasonTypeRegular {
			regularRows = append(regularRows, row)
		}
	}
	index.global = fieldMedians(regularRows, nil)
	return index
}

func teamsIn(rows []teamgame.TeamGame) map[string]struct{} {
	teams := make(map[string]struct{})
	for _, row := range rows {
		teams[row.TeamID] = struct{}{}
	}
	return teams
}

// fieldMedians computes the median of every stat field over the rows
// matching the filter, skipping missing and imputed values.
func fieldMedians(rows []teamgame.TeamGame, match func(teamgame.TeamGame) bool) map[string]float64 {
	values := make(map[string][]float64, len(teamgame.StatFields))
	for _, row := range rows {
		if match != nil && !match(row) {
			continue
		}
		for _, field := range teamgame.StatFields {
			if v := row.Stat(field); v != nil && !row.WasImputed(field) {
				values[field] = append(values[field], *v)
			}
		}
	}
	medians := make(map[string]float64, len(values))
	for field, observed := range values {
		if len(observed) == 0 {
			continue
		}
		medians[field] = median(observed)
	}
	return medians
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func cloneStats(stats map[string]*float64) map[string]*float64 {
	out := make(map[string]*float64, len(stats))
	for field, value := range stats {
		out[field] = value
	}
	return out
}

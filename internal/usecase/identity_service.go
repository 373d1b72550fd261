package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/courtledger/courtledger/internal/domain/feed"
	"github.com/courtledger/courtledger/internal/domain/game"
	"github.com/courtledger/courtledger/internal/platform/logging"
)

// IdentityService establishes one canonical identity per real event and the
// bridge from the legacy identifier space into it.
type IdentityService struct {
	logger *logging.Logger
}

// IdentityResult is the fully materialized output of one resolution pass.
type IdentityResult struct {
	Games  []game.Game
	Bridge []game.BridgeEntry

	// Per-run accounting surfaced in the run summary.
	SeasonTypeVotes  int
	LegacyResolved   int
	LegacyAmbiguous  int
	LegacyUnmatched  int
	GamesWithoutDate int
}

func NewIdentityService(logger *logging.Logger) *IdentityService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IdentityService{logger: logger}
}

type identityKey struct {
	date time.Time
	pair game.TeamPair
}

// candidate accumulates every contributing row for one modern game id.
type candidate struct {
	gameID      string
	dates       map[time.Time]int
	teams       map[string]struct{}
	seasonVotes map[game.SeasonType]int
}

// Resolve builds CanonicalGame and IdentityBridge from a normalized
// snapshot. The same snapshot always yields byte-identical output: grouping
// is order-independent and every slice is sorted before returning.
func (s *IdentityService) Resolve(ctx context.Context, snapshot feed.Snapshot) (IdentityResult, error) {
	_, span := startUsecaseSpan(ctx, "usecase.IdentityService.Resolve")
	defer span.End()

	candidates := make(map[string]*candidate)
	for _, row := range snapshot.TeamRows {
		if row.Vendor == feed.VendorLegacy || row.GameID == "" {
			continue
		}
		cand, ok := candidates[row.GameID]
		if !ok {
			cand = &candidate{
				gameID:      row.GameID,
				dates:       make(map[time.Time]int),
				teams:       make(map[string]struct{}),
				seasonVotes: make(map[game.SeasonType]int),
			}
			candidates[row.GameID] = cand
		}
		if row.HasDate {
			cand.dates[row.GameDate]++
		}
		cand.teams[row.TeamID] = struct{}{}
		if st := game.SeasonType(row.SeasonType); st != game.SeasonTypeUnknown {
			cand.seasonVotes[st]++
		}
	}

	result := IdentityResult{}
	games := make([]game.Game, 0, len(candidates))
	for _, cand := range candidates {
		resolved, ok := s.resolveCandidate(cand, &result)
		if !ok {
			continue
		}
		games = append(games, resolved)
	}
	game.SortGames(games)
	result.Games = games

	result.Bridge = s.buildBridge(snapshot, games, &result)

	s.logger.InfoContext(ctx, "resolved canonical identities",
		"games", len(result.Games),
		"games_without_date", result.GamesWithoutDate,
		"legacy_resolved", result.LegacyResolved,
		"legacy_ambiguous", result.LegacyAmbiguous,
		"legacy_unmatched", result.LegacyUnmatched,
	)
	return result, nil
}

func (s *IdentityService) resolveCandidate(cand *candidate, result *IdentityResult) (game.Game, bool) {
	gameDate, ok := majorityDate(cand.dates)
	if !ok {
		// A game with no parseable date anywhere cannot be placed in a
		// season; it stays out of the canonical set and is counted so the
		// run summary surfaces the drop.
		result.GamesWithoutDate++
		return game.Game{}, false
	}

	seasonType := majoritySeasonType(cand.seasonVotes)
	if seasonType == game.SeasonTypeUnknown {
		seasonType = game.SeasonTypeForMonth(gameDate.Month())
	} else if tied(cand.seasonVotes, seasonType) {
		seasonType = game.SeasonTypeForMonth(gameDate.Month())
		result.SeasonTypeVotes++
	} else if len(cand.seasonVotes) > 1 {
		result.SeasonTypeVotes++
	}

	return game.Game{
		GameID:     cand.gameID,
		GameDate:   gameDate,
		Season:     game.SeasonYear(gameDate),
		SeasonType: seasonType,
	}, true
}

func (s *IdentityService) buildBridge(snapshot feed.Snapshot, games []game.Game, result *IdentityResult) []game.BridgeEntry {
	// Index canonical games by (date, unordered team pair), the only join
	// key shared across identifier eras.
	pairsByGame := make(map[string]game.TeamPair, len(games))
	for gameID, teams := range teamsByGame(snapshot) {
		if len(teams) == 2 {
			pairsByGame[gameID] = game.NewTeamPair(teams[0], teams[1])
		}
	}
	canonicalByKey := make(map[identityKey][]string)
	for _, g := range games {
		pair, ok := pairsByGame[g.GameID]
		if !ok {
			continue
		}
		key := identityKey{date: g.GameDate, pair: pair}
		canonicalByKey[key] = append(canonicalByKey[key], g.GameID)
	}

	// Group legacy rows by legacy id; rows sharing a legacy id describe the
	// same event from the two teams' perspectives.
	type legacyGroup struct {
		date    time.Time
		hasDate bool
		pairs   map[game.TeamPair]struct{}
	}
	legacyByID := make(map[string]*legacyGroup)
	for _, row := range snapshot.TeamRows {
		if row.Vendor != feed.VendorLegacy {
			continue
		}
		group, ok := legacyByID[row.LegacyID]
		if !ok {
			group = &legacyGroup{pairs: make(map[game.TeamPair]struct{})}
			legacyByID[row.LegacyID] = group
		}
		if row.HasDate {
			group.date, group.hasDate = row.GameDate, true
		}
		if row.OpponentID != "" {
			group.pairs[game.NewTeamPair(row.TeamID, row.OpponentID)] = struct{}{}
		}
	}

	// Detect duplicate legacy identities: distinct legacy ids that share a
	// date and team pair would bridge onto the same canonical game.
	claimCounts := make(map[identityKey]int)
	for _, group := range legacyByID {
		if !group.hasDate || len(group.pairs) != 1 {
			continue
		}
		claimCounts[identityKey{date: group.date, pair: onlyPair(group.pairs)}]++
	}

	entries := make([]game.BridgeEntry, 0, len(legacyByID))
	for legacyID, group := range legacyByID {
		entry := game.BridgeEntry{LegacyID: legacyID, Status: game.BridgeUnmatched}
		if group.hasDate && len(group.pairs) == 1 {
			key := identityKey{date: group.date, pair: onlyPair(group.pairs)}
			matches := canonicalByKey[key]
			switch {
			case len(matches) == 1 && claimCounts[key] == 1:
				entry.Status = game.BridgeResolved
				entry.GameID = matches[0]
				entry.CandidateCount = 1
			case len(matches) >= 1:
				// Either multiple canonical games or multiple legacy rows
				// claim this (date, pair): surfaced, never guessed.
				entry.Status = game.BridgeAmbiguous
				entry.CandidateCount = len(matches)
				if claimCounts[key] > len(matches) {
					entry.CandidateCount = claimCounts[key]
				}
			}
		}
		switch entry.Status {
		case game.BridgeResolved:
			result.LegacyResolved++
		case game.BridgeAmbiguous:
			result.LegacyAmbiguous++
		default:
			result.LegacyUnmatched++
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].LegacyID < entries[j].LegacyID })
	return entries
}

// teamsByGame collects the distinct team ids contributing to each modern
// game id, sorted for determinism.
func teamsByGame(snapshot feed.Snapshot) map[string][]string {
	seen := make(map[string]map[string]struct{})
	for _, row := range snapshot.TeamRows {
		if row.Vendor == feed.VendorLegacy || row.GameID == "" {
			continue
		}
		if seen[row.GameID] == nil {
			seen[row.GameID] = make(map[string]struct{})
		}
		seen[row.GameID][row.TeamID] = struct{}{}
	}
	out := make(map[string][]string, len(seen))
	for gameID, teams := range seen {
		ids := make([]string, 0, len(teams))
		for id := range teams {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[gameID] = ids
	}
	return out
}

func majorityDate(votes map[time.Time]int) (time.Time, bool) {
	best := time.Time{}
	bestCount := 0
	for date, count := range votes {
		if count > bestCount || (count == bestCount && date.Before(best)) {
			best, bestCount = date, count
		}
	}
	return best, bestCount > 0
}

func majoritySeasonType(votes map[game.SeasonType]int) game.SeasonType {
	best := game.SeasonTypeUnknown
	bestCount := 0
	for st, count := range votes {
		if count > bestCount || (count == bestCount && st < best) {
			best, bestCount = st, count
		}
	}
	return best
}

// tied reports whether another season type received the same vote count as
// the winner, which sends resolution to the month heuristic.
func tied(votes map[game.SeasonType]int, winner game.SeasonType) bool {
	for st, count := range votes {
		if st != winner && count == votes[winner] {
			return true
		}
	}
	return false
}

func onlyPair(pairs map[game.TeamPair]struct{}) game.TeamPair {
	for pair := range pairs {
		return pair
	}
	return game.TeamPair{}
}

// CheckSeasonMonthInvariant returns the ids of games whose resolved season
// type is impossible for their calendar month. Violations are surfaced and
// gate publication; they are never silently corrected.
func CheckSeasonMonthInvariant(games []game.Game) []string {
	var violating []string
	for _, g := range games {
		if !g.SeasonType.AllowedInMonth(g.GameDate.Month()) {
			violating = append(violating, g.GameID)
		}
	}
	return violating
}

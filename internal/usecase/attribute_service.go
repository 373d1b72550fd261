package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtledger/courtledger/internal/domain/feed"
	"github.com/courtledger/courtledger/internal/domain/game"
	"github.com/courtledger/courtledger/internal/domain/teamgame"
	"github.com/courtledger/courtledger/internal/platform/logging"
)

// AttributeService assigns the home/away side per (game, team) row using an
// ordered list of named resolution strategies. The order is the policy:
// manual overrides are ground truth, the structured box-score side is next,
// and free-text matchup parsing is the last resort. An unresolved side stays
// unresolved; it is never guessed.
type AttributeService struct {
	overrideRepo game.OverrideRepository
	logger       *logging.Logger
}

// sideSignals carries everything a resolution strategy may consult for one
// (game, team) row.
type sideSignals struct {
	gameID   string
	teamID   string
	override *game.Override
	boxSide  feed.Side
	matchup  string
}

// sideResolver is one pure resolution strategy: it either yields a side or
// declines, letting the next strategy try.
type sideResolver struct {
	source  teamgame.SideSource
	resolve func(sideSignals) (teamgame.Side, bool)
}

var sideResolvers = []sideResolver{
	{source: teamgame.SideSourceOverride, resolve: resolveSideFromOverride},
	{source: teamgame.SideSourceBoxScore, resolve: resolveSideFromBoxScore},
	{source: teamgame.SideSourceMatchup, resolve: resolveSideFromMatchup},
}

func NewAttributeService(overrideRepo game.OverrideRepository, logger *logging.Logger) *AttributeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AttributeService{overrideRepo: overrideRepo, logger: logger}
}

// AttributeResult carries the skeleton team rows with resolved sides.
type AttributeResult struct {
	Rows            []teamgame.TeamGame
	UnresolvedSides int
}

// ResolveSides builds one CanonicalTeamGame skeleton per (game, team) and
// resolves its side. Rows belonging to games outside the canonical set are
// not produced.
func (s *AttributeService) ResolveSides(ctx context.Context, snapshot feed.Snapshot, games []game.Game) (AttributeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AttributeService.ResolveSides")
	defer span.End()

	overrides, err := s.overrideRepo.ListOverrides(ctx)
	if err != nil {
		return AttributeResult{}, fmt.Errorf("list home away overrides: %w", err)
	}
	overrideByGame := make(map[string]game.Override, len(overrides))
	for _, o := range overrides {
		overrideByGame[o.GameID] = o
	}

	gameByID := make(map[string]game.Game, len(games))
	for _, g := range games {
		gameByID[g.GameID] = g
	}

	// One skeleton per (game, team), merging the vendors' signals.
	type rowKey struct{ gameID, teamID string }
	signalsByRow := make(map[rowKey]*sideSignals)
	rowByKey := make(map[rowKey]*teamgame.TeamGame)
	for _, raw := range snapshot.TeamRows {
		if raw.GameID == "" {
			continue
		}
		g, ok := gameByID[raw.GameID]
		if !ok {
			continue
		}
		key := rowKey{gameID: raw.GameID, teamID: raw.TeamID}
		row, ok := rowByKey[key]
		if !ok {
			row = &teamgame.TeamGame{
				GameID:     g.GameID,
				TeamID:     raw.TeamID,
				Season:     g.Season,
				SeasonType: g.SeasonType,
				GameDate:   g.GameDate,
			}
			rowByKey[key] = row
			sig := &sideSignals{gameID: g.GameID, teamID: raw.TeamID}
			if o, ok := overrideByGame[g.GameID]; ok {
				sig.override = &o
			}
			signalsByRow[key] = sig
		}
		sig := signalsByRow[key]
		if raw.Vendor == feed.VendorBoxScore && raw.SideHint != feed.SideUnknown {
			sig.boxSide = raw.SideHint
		}
		if raw.Matchup != "" && sig.matchup == "" {
			sig.matchup = raw.Matchup
		}
		if raw.WinLoss != "" && row.WinLoss == "" {
			row.WinLoss = raw.WinLoss
		}
	}

	result := AttributeResult{}
	rows := make([]teamgame.TeamGame, 0, len(rowByKey))
	for key, row := range rowByKey {
		side, source := resolveSide(*signalsByRow[key])
		row.Side = side
		row.SideSource = source
		if side == teamgame.SideUnresolved {
			result.UnresolvedSides++
		}
		rows = append(rows, *row)
	}
	teamgame.Sort(rows)
	result.Rows = rows

	s.logger.InfoContext(ctx, "resolved home away sides",
		"rows", len(rows),
		"unresolved", result.UnresolvedSides,
	)
	return result, nil
}

func resolveSide(sig sideSignals) (teamgame.Side, teamgame.SideSource) {
	for _, resolver := range sideResolvers {
		if side, ok := resolver.resolve(sig); ok {
			return side, resolver.source
		}
	}
	return teamgame.SideUnresolved, teamgame.SideSourceNone
}

func resolveSideFromOverride(sig sideSignals) (teamgame.Side, bool) {
	o := sig.override
	if o == nil {
		return teamgame.SideUnresolved, false
	}
	if o.HomeOverride && o.TeamIDHome == sig.teamID {
		return teamgame.SideHome, true
	}
	if o.AwayOverride && o.TeamIDAway == sig.teamID {
		return teamgame.SideAway, true
	}
	// An override naming both sides resolves either row of the pair.
	if o.HomeOverride && o.AwayOverride {
		switch sig.teamID {
		case o.TeamIDHome:
			return teamgame.SideHome, true
		case o.TeamIDAway:
			return teamgame.SideAway, true
		}
	}
	return teamgame.SideUnresolved, false
}

func resolveSideFromBoxScore(sig sideSignals) (teamgame.Side, bool) {
	switch sig.boxSide {
	case feed.SideHome:
		return teamgame.SideHome, true
	case feed.SideAway:
		return teamgame.SideAway, true
	default:
		return teamgame.SideUnresolved, false
	}
}

// resolveSideFromMatchup infers the side from the free-text matchup
// description: "vs." marks the home team, "@" the visitor. A string
// carrying both markers is malformed and yields no inference.
func resolveSideFromMatchup(sig sideSignals) (teamgame.Side, bool) {
	text := strings.ToLower(sig.matchup)
	hasVs := strings.Contains(text, "vs.")
	hasAt := strings.Contains(text, "@")
	switch {
	case hasVs && !hasAt:
		return teamgame.SideHome, true
	case hasAt && !hasVs:
		return teamgame.SideAway, true
	default:
		return teamgame.SideUnresolved, false
	}
}

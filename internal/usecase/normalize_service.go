package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/courtledger/courtledger/internal/domain/feed"
	"github.com/courtledger/courtledger/internal/domain/game"
	"github.com/courtledger/courtledger/internal/platform/logging"
)

// NormalizeService standardizes the heterogeneous raw tables into one
// normalized (game, team) relation with fixed columns and fixed types.
// A malformed field becomes missing; only a missing join key drops a row.
type NormalizeService struct {
	feedRepo feed.Repository
	logger   *logging.Logger
}

// NormalizeStats is the per-vendor accounting for one normalization pass.
type NormalizeStats struct {
	DroppedRows     map[string]int
	MalformedFields int
}

func NewNormalizeService(feedRepo feed.Repository, logger *logging.Logger) *NormalizeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &NormalizeService{feedRepo: feedRepo, logger: logger}
}

const gameIDWidth = 10

func (s *NormalizeService) Normalize(ctx context.Context) (feed.Snapshot, NormalizeStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizeService.Normalize")
	defer span.End()

	stats := NormalizeStats{DroppedRows: make(map[string]int)}

	gameLogRows, err := s.feedRepo.ListGameLogRows(ctx)
	if err != nil {
		return feed.Snapshot{}, stats, fmt.Errorf("list game log rows: %w", err)
	}
	boxRows, err := s.feedRepo.ListBoxScoreTeamRows(ctx)
	if err != nil {
		return feed.Snapshot{}, stats, fmt.Errorf("list box score team rows: %w", err)
	}
	legacyRows, err := s.feedRepo.ListLegacyGameRows(ctx)
	if err != nil {
		return feed.Snapshot{}, stats, fmt.Errorf("list legacy game rows: %w", err)
	}

	out := make([]feed.TeamGameRow, 0, len(gameLogRows)+len(boxRows)+len(legacyRows))

	for _, row := range gameLogRows {
		normalized, ok := s.normalizeGameLogRow(row, &stats)
		if !ok {
			stats.DroppedRows[string(feed.VendorGameLog)]++
			continue
		}
		out = append(out, normalized)
	}
	for _, row := range boxRows {
		normalized, ok := s.normalizeBoxScoreRow(row, &stats)
		if !ok {
			stats.DroppedRows[string(feed.VendorBoxScore)]++
			continue
		}
		out = append(out, normalized)
	}
	for _, row := range legacyRows {
		normalized, ok := s.normalizeLegacyRow(row, &stats)
		if !ok {
			stats.DroppedRows[string(feed.VendorLegacy)]++
			continue
		}
		out = append(out, normalized)
	}

	s.logger.InfoContext(ctx, "normalized raw feeds",
		"rows", len(out),
		"dropped", stats.DroppedRows,
		"malformed_fields", stats.MalformedFields,
	)
	return feed.Snapshot{TeamRows: out}, stats, nil
}

func (s *NormalizeService) normalizeGameLogRow(row feed.GameLogRow, stats *NormalizeStats) (feed.TeamGameRow, bool) {
	gameID := normalizeGameID(row.GameID)
	teamID := strings.TrimSpace(row.TeamID)
	if gameID == "" || teamID == "" {
		return feed.TeamGameRow{}, false
	}

	out := feed.TeamGameRow{
		Vendor:     feed.VendorGameLog,
		GameID:     gameID,
		TeamID:     teamID,
		SeasonType: string(game.ParseSeasonType(row.SeasonType)),
		Matchup:    strings.TrimSpace(row.Matchup),
		WinLoss:    strings.ToUpper(strings.TrimSpace(row.WinLoss)),
		Stats:      make(map[string]*float64, 13),
	}
	out.GameDate, out.HasDate = parseFeedDate(row.GameDate, stats)
	out.Minutes = parseMinutes(row.Minutes, stats)

	cells := map[string]string{
		"pts": row.Pts, "fgm": row.Fgm, "fga": row.Fga,
		"fg3m": row.Fg3m, "fg3a": row.Fg3a, "ftm": row.Ftm, "fta": row.Fta,
		"reb": row.Reb, "ast": row.Ast, "stl": row.Stl,
		"blk": row.Blk, "tov": row.Tov, "pf": row.Pf,
	}
	for field, cell := range cells {
		out.Stats[field] = parseNumber(cell, stats)
	}
	return out, true
}

func (s *NormalizeService) normalizeBoxScoreRow(row feed.BoxScoreTeamRow, stats *NormalizeStats) (feed.TeamGameRow, bool) {
	gameID := normalizeGameID(row.GameID)
	teamID := strings.TrimSpace(row.TeamID)
	if gameID == "" || teamID == "" {
		return feed.TeamGameRow{}, false
	}

	out := feed.TeamGameRow{
		Vendor:   feed.VendorBoxScore,
		GameID:   gameID,
		TeamID:   teamID,
		SideHint: parseSide(row.Side),
		Stats:    make(map[string]*float64, 1),
	}
	out.GameDate, out.HasDate = parseFeedDate(row.GameDate, stats)
	out.Minutes = parseMinutes(row.Minutes, stats)
	out.Stats["pts"] = parseNumber(row.Pts, stats)
	if ot := parseNumber(row.OtPeriods, stats); ot != nil && *ot >= 0 {
		periods := int(*ot)
		out.OtPeriods = &periods
	}
	return out, true
}

func (s *NormalizeService) normalizeLegacyRow(row feed.LegacyGameRow, stats *NormalizeStats) (feed.TeamGameRow, bool) {
	legacyID := strings.TrimSpace(row.LegacyID)
	teamID := strings.TrimSpace(row.TeamID)
	if legacyID == "" || teamID == "" {
		return feed.TeamGameRow{}, false
	}

	out := feed.TeamGameRow{
		Vendor:     feed.VendorLegacy,
		LegacyID:   legacyID,
		TeamID:     teamID,
		SeasonType: string(game.ParseSeasonType(row.SeasonType)),
		Matchup:    strings.TrimSpace(row.Matchup),
		WinLoss:    strings.ToUpper(strings.TrimSpace(row.WinLoss)),
		Stats:      make(map[string]*float64, 7),
	}
	out.GameDate, out.HasDate = parseFeedDate(row.GameDate, stats)
	out.Minutes = parseMinutes(row.Minutes, stats)

	cells := map[string]string{
		"pts": row.Pts, "fgm": row.Fgm, "fga": row.Fga,
		"ftm": row.Ftm, "fta": row.Fta, "reb": row.Reb,
		"ast": row.Ast, "pf": row.Pf,
	}
	for field, cell := range cells {
		out.Stats[field] = parseNumber(cell, stats)
	}

	// Legacy rows name the opponent rather than a second team row; the
	// identity resolver pairs eras by (date, unordered team pair).
	out.OpponentID = strings.TrimSpace(row.OpponentID)
	return out, true
}

// normalizeGameID left-pads numeric game ids to the canonical 10-character
// form so every vendor agrees on the key format.
func normalizeGameID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" {
		return ""
	}
	if len(id) < gameIDWidth {
		id = strings.Repeat("0", gameIDWidth-len(id)) + id
	}
	return id
}

func parseSide(raw string) feed.Side {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "home", "h":
		return feed.SideHome
	case "away", "a", "road", "visitor":
		return feed.SideAway
	default:
		return feed.SideUnknown
	}
}

var feedDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"01/02/2006",
}

func parseFeedDate(raw string, stats *NormalizeStats) (time.Time, bool) {
	cell := strings.TrimSpace(raw)
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range feedDateLayouts {
		if parsed, err := time.Parse(layout, cell); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	stats.MalformedFields++
	return time.Time{}, false
}

// parseNumber casts a feed cell to a number, downgrading malformed cells to
// missing instead of failing the row.
func parseNumber(raw string, stats *NormalizeStats) *float64 {
	cell := strings.TrimSpace(raw)
	if cell == "" || strings.EqualFold(cell, "null") || strings.EqualFold(cell, "na") || strings.EqualFold(cell, "n/a") {
		return nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil {
		stats.MalformedFields++
		return nil
	}
	return &value
}

// parseMinutes accepts both the "34:21" clock form and decimal text.
func parseMinutes(raw string, stats *NormalizeStats) *float64 {
	cell := strings.TrimSpace(raw)
	if cell == "" {
		return nil
	}
	if strings.Contains(cell, ":") {
		parts := strings.SplitN(cell, ":", 2)
		mins, errM := strconv.ParseFloat(parts[0], 64)
		secs, errS := strconv.ParseFloat(parts[1], 64)
		if errM != nil || errS != nil || secs < 0 || secs >= 60 {
			stats.MalformedFields++
			return nil
		}
		value := mins + secs/60
		return &value
	}
	return parseNumber(cell, stats)
}

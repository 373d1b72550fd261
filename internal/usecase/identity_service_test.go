package usecase

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/courtledger/courtledger/internal/domain/feed"
	"github.com/courtledger/courtledger/internal/domain/game"
	"github.com/courtledger/courtledger/internal/platform/logging"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func modernRow(gameID, teamID string, date time.Time, seasonType string) feed.TeamGameRow {
	return feed.TeamGameRow{
		Vendor:     feed.VendorGameLog,
		GameID:     gameID,
		TeamID:     teamID,
		GameDate:   date,
		HasDate:    true,
		SeasonType: seasonType,
	}
}

func legacyRow(legacyID, teamID, opponentID string, date time.Time) feed.TeamGameRow {
	return feed.TeamGameRow{
		Vendor:     feed.VendorLegacy,
		LegacyID:   legacyID,
		TeamID:     teamID,
		OpponentID: opponentID,
		GameDate:   date,
		HasDate:    true,
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	t.Parallel()

	rows := []feed.TeamGameRow{
		modernRow("0022300001", "BOS", day(2024, time.January, 15), "REG"),
		modernRow("0022300001", "NYK", day(2024, time.January, 15), "REG"),
		modernRow("0022300002", "LAL", day(2024, time.January, 16), "REG"),
		modernRow("0022300002", "GSW", day(2024, time.January, 16), "REG"),
		legacyRow("19700001", "BOS", "NYK", day(2024, time.January, 15)),
		legacyRow("19700001", "NYK", "BOS", day(2024, time.January, 15)),
	}
	svc := NewIdentityService(logging.NewNop())

	first, err := svc.Resolve(context.Background(), feed.Snapshot{TeamRows: rows})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	reversed := make([]feed.TeamGameRow, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		reversed = append(reversed, rows[i])
	}
	second, err := svc.Resolve(context.Background(), feed.Snapshot{TeamRows: reversed})
	if err != nil {
		t.Fatalf("Resolve reversed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolution depends on input order:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestResolveSeasonTypeTieUsesMonthHeuristic(t *testing.T) {
	t.Parallel()

	rows := []feed.TeamGameRow{
		modernRow("0042300101", "BOS", day(2024, time.June, 6), "REG"),
		modernRow("0042300101", "DAL", day(2024, time.June, 6), "POST"),
	}
	svc := NewIdentityService(logging.NewNop())

	result, err := svc.Resolve(context.Background(), feed.Snapshot{TeamRows: rows})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(result.Games) != 1 {
		t.Fatalf("games = %d, want 1", len(result.Games))
	}
	if got := result.Games[0].SeasonType; got != game.SeasonTypePost {
		t.Fatalf("season type = %q, want POST for a June tie", got)
	}
	if result.SeasonTypeVotes != 1 {
		t.Fatalf("season type votes = %d, want 1", result.SeasonTypeVotes)
	}
	if got := result.Games[0].Season; got != 2023 {
		t.Fatalf("season = %d, want 2023 for a June 2024 game", got)
	}
}

func TestResolveCountsGamesWithoutDate(t *testing.T) {
	t.Parallel()

	undated := func(gameID, teamID string) feed.TeamGameRow {
		return feed.TeamGameRow{
			Vendor:     feed.VendorGameLog,
			GameID:     gameID,
			TeamID:     teamID,
			SeasonType: "REG",
		}
	}
	rows := []feed.TeamGameRow{
		undated("0022300001", "BOS"),
		undated("0022300001", "NYK"),
		modernRow("0022300002", "LAL", day(2024, time.January, 16), "REG"),
		modernRow("0022300002", "GSW", day(2024, time.January, 16), "REG"),
	}
	svc := NewIdentityService(logging.NewNop())

	result, err := svc.Resolve(context.Background(), feed.Snapshot{TeamRows: rows})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(result.Games) != 1 {
		t.Fatalf("games = %d, want 1", len(result.Games))
	}
	if got := result.Games[0].GameID; got != "0022300002" {
		t.Fatalf("surviving game = %q, want 0022300002", got)
	}
	if result.GamesWithoutDate != 1 {
		t.Fatalf("games without date = %d, want 1", result.GamesWithoutDate)
	}
}

func TestBuildBridgeStatuses(t *testing.T) {
	t.Parallel()

	rows := []feed.TeamGameRow{
		modernRow("0022300001", "BOS", day(2024, time.January, 15), "REG"),
		modernRow("0022300001", "NYK", day(2024, time.January, 15), "REG"),
		modernRow("0022300002", "LAL", day(2024, time.January, 16), "REG"),
		modernRow("0022300002", "GSW", day(2024, time.January, 16), "REG"),

		// Both perspectives of one event; a clean one-to-one match.
		legacyRow("19700001", "BOS", "NYK", day(2024, time.January, 15)),
		legacyRow("19700001", "NYK", "BOS", day(2024, time.January, 15)),
		// No modern game shares this date and pair.
		legacyRow("19700002", "BOS", "NYK", day(1971, time.March, 2)),
		// Two distinct legacy ids claiming the same (date, pair).
		legacyRow("19700003", "LAL", "GSW", day(2024, time.January, 16)),
		legacyRow("19700004", "GSW", "LAL", day(2024, time.January, 16)),
	}
	svc := NewIdentityService(logging.NewNop())

	result, err := svc.Resolve(context.Background(), feed.Snapshot{TeamRows: rows})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	byLegacy := make(map[string]game.BridgeEntry, len(result.Bridge))
	for _, entry := range result.Bridge {
		byLegacy[entry.LegacyID] = entry
	}

	resolved := byLegacy["19700001"]
	if resolved.Status != game.BridgeResolved || resolved.GameID != "0022300001" {
		t.Fatalf("19700001 = %+v, want resolved onto 0022300001", resolved)
	}
	if unmatched := byLegacy["19700002"]; unmatched.Status != game.BridgeUnmatched {
		t.Fatalf("19700002 status = %q, want unmatched", unmatched.Status)
	}
	for _, legacyID := range []string{"19700003", "19700004"} {
		entry := byLegacy[legacyID]
		if entry.Status != game.BridgeAmbiguous {
			t.Fatalf("%s status = %q, want ambiguous", legacyID, entry.Status)
		}
		if entry.GameID != "" {
			t.Fatalf("%s bridged onto %q despite ambiguity", legacyID, entry.GameID)
		}
		if entry.CandidateCount < 2 {
			t.Fatalf("%s candidate count = %d, want >= 2", legacyID, entry.CandidateCount)
		}
	}
	if result.LegacyResolved != 1 || result.LegacyAmbiguous != 2 || result.LegacyUnmatched != 1 {
		t.Fatalf("accounting = %d/%d/%d, want 1 resolved, 2 ambiguous, 1 unmatched",
			result.LegacyResolved, result.LegacyAmbiguous, result.LegacyUnmatched)
	}
}

func TestCheckSeasonMonthInvariant(t *testing.T) {
	t.Parallel()

	games := []game.Game{
		{GameID: "0022300001", GameDate: day(2024, time.January, 15), SeasonType: game.SeasonTypeRegular},
		{GameID: "0022300002", GameDate: day(2024, time.June, 6), SeasonType: game.SeasonTypeRegular},
		{GameID: "0042300101", GameDate: day(2024, time.October, 10), SeasonType: game.SeasonTypePost},
	}

	violating := CheckSeasonMonthInvariant(games)
	want := []string{"0022300002", "0042300101"}
	if !reflect.DeepEqual(violating, want) {
		t.Fatalf("violating = %v, want %v", violating, want)
	}
}

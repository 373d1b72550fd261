package usecase

import (
	"context"
	"testing"

	"github.com/courtledger/courtledger/internal/domain/feed"
	"github.com/courtledger/courtledger/internal/platform/logging"
)

func TestNormalizePadsGameIDs(t *testing.T) {
	t.Parallel()

	repo := &stubFeedRepo{
		gameLogs: []feed.GameLogRow{
			{GameID: "22301", TeamID: "1610612738", GameDate: "2024-01-15", Pts: "110"},
		},
	}
	svc := NewNormalizeService(repo, logging.NewNop())

	snapshot, _, err := svc.Normalize(context.Background())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(snapshot.TeamRows) != 1 {
		t.Fatalf("rows = %d, want 1", len(snapshot.TeamRows))
	}
	if got := snapshot.TeamRows[0].GameID; got != "0000022301" {
		t.Fatalf("game id = %q, want %q", got, "0000022301")
	}
}

func TestNormalizeDropsRowsMissingJoinKeys(t *testing.T) {
	t.Parallel()

	repo := &stubFeedRepo{
		gameLogs: []feed.GameLogRow{
			{GameID: "0022300001", TeamID: ""},
			{GameID: "", TeamID: "1610612738"},
		},
		legacy: []feed.LegacyGameRow{
			{LegacyID: "", TeamID: "BOS"},
		},
	}
	svc := NewNormalizeService(repo, logging.NewNop())

	snapshot, stats, err := svc.Normalize(context.Background())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(snapshot.TeamRows) != 0 {
		t.Fatalf("rows = %d, want 0", len(snapshot.TeamRows))
	}
	if got := stats.DroppedRows[string(feed.VendorGameLog)]; got != 2 {
		t.Fatalf("dropped game log rows = %d, want 2", got)
	}
	if got := stats.DroppedRows[string(feed.VendorLegacy)]; got != 1 {
		t.Fatalf("dropped legacy rows = %d, want 1", got)
	}
}

func TestNormalizeMalformedCellBecomesMissing(t *testing.T) {
	t.Parallel()

	repo := &stubFeedRepo{
		gameLogs: []feed.GameLogRow{
			{GameID: "0022300001", TeamID: "1610612738", GameDate: "2024-01-15", Pts: "abc", Reb: "", Ast: "42"},
		},
	}
	svc := NewNormalizeService(repo, logging.NewNop())

	snapshot, stats, err := svc.Normalize(context.Background())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	row := snapshot.TeamRows[0]
	if row.Stat("pts") != nil {
		t.Fatalf("pts = %v, want missing", *row.Stat("pts"))
	}
	if row.Stat("reb") != nil {
		t.Fatalf("reb = %v, want missing", *row.Stat("reb"))
	}
	if v := row.Stat("ast"); v == nil || *v != 42 {
		t.Fatalf("ast = %v, want 42", v)
	}
	// Only the unparseable cell counts; empty cells are plain missing.
	if stats.MalformedFields != 1 {
		t.Fatalf("malformed fields = %d, want 1", stats.MalformedFields)
	}
}

func TestNormalizeParsesClockMinutes(t *testing.T) {
	t.Parallel()

	repo := &stubFeedRepo{
		boxRows: []feed.BoxScoreTeamRow{
			{GameID: "0022300001", TeamID: "1610612738", GameDate: "2024-01-15", Side: "Home", Minutes: "240:30", Pts: "112", OtPeriods: "1"},
		},
	}
	svc := NewNormalizeService(repo, logging.NewNop())

	snapshot, _, err := svc.Normalize(context.Background())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	row := snapshot.TeamRows[0]
	if row.Minutes == nil || *row.Minutes != 240.5 {
		t.Fatalf("minutes = %v, want 240.5", row.Minutes)
	}
	if row.SideHint != feed.SideHome {
		t.Fatalf("side hint = %v, want home", row.SideHint)
	}
	if row.OtPeriods == nil || *row.OtPeriods != 1 {
		t.Fatalf("ot periods = %v, want 1", row.OtPeriods)
	}
}

func TestNormalizeDateLayouts(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"2024-01-15", "2024-01-15T00:00:00", "Jan 15, 2024", "01/15/2024"} {
		repo := &stubFeedRepo{
			gameLogs: []feed.GameLogRow{
				{GameID: "0022300001", TeamID: "1610612738", GameDate: raw},
			},
		}
		svc := NewNormalizeService(repo, logging.NewNop())
		snapshot, _, err := svc.Normalize(context.Background())
		if err != nil {
			t.Fatalf("Normalize(%q): %v", raw, err)
		}
		row := snapshot.TeamRows[0]
		if !row.HasDate {
			t.Fatalf("date %q not parsed", raw)
		}
		if row.GameDate.Year() != 2024 || row.GameDate.Month() != 1 || row.GameDate.Day() != 15 {
			t.Fatalf("date %q parsed as %v", raw, row.GameDate)
		}
	}
}

package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/courtledger/courtledger/internal/domain/feed"
	"github.com/courtledger/courtledger/internal/domain/teamgame"
	"github.com/courtledger/courtledger/internal/platform/logging"
)

func fullGameLogRow(gameID, teamID, matchup, winLoss, pts string) feed.GameLogRow {
	return feed.GameLogRow{
		GameID:     gameID,
		TeamID:     teamID,
		GameDate:   "2024-01-15",
		Matchup:    matchup,
		WinLoss:    winLoss,
		SeasonType: "Regular Season",
		Minutes:    "240",
		Pts:        pts,
		Fgm:        "40", Fga: "88",
		Fg3m: "12", Fg3a: "34",
		Ftm: "16", Fta: "21",
		Reb: "44", Ast: "26", Stl: "7", Blk: "5", Tov: "13", Pf: "18",
	}
}

func newPipeline(feedRepo *stubFeedRepo) (*PipelineService, *stubGameRepo, *stubTeamGameRepo, *stubSummaryRepo) {
	nop := logging.NewNop()
	gameRepo := &stubGameRepo{}
	teamRepo := &stubTeamGameRepo{}
	summaryRepo := &stubSummaryRepo{}
	driftSvc := NewDriftService(newStubDriftRepo(), DefaultDriftThresholds(), nil, nop)
	svc := NewPipelineService(
		NewNormalizeService(feedRepo, nop),
		NewIdentityService(nop),
		NewAttributeService(&stubOverrideRepo{}, nop),
		NewReconcileService(DefaultReconcileThresholds(), nop),
		NewImputeService(nop),
		driftSvc,
		gameRepo,
		teamRepo,
		summaryRepo,
		nop,
	)
	return svc, gameRepo, teamRepo, summaryRepo
}

func TestPipelineRunPublishable(t *testing.T) {
	t.Parallel()

	feedRepo := &stubFeedRepo{
		gameLogs: []feed.GameLogRow{
			fullGameLogRow("22300001", "BOS", "BOS vs. NYK", "W", "108"),
			fullGameLogRow("22300001", "NYK", "NYK @ BOS", "L", "104"),
		},
		boxRows: []feed.BoxScoreTeamRow{
			{GameID: "0022300001", TeamID: "BOS", Side: "home", GameDate: "2024-01-15", Minutes: "240", Pts: "108", OtPeriods: "0"},
			{GameID: "0022300001", TeamID: "NYK", Side: "away", GameDate: "2024-01-15", Minutes: "240", Pts: "104", OtPeriods: "0"},
		},
	}
	svc, gameRepo, teamRepo, summaryRepo := newPipeline(feedRepo)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.True(t, summary.Publishable)
	require.Zero(t, summary.ViolationTotal())
	require.Zero(t, summary.ExcludedGames)

	require.Len(t, gameRepo.games, 1)
	require.Equal(t, "0022300001", gameRepo.games[0].GameID)
	require.Equal(t, "BOS", gameRepo.games[0].HomeTeamID)
	require.Equal(t, "NYK", gameRepo.games[0].AwayTeamID)

	require.Len(t, teamRepo.rows, 2)
	for _, row := range teamRepo.rows {
		require.NotEqual(t, teamgame.SideUnresolved, row.Side)
	}
	require.Empty(t, gameRepo.unpublished)

	saved, ok, err := summaryRepo.Latest(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, summary.RunID, saved.RunID)
}

func TestPipelineRunGateBlocksPublication(t *testing.T) {
	t.Parallel()

	feedRepo := &stubFeedRepo{
		gameLogs: []feed.GameLogRow{
			fullGameLogRow("22300001", "BOS", "BOS vs. NYK", "W", "108"),
			fullGameLogRow("22300001", "NYK", "NYK @ BOS", "L", "104"),
			// A second game with only one team row fails the cardinality
			// check and must be excluded, not published.
			fullGameLogRow("22300002", "LAL", "LAL vs. GSW", "W", "120"),
		},
		boxRows: []feed.BoxScoreTeamRow{
			{GameID: "0022300001", TeamID: "BOS", Side: "home", GameDate: "2024-01-15", Minutes: "240", Pts: "108"},
			{GameID: "0022300001", TeamID: "NYK", Side: "away", GameDate: "2024-01-15", Minutes: "240", Pts: "104"},
		},
	}
	svc, gameRepo, teamRepo, summaryRepo := newPipeline(feedRepo)

	summary, err := svc.Run(context.Background())
	require.ErrorIs(t, err, ErrRunUnpublishable)
	require.False(t, summary.Publishable)
	require.Equal(t, 1, summary.Violations[violationTeamRowCardinality])
	require.Equal(t, 1, summary.ExcludedGames)

	require.Equal(t, []string{"0022300002"}, gameRepo.unpublished)
	require.Equal(t, []string{"0022300002"}, teamRepo.unpublished)
	// The healthy game still lands in the canonical tables.
	require.Len(t, gameRepo.games, 2)

	// The summary is persisted even for a blocked run.
	saved, ok, err := summaryRepo.Latest(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, saved.Publishable)
}

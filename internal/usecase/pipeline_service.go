package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/courtledger/courtledger/internal/domain/game"
	"github.com/courtledger/courtledger/internal/domain/runreport"
	"github.com/courtledger/courtledger/internal/domain/teamgame"
	"github.com/courtledger/courtledger/internal/platform/logging"
)

// PipelineService drives one batch run: normalize, resolve identity,
// resolve attributes, reconcile, impute, measure drift, then gate
// publication. Every stage reads a fully materialized input and produces a
// new one; a re-run over an unchanged snapshot yields identical output.
type PipelineService struct {
	normalizer  *NormalizeService
	identity    *IdentityService
	attributes  *AttributeService
	reconciler  *ReconcileService
	imputer     *ImputeService
	drift       *DriftService
	gameRepo    game.Repository
	teamRepo    teamgame.Repository
	summaryRepo runreport.Repository
	now         func() time.Time
	logger      *logging.Logger
}

func NewPipelineService(
	normalizer *NormalizeService,
	identity *IdentityService,
	attributes *AttributeService,
	reconciler *ReconcileService,
	imputer *ImputeService,
	driftSvc *DriftService,
	gameRepo game.Repository,
	teamRepo teamgame.Repository,
	summaryRepo runreport.Repository,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PipelineService{
		normalizer:  normalizer,
		identity:    identity,
		attributes:  attributes,
		reconciler:  reconciler,
		imputer:     imputer,
		drift:       driftSvc,
		gameRepo:    gameRepo,
		teamRepo:    teamRepo,
		summaryRepo: summaryRepo,
		now:         time.Now,
		logger:      logger,
	}
}

// Gate violation names, stable across runs so dashboards can key on them.
const (
	violationSeasonTypeMonth    = "season_type_month"
	violationTeamRowCardinality = "team_row_cardinality"
	violationHomeAwayBalance    = "home_away_balance"
	violationWinLossBalance     = "win_loss_balance"
	violationImputationCoverage = "imputation_coverage"
)

// Run executes the full pipeline. The run always completes and always
// persists a summary; ErrRunUnpublishable is returned after persistence
// when the quality gate found violations.
func (s *PipelineService) Run(ctx context.Context) (runreport.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run")
	defer span.End()

	startedAt := s.now().UTC()
	summary := runreport.Summary{
		RunID:      startedAt.Format("20060102T150405Z"),
		StartedAt:  startedAt,
		Violations: make(map[string]int),
	}

	snapshot, normalizeStats, err := s.normalizer.Normalize(ctx)
	if err != nil {
		return summary, fmt.Errorf("normalize: %w", err)
	}
	summary.DroppedRows = normalizeStats.DroppedRows
	summary.MalformedFields = normalizeStats.MalformedFields

	identityResult, err := s.identity.Resolve(ctx, snapshot)
	if err != nil {
		return summary, fmt.Errorf("resolve identity: %w", err)
	}
	summary.GamesWithoutDate = identityResult.GamesWithoutDate
	summary.LegacyResolved = identityResult.LegacyResolved
	summary.LegacyAmbiguous = identityResult.LegacyAmbiguous
	summary.LegacyUnmatched = identityResult.LegacyUnmatched
	summary.SeasonTypeVotes = identityResult.SeasonTypeVotes

	attributeResult, err := s.attributes.ResolveSides(ctx, snapshot, identityResult.Games)
	if err != nil {
		return summary, fmt.Errorf("resolve sides: %w", err)
	}
	summary.UnresolvedSides = attributeResult.UnresolvedSides

	reconcileResult, err := s.reconciler.Reconcile(ctx, snapshot, attributeResult.Rows)
	if err != nil {
		return summary, fmt.Errorf("reconcile metrics: %w", err)
	}
	summary.PtsMismatches = reconcileResult.PtsMismatches
	summary.InvalidMinutes = reconcileResult.InvalidMinutes

	imputeResult, err := s.imputer.Impute(ctx, reconcileResult.Rows)
	if err != nil {
		return summary, fmt.Errorf("impute metrics: %w", err)
	}
	summary.ImputedValues = imputeResult.ImputedValues

	games := fillGameSides(identityResult.Games, imputeResult.Rows)
	excluded := s.qualityGate(games, imputeResult.Rows, imputeResult.Uncovered, &summary)
	summary.ExcludedGames = len(excluded)
	summary.Publishable = summary.ViolationTotal() == 0

	if err := s.gameRepo.ReplaceGames(ctx, games); err != nil {
		return summary, fmt.Errorf("replace canonical games: %w", err)
	}
	if err := s.gameRepo.ReplaceBridge(ctx, identityResult.Bridge); err != nil {
		return summary, fmt.Errorf("replace identity bridge: %w", err)
	}
	if err := s.teamRepo.ReplaceTeamGames(ctx, imputeResult.Rows); err != nil {
		return summary, fmt.Errorf("replace canonical team games: %w", err)
	}
	if len(excluded) > 0 {
		if err := s.gameRepo.MarkGamesUnpublished(ctx, excluded); err != nil {
			return summary, fmt.Errorf("mark games unpublished: %w", err)
		}
		if err := s.teamRepo.MarkGamesUnpublished(ctx, excluded); err != nil {
			return summary, fmt.Errorf("mark team games unpublished: %w", err)
		}
	}

	if s.drift != nil {
		if _, count, err := s.drift.Measure(ctx, imputeResult.Rows); err != nil {
			if !errors.Is(err, ErrNoBaseline) {
				return summary, fmt.Errorf("measure drift: %w", err)
			}
			s.logger.WarnContext(ctx, "skipping drift measurement", "reason", "no baseline version")
		} else {
			s.logger.InfoContext(ctx, "drift measured", "observations", count)
		}
		if version, err := s.pinnedBaselineVersion(ctx); err == nil {
			summary.BaselineVersion = version
		}
	}

	summary.FinishedAt = s.now().UTC()
	if err := s.summaryRepo.Save(ctx, summary); err != nil {
		return summary, fmt.Errorf("save run summary: %w", err)
	}
	s.logger.InfoContext(ctx, "pipeline run complete", "summary", EncodeSummary(summary))

	if !summary.Publishable {
		return summary, errors.Wrapf(ErrRunUnpublishable,
			"%d violation(s) across %d check(s)", summary.ViolationTotal(), len(summary.Violations))
	}
	return summary, nil
}

func (s *PipelineService) pinnedBaselineVersion(ctx context.Context) (int, error) {
	if s.drift == nil {
		return 0, nil
	}
	return s.drift.driftRepo.LatestBaselineVersion(ctx)
}

// qualityGate re-derives the publish-gating invariants from the finished
// output, the same way an external auditor would, and returns the ids of
// games excluded from the published set.
func (s *PipelineService) qualityGate(games []game.Game, rows []teamgame.TeamGame, uncovered int, summary *runreport.Summary) []string {
	excludedSet := make(map[string]struct{})
	exclude := func(violation string, gameIDs ...string) {
		summary.Violations[violation] += len(gameIDs)
		for _, id := range gameIDs {
			excludedSet[id] = struct{}{}
		}
	}

	if violating := CheckSeasonMonthInvariant(games); len(violating) > 0 {
		exclude(violationSeasonTypeMonth, violating...)
	}

	type gameTally struct {
		rows, home, away, wins, losses int
		hasResult                      bool
	}
	tallies := make(map[string]*gameTally, len(games))
	for _, g := range games {
		tallies[g.GameID] = &gameTally{}
	}
	for _, row := range rows {
		tally, ok := tallies[row.GameID]
		if !ok {
			continue
		}
		tally.rows++
		switch row.Side {
		case teamgame.SideHome:
			tally.home++
		case teamgame.SideAway:
			tally.away++
		}
		switch row.WinLoss {
		case "W":
			tally.wins++
			tally.hasResult = true
		case "L":
			tally.losses++
			tally.hasResult = true
		}
	}

	gameIDs := make([]string, 0, len(tallies))
	for id := range tallies {
		gameIDs = append(gameIDs, id)
	}
	sort.Strings(gameIDs)
	for _, id := range gameIDs {
		tally := tallies[id]
		if tally.rows != 2 {
			exclude(violationTeamRowCardinality, id)
			continue
		}
		if tally.home != 1 || tally.away != 1 {
			exclude(violationHomeAwayBalance, id)
		}
		if tally.hasResult && (tally.wins != 1 || tally.losses != 1) {
			exclude(violationWinLossBalance, id)
		}
	}

	if uncovered > 0 {
		// Coverage failures are not attributable to a single game id but
		// still stop promotion of the run.
		summary.Violations[violationImputationCoverage] += uncovered
	}

	excluded := make([]string, 0, len(excludedSet))
	for id := range excludedSet {
		excluded = append(excluded, id)
	}
	sort.Strings(excluded)
	return excluded
}

// fillGameSides copies resolved home/away team ids back onto the canonical
// game rows once both sides of a pair are known.
func fillGameSides(games []game.Game, rows []teamgame.TeamGame) []game.Game {
	type sides struct{ home, away string }
	sidesByGame := make(map[string]*sides, len(games))
	for _, row := range rows {
		entry, ok := sidesByGame[row.GameID]
		if !ok {
			entry = &sides{}
			sidesByGame[row.GameID] = entry
		}
		switch row.Side {
		case teamgame.SideHome:
			entry.home = row.TeamID
		case teamgame.SideAway:
			entry.away = row.TeamID
		}
	}
	out := make([]game.Game, len(games))
	copy(out, games)
	for i := range out {
		if entry, ok := sidesByGame[out[i].GameID]; ok && entry.home != "" && entry.away != "" && entry.home != entry.away {
			out[i].HomeTeamID = entry.home
			out[i].AwayTeamID = entry.away
		}
	}
	return out
}

// EncodeSummary renders the machine-readable run summary. Buffers are
// pooled because summaries are also emitted per run into the log stream.
func EncodeSummary(summary runreport.Summary) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	encoded, err := sonic.Marshal(summary)
	if err != nil {
		return fmt.Sprintf("{\"run_id\":%q}", summary.RunID)
	}
	_, _ = buf.Write(encoded)
	return buf.String()
}

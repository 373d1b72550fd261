package usecase

import (
	"context"
	"math"

	"github.com/courtledger/courtledger/internal/domain/feed"
	"github.com/courtledger/courtledger/internal/domain/teamgame"
	"github.com/courtledger/courtledger/internal/platform/logging"
)

// ReconcileThresholds are the physical-plausibility and tolerance knobs for
// metric reconciliation.
type ReconcileThresholds struct {
	// PointsTolerance accommodates scorer-table correction lag: a reported
	// total within this many points of the selected value is not a mismatch.
	PointsTolerance float64
	// RegulationMinutes is the per-team total for a regulation game.
	RegulationMinutes float64
	// OvertimeMinutes is the additional per-team total per overtime period.
	OvertimeMinutes float64
	// MinutesTolerance is the band around the expected total inside which a
	// reported team-minutes value is accepted.
	MinutesTolerance float64
}

// DefaultReconcileThresholds mirror the scoring rules of the sport: 240
// regulation minutes, 25 per overtime period, a 2-point scorer-lag
// tolerance, and a 20-minute plausibility band.
func DefaultReconcileThresholds() ReconcileThresholds {
	return ReconcileThresholds{
		PointsTolerance:   2,
		RegulationMinutes: 240,
		OvertimeMinutes:   25,
		MinutesTolerance:  20,
	}
}

// ReconcileService cross-derives point totals and playing time from
// independent signals and flags physically impossible values. Nothing is
// clamped: an implausible value is marked invalid and excluded from use.
type ReconcileService struct {
	thresholds ReconcileThresholds
	logger     *logging.Logger
}

type ReconcileResult struct {
	Rows           []teamgame.TeamGame
	PtsMismatches  int
	InvalidMinutes int
}

func NewReconcileService(thresholds ReconcileThresholds, logger *logging.Logger) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReconcileService{thresholds: thresholds, logger: logger}
}

// Reconcile fills each team row's statistical line from the normalized
// snapshot and validates it. rows is consumed as an immutable input; a new
// slice is returned.
func (s *ReconcileService) Reconcile(ctx context.Context, snapshot feed.Snapshot, rows []teamgame.TeamGame) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.Reconcile")
	defer span.End()

	type rowKey struct{ gameID, teamID string }
	logRows := make(map[rowKey]feed.TeamGameRow)
	boxRows := make(map[rowKey]feed.TeamGameRow)
	for _, raw := range snapshot.TeamRows {
		key := rowKey{gameID: raw.GameID, teamID: raw.TeamID}
		switch raw.Vendor {
		case feed.VendorGameLog:
			logRows[key] = raw
		case feed.VendorBoxScore:
			boxRows[key] = raw
		}
	}

	result := ReconcileResult{Rows: make([]teamgame.TeamGame, 0, len(rows))}
	for _, row := range rows {
		key := rowKey{gameID: row.GameID, teamID: row.TeamID}
		logRow, hasLog := logRows[key]
		boxRow, hasBox := boxRows[key]

		out := row
		out.Stats = make(map[string]*float64, len(teamgame.StatFields))
		if hasLog {
			for _, field := range teamgame.StatFields {
				out.Stats[field] = logRow.Stat(field)
			}
		}

		// Points: three independent estimates, selected by precedence.
		out.PtsReported = out.Stats["pts"]
		out.PtsFormula = formulaPoints(out.Stats["fgm"], out.Stats["fg3m"], out.Stats["ftm"])
		if hasBox {
			out.PtsBox = boxRow.Stat("pts")
		}
		selected, source := selectPoints(out.PtsBox, out.PtsFormula, out.PtsReported)
		out.Stats["pts"] = selected
		out.PtsSource = source
		if out.PtsReported != nil && selected != nil &&
			math.Abs(*out.PtsReported-*selected) > s.thresholds.PointsTolerance {
			out.PtsMismatch = true
			result.PtsMismatches++
		}

		// Playing time: raw field wins for the overtime count, minutes
		// inference backfills vendors that never report it.
		var rawMinutes *float64
		if hasLog && logRow.Minutes != nil {
			rawMinutes = logRow.Minutes
		} else if hasBox {
			rawMinutes = boxRow.Minutes
		}
		var rawOt *int
		if hasBox {
			rawOt = boxRow.OtPeriods
		}
		out.OtPeriods = s.resolveOvertimePeriods(rawOt, rawMinutes)
		out.Minutes, out.MinutesInvalid = s.validateMinutes(rawMinutes, out.OtPeriods)
		if out.MinutesInvalid {
			result.InvalidMinutes++
		}

		// Shooting percentages are always recomputed from makes and
		// attempts, never trusted from the source.
		out.FgPct = recomputePct(out.Stats["fgm"], out.Stats["fga"])
		out.Fg3Pct = recomputePct(out.Stats["fg3m"], out.Stats["fg3a"])
		out.FtPct = recomputePct(out.Stats["ftm"], out.Stats["fta"])

		result.Rows = append(result.Rows, out)
	}

	s.logger.InfoContext(ctx, "reconciled team metrics",
		"rows", len(result.Rows),
		"pts_mismatches", result.PtsMismatches,
		"invalid_minutes", result.InvalidMinutes,
	)
	return result, nil
}

// formulaPoints derives a point total from the scoring formula:
// 2*(fgm-fg3m) + 3*fg3m + ftm.
func formulaPoints(fgm, fg3m, ftm *float64) *float64 {
	if fgm == nil || fg3m == nil || ftm == nil {
		return nil
	}
	value := 2*(*fgm-*fg3m) + 3*(*fg3m) + *ftm
	return &value
}

// selectPoints applies the precedence policy: box-score total, else formula
// value, else the reported value.
func selectPoints(box, formula, reported *float64) (*float64, teamgame.PtsSource) {
	switch {
	case box != nil:
		return box, teamgame.PtsSourceBoxScore
	case formula != nil:
		return formula, teamgame.PtsSourceFormula
	case reported != nil:
		return reported, teamgame.PtsSourceReported
	default:
		return nil, teamgame.PtsSourceNone
	}
}

// resolveOvertimePeriods prefers the raw overtime field over the
// minutes-based inference; the inference only backfills a missing field.
func (s *ReconcileService) resolveOvertimePeriods(raw *int, minutes *float64) int {
	if raw != nil && *raw >= 0 {
		return *raw
	}
	if minutes == nil {
		return 0
	}
	over := *minutes - s.thresholds.RegulationMinutes
	if over <= s.thresholds.OvertimeMinutes/2 {
		return 0
	}
	return int(math.Round(over / s.thresholds.OvertimeMinutes))
}

// validateMinutes accepts a raw team-minutes value only inside the
// plausibility band around regulation plus overtime. Values outside the
// band are excluded from use, never clamped.
func (s *ReconcileService) validateMinutes(raw *float64, otPeriods int) (*float64, bool) {
	if raw == nil {
		return nil, false
	}
	expected := s.thresholds.RegulationMinutes + float64(otPeriods)*s.thresholds.OvertimeMinutes
	if math.Abs(*raw-expected) > s.thresholds.MinutesTolerance {
		return nil, true
	}
	return raw, false
}

// recomputePct returns makes/attempts, discarding results outside [0, 1].
func recomputePct(makes, attempts *float64) *float64 {
	if makes == nil || attempts == nil || *attempts <= 0 {
		return nil
	}
	value := *makes / *attempts
	if value < 0 || value > 1 {
		return nil
	}
	return &value
}

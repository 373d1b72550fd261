package httpapi

import (
	"fmt"
	"net/http"

	"github.com/courtledger/courtledger/internal/domain/drift"
	"github.com/courtledger/courtledger/internal/domain/runreport"
	"github.com/courtledger/courtledger/internal/platform/logging"
	"github.com/courtledger/courtledger/internal/usecase"
)

// Handler exposes the read-only inspection endpoints over the persisted
// run summaries and drift measurements. The pipeline itself runs from the
// CLI, never over HTTP.
type Handler struct {
	reports   runreport.Repository
	driftRepo drift.Repository
	logger    *logging.Logger
}

func NewHandler(reports runreport.Repository, driftRepo drift.Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		reports:   reports,
		driftRepo: driftRepo,
		logger:    logger,
	}
}

func registerSystemRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func registerInspectionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/runs/latest", handler.LatestRun)
	mux.HandleFunc("GET /v1/drift/observations", handler.DriftObservations)
	mux.HandleFunc("GET /v1/drift/baselines/latest", handler.LatestBaselines)
}

func (h *Handler) LatestRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LatestRun")
	defer span.End()

	summary, ok, err := h.reports.Latest(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "load latest run summary", "error", err)
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no pipeline run recorded yet", usecase.ErrNotFound))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

type driftObservationPayload struct {
	Month           string   `json:"month"`
	Metric          string   `json:"metric"`
	BaselineVersion int      `json:"baseline_version"`
	SampleSize      int      `json:"sample_size"`
	MonthMean       float64  `json:"month_mean"`
	MeanShift       *float64 `json:"mean_shift"`
	PSI             *float64 `json:"psi"`
	MajorShift      bool     `json:"major_shift"`
	MajorPSI        bool     `json:"major_psi"`
}

func (h *Handler) DriftObservations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DriftObservations")
	defer span.End()

	observations, err := h.driftRepo.ListObservations(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list drift observations", "error", err)
		writeError(ctx, w, err)
		return
	}

	payload := make([]driftObservationPayload, 0, len(observations))
	for _, obs := range observations {
		payload = append(payload, driftObservationPayload{
			Month:           obs.Month,
			Metric:          obs.Metric,
			BaselineVersion: obs.BaselineVersion,
			SampleSize:      obs.SampleSize,
			MonthMean:       obs.MonthMean,
			MeanShift:       obs.MeanShift,
			PSI:             obs.PSI,
			MajorShift:      obs.MajorShift,
			MajorPSI:        obs.MajorPSI,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, payload)
}

type baselinePayload struct {
	Version    int       `json:"version"`
	Metric     string    `json:"metric"`
	Mean       float64   `json:"mean"`
	StdDev     float64   `json:"stddev"`
	Cuts       []float64 `json:"decile_cuts"`
	Seasons    []int     `json:"seasons"`
	SampleSize int       `json:"sample_size"`
}

func (h *Handler) LatestBaselines(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LatestBaselines")
	defer span.End()

	version, err := h.driftRepo.LatestBaselineVersion(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "load latest baseline version", "error", err)
		writeError(ctx, w, err)
		return
	}
	if version == 0 {
		writeError(ctx, w, fmt.Errorf("%w: run the baseline command first", usecase.ErrNoBaseline))
		return
	}

	baselines, err := h.driftRepo.ListBaselines(ctx, version)
	if err != nil {
		h.logger.ErrorContext(ctx, "list baselines", "error", err, "version", version)
		writeError(ctx, w, err)
		return
	}

	payload := make([]baselinePayload, 0, len(baselines))
	for _, baseline := range baselines {
		payload = append(payload, baselinePayload{
			Version:    baseline.Version,
			Metric:     baseline.Metric,
			Mean:       baseline.Mean,
			StdDev:     baseline.StdDev,
			Cuts:       baseline.Cuts,
			Seasons:    baseline.Seasons,
			SampleSize: baseline.SampleSize,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, payload)
}

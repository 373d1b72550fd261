package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_EngineDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Engine.PointsTolerance != 2 {
		t.Fatalf("unexpected points tolerance: %g", cfg.Engine.PointsTolerance)
	}
	if cfg.Engine.RegulationMinutes != 240 || cfg.Engine.OvertimeMinutes != 25 {
		t.Fatalf("unexpected minutes model: %g + %g per OT", cfg.Engine.RegulationMinutes, cfg.Engine.OvertimeMinutes)
	}
	if cfg.Engine.MajorMeanShift != 3 || cfg.Engine.MajorPSI != 0.25 {
		t.Fatalf("unexpected drift cutoffs: shift %g psi %g", cfg.Engine.MajorMeanShift, cfg.Engine.MajorPSI)
	}
	if cfg.Engine.BaselineSeasons != 2 {
		t.Fatalf("unexpected baseline seasons: %d", cfg.Engine.BaselineSeasons)
	}
	if len(cfg.Engine.DriftMetrics) != 6 || cfg.Engine.DriftMetrics[0] != "pts" {
		t.Fatalf("unexpected drift metrics: %v", cfg.Engine.DriftMetrics)
	}
}

func TestLoad_EngineValidation(t *testing.T) {
	t.Run("negative tolerance rejected", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("ENGINE_POINTS_TOLERANCE", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative ENGINE_POINTS_TOLERANCE")
		}
	})

	t.Run("unknown drift metric rejected", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("ENGINE_DRIFT_METRICS", "pts,plus_minus")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown drift metric")
		}
	})

	t.Run("zero workers rejected", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("ENGINE_DRIFT_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for zero ENGINE_DRIFT_WORKERS")
		}
	})

	t.Run("unparseable float rejected", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("ENGINE_DRIFT_MAJOR_PSI", "lots")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid ENGINE_DRIFT_MAJOR_PSI")
		}
	})
}

func TestLoad_EngineOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ENGINE_POINTS_TOLERANCE", "3")
	t.Setenv("ENGINE_DRIFT_METRICS", "pts,reb")
	t.Setenv("ENGINE_DRIFT_BASELINE_SEASONS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Engine.PointsTolerance != 3 {
		t.Fatalf("unexpected points tolerance: %g", cfg.Engine.PointsTolerance)
	}
	if len(cfg.Engine.DriftMetrics) != 2 {
		t.Fatalf("unexpected drift metrics: %v", cfg.Engine.DriftMetrics)
	}
	if cfg.Engine.BaselineSeasons != 3 {
		t.Fatalf("unexpected baseline seasons: %d", cfg.Engine.BaselineSeasons)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "courtledger-engine-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "courtledger-engine-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_Timeouts(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_READ_TIMEOUT", "5s")
	t.Setenv("APP_WRITE_TIMEOUT", "25s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Fatalf("unexpected read timeout: %s", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout != 25*time.Second {
		t.Fatalf("unexpected write timeout: %s", cfg.WriteTimeout)
	}
}

package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/kejahlabs/kejah-backend/api/responses"
	"github.com/kejahlabs/kejah-backend/pkg/bigquery"
	"github.com/kejahlabs/kejah-backend/pkg/config"
	"github.com/kejahlabs/kejah-backend/pkg/db"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
	"github.com/kejahlabs/kejah-backend/pkg/logger"
	"github.com/kejahlabs/kejah-backend/pkg/redis"
	"github.com/kejahlabs/kejah-backend/pkg/storage/gcs"
)

const readinessTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kejah-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired backend and reports each one's state.
// Optional backends that are not configured are skipped rather than
// reported as failures.
func HealthReady(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	cache redis.Pinger,
	storage gcs.Pinger,
	warehouse bigquery.Pinger,
) http.HandlerFunc {
	type check struct {
		name   string
		pinger interface {
			Ping(context.Context) error
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kejah-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := []check{}
		if database != nil {
			checks = append(checks, check{"database", database})
		}
		if cache != nil {
			checks = append(checks, check{"redis", cache})
		}
		if storage != nil {
			checks = append(checks, check{"gcs", storage})
		}
		if warehouse != nil {
			checks = append(checks, check{"bigquery", warehouse})
		}

		statuses := make(map[string]string, len(checks))
		var pingErr error
		for _, c := range checks {
			if err := c.pinger.Ping(ctx); err != nil {
				pingErr = multierr.Append(pingErr, fmt.Errorf("%s: %w", c.name, err))
				statuses[c.name] = "down"
				logg.Warn(logg.WithField(ctx, "dependency", c.name), "readiness check failed")
				continue
			}
			statuses[c.name] = "up"
		}

		if pingErr != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeBackendUnavailable, pingErr, "one or more backends are unavailable").
					WithDetails(map[string]any{"checks": statuses}))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": statuses})
	}
}

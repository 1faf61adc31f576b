package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/verdant-oils/storefront-backend/api/responses"
	"github.com/verdant-oils/storefront-backend/pkg/config"
	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Verdant-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the dependencies the API cannot serve without:
// the cache and the commerce backend.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisPinger, commercePinger pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Verdant-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if redisPinger != nil {
			if err := redisPinger.Ping(ctx); err != nil {
				checks["redis"] = "down"
				healthy = false
				logg.Error(ctx, "readiness: redis unreachable", err)
			} else {
				checks["redis"] = "up"
			}
		}
		if commercePinger != nil {
			if err := commercePinger.Ping(ctx); err != nil {
				checks["commerce"] = "down"
				healthy = false
				logg.Error(ctx, "readiness: commerce backend unreachable", err)
			} else {
				checks["commerce"] = "up"
			}
		}

		if !healthy {
			responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeDependency, "not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

package controllers

import (
	"net/http"

	"github.com/avenirinteriors/estimation-backend/api/responses"
	"github.com/avenirinteriors/estimation-backend/pkg/config"
	"github.com/avenirinteriors/estimation-backend/pkg/db"
	"github.com/avenirinteriors/estimation-backend/pkg/logger"
	pkgredis "github.com/avenirinteriors/estimation-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Avenir-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Avenir-Env", cfg.App.Env)

		checks := map[string]string{"database": "ok", "redis": "ok"}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				checks["database"] = err.Error()
				healthy = false
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			}
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
			if logg != nil {
				logg.Warn(r.Context(), "readiness check failed")
			}
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}

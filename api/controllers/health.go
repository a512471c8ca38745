package controllers

import (
	"net/http"

	"github.com/vortexsales/pos-backend/api/responses"
	"github.com/vortexsales/pos-backend/pkg/config"
	"github.com/vortexsales/pos-backend/pkg/db"
	pkgerrors "github.com/vortexsales/pos-backend/pkg/errors"
	"github.com/vortexsales/pos-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vortex-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, client *db.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vortex-Env", cfg.App.Env)
		if client != nil {
			if err := client.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

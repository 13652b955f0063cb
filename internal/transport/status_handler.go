// Package transport exposes the account status over HTTP and the service health over gRPC.
package transport

import (
	"encoding/json"
	"net/http"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// StatusHandler serves the latest account views and accepts refresh requests.
type StatusHandler struct {
	status    StatusSource
	refresher Refresher
	logger    *zap.Logger
}

func NewStatusHandler(status StatusSource, refresher Refresher, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		status:    status,
		refresher: refresher,
		logger:    logger.Named("status_handler"),
	}
}

// Register mounts the handler routes on mux.
func (h *StatusHandler) Register(mux *gwruntime.ServeMux) error {
	routes := []struct {
		method  string
		pattern string
		handler gwruntime.HandlerFunc
	}{
		{http.MethodGet, "/api/v1/accounts", h.accounts},
		{http.MethodGet, "/api/v1/accounts/{currency}", h.account},
		{http.MethodPost, "/api/v1/refresh", h.refresh},
	}
	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.pattern, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *StatusHandler) accounts(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	h.writeJSON(w, http.StatusOK, h.status.All())
}

func (h *StatusHandler) account(w http.ResponseWriter, _ *http.Request, params map[string]string) {
	currency, err := model.ParseCurrency(params["currency"])
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views := h.status.ByCurrency(currency)
	if len(views) == 0 {
		h.writeError(w, http.StatusNotFound, "no account for "+string(currency))
		return
	}
	h.writeJSON(w, http.StatusOK, views)
}

type refreshResponse struct {
	Queued bool `json:"queued"`
}

// refresh answers 202 even when a refresh is already pending; Queued tells the two apart.
func (h *StatusHandler) refresh(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	queued := h.refresher.Trigger()
	h.logger.Info("refresh requested", zap.Bool("queued", queued))
	h.writeJSON(w, http.StatusAccepted, refreshResponse{Queued: queued})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *StatusHandler) writeError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, errorResponse{Error: msg})
}

func (h *StatusHandler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}

package transport

import (
	"net/http"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Health reports the outcome of the last refresh cycle through grpc.health.v1.Health.
// It is NOT_SERVING until the first cycle in which an account refreshed.
type Health struct {
	server  *health.Server
	service string
}

func NewHealth(service string) *Health {
	h := &Health{server: health.NewServer(), service: service}
	h.SetHealthy(false)
	return h
}

// Register adds the health service to a gRPC server.
func (h *Health) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// RegisterHTTP mounts GET /healthz, answering 503 while not serving.
func (h *Health) RegisterHTTP(mux *gwruntime.ServeMux) error {
	return mux.HandlePath(http.MethodGet, "/healthz", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		resp, err := h.server.Check(r.Context(), &healthpb.HealthCheckRequest{Service: h.service})
		if err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			http.Error(w, healthpb.HealthCheckResponse_NOT_SERVING.String(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(resp.GetStatus().String()))
	})
}

func (h *Health) SetHealthy(healthy bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if healthy {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.server.SetServingStatus("", status)
	if h.service != "" {
		h.server.SetServingStatus(h.service, status)
	}
}

// Shutdown marks every service NOT_SERVING for good.
func (h *Health) Shutdown() {
	h.server.Shutdown()
}

// pkg/api/router.go

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	_ "github.com/receipt-microservice/docs"
	"github.com/receipt-microservice/pkg/logger"
	"github.com/receipt-microservice/pkg/metrics"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter wires every route onto a gorilla/mux router.
func NewRouter(h *Handler, log *logger.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(log))

	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/generate-pdf", h.GeneratePDF).Methods(http.MethodPost)
	r.HandleFunc("/webhook/hotmart", h.Webhook).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return r
}

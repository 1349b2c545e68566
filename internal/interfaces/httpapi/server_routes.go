package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/heal-week", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunHealWeekJob)))
	mux.Handle("POST /v1/internal/jobs/repair-points", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRepairPointsJob)))
	mux.Handle("POST /v1/internal/jobs/settle", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSettleJob)))
}

package handlers

import (
	"net/http"

	"taskManager/internal/logger"

	"go.uber.org/zap"
)

const serviceName = "task-manager"

type Handler struct {
	service Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{
		service: svc,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.service.HealthCheck(r.Context()); err != nil {
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName))
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName))
}

// requireJSON отвечает 415, если тело запроса не application/json
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	if checkContentType(r, "application/json") {
		return true
	}

	logger.Warn("HTTP: Неверный тип контента",
		zap.String("expected", "application/json"),
		zap.String("received", r.Header.Get("Content-Type")),
		zap.String("client_ip", r.RemoteAddr))
	responseWithJSON(w, http.StatusUnsupportedMediaType,
		toPayload("error", "UNSUPPORTED_MEDIA_TYPE"),
		toPayload("message", "Content-Type должен быть application/json"),
		toPayload("details", map[string]any{"received": r.Header.Get("Content-Type")}))
	return false
}

package handlers

import (
	"net/http"

	"taskManager/internal/logger"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	businessErr, ok := service.AsBusinessError(err)
	if !ok {
		businessErr = service.NewInternal("http", err)
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)
	if statusCode >= http.StatusInternalServerError {
		logger.Error("HTTP: Ошибка сервера", err,
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode),
			zap.String("path", r.URL.Path))
	} else {
		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode),
			zap.String("path", r.URL.Path))
	}

	details := businessErr.Details
	if details == nil {
		details = map[string]any{}
	}

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", details),
	)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation, service.CodeConflict, service.CodeStoreError:
		return http.StatusBadRequest
	case service.CodeStoreUnavailable, service.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

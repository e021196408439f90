package handlers

import (
	"net/http"
	"strconv"
	"time"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const taskIDParam = "task_id"

func (h *Handler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !requireJSON(w, r) {
		return
	}

	var request dto.TaskRequest
	if err := decodeAndValidate(w, r, &request); err != nil {
		handleError(w, r, err)
		return
	}

	created, err := h.service.CreateTask(r.Context(), request.Title, taskOptions(request)...)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.FromTask(created))
}

func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	filter, err := parseTaskFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	tasks, err := h.service.ListTasks(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (h *Handler) PutTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := parseTaskID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if !requireJSON(w, r) {
		return
	}

	var request dto.TaskRequest
	if err := decodeAndValidate(w, r, &request); err != nil {
		handleError(w, r, err)
		return
	}

	updated, err := h.service.UpdateTask(r.Context(), id, request.Title, taskOptions(request)...)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTask(updated))
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := parseTaskID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}

// taskOptions переводит необязательные поля запроса в опции сервиса
func taskOptions(request dto.TaskRequest) []service.TaskOption {
	var options []service.TaskOption
	if request.Description != nil {
		options = append(options, service.WithDescription(*request.Description))
	}
	if request.DueDate != nil {
		options = append(options, service.WithDueDate(request.DueDate.Time))
	}
	if request.Status != nil {
		options = append(options, service.WithStatus(task.Status(*request.Status)))
	}
	if request.AssignedTo != nil {
		options = append(options, service.WithAssignee(*request.AssignedTo))
	}
	return options
}

func parseTaskID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, taskIDParam)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("task_id", raw),
			zap.String("client_ip", r.RemoteAddr))
		return 0, service.NewValidationError(taskIDParam, "id должен быть положительным целым числом")
	}
	return id, nil
}

// parseTaskFilter читает status и assigned_to, пустой параметр не фильтрует
func parseTaskFilter(r *http.Request) (task.Filter, error) {
	var filter task.Filter
	query := r.URL.Query()

	if raw := query.Get("status"); raw != "" {
		status, ok := task.ParseStatus(raw)
		if !ok {
			return filter, service.NewValidationError("status", "допустимые значения: pending, in_progress, completed")
		}
		filter.Status = &status
	}

	if raw := query.Get("assigned_to"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			return filter, service.NewValidationError("assigned_to", "id должен быть положительным целым числом")
		}
		filter.AssignedTo = &userID
	}

	return filter, nil
}

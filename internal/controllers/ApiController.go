package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
	"gtmd/internal/models"
	"gtmd/internal/providers"
	"gtmd/internal/services"
)

const maxRequestBodySize = 1 << 16 // 64 KB

type ApiController struct {
	logger  providers.Logger
	service services.TimeServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.TimeServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, http.StatusOK, gson)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// ReceiveEvent buffers one file activity event. The timestamp may be sent
// as a JSON number or a string, either way an integral decimal epoch.
func (ac *ApiController) ReceiveEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		Project   string `json:"project"`
		Path      string `json:"path"`
		Timestamp any    `json:"timestamp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ts, err := parseTimestamp(payload.Timestamp)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	event := models.InputEvent{Project: payload.Project, Path: payload.Path, Timestamp: ts}
	err = ac.service.AddEvent(event.Project, event.FileEvent())
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, services.ErrUnknownProject):
		http.Error(w, "Unknown project", http.StatusNotFound)
	case errors.Is(err, services.ErrDuplicateEvent):
		http.Error(w, "Duplicate event", http.StatusConflict)
	case errors.Is(err, services.ErrInvalidEvent):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	default:
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "Add event for %s: %s", event.Project, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// parseTimestamp renders v the way JSON carried it and accepts only a
// canonical decimal epoch, so 1.5, "0x5EC0" or "0100" are refused rather
// than truncated or reinterpreted.
func parseTimestamp(v any) (int64, error) {
	text, err := cast.ToStringE(v)
	if err != nil {
		return 0, err
	}
	return models.ParseEpoch(text)
}

// GetCommits lists annotated commits of every project, filtered by the
// from, to (YYYY-MM-DD) and message query parameters.
func (ac *ApiController) GetCommits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := models.ParseDateFilter(q.Get("from"), q.Get("to"), q.Get("message"))
	if err != nil {
		ac.logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "Bad commits filter: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ac.serveFromCacheOrCompute(w, "commits:"+filter.CacheKey(), func() (any, error) {
		commits := ac.service.GetCommits(filter)
		if commits == nil {
			commits = []models.Commit{}
		}
		return commits, nil
	})
}

func (ac *ApiController) GetProjects(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "projects", func() (any, error) {
		projects := ac.service.GetProjects()
		if projects == nil {
			projects = []string{}
		}
		return projects, nil
	})
}

func (ac *ApiController) GetStatus(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "status", func() (any, error) {
		status := ac.service.GetStatus()
		if status == nil {
			status = map[string]*models.WorkdirStatus{}
		}
		return status, nil
	})
}

package controllers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"gtmd/internal/services"
)

// HealthController reports liveness plus a summary of what the daemon
// currently serves.
type HealthController struct {
	service   services.TimeServiceInterface
	startTime time.Time
	now       func() time.Time
}

type healthResponse struct {
	Status        string         `json:"status"`
	Uptime        string         `json:"uptime"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	BufferSize    int            `json:"buffer_size"`
	Commits       int            `json:"commits"`
	Projects      map[string]int `json:"projects"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := hc.now().Sub(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        uptime.Truncate(time.Second).String(),
		UptimeSeconds: uptime.Seconds(),
		BufferSize:    hc.service.GetBufferSize(),
		Projects:      make(map[string]int),
	}
	for _, project := range hc.service.GetProjects() {
		count := hc.service.GetCommitCount(project)
		resp.Projects[project] = count
		resp.Commits += count
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, gson)
}

func NewHealthController(service services.TimeServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startTime: time.Now(),
		now:       time.Now,
	}
}

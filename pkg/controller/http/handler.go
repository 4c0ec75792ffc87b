package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/usecase"
	"github.com/secmon-lab/riskgrid/pkg/utils/async"
	"github.com/secmon-lab/riskgrid/pkg/utils/errutil"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	"github.com/secmon-lab/riskgrid/pkg/utils/safe"
)

// ErrInvalidParameter is returned for path or query parameters that do not parse
var ErrInvalidParameter = goerr.New("invalid parameter")

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrInvalidParameter), errors.Is(err, usecase.ErrUnknownProvider):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrProjectNotFound), errors.Is(err, usecase.ErrCellNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, goerr.Wrap(ErrInvalidParameter, "id must be a positive integer", goerr.V(name, raw))
	}
	return id, nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

type projectResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func projectsHandler(grid GridUseCase) http.HandlerFunc {
	type response struct {
		Projects []projectResponse `json:"projects"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := grid.Projects(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}

		resp := response{Projects: make([]projectResponse, len(projects))}
		for i, p := range projects {
			resp.Projects[i] = projectResponse{
				ID:          int64(p.ID),
				Name:        p.Name,
				Description: p.Description,
			}
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

type scoreResponse struct {
	Provider string  `json:"provider"`
	Score    float64 `json:"score"`
}

type cellResponse struct {
	AttributeID   int64           `json:"attribute_id"`
	AttributeName string          `json:"attribute_name"`
	ComponentID   int64           `json:"component_id"`
	ComponentName string          `json:"component_name"`
	Capabilities  int             `json:"capabilities"`
	Scores        []scoreResponse `json:"scores"`
	Total         float64         `json:"total"`
}

type summaryResponse struct {
	Cells  int     `json:"cells"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type snapshotResponse struct {
	Provider string    `json:"provider"`
	Version  string    `json:"version"`
	BuiltAt  time.Time `json:"built_at"`
	Records  int       `json:"records"`
}

type gridResponse struct {
	ProjectID int64              `json:"project_id"`
	Cells     []cellResponse     `json:"cells"`
	Summary   summaryResponse    `json:"summary"`
	Snapshots []snapshotResponse `json:"snapshots"`
}

func toGridResponse(score *model.GridScore) gridResponse {
	resp := gridResponse{
		ProjectID: int64(score.ProjectID),
		Cells:     make([]cellResponse, len(score.Cells)),
		Summary: summaryResponse{
			Cells:  score.Summary.Cells,
			Mean:   score.Summary.Mean,
			StdDev: score.Summary.StdDev,
			Min:    score.Summary.Min,
			Max:    score.Summary.Max,
		},
		Snapshots: make([]snapshotResponse, len(score.Snapshots)),
	}

	for i, c := range score.Cells {
		cell := cellResponse{
			AttributeID:   int64(c.AttributeID),
			AttributeName: c.AttributeName,
			ComponentID:   int64(c.ComponentID),
			ComponentName: c.ComponentName,
			Capabilities:  c.Capabilities,
			Scores:        make([]scoreResponse, len(c.Scores)),
			Total:         c.Total,
		}
		for j, s := range c.Scores {
			cell.Scores[j] = scoreResponse{Provider: s.Provider, Score: s.Score}
		}
		resp.Cells[i] = cell
	}

	for i, s := range score.Snapshots {
		resp.Snapshots[i] = snapshotResponse{
			Provider: s.Provider,
			Version:  s.Version,
			BuiltAt:  s.BuiltAt,
			Records:  s.Records,
		}
	}

	return resp
}

// EncodeGrid writes score as indented JSON in the form served by the grid endpoint
func EncodeGrid(w io.Writer, score *model.GridScore) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toGridResponse(score)); err != nil {
		return goerr.Wrap(err, "failed to encode grid", goerr.V("project_id", score.ProjectID))
	}
	return nil
}

func gridHandler(grid GridUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}

		score, err := grid.Scores(r.Context(), types.ProjectID(projectID))
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}

		writeJSON(w, r, http.StatusOK, toGridResponse(score))
	}
}

type entryResponse struct {
	Section    string `json:"section"`
	Subject    string `json:"subject,omitempty"`
	ExternalID int64  `json:"external_id,omitempty"`
	Label      string `json:"label,omitempty"`
	URL        string `json:"url,omitempty"`
	Level      string `json:"level,omitempty"`
	Count      int    `json:"count,omitempty"`
}

type detailResponse struct {
	Provider string          `json:"provider"`
	Score    float64         `json:"score"`
	Entries  []entryResponse `json:"entries"`
}

func detailHandler(grid GridUseCase) http.HandlerFunc {
	type response struct {
		Details []detailResponse `json:"details"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}
		attributeID, err := pathID(r, "attributeID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}
		componentID, err := pathID(r, "componentID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}

		details, err := grid.Detail(r.Context(),
			types.ProjectID(projectID),
			types.AttributeID(attributeID),
			types.ComponentID(componentID),
			r.URL.Query().Get("provider"),
		)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}

		resp := response{Details: make([]detailResponse, len(details))}
		for i, d := range details {
			detail := detailResponse{
				Provider: d.Provider,
				Score:    d.Score,
				Entries:  make([]entryResponse, len(d.Entries)),
			}
			for j, e := range d.Entries {
				detail.Entries[j] = entryResponse{
					Section:    string(e.Section),
					Subject:    e.Subject,
					ExternalID: e.ExternalID,
					Label:      e.Label,
					URL:        e.URL,
					Level:      e.Level.String(),
					Count:      e.Count,
				}
			}
			resp.Details[i] = detail
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

// refreshHandler rebuilds a project's indices in the background and returns
// 202 immediately
func refreshHandler(grid GridUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}

		id := types.ProjectID(projectID)
		async.Dispatch(r.Context(), func(ctx context.Context) error {
			return grid.Refresh(ctx, id)
		})

		logging.From(r.Context()).Info("grid refresh requested", "project_id", id)
		writeJSON(w, r, http.StatusAccepted, map[string]any{"project_id": projectID, "status": "accepted"})
	}
}

func statusHandler(reporter StatusReporter) http.HandlerFunc {
	type response struct {
		LastAttempt *time.Time `json:"last_attempt,omitempty"`
		LastSuccess *time.Time `json:"last_success,omitempty"`
		Failures    int        `json:"failures"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		st := reporter.Status()
		resp := response{Failures: st.Failures}
		if !st.LastAttempt.IsZero() {
			resp.LastAttempt = &st.LastAttempt
		}
		if !st.LastSuccess.IsZero() {
			resp.LastSuccess = &st.LastSuccess
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

// internal/api/http/view_handler.go
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sprinkler-jobs/internal/domain"
	"sprinkler-jobs/internal/metrics"
	"sprinkler-jobs/internal/usecase"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxBodyBytes caps request bodies; forms are tiny.
const maxBodyBytes = 64 << 10

// ViewHandler serves the view-models as JSON for the browser console.
type ViewHandler struct {
	active  *usecase.ActiveJobsController
	waiting *usecase.WaitingJobsController
	courts  *usecase.CourtsController
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewViewHandler creates a ViewHandler over the given controllers.
func NewViewHandler(active *usecase.ActiveJobsController, waiting *usecase.WaitingJobsController, courts *usecase.CourtsController, logger *slog.Logger) *ViewHandler {
	return &ViewHandler{
		active:  active,
		waiting: waiting,
		courts:  courts,
		logger:  logger.With("component", "view-handler"),
		tracer:  otel.Tracer("sprinkler-jobs-console"),
	}
}

// statusRecorder remembers the status written by the route so
// it can be used as a metric label.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// RegisterRoutes registers the /view/ routes on mux.
func (h *ViewHandler) RegisterRoutes(mux *http.ServeMux) {
	baseHandler := http.HandlerFunc(h.handleView)

	instrumentedHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeOf(r)

		ctx, span := h.tracer.Start(r.Context(), "HTTP "+r.Method+" "+route, trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		))
		defer span.End()

		r = r.WithContext(ctx)

		iw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		baseHandler.ServeHTTP(iw, r)

		metrics.ConsoleRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(iw.statusCode)).Inc()

		span.SetAttributes(attribute.Int("http.status_code", iw.statusCode))
		if iw.statusCode >= 500 {
			span.SetStatus(codes.Error, "Server Error")
		}
	})

	mux.Handle("/view/", instrumentedHandler)
}

// pathParts splits an escaped URL path, unescaping every segment so that
// sprinkler ids may contain slashes. A trailing slash yields an empty last
// segment, which is how an empty sprinkler id is addressed.
func pathParts(r *http.Request) []string {
	raw := strings.Split(strings.TrimPrefix(r.URL.EscapedPath(), "/"), "/")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if s, err := url.PathUnescape(p); err == nil {
			p = s
		}
		parts = append(parts, p)
	}
	return parts
}

// routeOf maps a request onto its route template for span names and metric
// labels, keeping label cardinality bounded.
func routeOf(r *http.Request) string {
	parts := pathParts(r)
	switch {
	case len(parts) >= 2 && parts[1] == "jobs":
		switch len(parts) {
		case 2:
			return "/view/jobs"
		case 3:
			return "/view/jobs/{list}"
		default:
			if parts[3] == "refresh" && r.Method == http.MethodPost {
				return "/view/jobs/{list}/refresh"
			}
			return "/view/jobs/{list}/{sprinkler_id}"
		}
	case len(parts) >= 2 && parts[1] == "courts":
		if len(parts) == 2 {
			return "/view/courts"
		}
		if parts[2] == "refresh" {
			return "/view/courts/refresh"
		}
		return "/view/courts/{sprinkler_id}"
	}
	return "/view/"
}

// handleView is a general dispatcher for the /view/ path.
func (h *ViewHandler) handleView(w http.ResponseWriter, r *http.Request) {
	// e.g. /view/jobs/active/court1 -> ["view", "jobs", "active", "court1"]
	parts := pathParts(r)
	if len(parts) < 2 || parts[0] != "view" {
		http.NotFound(w, r)
		return
	}

	switch parts[1] {
	case "jobs":
		h.handleJobs(w, r, parts[2:])
	case "courts":
		h.handleCourts(w, r, parts[2:])
	default:
		http.NotFound(w, r)
	}
}

func (h *ViewHandler) handleJobs(w http.ResponseWriter, r *http.Request, parts []string) {
	if len(parts) == 0 || len(parts) > 2 {
		http.NotFound(w, r)
		return
	}

	kind, err := domain.ParseListKind(parts[0])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	list := h.lister(kind)

	var action string
	hasID := len(parts) == 2
	if hasID {
		action = parts[1]
	}

	switch {
	case r.Method == http.MethodGet && action == "":
		h.writeJobs(w, list)
	case r.Method == http.MethodPost && action == "refresh":
		h.handleRefresh(w, r, list)
	case r.Method == http.MethodPost && action == "":
		if kind != domain.ListActive {
			http.Error(w, "Jobs can only be added to the active list", http.StatusMethodNotAllowed)
			return
		}
		h.handleAddJob(w, r)
	case r.Method == http.MethodDelete && hasID:
		h.handleRemove(w, r, list, action)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ViewHandler) lister(kind domain.ListKind) domain.JobLister {
	if kind == domain.ListWaiting {
		return h.waiting
	}
	return h.active
}

func (h *ViewHandler) handleRefresh(w http.ResponseWriter, r *http.Request, list domain.JobLister) {
	ctx, span := h.tracer.Start(r.Context(), "handler.Refresh")
	defer span.End()
	span.SetAttributes(attribute.String("job.list", string(list.Kind())))

	list.Refresh(ctx)
	h.writeJobs(w, list)
}

func (h *ViewHandler) handleAddJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "handler.AddJob")
	defer span.End()

	var req AddJobRequest
	if err := decodeBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Failed to decode request body")
		span.RecordError(err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("job.sprinkler_id", req.SprinklerID))

	h.active.AddJobFrom(ctx, req.ToForm())
	h.writeJobs(w, h.active)
}

func (h *ViewHandler) handleRemove(w http.ResponseWriter, r *http.Request, list domain.JobLister, sprinklerID string) {
	ctx, span := h.tracer.Start(r.Context(), "handler.Remove")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.list", string(list.Kind())),
		attribute.String("job.sprinkler_id", sprinklerID),
	)

	switch list.Kind() {
	case domain.ListWaiting:
		h.waiting.Remove(ctx, sprinklerID)
	default:
		h.active.Remove(ctx, sprinklerID)
	}
	h.writeJobs(w, list)
}

func (h *ViewHandler) handleCourts(w http.ResponseWriter, r *http.Request, parts []string) {
	if len(parts) > 1 {
		http.NotFound(w, r)
		return
	}
	var target string
	if len(parts) == 1 {
		target = parts[0]
	}

	switch {
	case r.Method == http.MethodGet && target == "":
		h.writeCourts(w)
	case r.Method == http.MethodPost && target == "refresh":
		ctx, span := h.tracer.Start(r.Context(), "handler.RefreshCourts")
		defer span.End()
		h.courts.Refresh(ctx)
		h.writeCourts(w)
	case r.Method == http.MethodPost && target != "":
		h.handleSetCourt(w, r, target)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ViewHandler) handleSetCourt(w http.ResponseWriter, r *http.Request, sprinklerID string) {
	ctx, span := h.tracer.Start(r.Context(), "handler.SetCourt")
	defer span.End()
	span.SetAttributes(attribute.String("job.sprinkler_id", sprinklerID))

	var req SetCourtRequest
	if err := decodeBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Failed to decode request body")
		span.RecordError(err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.courts.SetDuration(ctx, sprinklerID, req.Duration)
	h.writeCourts(w)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("request body too large")
		}
		return err
	}
	return nil
}

func (h *ViewHandler) writeJobs(w http.ResponseWriter, list domain.JobLister) {
	h.writeJSON(w, JobListResponse{List: list.Kind(), Jobs: list.Jobs()})
}

func (h *ViewHandler) writeCourts(w http.ResponseWriter) {
	h.writeJSON(w, CourtsResponse{Courts: h.courts.Courts()})
}

func (h *ViewHandler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

package workouts

import (
	"context"
	"net/http"

	"github.com/2beens/fitdash/internal/calendar"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type workoutsService interface {
	GetWorkoutsForDate(ctx context.Context, date calendar.Date) ([]Workout, error)
	GetStatsForDate(ctx context.Context, date calendar.Date) (Stats, error)
	GetAllWorkoutsForUser(ctx context.Context) ([]Workout, error)
	GetDashboard(ctx context.Context, date calendar.Date) (*Dashboard, error)
	Today() calendar.Date
}

type MeResponse struct {
	UserID int `json:"userId"`
}

type WorkoutsResponse struct {
	Date     string    `json:"date,omitempty"`
	Workouts []Workout `json:"workouts"`
}

type StatsResponse struct {
	Date  string `json:"date"`
	Stats Stats  `json:"stats"`
}

type Handler struct {
	service  workoutsService
	resolver UserIDResolver
}

func NewHandler(service workoutsService, resolver UserIDResolver) *Handler {
	return &Handler{
		service:  service,
		resolver: resolver,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/me", handler.HandleMe).Methods("GET", "OPTIONS").Name("me")
	router.HandleFunc("/workouts", handler.HandleWorkoutsForDate).Methods("GET", "OPTIONS").Name("workouts-for-date")
	router.HandleFunc("/workouts/all", handler.HandleAllWorkouts).Methods("GET", "OPTIONS").Name("workouts-all")
	router.HandleFunc("/workouts/stats", handler.HandleStatsForDate).Methods("GET", "OPTIONS").Name("workouts-stats")
	router.HandleFunc("/dashboard", handler.HandleDashboard).Methods("GET", "OPTIONS").Name("dashboard")
}

func (handler *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.me")
	defer span.End()

	userID, err := handler.resolver.ResolveCurrentUserID(ctx)
	if err != nil {
		handler.writeError(w, "me", err)
		return
	}

	pkg.WriteJSONResponseOK(w, MeResponse{UserID: userID})
}

func (handler *Handler) HandleWorkoutsForDate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.forDate")
	defer span.End()

	date, err := handler.dateParam(r)
	if err != nil {
		handler.writeError(w, "workouts for date", err)
		return
	}
	span.SetAttributes(attribute.String("date", date.String()))

	workouts, err := handler.service.GetWorkoutsForDate(ctx, date)
	if err != nil {
		handler.writeError(w, "workouts for date", err)
		return
	}

	pkg.WriteJSONResponseOK(w, WorkoutsResponse{
		Date:     date.String(),
		Workouts: workouts,
	})
}

func (handler *Handler) HandleAllWorkouts(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.all")
	defer span.End()

	workouts, err := handler.service.GetAllWorkoutsForUser(ctx)
	if err != nil {
		handler.writeError(w, "all workouts", err)
		return
	}

	pkg.WriteJSONResponseOK(w, WorkoutsResponse{Workouts: workouts})
}

func (handler *Handler) HandleStatsForDate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.stats")
	defer span.End()

	date, err := handler.dateParam(r)
	if err != nil {
		handler.writeError(w, "stats for date", err)
		return
	}
	span.SetAttributes(attribute.String("date", date.String()))

	stats, err := handler.service.GetStatsForDate(ctx, date)
	if err != nil {
		handler.writeError(w, "stats for date", err)
		return
	}

	pkg.WriteJSONResponseOK(w, StatsResponse{
		Date:  date.String(),
		Stats: stats,
	})
}

func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.dashboard")
	defer span.End()

	date, err := handler.dateParam(r)
	if err != nil {
		handler.writeError(w, "dashboard", err)
		return
	}
	span.SetAttributes(attribute.String("date", date.String()))

	dashboard, err := handler.service.GetDashboard(ctx, date)
	if err != nil {
		handler.writeError(w, "dashboard", err)
		return
	}

	pkg.WriteJSONResponseOK(w, dashboard)
}

// dateParam reads the date query param; none means today.
func (handler *Handler) dateParam(r *http.Request) (calendar.Date, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return handler.service.Today(), nil
	}
	return calendar.ParseDate(raw)
}

func (handler *Handler) writeError(w http.ResponseWriter, op string, err error) {
	status := ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s: %s", op, err)
	} else {
		log.Debugf("%s: %s", op, err)
	}
	http.Error(w, ErrorMessage(err), status)
}

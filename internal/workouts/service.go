package workouts

import (
	"context"
	"time"

	"github.com/2beens/fitdash/internal/calendar"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

type UserIDResolver interface {
	ResolveCurrentUserID(ctx context.Context) (int, error)
}

type WorkoutsRepo interface {
	ListWorkouts(ctx context.Context, userID int, from, to *time.Time) ([]Workout, error)
	ListExercises(ctx context.Context, workoutIDs []int) ([]Exercise, error)
	ListSets(ctx context.Context, exerciseIDs []int) ([]Set, error)
}

// Service serves the workouts of the calling user. Day bounds are computed in
// the service location.
type Service struct {
	resolver UserIDResolver
	repo     WorkoutsRepo
	loc      *time.Location
	metrics  *metrics.Manager
}

func NewService(
	resolver UserIDResolver,
	repo WorkoutsRepo,
	loc *time.Location,
	metricsManager *metrics.Manager,
) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		resolver: resolver,
		repo:     repo,
		loc:      loc,
		metrics:  metricsManager,
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Today is the current calendar date in the service location.
func (s *Service) Today() calendar.Date {
	return calendar.Today(s.loc)
}

// GetWorkoutsForDate returns the caller's workouts started on date, newest
// first, each with its exercises and their sets.
func (s *Service) GetWorkoutsForDate(ctx context.Context, date calendar.Date) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.getWorkoutsForDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("date", date.String()))
	s.countQuery("workouts_for_date")

	workouts, err := s.userWorkouts(ctx, &date)
	if err != nil {
		return nil, err
	}
	return s.attachExercises(ctx, workouts, true)
}

func (s *Service) GetStatsForDate(ctx context.Context, date calendar.Date) (_ Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.getStatsForDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("date", date.String()))
	s.countQuery("stats_for_date")

	workouts, err := s.userWorkouts(ctx, &date)
	if err != nil {
		return Stats{}, err
	}
	workouts, err = s.attachExercises(ctx, workouts, false)
	if err != nil {
		return Stats{}, err
	}

	return ComputeStats(workouts), nil
}

// GetAllWorkoutsForUser is GetWorkoutsForDate without the day filter.
func (s *Service) GetAllWorkoutsForUser(ctx context.Context) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.getAllWorkoutsForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	s.countQuery("all_workouts")

	workouts, err := s.userWorkouts(ctx, nil)
	if err != nil {
		return nil, err
	}
	return s.attachExercises(ctx, workouts, true)
}

// GetDashboard loads the workouts and the stats of the day concurrently.
func (s *Service) GetDashboard(ctx context.Context, date calendar.Date) (_ *Dashboard, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.getDashboard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	dashboard := &Dashboard{Date: date.String()}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		workouts, err := s.GetWorkoutsForDate(gCtx, date)
		dashboard.Workouts = workouts
		return err
	})
	g.Go(func() error {
		stats, err := s.GetStatsForDate(gCtx, date)
		dashboard.Stats = stats
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return dashboard, nil
}

// userWorkouts resolves the caller and loads their workouts, limited to the
// given day when date is not nil.
func (s *Service) userWorkouts(ctx context.Context, date *calendar.Date) ([]Workout, error) {
	userID, err := s.resolver.ResolveCurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	var from, to *time.Time
	if date != nil {
		start, end := date.Bounds(s.loc)
		from, to = &start, &end
	}

	return s.repo.ListWorkouts(ctx, userID, from, to)
}

// attachExercises loads the exercises of the workouts, and their sets if
// withSets is set, and nests them in place. Input order is kept at every level.
func (s *Service) attachExercises(ctx context.Context, workouts []Workout, withSets bool) ([]Workout, error) {
	if len(workouts) == 0 {
		return []Workout{}, nil
	}

	workoutIDs := make([]int, len(workouts))
	for i, w := range workouts {
		workoutIDs[i] = w.ID
	}
	exercises, err := s.repo.ListExercises(ctx, workoutIDs)
	if err != nil {
		return nil, err
	}

	if withSets && len(exercises) > 0 {
		exerciseIDs := make([]int, len(exercises))
		for i, e := range exercises {
			exerciseIDs[i] = e.ID
		}
		sets, err := s.repo.ListSets(ctx, exerciseIDs)
		if err != nil {
			return nil, err
		}

		setsByExercise := make(map[int][]Set, len(exercises))
		for _, set := range sets {
			setsByExercise[set.ExerciseID] = append(setsByExercise[set.ExerciseID], set)
		}
		for i := range exercises {
			exercises[i].Sets = setsByExercise[exercises[i].ID]
			if exercises[i].Sets == nil {
				exercises[i].Sets = []Set{}
			}
		}
	}

	exercisesByWorkout := make(map[int][]Exercise, len(workouts))
	for _, e := range exercises {
		exercisesByWorkout[e.WorkoutID] = append(exercisesByWorkout[e.WorkoutID], e)
	}
	for i := range workouts {
		workouts[i].Exercises = exercisesByWorkout[workouts[i].ID]
		if workouts[i].Exercises == nil {
			workouts[i].Exercises = []Exercise{}
		}
	}

	return workouts, nil
}

func (s *Service) countQuery(kind string) {
	if s.metrics != nil {
		s.metrics.CounterWorkoutQueries.WithLabelValues(kind).Inc()
	}
}

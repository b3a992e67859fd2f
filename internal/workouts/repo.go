package workouts

import (
	"context"
	"time"

	"github.com/2beens/fitdash/internal/db"
	"github.com/2beens/fitdash/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Repo reads the workout hierarchy with three ordered fetches, each level
// joined to the previous one by its foreign key.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ListWorkouts returns the workouts of the user, newest first. A nil bound is
// not applied; both bounds are inclusive.
func (r *Repo) ListWorkouts(ctx context.Context, userID int, from, to *time.Time) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listWorkouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	if from != nil {
		span.SetAttributes(attribute.String("from", from.String()))
	}
	if to != nil {
		span.SetAttributes(attribute.String("to", to.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, name, notes, started_at, completed_at, duration, created_at, updated_at
			FROM workout
			WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR started_at >= $2)
				AND ($3::timestamptz IS NULL OR started_at <= $3)
			ORDER BY started_at DESC, id ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, db.StorageError("list workouts", err)
	}

	workouts := make([]Workout, 0)
	var w Workout
	_, err = pgx.ForEachRow(rows, []any{
		&w.ID, &w.UserID, &w.Name, &w.Notes, &w.StartedAt, &w.CompletedAt, &w.Duration, &w.CreatedAt, &w.UpdatedAt,
	}, func() error {
		workouts = append(workouts, w)
		w = Workout{}
		return nil
	})
	if err != nil {
		return nil, db.StorageError("list workouts", err)
	}

	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))
	return workouts, nil
}

// ListExercises returns the exercises of the given workouts, grouped by workout
// and ordered by exercise_order within each.
func (r *Repo) ListExercises(ctx context.Context, workoutIDs []int) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listExercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workouts.count", len(workoutIDs)))

	if len(workoutIDs) == 0 {
		return []Exercise{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, workout_id, exercise_name, exercise_order, notes, created_at, updated_at
			FROM exercise
			WHERE workout_id = ANY($1)
			ORDER BY workout_id, exercise_order ASC, id ASC;`,
		workoutIDs,
	)
	if err != nil {
		return nil, db.StorageError("list exercises", err)
	}

	exercises := make([]Exercise, 0)
	var e Exercise
	_, err = pgx.ForEachRow(rows, []any{
		&e.ID, &e.WorkoutID, &e.ExerciseName, &e.ExerciseOrder, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
	}, func() error {
		exercises = append(exercises, e)
		e = Exercise{}
		return nil
	})
	if err != nil {
		return nil, db.StorageError("list exercises", err)
	}

	return exercises, nil
}

// ListSets returns the sets of the given exercises, grouped by exercise and
// ordered by set_number within each.
func (r *Repo) ListSets(ctx context.Context, exerciseIDs []int) (_ []Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listSets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercises.count", len(exerciseIDs)))

	if len(exerciseIDs) == 0 {
		return []Set{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, exercise_id, set_number, reps, weight, weight_unit, rpe, rir, is_warmup, notes, created_at, updated_at
			FROM exercise_set
			WHERE exercise_id = ANY($1)
			ORDER BY exercise_id, set_number ASC, id ASC;`,
		exerciseIDs,
	)
	if err != nil {
		return nil, db.StorageError("list sets", err)
	}

	sets := make([]Set, 0)
	var s Set
	_, err = pgx.ForEachRow(rows, []any{
		&s.ID, &s.ExerciseID, &s.SetNumber, &s.Reps, &s.Weight, &s.WeightUnit, &s.RPE, &s.RIR, &s.IsWarmup, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	}, func() error {
		sets = append(sets, s)
		s = Set{}
		return nil
	})
	if err != nil {
		return nil, db.StorageError("list sets", err)
	}

	return sets, nil
}

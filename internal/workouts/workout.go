package workouts

import "time"

const DefaultWeightUnit = "lbs"

type Workout struct {
	ID          int        `json:"id"`
	UserID      int        `json:"userId"`
	Name        string     `json:"name"`
	Notes       *string    `json:"notes"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	// Duration in minutes, as recorded by the user.
	Duration  *int      `json:"duration"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Exercises []Exercise `json:"exercises"`
}

type Exercise struct {
	ID            int       `json:"id"`
	WorkoutID     int       `json:"workoutId"`
	ExerciseName  string    `json:"exerciseName"`
	ExerciseOrder int       `json:"exerciseOrder"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// nil when the exercises were loaded without their sets
	Sets []Set `json:"sets"`
}

type Set struct {
	ID         int       `json:"id"`
	ExerciseID int       `json:"exerciseId"`
	SetNumber  int       `json:"setNumber"`
	Reps       int       `json:"reps"`
	Weight     *float64  `json:"weight"`
	WeightUnit string    `json:"weightUnit"`
	RPE        *int      `json:"rpe"`
	RIR        *int      `json:"rir"`
	IsWarmup   bool      `json:"isWarmup"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Stats struct {
	TotalWorkouts  int `json:"totalWorkouts"`
	TotalExercises int `json:"totalExercises"`
	// TotalDuration sums explicit workout durations only, in minutes.
	TotalDuration int `json:"totalDuration"`
}

// Dashboard is the combined view for a single day.
type Dashboard struct {
	Date     string    `json:"date"`
	Workouts []Workout `json:"workouts"`
	Stats    Stats     `json:"stats"`
}

// ComputeStats reduces workouts, loaded with at least their exercises, into stats.
func ComputeStats(workouts []Workout) Stats {
	stats := Stats{TotalWorkouts: len(workouts)}
	for _, w := range workouts {
		stats.TotalExercises += len(w.Exercises)
		if w.Duration != nil {
			stats.TotalDuration += *w.Duration
		}
	}
	return stats
}

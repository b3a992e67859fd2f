package main

import (
	"errors"
	"fmt"

	"github.com/2beens/fitdash/internal/calendar"
	"github.com/2beens/fitdash/internal/db"
	"github.com/2beens/fitdash/internal/identity"
	"github.com/2beens/fitdash/internal/workouts"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables and indexes if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Migrate(cmd.Context(), dbPool); err != nil {
			return err
		}
		color.Green("✓ schema up to date")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Resolve the principal to its internal user id, creating the user if needed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := newResolver().ResolveCurrentUserID(cmd.Context())
		if err != nil {
			return explain(err)
		}
		fmt.Printf("%s %d\n", color.New(color.Faint).Sprint(flagPrincipal), userID)
		return nil
	},
}

var workoutsCmd = &cobra.Command{
	Use:   "workouts [YYYY-MM-DD]",
	Short: "List the workouts of a day (today when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args)
		if err != nil {
			return err
		}

		list, err := newService().GetWorkoutsForDate(cmd.Context(), date)
		if err != nil {
			return explain(err)
		}
		if len(list) == 0 {
			fmt.Printf("No workouts on %s.\n", date)
			return nil
		}

		printWorkouts(list)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [YYYY-MM-DD]",
	Short: "Show the totals of a day (today when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args)
		if err != nil {
			return err
		}

		stats, err := newService().GetStatsForDate(cmd.Context(), date)
		if err != nil {
			return explain(err)
		}

		bold := color.New(color.Bold)
		bold.Println(date.String())
		fmt.Printf("  workouts:  %d\n", stats.TotalWorkouts)
		fmt.Printf("  exercises: %d\n", stats.TotalExercises)
		fmt.Printf("  duration:  %d min\n", stats.TotalDuration)
		return nil
	},
}

func dateArg(args []string) (calendar.Date, error) {
	if len(args) == 0 {
		return calendar.Today(loc), nil
	}
	return calendar.ParseDate(args[0])
}

func printWorkouts(list []workouts.Workout) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	for _, w := range list {
		duration := ""
		if w.Duration != nil {
			duration = fmt.Sprintf("%d min", *w.Duration)
		}
		fmt.Printf("%s %s %s\n",
			faint.Sprint(w.StartedAt.In(loc).Format("15:04")),
			bold.Sprint(w.Name),
			duration,
		)
		for _, e := range w.Exercises {
			fmt.Printf("  %d. %s\n", e.ExerciseOrder, e.ExerciseName)
			for _, s := range e.Sets {
				line := fmt.Sprintf("     #%d %d reps", s.SetNumber, s.Reps)
				if s.Weight != nil {
					line += fmt.Sprintf(" @ %g %s", *s.Weight, s.WeightUnit)
				}
				if s.IsWarmup {
					line += faint.Sprint(" (warmup)")
				}
				fmt.Println(line)
			}
		}
	}
}

func explain(err error) error {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		return fmt.Errorf("no principal, use --principal or FITDASH_PRINCIPAL_ID: %w", err)
	case errors.Is(err, identity.ErrProfileIncomplete):
		return fmt.Errorf("the user does not exist yet and needs --email to be created: %w", err)
	default:
		return err
	}
}

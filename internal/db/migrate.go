package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Schema is the durable layout shared with other tools working on the same
// database: field names, nullability and defaults must not drift.
const Schema = `
CREATE TABLE IF NOT EXISTS public.app_user
(
    id          SERIAL PRIMARY KEY,
    external_id VARCHAR     NOT NULL UNIQUE,
    name        VARCHAR     NOT NULL,
    email       VARCHAR     NOT NULL UNIQUE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS public.workout
(
    id           SERIAL PRIMARY KEY,
    user_id      INTEGER     NOT NULL REFERENCES public.app_user (id) ON DELETE CASCADE,
    name         VARCHAR     NOT NULL,
    notes        TEXT,
    started_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    completed_at TIMESTAMPTZ,
    duration     INTEGER,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS ix_workout_user_started_at ON public.workout (user_id, started_at);

CREATE TABLE IF NOT EXISTS public.exercise
(
    id             SERIAL PRIMARY KEY,
    workout_id     INTEGER     NOT NULL REFERENCES public.workout (id) ON DELETE CASCADE,
    exercise_name  VARCHAR     NOT NULL,
    exercise_order INTEGER     NOT NULL,
    notes          TEXT,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS ix_exercise_workout_id ON public.exercise (workout_id);

CREATE TABLE IF NOT EXISTS public.exercise_set
(
    id          SERIAL PRIMARY KEY,
    exercise_id INTEGER     NOT NULL REFERENCES public.exercise (id) ON DELETE CASCADE,
    set_number  INTEGER     NOT NULL,
    reps        INTEGER     NOT NULL,
    weight      NUMERIC(8, 2),
    weight_unit VARCHAR     NOT NULL DEFAULT 'lbs',
    rpe         INTEGER CHECK (rpe BETWEEN 1 AND 10),
    rir         INTEGER,
    is_warmup   BOOLEAN     NOT NULL DEFAULT false,
    notes       TEXT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS ix_exercise_set_exercise_id ON public.exercise_set (exercise_id);
`

// Migrate applies Schema. Safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	tag, err := pool.Exec(ctx, Schema)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Debugf("schema applied: %s", tag.String())
	return nil
}

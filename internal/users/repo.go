package users

import (
	"context"
	"errors"

	"github.com/2beens/fitdash/internal/db"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const externalIDConstraint = "app_user_external_id_key"

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned by Create when a user with the same external id
	// was inserted first, usually by a concurrent request.
	ErrUserExists = errors.New("user already exists")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetIDByExternalID(ctx context.Context, externalID string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getIdByExternalId")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("external_id", externalID))

	var id int
	err = r.db.QueryRow(
		ctx,
		`SELECT id FROM app_user WHERE external_id = $1;`,
		externalID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, db.StorageError("get user by external id", err)
	}

	span.SetAttributes(attribute.Int("user.id", id))
	return id, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, external_id, name, email, created_at, updated_at FROM app_user WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, db.StorageError("get user", err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[User])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, db.StorageError("get user", err)
	}

	return &user, nil
}

// Create inserts the user and returns its id. A clash on the external id is
// reported as ErrUserExists; any other failure, including a clash on the email,
// as a storage error.
func (r *Repo) Create(ctx context.Context, user NewUser) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("external_id", user.ExternalID))

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO app_user (external_id, name, email)
			VALUES ($1, $2, $3)
		RETURNING id;`,
		user.ExternalID, user.Name, user.Email,
	).Scan(&id)
	if err != nil {
		if pkg.IsUniqueViolationError(err) && pkg.ConstraintName(err) == externalIDConstraint {
			return 0, ErrUserExists
		}
		return 0, db.StorageError("create user", err)
	}

	span.SetAttributes(attribute.Int("user.id", id))
	return id, nil
}

// Package repo contains all database access logic for the site backend.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// beginner is a db that can open a transaction. *pgxpool.Pool opens a real
// transaction; pgx.Tx opens a savepoint.
type beginner interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Repos bundles every repository bound to the same connection or transaction.
type Repos struct {
	Hero     HeroRepo
	Reviews  ReviewRepo
	Articles ArticleRepo
	News     NewsRepo
	Services ServiceRepo
	Schedule ScheduleRepo
	Pages    PageRepo
	Leads    LeadRepo
}

// NewRepos constructs all repositories on top of db.
func NewRepos(db db) Repos {
	return Repos{
		Hero:     NewHeroRepo(db),
		Reviews:  NewReviewRepo(db),
		Articles: NewArticleRepo(db),
		News:     NewNewsRepo(db),
		Services: NewServiceRepo(db),
		Schedule: NewScheduleRepo(db),
		Pages:    NewPageRepo(db),
		Leads:    NewLeadRepo(db),
	}
}

// Store owns the connection and hands out repositories, either bound to the
// connection directly (Repos) or to a transaction (InTx).
type Store struct {
	Repos
	conn beginner
}

// NewStore constructs a Store. In production pass *pgxpool.Pool; in tests pass
// a pgx.Tx so that InTx runs inside a savepoint of the test transaction.
func NewStore(conn beginner) *Store {
	return &Store{Repos: NewRepos(conn), conn: conn}
}

// InTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(Repos) error) error {
	return pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		return fn(NewRepos(tx))
	})
}

// mapErr converts driver errors into domain sentinels.
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

// updateTextColumns writes values into the named columns of the row with the
// given id. Only columns listed in allowed may be written.
func updateTextColumns(ctx context.Context, db db, table string, allowed []string, id uuid.UUID, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	cols := make([]string, 0, len(values))
	for c := range values {
		if !slices.Contains(allowed, c) {
			return fmt.Errorf("column %q of %s is not updatable", c, table)
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)

	args := pgx.NamedArgs{"id": id}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = @%s", c, c)
		args[c] = values[c]
	}

	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = @id", table, strings.Join(sets, ", "))
	tag, err := db.Exec(ctx, q, args)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// slugExists reports whether table holds slug on a row other than exclude.
// Pass uuid.Nil as exclude for records that are not saved yet.
func slugExists(ctx context.Context, db db, table, slug string, exclude uuid.UUID) (bool, error) {
	q := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = @slug AND id <> @exclude)`, table)

	var exists bool
	if err := db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug, "exclude": exclude}).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Money columns travel as text so no precision is lost between numeric and
// decimal.Decimal.

func moneyArg(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalMoneyArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := moneyArg(*d)
	return &s
}

func parseMoney(t pgtype.Text) (decimal.Decimal, error) {
	if !t.Valid {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(t.String)
}

func parseOptionalMoney(t pgtype.Text) (*decimal.Decimal, error) {
	if !t.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(t.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// collect drains rows through scan. The result is never nil.
func collect[T any](rows pgx.Rows, scan func(scanner) (T, error)) ([]T, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
		return scan(row)
	})
}

func optionalUUID(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	u := uuid.UUID(id.Bytes)
	return &u
}

// dateArg maps the zero time to NULL so the column default applies.
func dateArg(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

package registrations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventpass/backend/internal/models"
)

const (
	uniqueViolation     = "23505"
	emailConstraintName = "attendee_registrations_email_key"

	selectColumns = `id, first_name, last_name, email, phone, qr_code, created_at, updated_at`
)

// Repository is the PostgreSQL Store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert writes a new registration. A zero CreatedAt takes the database clock;
// updated_at always equals created_at.
func (r *Repository) Insert(ctx context.Context, reg *models.AttendeeRegistration) error {
	const q = `INSERT INTO attendee_registrations (id, first_name, last_name, email, phone, qr_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()), COALESCE($7, NOW()))
		RETURNING created_at, updated_at`
	var createdAt *time.Time
	if !reg.CreatedAt.IsZero() {
		createdAt = &reg.CreatedAt
	}
	err := r.pool.QueryRow(ctx, q, reg.ID, reg.FirstName, reg.LastName, reg.Email, reg.Phone, reg.QRCode, createdAt).
		Scan(&reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if isEmailConflict(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// FindByID returns a registration by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AttendeeRegistration, error) {
	const q = `SELECT ` + selectColumns + ` FROM attendee_registrations WHERE id = $1`
	return scanOne(r.pool.QueryRow(ctx, q, id))
}

// FindByEmail returns the registration for an email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.AttendeeRegistration, error) {
	const q = `SELECT ` + selectColumns + ` FROM attendee_registrations WHERE email = $1`
	return scanOne(r.pool.QueryRow(ctx, q, email))
}

// List returns registrations matching f, newest first.
func (r *Repository) List(ctx context.Context, f Filter, limit, offset int) ([]models.AttendeeRegistration, error) {
	limit, offset = Page(limit, offset)

	var conds []string
	var args []any
	addLike := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+escapeLike(value)+"%")
		conds = append(conds, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
	}
	addLike("email", f.Email)
	addLike("first_name", f.FirstName)
	addLike("last_name", f.LastName)

	q := `SELECT ` + selectColumns + ` FROM attendee_registrations`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()
	list := make([]models.AttendeeRegistration, 0, limit)
	for rows.Next() {
		reg, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *reg)
	}
	return list, rows.Err()
}

// CountApprox counts registrations in bucket. Not consistent with concurrent inserts.
func (r *Repository) CountApprox(ctx context.Context, bucket Bucket, now time.Time) (int, error) {
	from, to, bounded, err := bucket.Window(now)
	if err != nil {
		return 0, err
	}
	var n int
	if !bounded {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attendee_registrations`).Scan(&n)
	} else {
		const q = `SELECT COUNT(*) FROM attendee_registrations WHERE created_at >= $1 AND created_at < $2`
		err = r.pool.QueryRow(ctx, q, from, to).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count registrations (%s): %w", bucket, err)
	}
	return n, nil
}

func scanOne(row pgx.Row) (*models.AttendeeRegistration, error) {
	var reg models.AttendeeRegistration
	err := row.Scan(&reg.ID, &reg.FirstName, &reg.LastName, &reg.Email, &reg.Phone, &reg.QRCode, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	return &reg, nil
}

func isEmailConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return pgErr.ConstraintName == "" || pgErr.ConstraintName == emailConstraintName
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Package pg is the server-side storage for the sync backend. Every
// appointment query is scoped by owner_id; a record can never leak
// across owners.
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DCParty/senior-scheduler/internal/model"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

func (s *Store) CreateUser(ctx context.Context, u *User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name) VALUES ($1,$2,$3,$4)`,
		u.ID, u.Email, u.PasswordHash, u.Name,
	)
	return err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, created_at
		 FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO appointments (id, title, appt_date, appt_time, appt_type, owner_id)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.Title, a.Date, a.Time, string(a.Type), a.OwnerID,
	)
	return err
}

// ListAppointments returns the owner's full collection ordered by
// (date, time). Callers still re-sort; the order here is a convenience.
func (s *Store) ListAppointments(ctx context.Context, ownerID string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, appt_date, appt_time, appt_type, owner_id, created_at
		 FROM appointments
		 WHERE owner_id = $1
		 ORDER BY appt_date, appt_time`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		var typ string
		if err := rows.Scan(&a.ID, &a.Title, &a.Date, &a.Time, &typ, &a.OwnerID, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Type = model.NormalizeType(model.ApptType(typ))
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAppointment hard-deletes the owner's record. ErrNotFound when
// no row matched; callers treat that as a non-fatal no-op.
func (s *Store) DeleteAppointment(ctx context.Context, id, ownerID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM appointments WHERE id = $1 AND owner_id = $2`, id, ownerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

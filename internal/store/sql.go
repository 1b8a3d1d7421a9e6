package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"travgram/internal/models"
)

const (
	userColumns = "id, username, email, password_hash, profile_image_url, fullname, bio, created_at"
	tripColumns = "id, owner_id, name, date, type, budget, expenses, latitude, longitude, place_name, reminder_id, created_at, updated_at"
)

// SQLStore persists records in Postgres. Every Save runs in one transaction.
// The schema comes from db.RunMigrations.
type SQLStore struct {
	staging
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func buildUserQuery(f UserFilter) (string, []interface{}) {
	var where []string
	var args []interface{}
	if f.ID != "" {
		args = append(args, f.ID)
		where = append(where, fmt.Sprintf("id = $%d", len(args)))
	}
	if f.Email != "" {
		args = append(args, f.Email)
		where = append(where, fmt.Sprintf("email = $%d", len(args)))
	}
	query := "SELECT " + userColumns + " FROM users"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query, args
}

func buildTripQuery(f TripFilter) (string, []interface{}) {
	var where []string
	var args []interface{}
	if f.ID != "" {
		args = append(args, f.ID)
		where = append(where, fmt.Sprintf("id = $%d", len(args)))
	}
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		where = append(where, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, string(f.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	query := "SELECT " + tripColumns + " FROM trips"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	switch f.OrderBy {
	case SortByDate:
		query += " ORDER BY date, id"
	case SortByName:
		query += " ORDER BY name, id"
	}
	return query, args
}

func (s *SQLStore) FetchUsers(ctx context.Context, f UserFilter) ([]models.User, error) {
	query, args := buildUserQuery(f)
	var users []models.User
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	return users, nil
}

func (s *SQLStore) FetchTrips(ctx context.Context, f TripFilter) ([]models.Trip, error) {
	query, args := buildTripQuery(f)
	var trips []models.Trip
	if err := s.db.SelectContext(ctx, &trips, query, args...); err != nil {
		return nil, fmt.Errorf("fetch trips: %w", err)
	}
	if len(trips) == 0 {
		return trips, nil
	}

	ids := make([]string, len(trips))
	byID := make(map[string]int, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
		byID[t.ID] = i
	}
	query, args, err := sqlx.In(`SELECT id, trip_id, position, content_type, data FROM trip_photos WHERE trip_id IN (?) ORDER BY trip_id, position`, ids)
	if err != nil {
		return nil, err
	}
	var photos []models.Photo
	if err := s.db.SelectContext(ctx, &photos, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("fetch photos: %w", err)
	}
	for _, p := range photos {
		i := byID[p.TripID]
		trips[i].Photos = append(trips[i].Photos, p)
	}
	return trips, nil
}

func (s *SQLStore) Save(ctx context.Context) error {
	ops := s.take()
	if len(ops) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	for _, o := range ops {
		if err := applySQL(ctx, tx, o); err != nil {
			return fmt.Errorf("%s: %w", o.kind, mapPgError(err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", mapPgError(err))
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

func applySQL(ctx context.Context, tx *sqlx.Tx, o op) error {
	if o.kind == opDeleteAllUsers {
		_, err := tx.ExecContext(ctx, `DELETE FROM users`)
		return err
	}
	if o.user != nil {
		return applyUserSQL(ctx, tx, o.kind, o.user)
	}
	return applyTripSQL(ctx, tx, o.kind, o.trip)
}

func applyUserSQL(ctx context.Context, tx *sqlx.Tx, kind opKind, u *models.User) error {
	switch kind {
	case opInsert:
		_, err := tx.NamedExecContext(ctx, `INSERT INTO users (`+userColumns+`)
			VALUES (:id, :username, :email, :password_hash, :profile_image_url, :fullname, :bio, :created_at)`, u)
		return err
	case opUpdate:
		res, err := tx.NamedExecContext(ctx, `UPDATE users SET username=:username, email=:email, password_hash=:password_hash,
			profile_image_url=:profile_image_url, fullname=:fullname, bio=:bio WHERE id=:id`, u)
		return expectRow(res, err, "user", u.ID)
	case opDelete:
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, u.ID)
		return expectRow(res, err, "user", u.ID)
	}
	return nil
}

func applyTripSQL(ctx context.Context, tx *sqlx.Tx, kind opKind, t *models.Trip) error {
	switch kind {
	case opInsert:
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO trips (`+tripColumns+`)
			VALUES (:id, :owner_id, :name, :date, :type, :budget, :expenses, :latitude, :longitude, :place_name, :reminder_id, :created_at, :updated_at)`, t); err != nil {
			return err
		}
		return insertPhotos(ctx, tx, t.Photos)
	case opUpdate:
		res, err := tx.NamedExecContext(ctx, `UPDATE trips SET name=:name, date=:date, type=:type, budget=:budget, expenses=:expenses,
			latitude=:latitude, longitude=:longitude, place_name=:place_name, reminder_id=:reminder_id, updated_at=:updated_at
			WHERE id=:id`, t)
		if err := expectRow(res, err, "trip", t.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM trip_photos WHERE trip_id=$1`, t.ID); err != nil {
			return err
		}
		return insertPhotos(ctx, tx, t.Photos)
	case opDelete:
		res, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE id=$1`, t.ID)
		return expectRow(res, err, "trip", t.ID)
	}
	return nil
}

func insertPhotos(ctx context.Context, tx *sqlx.Tx, photos []models.Photo) error {
	for i := range photos {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO trip_photos (id, trip_id, position, content_type, data)
			VALUES (:id, :trip_id, :position, :content_type, :data)`, &photos[i]); err != nil {
			return err
		}
	}
	return nil
}

type rowsResult interface {
	RowsAffected() (int64, error)
}

func expectRow(res rowsResult, err error, kind, id string) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

// mapPgError translates constraint violations into the store's sentinels.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505": // unique_violation
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, ErrDuplicate)
	case "23503": // foreign_key_violation
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, ErrNotFound)
	}
	return err
}

// Package pgstore keeps the document collections as jsonb rows in Postgres.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"campusboard/api/internal/models"
	"campusboard/api/internal/repository"
)

const uniqueViolation = "23505"

// createdAtKey sorts by instant rather than by the RFC 3339 text.
const createdAtKey = `(doc->>'createdAt')::timestamptz`

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		email TEXT PRIMARY KEY,
		doc   JSONB NOT NULL
	);
	CREATE TABLE IF NOT EXISTS notices (
		id  TEXT PRIMARY KEY,
		doc JSONB NOT NULL
	);
	CREATE TABLE IF NOT EXISTS events (
		id  TEXT PRIMARY KEY,
		doc JSONB NOT NULL
	);
`

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Store) Users() repository.UserStore     { return userStore{pool: s.pool} }
func (s *Store) Notices() repository.NoticeStore { return noticeStore{pool: s.pool} }
func (s *Store) Events() repository.EventStore   { return eventStore{pool: s.pool} }

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func scanDoc[T any](row pgx.Row, notFound error) (T, error) {
	var (
		raw []byte
		doc T
	)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return doc, notFound
		}
		return doc, err
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func collectDocs[T any](rows pgx.Rows) ([]T, error) {
	defer rows.Close()
	docs := []T{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type userStore struct {
	pool *pgxpool.Pool
}

func (u userStore) Create(ctx context.Context, user models.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return err
	}
	const query = `INSERT INTO users (email, doc) VALUES ($1, $2)`
	if _, err := u.pool.Exec(ctx, query, user.Email, doc); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (u userStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT doc FROM users WHERE email = $1`
	return scanDoc[models.User](u.pool.QueryRow(ctx, query, email), repository.ErrUserNotFound)
}

func (u userStore) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT doc FROM users ORDER BY ` + createdAtKey + ` DESC`
	rows, err := u.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectDocs[models.User](rows)
}

func (u userStore) UpdateProfile(ctx context.Context, email string, profile models.UserProfile, at time.Time) (models.User, error) {
	patch := map[string]any{
		"fullName":    profile.FullName,
		"designation": profile.Designation,
		"updatedAt":   at,
	}
	if profile.Image != nil {
		patch["image"] = *profile.Image
	}
	if profile.ID != nil {
		patch["id"] = *profile.ID
	}
	if profile.Department != nil {
		patch["department"] = *profile.Department
	}
	if profile.UserType != nil {
		patch["userType"] = *profile.UserType
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return models.User{}, err
	}

	const query = `UPDATE users SET doc = doc || $2::jsonb WHERE email = $1 RETURNING doc`
	return scanDoc[models.User](u.pool.QueryRow(ctx, query, email, raw), repository.ErrUserNotFound)
}

func (u userStore) UpdateRole(ctx context.Context, email string, role models.UserRole, at time.Time) error {
	raw, err := json.Marshal(map[string]any{"role": role, "updatedAt": at})
	if err != nil {
		return err
	}
	const query = `UPDATE users SET doc = doc || $2::jsonb WHERE email = $1`
	cmd, err := u.pool.Exec(ctx, query, email, raw)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (u userStore) Delete(ctx context.Context, email string) error {
	const query = `DELETE FROM users WHERE email = $1`
	cmd, err := u.pool.Exec(ctx, query, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// noticePredicate renders a visibility filter as a WHERE clause whose
// placeholders start at $firstArg.
func noticePredicate(filter repository.NoticeFilter, firstArg int) (string, []any) {
	if filter.Unrestricted {
		return "TRUE", nil
	}
	clauses := []string{fmt.Sprintf("doc->>'targetAudience' = ANY($%d)", firstArg)}
	args := []any{filter.Audiences}
	if len(filter.Departments) > 0 {
		clauses = append(clauses, fmt.Sprintf("doc->>'department' = ANY($%d)", firstArg+1))
		args = append(args, filter.Departments)
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

type noticeStore struct {
	pool *pgxpool.Pool
}

func (n noticeStore) Create(ctx context.Context, notice models.Notice) error {
	doc, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	const query = `INSERT INTO notices (id, doc) VALUES ($1, $2)`
	_, err = n.pool.Exec(ctx, query, notice.ID, doc)
	return err
}

func (n noticeStore) Get(ctx context.Context, id string, filter repository.NoticeFilter) (models.Notice, error) {
	predicate, args := noticePredicate(filter, 2)
	query := `SELECT doc FROM notices WHERE id = $1 AND ` + predicate
	return scanDoc[models.Notice](n.pool.QueryRow(ctx, query, append([]any{id}, args...)...), repository.ErrNoticeNotFound)
}

func (n noticeStore) List(ctx context.Context, filter repository.NoticeFilter) ([]models.Notice, error) {
	predicate, args := noticePredicate(filter, 1)
	query := `SELECT doc FROM notices WHERE ` + predicate +
		` ORDER BY doc->>'date' DESC, ` + createdAtKey + ` DESC`
	rows, err := n.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectDocs[models.Notice](rows)
}

func (n noticeStore) Update(ctx context.Context, notice models.Notice) (models.Notice, error) {
	doc, err := json.Marshal(notice)
	if err != nil {
		return models.Notice{}, err
	}
	const query = `
		UPDATE notices
		SET doc = $2::jsonb || jsonb_build_object('createdAt', doc->'createdAt')
		WHERE id = $1
		RETURNING doc
	`
	return scanDoc[models.Notice](n.pool.QueryRow(ctx, query, notice.ID, doc), repository.ErrNoticeNotFound)
}

func (n noticeStore) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM notices WHERE id = $1`
	cmd, err := n.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrNoticeNotFound
	}
	return nil
}

type eventStore struct {
	pool *pgxpool.Pool
}

func (e eventStore) Create(ctx context.Context, event models.Event) error {
	doc, err := json.Marshal(event)
	if err != nil {
		return err
	}
	const query = `INSERT INTO events (id, doc) VALUES ($1, $2)`
	_, err = e.pool.Exec(ctx, query, event.ID, doc)
	return err
}

func (e eventStore) Get(ctx context.Context, id string) (models.Event, error) {
	const query = `SELECT doc FROM events WHERE id = $1`
	return scanDoc[models.Event](e.pool.QueryRow(ctx, query, id), repository.ErrEventNotFound)
}

func (e eventStore) List(ctx context.Context) ([]models.Event, error) {
	const query = `SELECT doc FROM events ORDER BY doc->>'date' ASC, ` + createdAtKey + ` ASC`
	rows, err := e.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectDocs[models.Event](rows)
}

func (e eventStore) Update(ctx context.Context, event models.Event) (models.Event, error) {
	doc, err := json.Marshal(event)
	if err != nil {
		return models.Event{}, err
	}
	const query = `
		UPDATE events
		SET doc = $2::jsonb || jsonb_build_object('createdAt', doc->'createdAt')
		WHERE id = $1
		RETURNING doc
	`
	return scanDoc[models.Event](e.pool.QueryRow(ctx, query, event.ID, doc), repository.ErrEventNotFound)
}

func (e eventStore) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM events WHERE id = $1`
	cmd, err := e.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrEventNotFound
	}
	return nil
}

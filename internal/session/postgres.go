package session

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/users"
)

// Migrations holds the goose migrations of the sessions table
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations passed to goose
const MigrationsDir = "migrations"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore keeps sessions in the "sessions" table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL backed session store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies pending migrations of the sessions table
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, MigrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (p *PostgresStore) Load(ctx context.Context, identity string) (*Session, error) {
	query, args, err := psql.
		Select("user_type", "user_email", "student_info", "created_at").
		From("sessions").
		Where(sq.Eq{"identity": identity}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build session query: %w", err)
	}

	var (
		s           Session
		userType    string
		studentInfo []byte
	)
	err = p.db.QueryRowContext(ctx, query, args...).Scan(&userType, &s.UserEmail, &studentInfo, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s.UserType = users.Role(userType)

	if len(studentInfo) > 0 {
		var student users.Student
		if err := json.Unmarshal(studentInfo, &student); err != nil {
			return nil, fmt.Errorf("failed to decode student info: %w", err)
		}
		s.StudentInfo = &student
	}
	return &s, nil
}

func (p *PostgresStore) Save(ctx context.Context, identity string, s *Session) error {
	var studentInfo []byte
	if s.StudentInfo != nil {
		data, err := json.Marshal(s.StudentInfo)
		if err != nil {
			return fmt.Errorf("failed to encode student info: %w", err)
		}
		studentInfo = data
	}

	query, args, err := psql.
		Insert("sessions").
		Columns("identity", "user_type", "user_email", "student_info", "created_at").
		Values(identity, string(s.UserType), s.UserEmail, studentInfo, s.CreatedAt).
		Suffix("ON CONFLICT (identity) DO UPDATE SET " +
			"user_type = EXCLUDED.user_type, user_email = EXCLUDED.user_email, " +
			"student_info = EXCLUDED.student_info, created_at = EXCLUDED.created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build session upsert: %w", err)
	}

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, identity string) error {
	query, args, err := psql.Delete("sessions").Where(sq.Eq{"identity": identity}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build session delete: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (p *PostgresStore) PurgeExpired(ctx context.Context, createdBefore time.Time) (int64, error) {
	query, args, err := psql.Delete("sessions").Where(sq.Lt{"created_at": createdBefore}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build session purge: %w", err)
	}
	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return res.RowsAffected()
}

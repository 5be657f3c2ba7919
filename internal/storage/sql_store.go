package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/julianstephens/habithub/internal/migration"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/utils"
	"github.com/julianstephens/habithub/internal/validation"
	"github.com/julianstephens/habithub/migrations"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

func (d dialect) migrationDir() string {
	if d == dialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

const habitColumns = "id, name, target_days, is_active, created_at, category, icon, color, notes, frequency, reminder_time"

const logColumns = "id, habit_id, day, is_completed, created_at, updated_at"

// sqlStore implements the habit and log operations shared by the SQL backends.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

// rebind rewrites ? placeholders into $n for PostgreSQL
func (s *sqlStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) migrationRunner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, s.dialect.migrationDir())
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.dialect.migrationDir(), err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *sqlStore) runMigrations(logFn func(string)) error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(logFn)
	return err
}

func (s *sqlStore) validateSchemaVersion() error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

// MigrationStatus reports the schema version relative to the embedded migrations
func (s *sqlStore) MigrationStatus() (migration.Status, error) {
	runner, err := s.migrationRunner()
	if err != nil {
		return migration.Status{}, err
	}
	return runner.Status()
}

// GetDB returns the underlying database connection.
// Returns nil until Init or Load has been called.
func (s *sqlStore) GetDB() *sql.DB {
	return s.db
}

func normalizeHabit(h models.Habit) models.Habit {
	h.Name = strings.TrimSpace(h.Name)
	if h.Frequency == "" {
		h.Frequency = models.FrequencyDaily
	}
	return h
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var createdAt, frequency string
	var reminder sql.NullString

	err := row.Scan(&h.ID, &h.Name, &h.TargetDays, &h.Active, &createdAt,
		&h.Category, &h.Icon, &h.Color, &h.Notes, &frequency, &reminder)
	if err != nil {
		return models.Habit{}, err
	}

	h.CreatedAt, err = utils.ParseTimestamp(createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	h.Frequency = models.Frequency(frequency)
	if reminder.Valid {
		h.ReminderTime = reminder.String
	}
	return h, nil
}

func scanLog(row rowScanner) (models.HabitLog, error) {
	var l models.HabitLog
	var createdAt, updatedAt string

	if err := row.Scan(&l.ID, &l.HabitID, &l.Day, &l.Completed, &createdAt, &updatedAt); err != nil {
		return models.HabitLog{}, err
	}

	var err error
	l.CreatedAt, err = utils.ParseTimestamp(createdAt)
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to parse created_at for log %s: %w", l.ID, err)
	}
	l.UpdatedAt, err = utils.ParseTimestamp(updatedAt)
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to parse updated_at for log %s: %w", l.ID, err)
	}
	return l, nil
}

func reminderValue(h models.Habit) sql.NullString {
	if h.ReminderTime == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: h.ReminderTime, Valid: true}
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *sqlStore) insertHabit(ex execer, h models.Habit) error {
	_, err := ex.Exec(s.rebind(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		h.ID, h.Name, h.TargetDays, h.Active, utils.FormatTimestamp(h.CreatedAt),
		h.Category, h.Icon, h.Color, h.Notes, string(h.Frequency), reminderValue(h))
	return err
}

func (s *sqlStore) AddHabit(habit models.Habit) error {
	habit = normalizeHabit(habit)
	if err := validation.ValidateHabit(habit); err != nil {
		return err
	}
	if habit.ID == "" {
		return fmt.Errorf("habit id is required")
	}
	if err := s.insertHabit(s.db, habit); err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (s *sqlStore) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(s.rebind("SELECT "+habitColumns+" FROM habits WHERE id = ?"), id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	return h, err
}

func (s *sqlStore) GetAllHabits(activeOnly bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits"
	var args []any
	if activeOnly {
		query += " WHERE is_active = ?"
		args = append(args, true)
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *sqlStore) UpdateHabit(habit models.Habit) error {
	habit = normalizeHabit(habit)
	if err := validation.ValidateHabit(habit); err != nil {
		return err
	}

	// created_at is immutable
	result, err := s.db.Exec(s.rebind(`
		UPDATE habits SET
			name = ?, target_days = ?, is_active = ?, category = ?, icon = ?,
			color = ?, notes = ?, frequency = ?, reminder_time = ?
		WHERE id = ?`),
		habit.Name, habit.TargetDays, habit.Active, habit.Category, habit.Icon,
		habit.Color, habit.Notes, string(habit.Frequency), reminderValue(habit), habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit %s: %w", habit.ID, ErrNotFound)
	}
	return nil
}

// DeleteHabit removes a habit and every log it owns in one transaction
func (s *sqlStore) DeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(s.rebind("DELETE FROM habit_logs WHERE habit_id = ?"), id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete habit logs: %w", err)
	}

	result, err := tx.Exec(s.rebind("DELETE FROM habits WHERE id = ?"), id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if rows == 0 {
		_ = tx.Rollback()
		return fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

func (s *sqlStore) AddHabitLog(log models.HabitLog) error {
	if err := validateLog(log); err != nil {
		return err
	}

	result, err := s.db.Exec(s.rebind(`
		INSERT INTO habit_logs (`+logColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO NOTHING`),
		log.ID, log.HabitID, log.Day, log.Completed,
		utils.FormatTimestamp(log.CreatedAt), utils.FormatTimestamp(log.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert habit log: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit %s on %s: %w", log.HabitID, log.Day, ErrDuplicateLog)
	}
	return nil
}

func (s *sqlStore) GetHabitLog(habitID, day string) (models.HabitLog, error) {
	row := s.db.QueryRow(s.rebind("SELECT "+logColumns+" FROM habit_logs WHERE habit_id = ? AND day = ?"), habitID, day)
	l, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitLog{}, fmt.Errorf("log for habit %s on %s: %w", habitID, day, ErrNotFound)
	}
	return l, err
}

func (s *sqlStore) GetHabitLogs(habitID, startDay, endDay string) ([]models.HabitLog, error) {
	query := "SELECT " + logColumns + " FROM habit_logs WHERE habit_id = ?"
	args := []any{habitID}
	if startDay != "" {
		query += " AND day >= ?"
		args = append(args, startDay)
	}
	if endDay != "" {
		query += " AND day <= ?"
		args = append(args, endDay)
	}
	query += " ORDER BY day"

	return s.queryLogs(query, args...)
}

func (s *sqlStore) GetAllHabitLogs() ([]models.HabitLog, error) {
	return s.queryLogs("SELECT " + logColumns + " FROM habit_logs ORDER BY habit_id, day")
}

func (s *sqlStore) queryLogs(query string, args ...any) ([]models.HabitLog, error) {
	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.HabitLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *sqlStore) UpdateHabitLog(log models.HabitLog) error {
	result, err := s.db.Exec(s.rebind(`
		UPDATE habit_logs SET is_completed = ?, updated_at = ? WHERE id = ?`),
		log.Completed, utils.FormatTimestamp(log.UpdatedAt), log.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit log: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("log %s: %w", log.ID, ErrNotFound)
	}
	return nil
}

// ImportHabits inserts every habit and log inside a single transaction.
// Logs are upserted on (habit_id, day) so a payload repeating a day keeps its last entry.
func (s *sqlStore) ImportHabits(items []models.HabitWithLogs) error {
	items, err := prepareImport(items)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, item := range items {
		if err := s.insertHabit(tx, item.Habit); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to import habit %q: %w", item.Habit.Name, err)
		}
		for _, l := range item.Logs {
			_, err := tx.Exec(s.rebind(`
				INSERT INTO habit_logs (`+logColumns+`)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(habit_id, day) DO UPDATE SET
					is_completed = excluded.is_completed,
					updated_at = excluded.updated_at`),
				l.ID, l.HabitID, l.Day, l.Completed,
				utils.FormatTimestamp(l.CreatedAt), utils.FormatTimestamp(l.UpdatedAt))
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to import log for habit %q on %s: %w", item.Habit.Name, l.Day, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

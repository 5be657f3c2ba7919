package storage

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/peterbourgon/diskv/v3"

	"github.com/julianstephens/habithub/internal/constants"
	"github.com/julianstephens/habithub/internal/logger"
	"github.com/julianstephens/habithub/internal/models"
	"github.com/julianstephens/habithub/internal/validation"
)

const (
	diskvHabitPrefix = "habits"
	diskvLogPrefix   = "logs"
	diskvMetaKey     = "meta/schema"
	diskvSchema      = "1"
)

// DiskvStore keeps one JSON file per habit and per log under a directory.
// Logs live under logs/<habit id>/<day>, so a (habit, day) pair maps to
// exactly one file.
type DiskvStore struct {
	mu   sync.Mutex
	path string
	d    *diskv.Diskv
}

func NewDiskvStore(path string) *DiskvStore {
	return &DiskvStore{path: path}
}

func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(key, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), "/")
}

func habitKey(id string) string {
	return diskvHabitPrefix + "/" + id
}

func logKey(habitID, day string) string {
	return diskvLogPrefix + "/" + habitID + "/" + day
}

func (s *DiskvStore) open() {
	s.d = diskv.New(diskv.Options{
		BasePath:          s.path,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
		FilePerm:          0600,
		PathPerm:          0700,
	})
}

func (s *DiskvStore) Init() error {
	if err := os.MkdirAll(s.path, 0700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	s.open()
	if err := s.d.Write(diskvMetaKey, []byte(diskvSchema)); err != nil {
		return fmt.Errorf("failed to write storage metadata: %w", err)
	}
	logger.Info("initialized diskv storage", "path", s.path)
	return nil
}

func (s *DiskvStore) Load() error {
	if s.d != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", s.path, ErrNotInitialized)
	}
	s.open()

	schema, err := s.d.Read(diskvMetaKey)
	if err != nil {
		return fmt.Errorf("%s has no metadata: %w", s.path, ErrNotInitialized)
	}
	if string(schema) != diskvSchema {
		return fmt.Errorf("unsupported storage schema %q in %s", schema, s.path)
	}
	return nil
}

func (s *DiskvStore) Close() error {
	return nil
}

func (s *DiskvStore) GetConfigPath() string {
	return s.path
}

func (s *DiskvStore) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.d.Write(key, data)
}

func (s *DiskvStore) readHabit(key string) (models.Habit, error) {
	var h models.Habit
	data, err := s.d.Read(key)
	if err != nil {
		return h, err
	}
	if err := json.Unmarshal(data, &h); err != nil {
		return h, fmt.Errorf("%s: %w", key, err)
	}
	return h, nil
}

func (s *DiskvStore) readLog(key string) (models.HabitLog, error) {
	var l models.HabitLog
	data, err := s.d.Read(key)
	if err != nil {
		return l, err
	}
	if err := json.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("%s: %w", key, err)
	}
	return l, nil
}

func (s *DiskvStore) keys(prefix string) []string {
	cancel := make(chan struct{})
	defer close(cancel)

	var keys []string
	for key := range s.d.KeysPrefix(prefix+"/", cancel) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *DiskvStore) AddHabit(habit models.Habit) error {
	habit = normalizeHabit(habit)
	if err := validation.ValidateHabit(habit); err != nil {
		return err
	}
	if habit.ID == "" {
		return fmt.Errorf("habit id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.d.Has(habitKey(habit.ID)) {
		return fmt.Errorf("habit %s already exists", habit.ID)
	}
	return s.writeJSON(habitKey(habit.ID), habit)
}

func (s *DiskvStore) GetHabit(id string) (models.Habit, error) {
	if !s.d.Has(habitKey(id)) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	return s.readHabit(habitKey(id))
}

func (s *DiskvStore) GetAllHabits(activeOnly bool) ([]models.Habit, error) {
	habits := []models.Habit{}
	for _, key := range s.keys(diskvHabitPrefix) {
		h, err := s.readHabit(key)
		if err != nil {
			return nil, err
		}
		if activeOnly && !h.Active {
			continue
		}
		habits = append(habits, h)
	}

	sort.SliceStable(habits, func(i, j int) bool {
		if !habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].CreatedAt.After(habits[j].CreatedAt)
		}
		return habits[i].ID < habits[j].ID
	})
	return habits, nil
}

func (s *DiskvStore) UpdateHabit(habit models.Habit) error {
	habit = normalizeHabit(habit)
	if err := validation.ValidateHabit(habit); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.GetHabit(habit.ID)
	if err != nil {
		return err
	}
	habit.CreatedAt = existing.CreatedAt
	return s.writeJSON(habitKey(habit.ID), habit)
}

func (s *DiskvStore) DeleteHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.d.Has(habitKey(id)) {
		return fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	for _, key := range s.keys(diskvLogPrefix + "/" + id) {
		if err := s.d.Erase(key); err != nil {
			return fmt.Errorf("failed to delete log %s: %w", key, err)
		}
	}
	return s.d.Erase(habitKey(id))
}

func (s *DiskvStore) AddHabitLog(log models.HabitLog) error {
	if err := validateLog(log); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.d.Has(habitKey(log.HabitID)) {
		return fmt.Errorf("habit %s: %w", log.HabitID, ErrNotFound)
	}
	key := logKey(log.HabitID, log.Day)
	if s.d.Has(key) {
		return fmt.Errorf("habit %s on %s: %w", log.HabitID, log.Day, ErrDuplicateLog)
	}
	return s.writeJSON(key, log)
}

func (s *DiskvStore) GetHabitLog(habitID, day string) (models.HabitLog, error) {
	key := logKey(habitID, day)
	if !s.d.Has(key) {
		return models.HabitLog{}, fmt.Errorf("log for habit %s on %s: %w", habitID, day, ErrNotFound)
	}
	return s.readLog(key)
}

func (s *DiskvStore) GetHabitLogs(habitID, startDay, endDay string) ([]models.HabitLog, error) {
	logs := []models.HabitLog{}
	for _, key := range s.keys(diskvLogPrefix + "/" + habitID) {
		day := key[strings.LastIndex(key, "/")+1:]
		if (startDay != "" && day < startDay) || (endDay != "" && day > endDay) {
			continue
		}
		l, err := s.readLog(key)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}

func (s *DiskvStore) GetAllHabitLogs() ([]models.HabitLog, error) {
	logs := []models.HabitLog{}
	for _, key := range s.keys(diskvLogPrefix) {
		l, err := s.readLog(key)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}

func (s *DiskvStore) UpdateHabitLog(log models.HabitLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := logKey(log.HabitID, log.Day)
	existing, err := s.readLog(key)
	if err != nil || existing.ID != log.ID {
		return fmt.Errorf("log %s: %w", log.ID, ErrNotFound)
	}
	existing.Completed = log.Completed
	existing.UpdatedAt = log.UpdatedAt
	return s.writeJSON(key, existing)
}

// ImportHabits writes every record and erases what it wrote if any write fails.
func (s *DiskvStore) ImportHabits(items []models.HabitWithLogs) error {
	items, err := prepareImport(items)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if s.d.Has(habitKey(item.Habit.ID)) {
			return fmt.Errorf("failed to import habit %q: id %s already exists", item.Habit.Name, item.Habit.ID)
		}
	}

	var written []string
	rollback := func(cause error) error {
		for i := len(written) - 1; i >= 0; i-- {
			if err := s.d.Erase(written[i]); err != nil {
				logger.Error("failed to roll back imported record", "key", written[i], "error", err)
			}
		}
		return cause
	}

	for _, item := range items {
		key := habitKey(item.Habit.ID)
		if err := s.writeJSON(key, item.Habit); err != nil {
			return rollback(fmt.Errorf("failed to import habit %q: %w", item.Habit.Name, err))
		}
		written = append(written, key)

		for _, l := range item.Logs {
			key := logKey(l.HabitID, l.Day)
			if err := s.writeJSON(key, l); err != nil {
				return rollback(fmt.Errorf("failed to import log for habit %q on %s: %w", item.Habit.Name, l.Day, err))
			}
			written = append(written, key)
		}
	}
	return nil
}

// IsDiskvLocation reports whether a storage location selects the diskv backend
func IsDiskvLocation(location string) bool {
	return strings.HasSuffix(location, constants.DiskvLocationExt)
}

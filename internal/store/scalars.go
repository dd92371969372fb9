package store

import (
	"alcyxob/fitness-tracker/internal/domain"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Theme returns the stored theme, or domain.DefaultTheme when unset or unknown.
func (s *Store) Theme(ctx context.Context, sess domain.Session) (domain.Theme, error) {
	if !sess.IsAuthenticated() {
		return domain.DefaultTheme, nil
	}
	entry, err := s.read(ctx, s.key(keyTheme, sess.Username))
	if err != nil {
		return "", err
	}
	theme := domain.Theme(strings.TrimSpace(string(entry.Value)))
	if !theme.Valid() {
		return domain.DefaultTheme, nil
	}
	return theme, nil
}

// SetTheme stores the theme as a raw string.
func (s *Store) SetTheme(ctx context.Context, sess domain.Session, theme domain.Theme) error {
	if !sess.IsAuthenticated() {
		return nil
	}
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.put(ctx, s.key(keyTheme, sess.Username), []byte(theme))
}

// ClearTheme drops the stored theme so reads fall back to the default.
func (s *Store) ClearTheme(ctx context.Context, sess domain.Session) error {
	if !sess.IsAuthenticated() {
		return nil
	}
	return s.remove(ctx, s.key(keyTheme, sess.Username))
}

// Streak reads the counter and the last training day. Unparsable values read
// as zero.
func (s *Store) Streak(ctx context.Context, sess domain.Session) (domain.StreakState, error) {
	var state domain.StreakState
	if !sess.IsAuthenticated() {
		return state, nil
	}

	count, err := s.read(ctx, s.key(keyStreak, sess.Username))
	if err != nil {
		return state, err
	}
	last, err := s.read(ctx, s.key(keyLastTrainingDate, sess.Username))
	if err != nil {
		return state, err
	}

	if len(count.Value) > 0 {
		n, err := strconv.Atoi(strings.TrimSpace(string(count.Value)))
		if err != nil {
			logrus.WithField("user", sess.Username).Warnf("corrupt streak counter: %v", err)
			s.skipped(keyStreak)
		} else {
			state.Count = n
		}
	}
	state.LastTrainingDate = strings.TrimSpace(string(last.Value))
	return state, nil
}

// SetStreak writes the counter, then the last training day.
func (s *Store) SetStreak(ctx context.Context, sess domain.Session, state domain.StreakState) error {
	if !sess.IsAuthenticated() {
		return nil
	}
	if err := s.put(ctx, s.key(keyStreak, sess.Username), []byte(strconv.Itoa(state.Count))); err != nil {
		return err
	}
	if state.LastTrainingDate == "" {
		return nil
	}
	return s.put(ctx, s.key(keyLastTrainingDate, sess.Username), []byte(state.LastTrainingDate))
}

// ClearStreak drops both the counter and the last training day.
func (s *Store) ClearStreak(ctx context.Context, sess domain.Session) error {
	if !sess.IsAuthenticated() {
		return nil
	}
	if err := s.remove(ctx, s.key(keyStreak, sess.Username)); err != nil {
		return err
	}
	return s.remove(ctx, s.key(keyLastTrainingDate, sess.Username))
}

// Blob returns the raw JSON stored under one of the collaborator blob names,
// or nil when absent.
func (s *Store) Blob(ctx context.Context, sess domain.Session, name string) (json.RawMessage, error) {
	if !IsBlob(name) {
		return nil, fmt.Errorf("unknown blob %q", name)
	}
	if !sess.IsAuthenticated() {
		return nil, nil
	}
	entry, err := s.read(ctx, s.key(name, sess.Username))
	if err != nil {
		return nil, err
	}
	if len(entry.Value) == 0 {
		return nil, nil
	}
	if !json.Valid(entry.Value) {
		logrus.WithField("blob", name).Warn("stored blob is not valid JSON, treating as empty")
		s.skipped(name)
		return nil, nil
	}
	return json.RawMessage(entry.Value), nil
}

// SetBlob overwrites a collaborator blob. The value must be valid JSON.
func (s *Store) SetBlob(ctx context.Context, sess domain.Session, name string, value json.RawMessage) error {
	if !IsBlob(name) {
		return fmt.Errorf("unknown blob %q", name)
	}
	if !sess.IsAuthenticated() {
		return nil
	}
	// empty value clears the blob
	if len(value) == 0 {
		return s.remove(ctx, s.key(name, sess.Username))
	}
	if !json.Valid(value) {
		return fmt.Errorf("blob %q is not valid JSON", name)
	}
	return s.put(ctx, s.key(name, sess.Username), value)
}

// SyncBackup returns the stored backup and whether one exists.
func (s *Store) SyncBackup(ctx context.Context, sess domain.Session) (domain.SyncBackup, bool, error) {
	var backup domain.SyncBackup
	if !sess.IsAuthenticated() {
		return backup, false, nil
	}
	entry, err := s.read(ctx, s.key(keySyncBackup, sess.Username))
	if err != nil {
		return backup, false, err
	}
	if len(entry.Value) == 0 {
		return backup, false, nil
	}
	if err := json.Unmarshal(entry.Value, &backup); err != nil {
		logrus.WithField("user", sess.Username).Warnf("corrupt sync backup: %v", err)
		s.skipped(keySyncBackup)
		return domain.SyncBackup{}, false, nil
	}
	return backup, true, nil
}

// SetSyncBackup stamps the backup with the store clock and writes it.
func (s *Store) SetSyncBackup(ctx context.Context, sess domain.Session, data domain.SyncData) (domain.SyncBackup, error) {
	backup := domain.SyncBackup{
		Username: sess.Username,
		LastSync: s.now().UTC(),
		Data:     data,
	}
	if !sess.IsAuthenticated() {
		return backup, nil
	}
	raw, err := json.Marshal(backup)
	if err != nil {
		return backup, err
	}
	return backup, s.put(ctx, s.key(keySyncBackup, sess.Username), raw)
}

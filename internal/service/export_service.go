package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/storage"
	"alcyxob/fitness-tracker/internal/store"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const csvDateLayout = "2/1/2006" // d/m/yyyy

type ArchiveResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ExportService interface {
	Export(ctx context.Context, sess domain.Session) (*domain.ExportDocument, error)
	// ExportJSON is Export rendered as indented JSON.
	ExportJSON(ctx context.Context, sess domain.Session) ([]byte, error)
	// ExportCSV lists workouts then weight entries under a Tipo,Fecha,Detalles header.
	ExportCSV(ctx context.Context, sess domain.Session) ([]byte, error)
	// Import replaces the user's collections, blobs, theme and streak with
	// those of doc; anything doc lacks is cleared. The profile is only
	// overwritten when doc carries one. Every record is validated before
	// anything is written.
	Import(ctx context.Context, sess domain.Session, doc *domain.ExportDocument) error
	SyncBackup(ctx context.Context, sess domain.Session) (*domain.SyncBackup, error)
	// Restore writes back every section present in the stored backup.
	Restore(ctx context.Context, sess domain.Session) (*domain.SyncBackup, error)
	// Archive uploads the JSON export and returns a presigned download link.
	Archive(ctx context.Context, sess domain.Session) (*ArchiveResult, error)
}

// --- Service Implementation ---

type exportService struct {
	store     *store.Store
	workouts  *store.Collection[domain.Workout]
	weights   *store.Collection[domain.WeightEntry]
	notes     *store.Collection[domain.Note]
	reminders *store.Collection[domain.Reminder]
	profiles  profiles
	archive   storage.ArchiveStorage
	urlExpiry time.Duration
	location  *time.Location
	clock     Clock
}

// NewExportService creates the export service. archive may be nil, in which
// case Archive returns ErrArchiveDisabled.
func NewExportService(
	s *store.Store,
	users repository.UserRepository,
	archive storage.ArchiveStorage,
	urlExpiry time.Duration,
	loc *time.Location,
	clock Clock,
) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{
		store:     s,
		workouts:  workoutCollection(s),
		weights:   weightCollection(s),
		notes:     noteCollection(s),
		reminders: reminderCollection(s),
		profiles:  profiles{users: users},
		archive:   archive,
		urlExpiry: urlExpiry,
		location:  loc,
		clock:     clock,
	}
}

func (s *exportService) Export(ctx context.Context, sess domain.Session) (*domain.ExportDocument, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	profile, err := s.profiles.get(ctx, sess)
	if err != nil {
		return nil, err
	}
	doc := &domain.ExportDocument{
		User:       domain.ExportUser{Username: sess.Username, Profile: profile},
		ExportDate: s.clock.now(),
	}

	if doc.Workouts, err = s.workouts.List(ctx, sess); err != nil {
		return nil, err
	}
	if doc.Weights, err = s.weights.List(ctx, sess); err != nil {
		return nil, err
	}
	if doc.Achievements, err = s.store.Achievements(ctx, sess); err != nil {
		return nil, err
	}
	if doc.Reminders, err = s.reminders.List(ctx, sess); err != nil {
		return nil, err
	}
	if doc.Notes, err = s.notes.List(ctx, sess); err != nil {
		return nil, err
	}
	if doc.Calendar, err = s.store.Blob(ctx, sess, store.BlobCalendar); err != nil {
		return nil, err
	}
	if doc.Progress, err = s.store.Blob(ctx, sess, store.BlobProgress); err != nil {
		return nil, err
	}
	if doc.Mentality, err = s.store.Blob(ctx, sess, store.BlobMentality); err != nil {
		return nil, err
	}
	if doc.Theme, err = s.store.Theme(ctx, sess); err != nil {
		return nil, err
	}
	if doc.Streak, err = s.store.Streak(ctx, sess); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *exportService) ExportJSON(ctx context.Context, sess domain.Session) ([]byte, error) {
	doc, err := s.Export(ctx, sess)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

func (s *exportService) ExportCSV(ctx context.Context, sess domain.Session) ([]byte, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	workouts, err := s.workouts.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	weights, err := s.weights.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{{"Tipo", "Fecha", "Detalles"}}
	for _, wk := range workouts {
		rows = append(rows, []string{
			"Entrenamiento",
			wk.Date.In(s.location).Format(csvDateLayout),
			fmt.Sprintf("%s - %d ejercicios", wk.Name, len(wk.Exercises)),
		})
	}
	for _, we := range weights {
		rows = append(rows, []string{
			"Peso",
			we.Date.In(s.location).Format(csvDateLayout),
			strconv.FormatFloat(we.Weight, 'f', -1, 64) + " kg",
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *exportService) Import(ctx context.Context, sess domain.Session, doc *domain.ExportDocument) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if doc == nil {
		return validationError("empty import document")
	}
	// 1. Validate the whole document before the first write
	if err := validateImport(doc); err != nil {
		return err
	}

	// 2. Collections and blobs are replaced wholesale
	if err := s.workouts.Replace(ctx, sess, doc.Workouts); err != nil {
		return err
	}
	if err := s.weights.Replace(ctx, sess, doc.Weights); err != nil {
		return err
	}
	if err := s.notes.Replace(ctx, sess, doc.Notes); err != nil {
		return err
	}
	if err := s.reminders.Replace(ctx, sess, doc.Reminders); err != nil {
		return err
	}
	if err := s.store.SetAchievements(ctx, sess, doc.Achievements); err != nil {
		return err
	}
	if err := s.replaceBlobs(ctx, sess, doc.Calendar, doc.Progress, doc.Mentality); err != nil {
		return err
	}

	// --- Scalars: absent in the document means absent after the import ---
	if doc.Theme == "" {
		if err := s.store.ClearTheme(ctx, sess); err != nil {
			return err
		}
	} else if err := s.store.SetTheme(ctx, sess, doc.Theme); err != nil {
		return err
	}
	// clear first so a document without a training day drops the stored one
	if err := s.store.ClearStreak(ctx, sess); err != nil {
		return err
	}
	if doc.Streak != (domain.StreakState{}) {
		if err := s.store.SetStreak(ctx, sess, doc.Streak); err != nil {
			return err
		}
	}
	// 3. An empty profile keeps the current one
	if doc.User.Profile != (domain.Profile{}) {
		if _, err := s.profiles.update(ctx, sess, func(p *domain.Profile) { *p = doc.User.Profile }); err != nil {
			return err
		}
	}

	logrus.WithField("user", sess.Username).Infof("imported %d workouts, %d weights, %d notes", len(doc.Workouts), len(doc.Weights), len(doc.Notes))
	return nil
}

// validateImport checks every record, the theme, the streak date and the
// blobs of doc without touching the store.
func validateImport(doc *domain.ExportDocument) error {
	for _, w := range doc.Workouts {
		if err := checkStruct(w); err != nil {
			return err
		}
	}
	for _, w := range doc.Weights {
		if err := checkStruct(w); err != nil {
			return err
		}
	}
	for _, n := range doc.Notes {
		if err := checkStruct(n); err != nil {
			return err
		}
	}
	for _, r := range doc.Reminders {
		if err := checkStruct(r); err != nil {
			return err
		}
	}
	if doc.Theme != "" && !doc.Theme.Valid() {
		return validationError("unknown theme %q", doc.Theme)
	}
	if doc.Streak.LastTrainingDate != "" {
		if _, err := time.Parse(domain.DateLayout, doc.Streak.LastTrainingDate); err != nil {
			return validationError("streak date must be %s", domain.DateLayout)
		}
	}
	for name, blob := range map[string]json.RawMessage{
		store.BlobCalendar:  doc.Calendar,
		store.BlobProgress:  doc.Progress,
		store.BlobMentality: doc.Mentality,
	} {
		if len(blob) > 0 && !json.Valid(blob) {
			return validationError("%s must be valid JSON", name)
		}
	}
	return nil
}

// replaceBlobs writes each blob and deletes those that are null or absent.
func (s *exportService) replaceBlobs(ctx context.Context, sess domain.Session, calendar, progress, mentality json.RawMessage) error {
	for name, value := range map[string]json.RawMessage{
		store.BlobCalendar:  calendar,
		store.BlobProgress:  progress,
		store.BlobMentality: mentality,
	} {
		if isNull(value) {
			value = nil
		}
		if err := s.store.SetBlob(ctx, sess, name, value); err != nil {
			return err
		}
	}
	return nil
}

// restoreBlobs writes each non-null blob; null or absent ones are left alone.
func (s *exportService) restoreBlobs(ctx context.Context, sess domain.Session, calendar, progress, mentality json.RawMessage) error {
	for _, b := range []struct {
		name  string
		value json.RawMessage
	}{
		{store.BlobCalendar, calendar},
		{store.BlobProgress, progress},
		{store.BlobMentality, mentality},
	} {
		if isNull(b.value) {
			continue
		}
		if err := s.store.SetBlob(ctx, sess, b.name, b.value); err != nil {
			return err
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func (s *exportService) SyncBackup(ctx context.Context, sess domain.Session) (*domain.SyncBackup, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	var (
		data domain.SyncData
		err  error
	)
	if data.Calendar, err = s.store.Blob(ctx, sess, store.BlobCalendar); err != nil {
		return nil, err
	}
	if data.Progress, err = s.store.Blob(ctx, sess, store.BlobProgress); err != nil {
		return nil, err
	}
	if data.Mentality, err = s.store.Blob(ctx, sess, store.BlobMentality); err != nil {
		return nil, err
	}
	if data.Achievements, err = s.store.Achievements(ctx, sess); err != nil {
		return nil, err
	}
	if data.Notes, err = s.notes.List(ctx, sess); err != nil {
		return nil, err
	}
	if data.Reminders, err = s.reminders.List(ctx, sess); err != nil {
		return nil, err
	}

	backup, err := s.store.SetSyncBackup(ctx, sess, data)
	if err != nil {
		return nil, err
	}
	logrus.WithField("user", sess.Username).Debugf("data synced at %s", backup.LastSync.Format(time.RFC3339))
	return &backup, nil
}

func (s *exportService) Restore(ctx context.Context, sess domain.Session) (*domain.SyncBackup, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	backup, ok, err := s.store.SyncBackup(ctx, sess)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoBackup
	}

	// Restore merges: sections missing from the backup keep their current value
	data := backup.Data
	if err := s.restoreBlobs(ctx, sess, data.Calendar, data.Progress, data.Mentality); err != nil {
		return nil, err
	}
	if data.Achievements != nil {
		if err := s.store.SetAchievements(ctx, sess, data.Achievements); err != nil {
			return nil, err
		}
	}
	if data.Notes != nil {
		if err := s.notes.Replace(ctx, sess, data.Notes); err != nil {
			return nil, err
		}
	}
	if data.Reminders != nil {
		if err := s.reminders.Replace(ctx, sess, data.Reminders); err != nil {
			return nil, err
		}
	}

	logrus.WithField("user", sess.Username).Infof("data restored from backup of %s", backup.LastSync.Format(time.RFC3339))
	return &backup, nil
}

func (s *exportService) Archive(ctx context.Context, sess domain.Session) (*ArchiveResult, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	body, err := s.ExportJSON(ctx, sess)
	if err != nil {
		return nil, err
	}

	// Keys are unique per call so archives never overwrite each other
	now := s.clock.now()
	key := fmt.Sprintf("exports/%s/%s-%s.json", sess.Username, now.Format(domain.DateLayout), uuid.NewString())
	if err := s.archive.PutObject(ctx, key, "application/json", body); err != nil {
		return nil, fmt.Errorf("upload archive: %w", err)
	}

	url, err := s.archive.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign archive: %w", err)
	}

	// Mirror the storage default so ExpiresAt matches the signed URL
	expiry := s.urlExpiry
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	return &ArchiveResult{Key: key, URL: url, ExpiresAt: now.Add(expiry)}, nil
}

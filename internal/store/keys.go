package store

// Collection and scalar names. The persisted key is "{namespace}:{name}_{username}".
const (
	CollectionWorkouts     = "workouts"
	CollectionWeights      = "weights"
	CollectionAchievements = "achievements"
	CollectionReminders    = "reminders"
	CollectionNotes        = "notes"

	BlobCalendar  = "calendar"
	BlobProgress  = "progress"
	BlobMentality = "mentality"

	keyTheme            = "theme"
	keyStreak           = "streak"
	keyLastTrainingDate = "lastTrainingDate"
	keySyncBackup       = "sync_backup"
)

// IsBlob reports whether name is one of the opaque collaborator blobs.
func IsBlob(name string) bool {
	switch name {
	case BlobCalendar, BlobProgress, BlobMentality:
		return true
	}
	return false
}

func (s *Store) key(name, username string) string {
	k := name + "_" + username
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

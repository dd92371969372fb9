package store

import (
	"alcyxob/fitness-tracker/internal/domain"
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Achievements returns the unlocked achievement ids in unlock order.
func (s *Store) Achievements(ctx context.Context, sess domain.Session) ([]string, error) {
	if !sess.IsAuthenticated() {
		return []string{}, nil
	}
	entry, err := s.read(ctx, s.key(CollectionAchievements, sess.Username))
	if err != nil {
		return nil, err
	}
	return s.decodeIDs(entry.Value), nil
}

// AddAchievement appends id to the unlocked set. It reports false, without
// writing, when id is already present.
func (s *Store) AddAchievement(ctx context.Context, sess domain.Session, id string) (bool, error) {
	if !sess.IsAuthenticated() {
		return false, nil
	}
	var added bool
	err := s.mutate(ctx, s.key(CollectionAchievements, sess.Username), func(current []byte) ([]byte, bool, error) {
		ids := s.decodeIDs(current)
		for _, existing := range ids {
			if existing == id {
				added = false
				return nil, false, nil
			}
		}
		raw, err := json.Marshal(append(ids, id))
		if err != nil {
			return nil, false, err
		}
		added = true
		return raw, true, nil
	})
	return added, err
}

// SetAchievements overwrites the unlocked set, dropping duplicates.
func (s *Store) SetAchievements(ctx context.Context, sess domain.Session, ids []string) error {
	if !sess.IsAuthenticated() {
		return nil
	}
	raw, err := json.Marshal(dedupe(ids))
	if err != nil {
		return err
	}
	return s.put(ctx, s.key(CollectionAchievements, sess.Username), raw)
}

func (s *Store) decodeIDs(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		logrus.WithField("collection", CollectionAchievements).Warnf("corrupt achievement set, treating as empty: %v", err)
		s.skipped(CollectionAchievements)
		return []string{}
	}
	return dedupe(ids)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

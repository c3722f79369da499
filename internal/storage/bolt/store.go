package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"dogdog/internal/models"
	"dogdog/internal/storage"
)

const (
	progressBucket = "progress"
	sessionBucket  = "session"
	statsBucket    = "stats"
	metaBucket     = "meta"

	schemaVersionKey = "schema_version"
	schemaVersion    = 1

	sessionKey = "current"
	statsKey   = "global"

	// legacySaveBucket held every record under one bucket before the
	// schema split. Open migrates it and bumps the schema version.
	legacySaveBucket = "save"
)

// Store provides a BoltDB-backed progress store for single-device saves.
type Store struct {
	db *bbolt.DB
}

var _ storage.ProgressStore = (*Store)(nil)

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveProgress persists the progress record for its learning path.
func (s *Store) SaveProgress(ctx context.Context, progress *models.PathProgress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if progress == nil {
		return fmt.Errorf("progress is required")
	}
	if !progress.Path.Valid() {
		return fmt.Errorf("invalid path type %q", progress.Path)
	}

	payload, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(progressBucket))
		if bucket == nil {
			return fmt.Errorf("progress bucket is missing")
		}
		return bucket.Put([]byte(progress.Path), payload)
	})
}

// LoadProgress fetches the progress record for a learning path.
func (s *Store) LoadProgress(ctx context.Context, path models.PathType) (*models.PathProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var progress models.PathProgress
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(progressBucket))
		if bucket == nil {
			return fmt.Errorf("progress bucket is missing")
		}
		payload := bucket.Get([]byte(path))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &progress); err != nil {
			log.Printf("bolt: corrupt progress record for path %q: %v", path, err)
			return storage.ErrCorrupt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &progress, nil
}

// LoadAllProgress fetches every stored progress record keyed by path.
// Corrupt records are skipped so one damaged entry never hides the rest.
func (s *Store) LoadAllProgress(ctx context.Context) (map[models.PathType]*models.PathProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	all := make(map[models.PathType]*models.PathProgress)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(progressBucket))
		if bucket == nil {
			return fmt.Errorf("progress bucket is missing")
		}
		return bucket.ForEach(func(k, v []byte) error {
			var progress models.PathProgress
			if err := json.Unmarshal(v, &progress); err != nil {
				log.Printf("bolt: skipping corrupt progress record %q: %v", k, err)
				return nil
			}
			all[models.PathType(k)] = &progress
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return all, nil
}

// SaveSession persists the in-flight game session.
func (s *Store) SaveSession(ctx context.Context, session *models.GameSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if session == nil {
		return fmt.Errorf("session is required")
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		return bucket.Put([]byte(sessionKey), payload)
	})
}

// LoadSession fetches the saved game session, if one exists.
func (s *Store) LoadSession(ctx context.Context) (*models.GameSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var session models.GameSession
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		payload := bucket.Get([]byte(sessionKey))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &session); err != nil {
			log.Printf("bolt: corrupt session record: %v", err)
			return storage.ErrCorrupt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// ClearSession removes the saved game session. Clearing an absent
// session is not an error.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		return bucket.Delete([]byte(sessionKey))
	})
}

// SaveGlobalStats persists the lifetime play statistics.
func (s *Store) SaveGlobalStats(ctx context.Context, stats *models.GlobalStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if stats == nil {
		return fmt.Errorf("stats are required")
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(statsBucket))
		if bucket == nil {
			return fmt.Errorf("stats bucket is missing")
		}
		return bucket.Put([]byte(statsKey), payload)
	})
}

// LoadGlobalStats fetches the lifetime play statistics, returning
// zero-valued defaults when none have been saved yet.
func (s *Store) LoadGlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	stats := &models.GlobalStats{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(statsBucket))
		if bucket == nil {
			return fmt.Errorf("stats bucket is missing")
		}
		payload := bucket.Get([]byte(statsKey))
		if payload == nil {
			return nil
		}
		if err := json.Unmarshal(payload, stats); err != nil {
			log.Printf("bolt: corrupt stats record, starting fresh: %v", err)
			*stats = models.GlobalStats{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// ClearAll wipes every stored record, keeping the schema version.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{progressBucket, sessionBucket, statsBucket} {
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return fmt.Errorf("delete %s bucket: %w", name, err)
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return fmt.Errorf("recreate %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{progressBucket, sessionBucket, statsBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// migrate brings an older save file up to the current schema. It runs
// once per version bump and is a no-op on current files.
func (s *Store) migrate() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket([]byte(metaBucket))
		if meta == nil {
			return fmt.Errorf("meta bucket is missing")
		}

		current := 0
		if raw := meta.Get([]byte(schemaVersionKey)); raw != nil {
			v, err := strconv.Atoi(string(raw))
			if err != nil {
				return fmt.Errorf("parse schema version %q: %w", raw, err)
			}
			current = v
		}
		if current >= schemaVersion {
			return nil
		}

		if current < 1 {
			if err := migrateLegacySave(tx); err != nil {
				return err
			}
		}

		return meta.Put([]byte(schemaVersionKey), []byte(strconv.Itoa(schemaVersion)))
	})
}

// migrateLegacySave splits the old single-bucket layout, where keys were
// prefixed record names, into the per-record buckets used today.
func migrateLegacySave(tx *bbolt.Tx) error {
	legacy := tx.Bucket([]byte(legacySaveBucket))
	if legacy == nil {
		return nil
	}

	err := legacy.ForEach(func(k, v []byte) error {
		key := string(k)
		switch {
		case strings.HasPrefix(key, "progress:"):
			path := strings.TrimPrefix(key, "progress:")
			return tx.Bucket([]byte(progressBucket)).Put([]byte(path), v)
		case key == "session":
			return tx.Bucket([]byte(sessionBucket)).Put([]byte(sessionKey), v)
		case key == "stats":
			return tx.Bucket([]byte(statsBucket)).Put([]byte(statsKey), v)
		default:
			log.Printf("bolt: dropping unknown legacy record %q", key)
			return nil
		}
	})
	if err != nil {
		return fmt.Errorf("migrate legacy save bucket: %w", err)
	}

	if err := tx.DeleteBucket([]byte(legacySaveBucket)); err != nil {
		return fmt.Errorf("drop legacy save bucket: %w", err)
	}
	return nil
}

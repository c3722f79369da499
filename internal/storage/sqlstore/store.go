package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dogdog/internal/database"
	"dogdog/internal/models"
	"dogdog/internal/storage"
)

// Settings keys used by the store.
const (
	settingCurrentSession = "current_session_id"
	settingGlobalStats    = "global_stats"
)

// Store persists progress in a relational database through the dialect
// layer. Past sessions and per-answer history are kept as an archive for
// the statistics screens.
type Store struct {
	db *database.DB
}

var (
	_ storage.ProgressStore  = (*Store)(nil)
	_ storage.AnswerRecorder = (*Store)(nil)
)

// New creates a store over an initialized, migrated database.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveProgress writes the progress row for its learning path.
func (s *Store) SaveProgress(ctx context.Context, progress *models.PathProgress) error {
	if progress == nil {
		return fmt.Errorf("progress is required")
	}
	if !progress.Path.Valid() {
		return fmt.Errorf("invalid path type %q", progress.Path)
	}

	query := `
		INSERT INTO progress (path, current_checkpoint, completed_checkpoints, answered_question_ids,
			power_fifty_fifty, power_hint, power_extra_time, power_skip, power_second_chance,
			correct_answers, total_answers, best_accuracy, time_spent_seconds, fallback_count,
			last_played, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	` + s.db.GetDialect().UpsertClause("path",
		"current_checkpoint", "completed_checkpoints", "answered_question_ids",
		"power_fifty_fifty", "power_hint", "power_extra_time", "power_skip", "power_second_chance",
		"correct_answers", "total_answers", "best_accuracy", "time_spent_seconds", "fallback_count",
		"last_played", "completed")

	_, err := s.db.ExecContext(ctx, query,
		string(progress.Path),
		string(progress.CurrentCheckpoint),
		checkpointsToString(progress.CompletedCheckpoints),
		idsToString(progress.AnsweredQuestionIDs),
		progress.PowerUps[models.PowerUpFiftyFifty],
		progress.PowerUps[models.PowerUpHint],
		progress.PowerUps[models.PowerUpExtraTime],
		progress.PowerUps[models.PowerUpSkip],
		progress.PowerUps[models.PowerUpSecondChance],
		progress.CorrectAnswers,
		progress.TotalAnswers,
		progress.BestAccuracy,
		int64(progress.TimeSpent/time.Second),
		progress.FallbackCount,
		nullableTime(progress.LastPlayed),
		progress.Completed,
	)
	if err != nil {
		return fmt.Errorf("save progress for %s: %w", progress.Path, err)
	}
	return nil
}

// LoadProgress returns the progress row for a learning path.
func (s *Store) LoadProgress(ctx context.Context, path models.PathType) (*models.PathProgress, error) {
	query := `
		SELECT path, current_checkpoint, completed_checkpoints, answered_question_ids,
		       power_fifty_fifty, power_hint, power_extra_time, power_skip, power_second_chance,
		       correct_answers, total_answers, best_accuracy, time_spent_seconds, fallback_count,
		       last_played, completed
		FROM progress
		WHERE path = ?
	`

	progress := models.NewPathProgress(path)
	var (
		pathStr, checkpointStr, completedStr, answeredStr string
		fifty, hint, extra, skip, second                  int
		timeSpentSeconds                                  int64
		lastPlayed                                        sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, query, string(path)).Scan(
		&pathStr,
		&checkpointStr,
		&completedStr,
		&answeredStr,
		&fifty,
		&hint,
		&extra,
		&skip,
		&second,
		&progress.CorrectAnswers,
		&progress.TotalAnswers,
		&progress.BestAccuracy,
		&timeSpentSeconds,
		&progress.FallbackCount,
		&lastPlayed,
		&progress.Completed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		log.Printf("sqlstore: corrupt progress row for path %q: %v", path, err)
		return nil, storage.ErrCorrupt
	}

	progress.Path = models.PathType(pathStr)
	progress.CurrentCheckpoint = models.Checkpoint(checkpointStr)
	progress.CompletedCheckpoints = stringToCheckpoints(completedStr)
	progress.AnsweredQuestionIDs = stringToIDs(answeredStr)
	progress.PowerUps[models.PowerUpFiftyFifty] = fifty
	progress.PowerUps[models.PowerUpHint] = hint
	progress.PowerUps[models.PowerUpExtraTime] = extra
	progress.PowerUps[models.PowerUpSkip] = skip
	progress.PowerUps[models.PowerUpSecondChance] = second
	progress.TimeSpent = time.Duration(timeSpentSeconds) * time.Second
	if lastPlayed.Valid {
		progress.LastPlayed = lastPlayed.Time
	}

	return progress, nil
}

// LoadAllProgress returns every progress row keyed by path. Rows that fail
// to scan are skipped so one damaged row never hides the rest.
func (s *Store) LoadAllProgress(ctx context.Context) (map[models.PathType]*models.PathProgress, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM progress`)
	if err != nil {
		return nil, fmt.Errorf("list progress paths: %w", err)
	}
	defer rows.Close()

	var paths []models.PathType
	for rows.Next() {
		var pathStr string
		if err := rows.Scan(&pathStr); err != nil {
			log.Printf("sqlstore: skipping unreadable progress row: %v", err)
			continue
		}
		paths = append(paths, models.PathType(pathStr))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list progress paths: %w", err)
	}

	all := make(map[models.PathType]*models.PathProgress)
	for _, path := range paths {
		progress, err := s.LoadProgress(ctx, path)
		if err != nil {
			if storage.IsMissing(err) {
				continue
			}
			return nil, err
		}
		all[path] = progress
	}

	return all, nil
}

// SaveSession upserts the session row and points the current-session
// setting at it, in one transaction.
func (s *Store) SaveSession(ctx context.Context, session *models.GameSession) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}

	query := `
		INSERT INTO game_sessions (id, path, lives, current_question_id, answered_ids,
			correct_count, interval_correct, interval_total, streak, mistake_streak,
			recent_results, used_fifty_fifty, used_hint, used_extra_time, used_skip,
			used_second_chance, second_chance_armed, paused, started_at, time_elapsed_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	` + s.db.GetDialect().UpsertClause("id",
		"path", "lives", "current_question_id", "answered_ids",
		"correct_count", "interval_correct", "interval_total", "streak", "mistake_streak",
		"recent_results", "used_fifty_fifty", "used_hint", "used_extra_time", "used_skip",
		"used_second_chance", "second_chance_armed", "paused", "started_at", "time_elapsed_seconds")

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save session: %w", err)
	}

	_, err = tx.ExecContext(ctx, query,
		session.ID,
		string(session.Path),
		session.Lives,
		session.CurrentQuestionID,
		idsToString(session.AnsweredIDs),
		session.CorrectCount,
		session.IntervalCorrect,
		session.IntervalTotal,
		session.Streak,
		session.MistakeStreak,
		resultsToString(session.RecentResults),
		session.PowerUpsUsed[models.PowerUpFiftyFifty],
		session.PowerUpsUsed[models.PowerUpHint],
		session.PowerUpsUsed[models.PowerUpExtraTime],
		session.PowerUpsUsed[models.PowerUpSkip],
		session.PowerUpsUsed[models.PowerUpSecondChance],
		session.SecondChanceArmed,
		session.Paused,
		session.StartedAt,
		int64(session.TimeElapsed/time.Second),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}

	if err := putSetting(ctx, tx, settingCurrentSession, session.ID); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// LoadSession returns the session the current-session setting points at.
func (s *Store) LoadSession(ctx context.Context) (*models.GameSession, error) {
	sessionID, err := getSetting(ctx, s.db, settingCurrentSession)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load current session id: %w", err)
	}

	session, err := s.loadSessionByID(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("sqlstore: current session %s has no row, treating as absent", sessionID)
		return nil, storage.ErrNotFound
	}
	if err != nil {
		log.Printf("sqlstore: corrupt session row %s: %v", sessionID, err)
		return nil, storage.ErrCorrupt
	}
	return session, nil
}

func (s *Store) loadSessionByID(ctx context.Context, sessionID string) (*models.GameSession, error) {
	query := `
		SELECT id, path, lives, current_question_id, answered_ids,
		       correct_count, interval_correct, interval_total, streak, mistake_streak,
		       recent_results, used_fifty_fifty, used_hint, used_extra_time, used_skip,
		       used_second_chance, second_chance_armed, paused, started_at, time_elapsed_seconds
		FROM game_sessions
		WHERE id = ?
	`

	session := &models.GameSession{PowerUpsUsed: make(map[models.PowerUpType]int)}
	var (
		pathStr, answeredStr, resultsStr                           string
		usedFifty, usedHint, usedExtra, usedSkip, usedSecondChance int
		timeElapsedSeconds                                         int64
	)

	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(
		&session.ID,
		&pathStr,
		&session.Lives,
		&session.CurrentQuestionID,
		&answeredStr,
		&session.CorrectCount,
		&session.IntervalCorrect,
		&session.IntervalTotal,
		&session.Streak,
		&session.MistakeStreak,
		&resultsStr,
		&usedFifty,
		&usedHint,
		&usedExtra,
		&usedSkip,
		&usedSecondChance,
		&session.SecondChanceArmed,
		&session.Paused,
		&session.StartedAt,
		&timeElapsedSeconds,
	)
	if err != nil {
		return nil, err
	}

	session.Path = models.PathType(pathStr)
	session.AnsweredIDs = stringToIDs(answeredStr)
	session.RecentResults = stringToResults(resultsStr)
	session.TimeElapsed = time.Duration(timeElapsedSeconds) * time.Second
	setUsed(session.PowerUpsUsed, models.PowerUpFiftyFifty, usedFifty)
	setUsed(session.PowerUpsUsed, models.PowerUpHint, usedHint)
	setUsed(session.PowerUpsUsed, models.PowerUpExtraTime, usedExtra)
	setUsed(session.PowerUpsUsed, models.PowerUpSkip, usedSkip)
	setUsed(session.PowerUpsUsed, models.PowerUpSecondChance, usedSecondChance)

	return session, nil
}

// ClearSession unsets the current-session pointer. The session row stays
// behind as history.
func (s *Store) ClearSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE name = ?`, settingCurrentSession)
	if err != nil {
		return fmt.Errorf("clear current session: %w", err)
	}
	return nil
}

// SaveGlobalStats writes the lifetime play statistics as a settings row.
func (s *Store) SaveGlobalStats(ctx context.Context, stats *models.GlobalStats) error {
	if stats == nil {
		return fmt.Errorf("stats are required")
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return putSetting(ctx, s.db, settingGlobalStats, string(payload))
}

// LoadGlobalStats returns the lifetime play statistics, zero-valued when
// none have been saved yet.
func (s *Store) LoadGlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	stats := &models.GlobalStats{}

	value, err := getSetting(ctx, s.db, settingGlobalStats)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}

	if err := json.Unmarshal([]byte(value), stats); err != nil {
		log.Printf("sqlstore: corrupt stats payload, starting fresh: %v", err)
		*stats = models.GlobalStats{}
	}
	return stats, nil
}

// ClearAll wipes progress, sessions, history, and settings.
func (s *Store) ClearAll(ctx context.Context) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}

	for _, table := range []string{"answer_history", "game_sessions", "progress", "settings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			tx.Rollback()
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// RecordAnswer archives one graded answer.
func (s *Store) RecordAnswer(ctx context.Context, sessionID, questionID string, correct bool) error {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(questionID) == "" {
		return fmt.Errorf("session id and question id are required")
	}

	query := `INSERT INTO answer_history (session_id, question_id, correct) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, sessionID, questionID, correct); err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// AnswerHistory returns the archived answers for a session, oldest first.
func (s *Store) AnswerHistory(ctx context.Context, sessionID string) ([]models.AnswerRecord, error) {
	query := `
		SELECT session_id, question_id, correct, answered_at
		FROM answer_history
		WHERE session_id = ?
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load answer history: %w", err)
	}
	defer rows.Close()

	var records []models.AnswerRecord
	for rows.Next() {
		var record models.AnswerRecord
		var answeredAt sql.NullTime
		if err := rows.Scan(&record.SessionID, &record.QuestionID, &record.Correct, &answeredAt); err != nil {
			return nil, fmt.Errorf("scan answer record: %w", err)
		}
		if answeredAt.Valid {
			record.AnsweredAt = answeredAt.Time
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// SessionHistory returns past and current session rows, newest first.
func (s *Store) SessionHistory(ctx context.Context, limit int) ([]models.GameSession, error) {
	query := `
		SELECT id
		FROM game_sessions
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("load session history: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions := make([]models.GameSession, 0, len(ids))
	for _, id := range ids {
		session, err := s.loadSessionByID(ctx, id)
		if err != nil {
			log.Printf("sqlstore: skipping unreadable session %s: %v", id, err)
			continue
		}
		sessions = append(sessions, *session)
	}

	return sessions, nil
}

// putSetting inserts or updates one settings row. It runs over a *DB or
// an open transaction.
func putSetting(ctx context.Context, q database.DBTX, name, value string) error {
	query := `INSERT INTO settings (name, value) VALUES (?, ?) ` +
		q.GetDialect().UpsertClause("name", "value")
	if _, err := q.ExecContext(ctx, query, name, value); err != nil {
		return fmt.Errorf("put setting %s: %w", name, err)
	}
	return nil
}

// getSetting reads one settings row, passing through sql.ErrNoRows.
func getSetting(ctx context.Context, q database.DBTX, name string) (string, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = ?`, name).Scan(&value)
	return value, err
}

func setUsed(used map[models.PowerUpType]int, p models.PowerUpType, count int) {
	if count > 0 {
		used[p] = count
	}
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

// idsToString joins question ids for a single text column.
func idsToString(ids []string) string {
	return strings.Join(ids, ",")
}

func stringToIDs(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func checkpointsToString(checkpoints []models.Checkpoint) string {
	names := make([]string, len(checkpoints))
	for i, c := range checkpoints {
		names[i] = string(c)
	}
	return strings.Join(names, ",")
}

// stringToCheckpoints parses a joined checkpoint list, dropping names no
// current build recognizes.
func stringToCheckpoints(joined string) []models.Checkpoint {
	if joined == "" {
		return nil
	}
	var checkpoints []models.Checkpoint
	for _, part := range strings.Split(joined, ",") {
		c := models.Checkpoint(strings.TrimSpace(part))
		if c.Valid() {
			checkpoints = append(checkpoints, c)
		}
	}
	return checkpoints
}

func resultsToString(results []bool) string {
	parts := make([]string, len(results))
	for i, correct := range results {
		if correct {
			parts[i] = "1"
		} else {
			parts[i] = "0"
		}
	}
	return strings.Join(parts, ",")
}

func stringToResults(joined string) []bool {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	results := make([]bool, 0, len(parts))
	for _, part := range parts {
		results = append(results, strings.TrimSpace(part) == "1")
	}
	return results
}

// Package game runs a trivia session from the first question to game
// over. It ties the question pool, difficulty progression, checkpoint
// rewards and fallback rules together, keeps in-memory state as the
// source of truth, and mirrors every change to the progress store in
// the background.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"dogdog/internal/fallback"
	"dogdog/internal/messages"
	"dogdog/internal/models"
	"dogdog/internal/pool"
	"dogdog/internal/progression"
	"dogdog/internal/rewards"
	"dogdog/internal/storage"
	"dogdog/internal/track"
)

var (
	// ErrNoSession is returned when an operation needs an active session
	ErrNoSession = errors.New("game: no active session")

	// ErrSessionActive is returned when a session is already running
	ErrSessionActive = errors.New("game: a session is already active")

	// ErrPaused is returned for play operations while the session is paused
	ErrPaused = errors.New("game: session is paused")

	// ErrOutOfQuestions is returned when the path has no questions left
	// to ask, even after relaxing exclusions where allowed
	ErrOutOfQuestions = errors.New("game: no questions left on this path")

	// ErrPowerUpUnavailable is returned when the inventory has none of
	// the requested power-up
	ErrPowerUpUnavailable = errors.New("game: power-up not available")
)

const defaultBatchSize = 10

// Localizer resolves a question's text for a display locale
type Localizer interface {
	Localize(q models.Question, locale string) models.LocalizedQuestion
}

// Engine drives one trivia session at a time. All exported methods are
// safe to call from the autosave ticker and the shutdown path as well
// as the main loop.
type Engine struct {
	mu sync.Mutex

	store     storage.ProgressStore
	recorder  storage.AnswerRecorder // nil when the backend keeps no archive
	pool      *pool.Pool
	localizer Localizer
	policy    *fallback.Policy
	saver     *saver
	rng       *rand.Rand
	locale    string
	batchSize int

	session  *models.GameSession
	progress *models.PathProgress
	stats    *models.GlobalStats
	track    *track.Track

	batch          []models.Question
	current        *models.Question
	answered       bool // current question has been graded
	lastWrong      bool // latest grading of the current question was wrong
	usedOnQuestion map[models.PowerUpType]bool
	skipped        []string // questions passed with a skip, this session

	// restartLevel is set after a fallback so the next batch is drawn at
	// the reset point's difficulty with relaxed exclusions
	restartLevel int

	runningSince time.Time // zero while paused or between sessions
}

// Option configures an Engine
type Option func(*Engine)

// WithLocale sets the display locale for question text
func WithLocale(locale string) Option {
	return func(e *Engine) { e.locale = locale }
}

// WithBatchSize sets how many questions are drawn per batch
func WithBatchSize(n int) Option {
	return func(e *Engine) { e.batchSize = n }
}

// WithRand sets the random source used for fifty-fifty choice removal
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// New builds an engine over a store, a question pool, a localizer and a
// fallback policy
func New(store storage.ProgressStore, questions *pool.Pool, localizer Localizer, policy *fallback.Policy, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("progress store is required")
	}
	if questions == nil {
		return nil, fmt.Errorf("question pool is required")
	}
	if localizer == nil {
		return nil, fmt.Errorf("localizer is required")
	}
	if policy == nil {
		return nil, fmt.Errorf("fallback policy is required")
	}

	e := &Engine{
		store:     store,
		pool:      questions,
		localizer: localizer,
		policy:    policy,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		locale:    "en-US",
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.batchSize < 1 {
		return nil, fmt.Errorf("batch size must be positive, got %d", e.batchSize)
	}

	e.recorder, _ = store.(storage.AnswerRecorder)
	e.saver = newSaver(store)
	return e, nil
}

// StartSession begins a fresh run on a path and returns its first
// question. Saved progress for the path carries over; a saved session
// does not (use ResumeSession for that).
func (e *Engine) StartSession(ctx context.Context, path models.PathType) (models.LocalizedQuestion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var none models.LocalizedQuestion
	if e.session != nil {
		return none, ErrSessionActive
	}
	if !path.Valid() {
		return none, fmt.Errorf("unknown path type: %q", path)
	}

	progress, err := e.store.LoadProgress(ctx, path)
	if err != nil {
		if !storage.IsMissing(err) {
			return none, fmt.Errorf("load progress: %w", err)
		}
		progress = models.NewPathProgress(path)
	}
	stats, err := e.store.LoadGlobalStats(ctx)
	if err != nil {
		return none, fmt.Errorf("load stats: %w", err)
	}

	e.session = models.NewGameSession(path)
	e.progress = progress
	e.stats = stats
	e.track = track.FromProgress(progress)
	e.skipped = nil
	e.restartLevel = 0

	if err := e.deal(e.strictExclusions(), e.dist()); err != nil {
		e.reset()
		return none, err
	}

	now := time.Now()
	e.stats.SessionsPlayed++
	e.stats.LastPlayed = now
	e.progress.LastPlayed = now
	e.runningSince = now
	e.scheduleSave()
	return e.localized(*e.current), nil
}

// ResumeSession restores an interrupted session from the store. The
// saved current question is restored when it is still unanswered;
// otherwise the next question request deals a fresh batch.
func (e *Engine) ResumeSession(ctx context.Context) (*models.GameSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		return nil, ErrSessionActive
	}

	session, err := e.store.LoadSession(ctx)
	if err != nil {
		if storage.IsMissing(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	progress, err := e.store.LoadProgress(ctx, session.Path)
	if err != nil {
		if !storage.IsMissing(err) {
			return nil, fmt.Errorf("load progress: %w", err)
		}
		progress = models.NewPathProgress(session.Path)
	}
	stats, err := e.store.LoadGlobalStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}

	e.session = session
	e.progress = progress
	e.stats = stats
	e.track = track.FromProgress(progress)
	e.skipped = nil
	e.restartLevel = 0
	e.batch = nil
	e.current = nil
	e.answered = false
	e.lastWrong = false
	e.usedOnQuestion = make(map[models.PowerUpType]bool)

	if q, ok := e.pool.QuestionByID(session.CurrentQuestionID); ok && !session.HasAnswered(q.ID) {
		e.current = &q
	}
	if !session.Paused {
		e.runningSince = time.Now()
	}
	return session.Clone(), nil
}

// SubmitAnswer grades the kid's answer to the current question. A wrong
// answer costs a life; a correct one can cross a checkpoint threshold
// and earn its reward bundle.
func (e *Engine) SubmitAnswer(ctx context.Context, questionID string, selectedIndex int) (AnswerOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var none AnswerOutcome
	if e.session == nil {
		return none, ErrNoSession
	}
	if e.session.Paused {
		return none, ErrPaused
	}
	if e.current == nil {
		return none, fmt.Errorf("no question is being asked")
	}
	if questionID != e.current.ID {
		return none, fmt.Errorf("question %q is not the current question", questionID)
	}
	if e.answered && !e.session.SecondChanceArmed {
		return none, fmt.Errorf("question %q was already answered", questionID)
	}

	q := *e.current
	loc := e.localized(q)
	if selectedIndex < 0 || selectedIndex >= len(loc.Choices) {
		return none, fmt.Errorf("answer index %d out of range for question %q", selectedIndex, q.ID)
	}

	e.session.SecondChanceArmed = false
	e.answered = true
	correct := selectedIndex == q.CorrectIndex
	now := time.Now()

	e.session.RecordResult(q.ID, correct)
	if !e.progress.HasAnswered(q.ID) {
		e.progress.AnsweredQuestionIDs = append(e.progress.AnsweredQuestionIDs, q.ID)
	}
	e.progress.TotalAnswers++
	e.progress.LastPlayed = now
	e.stats.QuestionsAnswered++
	e.stats.LastPlayed = now

	outcome := AnswerOutcome{
		QuestionID:   q.ID,
		Correct:      correct,
		CorrectIndex: q.CorrectIndex,
		FunFact:      loc.FunFact,
	}

	if correct {
		e.lastWrong = false
		e.progress.CorrectAnswers++
		e.stats.CorrectAnswers++
		outcome.Points = q.Points()
		e.applyCheckpointCrossing(&outcome)
	} else {
		e.lastWrong = true
		e.session.LoseLife()
		outcome.GameOver = e.session.Lives == 0
		outcome.CanSecondChance = !e.usedOnQuestion[models.PowerUpSecondChance] &&
			e.progress.PowerUps[models.PowerUpSecondChance] > 0
	}
	outcome.Streak = e.session.Streak
	outcome.LivesLeft = e.session.Lives

	e.recordAnswer(ctx, q.ID, correct)
	e.scheduleSave()
	return outcome, nil
}

// applyCheckpointCrossing completes the next checkpoint when the path's
// correct-answer count has reached its threshold
func (e *Engine) applyCheckpointCrossing(outcome *AnswerOutcome) {
	next, ok := e.track.NextToEarn()
	if !ok || e.progress.CorrectAnswers < next.Threshold() {
		return
	}

	accuracy := e.session.IntervalAccuracy()
	bundle, err := rewards.For(next, accuracy)
	if err != nil {
		log.Printf("Warning: no reward bundle for checkpoint %s: %v", next, err)
		bundle = models.NewRewardBundle()
	}

	wasComplete := e.track.IsComplete()
	e.track.Complete(next)
	e.track.ApplyTo(e.progress)
	e.progress.GrantPowerUps(bundle)
	if accuracy > e.progress.BestAccuracy {
		e.progress.BestAccuracy = accuracy
	}
	e.session.ResetInterval()

	message := messages.CheckpointEarned(next.DisplayName())
	if e.track.IsComplete() && !wasComplete {
		e.stats.PathsCompleted++
		message = messages.PathComplete(e.session.Path.DisplayName())
		outcome.PathCompleted = true
	}

	outcome.Checkpoint = &CheckpointGrant{
		Checkpoint:       next,
		Rewards:          bundle,
		IntervalAccuracy: accuracy,
		Message:          message,
	}
}

// NextQuestion advances to the next question, dealing a new batch when
// the current one runs out
func (e *Engine) NextQuestion(ctx context.Context) (models.LocalizedQuestion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var none models.LocalizedQuestion
	if e.session == nil {
		return none, ErrNoSession
	}
	if e.session.Paused {
		return none, ErrPaused
	}
	if e.current != nil && !e.answered {
		return none, fmt.Errorf("question %q has not been answered", e.current.ID)
	}
	if e.session.Lives == 0 {
		return none, fmt.Errorf("no lives left, the run is over")
	}

	switch {
	case e.restartLevel > 0:
		level := e.restartLevel
		e.restartLevel = 0
		if err := e.dealRelaxed(progression.DistributionForLevel(level)); err != nil {
			return none, err
		}
	case len(e.batch) == 0:
		if err := e.deal(e.strictExclusions(), e.dist()); err != nil {
			return none, err
		}
	default:
		e.takeNext()
	}

	e.scheduleSave()
	return e.localized(*e.current), nil
}

// CurrentQuestion returns the question waiting for an answer
func (e *Engine) CurrentQuestion() (models.LocalizedQuestion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var none models.LocalizedQuestion
	if e.session == nil {
		return none, ErrNoSession
	}
	if e.current == nil {
		return none, fmt.Errorf("no question is being asked")
	}
	return e.localized(*e.current), nil
}

// UsePowerUp spends one power-up from the path inventory and returns its
// effect. Each power-up can be used once per question.
func (e *Engine) UsePowerUp(ctx context.Context, powerUp models.PowerUpType) (PowerUpEffect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var none PowerUpEffect
	if e.session == nil {
		return none, ErrNoSession
	}
	if e.session.Paused {
		return none, ErrPaused
	}
	if !powerUp.Valid() {
		return none, fmt.Errorf("unknown power-up type: %q", powerUp)
	}
	if e.current == nil {
		return none, fmt.Errorf("no question is being asked")
	}
	if e.progress.PowerUps[powerUp] == 0 {
		return none, ErrPowerUpUnavailable
	}
	if e.usedOnQuestion[powerUp] {
		return none, fmt.Errorf("%s was already used on this question", powerUp.DisplayName())
	}

	effect := PowerUpEffect{Type: powerUp}
	switch powerUp {
	case models.PowerUpFiftyFifty:
		if e.answered {
			return none, fmt.Errorf("question %q was already answered", e.current.ID)
		}
		effect.RemovedChoices = e.pickWrongChoices(*e.current)
	case models.PowerUpHint:
		if e.answered {
			return none, fmt.Errorf("question %q was already answered", e.current.ID)
		}
		effect.FunFact = e.localized(*e.current).FunFact
	case models.PowerUpExtraTime:
		if e.answered {
			return none, fmt.Errorf("question %q was already answered", e.current.ID)
		}
		effect.ExtraTime = ExtraTimeGrant
	case models.PowerUpSkip:
		if e.answered {
			return none, fmt.Errorf("question %q was already answered", e.current.ID)
		}
		e.skipped = append(e.skipped, e.current.ID)
		e.answered = true
		e.lastWrong = false
		effect.Skipped = true
	case models.PowerUpSecondChance:
		if !e.answered || !e.lastWrong {
			return none, fmt.Errorf("a second chance needs a wrong answer to retry")
		}
		e.session.Lives++
		if e.session.Lives > models.MaxLives {
			e.session.Lives = models.MaxLives
		}
		e.session.SecondChanceArmed = true
		effect.QuestionReopened = true
	}

	e.progress.PowerUps[powerUp]--
	e.session.PowerUpsUsed[powerUp]++
	e.usedOnQuestion[powerUp] = true
	effect.LivesLeft = e.session.Lives
	effect.Remaining = e.progress.PowerUps[powerUp]

	e.scheduleSave()
	return effect, nil
}

// pickWrongChoices returns up to two wrong answer indexes to hide
func (e *Engine) pickWrongChoices(q models.Question) []int {
	loc := e.localized(q)
	wrong := make([]int, 0, len(loc.Choices))
	for i := range loc.Choices {
		if i != q.CorrectIndex {
			wrong = append(wrong, i)
		}
	}
	e.rng.Shuffle(len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })
	if len(wrong) > 2 {
		wrong = wrong[:2]
	}
	sort.Ints(wrong)
	return wrong
}

// OnLivesExhausted ends the current run and applies the fallback
// decision: progress rolls back to the reset point, lives and the
// consolation bundle are granted, and the next question request deals a
// batch at the reset point's difficulty
func (e *Engine) OnLivesExhausted(ctx context.Context) (models.FallbackResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var none models.FallbackResult
	if e.session == nil {
		return none, ErrNoSession
	}
	if e.session.Lives > 0 {
		return none, fmt.Errorf("lives remain: %d", e.session.Lives)
	}

	result := e.policy.HandleGameOver(e.progress)
	switch result.Action {
	case models.FallbackResetToCheckpoint:
		e.progress.FallbackCount++
		e.progress.CorrectAnswers = result.Checkpoint.Threshold()
		e.progress.GrantPowerUps(result.PowerUps)
		e.stats.FallbacksTriggered++
		e.resumeAttempt(result.RestoredLives)
		e.restartLevel = progression.CheckpointLevel(result.Checkpoint)
	case models.FallbackRestartFromBeginning:
		e.progress.FallbackCount++
		e.progress.CorrectAnswers = 0
		e.progress.AnsweredQuestionIDs = append([]string(nil), e.session.AnsweredIDs...)
		e.progress.GrantPowerUps(result.PowerUps)
		e.stats.FallbacksTriggered++
		e.resumeAttempt(result.RestoredLives)
		e.restartLevel = 1
	case models.FallbackFailed:
		return result, nil
	}

	now := time.Now()
	e.progress.LastPlayed = now
	e.stats.LastPlayed = now
	e.scheduleSave()
	return result, nil
}

// resumeAttempt rewinds the session for continued play after a fallback
func (e *Engine) resumeAttempt(lives int) {
	e.session.Lives = lives
	e.session.ResetInterval()
	e.session.Streak = 0
	e.session.MistakeStreak = 0
	e.session.RecentResults = nil
	e.session.SecondChanceArmed = false
	e.session.CurrentQuestionID = ""
	e.batch = nil
	e.current = nil
	e.answered = false
	e.lastWrong = false
	e.usedOnQuestion = make(map[models.PowerUpType]bool)
}

// Pause freezes the session clock and saves so an interrupted game can
// resume. Pausing a paused session changes nothing.
func (e *Engine) Pause(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return ErrNoSession
	}
	if e.session.Paused {
		return nil
	}
	e.session.Paused = true
	e.accumulateTime()
	e.scheduleSave()
	return nil
}

// Resume restarts the session clock after a pause
func (e *Engine) Resume(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return ErrNoSession
	}
	if !e.session.Paused {
		return nil
	}
	e.session.Paused = false
	e.runningSince = time.Now()
	return nil
}

// EndSession finishes the run, folds its time into the path totals and
// clears the saved session
func (e *Engine) EndSession(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return ErrNoSession
	}

	e.accumulateTime()
	e.progress.TimeSpent += e.session.TimeElapsed
	e.stats.PlayTime += e.session.TimeElapsed
	now := time.Now()
	e.progress.LastPlayed = now
	e.stats.LastPlayed = now

	e.saver.schedule(saveState{
		progress:     e.progress.Clone(),
		stats:        cloneStats(e.stats),
		clearSession: true,
	})
	e.reset()
	return nil
}

// Save schedules a snapshot of the current state, for autosave tickers
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return ErrNoSession
	}
	if !e.runningSince.IsZero() {
		now := time.Now()
		e.session.TimeElapsed += now.Sub(e.runningSince)
		e.runningSince = now
	}
	e.scheduleSave()
	return nil
}

// Close flushes pending saves and stops the background saver. The
// engine must not be used afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.saver.close()
	return nil
}

// Session returns a copy of the active session
func (e *Engine) Session() (*models.GameSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, ErrNoSession
	}
	return e.session.Clone(), nil
}

// Progress returns a copy of the active path's progress
func (e *Engine) Progress() (*models.PathProgress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, ErrNoSession
	}
	return e.progress.Clone(), nil
}

// Stats returns a copy of the global play stats
func (e *Engine) Stats() (*models.GlobalStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, ErrNoSession
	}
	return cloneStats(e.stats), nil
}

// NextCheckpoint returns the next checkpoint to earn and how many more
// correct answers reach it. ok is false once the path is complete.
func (e *Engine) NextCheckpoint() (models.Checkpoint, int, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return "", 0, false, ErrNoSession
	}
	next, ok := e.track.Next(e.progress.CorrectAnswers)
	if !ok {
		return "", 0, false, nil
	}
	remaining, _ := e.track.UntilNext(e.progress.CorrectAnswers)
	return next, remaining, true, nil
}

// deal draws a fresh batch and surfaces its first question
func (e *Engine) deal(exclude []string, dist progression.Distribution) error {
	batch, err := e.pool.SampleWithDistribution(e.session.Path, exclude, e.batchSize, dist)
	if err != nil {
		return fmt.Errorf("sample questions: %w", err)
	}
	if len(batch) == 0 {
		return ErrOutOfQuestions
	}
	e.batch = batch
	e.takeNext()
	return nil
}

// dealRelaxed draws a post-fallback batch. Exclusions shrink to the
// attempt's own questions, and if even those exhaust the pool the batch
// allows repeats rather than blocking play.
func (e *Engine) dealRelaxed(dist progression.Distribution) error {
	attempt := e.attemptExclusions()
	if !e.pool.HasEnoughForRestart(e.session.Path, attempt, e.batchSize) {
		log.Printf("Warning: path %s is low on fresh questions after a reset", e.session.Path)
	}

	batch, err := e.pool.SampleWithDistribution(e.session.Path, attempt, e.batchSize, dist)
	if err != nil {
		return fmt.Errorf("sample questions: %w", err)
	}
	if len(batch) == 0 {
		batch, err = e.pool.SampleWithDistribution(e.session.Path, nil, e.batchSize, dist)
		if err != nil {
			return fmt.Errorf("sample questions: %w", err)
		}
	}
	if len(batch) == 0 {
		return ErrOutOfQuestions
	}
	e.batch = batch
	e.takeNext()
	return nil
}

// takeNext surfaces the next question from the batch
func (e *Engine) takeNext() {
	q := e.batch[0]
	e.batch = e.batch[1:]
	e.current = &q
	e.answered = false
	e.lastWrong = false
	e.usedOnQuestion = make(map[models.PowerUpType]bool)
	e.session.CurrentQuestionID = q.ID
	e.session.SecondChanceArmed = false
}

// dist returns the tier weights for the kid's current level and form
func (e *Engine) dist() progression.Distribution {
	level := progression.LevelForQuestionCount(e.progress.CorrectAnswers)
	return progression.TargetDistribution(level, e.session.Streak, e.session.RecentMistakes())
}

// strictExclusions lists every question the path has ever answered plus
// this session's skips
func (e *Engine) strictExclusions() []string {
	exclude := make([]string, 0, len(e.progress.AnsweredQuestionIDs)+len(e.skipped))
	exclude = append(exclude, e.progress.AnsweredQuestionIDs...)
	exclude = append(exclude, e.skipped...)
	return exclude
}

// attemptExclusions lists only this session's questions, the relaxed
// set used after a fallback
func (e *Engine) attemptExclusions() []string {
	exclude := make([]string, 0, len(e.session.AnsweredIDs)+len(e.skipped))
	exclude = append(exclude, e.session.AnsweredIDs...)
	exclude = append(exclude, e.skipped...)
	return exclude
}

// recordAnswer archives the answer when the backend keeps history
func (e *Engine) recordAnswer(ctx context.Context, questionID string, correct bool) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordAnswer(ctx, e.session.ID, questionID, correct); err != nil {
		log.Printf("Warning: failed to archive answer %s: %v", questionID, err)
	}
}

// scheduleSave hands the saver an independent snapshot of all state
func (e *Engine) scheduleSave() {
	e.saver.schedule(saveState{
		progress: e.progress.Clone(),
		session:  e.session.Clone(),
		stats:    cloneStats(e.stats),
	})
}

// accumulateTime folds the running span into the session's elapsed time
func (e *Engine) accumulateTime() {
	if e.runningSince.IsZero() {
		return
	}
	e.session.TimeElapsed += time.Since(e.runningSince)
	e.runningSince = time.Time{}
}

// reset clears all per-session state
func (e *Engine) reset() {
	e.session = nil
	e.progress = nil
	e.stats = nil
	e.track = nil
	e.batch = nil
	e.current = nil
	e.answered = false
	e.lastWrong = false
	e.usedOnQuestion = nil
	e.skipped = nil
	e.restartLevel = 0
	e.runningSince = time.Time{}
}

func (e *Engine) localized(q models.Question) models.LocalizedQuestion {
	return e.localizer.Localize(q, e.locale)
}

func cloneStats(stats *models.GlobalStats) *models.GlobalStats {
	if stats == nil {
		return nil
	}
	clone := *stats
	return &clone
}

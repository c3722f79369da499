// Package pool selects trivia questions by difficulty distribution
// without repeating questions a kid has already answered.
package pool

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"dogdog/internal/models"
	"dogdog/internal/progression"
)

// ErrNotInitialized is returned when a pool has no questions to draw from
var ErrNotInitialized = errors.New("question pool not initialized")

// Pool holds the question inventory, indexed by path and difficulty tier
type Pool struct {
	mu     sync.Mutex
	rng    *rand.Rand
	byPath map[models.PathType]map[models.Difficulty][]models.Question
	byID   map[string]models.Question
	total  int
}

// Option configures a Pool
type Option func(*Pool)

// WithRand sets the random source used for sampling
func WithRand(rng *rand.Rand) Option {
	return func(p *Pool) { p.rng = rng }
}

// New builds a pool from a question inventory
func New(questions []models.Question, opts ...Option) (*Pool, error) {
	if len(questions) == 0 {
		return nil, ErrNotInitialized
	}

	p := &Pool{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		byPath: make(map[models.PathType]map[models.Difficulty][]models.Question),
		byID:   make(map[string]models.Question, len(questions)),
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, q := range questions {
		if !q.Path.Valid() {
			return nil, fmt.Errorf("question %q has unknown path %q", q.ID, q.Path)
		}
		if !q.Difficulty.Valid() {
			return nil, fmt.Errorf("question %q has unknown difficulty %d", q.ID, q.Difficulty)
		}
		tiers, ok := p.byPath[q.Path]
		if !ok {
			tiers = make(map[models.Difficulty][]models.Question)
			p.byPath[q.Path] = tiers
		}
		tiers[q.Difficulty] = append(tiers[q.Difficulty], q)
		p.byID[q.ID] = q
		p.total++
	}

	return p, nil
}

// QuestionByID looks up a question anywhere in the pool, for resuming a
// saved session at its stored current question
func (p *Pool) QuestionByID(id string) (models.Question, bool) {
	if p == nil || p.total == 0 {
		return models.Question{}, false
	}
	q, ok := p.byID[id]
	return q, ok
}

// Available counts the questions on a path whose ids are not excluded
func (p *Pool) Available(path models.PathType, exclude []string) int {
	if p == nil || p.total == 0 {
		return 0
	}
	excluded := excludeSet(exclude)
	count := 0
	for _, questions := range p.byPath[path] {
		for _, q := range questions {
			if !excluded[q.ID] {
				count++
			}
		}
	}
	return count
}

// HasEnough reports whether a full batch of the given size can be drawn
func (p *Pool) HasEnough(path models.PathType, exclude []string, count int) bool {
	return p.Available(path, exclude) >= count
}

// HasEnoughForRestart reports whether a full batch can be drawn once the
// exclusions shrink to just the attempt's own answers, which is how
// batches are drawn after a game-over reset. The answer is advisory: a
// reset goes ahead either way and the batch simply comes back short.
func (p *Pool) HasEnoughForRestart(path models.PathType, attemptAnswered []string, count int) bool {
	return p.HasEnough(path, attemptAnswered, count)
}

// Sample draws up to count questions for a path using the base difficulty
// distribution for the given level. Excluded ids are never drawn and no
// question repeats within a batch. When the drawn tier has no candidates
// left the closest remaining tier is used instead; once every tier is
// empty the batch is returned short.
func (p *Pool) Sample(path models.PathType, exclude []string, count, level int) ([]models.Question, error) {
	return p.SampleWithDistribution(path, exclude, count, progression.DistributionForLevel(level))
}

// SampleWithDistribution draws like Sample but with an explicit tier
// distribution, so batches can be biased by streaks and recent mistakes.
func (p *Pool) SampleWithDistribution(path models.PathType, exclude []string, count int, dist progression.Distribution) ([]models.Question, error) {
	if p == nil || p.total == 0 {
		return nil, ErrNotInitialized
	}
	if !path.Valid() {
		return nil, fmt.Errorf("unknown path type: %q", path)
	}
	if count < 0 {
		return nil, fmt.Errorf("negative sample count: %d", count)
	}
	if count == 0 {
		return nil, nil
	}

	excluded := excludeSet(exclude)
	candidates := make(map[models.Difficulty][]models.Question)
	for tier, questions := range p.byPath[path] {
		for _, q := range questions {
			if !excluded[q.ID] {
				candidates[tier] = append(candidates[tier], q)
			}
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	batch := make([]models.Question, 0, count)
	for len(batch) < count {
		tier, ok := p.drawTier(dist, candidates)
		if !ok {
			break
		}
		remaining := candidates[tier]
		idx := p.rng.Intn(len(remaining))
		batch = append(batch, remaining[idx])
		candidates[tier] = append(remaining[:idx], remaining[idx+1:]...)
	}

	return batch, nil
}

// drawTier picks a difficulty tier by cumulative weight, then falls back
// to the closest tier that still has candidates
func (p *Pool) drawTier(dist progression.Distribution, candidates map[models.Difficulty][]models.Question) (models.Difficulty, bool) {
	totalWeight := 0.0
	for _, tier := range models.AllDifficulties() {
		totalWeight += dist[tier]
	}
	if totalWeight <= 0 {
		return closestWithCandidates(models.DifficultyEasy, candidates)
	}

	r := p.rng.Float64() * totalWeight
	chosen := models.DifficultyExpert
	cumWeight := 0.0
	for _, tier := range models.AllDifficulties() {
		cumWeight += dist[tier]
		if r <= cumWeight {
			chosen = tier
			break
		}
	}

	return closestWithCandidates(chosen, candidates)
}

// closestWithCandidates returns the tier nearest to want that still has
// candidates, preferring the easier tier on a tie
func closestWithCandidates(want models.Difficulty, candidates map[models.Difficulty][]models.Question) (models.Difficulty, bool) {
	if len(candidates[want]) > 0 {
		return want, true
	}
	for distance := 1; distance < len(models.AllDifficulties()); distance++ {
		easier := want - models.Difficulty(distance)
		if easier.Valid() && len(candidates[easier]) > 0 {
			return easier, true
		}
		harder := want + models.Difficulty(distance)
		if harder.Valid() && len(candidates[harder]) > 0 {
			return harder, true
		}
	}
	return 0, false
}

func excludeSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

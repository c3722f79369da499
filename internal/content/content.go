// Package content loads the bundled trivia question dataset.
package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"

	"golang.org/x/text/language"

	"dogdog/internal/models"
)

//go:embed questions/*.json
var questionFiles embed.FS

// DatasetVersion is the question file format version this build understands
const DatasetVersion = 1

// BaseLocale is the locale every question must provide. Localization falls
// back to it whenever a closer match is missing.
const BaseLocale = "en-US"

// questionFile mirrors the JSON layout of one bundled question file
type questionFile struct {
	Version   int            `json:"version"`
	Path      string         `json:"path"`
	Questions []questionJSON `json:"questions"`
}

type questionJSON struct {
	ID           string              `json:"id"`
	Difficulty   string              `json:"difficulty"`
	Prompt       map[string]string   `json:"prompt"`
	Choices      map[string][]string `json:"choices"`
	CorrectIndex int                 `json:"correctIndex"`
	FunFact      map[string]string   `json:"funFact"`
}

// Set is the loaded question dataset with lookup indexes
type Set struct {
	byID        map[string]models.Question
	byPath      map[models.PathType][]models.Question
	localeNames []string
	matcher     language.Matcher
}

// Load parses and validates the bundled question files
func Load() (*Set, error) {
	return loadFS(questionFiles)
}

func loadFS(fsys fs.FS) (*Set, error) {
	names, err := fs.Glob(fsys, "questions/*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list question files: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no question files bundled")
	}
	sort.Strings(names)

	set := &Set{
		byID:   make(map[string]models.Question),
		byPath: make(map[models.PathType][]models.Question),
	}
	locales := map[string]bool{BaseLocale: true}

	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		var file questionFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		if file.Version != DatasetVersion {
			return nil, fmt.Errorf("%s: unsupported dataset version %d", name, file.Version)
		}

		pathType, err := models.ParsePathType(file.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		for _, qj := range file.Questions {
			q, err := buildQuestion(pathType, qj)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if _, dup := set.byID[q.ID]; dup {
				return nil, fmt.Errorf("%s: duplicate question id %q", name, q.ID)
			}
			set.byID[q.ID] = q
			set.byPath[pathType] = append(set.byPath[pathType], q)
			for locale := range q.Prompt {
				locales[locale] = true
			}
		}
	}

	set.buildMatcher(locales)
	return set, nil
}

// buildQuestion validates one raw question and converts it to a model
func buildQuestion(path models.PathType, qj questionJSON) (models.Question, error) {
	if qj.ID == "" {
		return models.Question{}, fmt.Errorf("question with empty id")
	}

	difficulty, err := models.ParseDifficulty(qj.Difficulty)
	if err != nil {
		return models.Question{}, fmt.Errorf("question %q: %w", qj.ID, err)
	}

	if qj.Prompt[BaseLocale] == "" {
		return models.Question{}, fmt.Errorf("question %q: missing %s prompt", qj.ID, BaseLocale)
	}

	baseChoices := qj.Choices[BaseLocale]
	if len(baseChoices) < 2 {
		return models.Question{}, fmt.Errorf("question %q: needs at least 2 choices, has %d", qj.ID, len(baseChoices))
	}
	if qj.CorrectIndex < 0 || qj.CorrectIndex >= len(baseChoices) {
		return models.Question{}, fmt.Errorf("question %q: correct index %d out of range", qj.ID, qj.CorrectIndex)
	}

	// Every translation must keep the choice count so the correct index
	// stays meaningful in all locales.
	for locale, choices := range qj.Choices {
		if len(choices) != len(baseChoices) {
			return models.Question{}, fmt.Errorf("question %q: locale %s has %d choices, want %d",
				qj.ID, locale, len(choices), len(baseChoices))
		}
	}

	return models.Question{
		ID:           qj.ID,
		Path:         path,
		Difficulty:   difficulty,
		Prompt:       qj.Prompt,
		Choices:      qj.Choices,
		CorrectIndex: qj.CorrectIndex,
		FunFact:      qj.FunFact,
	}, nil
}

// buildMatcher prepares the locale matcher with BaseLocale as the default
func (s *Set) buildMatcher(locales map[string]bool) {
	names := make([]string, 0, len(locales))
	for locale := range locales {
		if locale != BaseLocale {
			names = append(names, locale)
		}
	}
	sort.Strings(names)
	s.localeNames = append([]string{BaseLocale}, names...)

	tags := make([]language.Tag, 0, len(s.localeNames))
	for _, name := range s.localeNames {
		tags = append(tags, language.Make(name))
	}
	s.matcher = language.NewMatcher(tags)
}

// Question looks up a question by id
func (s *Set) Question(id string) (models.Question, bool) {
	q, ok := s.byID[id]
	return q, ok
}

// ForPath returns all questions on a learning path
func (s *Set) ForPath(path models.PathType) []models.Question {
	questions := make([]models.Question, len(s.byPath[path]))
	copy(questions, s.byPath[path])
	return questions
}

// All returns every bundled question
func (s *Set) All() []models.Question {
	questions := make([]models.Question, 0, len(s.byID))
	for _, path := range models.AllPathTypes() {
		questions = append(questions, s.byPath[path]...)
	}
	return questions
}

// Count returns the total number of bundled questions
func (s *Set) Count() int {
	return len(s.byID)
}

// Locales returns every locale that appears in the dataset, BaseLocale first
func (s *Set) Locales() []string {
	names := make([]string, len(s.localeNames))
	copy(names, s.localeNames)
	return names
}

// Localize resolves a question's text for the requested locale. Unknown or
// unsupported locales fall back to the closest supported one and finally
// to BaseLocale; a question missing the matched locale also falls back to
// BaseLocale.
func (s *Set) Localize(q models.Question, locale string) models.LocalizedQuestion {
	resolved := s.resolve(locale, q)
	return models.LocalizedQuestion{
		ID:           q.ID,
		Path:         q.Path,
		Difficulty:   q.Difficulty,
		Locale:       resolved,
		Prompt:       q.Prompt[resolved],
		Choices:      q.Choices[resolved],
		CorrectIndex: q.CorrectIndex,
		FunFact:      q.FunFact[resolved],
	}
}

func (s *Set) resolve(locale string, q models.Question) string {
	desired, err := language.Parse(locale)
	if err != nil {
		return BaseLocale
	}
	_, idx, _ := s.matcher.Match(desired)
	name := s.localeNames[idx]
	if _, ok := q.Prompt[name]; !ok {
		return BaseLocale
	}
	return name
}

package content

import (
	"strings"
	"testing"
	"testing/fstest"

	"dogdog/internal/models"
)

func TestLoadBundledDataset(t *testing.T) {
	set, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if set.Count() == 0 {
		t.Fatal("bundled dataset is empty")
	}

	for _, path := range models.AllPathTypes() {
		questions := set.ForPath(path)
		if len(questions) == 0 {
			t.Errorf("path %v has no questions", path)
			continue
		}

		perTier := make(map[models.Difficulty]int)
		for _, q := range questions {
			perTier[q.Difficulty]++
			if q.Path != path {
				t.Errorf("question %s indexed under %v but belongs to %v", q.ID, path, q.Path)
			}
		}
		for _, tier := range models.AllDifficulties() {
			if perTier[tier] < 4 {
				t.Errorf("path %v has %d %v questions, want at least 4", path, perTier[tier], tier)
			}
		}
	}
}

func TestLoadedQuestionsAreWellFormed(t *testing.T) {
	set, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	for _, q := range set.All() {
		choices := q.Choices[BaseLocale]
		if len(choices) < 2 {
			t.Errorf("question %s has %d base choices", q.ID, len(choices))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(choices) {
			t.Errorf("question %s correct index %d out of range", q.ID, q.CorrectIndex)
		}
		if q.Prompt[BaseLocale] == "" {
			t.Errorf("question %s missing base prompt", q.ID)
		}
		if q.FunFact[BaseLocale] == "" {
			t.Errorf("question %s missing base fun fact", q.ID)
		}

		got, ok := set.Question(q.ID)
		if !ok || got.ID != q.ID {
			t.Errorf("Question(%s) lookup failed", q.ID)
		}
	}
}

func TestLocalize(t *testing.T) {
	set, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	breeds := set.ForPath(models.PathDogBreeds)
	training := set.ForPath(models.PathDogTraining)

	tests := []struct {
		name       string
		question   models.Question
		locale     string
		wantLocale string
	}{
		{"base locale", breeds[0], "en-US", "en-US"},
		{"translated question", breeds[0], "de-DE", "de-DE"},
		{"bare language matches region", breeds[0], "de", "de-DE"},
		{"regional english falls back to base", breeds[0], "en-GB", "en-US"},
		{"untranslated question falls back", training[0], "de-DE", "en-US"},
		{"unsupported locale falls back", breeds[0], "ja-JP", "en-US"},
		{"garbage locale falls back", breeds[0], "not a locale", "en-US"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lq := set.Localize(tt.question, tt.locale)
			if lq.Locale != tt.wantLocale {
				t.Errorf("Localize locale = %s, want %s", lq.Locale, tt.wantLocale)
			}
			if lq.Prompt == "" {
				t.Error("localized prompt is empty")
			}
			if len(lq.Choices) != len(tt.question.Choices[BaseLocale]) {
				t.Errorf("localized choice count = %d, want %d",
					len(lq.Choices), len(tt.question.Choices[BaseLocale]))
			}
			if lq.CorrectIndex != tt.question.CorrectIndex {
				t.Errorf("localized correct index = %d, want %d", lq.CorrectIndex, tt.question.CorrectIndex)
			}
		})
	}
}

func TestLoadRejectsBadDatasets(t *testing.T) {
	valid := `{
		"version": 1,
		"path": "dogBreeds",
		"questions": [
			{
				"id": "q1",
				"difficulty": "easy",
				"prompt": {"en-US": "Question?"},
				"choices": {"en-US": ["a", "b", "c"]},
				"correctIndex": 0,
				"funFact": {"en-US": "Fact."}
			}
		]
	}`

	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{
			name:    "wrong version",
			json:    strings.Replace(valid, `"version": 1`, `"version": 99`, 1),
			wantErr: "unsupported dataset version",
		},
		{
			name:    "unknown path",
			json:    strings.Replace(valid, `"dogBreeds"`, `"catBreeds"`, 1),
			wantErr: "unknown path type",
		},
		{
			name:    "unknown difficulty",
			json:    strings.Replace(valid, `"easy"`, `"impossible"`, 1),
			wantErr: "unknown difficulty",
		},
		{
			name:    "correct index out of range",
			json:    strings.Replace(valid, `"correctIndex": 0`, `"correctIndex": 3`, 1),
			wantErr: "out of range",
		},
		{
			name:    "missing base prompt",
			json:    strings.Replace(valid, `"en-US": "Question?"`, `"de-DE": "Frage?"`, 1),
			wantErr: "missing en-US prompt",
		},
		{
			name:    "not json",
			json:    "woof",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				"questions/test.json": &fstest.MapFile{Data: []byte(tt.json)},
			}
			_, err := loadFS(fsys)
			if err == nil {
				t.Fatal("loadFS() accepted a bad dataset")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	dataset := `{
		"version": 1,
		"path": "dogHealth",
		"questions": [
			{
				"id": "dup",
				"difficulty": "easy",
				"prompt": {"en-US": "One?"},
				"choices": {"en-US": ["a", "b"]},
				"correctIndex": 0,
				"funFact": {"en-US": "Fact."}
			},
			{
				"id": "dup",
				"difficulty": "hard",
				"prompt": {"en-US": "Two?"},
				"choices": {"en-US": ["a", "b"]},
				"correctIndex": 1,
				"funFact": {"en-US": "Fact."}
			}
		]
	}`

	fsys := fstest.MapFS{
		"questions/test.json": &fstest.MapFile{Data: []byte(dataset)},
	}
	_, err := loadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), "duplicate question id") {
		t.Errorf("loadFS() error = %v, want duplicate id error", err)
	}
}

func TestLoadRejectsMismatchedTranslations(t *testing.T) {
	dataset := `{
		"version": 1,
		"path": "dogTraining",
		"questions": [
			{
				"id": "q1",
				"difficulty": "medium",
				"prompt": {"en-US": "Question?", "de-DE": "Frage?"},
				"choices": {"en-US": ["a", "b", "c", "d"], "de-DE": ["a", "b"]},
				"correctIndex": 2,
				"funFact": {"en-US": "Fact."}
			}
		]
	}`

	fsys := fstest.MapFS{
		"questions/test.json": &fstest.MapFile{Data: []byte(dataset)},
	}
	_, err := loadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), "choices") {
		t.Errorf("loadFS() error = %v, want mismatched choices error", err)
	}
}

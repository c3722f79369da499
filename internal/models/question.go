package models

// Question represents a single trivia question from the bundled dataset.
// Prompt, Choices and FunFact are keyed by BCP 47 locale tag.
type Question struct {
	ID           string
	Path         PathType
	Difficulty   Difficulty
	Prompt       map[string]string
	Choices      map[string][]string
	CorrectIndex int
	FunFact      map[string]string
}

// Points returns the points a correct answer to this question is worth
func (q Question) Points() int {
	return q.Difficulty.Points()
}

// ChoiceCount returns the number of answer choices in the given locale
func (q Question) ChoiceCount(locale string) int {
	return len(q.Choices[locale])
}

// LocalizedQuestion is a question resolved to a single locale for display
type LocalizedQuestion struct {
	ID           string
	Path         PathType
	Difficulty   Difficulty
	Locale       string
	Prompt       string
	Choices      []string
	CorrectIndex int
	FunFact      string
}

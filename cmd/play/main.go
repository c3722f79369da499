package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"dogdog/internal/config"
	"dogdog/internal/content"
	"dogdog/internal/database"
	"dogdog/internal/fallback"
	"dogdog/internal/game"
	"dogdog/internal/models"
	"dogdog/internal/pool"
	"dogdog/internal/storage"
	"dogdog/internal/storage/bolt"
	"dogdog/internal/storage/memory"
	"dogdog/internal/storage/sqlstore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the progress store (supports bolt, sql, memory)
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open progress store: %v", err)
	}

	log.Printf("Progress store ready (backend: %s)", cfg.StoreBackend)

	// Load the bundled question dataset
	set, err := content.Load()
	if err != nil {
		log.Fatalf("Failed to load question dataset: %v", err)
	}

	log.Printf("Loaded %d questions in %d locales", set.Count(), len(set.Locales()))

	questions, err := pool.New(set.All())
	if err != nil {
		log.Fatalf("Failed to build question pool: %v", err)
	}

	engine, err := game.New(store, questions, set, fallback.New(),
		game.WithLocale(cfg.Locale),
		game.WithBatchSize(cfg.BatchSize),
	)
	if err != nil {
		log.Fatalf("Failed to build game engine: %v", err)
	}

	// Start background autosave
	stopAutosave := make(chan struct{})
	go autosave(engine, cfg.AutosaveInterval, stopAutosave)

	// Ctrl+C pauses the run so the next start can resume it
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		fmt.Println()
		log.Println("Saving your game...")
		if err := engine.Pause(context.Background()); err != nil && !errors.Is(err, game.ErrNoSession) {
			log.Printf("Warning: failed to pause session: %v", err)
		}
		if err := engine.Close(); err != nil {
			log.Printf("Warning: failed to close engine: %v", err)
		}
		if err := store.Close(); err != nil {
			log.Printf("Warning: failed to close store: %v", err)
		}
		os.Exit(0)
	}()

	play(engine)

	close(stopAutosave)
	if err := engine.Close(); err != nil {
		log.Printf("Warning: failed to close engine: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Printf("Warning: failed to close store: %v", err)
	}
}

// openStore builds the progress store for the configured backend
func openStore(cfg *config.Config) (storage.ProgressStore, error) {
	switch strings.ToLower(cfg.StoreBackend) {
	case "bolt":
		if err := os.MkdirAll(filepath.Dir(cfg.SaveFile), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return bolt.Open(cfg.SaveFile)
	case "sql":
		if strings.EqualFold(cfg.DatabaseType, "sqlite") || cfg.DatabaseType == "" {
			if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlstore.New(db), nil
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
}

// autosave periodically snapshots the running session
func autosave(engine *game.Engine, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := engine.Save(context.Background()); err != nil && !errors.Is(err, game.ErrNoSession) {
				log.Printf("Warning: autosave failed: %v", err)
			}
		case <-stop:
			return
		}
	}
}

// action tells the session loop where to go next
type action int

const (
	actionMenu action = iota // run ended, back to the path menu
	actionQuit               // leave the program
)

// play greets the player, resumes an interrupted run if one is saved, and
// then loops over the path menu until the player quits
func play(engine *game.Engine) {
	ctx := context.Background()
	input := bufio.NewScanner(os.Stdin)

	fmt.Println()
	fmt.Println("Welcome to DogDog! Answer dog questions, earn checkpoints,")
	fmt.Println("and collect power-ups along the way.")

	session, err := engine.ResumeSession(ctx)
	switch {
	case err == nil:
		fmt.Printf("\nWelcome back! Your %s adventure continues.\n", session.Path.DisplayName())
		if err := engine.Resume(ctx); err != nil {
			log.Printf("Warning: failed to restart the session clock: %v", err)
		}
		if runSession(ctx, engine, input) == actionQuit {
			return
		}
	case errors.Is(err, storage.ErrNotFound):
		// Nothing saved, start fresh.
	default:
		log.Printf("Warning: could not restore the saved game: %v", err)
	}

	for {
		path, ok := choosePath(input)
		if !ok {
			fmt.Println("See you next time!")
			return
		}
		if _, err := engine.StartSession(ctx, path); err != nil {
			if errors.Is(err, game.ErrOutOfQuestions) {
				fmt.Println("You have answered every question on this path. Try another one!")
				continue
			}
			log.Printf("Warning: could not start a session: %v", err)
			continue
		}
		if runSession(ctx, engine, input) == actionQuit {
			return
		}
	}
}

// choosePath shows the path menu and reads a selection
func choosePath(input *bufio.Scanner) (models.PathType, bool) {
	paths := models.AllPathTypes()

	fmt.Println()
	fmt.Println("Pick a learning path:")
	for i, path := range paths {
		fmt.Printf("  %d) %s\n", i+1, path.DisplayName())
	}
	fmt.Println("  q) Quit")

	for {
		fmt.Print("> ")
		if !input.Scan() {
			return "", false
		}
		line := strings.TrimSpace(strings.ToLower(input.Text()))
		switch line {
		case "q", "quit":
			return "", false
		case "":
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(paths) {
			fmt.Printf("Type a number between 1 and %d, or q to quit.\n", len(paths))
			continue
		}
		return paths[n-1], true
	}
}

// runSession plays question after question until the run ends or the
// player leaves
func runSession(ctx context.Context, engine *game.Engine, input *bufio.Scanner) action {
	q, err := currentOrNext(ctx, engine)
	if err != nil {
		return finishRun(ctx, engine, err)
	}

	for {
		printQuestion(engine, q)

		next := askUntilResolved(ctx, engine, q, input)
		if next != nil {
			return *next
		}

		q, err = engine.NextQuestion(ctx)
		if err != nil {
			return finishRun(ctx, engine, err)
		}
	}
}

// currentOrNext returns the question waiting for an answer, dealing a new
// one when nothing is pending
func currentOrNext(ctx context.Context, engine *game.Engine) (models.LocalizedQuestion, error) {
	q, err := engine.CurrentQuestion()
	if err == nil {
		return q, nil
	}
	return engine.NextQuestion(ctx)
}

// finishRun closes out a run that cannot continue and reports why
func finishRun(ctx context.Context, engine *game.Engine, err error) action {
	if errors.Is(err, game.ErrOutOfQuestions) {
		fmt.Println("\nYou have seen every question on this path. Amazing work!")
	} else {
		log.Printf("Warning: the run cannot continue: %v", err)
	}
	endRun(ctx, engine)
	return actionMenu
}

// askUntilResolved reads player input for one question until it is
// answered or skipped. A non-nil result short-circuits the session loop.
func askUntilResolved(ctx context.Context, engine *game.Engine, q models.LocalizedQuestion, input *bufio.Scanner) *action {
	leave := func(a action) *action { return &a }

	for {
		fmt.Print("> ")
		if !input.Scan() {
			pauseRun(ctx, engine)
			return leave(actionQuit)
		}

		line := strings.TrimSpace(strings.ToLower(input.Text()))
		switch line {
		case "":
			continue
		case "quit", "q":
			pauseRun(ctx, engine)
			fmt.Println("Your adventure is saved. See you soon!")
			return leave(actionQuit)
		case "stop":
			endRun(ctx, engine)
			return leave(actionMenu)
		case "help":
			printHelp()
			continue
		case "status":
			printStatus(engine)
			continue
		case "5050", "hint", "time", "skip":
			if usePowerUp(ctx, engine, line) && line == "skip" {
				return nil // skip resolves the question without grading
			}
			continue
		}

		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(q.Choices) {
			fmt.Printf("Type a choice number between 1 and %d, or \"help\" for commands.\n", len(q.Choices))
			continue
		}

		outcome, err := engine.SubmitAnswer(ctx, q.ID, n-1)
		if err != nil {
			log.Printf("Warning: answer not accepted: %v", err)
			continue
		}
		printOutcome(outcome)

		if !outcome.Correct && outcome.CanSecondChance {
			if confirm(input, "Use a Second Chance to try again?") {
				if _, err := engine.UsePowerUp(ctx, models.PowerUpSecondChance); err != nil {
					log.Printf("Warning: second chance failed: %v", err)
				} else {
					fmt.Println("Second chance! Pick another answer.")
					continue
				}
			}
		}

		if outcome.GameOver {
			return handleGameOver(ctx, engine)
		}
		if outcome.PathCompleted {
			fmt.Println("\nYou finished every checkpoint on this path. What a champion!")
			endRun(ctx, engine)
			return leave(actionMenu)
		}
		return nil
	}
}

// handleGameOver applies the fallback so the player keeps going
func handleGameOver(ctx context.Context, engine *game.Engine) *action {
	result, err := engine.OnLivesExhausted(ctx)
	if err != nil {
		log.Printf("Warning: fallback failed: %v", err)
		endRun(ctx, engine)
		menu := actionMenu
		return &menu
	}

	fmt.Println()
	fmt.Println(result.Message)
	switch result.Action {
	case models.FallbackResetToCheckpoint:
		fmt.Printf("Back to the %s checkpoint with %d lives", result.Checkpoint.DisplayName(), result.RestoredLives)
		if result.PowerUps.Total() > 0 {
			fmt.Print(" and a few power-ups to help")
		}
		fmt.Println(".")
	case models.FallbackRestartFromBeginning:
		fmt.Printf("Starting the path over with %d lives. You can do it!\n", result.RestoredLives)
	default:
		endRun(ctx, engine)
		menu := actionMenu
		return &menu
	}
	return nil
}

// usePowerUp spends the power-up behind a command and prints its effect
func usePowerUp(ctx context.Context, engine *game.Engine, command string) bool {
	powerUps := map[string]models.PowerUpType{
		"5050": models.PowerUpFiftyFifty,
		"hint": models.PowerUpHint,
		"time": models.PowerUpExtraTime,
		"skip": models.PowerUpSkip,
	}

	effect, err := engine.UsePowerUp(ctx, powerUps[command])
	if err != nil {
		if errors.Is(err, game.ErrPowerUpUnavailable) {
			fmt.Println("You don't have that power-up yet. Earn more at checkpoints!")
		} else {
			log.Printf("Warning: power-up not used: %v", err)
		}
		return false
	}

	switch effect.Type {
	case models.PowerUpFiftyFifty:
		gone := make([]string, len(effect.RemovedChoices))
		for i, idx := range effect.RemovedChoices {
			gone[i] = strconv.Itoa(idx + 1)
		}
		fmt.Printf("Choices %s are out!\n", strings.Join(gone, " and "))
	case models.PowerUpHint:
		fmt.Printf("Hint: %s\n", effect.FunFact)
	case models.PowerUpExtraTime:
		fmt.Printf("Take %v longer to think it over.\n", effect.ExtraTime)
	case models.PowerUpSkip:
		fmt.Println("Question skipped, no life lost.")
	}
	return true
}

// pauseRun freezes the session so the next start can resume it
func pauseRun(ctx context.Context, engine *game.Engine) {
	if err := engine.Pause(ctx); err != nil && !errors.Is(err, game.ErrNoSession) {
		log.Printf("Warning: failed to pause session: %v", err)
	}
}

// endRun prints a summary and folds the run into the path totals
func endRun(ctx context.Context, engine *game.Engine) {
	printStatus(engine)
	if err := engine.EndSession(ctx); err != nil && !errors.Is(err, game.ErrNoSession) {
		log.Printf("Warning: failed to end session: %v", err)
	}
}

func printQuestion(engine *game.Engine, q models.LocalizedQuestion) {
	lives := 0
	if session, err := engine.Session(); err == nil {
		lives = session.Lives
	}

	fmt.Println()
	fmt.Printf("[Lives: %d] %s\n", lives, q.Prompt)
	for i, choice := range q.Choices {
		fmt.Printf("  %d) %s\n", i+1, choice)
	}
}

func printOutcome(outcome game.AnswerOutcome) {
	if !outcome.Correct {
		fmt.Printf("Not quite! The right answer was %d. Lives left: %d\n",
			outcome.CorrectIndex+1, outcome.LivesLeft)
		return
	}

	fmt.Printf("Correct! +%d points", outcome.Points)
	if outcome.Streak >= 3 {
		fmt.Printf(" (%d in a row!)", outcome.Streak)
	}
	fmt.Println()
	if outcome.FunFact != "" {
		fmt.Printf("Fun fact: %s\n", outcome.FunFact)
	}

	if grant := outcome.Checkpoint; grant != nil {
		fmt.Println()
		fmt.Println(grant.Message)
		for _, p := range models.AllPowerUpTypes() {
			if n := grant.Rewards[p]; n > 0 {
				fmt.Printf("  +%d %s\n", n, p.DisplayName())
			}
		}
	}
}

func printStatus(engine *game.Engine) {
	progress, err := engine.Progress()
	if err != nil {
		return
	}
	session, err := engine.Session()
	if err != nil {
		return
	}

	fmt.Println()
	fmt.Printf("Path: %s\n", progress.Path.DisplayName())
	fmt.Printf("Lives: %d   Correct answers: %d   Accuracy: %.0f%%\n",
		session.Lives, progress.CorrectAnswers, progress.Accuracy()*100)

	if next, remaining, ok, err := engine.NextCheckpoint(); err == nil {
		if ok {
			fmt.Printf("Next checkpoint: %s, %d correct answers away\n", next.DisplayName(), remaining)
		} else {
			fmt.Println("Every checkpoint on this path is yours!")
		}
	}

	var inventory []string
	for _, p := range models.AllPowerUpTypes() {
		if n := progress.PowerUps[p]; n > 0 {
			inventory = append(inventory, fmt.Sprintf("%s x%d", p.DisplayName(), n))
		}
	}
	if len(inventory) > 0 {
		fmt.Printf("Power-ups: %s\n", strings.Join(inventory, ", "))
	}
}

func printHelp() {
	fmt.Println()
	fmt.Println("Answer with the choice number. Other commands:")
	fmt.Println("  5050    remove two wrong choices")
	fmt.Println("  hint    show the question's fun fact")
	fmt.Println("  time    add thinking time")
	fmt.Println("  skip    pass this question, no life lost")
	fmt.Println("  status  show lives, progress and power-ups")
	fmt.Println("  stop    end this run and pick another path")
	fmt.Println("  quit    save and leave")
}

func confirm(input *bufio.Scanner, prompt string) bool {
	fmt.Printf("%s (y/n) ", prompt)
	if !input.Scan() {
		return false
	}
	answer := strings.TrimSpace(strings.ToLower(input.Text()))
	return answer == "y" || answer == "yes"
}

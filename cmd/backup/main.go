package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dogdog/internal/backup"
	"dogdog/internal/config"
	"dogdog/internal/database"
	"dogdog/internal/storage"
	"dogdog/internal/storage/bolt"
	"dogdog/internal/storage/sqlstore"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: dogdog_backup_YYYYMMDD_HHMMSS.json)")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Clear existing saves before import (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the configured progress store
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open progress store: %v", err)
	}
	defer store.Close()

	service := backup.New(store)
	ctx := context.Background()

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(ctx, service, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(ctx, service, store, *importInput, *importClear)

	default:
		printUsage()
		os.Exit(1)
	}
}

// openStore builds the progress store for the configured backend. The
// memory backend is not offered here because backing it up is pointless.
func openStore(cfg *config.Config) (storage.ProgressStore, error) {
	switch strings.ToLower(cfg.StoreBackend) {
	case "bolt":
		return bolt.Open(cfg.SaveFile)
	case "sql":
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlstore.New(db), nil
	default:
		return nil, fmt.Errorf("unsupported store backend for backups: %s", cfg.StoreBackend)
	}
}

func handleExport(ctx context.Context, service *backup.Service, outputPath string) {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("dogdog_backup_%s.json", timestamp)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	log.Printf("Exporting saves to: %s", outputPath)
	if err := service.Export(ctx, outputPath); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	// Get file size
	fileInfo, _ := os.Stat(outputPath)
	log.Printf("Export complete! File size: %.1f KB", float64(fileInfo.Size())/1024)
}

func handleImport(ctx context.Context, service *backup.Service, store storage.ProgressStore, inputPath string, clearData bool) {
	// Check if file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}

	if clearData {
		fmt.Print("WARNING: This will delete all existing saves. Type 'yes' to confirm: ")
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Println("Import cancelled")
			return
		}

		log.Println("Clearing existing saves...")
		if err := store.ClearAll(ctx); err != nil {
			log.Fatalf("Failed to clear saves: %v", err)
		}
	}

	log.Printf("Importing saves from: %s", inputPath)
	if err := service.Import(ctx, inputPath); err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Println("Import complete!")
}

func printUsage() {
	fmt.Println("DogDog Save Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export saves to a JSON bundle")
	fmt.Println("  backup import [options]    Import saves from a JSON bundle")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: dogdog_backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Clear existing saves before import (WARNING: destructive)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Export the save file")
	fmt.Println("  backup export")
	fmt.Println("  backup export -output mybackup.json")
	fmt.Println()
	fmt.Println("  # Merge a bundle into the current saves")
	fmt.Println("  backup import -input mybackup.json")
	fmt.Println()
	fmt.Println("  # Replace all saves with a bundle")
	fmt.Println("  backup import -input mybackup.json -clear")
	fmt.Println()
	fmt.Println("  # Move saves from the bolt backend to a database")
	fmt.Println("  DOGDOG_STORE=bolt backup export -output move.json")
	fmt.Println("  DOGDOG_STORE=sql backup import -input move.json")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DOGDOG_STORE      Store backend: bolt or sql (default: bolt)")
	fmt.Println("  DOGDOG_SAVE_FILE  Bolt save file path (default: ./data/dogdog.db)")
	fmt.Println("  DOGDOG_DB_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DOGDOG_DB_PATH    SQLite database path (default: ./data/progress.db)")
	fmt.Println("  DOGDOG_DB_URL     PostgreSQL or MySQL connection URL")
}

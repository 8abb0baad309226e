// cmd/migrate/main.go
package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"finance-tracker/internal/config"
	"finance-tracker/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var flagDSN string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply finance-tracker database migrations",
	Long:  "Runs the embedded goose migrations against DATABASE_URL (or --dsn).",
	RunE:  runUp,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runUp,
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withDB(func(db *sql.DB) error { return goose.Down(db, ".") })
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of every migration",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withDB(func(db *sql.DB) error { return goose.Status(db, ".") })
	},
}

var upToCmd = &cobra.Command{
	Use:   "up-to VERSION",
	Short: "Apply migrations up to and including VERSION",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		version, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return withDB(func(db *sql.DB) error { return goose.UpTo(db, ".", version) })
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDSN, "dsn", "", "Postgres connection string (overrides DATABASE_URL)")
	rootCmd.AddCommand(upCmd, downCmd, statusCmd, upToCmd)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func runUp(_ *cobra.Command, _ []string) error {
	return withDB(func(db *sql.DB) error {
		if err := goose.Up(db, "."); err != nil {
			return err
		}
		slog.Info("migrations applied")
		return nil
	})
}

func withDB(fn func(db *sql.DB) error) error {
	dsn, err := resolveDSN()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return fn(db)
}

func resolveDSN() (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	if cfg.DBConn == "" {
		return "", fmt.Errorf("DATABASE_URL is not set")
	}
	return cfg.DBConn, nil
}

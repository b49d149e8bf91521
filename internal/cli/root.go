// Package cli implements the glyphpet commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"glyphpet/internal/config"
	"glyphpet/internal/pet"
	"glyphpet/internal/store"
)

var (
	configPath string
	petName    string
	storeFlag  string
	storePath  string
	speedFlag  float64
	logPath    string

	logFile io.Closer
)

// RootCmd is the top-level command. Without a subcommand it starts the game.
var RootCmd = &cobra.Command{
	Use:   "glyphpet",
	Short: "A terminal pet that learns hieroglyphs",
	Long:  "Raise a pet from egg to god by keeping its needs up and teaching it the uniliteral glyphs.",
	Run:   runPlay,

	PersistentPreRun:  setupLogging,
	PersistentPostRun: closeLogging,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $GLYPHPET_CONFIG or ~/.config/glyphpet/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&petName, "pet", "p", "", "Pet name (default: game.pet_name from config)")
	RootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Store backend: file or sqlite (default: store.backend from config)")
	RootCmd.PersistentFlags().StringVar(&storePath, "path", "", "Store location (default: store.path from config)")
	RootCmd.PersistentFlags().Float64Var(&speedFlag, "speed", 0, "Game speed multiplier (default: game.speed from config)")
	RootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Write logs to this file (default: discard them)")
}

// setupLogging keeps log lines off the terminal, where they would tear the
// alt screen or mix into command output
func setupLogging(cmd *cobra.Command, args []string) {
	if logPath == "" {
		log.SetOutput(io.Discard)
		return
	}
	f, err := tea.LogToFile(logPath, "glyphpet")
	if err != nil {
		exitErr("open log", err)
	}
	logFile = f
}

func closeLogging(cmd *cobra.Command, args []string) {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// session bundles what a command needs to work on one pet
type session struct {
	cfg   *config.Config
	store pet.Store
	pet   *pet.Pet
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		return nil, err
	}
	if storeFlag != "" {
		cfg.Store.Backend = storeFlag
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	if speedFlag > 0 {
		cfg.Game.Speed = speedFlag
	}
	if petName != "" {
		cfg.Game.PetName = petName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (pet.Store, error) {
	path, err := cfg.StorePath()
	if err != nil {
		return nil, err
	}
	if cfg.Store.Backend == config.BackendSQLite {
		return store.NewSQLiteStore(path)
	}
	return pet.NewFileStore(path)
}

// openSession loads the config, the store and the pet, catching it up
// to now and stamping the save so the next run starts from here.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	now := pet.TimeNow()
	p, err := pet.LoadPet(ctx, s, cfg.Game.PetName, cfg.PetSettings(), now)
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := pet.SavePet(ctx, s, p, now); err != nil {
		s.Close()
		return nil, err
	}
	return &session{cfg: cfg, store: s, pet: p}, nil
}

func (s *session) save(ctx context.Context) error {
	return pet.SavePet(ctx, s.store, s.pet, pet.TimeNow())
}

func (s *session) Close() error {
	return s.store.Close()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"glyphpet/internal/store"
)

var errNoHistory = errors.New("session history needs the sqlite store (--store sqlite)")

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent minigame sessions",
		Run:   runHistory,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().StringP("format", "f", "text", "Output format: json or text")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	db, ok := s.(*store.SQLiteStore)
	if !ok {
		exitErr("history", errNoHistory)
	}
	sessions, err := db.Sessions(cmd.Context(), cfg.Game.PetName, limit)
	if err != nil {
		exitErr("history", err)
	}

	if format == "json" {
		b, _ := json.MarshalIndent(sessions, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return
	}
	for _, sum := range sessions {
		outcome := "lost"
		if sum.Won {
			outcome = "won"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-7s %-4s %d right %d wrong\n",
			sum.ClosedAt.Local().Format("2006-01-02 15:04"), sum.Game, outcome, sum.Wins, sum.Fails)
	}
}

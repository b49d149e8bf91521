package cli

import (
	"github.com/spf13/cobra"

	"glyphpet/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the game (the default command)",
		Run:   runPlay,
	}

	RootCmd.AddCommand(cmd)
}

func runPlay(cmd *cobra.Command, args []string) {
	s, err := openSession(cmd.Context())
	if err != nil {
		exitErr("load pet", err)
	}
	defer s.Close()

	d, err := s.cfg.Difficulty()
	if err != nil {
		exitErr("difficulty", err)
	}

	opts := ui.Options{
		Pet:        s.pet,
		Store:      s.store,
		Catalog:    s.cfg.Catalog(),
		Difficulty: d,
	}
	if logger, ok := s.store.(ui.SessionLogger); ok {
		opts.Sessions = logger
	}

	if err := ui.Run(opts); err != nil {
		exitErr("play", err)
	}
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"glyphpet/internal/pet"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Start the pet over from an egg",
		Run:   runReset,
	}

	cmd.Flags().Bool("delete", false, "Delete the save instead of resetting it")

	RootCmd.AddCommand(cmd)
}

func runReset(cmd *cobra.Command, args []string) {
	del, _ := cmd.Flags().GetBool("delete")

	if del {
		cfg, err := loadConfig()
		if err != nil {
			exitErr("load config", err)
		}
		s, err := openStore(cfg)
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()

		err = s.Delete(cmd.Context(), cfg.Game.PetName)
		if err != nil && !errors.Is(err, pet.ErrNotFound) {
			exitErr("delete", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", cfg.Game.PetName)
		return
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		exitErr("load pet", err)
	}
	defer s.Close()

	s.pet.Reset()
	if err := s.save(cmd.Context()); err != nil {
		exitErr("save", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is an egg again\n", s.pet.Name)
}

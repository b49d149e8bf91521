package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"glyphpet/internal/chase"
	"glyphpet/internal/pet"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chase",
		Short: "Watch the pet chase one of its glyphs",
		Run:   runChase,
	}

	RootCmd.AddCommand(cmd)
}

func runChase(cmd *cobra.Command, args []string) {
	s, err := openSession(cmd.Context())
	if err != nil {
		exitErr("load pet", err)
	}
	defer s.Close()

	if s.pet.Level == pet.LevelEgg {
		fmt.Fprintf(cmd.OutOrStdout(), "%s has not hatched yet\n", s.pet.Name)
		return
	}

	target := chase.PickTarget(s.pet, rand.New(rand.NewSource(time.Now().UnixNano())))
	caught, err := chase.Run(s.pet, target)
	if err != nil {
		exitErr("chase", err)
	}
	if caught {
		fmt.Fprintf(cmd.OutOrStdout(), "%s caught the %s %s\n", s.pet.Name, target.Glyph.Name, target.Glyph.Symbol)
	}
}

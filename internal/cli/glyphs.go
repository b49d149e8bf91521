package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"glyphpet/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "glyphs",
		Short: "Show how well the pet knows each glyph",
		Run:   runGlyphs,
	}

	RootCmd.AddCommand(cmd)
}

func runGlyphs(cmd *cobra.Command, args []string) {
	s, err := openSession(cmd.Context())
	if err != nil {
		exitErr("load pet", err)
	}
	defer s.Close()

	fmt.Fprint(cmd.OutOrStdout(), ui.RenderGlyphs(s.pet))
}

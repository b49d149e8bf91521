package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"glyphpet/internal/pet"
	"glyphpet/internal/ui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the pet's stats",
		Run:   runStatus,
	}

	cmd.Flags().Bool("short", false, "Print only the status icons (for status bars)")
	cmd.Flags().Bool("plain", false, "Print the stat card instead of opening it")
	cmd.Flags().Bool("json", false, "Print the saved snapshot as JSON")

	RootCmd.AddCommand(cmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	short, _ := cmd.Flags().GetBool("short")
	plain, _ := cmd.Flags().GetBool("plain")
	asJSON, _ := cmd.Flags().GetBool("json")

	s, err := openSession(cmd.Context())
	if err != nil {
		exitErr("load pet", err)
	}
	defer s.Close()

	switch {
	case short:
		fmt.Fprintln(cmd.OutOrStdout(), pet.GetStatus(s.pet))
	case asJSON:
		b, _ := json.MarshalIndent(s.pet.Snapshot(), "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	case plain:
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderStats(s.pet))
	default:
		if err := ui.DisplayStats(s.pet); err != nil {
			exitErr("status", err)
		}
	}
}

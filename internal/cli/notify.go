package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"glyphpet/internal/pet"
)

func init() {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Plan reminders for when each need turns critical",
		Run:   runNotify,
	}

	cmd.Flags().StringP("format", "f", "text", "Output format: json or text")

	RootCmd.AddCommand(cmd)
}

func runNotify(cmd *cobra.Command, args []string) {
	format, _ := cmd.Flags().GetString("format")

	s, err := openSession(cmd.Context())
	if err != nil {
		exitErr("load pet", err)
	}
	defer s.Close()

	plan := s.pet.PlanNotifications(pet.TimeNow())

	if format == "json" {
		if plan == nil {
			plan = []pet.Notification{}
		}
		b, _ := json.MarshalIndent(plan, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return
	}

	if len(plan) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to remind about")
		return
	}
	for _, n := range plan {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  in %4d min  %s\n", n.Due.Local().Format("Mon 15:04"), n.MinutesUntilDue, n.Body)
	}
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"postforge/config"
	"postforge/internal/strategy"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the strategy catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		catalog, err := strategy.LoadCatalog(cfg.StrategiesFile)
		if err != nil {
			return err
		}
		if catalog.Empty() {
			fmt.Println(mutedStyle.Render("No strategies configured (" + cfg.StrategiesFile + " missing or empty)."))
			return nil
		}

		for _, s := range catalog.All() {
			line := titleStyle.Render(s.ID) + "  " + s.Name + "  " + mutedStyle.Render("["+s.Category+"]")
			if s.ThreadFriendly {
				line += "  🧵"
			}
			fmt.Println(line)
			if reqs := describeRequirements(s.Requires); reqs != "" {
				fmt.Println(mutedStyle.Render("    requires: " + reqs))
			}
		}
		return nil
	},
}

func describeRequirements(r strategy.Requirements) string {
	var parts []string
	if r.PersonalStories {
		parts = append(parts, "personal stories")
	}
	if r.ActionableAdvice {
		parts = append(parts, "actionable advice")
	}
	if r.ResourceMentions {
		parts = append(parts, "resource mentions")
	}
	if r.StrongOpinions {
		parts = append(parts, "strong opinions")
	}
	if r.ProjectContext {
		parts = append(parts, "project context")
	}
	if len(r.ContentTypes) > 0 {
		parts = append(parts, "content types: "+strings.Join(r.ContentTypes, "/"))
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}

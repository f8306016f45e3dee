package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"postforge/config"
	"postforge/internal/models"
	"postforge/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show post store counts by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		posts := store.NewPostStore(cfg.PostsPath())
		all, err := posts.ReadAll()
		if err != nil {
			return err
		}

		counts := make(map[string]int)
		scored := 0
		for _, p := range all {
			counts[p.Status]++
			if p.Metadata.BangerScore != nil {
				scored++
			}
		}

		fmt.Println(summaryStyle.Render("Post store"))
		fmt.Printf("  total:  %d (%d scored)\n", len(all), scored)
		for _, status := range []string{
			models.StatusNew,
			models.StatusKeep,
			models.StatusStaged,
			models.StatusRejected,
			models.StatusPublished,
		} {
			if counts[status] > 0 {
				fmt.Printf("  %-9s %d\n", status+":", counts[status])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

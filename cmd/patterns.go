package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tempoclerk/tempoclerk/internal"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List learned patterns",
	Long: `List the patterns learned from review corrections, with their usage
counts and whether they have been promoted to auto-apply.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig(configPath)
		if err != nil {
			return err
		}

		set, err := internal.NewPatternStore(cfg.PatternStorePath()).Load()
		if err != nil {
			return err
		}

		if len(set.Patterns) == 0 {
			fmt.Println(headerStyle.Render("No learned patterns yet"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%d learned pattern(s), promotion at %d use(s)",
			len(set.Patterns), cfg.PromotionThreshold)))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("App")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Task")+"\t"+titleStyle.Render("Uses")+"\t"+titleStyle.Render("Status")+"\t"+titleStyle.Render("Last used")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))

		for _, p := range set.Patterns {
			status := confidenceStyle.Render("learning")
			if p.Promoted(cfg.PromotionThreshold) {
				status = taskStyle.Render("promoted")
			}

			lastUsed := "—"
			if !p.LastUsed.IsZero() {
				lastUsed = p.LastUsed.Format("2006-01-02")
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
				p.AppContains,
				dimStyle.Render(p.TitleContains),
				taskStyle.Render(p.TaskKey),
				strconv.Itoa(p.Uses),
				status,
				dimStyle.Render(lastUsed))
		}

		_ = w.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}

package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tempoclerk/tempoclerk/internal"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List configured tasks",
	Long:  `List every task from the config file, grouped default task first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig(configPath)
		if err != nil {
			return err
		}

		tasks := cfg.Tasks()
		if len(tasks) == 0 {
			fmt.Println(headerStyle.Render("No tasks configured"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%d configured task(s)", len(tasks))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("Key")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Client")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 70))

		for _, task := range tasks {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n",
				taskStyle.Render(task.Key),
				task.Name,
				dimStyle.Render(task.Client))
		}

		_ = w.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}

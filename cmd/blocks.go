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

var blocksYesterday bool

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	taskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	unassignedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	confidenceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var blocksCmd = &cobra.Command{
	Use:   "blocks [date]",
	Short: "Show a day's segmented activity blocks",
	Long: `Show a day's observations grouped into contiguous activity blocks, with
the task each block would currently resolve to.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDate(args, blocksYesterday)
		if err != nil {
			return err
		}

		cfg, err := internal.LoadConfig(configPath)
		if err != nil {
			return err
		}

		set, err := internal.NewPatternStore(cfg.PatternStorePath()).Load()
		if err != nil {
			return err
		}

		entries, _, err := loadDay(cfg, set, day)
		if err != nil {
			return err
		}

		displayEntries(day, entries, cfg)
		return nil
	},
}

func displayEntries(day string, entries []*internal.Entry, cfg *internal.Config) {
	if len(entries) == 0 {
		fmt.Println(headerStyle.Render(fmt.Sprintf("No activity blocks for %s", day)))
		return
	}

	policy := cfg.RoundingPolicy()
	total := 0.0
	for _, e := range entries {
		total += e.RoundedHours(policy)
	}

	header := headerStyle.Render(fmt.Sprintf("%s - %d block(s), %.1fh / %.1fh target",
		day, len(entries), total, cfg.DailyHoursTarget))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, titleStyle.Render("#")+"\t"+titleStyle.Render("Time")+"\t"+titleStyle.Render("Hours")+"\t"+titleStyle.Render("Task")+"\t"+titleStyle.Render("Source")+"\t"+titleStyle.Render("Activity")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for i, e := range entries {
		task := unassignedStyle.Render("UNASSIGNED")
		if !e.Unassigned() {
			task = taskStyle.Render(e.TaskKey)
		}

		activity := e.App
		if e.Title != "" {
			title := e.Title
			if r := []rune(title); len(r) > 40 {
				title = string(r[:37]) + "..."
			}
			activity += " | " + title
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			dimStyle.Render(strconv.Itoa(i+1)),
			e.TimeRange(),
			fmt.Sprintf("%.2f", e.RoundedHours(policy)),
			task,
			confidenceStyle.Render(e.Confidence.String()),
			dimStyle.Render(activity))
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(dimStyle.Render("Run `tempoclerk review " + day + "` to assign and export."))
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().BoolVar(&blocksYesterday, "yesterday", false, "Show yesterday's activity")
}

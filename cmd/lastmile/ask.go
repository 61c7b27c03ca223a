package main

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/lastmile-org/lastmile/analyzer"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the delivery data",
	Long: `Ask answers a single natural-language question, or starts an
interactive session when no question is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ds, err := loadDataset(ctx)
		if err != nil {
			return err
		}
		az, err := buildAnalyzer(ds)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			printResponse(askOne(ctx, az, strings.Join(args, " ")))
			return nil
		}
		return interactiveLoop(ctx, az)
	},
}

// interactiveLoop runs the read-ask-print session until the user quits.
func interactiveLoop(ctx context.Context, az *analyzer.Analyzer) error {
	pterm.Println(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Delivery Performance Q&A"))
	pterm.Println("Type a question, 'help' for examples, or 'quit' to exit.")
	pterm.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		pterm.Print(pterm.NewStyle(pterm.FgLightCyan).Sprint("❓ > "))
		if !scanner.Scan() {
			pterm.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			pterm.Println("Goodbye!")
			return nil
		case "help":
			printExamples()
			continue
		}

		spinner, _ := pterm.DefaultSpinner.Start("Analyzing question...")
		resp := askOne(ctx, az, line)
		if spinner != nil {
			_ = spinner.Stop()
		}
		printResponse(resp)
	}
}

func printExamples() {
	pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("Example questions"))
	items := []pterm.BulletListItem{
		{Level: 0, Text: "Why were deliveries delayed in Chennai yesterday?"},
		{Level: 0, Text: "Compare delivery failure causes between Mumbai and Delhi last month"},
		{Level: 0, Text: "Which city had the highest sales?"},
		{Level: 0, Text: "How many clients are in total?"},
		{Level: 0, Text: "What are the top 5 clients by order volume?"},
	}
	_ = pterm.DefaultBulletList.WithItems(items).Render()
	pterm.Println()
}

// printResponse renders one answer: insights first, then any error.
func printResponse(resp *analyzer.Response) {
	pterm.Println()
	for _, line := range resp.Insights {
		pterm.Println(line)
	}
	if resp.Error != "" {
		pterm.Println(pterm.NewStyle(pterm.FgRed).Sprint("⚠️  " + resp.Error))
	}
	if len(resp.Insights) == 0 && resp.Error == "" {
		pterm.Println("No insights available for this question.")
	}
	pterm.Println()
}

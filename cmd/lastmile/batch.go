package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/lastmile-org/lastmile/analyzer"
)

var batchOutput string

// batchReport is the JSON document written for a batch run.
type batchReport struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Questions   int                  `json:"questions"`
	Responses   []*analyzer.Response `json:"responses"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <questions-file>",
	Short: "Answer a file of questions and write a JSON report",
	Long: `Batch reads one question per line (blank lines and lines starting
with # are skipped), answers each in order, and writes a JSON report to
stdout or to the file given with --output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		questions, err := readQuestions(args[0])
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			return fmt.Errorf("no questions found in %s", args[0])
		}

		ds, err := loadDataset(ctx)
		if err != nil {
			return err
		}
		az, err := buildAnalyzer(ds)
		if err != nil {
			return err
		}

		report := batchReport{
			GeneratedAt: time.Now().UTC(),
			Questions:   len(questions),
		}
		for i, q := range questions {
			pterm.Printf("[%d/%d] %s\n", i+1, len(questions), q)
			report.Responses = append(report.Responses, askOne(ctx, az, q))
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if batchOutput == "" {
			fmt.Println(string(out))
			return nil
		}
		if err := os.WriteFile(batchOutput, append(out, '\n'), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		pterm.Printf("Report written to %s\n", batchOutput)
		return nil
	},
}

func readQuestions(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var questions []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, line)
	}
	return questions, scanner.Err()
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write the JSON report to this file instead of stdout")
}

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HugoDaniel/shadertypes/internal/config"
	"github.com/HugoDaniel/shadertypes/pkg/api"
)

var checkCmd = &cobra.Command{
	Use:   "check <table.yaml...>",
	Short: "Evaluates the queries of one or more type tables",
	Long: `The check command loads each type table, reports declaration problems
and answers its compatibility and cast queries. It exits with a non-zero
status if any table has error diagnostics or a query contradicts its
expectation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports := make([]fileReport, 0, len(args))
		for _, path := range args {
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			reports = append(reports, fileReport{
				File:   path,
				Result: api.CheckWithTableOptions(string(source), settings.Table),
			})
		}

		out := cmd.OutOrStdout()
		if settings.Format == config.FormatJSON {
			if err := writeJSON(out, reports); err != nil {
				return err
			}
		} else {
			writeText(out, reports)
		}

		failed := 0
		for _, r := range reports {
			if !r.Result.OK() {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d table(s) failed", failed, len(reports))
		}
		return nil
	},
}

func init() {
	AddCommand(checkCmd)
}

// fileReport is the check result of one table file.
type fileReport struct {
	File   string     `json:"file"`
	Result api.Result `json:"result"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var (
	passMark = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed, color.Bold).SprintFunc()
	fileName = color.New(color.Bold).SprintFunc()
	faint    = color.New(color.Faint).SprintFunc()
)

func writeText(w io.Writer, reports []fileReport) {
	for _, r := range reports {
		fmt.Fprintln(w, fileName(r.File))

		for _, msg := range r.Result.Errors {
			fmt.Fprintf(w, "  %s %s\n", failMark("error:"), msg)
		}

		for _, q := range r.Result.Queries {
			mark := passMark("ok  ")
			if !q.Passed {
				mark = failMark("FAIL")
			}
			fmt.Fprintf(w, "  %s %s(%s, %s) = %t", mark, q.Op, q.From, q.To, q.Result)
			if q.Expect != nil && !q.Passed {
				fmt.Fprintf(w, " %s", faint(fmt.Sprintf("(expected %t)", *q.Expect)))
			}
			if q.Error != "" {
				fmt.Fprintf(w, " %s", faint(q.Error))
			}
			fmt.Fprintln(w)
		}

		if r.Result.Formatted != "" {
			fmt.Fprint(w, indent(r.Result.Formatted, "  "))
		}
	}
}

func indent(s, prefix string) string {
	out := make([]byte, 0, len(s))
	lineStart := true
	for i := 0; i < len(s); i++ {
		if lineStart && s[i] != '\n' {
			out = append(out, prefix...)
		}
		out = append(out, s[i])
		lineStart = s[i] == '\n'
	}
	return string(out)
}

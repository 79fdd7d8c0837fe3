package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HugoDaniel/shadertypes/internal/config"
	"github.com/HugoDaniel/shadertypes/pkg/api"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix <table.yaml>",
	Short: "Prints the compatibility and cast matrix of a type table",
	Long: `The matrix command answers compatibility and castability between every
pair of names declared by a type table. Each cell shows "c" when the row
type is compatible with the column type, "x" when it can only be cast, "."
when neither holds, and "!" when the answer is an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		m, err := api.Matrix(cmd.Context(), string(source), settings.Table)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if settings.Format == config.FormatJSON {
			return writeJSON(out, m)
		}
		writeMatrix(out, m)
		return nil
	},
}

func init() {
	AddCommand(matrixCmd)
}

var (
	compatCell = color.New(color.FgGreen).SprintFunc()
	castCell   = color.New(color.FgYellow).SprintFunc()
	errorCell  = color.New(color.FgRed).SprintFunc()
)

func writeMatrix(w io.Writer, m *api.MatrixResult) {
	width := 0
	for _, n := range m.Names {
		if len(n) > width {
			width = len(n)
		}
	}

	fmt.Fprintf(w, "%*s ", width, "")
	for i := range m.Names {
		fmt.Fprintf(w, " %d", i%10)
	}
	fmt.Fprintln(w)

	for i, name := range m.Names {
		fmt.Fprintf(w, "%-*s ", width, name)
		for j := range m.Names {
			fmt.Fprintf(w, " %s", matrixCell(m.Compatible[i][j], m.Castable[i][j]))
		}
		fmt.Fprintf(w, "  %d\n", i%10)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Join([]string{
		compatCell("c") + " compatible",
		castCell("x") + " castable",
		". neither",
		errorCell("!") + " error",
	}, "   "))
}

func matrixCell(compat, cast string) string {
	switch {
	case compat == "error" || cast == "error":
		return errorCell("!")
	case compat == "yes":
		return compatCell("c")
	case cast == "yes":
		return castCell("x")
	default:
		return "."
	}
}

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// maxBatchInputSize bounds how much of a batch file is read.
const maxBatchInputSize = 16 * 1024 * 1024

// batchOps maps a row's first column to its operation. Arguments follow
// the positional order of the matching command; trailing optional ones
// may be left out.
var batchOps = map[string]struct {
	minArgs, maxArgs int
	run              func(a *app, args []string) (string, error)
}{
	"add": {2, 2, func(a *app, args []string) (string, error) {
		return a.move(args[0], args[1], false)
	}},
	"subtract": {2, 2, func(a *app, args []string) (string, error) {
		return a.move(args[0], args[1], true)
	}},
	// until,FROM,TO[,LARGEST[,SMALLEST[,MODE]]]
	"until": {2, 5, func(a *app, args []string) (string, error) {
		return a.diff(args[0], args[1], rowDiffFlags(args[2:]), false)
	}},
	"since": {2, 5, func(a *app, args []string) (string, error) {
		return a.diff(args[0], args[1], rowDiffFlags(args[2:]), true)
	}},
	// round,VALUE,SMALLEST[,RELATIVE_TO]
	"round": {2, 3, func(a *app, args []string) (string, error) {
		return a.round(args[0], diffFlags{smallest: args[1]}, optional(args, 2))
	}},
	// total,DURATION,UNIT[,RELATIVE_TO]
	"total": {2, 3, func(a *app, args []string) (string, error) {
		return a.total(args[0], args[1], optional(args, 2))
	}},
}

func rowDiffFlags(args []string) diffFlags {
	return diffFlags{
		largest:  optional(args, 0),
		smallest: optional(args, 1),
		mode:     optional(args, 2),
	}
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (a *app) newBatchCmd() *cobra.Command {
	var encoding string
	cmd := &cobra.Command{
		Use:   "batch [FILE]",
		Short: "Run operations from CSV rows",
		Long: `batch reads CSV rows of the form OP,ARG... from FILE or standard input
and writes each row back with two extra columns: the result and the error.

  add,2021-01-31,P1M
  until,2021-01-31,2021-03-01,month
  round,PT1H30M,hour
  total,PT36H,day,2024-03-10[America/New_York]`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening batch file: %w", err)
				}
				defer f.Close()
				in = f
			}
			r, err := decodeInput(in, encoding)
			if err != nil {
				return err
			}
			failed, err := a.runBatch(r, a.out)
			if err != nil {
				return err
			}
			if failed > 0 {
				a.log.Warn("batch rows failed", "count", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "utf-8", "input encoding: utf-8 or shift_jis")
	return cmd
}

// decodeInput wraps r so that it yields UTF-8.
func decodeInput(r io.Reader, encoding string) (io.Reader, error) {
	limited := io.LimitReader(r, maxBatchInputSize)
	switch strings.ToLower(strings.ReplaceAll(encoding, "-", "_")) {
	case "", "utf_8", "utf8":
		return limited, nil
	case "shift_jis", "sjis":
		decoder := japanese.ShiftJIS.NewDecoder()
		return transform.NewReader(limited, decoder), nil
	}
	return nil, fmt.Errorf("unsupported encoding %q (expected utf-8 or shift_jis)", encoding)
}

// runBatch evaluates every row of r and writes the annotated rows to w.
// A row that fails carries its error in the last column; only malformed
// CSV stops the run. It returns the number of failed rows.
func (a *app) runBatch(r io.Reader, w io.Writer) (int, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.Comment = '#'

	out := csv.NewWriter(w)
	failed := 0
	lineNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return failed, fmt.Errorf("line %d: %w", lineNum+1, err)
		}
		lineNum++

		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if len(record) == 0 || record[0] == "" {
			continue
		}

		result, err := a.evalRow(record)
		errText := ""
		if err != nil {
			failed++
			errText = err.Error()
			a.log.Debug("batch row failed", "line", lineNum, "op", record[0], "error", err)
		}
		if err := out.Write(append(record, result, errText)); err != nil {
			return failed, err
		}
	}
	out.Flush()
	return failed, out.Error()
}

func (a *app) evalRow(record []string) (string, error) {
	op, ok := batchOps[strings.ToLower(record[0])]
	if !ok {
		return "", fmt.Errorf("unknown operation %q", record[0])
	}
	args := record[1:]
	if len(args) < op.minArgs || len(args) > op.maxArgs {
		return "", fmt.Errorf("%s: expected %d to %d arguments, got %d", record[0], op.minArgs, op.maxArgs, len(args))
	}
	return op.run(a, args)
}

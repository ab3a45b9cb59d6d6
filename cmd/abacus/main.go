// Package main provides the abacus command line tool.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tsawler/abacus"
)

var (
	verbose      bool
	outputPath   string
	delimiter    string
	sheetName    string
	headerRow    bool
	autofit      bool
	freezeHeader bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "abacus",
		Short: "Spreadsheet file tools",
		Long:  `abacus creates xlsx spreadsheet files from delimited text input.`,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	convertCmd := &cobra.Command{
		Use:   "convert [input.csv]",
		Short: "Convert a CSV or TSV file to xlsx",
		Long: `convert reads a delimited text file and writes an xlsx workbook.

Fields that parse as numbers are written as numbers, everything else as
shared strings. The output path defaults to the input path with an .xlsx
extension.

Examples:
  abacus convert report.csv
  abacus convert -o out.xlsx --delimiter '\t' report.tsv
  abacus convert --header --freeze-header --autofit report.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: input with .xlsx extension)")
	convertCmd.Flags().StringVar(&delimiter, "delimiter", ",", `Field delimiter, a single character or '\t'`)
	convertCmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet name (default: Sheet1)")
	convertCmd.Flags().BoolVar(&headerRow, "header", false, "Write the first row bold")
	convertCmd.Flags().BoolVar(&autofit, "autofit", false, "Autofit column widths")
	convertCmd.Flags().BoolVar(&freezeHeader, "freeze-header", false, "Freeze the first row")
	rootCmd.AddCommand(convertCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	inputPath := args[0]
	comma, err := parseDelimiter(delimiter)
	if err != nil {
		return err
	}

	out := outputPath
	if out == "" {
		out = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".xlsx"
	}

	logger.Debug("converting",
		zap.String("input", inputPath),
		zap.String("output", out),
		zap.String("delimiter", string(comma)))

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	wb := abacus.NewWorkbook()
	ws := wb.AddWorksheet()
	if sheetName != "" {
		if err := ws.SetName(sheetName); err != nil {
			return fmt.Errorf("invalid sheet name: %w", err)
		}
	}

	rows, err := writeRecords(ws, csvReader(f, comma))
	if err != nil {
		return err
	}

	if autofit {
		ws.Autofit()
	}
	if freezeHeader {
		if err := ws.SetFreezePanes(1, 0); err != nil {
			return err
		}
	}

	if err := wb.Save(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	logger.Info("workbook written",
		zap.String("path", out),
		zap.Int("rows", rows))
	return nil
}

func csvReader(r io.Reader, comma rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = comma
	// Ragged input is allowed, short rows just leave cells blank.
	cr.FieldsPerRecord = -1
	return cr
}

// writeRecords writes the reader's records to the worksheet and returns
// the number of rows written.
func writeRecords(ws *abacus.Worksheet, cr *csv.Reader) (int, error) {
	bold := abacus.NewFormat().SetBold()
	row := 0

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading input: %w", err)
		}

		for col, field := range record {
			if col >= abacus.MaxCol {
				return 0, abacus.ErrRowColumnLimit
			}
			if err := writeField(ws, uint32(row), uint16(col), field, bold); err != nil {
				return 0, err
			}
		}
		row++
	}

	return row, nil
}

func writeField(ws *abacus.Worksheet, row uint32, col uint16, field string, bold abacus.Format) error {
	if headerRow && row == 0 {
		// Header cells stay text even when they look numeric.
		return ws.WriteStringWithFormat(row, col, field, bold)
	}
	if field == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(field, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return ws.WriteNumber(row, col, n)
	}
	return ws.WriteString(row, col, field)
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` || s == "tab" {
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character: %q", s)
	}
	return runes[0], nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableCaller = true
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/prdash/internal/cli"
	"github.com/Veraticus/prdash/internal/sheets"
	"github.com/gosimple/slug"
	"github.com/xuri/excelize/v2"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatXLSX   Format = "xlsx"
	FormatJSON   Format = "json"
	FormatSheets Format = "sheets"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatJSON, FormatSheets:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use xlsx, json or sheets)", s)
	}
}

// Result describes a finished export.
type Result struct {
	Location string
	Rows     int
}

// Exporter writes tables to a directory or to Google Sheets.
type Exporter struct {
	sheets   sheets.ReportWriter
	progress io.Writer
	logger   *slog.Logger
	dir      string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithSheets enables the sheets format.
func WithSheets(w sheets.ReportWriter) Option {
	return func(e *Exporter) { e.sheets = w }
}

// WithProgress draws a progress bar on w while rows are written.
func WithProgress(w io.Writer) Option {
	return func(e *Exporter) { e.progress = w }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// NewExporter writes files into dir.
func NewExporter(dir string, opts ...Option) *Exporter {
	e := &Exporter{dir: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FileName builds "<slug>-<timestamp>.<ext>".
func FileName(title string, at time.Time, format Format) string {
	return fmt.Sprintf("%s-%s.%s", slug.Make(title), at.Format("20060102-150405"), format)
}

// Export writes t in format.
func (e *Exporter) Export(ctx context.Context, format Format, t Table) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	switch format {
	case FormatSheets:
		return e.exportSheets(ctx, t)
	case FormatXLSX, FormatJSON:
	default:
		return Result{}, fmt.Errorf("unsupported export format %q", format)
	}

	if err := os.MkdirAll(e.dir, 0750); err != nil {
		return Result{}, fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(e.dir, FileName(t.Title, t.Generated, format))

	var err error
	if format == FormatXLSX {
		err = e.writeXLSX(ctx, path, t)
	} else {
		err = writeJSON(path, t)
	}
	if err != nil {
		return Result{}, err
	}

	e.logger.Info("export written", "format", format, "path", path, "rows", len(t.Rows))
	return Result{Location: path, Rows: len(t.Rows)}, nil
}

func (e *Exporter) exportSheets(ctx context.Context, t Table) (Result, error) {
	if e.sheets == nil {
		return Result{}, fmt.Errorf("google sheets export is not configured")
	}
	id, err := e.sheets.Write(ctx, sheets.Report{
		Title:           t.Title,
		Subtitle:        "Generated " + t.Generated.Format(time.RFC1123),
		Headers:         t.Headers,
		Rows:            t.Rows,
		CurrencyColumns: t.CurrencyColumns,
	})
	if err != nil {
		return Result{}, fmt.Errorf("sheets export: %w", err)
	}
	return Result{Location: "https://docs.google.com/spreadsheets/d/" + id, Rows: len(t.Rows)}, nil
}

func (e *Exporter) writeXLSX(ctx context.Context, path string, t Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	currency, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("failed to create currency style: %w", err)
	}

	for i, h := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	bar := e.newProgress(len(t.Rows), "Writing "+t.Title)
	for r, row := range t.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
		bar.Add(1)
	}
	bar.Finish()

	if len(t.Rows) > 0 {
		for _, col := range t.CurrencyColumns {
			top, _ := excelize.CoordinatesToCellName(col+1, 2)
			bottom, _ := excelize.CoordinatesToCellName(col+1, len(t.Rows)+1)
			if err := f.SetCellStyle(sheet, top, bottom, currency); err != nil {
				return fmt.Errorf("failed to style currency column: %w", err)
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (e *Exporter) newProgress(total int, description string) *cli.Progress {
	return cli.NewProgress(e.progress, total, description)
}

type jsonDocument struct {
	Generated time.Time `json:"generated"`
	Records   any       `json:"records"`
	Title     string    `json:"title"`
	Count     int       `json:"count"`
}

func writeJSON(path string, t Table) error {
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonDocument{
		Title:     t.Title,
		Generated: t.Generated,
		Count:     len(t.Rows),
		Records:   t.Records,
	}); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// sheetName trims a title to Excel's 31-character sheet name limit.
func sheetName(title string) string {
	if title == "" {
		return "Export"
	}
	if len(title) > 31 {
		return title[:31]
	}
	return title
}

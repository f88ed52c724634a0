// Public domain.

// Package report writes fit summaries: a fixed width text file and a
// spreadsheet of the same values.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
	"github.com/xuri/excelize/v2"

	"github.com/soniakeys/microlens/internal/posterior"
)

// Header identifies the fit a summary belongs to.
type Header struct {
	Target  string
	Variant string
	RA      unit.RA
	Dec     unit.Angle
	LnL     *float64 // nil if the model was not evaluated
	Samples int
}

// WriteText writes the fixed width summary: for each parameter the best
// fit value, then median + upper delta - lower delta.
func WriteText(w io.Writer, s []posterior.Summary) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "                       best      median")
	for _, p := range s {
		fmt.Fprintf(bw, "%15s  %10.3f  %10.3f + %10.3f - %10.3f\n",
			p.Name, p.Best, p.Median, p.Hi, p.Lo)
	}
	return bw.Flush()
}

// WriteTextFile writes the text summary to file fn.
func WriteTextFile(fn string, s []posterior.Summary) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err = WriteText(f, s); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", fn, err)
	}
	return f.Close()
}

// Position formats the sky position of h.
func (h *Header) Position() string {
	return fmt.Sprintf("%.2s %.1s", sexa.FmtRA(h.RA), sexa.FmtAngle(h.Dec))
}

const sheet = "Sheet1"

// WriteXLSX writes the header and summary rows to the workbook fn.
func WriteXLSX(fn string, h Header, s []posterior.Summary) error {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"target", h.Target},
		{"model", h.Variant},
		{"position", h.Position()},
		{"samples", h.Samples},
	}
	if h.LnL != nil {
		rows = append(rows, []interface{}{"lnL", *h.LnL})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"parameter", "best", "median", "+", "-"})
	for _, p := range s {
		rows = append(rows, []interface{}{p.Name, p.Best, p.Median, p.Hi, p.Lo})
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("%s: %w", fn, err)
		}
	}
	return f.SaveAs(fn)
}

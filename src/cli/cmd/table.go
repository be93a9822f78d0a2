package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type stemRow struct {
	Name string
	Path string
	Size int64
	// Features is nil when the stem could not be decoded.
	Features *pcm.Features
}

func renderStemTable(w io.Writer, rows []stemRow) string {
	tw := newTableWriter(w)

	tw.AppendHeader(table.Row{"Stem", "File", "Size", "RMS", "BPM"})
	for _, row := range rows {
		rms, bpm := "-", "-"
		if row.Features != nil {
			rms = fmt.Sprintf("%.4f", row.Features.RMS)
			bpm = fmt.Sprintf("%.0f", row.Features.TempoBPM)
		}
		tw.AppendRow(table.Row{row.Name, row.Path, humanSize(row.Size), rms, bpm})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func renderFeatureTable(w io.Writer, features pcm.Features) string {
	tw := newTableWriter(w)

	tw.AppendHeader(table.Row{"Feature", "Value"})
	tw.AppendRows([]table.Row{
		{"Duration", fmt.Sprintf("%.2f s", features.Duration.Seconds())},
		{"Sample rate", fmt.Sprintf("%d Hz", features.SampleRate)},
		{"Channels", features.Channels},
		{"RMS energy", fmt.Sprintf("%.4f", features.RMS)},
		{"Zero crossing rate", fmt.Sprintf("%.4f", features.ZeroCrossingRate)},
		{"Estimated BPM", fmt.Sprintf("%.0f", features.TempoBPM)},
	})

	return tw.Render()
}

func newTableWriter(w io.Writer) table.Writer {
	tw := table.NewWriter()
	if shouldStyle(w) {
		tw.SetStyle(table.StyleRounded)
		return tw
	}

	tw.SetStyle(table.StyleDefault)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateHeader = false

	return tw
}

// analyzeStemFile decodes a WAV stem for the table, nil for anything else.
func analyzeStemFile(path string) *pcm.Features {
	buffer, err := pcm.ReadWAVFile(path)
	if err != nil {
		return nil
	}

	features, err := pcm.Analyze(buffer)
	if err != nil {
		return nil
	}

	return &features
}

func shouldStyle(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

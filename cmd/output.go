package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/s0up4200/bgmtv/bangumi"
)

// fsys is where downloaded images are written
var fsys = afero.NewOsFs()

// render prints v as indented JSON or through the text printer, depending
// on the configured output format
func render(w io.Writer, v any, text func(io.Writer)) error {
	if cfg != nil && cfg.Output.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	text(w)
	return nil
}

// printTable renders rows under headers. The add callback takes one row.
func printTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}

// printDetails renders key/value pairs of a single entity. Pairs with an
// empty value are skipped.
func printDetails(w io.Writer, fill func(add func(key, value string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetBorder(false)
	tw.SetColumnSeparator("")
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(key, value string) {
		if value != "" {
			tw.Append([]string{key + ":", value})
		}
	})
	tw.Render()
}

// runImage fetches an image of the entity with the numeric id in arg
func runImage(cmd *cobra.Command, arg string, get func(context.Context, uint64, bangumi.ImageType) ([]byte, error)) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	size, err := bangumi.ParseImageType(imageSize)
	if err != nil {
		return err
	}

	data, err := get(cmd.Context(), id, size)
	if err != nil {
		return fmt.Errorf("failed to get image: %w", err)
	}

	return writeImage(cmd.OutOrStdout(), imageFile, data)
}

// writeImage writes image bytes to path, or to w when path is empty. Binary
// data is never written to a terminal.
func writeImage(w io.Writer, path string, data []byte) error {
	if path == "" {
		if f, ok := w.(*os.File); ok && isTerminal(f.Fd()) {
			return fmt.Errorf("refusing to write image data to a terminal, use --file or redirect output")
		}
		_, err := w.Write(data)
		return err
	}

	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	logger.Info().Str("path", path).Int("bytes", len(data)).Msg("Image saved")
	return nil
}

func printSubjects(w io.Writer, subjects []bangumi.Subject) {
	printTable(w, []string{"ID", "Type", "Name", "Date", "Score", "Rank"}, func(add func(...string)) {
		for _, s := range subjects {
			add(uitoa(s.ID), s.Type.String(), truncate(s.DisplayName(), 48), lo.FromPtr(s.Date),
				strconv.FormatFloat(s.Rating.Score, 'f', 1, 64), uitoa(s.Rating.Rank))
		}
	})
}

func printSubject(w io.Writer, s *bangumi.Subject) {
	printDetails(w, func(add func(key, value string)) {
		add("ID", uitoa(s.ID))
		add("Name", s.Name)
		add("Name (CN)", s.NameCN)
		add("Type", s.Type.String())
		add("Platform", s.Platform)
		add("Date", lo.FromPtr(s.Date))
		if s.Eps > 0 {
			add("Episodes", uitoa(s.Eps))
		}
		add("Score", fmt.Sprintf("%.1f (%d votes, rank %d)", s.Rating.Score, s.Rating.Total, s.Rating.Rank))
		tags := lo.Map(s.Tags, func(t bangumi.SubjectTag, _ int) string { return t.Name })
		add("Tags", strings.Join(tags, ", "))
		addInfobox(add, s.Infobox)
	})
	printSummary(w, s.Summary)
}

func addInfobox(add func(key, value string), infobox []bangumi.Infobox) {
	for _, entry := range infobox {
		add(entry.Key, entry.Value.String())
	}
}

const (
	defaultWidth = 80
	maxWidth     = 120
)

// printSummary prints free text wrapped to the terminal width. Words are
// kept whole where possible; CJK text without spaces is hard wrapped.
func printSummary(w io.Writer, summary string) {
	summary = strings.TrimSpace(strings.ReplaceAll(summary, "\r\n", "\n"))
	if summary == "" {
		return
	}
	width := textWidth(w)
	fmt.Fprintf(w, "\n%s\n", wrap.String(wordwrap.String(summary, width), width))
}

// textWidth returns the width of the terminal behind w, or a default when w
// is not a terminal
func textWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !isTerminal(f.Fd()) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return min(width, maxWidth)
}

func printPaging(w io.Writer, total, offset uint64, shown int) {
	fmt.Fprintf(w, "Showing %d of %d (offset %d)\n", shown, total, offset)
}

func uitoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

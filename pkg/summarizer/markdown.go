package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator translates headings and labels.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		if fn != nil {
			f.translate = fn
		}
	}
}

// WithVersion adds the tool version to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", t("Thumbnail Summary"))
	fmt.Fprintf(&sb, "%s: %s\n\n", t("Generated At"), s.GeneratedAt.Format(time.RFC3339))

	// Canvas
	fmt.Fprintf(&sb, "## %s\n\n", t("Canvas"))
	fmt.Fprintf(&sb, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&sb, "| %s | %s |\n", t("Aspect Ratio"), s.Canvas.AspectRatio)
	fmt.Fprintf(&sb, "| %s | %dx%d |\n\n", t("Size"), s.Canvas.Width, s.Canvas.Height)

	// Background
	fmt.Fprintf(&sb, "## %s\n\n", t("Background"))
	if s.Background.Path == "" {
		fmt.Fprintf(&sb, "%s\n\n", t("Placeholder color"))
	} else {
		bg := s.Background
		fmt.Fprintf(&sb, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
		fmt.Fprintf(&sb, "| %s | %s |\n", t("Image"), bg.Path)
		fmt.Fprintf(&sb, "| %s | %dx%d |\n", t("Source Size"), bg.Width, bg.Height)
		fmt.Fprintf(&sb, "| %s | %.1f, %.1f, %.1fx%.1f |\n\n", t("Crop"), bg.CropX, bg.CropY, bg.CropWidth, bg.CropHeight)
	}

	// Headlines
	if len(s.Headlines) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", t("Headlines"))
		fmt.Fprintf(&sb, "| # | %s | %s | %s | %s | Y |\n", t("Lines"), t("Font"), t("Font Size"), t("Stroke"))
		sb.WriteString("|---|---|---|---|---|---|\n")
		for i, h := range s.Headlines {
			lines := "-"
			if len(h.Lines) > 0 {
				lines = strings.Join(h.Lines, " / ")
			}
			font := h.Font
			if h.Fallback {
				font += " (" + t("fallback") + ")"
			}
			fmt.Fprintf(&sb, "| %d | %s | %s | %.1f px | %.1f px | %.1f |\n",
				i+1, lines, font, h.FontSize, h.StrokeWidth, h.Y)
		}
		sb.WriteString("\n")
	}

	// Layout
	fmt.Fprintf(&sb, "## %s\n\n", t("Layout"))
	fmt.Fprintf(&sb, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&sb, "| %s | %s |\n", t("Position"), s.Layout.Anchor)
	fmt.Fprintf(&sb, "| %s | %s |\n", t("Alignment"), s.Layout.Align)
	fmt.Fprintf(&sb, "| %s | %.1f px |\n\n", t("Spacing"), s.Layout.Gap)

	// Output
	fmt.Fprintf(&sb, "## %s\n\n", t("Output"))
	fmt.Fprintf(&sb, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&sb, "| %s | %s |\n", t("File"), s.Output.Path)
	fmt.Fprintf(&sb, "| %s | %s |\n", t("File Size"), formatBytes(s.Output.FileSize))
	if s.Output.Digest != "" {
		fmt.Fprintf(&sb, "| BLAKE3 | `%s` |\n", s.Output.Digest)
	}
	if s.Output.Unchanged {
		fmt.Fprintf(&sb, "| %s | %s |\n", t("Status"), t("Unchanged"))
	}
	fmt.Fprintf(&sb, "| %s | %d ms |\n\n", t("Duration"), s.Output.DurationMs)

	if len(s.FontErrors) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", t("Font Errors"))
		for _, e := range s.FontErrors {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
		sb.WriteString("\n")
	}

	if f.version != "" {
		fmt.Fprintf(&sb, "---\n\nthumbforge %s\n", f.version)
	}

	return sb.String()
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}

var _ Formatter = (*MarkdownFormatter)(nil)

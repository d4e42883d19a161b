// Package snapshot renders a complete poem as a static card image.
package snapshot

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/poemtyper/pkg/poem"
)

// Options controls card export.
type Options struct {
	Path   string // Output path; format inferred from extension when Format empty
	Format string // "svg" or "png" (case-insensitive)
	Width  int    // Card width in pixels; DefaultWidth when zero
	Footer string // Optional footer line, e.g. the dataset name
}

// DefaultWidth fits roughly 80 columns of the 7x13 face.
const DefaultWidth = 640

const (
	margin     = 32
	glyphW     = 7
	lineHeight = 18
	titleGap   = 14
)

var (
	colorBackdrop = color.RGBA{R: 0x28, G: 0x2a, B: 0x36, A: 0xff}
	colorCard     = color.RGBA{R: 0x34, G: 0x37, B: 0x46, A: 0xff}
	colorStroke   = color.RGBA{R: 0x62, G: 0x72, B: 0xa4, A: 0xff}
	colorTitle    = color.RGBA{R: 0xff, G: 0x79, B: 0xc6, A: 0xff}
	colorText     = color.RGBA{R: 0xf8, G: 0xf8, B: 0xf2, A: 0xff}
	colorSubtle   = color.RGBA{R: 0xbd, G: 0x93, B: 0xf9, A: 0xff}
)

type card struct {
	Width, Height int
	Title         []string
	Body          []string
	Footer        string
}

// Export writes the card for p to opts.Path.
func Export(p poem.Poem, opts Options) error {
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	format, err := resolveFormat(opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "svg":
		err = RenderSVG(f, p, opts)
	default:
		err = RenderPNG(f, p, opts)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

func resolveFormat(opts Options) (string, error) {
	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg"
		}
	}
	if format != "svg" && format != "png" {
		return "", fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	return format, nil
}

func layout(p poem.Poem, opts Options) card {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	cols := (width - 2*margin - 2*glyphW) / glyphW
	if cols < 10 {
		cols = 10
	}

	c := card{
		Width:  width,
		Title:  wrap(p.Title, cols),
		Body:   wrap(p.Body, cols),
		Footer: opts.Footer,
	}
	rows := len(c.Title) + len(c.Body)
	if c.Footer != "" {
		rows++
	}
	c.Height = 2*margin + rows*lineHeight + titleGap + margin
	return c
}

// wrap splits s on newlines and hard-wraps each line at cols display columns.
// Blank lines are kept so stanza breaks survive.
func wrap(s string, cols int) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		for runewidth.StringWidth(line) > cols {
			head := runewidth.Truncate(line, cols, "")
			if head == "" {
				break
			}
			out = append(out, head)
			line = strings.TrimPrefix(line, head)
		}
		out = append(out, line)
	}
	return out
}

// RenderSVG writes the card as SVG.
func RenderSVG(w io.Writer, p poem.Poem, opts Options) error {
	c := layout(p, opts)

	canvas := svg.New(w)
	canvas.Start(c.Width, c.Height)
	canvas.Rect(0, 0, c.Width, c.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(margin/2, margin/2, c.Width-margin, c.Height-margin, 12, 12,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.5", css(colorCard), css(colorStroke)))

	y := margin + lineHeight
	for _, line := range c.Title {
		canvas.Text(margin, y, line, fmt.Sprintf("fill:%s;font-size:15px;font-family:monospace;font-weight:bold", css(colorTitle)))
		y += lineHeight
	}
	y += titleGap
	for _, line := range c.Body {
		if line != "" {
			canvas.Text(margin, y, line, fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;white-space:pre", css(colorText)))
		}
		y += lineHeight
	}
	if c.Footer != "" {
		canvas.Text(c.Width-margin, y, c.Footer, fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:end", css(colorSubtle)))
	}

	canvas.End()
	return nil
}

// RenderPNG writes the card as PNG using the 7x13 bitmap face.
func RenderPNG(w io.Writer, p poem.Poem, opts Options) error {
	c := layout(p, opts)

	dc := gg.NewContext(c.Width, c.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorCard)
	dc.DrawRoundedRectangle(margin/2, margin/2, float64(c.Width-margin), float64(c.Height-margin), 12)
	dc.FillPreserve()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1.5)
	dc.Stroke()

	dc.SetFontFace(basicfont.Face7x13)

	y := float64(margin + lineHeight)
	dc.SetColor(colorTitle)
	for _, line := range c.Title {
		dc.DrawString(line, margin, y)
		y += lineHeight
	}
	y += titleGap
	dc.SetColor(colorText)
	for _, line := range c.Body {
		dc.DrawString(line, margin, y)
		y += lineHeight
	}
	if c.Footer != "" {
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(c.Footer, float64(c.Width-margin), y, 1, 0)
	}

	return dc.EncodePNG(w)
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

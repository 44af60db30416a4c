package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/lumipallolabs/treescan/internal/core"
	"github.com/lumipallolabs/treescan/internal/model"
	"github.com/lumipallolabs/treescan/internal/ui"
)

// printer writes a finished match tree as indented text
type printer struct {
	out     io.Writer
	dir     *color.Color
	file    *color.Color
	summary *color.Color
	muted   *color.Color
}

func newPrinter(out io.Writer) *printer {
	p := &printer{
		out:     out,
		dir:     color.New(color.FgBlue, color.Bold),
		file:    color.New(color.FgWhite),
		summary: color.New(color.FgGreen, color.Bold),
		muted:   color.New(color.FgHiBlack),
	}
	if !isTerminal(out) {
		for _, c := range []*color.Color{p.dir, p.file, p.summary, p.muted} {
			c.DisableColor()
		}
	}
	return p
}

// isTerminal reports whether w is a TTY that should get colors.
// NO_COLOR is honoured through color.NoColor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *printer) printTree(root *model.Node) {
	root.Walk(func(n *model.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		if n.IsDir {
			fmt.Fprintf(p.out, "%s%s\n", indent, p.dir.Sprint(n.Name+"/"))
			return
		}
		fmt.Fprintf(p.out, "%s%s\n", indent, p.file.Sprint(n.Name))
	})
}

func (p *printer) printResult(e core.ScanCompletedEvent) {
	if e.Root == nil || e.Root.CountFiles() == 0 {
		fmt.Fprintln(p.out, p.muted.Sprint("no matching files"))
	} else {
		p.printTree(e.Root)
	}
	fmt.Fprintf(p.out, "%s %s\n",
		p.summary.Sprintf("%s files matched", e.Counts),
		p.muted.Sprintf("in %s", ui.FormatElapsed(e.Elapsed)))
}

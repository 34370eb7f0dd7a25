package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/overload/internal/pipeline"
	"github.com/funvibe/overload/internal/resolve"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
)

type reporter struct {
	w     io.Writer
	color bool
}

func newReporter(w io.Writer, mode string) *reporter {
	return &reporter{w: w, color: useColor(mode, w)}
}

// useColor decides colouring for mode; auto colours terminals only.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *reporter) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + ansiReset
}

func (r *reporter) header(path string) {
	fmt.Fprintln(r.w, r.paint(ansiBold, "== "+path))
}

func (r *reporter) kind(res resolve.Result) string {
	switch res.Kind {
	case resolve.ResultSingle:
		return r.paint(ansiGreen, res.Kind.String())
	case resolve.ResultAmbiguous:
		return r.paint(ansiYellow, res.Kind.String())
	default:
		return r.paint(ansiRed, res.Kind.String())
	}
}

// outcome prints one line per call:
//
//	f(String): single f(String)
//	f(?): ambiguous by signature f(String); f(Object)
func (r *reporter) outcome(out pipeline.Outcome) {
	res := out.Result
	var b strings.Builder
	b.WriteString(out.Call.Label)
	b.WriteString(": ")
	b.WriteString(r.kind(res))
	if !res.IsEmpty() {
		if !res.Ranked {
			b.WriteString(r.paint(ansiDim, " by signature"))
		}
		b.WriteString(" ")
		b.WriteString(strings.Join(res.Signatures(), "; "))
	}
	fmt.Fprintln(r.w, b.String())
}

// candidates prints the outcome followed by every collected candidate.
// Calls resolved across imports list the merged result instead.
func (r *reporter) candidates(out pipeline.Outcome) {
	r.outcome(out)
	if out.Call.Across {
		for _, c := range out.Result.Candidates {
			fmt.Fprintf(r.w, "  %-12s %s [%s]\n", "merged", c.Decl, c.Scope)
		}
		return
	}
	for _, e := range out.Explanations {
		verdict := e.Verdict.String()
		if e.Static {
			verdict = "static"
		}
		line := fmt.Sprintf("  %-12s %s [%s]", verdict, e.Candidate.Decl, e.Candidate.Scope)
		if sig := e.Candidate.Signature(); sig != e.Candidate.Decl.Signature(nil) {
			line += " as " + sig
		}
		if e.Verdict != resolve.Applicable {
			line = r.paint(ansiDim, line)
		}
		fmt.Fprintln(r.w, line)
	}
}

package compare

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/the-project-b/ritagraph-sub004/internal/canon"
	"github.com/the-project-b/ritagraph-sub004/internal/record"
)

//go:generate go tool stringer -type=DiffOp -trimprefix=Diff -output=diffop_string.go

// DiffOp classifies one line of a diff.
type DiffOp int

const (
	// DiffUnchanged lines appear on both sides.
	DiffUnchanged DiffOp = iota
	// DiffAdded lines appear only in the actual record.
	DiffAdded
	// DiffRemoved lines appear only in the expected record.
	DiffRemoved
)

// Prefix returns the marker printed before a line.
func (o DiffOp) Prefix() string {
	switch o {
	case DiffAdded:
		return "+ "
	case DiffRemoved:
		return "- "
	default:
		return "  "
	}
}

// DiffLine is one rendered line without its trailing newline.
type DiffLine struct {
	Op   DiffOp
	Text string
}

// Block is the diff of one aligned pair.
type Block struct {
	Pair   Pair
	Header string
	Lines  []DiffLine
}

// Changed counts lines that are not unchanged.
func (b Block) Changed() int {
	n := 0

	for _, l := range b.Lines {
		if l.Op != DiffUnchanged {
			n++
		}
	}

	return n
}

// Report is the rendered diff of every pair.
type Report struct {
	Blocks []Block
}

// Text renders the report as plain text, one block per pair separated by a
// blank line.
func (r Report) Text() string {
	var sb strings.Builder

	for i, b := range r.Blocks {
		if i > 0 {
			sb.WriteString("\n")
		}

		sb.WriteString(b.Header)
		sb.WriteString("\n")

		for _, l := range b.Lines {
			sb.WriteString(l.Op.Prefix())
			sb.WriteString(l.Text)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// RenderDiff renders a line diff of the canonical pretty text of every pair.
// It fails if a pair refers to a record that does not exist or a record
// cannot be serialized.
func RenderDiff(expected, actual []record.Record, pairs []Pair) (Report, error) {
	report := Report{Blocks: make([]Block, 0, len(pairs))}

	for n, p := range pairs {
		expText, err := sideText(expected, p.ExpectedIndex, "expected")
		if err != nil {
			return Report{}, err
		}

		actText, err := sideText(actual, p.ActualIndex, "actual")
		if err != nil {
			return Report{}, err
		}

		report.Blocks = append(report.Blocks, Block{
			Pair:   p,
			Header: header(n, p, expected, actual),
			Lines:  diffLines(expText, actText),
		})
	}

	return report, nil
}

func sideText(records []record.Record, idx int, side string) ([]string, error) {
	if idx == NoIndex {
		return nil, nil
	}

	if idx < 0 || idx >= len(records) {
		return nil, fmt.Errorf("%s index %d out of range [0,%d)", side, idx, len(records))
	}

	text, err := canon.ToPrettyText(map[string]any(records[idx].Content()))
	if err != nil {
		return nil, fmt.Errorf("failed to render %s[%d]: %w", side, idx, err)
	}

	return strings.Split(text, "\n"), nil
}

func diffLines(a, b []string) []DiffLine {
	var lines []DiffLine

	emit := func(op DiffOp, text []string) {
		for _, t := range text {
			lines = append(lines, DiffLine{Op: op, Text: t})
		}
	}

	for _, oc := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch oc.Tag {
		case 'e':
			emit(DiffUnchanged, a[oc.I1:oc.I2])
		case 'd':
			emit(DiffRemoved, a[oc.I1:oc.I2])
		case 'i':
			emit(DiffAdded, b[oc.J1:oc.J2])
		case 'r':
			emit(DiffRemoved, a[oc.I1:oc.I2])
			emit(DiffAdded, b[oc.J1:oc.J2])
		}
	}

	return lines
}

func header(n int, p Pair, expected, actual []record.Record) string {
	var side string

	switch {
	case p.IsMatched():
		side = fmt.Sprintf("expected[%d] vs actual[%d] (score %g)", p.ExpectedIndex, p.ActualIndex, p.Score)
	case p.ExpectedIndex != NoIndex:
		side = fmt.Sprintf("expected[%d] only", p.ExpectedIndex)
	default:
		side = fmt.Sprintf("actual[%d] only", p.ActualIndex)
	}

	h := fmt.Sprintf("#%d %s", n+1, side)

	rec := pick(expected, p.ExpectedIndex)
	if rec == nil {
		rec = pick(actual, p.ActualIndex)
	}

	if prop, err := DecodeProposal(rec); err == nil {
		if s := prop.Summary(); s != "" {
			h += ": " + s
		}
	}

	return h
}

func pick(records []record.Record, idx int) record.Record {
	if idx < 0 || idx >= len(records) {
		return nil
	}

	return records[idx]
}

package exprs

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump returns a pretty-printed tree of an expression and its children:
// one line per node with its name and current value, children indented
// below. Nodes appearing more than once get YAML-style markers, (&n) at
// the first occurrence and (*n) at later ones, and their children are only
// listed once.
func Dump(e Expression) string {
	d := &dumper{
		marks: make(map[Expression]int),
		seen:  make(map[Expression]bool),
	}
	d.walk(e, 0)

	var b strings.Builder
	for i, line := range d.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("  ", line.indent))
		b.WriteString(nodeName(line.exp))
		b.WriteByte(' ')
		b.WriteString(formatValue(line.exp))
		if line.childrenFollow {
			b.WriteByte(':')
		}
		if mark, ok := d.marks[line.exp]; ok {
			fmt.Fprintf(&b, "  (%c%d)", line.sigil, mark)
		}
	}

	return b.String()
}

type dumpLine struct {
	indent         int
	exp            Expression
	sigil          byte
	childrenFollow bool
}

type dumper struct {
	lines   []dumpLine
	seen    map[Expression]bool
	marks   map[Expression]int
	counter int
}

func (d *dumper) walk(e Expression, indent int) {
	if d.seen[e] {
		if _, marked := d.marks[e]; !marked {
			d.counter++
			d.marks[e] = d.counter
		}
		d.lines = append(d.lines, dumpLine{indent, e, '*', false})
		return
	}

	d.seen[e] = true
	children := e.Children()
	d.lines = append(d.lines, dumpLine{indent, e, '&', len(children) > 0})
	for _, child := range children {
		d.walk(child, indent+1)
	}
}

func nodeName(e Expression) string {
	if n, ok := e.(interface{ PrettyName() string }); ok {
		return n.PrettyName()
	}

	name := fmt.Sprintf("%T", e)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	return name
}

func formatValue(e Expression) string {
	values, err := Eval(e)
	if err != nil {
		return "<error while getting value>"
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}

	return "<" + strings.Join(parts, ", ") + ">"
}

// Package rewrite turns analysis results into source edits and applies them.
// Edits are byte-range splices against the original source, applied from the
// end of the file backwards so earlier offsets stay valid.
package rewrite

import (
	"sort"

	"github.com/refit-dev/refit/pkg/analyzer/finalize"
	"github.com/refit-dev/refit/pkg/analyzer/staticize"
	"github.com/refit-dev/refit/pkg/java"
)

// Edit replaces source[Start:End] with Text. Start == End inserts.
type Edit struct {
	Start uint32
	End   uint32
	Text  string
}

// Apply returns a copy of source with all edits applied. Edits must not
// overlap; they may be given in any order.
func Apply(source []byte, edits []Edit) []byte {
	if len(edits) == 0 {
		return source
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })

	out := make([]byte, len(source))
	copy(out, source)
	for _, e := range sorted {
		patched := make([]byte, 0, len(out)+len(e.Text))
		patched = append(patched, out[:e.Start]...)
		patched = append(patched, e.Text...)
		patched = append(patched, out[e.End:]...)
		out = patched
	}
	return out
}

// StaticizeEdits produces the modifier edits for one class's eligible
// methods. A final modifier is replaced by static, since final is redundant
// on a static method; otherwise static is inserted after the last modifier.
func StaticizeEdits(class *java.Class, eligible *staticize.EligibleSet) []Edit {
	var edits []Edit
	for _, m := range class.Methods {
		if !eligible.Contains(m) {
			continue
		}
		if e, ok := staticizeEdit(m); ok {
			edits = append(edits, e)
		}
	}
	return edits
}

func staticizeEdit(m *java.Method) (Edit, bool) {
	var last *java.Modifier
	for i := range m.Modifiers {
		mod := &m.Modifiers[i]
		switch mod.Name {
		case java.ModStatic:
			return Edit{}, false
		case java.ModFinal:
			return Edit{Start: mod.Start, End: mod.End, Text: "static"}, true
		}
		last = mod
	}
	if last == nil {
		// an eligible method is private or final, so this cannot happen;
		// refuse rather than produce a bad edit
		return Edit{}, false
	}
	return Edit{Start: last.End, End: last.End, Text: " static"}, true
}

// FinalizeEdits produces the final-modifier insertions for the candidates
// of one file.
func FinalizeEdits(methods []finalize.MethodResult) []Edit {
	var edits []Edit
	for _, mr := range methods {
		for _, c := range mr.Locals {
			edits = append(edits, Edit{Start: c.DeclStart, End: c.DeclStart, Text: "final "})
		}
	}
	return edits
}

package placer

import "github.com/pdfo-lang/pdfo/internal/style"

// ApplyEndCallbacks runs once, after every token in the stream has been
// placed (spec.md §4.6, "End-callbacks"). The built-in callback realigns
// the last line of any justified paragraph to the left — justifying a
// paragraph's final, usually-short line stretches it across the full
// column width, which reads worse than leaving it ragged (spec.md §8,
// scenario 6) — then the callbacks in doc.EndCallbacks run in reverse
// order of registration, each with paragraphIndex -1.
func ApplyEndCallbacks(doc *PdfDocument) {
	for _, para := range doc.Paragraphs {
		if para.Alignment != style.Justify || len(para.Lines) == 0 {
			continue
		}
		last := para.Lines[len(para.Lines)-1]
		line := doc.Line(last)
		line.Alignment = style.Left
		realignLine(line)
	}
	for i := len(doc.EndCallbacks) - 1; i >= 0; i-- {
		doc.EndCallbacks[i](doc, -1)
	}
}

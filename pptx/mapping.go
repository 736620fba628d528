package pptx

// MapColumns assigns data columns to template paragraph positions. The
// template defines how many content slots exist and where the spacers are;
// the caller supplies which columns fill them.
//
// Each spacer position yields "" (a blank output line). Each non-spacer
// position pulls the next unused column off the front of columns, in order.
// Once columns are exhausted, remaining non-spacer positions also yield "".
// Columns beyond the available non-spacer slots are silently dropped; this
// is intentional, not an error.
func MapColumns(paragraphs []TemplateParagraph, columns []string) []string {
	sequence := make([]string, len(paragraphs))
	next := 0
	for i, p := range paragraphs {
		if p.IsSpacer() {
			continue
		}
		if next < len(columns) {
			sequence[i] = columns[next]
			next++
		}
	}
	return sequence
}

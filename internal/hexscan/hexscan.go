// Package hexscan locates hex-encoded digests embedded in free text.
//
// The pattern is the word-bounded hex run \b[0-9a-fA-F]{W}\b for a fixed
// width W (32 for MD5, 64 for SHA-256). With a single fixed-width byte-class
// pattern there is nothing for a general regex engine to do: the scanner
// walks maximal word-character runs with a 256-entry class table and accepts
// a run exactly when it is W bytes long and entirely hex. Multi-byte UTF-8
// sequences fall outside the ASCII word class, matching the ASCII \b
// semantics the extraction contract specifies.
package hexscan

// Span is a half-open byte range [Start, End) into the scanned line.
type Span struct {
	Start int
	End   int
}

var wordTable, hexTable [256]bool

func init() {
	for c := 0; c < 256; c++ {
		b := byte(c)
		wordTable[c] = b == '_' ||
			(b >= '0' && b <= '9') ||
			(b >= 'A' && b <= 'Z') ||
			(b >= 'a' && b <= 'z')
		hexTable[c] = (b >= '0' && b <= '9') ||
			(b >= 'A' && b <= 'F') ||
			(b >= 'a' && b <= 'f')
	}
}

// Scanner finds word-bounded hex runs of one fixed width.
// The zero value is not usable; construct with New.
type Scanner struct {
	width int
}

// New returns a scanner for runs of exactly width hex characters.
func New(width int) *Scanner {
	return &Scanner{width: width}
}

// Width returns the run width the scanner was built for.
func (s *Scanner) Width() int {
	return s.width
}

// FindAll returns every matching span in line, left to right. Spans never
// overlap: a word run yields at most one match, and runs are disjoint.
func (s *Scanner) FindAll(line []byte) []Span {
	var spans []Span
	i := 0
	for i < len(line) {
		if !wordTable[line[i]] {
			i++
			continue
		}

		// Maximal word run starting at i; track whether it stayed hex.
		start := i
		hex := true
		for i < len(line) && wordTable[line[i]] {
			hex = hex && hexTable[line[i]]
			i++
		}
		if hex && i-start == s.width {
			spans = append(spans, Span{Start: start, End: i})
		}
	}
	return spans
}

// Match reports whether line contains at least one matching run, without
// collecting spans.
func (s *Scanner) Match(line []byte) bool {
	i := 0
	for i < len(line) {
		if !wordTable[line[i]] {
			i++
			continue
		}
		start := i
		hex := true
		for i < len(line) && wordTable[line[i]] {
			hex = hex && hexTable[line[i]]
			i++
		}
		if hex && i-start == s.width {
			return true
		}
	}
	return false
}

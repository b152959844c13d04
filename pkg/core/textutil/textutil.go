// Package textutil provides shared helpers for text applets.
package textutil

// isBlank matches awk's default field separators.
func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

// Fields splits line on runs of blanks the way awk does with the default FS.
// Leading and trailing blanks never produce empty fields.
func Fields(line []byte) [][]byte {
	var fields [][]byte
	i := 0
	for i < len(line) {
		for i < len(line) && isBlank(line[i]) {
			i++
		}
		if i == len(line) {
			break
		}
		start := i
		for i < len(line) && !isBlank(line[i]) {
			i++
		}
		fields = append(fields, line[start:i])
	}
	return fields
}

// Field returns the 1-based field n of line. Field 0 is the whole line.
// The second result is false when the line has fewer than n fields.
func Field(line []byte, n int) ([]byte, bool) {
	if n == 0 {
		return line, true
	}
	if n < 0 {
		return nil, false
	}
	seen := 0
	i := 0
	for i < len(line) {
		for i < len(line) && isBlank(line[i]) {
			i++
		}
		if i == len(line) {
			break
		}
		start := i
		for i < len(line) && !isBlank(line[i]) {
			i++
		}
		seen++
		if seen == n {
			return line[start:i], true
		}
	}
	return nil, false
}

package dataset

// candidateDelimiters is ordered so that ties resolve to the earlier entry.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// DetectDelimiter picks the most frequent candidate delimiter in the first
// few lines of data, ignoring characters inside quoted fields.
func DetectDelimiter(data []byte, sampleSize int) rune {
	if sampleSize <= 0 || sampleSize > len(data) {
		sampleSize = len(data)
	}
	sample := data[:sampleSize]

	counts := make(map[rune]int, len(candidateDelimiters))
	lines := 0
	inQuotes := false
	for i := 0; i < len(sample) && lines < 5; i++ {
		c := sample[i]
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		if c == '\n' {
			lines++
			continue
		}
		for _, delim := range candidateDelimiters {
			if c == byte(delim) {
				counts[delim]++
			}
		}
	}

	best := candidateDelimiters[0]
	maxCount := 0
	for _, delim := range candidateDelimiters {
		if counts[delim] > maxCount {
			maxCount = counts[delim]
			best = delim
		}
	}
	return best
}

package fileParsing

import (
	"strings"
	"unicode/utf8"
)

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// hardChunk cuts s into pieces of at most size runes.
func hardChunk(s string, size int) []string {
	if size <= 0 {
		return []string{s}
	}
	runes := []rune(s)
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// segmentLines accumulates trimmed lines into a buffer and flushes it once it
// is longer than budget or ends with a period. Blank lines are skipped.
// A line longer than budget is broken after each period, and any piece still
// longer than budget is hard-chunked. Those pieces never push the buffer past
// budget.
func segmentLines(lines []string, budget int) []string {
	var segments []string
	var buf strings.Builder

	flush := func() {
		if !isBlank(buf.String()) {
			segments = append(segments, buf.String())
		}
		buf.Reset()
	}
	add := func(text string) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(text)
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if budget > 0 && runeLen(trimmed) > budget {
			flush()
			for _, piece := range splitLongLine(trimmed, budget) {
				if buf.Len() > 0 && runeLen(buf.String())+1+runeLen(piece) > budget {
					flush()
				}
				add(piece)
				if strings.HasSuffix(piece, ".") {
					flush()
				}
			}
			continue
		}
		add(trimmed)

		current := buf.String()
		if runeLen(current) > budget || strings.HasSuffix(current, ".") {
			flush()
		}
	}
	flush()
	return segments
}

// splitLongLine breaks line after every period and hard-chunks the pieces that
// are still longer than budget.
func splitLongLine(line string, budget int) []string {
	var pieces []string
	for _, sentence := range strings.SplitAfter(line, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if runeLen(sentence) > budget {
			pieces = append(pieces, hardChunk(sentence, budget)...)
			continue
		}
		pieces = append(pieces, sentence)
	}
	return pieces
}

// combineSections greedily packs sections while the total stays under budget.
// On overflow the next segment opens with the previous section (one section
// lookback) followed by the overflowing one, or with the overflowing one alone
// when both would not fit.
func combineSections(sections []string, budget int) []string {
	var segments []string
	current := ""

	for i, section := range sections {
		if runeLen(current)+runeLen(section) < budget {
			current += section
			continue
		}
		if !isBlank(current) {
			segments = append(segments, current)
		}
		current = section
		if i > 0 {
			previous := sections[i-1]
			if runeLen(previous)+runeLen(section) < budget {
				current = previous + section
			}
		}
	}
	if !isBlank(current) {
		segments = append(segments, current)
	}
	return segments
}

// splitSentences splits on "." and re-appends the delimiter. A trailing empty
// piece is dropped. Sentences longer than budget/2 are hard-chunked into
// budget sized pieces.
func splitSentences(text string, budget int) []string {
	if text == "" {
		return nil
	}
	pieces := strings.Split(text, ".")
	if pieces[len(pieces)-1] == "" {
		pieces = pieces[:len(pieces)-1]
	}

	sentences := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		sentence := piece + "."
		if runeLen(sentence) > budget/2 {
			sentences = append(sentences, hardChunk(sentence, budget)...)
			continue
		}
		sentences = append(sentences, sentence)
	}
	return sentences
}

// combineSentences packs sentences under budget. After each flush the next
// segment starts with the overlap sentences preceding the flush point, then
// the sentence that overflowed. Leading overlap sentences are dropped until
// the reopened segment fits in budget.
func combineSentences(sentences []string, budget int, overlap int) []string {
	var segments []string
	current := ""

	for i, sentence := range sentences {
		if runeLen(current)+runeLen(sentence) < budget {
			current += sentence
			continue
		}
		if !isBlank(current) {
			segments = append(segments, current)
		}
		current = sentence
		if overlap > 0 {
			carried := sentences[max(0, i-overlap):i]
			for len(carried) > 0 && runeLen(strings.Join(carried, ""))+runeLen(sentence) > budget {
				carried = carried[1:]
			}
			current = strings.Join(carried, "") + sentence
		}
	}
	if !isBlank(current) {
		segments = append(segments, current)
	}
	return segments
}

package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars bounds a chunk when the caller passes no limit.
const DefaultMaxChars = 2048

// sentenceEnd matches a sentence terminator followed by whitespace.
// Kept deliberately simple; abbreviation handling is not worth the
// false-negative rate on the document corpus this serves.
var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// Split cuts document text into ordered, bounded chunks. Paragraph
// boundaries are preferred, then sentence boundaries, then words as a
// last resort. The output order defines chunk_index downstream, so the
// split is deterministic for a given input.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		// Paragraph fits in the current chunk
		if current.Len()+len(para)+2 <= maxChars {
			if current.Len() > 0 {
				current.WriteString("\n\n")
			}
			current.WriteString(para)
			continue
		}

		flush()

		if len(para) <= maxChars {
			current.WriteString(para)
			continue
		}

		// Oversized paragraph: split on sentence boundaries
		for _, sentence := range splitSentences(para) {
			if current.Len()+len(sentence)+1 <= maxChars {
				if current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(sentence)
				continue
			}

			flush()

			if len(sentence) <= maxChars {
				current.WriteString(sentence)
				continue
			}

			// Pathological sentence: fall back to word packing
			for _, word := range strings.Fields(sentence) {
				if len(word) > maxChars {
					flush()
					word = hardSplit(&chunks, word, maxChars)
					current.WriteString(word)
					continue
				}
				if current.Len()+len(word)+1 > maxChars {
					flush()
				}
				if current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(word)
			}
		}
	}

	flush()
	return chunks
}

// hardSplit emits maxChars-sized pieces of an unbreakable word directly
// into chunks, backing cuts off to rune boundaries, and returns the
// remainder that fits within the bound.
func hardSplit(chunks *[]string, word string, maxChars int) string {
	for len(word) > maxChars {
		cut := maxChars
		for cut > 0 && !utf8.RuneStart(word[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxChars
		}
		*chunks = append(*chunks, word[:cut])
		word = word[cut:]
	}
	return word
}

// splitSentences cuts a paragraph into sentences, keeping terminators
// attached to the sentence they end.
func splitSentences(para string) []string {
	marked := sentenceEnd.ReplaceAllString(para, "$1\x00")
	parts := strings.Split(marked, "\x00")

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

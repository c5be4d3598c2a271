package parsing

import "strings"

// Words splits normalized text on the single-space separator and drops stop
// words. The input is expected to be the output of Normalize.
func Words(normalized string) []string {
	if normalized == "" {
		return nil
	}

	fields := strings.Split(normalized, " ")
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" || IsStopWord(f) {
			continue
		}
		words = append(words, f)
	}
	return words
}

// NGrams returns all n-grams with minN <= n <= maxN over words, joined with a
// single space. Unigrams come first, then bigrams, and so on.
func NGrams(words []string, minN, maxN int) []string {
	if minN < 1 {
		minN = 1
	}
	if maxN < minN || len(words) == 0 {
		return nil
	}

	grams := make([]string, 0, len(words)*(maxN-minN+1))
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(words); i++ {
			if n == 1 {
				grams = append(grams, words[i])
				continue
			}
			grams = append(grams, strings.Join(words[i:i+n], " "))
		}
	}
	return grams
}

// Tokenize normalizes raw text and returns its unigram and bigram terms.
func Tokenize(text string) []string {
	return NGrams(Words(Normalize(text)), 1, 2)
}

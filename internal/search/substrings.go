package search

import "strings"

// GenerateSubstrings splits a query into every contiguous run of
// whitespace-delimited words, lowercased. For n words it produces
// n(n+1)/2 substrings, ordered by start index then end index; the
// single words and the full query are both included. An empty or
// blank query yields nil.
func GenerateSubstrings(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	subs := make([]string, 0, len(words)*(len(words)+1)/2)
	for i := 0; i < len(words); i++ {
		for j := i; j < len(words); j++ {
			subs = append(subs, strings.Join(words[i:j+1], " "))
		}
	}
	return subs
}

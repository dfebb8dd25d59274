package retrieval

// SimilarityRatio is the longest-matching-blocks ratio in [0, 1]: twice the
// total length of the matching blocks divided by the combined length of both
// strings. Equivalent to difflib.SequenceMatcher.ratio without the junk
// heuristic, computed over runes.
func SimilarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchedLen(ra, rb, 0, len(ra), 0, len(rb))
	return 2.0 * float64(matched) / float64(total)
}

// matchedLen sums matching-block lengths: find the longest common block,
// then recurse on the pieces to its left and right.
func matchedLen(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, k := longestMatch(a, b, alo, ahi, blo, bhi)
	if k == 0 {
		return 0
	}
	return k +
		matchedLen(a, b, alo, i, blo, j) +
		matchedLen(a, b, i+k, ahi, j+k, bhi)
}

// longestMatch finds the longest block with a[i:i+k] == b[j:j+k] inside the
// given windows, preferring the earliest position in a, then in b, which
// keeps results deterministic.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestk int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestk
}

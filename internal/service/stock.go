package service

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/storyreel/internal/domain"
)

// RankStock moves hits whose alt text fuzzy-matches the query to the
// front, closest first. The remaining hits keep the backend's order.
func RankStock(query string, results []domain.StockResult) []domain.StockResult {
	if query == "" || len(results) < 2 {
		return results
	}

	alts := make([]string, len(results))
	for i, r := range results {
		alts[i] = r.Alt
	}

	ranks := fuzzy.RankFindFold(query, alts)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	ranked := make([]domain.StockResult, 0, len(results))
	seen := make([]bool, len(results))
	for _, r := range ranks {
		ranked = append(ranked, results[r.OriginalIndex])
		seen[r.OriginalIndex] = true
	}
	for i, r := range results {
		if !seen[i] {
			ranked = append(ranked, r)
		}
	}
	return ranked
}

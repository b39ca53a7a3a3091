package browser

import (
	"strings"

	"github.com/atomicstack/collectionview/internal/tmux"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// filterWindows keeps the windows whose label fuzzy-matches query, in their
// original order. When nothing matches fuzzily, a plain substring match on
// the label or target is tried.
func filterWindows(windows []tmux.Window, query string) []tmux.Window {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return append([]tmux.Window(nil), windows...)
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, searchText(windows))
	if len(ranks) > 0 {
		matched := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			matched[rank.OriginalIndex] = struct{}{}
		}
		filtered := make([]tmux.Window, 0, len(matched))
		for i, w := range windows {
			if _, ok := matched[i]; ok {
				filtered = append(filtered, w)
			}
		}
		return filtered
	}
	lower := strings.ToLower(trimmed)
	var filtered []tmux.Window
	for _, w := range windows {
		if strings.Contains(strings.ToLower(w.Label), lower) || strings.Contains(strings.ToLower(w.ID), lower) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// bestMatch returns the index of the window that best answers query:
// exact matches first, then prefixes, then the closest fuzzy match.
func bestMatch(windows []tmux.Window, query string) int {
	trimmed := strings.TrimSpace(query)
	if len(windows) == 0 {
		return -1
	}
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, w := range windows {
		if strings.EqualFold(w.Name, trimmed) || strings.EqualFold(w.ID, trimmed) {
			return i
		}
	}
	for i, w := range windows {
		if strings.HasPrefix(strings.ToLower(w.Name), lower) {
			return i
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, searchText(windows))
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance ||
			(rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	return best.OriginalIndex
}

func searchText(windows []tmux.Window) []string {
	out := make([]string, len(windows))
	for i, w := range windows {
		out[i] = w.Label + " " + w.Name
	}
	return out
}

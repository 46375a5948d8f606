package services

import "strings"

// MaxTaskContentRunes caps the task text sent upstream.
const MaxTaskContentRunes = 1024

// taskTriggers are leading add-verbs that introduce the task text.
// Longer phrases come first so "добавь задачу" wins over "добавь".
var taskTriggers = [][]string{
	{"добавь", "задачу"},
	{"добавить", "задачу"},
	{"создай", "задачу"},
	{"создать", "задачу"},
	{"новая", "задача"},
	{"добавь"},
	{"добавить"},
}

// ExtractTaskContent returns the task text of an utterance with any
// leading add-verb removed, truncated to MaxTaskContentRunes.
// A bare trigger yields "".
func ExtractTaskContent(utterance string) string {
	words := strings.Fields(utterance)
	if len(words) == 0 {
		return ""
	}

	for _, trigger := range taskTriggers {
		if hasPrefixFold(words, trigger) {
			words = words[len(trigger):]
			break
		}
	}

	return truncateRunes(strings.Join(words, " "), MaxTaskContentRunes)
}

func hasPrefixFold(words, prefix []string) bool {
	if len(words) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if !strings.EqualFold(words[i], p) {
			return false
		}
	}
	return true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

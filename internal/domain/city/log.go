package city

import "time"

// AppendLog records entry newest-first and drops the oldest beyond MaxLogEntries.
func (s *WorldState) AppendLog(entry LogEntry) {
	history := make([]LogEntry, 0, min(len(s.MessageHistory)+1, MaxLogEntries))
	history = append(history, entry)
	for _, e := range s.MessageHistory {
		if len(history) == MaxLogEntries {
			break
		}
		history = append(history, e)
	}
	s.MessageHistory = history
}

// FilterLog returns up to limit entries of the given category, newest first.
// An empty category matches everything; limit <= 0 means no limit.
func (s WorldState) FilterLog(category LogCategory, limit int) []LogEntry {
	out := make([]LogEntry, 0)
	for _, e := range s.MessageHistory {
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func newLogEntry(day int, now time.Time, text string, category LogCategory) LogEntry {
	if category == "" {
		category = LogGeneric
	}
	return LogEntry{Timestamp: now, Day: day, Text: text, Category: category}
}

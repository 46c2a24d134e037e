package timeline

import (
	"strings"

	"github.com/framboises/cockpit/app/models"
)

// Checklist fields reach us in several historical shapes: a newline or
// comma delimited string, a list of strings with markdown checkbox
// prefixes, a legacy leading checkmark glyph, or a list of {text, done}
// objects. ParseTodo normalizes all of them.

// ParseTodo converts a raw todo field into its canonical ordered form.
// nil or empty input yields an empty list; a malformed entry becomes an
// unchecked task holding the raw text, never an error.
func ParseTodo(raw interface{}) []models.TodoItem {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return parseTodoString(v)
	case []models.TodoItem:
		out := make([]models.TodoItem, len(v))
		copy(out, v)
		return out
	case []string:
		var out []models.TodoItem
		for _, line := range v {
			if item, ok := parseTodoLine(line); ok {
				out = append(out, item)
			}
		}
		return out
	case []interface{}:
		var out []models.TodoItem
		for _, entry := range v {
			switch e := entry.(type) {
			case string:
				if item, ok := parseTodoLine(e); ok {
					out = append(out, item)
				}
			case map[string]interface{}:
				if item, ok := todoItemFromMap(e); ok {
					out = append(out, item)
				}
			}
		}
		return out
	case map[string]interface{}:
		if item, ok := todoItemFromMap(v); ok {
			return []models.TodoItem{item}
		}
		return nil
	default:
		return nil
	}
}

func parseTodoString(raw string) []models.TodoItem {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var lines []string
	switch {
	case strings.ContainsAny(raw, "\n"):
		lines = strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	case strings.Contains(raw, "- [") || strings.Contains(raw, "✓"):
		// A checkbox marker means the string is already line-structured;
		// a comma there is part of the task text, not a separator.
		lines = []string{raw}
	default:
		lines = strings.Split(raw, ",")
	}
	var out []models.TodoItem
	for _, line := range lines {
		if item, ok := parseTodoLine(line); ok {
			out = append(out, item)
		}
	}
	return out
}

// parseTodoLine interprets one checklist line. Recognized prefixes are
// "- [x] ", "- [ ] " and a legacy leading checkmark; anything else is an
// unchecked task with the whole line as text.
func parseTodoLine(line string) (models.TodoItem, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return models.TodoItem{}, false
	}
	lower := strings.ToLower(line)
	switch {
	case strings.HasPrefix(lower, "- [x]"):
		return models.TodoItem{Text: strings.TrimSpace(line[len("- [x]"):]), Done: true}, true
	case strings.HasPrefix(line, "- [ ]"):
		return models.TodoItem{Text: strings.TrimSpace(line[len("- [ ]"):]), Done: false}, true
	case strings.HasPrefix(line, "✓"):
		return models.TodoItem{Text: strings.TrimSpace(strings.TrimPrefix(line, "✓")), Done: true}, true
	default:
		return models.TodoItem{Text: line, Done: false}, true
	}
}

func todoItemFromMap(m map[string]interface{}) (models.TodoItem, bool) {
	text, _ := m["text"].(string)
	if strings.TrimSpace(text) == "" {
		return models.TodoItem{}, false
	}
	done, _ := m["done"].(bool)
	return models.TodoItem{Text: strings.TrimSpace(text), Done: done}, true
}

// SerializeTodo renders a checklist back to its persisted markdown form,
// one "- [x] task" / "- [ ] task" line per entry.
func SerializeTodo(items []models.TodoItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item.Done {
			lines = append(lines, "- [x] "+item.Text)
		} else {
			lines = append(lines, "- [ ] "+item.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// TodoCompletionStatus maps checklist completion to a base status: all
// tasks done is ready, none done is none, anything between is progress.
// The second return is false when the list is empty and carries no signal.
func TodoCompletionStatus(items []models.TodoItem) (Status, bool) {
	if len(items) == 0 {
		return StatusNone, false
	}
	done := 0
	for _, item := range items {
		if item.Done {
			done++
		}
	}
	switch done {
	case 0:
		return StatusNone, true
	case len(items):
		return StatusReady, true
	default:
		return StatusProgress, true
	}
}

// Package schema converts raw catalog documents of any historical
// generation into the current canonical shape.
//
// There is no version field in the on-disk format; every converter is
// guarded by a runtime shape check (string vs structured list) so that a
// document mixing generations across records still loads without data loss.
// Normalization is idempotent: a canonical document passes through unchanged.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/starford/kamado/internal/models"
)

// Legacy key sets. Early generations stored item columns under the
// free-form Japanese labels the form editor used; detection stays
// shape-based, the keys only decide which cell becomes which field.
var (
	recordsKeys   = []string{"records", "recipes"}
	categoryKeys  = []string{"category", "folder"}
	itemNameKeys  = []string{"name", "食材", "調味料"}
	quantityKeys  = []string{"quantity", "分量"}
	stepTextKeys  = []string{"text", "手順"}
	timestampKeys = []string{"timestamp", "date"}
	createdKeys   = []string{"created_at", "登録日"}
)

// Decode parses data as a catalog document of any historical generation and
// returns the canonical form. A JSON parse failure is returned to the caller,
// which substitutes a fresh default document; normalization itself never fails.
func Decode(data []byte) (*models.Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("schema: decode document: %w", err)
	}
	return Normalize(raw), nil
}

// Normalize rewrites a raw decoded document into the canonical shape.
// User data is never discarded: unknown folders are kept, legacy field
// shapes are converted, and missing built-in folders are appended.
func Normalize(raw map[string]any) *models.Document {
	doc := &models.Document{
		Folders: foldersUnion(rawList(raw["folders"])),
		Records: []*models.Record{},
	}
	for _, key := range recordsKeys {
		list, ok := raw[key].([]any)
		if !ok {
			continue
		}
		for _, entry := range list {
			if m, ok := entry.(map[string]any); ok {
				doc.Records = append(doc.Records, normalizeRecord(m))
			}
		}
		break
	}
	return doc
}

func normalizeRecord(raw map[string]any) *models.Record {
	r := &models.Record{
		ID:         firstString(raw, "id"),
		Title:      firstString(raw, "title"),
		Category:   firstString(raw, categoryKeys...),
		Components: itemList(raw["components"], raw["ingredients"]),
		Attributes: itemList(raw["attributes"], raw["seasonings"]),
		Steps:      stepList(raw["steps"]),
		Rating:     rating(raw["rating"]),
		CreatedAt:  firstString(raw, createdKeys...),
		Logs:       logList(raw["logs"]),
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return r
}

// itemList converts an ingredient/seasoning field to the canonical list of
// name+quantity pairs. The first non-nil candidate value wins (the field was
// renamed between generations). A plain string value is the oldest shape:
// one item per non-empty trimmed line, with no quantity.
func itemList(candidates ...any) []models.Item {
	v := firstNonNil(candidates)
	out := []models.Item{}
	switch val := v.(type) {
	case string:
		for _, line := range splitLines(val) {
			out = append(out, models.Item{Name: line})
		}
	case []any:
		for _, entry := range val {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			name := firstString(m, itemNameKeys...)
			if name == "" {
				continue
			}
			out = append(out, models.Item{
				Name:     name,
				Quantity: firstString(m, quantityKeys...),
			})
		}
	}
	return out
}

// stepList converts the steps field. Oldest shape: one newline-delimited
// string. Middle shape: list of strings. Canonical: list of {text} objects.
func stepList(v any) []models.Step {
	out := []models.Step{}
	switch val := v.(type) {
	case string:
		for _, line := range splitLines(val) {
			out = append(out, models.Step{Text: line})
		}
	case []any:
		for _, entry := range val {
			switch e := entry.(type) {
			case string:
				if t := strings.TrimSpace(e); t != "" {
					out = append(out, models.Step{Text: t})
				}
			case map[string]any:
				if t := firstString(e, stepTextKeys...); t != "" {
					out = append(out, models.Step{Text: t})
				}
			}
		}
	}
	return out
}

func logList(v any) []models.LogEntry {
	out := []models.LogEntry{}
	list, ok := v.([]any)
	if !ok {
		return out
	}
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		text := firstString(m, "text")
		if text == "" {
			continue
		}
		out = append(out, models.LogEntry{
			Timestamp: firstString(m, timestampKeys...),
			Text:      text,
		})
	}
	return out
}

// rating coerces any scalar shape (absent, float64 from JSON, numeric
// string) to an int and clamps it to the valid 0..5 range.
func rating(v any) int {
	n := cast.ToInt(v)
	if n < 0 {
		return 0
	}
	if n > 5 {
		return 5
	}
	return n
}

// foldersUnion keeps the stored folder order (dropping empties and
// duplicates) and appends built-ins that are missing, in canonical order.
func foldersUnion(stored []string) []string {
	seen := make(map[string]struct{}, len(stored)+len(models.DefaultFolders))
	out := make([]string, 0, len(stored)+len(models.DefaultFolders))
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, f := range stored {
		add(f)
	}
	for _, f := range models.DefaultFolders {
		add(f)
	}
	return out
}

// splitLines splits a newline-delimited legacy field into trimmed,
// non-empty lines.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func rawList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if s := cast.ToString(entry); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// firstString returns the first present, non-empty value among keys,
// coerced to a trimmed string.
func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s := strings.TrimSpace(cast.ToString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstNonNil(values []any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// Package query provides read-only filtering and sorting over catalog
// records for the presentation layer. It never mutates records.
package query

import (
	"sort"
	"strings"

	"github.com/starford/kamado/internal/models"
)

// FolderAll is the sentinel folder filter that matches every record.
const FolderAll = "all"

// Sort orders. The zero value keeps storage order (oldest first).
const (
	SortCreatedAsc  = "created_asc"
	SortCreatedDesc = "created_desc"
	SortRatingAsc   = "rating_asc"
	SortRatingDesc  = "rating_desc"
)

// Filter selects records by category and free text.
type Filter struct {
	// Folder is an exact category match. Empty or FolderAll passes all.
	Folder string
	// Text is a case-insensitive substring match against the title or
	// the space-joined component names. Steps are deliberately excluded.
	Text string
}

// Run returns a new ordered slice of record references matching f.
// The input slice and the records themselves are left untouched.
func Run(records []*models.Record, f Filter, order string) []*models.Record {
	out := make([]*models.Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	Sort(out, order)
	return out
}

// Matches reports whether r passes both the folder and text filters.
func (f Filter) Matches(r *models.Record) bool {
	if f.Folder != "" && f.Folder != FolderAll && r.Category != f.Folder {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Text))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	return strings.Contains(strings.ToLower(componentText(r)), q)
}

func componentText(r *models.Record) string {
	names := make([]string, 0, len(r.Components))
	for _, c := range r.Components {
		names = append(names, c.Name)
	}
	return strings.Join(names, " ")
}

// Sort orders records in place. Rating sorts are stable: records with
// equal ratings keep their relative storage order.
func Sort(records []*models.Record, order string) {
	switch order {
	case SortCreatedDesc:
		for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
			records[i], records[j] = records[j], records[i]
		}
	case SortRatingAsc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Rating < records[j].Rating
		})
	case SortRatingDesc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Rating > records[j].Rating
		})
	}
}

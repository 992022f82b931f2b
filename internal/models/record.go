// Package models defines the domain types for Kamado.
package models

// DefaultFolders is the built-in category list. New catalogs start with it,
// and loaded catalogs are unioned against it: built-ins missing from the
// stored folder list are appended at the end in this order.
var DefaultFolders = []string{"未分類", "和食", "洋食", "中華", "その他"}

// Document is the root aggregate: every folder and record in the catalog.
// It exclusively owns both collections; records are kept in creation order.
type Document struct {
	Folders []string  `json:"folders"`
	Records []*Record `json:"records"`
}

// Record is one cataloged dish.
type Record struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	Components []Item     `json:"components"` // ingredients
	Attributes []Item     `json:"attributes"` // seasonings
	Steps      []Step     `json:"steps"`
	Rating     int        `json:"rating"` // 0 = unrated, otherwise 1..5
	CreatedAt  string     `json:"created_at,omitempty"`
	Logs       []LogEntry `json:"logs"`
}

// Item is a name+quantity pair (an ingredient or a seasoning).
type Item struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Step is a single instruction. Order is significant.
type Step struct {
	Text string `json:"text"`
}

// LogEntry is a timestamped free-text cooking note. Entries are immutable
// once created and are kept newest first on their owning record.
type LogEntry struct {
	Timestamp string `json:"timestamp"` // formatted with LogTimeLayout
	Text      string `json:"text"`
}

// LogTimeLayout is the timestamp format used for log entries.
const LogTimeLayout = "2006-01-02 15:04"

// NewDocument returns an empty catalog seeded with the built-in folders.
func NewDocument() *Document {
	return &Document{
		Folders: append([]string(nil), DefaultFolders...),
		Records: []*Record{},
	}
}

// FindRecord returns the record with the given id, or nil if absent.
// Lookups are linear scans; the catalog is small by design.
func (d *Document) FindRecord(id string) *Record {
	for _, r := range d.Records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// HasFolder reports whether name is already in the folder list
// (case-sensitive exact match).
func (d *Document) HasFolder(name string) bool {
	for _, f := range d.Folders {
		if f == name {
			return true
		}
	}
	return false
}

package api

import (
	"github.com/starford/kamado/internal/catalog"
	"github.com/starford/kamado/internal/models"
)

// RecordPayload is the request body for creating or updating a record.
// Steps are plain strings on the wire; the store owns the structured form.
type RecordPayload struct {
	Title      string        `json:"title" example:"肉じゃが" validate:"required"`
	Category   string        `json:"category" example:"和食"`
	Components []ItemPayload `json:"components"`
	Attributes []ItemPayload `json:"attributes"`
	Steps      []string      `json:"steps" example:"切る,煮る" validate:"required"`
	Rating     int           `json:"rating" example:"3"`
}

// ItemPayload is one name+quantity row (an ingredient or a seasoning).
type ItemPayload struct {
	Name     string `json:"name" example:"豚肉" validate:"required"`
	Quantity string `json:"quantity" example:"200g"`
}

// LogPayload is the request body for appending a cooking log entry.
type LogPayload struct {
	Text string `json:"text" example:"次は塩を少し減らす" validate:"required"`
}

// FolderPayload is the request body for adding a category folder.
type FolderPayload struct {
	Name string `json:"name" example:"発酵もの" validate:"required"`
}

// RatingPayload is the request body for a rating point update.
type RatingPayload struct {
	Rating int `json:"rating" example:"4" validate:"required"`
}

// RecordListResponse wraps a filtered, sorted record listing.
type RecordListResponse struct {
	Records []*models.Record `json:"records" validate:"required"`
	Total   int              `json:"total" example:"12" validate:"required"`
}

// FolderListResponse wraps the folder listing.
type FolderListResponse struct {
	Folders []string `json:"folders" validate:"required"`
}

// SyncStatusResponse reports the outcome of the most recent mirror push.
type SyncStatusResponse struct {
	Synced bool   `json:"synced" example:"true" validate:"required"`
	Error  string `json:"error,omitempty" example:"mirror: upload: status 401"`
}

// input converts the wire payload to the store's input form.
func (p *RecordPayload) input() catalog.RecordInput {
	in := catalog.RecordInput{
		Title:    p.Title,
		Category: p.Category,
		Rating:   p.Rating,
	}
	for _, it := range p.Components {
		in.Components = append(in.Components, models.Item{Name: it.Name, Quantity: it.Quantity})
	}
	for _, it := range p.Attributes {
		in.Attributes = append(in.Attributes, models.Item{Name: it.Name, Quantity: it.Quantity})
	}
	for _, s := range p.Steps {
		in.Steps = append(in.Steps, models.Step{Text: s})
	}
	return in
}

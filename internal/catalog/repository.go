package catalog

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/kamado/internal/apperr"
	"github.com/starford/kamado/internal/models"
)

// RecordInput carries the caller-editable fields of a record for create
// and update operations. ID, creation date, and logs are never part of
// the input: the store owns them.
type RecordInput struct {
	Title      string
	Category   string
	Components []models.Item
	Attributes []models.Item
	Steps      []models.Step
	Rating     int
}

// sanitize drops component/attribute rows without a name and steps
// without text. The web form sends placeholder empty rows; they are
// filtered both there and here.
func (in *RecordInput) sanitize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Components = cleanItems(in.Components)
	in.Attributes = cleanItems(in.Attributes)
	in.Steps = cleanSteps(in.Steps)
}

// Validate checks the input after sanitization: a title and at least one
// step are required, and the rating must stay in 0..5.
func (in *RecordInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Steps, validation.Required),
		validation.Field(&in.Rating, validation.Min(0), validation.Max(5)),
	)
}

func cleanItems(items []models.Item) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		out = append(out, models.Item{Name: name, Quantity: strings.TrimSpace(it.Quantity)})
	}
	return out
}

func cleanSteps(steps []models.Step) []models.Step {
	out := make([]models.Step, 0, len(steps))
	for _, st := range steps {
		if text := strings.TrimSpace(st.Text); text != "" {
			out = append(out, models.Step{Text: text})
		}
	}
	return out
}

// ListFolders returns a copy of the folder list in stored order.
func (s *Store) ListFolders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.doc.Folders...)
}

// AddFolder appends a new category folder and persists. It returns false
// without writing when the name is empty or already present.
func (s *Store) AddFolder(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	if name == "" || s.doc.HasFolder(name) {
		s.mu.Unlock()
		return false, nil
	}
	s.doc.Folders = append(s.doc.Folders, name)
	if err := s.save(ctx); err != nil {
		s.doc.Folders = s.doc.Folders[:len(s.doc.Folders)-1]
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.emit("folder.created", "")
	return true, nil
}

// Records returns the records in storage (creation) order. The slice is
// a copy; the records themselves are shared references.
func (s *Store) Records() []*models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Record(nil), s.doc.Records...)
}

// GetRecord returns the record with the given id.
func (s *Store) GetRecord(id string) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.doc.FindRecord(id); r != nil {
		return r, nil
	}
	return nil, apperr.ErrNotFound
}

// CreateRecord validates the input, assigns a fresh id and empty log
// list, appends the record, and persists.
func (s *Store) CreateRecord(ctx context.Context, in RecordInput) (*models.Record, error) {
	in.sanitize()
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	rec := &models.Record{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Category:   in.Category,
		Components: in.Components,
		Attributes: in.Attributes,
		Steps:      in.Steps,
		Rating:     in.Rating,
		CreatedAt:  s.now().Format("2006-01-02"),
		Logs:       []models.LogEntry{},
	}

	s.mu.Lock()
	s.doc.Records = append(s.doc.Records, rec)
	if err := s.save(ctx); err != nil {
		s.doc.Records = s.doc.Records[:len(s.doc.Records)-1]
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.emit("record.created", rec.ID)
	return rec, nil
}

// UpdateRecord replaces every caller-editable field of the record with
// the given id. The id, creation date, and existing logs are carried
// over unchanged. Returns false when no record matches.
func (s *Store) UpdateRecord(ctx context.Context, id string, in RecordInput) (bool, error) {
	in.sanitize()
	if err := in.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	s.mu.Lock()
	rec := s.doc.FindRecord(id)
	if rec == nil {
		s.mu.Unlock()
		return false, nil
	}
	prev := *rec
	rec.Title = in.Title
	rec.Category = in.Category
	rec.Components = in.Components
	rec.Attributes = in.Attributes
	rec.Steps = in.Steps
	rec.Rating = in.Rating
	if err := s.save(ctx); err != nil {
		*rec = prev
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.emit("record.updated", id)
	return true, nil
}

// UpdateRating is a point update of a single record's rating.
// Returns false when no record matches.
func (s *Store) UpdateRating(ctx context.Context, id string, rating int) (bool, error) {
	if rating < 0 || rating > 5 {
		return false, fmt.Errorf("%w: rating must be between 0 and 5", apperr.ErrValidation)
	}

	s.mu.Lock()
	rec := s.doc.FindRecord(id)
	if rec == nil {
		s.mu.Unlock()
		return false, nil
	}
	prev := rec.Rating
	rec.Rating = rating
	if err := s.save(ctx); err != nil {
		rec.Rating = prev
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.emit("record.updated", id)
	return true, nil
}

// AppendLog prepends a timestamped note to the record's log, newest
// first. Returns false when no record matches.
func (s *Store) AppendLog(ctx context.Context, id, text string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, fmt.Errorf("%w: log text is required", apperr.ErrValidation)
	}

	s.mu.Lock()
	rec := s.doc.FindRecord(id)
	if rec == nil {
		s.mu.Unlock()
		return false, nil
	}
	entry := models.LogEntry{
		Timestamp: s.now().Format(models.LogTimeLayout),
		Text:      text,
	}
	rec.Logs = append([]models.LogEntry{entry}, rec.Logs...)
	if err := s.save(ctx); err != nil {
		rec.Logs = rec.Logs[1:]
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.emit("record.updated", id)
	return true, nil
}

// DeleteRecord removes the record with the given id and persists.
// Deleting an id that is already gone is a tolerated no-op.
func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, r := range s.doc.Records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	removed := s.doc.Records[idx]
	s.doc.Records = append(s.doc.Records[:idx], s.doc.Records[idx+1:]...)
	if err := s.save(ctx); err != nil {
		s.doc.Records = append(s.doc.Records[:idx], append([]*models.Record{removed}, s.doc.Records[idx:]...)...)
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.emit("record.deleted", id)
	return nil
}

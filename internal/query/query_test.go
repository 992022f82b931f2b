package query

import (
	"testing"

	"github.com/starford/kamado/internal/models"
)

func testRecords() []*models.Record {
	return []*models.Record{
		{
			ID: "a", Title: "肉じゃが", Category: "和食", Rating: 3,
			Components: []models.Item{{Name: "豚肉", Quantity: "200g"}},
			Steps:      []models.Step{{Text: "煮る"}},
		},
		{
			ID: "b", Title: "Carbonara", Category: "洋食", Rating: 5,
			Components: []models.Item{{Name: "Pork Belly"}, {Name: "Egg"}},
			Steps:      []models.Step{{Text: "boil pasta"}},
		},
		{
			ID: "c", Title: "チャーハン", Category: "中華", Rating: 3,
			Components: []models.Item{{Name: "ごはん"}},
			Steps:      []models.Step{{Text: "豚肉を炒める"}},
		},
	}
}

func ids(records []*models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilter_FolderExactMatch(t *testing.T) {
	got := Run(testRecords(), Filter{Folder: "和食"}, "")
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("got %v", ids(got))
	}
}

func TestFilter_FolderAllSentinel(t *testing.T) {
	for _, folder := range []string{"", FolderAll} {
		got := Run(testRecords(), Filter{Folder: folder}, "")
		if len(got) != 3 {
			t.Errorf("folder %q: got %v, want all", folder, ids(got))
		}
	}
}

func TestFilter_TextMatchesComponentName(t *testing.T) {
	got := Run(testRecords(), Filter{Text: "豚肉"}, "")
	// "a" matches via component name. "c" contains 豚肉 only in a step,
	// and steps are excluded from free-text search.
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("got %v, want [a]", ids(got))
	}
}

func TestFilter_TextCaseInsensitive(t *testing.T) {
	for _, q := range []string{"pork", "PORK", "carbo"} {
		got := Run(testRecords(), Filter{Text: q}, "")
		if len(got) != 1 || got[0].ID != "b" {
			t.Errorf("query %q: got %v, want [b]", q, ids(got))
		}
	}
}

func TestFilter_TitleMatch(t *testing.T) {
	got := Run(testRecords(), Filter{Text: "チャーハン"}, "")
	if len(got) != 1 || got[0].ID != "c" {
		t.Errorf("got %v, want [c]", ids(got))
	}
}

func TestFilter_CombinedFolderAndText(t *testing.T) {
	got := Run(testRecords(), Filter{Folder: "洋食", Text: "egg"}, "")
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("got %v, want [b]", ids(got))
	}
	got = Run(testRecords(), Filter{Folder: "和食", Text: "egg"}, "")
	if len(got) != 0 {
		t.Errorf("got %v, want none", ids(got))
	}
}

func TestSort_CreatedDesc(t *testing.T) {
	got := Run(testRecords(), Filter{}, SortCreatedDesc)
	want := []string{"c", "b", "a"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("got %v, want %v", ids(got), want)
		}
	}
}

func TestSort_RatingStable(t *testing.T) {
	// "a" and "c" share rating 3; they must keep storage order.
	got := Run(testRecords(), Filter{}, SortRatingDesc)
	want := []string{"b", "a", "c"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("desc: got %v, want %v", ids(got), want)
		}
	}
	got = Run(testRecords(), Filter{}, SortRatingAsc)
	want = []string{"a", "c", "b"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("asc: got %v, want %v", ids(got), want)
		}
	}
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	records := testRecords()
	_ = Run(records, Filter{}, SortCreatedDesc)
	if records[0].ID != "a" || records[2].ID != "c" {
		t.Error("input slice order must be preserved")
	}
}

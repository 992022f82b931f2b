package schema

import (
	"encoding/json"
	"testing"
)

func TestDecode_LegacyNewlineSteps(t *testing.T) {
	data := []byte(`{"folders":[],"records":[{"id":"r1","title":"肉じゃが","steps":"a\n\nb\n"}]}`)
	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(doc.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(doc.Records))
	}
	steps := doc.Records[0].Steps
	if len(steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(steps))
	}
	if steps[0].Text != "a" || steps[1].Text != "b" {
		t.Errorf("steps = %+v, want [a b]", steps)
	}
}

func TestDecode_LegacyStringIngredients(t *testing.T) {
	data := []byte(`{"records":[{"id":"r1","title":"t","ingredients":"豚肉 200g\nたまねぎ\n","seasonings":"醤油"}]}`)
	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r := doc.Records[0]
	if len(r.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(r.Components))
	}
	if r.Components[0].Name != "豚肉 200g" || r.Components[0].Quantity != "" {
		t.Errorf("components[0] = %+v", r.Components[0])
	}
	if len(r.Attributes) != 1 || r.Attributes[0].Name != "醤油" {
		t.Errorf("attributes = %+v", r.Attributes)
	}
}

func TestDecode_LegacyJapaneseItemKeys(t *testing.T) {
	data := []byte(`{"recipes":[{"id":"r1","title":"カレー","folder":"和食",` +
		`"ingredients":[{"食材":"豚肉","分量":"200g"},{"食材":"","分量":"x"}],` +
		`"seasonings":[{"調味料":"塩","分量":"少々"}],` +
		`"steps":[{"手順":"切る"},{"手順":"煮る"}],` +
		`"logs":[{"date":"2024-01-02 10:00","text":"甘すぎた"}]}]}`)
	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r := doc.Records[0]
	if r.Category != "和食" {
		t.Errorf("category = %q", r.Category)
	}
	if len(r.Components) != 1 || r.Components[0].Name != "豚肉" || r.Components[0].Quantity != "200g" {
		t.Errorf("components = %+v", r.Components)
	}
	if len(r.Attributes) != 1 || r.Attributes[0].Name != "塩" {
		t.Errorf("attributes = %+v", r.Attributes)
	}
	if len(r.Steps) != 2 || r.Steps[1].Text != "煮る" {
		t.Errorf("steps = %+v", r.Steps)
	}
	if len(r.Logs) != 1 || r.Logs[0].Timestamp != "2024-01-02 10:00" || r.Logs[0].Text != "甘すぎた" {
		t.Errorf("logs = %+v", r.Logs)
	}
}

func TestDecode_MixedGenerations(t *testing.T) {
	data := []byte(`{"records":[` +
		`{"id":"old","title":"old","steps":"line1\nline2"},` +
		`{"id":"new","title":"new","steps":[{"text":"only"}],"rating":4}]}`)
	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(doc.Records[0].Steps) != 2 {
		t.Errorf("old steps = %+v", doc.Records[0].Steps)
	}
	if doc.Records[0].Rating != 0 {
		t.Errorf("missing rating = %d, want 0", doc.Records[0].Rating)
	}
	if len(doc.Records[1].Steps) != 1 || doc.Records[1].Rating != 4 {
		t.Errorf("new record = %+v", doc.Records[1])
	}
}

func TestDecode_FolderUnion(t *testing.T) {
	data := []byte(`{"folders":["未分類","和食","自作"],"records":[]}`)
	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []string{"未分類", "和食", "自作", "洋食", "中華", "その他"}
	if len(doc.Folders) != len(want) {
		t.Fatalf("folders = %v, want %v", doc.Folders, want)
	}
	for i, f := range want {
		if doc.Folders[i] != f {
			t.Errorf("folders[%d] = %q, want %q", i, doc.Folders[i], f)
		}
	}
}

func TestDecode_AssignsMissingID(t *testing.T) {
	doc, err := Decode([]byte(`{"records":[{"title":"no id"}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Records[0].ID == "" {
		t.Error("expected generated id for legacy record")
	}
}

func TestDecode_RatingClamped(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`{"records":[{"id":"a","title":"t"}]}`, 0},
		{`{"records":[{"id":"a","title":"t","rating":3}]}`, 3},
		{`{"records":[{"id":"a","title":"t","rating":"2"}]}`, 2},
		{`{"records":[{"id":"a","title":"t","rating":9}]}`, 5},
		{`{"records":[{"id":"a","title":"t","rating":-1}]}`, 0},
	}
	for _, tc := range cases {
		doc, err := Decode([]byte(tc.raw))
		if err != nil {
			t.Fatalf("Decode(%s): %v", tc.raw, err)
		}
		if got := doc.Records[0].Rating; got != tc.want {
			t.Errorf("rating for %s = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestDecode_Idempotent(t *testing.T) {
	legacy := []byte(`{"folders":["和食"],"recipes":[{"id":"r1","title":"t","folder":"和食",` +
		`"ingredients":"豚肉\n","seasonings":"塩","steps":"a\nb","logs":[]}]}`)

	first, err := Decode(legacy)
	if err != nil {
		t.Fatalf("first Decode: %v", err)
	}
	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := Decode(encoded)
	if err != nil {
		t.Fatalf("second Decode: %v", err)
	}
	reencoded, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}
	if string(encoded) != string(reencoded) {
		t.Errorf("normalization not idempotent:\nfirst:  %s\nsecond: %s", encoded, reencoded)
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

package catalog

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatch_ReloadsOnExternalChange(t *testing.T) {
	st, path := tempStore(t, nil)
	if _, err := st.CreateRecord(context.Background(), sampleInput()); err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = Watch(ctx, st, testLogger()) }()

	// Give the watcher time to register before rewriting.
	time.Sleep(100 * time.Millisecond)

	external := []byte(`{"folders":["未分類"],"records":[]}`)
	if err := os.WriteFile(path, external, 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if len(st.Records()) == 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("watcher did not reload the external change")
}

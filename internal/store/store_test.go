package store

import (
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveGetDataset(t *testing.T) {
	s := openTestStore(t)

	data := []byte(`{"core_company": "Acme"}`)
	if err := s.SaveDataset("acme", data); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	got, err := s.GetDataset("acme")
	if err != nil {
		t.Fatalf("GetDataset failed: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetDataset = %q, want %q", got, data)
	}
}

func TestSaveDatasetOverwrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveDataset("acme", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveDataset("acme", []byte("v2")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, err := s.GetDataset("acme")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v2" {
		t.Errorf("GetDataset = %q, want v2", got)
	}

	list, err := s.ListDatasets()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("ListDatasets returned %d entries, want 1", len(list))
	}
}

func TestSaveDatasetEmptyNameRejected(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveDataset("", []byte("x")); err == nil {
		t.Errorf("SaveDataset accepted empty name")
	}
}

func TestGetDatasetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetDataset("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDataset error = %v, want ErrNotFound", err)
	}
}

func TestDeleteDataset(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveDataset("acme", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteDataset("acme"); err != nil {
		t.Fatalf("DeleteDataset failed: %v", err)
	}
	if err := s.DeleteDataset("acme"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestRenderHistory(t *testing.T) {
	s := openTestStore(t)

	recs := []RenderRecord{
		{Dataset: "acme", Format: "mermaid", Entities: 5, Edges: 4, Issues: 0, Converged: true},
		{Dataset: "acme", Format: "visjs", Entities: 5, Edges: 4, Issues: 1, Converged: false},
	}
	for _, rec := range recs {
		if err := s.RecordRender(rec); err != nil {
			t.Fatalf("RecordRender failed: %v", err)
		}
	}

	history, err := s.History(10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("History returned %d records, want 2", len(history))
	}
	// newest first
	if history[0].Format != "visjs" {
		t.Errorf("History[0].Format = %q, want visjs", history[0].Format)
	}
	if history[0].Converged {
		t.Errorf("History[0].Converged = true, want false")
	}
	if history[1].Entities != 5 || history[1].Edges != 4 {
		t.Errorf("History[1] counts = %d/%d, want 5/4", history[1].Entities, history[1].Edges)
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveDataset("a", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveDataset("b", []byte("y")); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordRender(RenderRecord{Dataset: "a", Format: "mermaid"}); err != nil {
		t.Fatal(err)
	}

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if st.Datasets != 2 {
		t.Errorf("Stats.Datasets = %d, want 2", st.Datasets)
	}
	if st.Renders != 1 {
		t.Errorf("Stats.Renders = %d, want 1", st.Renders)
	}
	if st.Path == "" {
		t.Errorf("Stats.Path empty")
	}
}

func TestReopenPreservesData(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveDataset("acme", []byte("persisted")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.GetDataset("acme")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "persisted" {
		t.Errorf("GetDataset after reopen = %q, want persisted", got)
	}
}

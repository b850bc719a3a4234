package study

import (
	"testing"
)

func sampleResult(summary string) *Result {
	return &Result{
		Tasks:   []Task{{Description: "Read chapter 2"}},
		Summary: summary,
		Schedule: []ScheduleItem{
			{ID: NewID(), Date: "2024-05-01", Task: "Review", DurationMinutes: 30},
		},
		Flashcards: []Flashcard{{Front: "Q", Back: "A", Tags: []string{"ch1"}}},
	}
}

func TestStore_EmptySlot(t *testing.T) {
	store := NewStore(&MemorySlot{})

	res, err := store.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if res != nil {
		t.Errorf("Get() = %+v, want nil for empty slot", res)
	}
}

func TestStore_ReplaceGet(t *testing.T) {
	store := NewStore(&MemorySlot{})

	if err := store.Replace(sampleResult("first")); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	res, err := store.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if res == nil {
		t.Fatal("Get() = nil after Replace")
	}
	if res.Summary != "first" {
		t.Errorf("Summary = %q, want %q", res.Summary, "first")
	}
	if len(res.Schedule) != 1 || res.Schedule[0].ID == "" {
		t.Error("schedule item ID must survive the round trip")
	}
}

func TestStore_ReplaceIsWholesale(t *testing.T) {
	store := NewStore(&MemorySlot{})

	first := sampleResult("first")
	first.Tasks = []Task{{Description: "a"}, {Description: "b"}, {Description: "c"}}
	if err := store.Replace(first); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	second := &Result{Summary: "second"}
	if err := store.Replace(second); err != nil {
		t.Fatalf("second Replace failed: %v", err)
	}

	res, err := store.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if res.Summary != "second" {
		t.Errorf("Summary = %q, want %q", res.Summary, "second")
	}
	// No merge: nothing of the first result remains.
	if len(res.Tasks) != 0 || len(res.Schedule) != 0 || len(res.Flashcards) != 0 {
		t.Errorf("second result carries traces of the first: %+v", res)
	}
}

func TestStore_Clear(t *testing.T) {
	store := NewStore(&MemorySlot{})

	if err := store.Replace(sampleResult("x")); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	res, err := store.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if res != nil {
		t.Errorf("Get() = %+v, want nil after Clear", res)
	}
}

package entities

import "testing"

func TestAddSampleKeepsEnrollmentOrder(t *testing.T) {
	record := NewUserRecord("u1")
	record.AddSample(Embedding{1, 0}, "k1")
	record.AddSample(Embedding{0, 1}, "k2")
	record.AddSample(Embedding{1, 1}, "k1") // duplicate keys are allowed

	keys := record.StorageKeys()
	want := []string{"k1", "k2", "k1"}
	if len(keys) != len(want) {
		t.Fatalf("Expected %d keys, got %d", len(want), len(keys))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("Key %d: expected %s, got %s", i, k, keys[i])
		}
	}
}

func TestRemoveSampleFirstMatchOnly(t *testing.T) {
	record := NewUserRecord("u1")
	record.AddSample(Embedding{1, 0}, "k1")
	record.AddSample(Embedding{0, 1}, "k1")

	if !record.RemoveSample("k1") {
		t.Fatal("Expected removal to succeed")
	}
	if len(record.Samples) != 1 {
		t.Fatalf("Expected 1 sample left, got %d", len(record.Samples))
	}
	// The remaining sample is the second enrollment.
	if record.Samples[0].Embedding[1] != 1 {
		t.Error("Expected the first matching sample to be removed")
	}

	if record.RemoveSample("missing") {
		t.Error("Expected removal of unknown key to fail")
	}
}

func TestEmptiedRecordPersists(t *testing.T) {
	record := NewUserRecord("u1")
	record.AddSample(Embedding{1, 0}, "k1")
	record.RemoveSample("k1")

	if record.HasSamples() {
		t.Error("Expected no samples after deletion")
	}
	if keys := record.StorageKeys(); len(keys) != 0 {
		t.Errorf("Expected empty key list, got %v", keys)
	}
}

func TestListingIsIdempotent(t *testing.T) {
	record := NewUserRecord("u1")
	record.AddSample(Embedding{1, 0}, "a")
	record.AddSample(Embedding{0, 1}, "b")

	first := record.StorageKeys()
	second := record.StorageKeys()
	if len(first) != len(second) {
		t.Fatalf("Expected identical listings, got %v and %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Listing differs at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

package earnings

import "testing"

func TestCollect(t *testing.T) {
	got := Collect([]Entry{
		{Amount: 50000, Tip: 5000},
		{Amount: 70000, Tip: 0},
		{Amount: 0, Tip: 2000},
	})
	if got.Revenue != 120000 {
		t.Fatalf("revenue = %d, want 120000", got.Revenue)
	}
	if got.Tips != 7000 {
		t.Fatalf("tips = %d, want 7000", got.Tips)
	}
	if got.Jobs != 3 {
		t.Fatalf("jobs = %d, want 3", got.Jobs)
	}
}

func TestCollectEmpty(t *testing.T) {
	got := Collect(nil)
	if got.Revenue != 0 || got.Tips != 0 || got.Jobs != 0 {
		t.Fatalf("empty week should be all zero, got %+v", got)
	}
}

func TestTargetMet(t *testing.T) {
	if !TargetMet(150000, 150000) {
		t.Fatal("hitting the target exactly should count")
	}
	if TargetMet(149999, 150000) {
		t.Fatal("one unit short should not count")
	}
	if !TargetMet(1, 0) {
		t.Fatal("zero target is always met")
	}
}

func TestPocket(t *testing.T) {
	if got := Pocket(60000, 7000); got != 67000 {
		t.Fatalf("pocket = %v, want 67000", got)
	}
}

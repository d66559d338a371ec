package models

import "testing"

func TestParseEditMethod(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		value   string
		want    EditMethod
		wantErr bool
	}{
		{"increment", "increment", EditMethodIncrement, false},
		{"decrement", "decrement", EditMethodDecrement, false},
		{"mixed case with spaces", "  Increment ", EditMethodIncrement, false},
		{"unknown", "added", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseEditMethod(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEditMethod(%q) error = %v, wantErr %t", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseEditMethod(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestEditMethodValid(t *testing.T) {
	t.Parallel()

	if !EditMethodIncrement.Valid() || !EditMethodDecrement.Valid() {
		t.Fatal("expected known methods to be valid")
	}
	if EditMethod("removed").Valid() {
		t.Fatal("expected unknown method to be invalid")
	}
}

func TestBeforeCreateAssignsID(t *testing.T) {
	t.Parallel()

	item := &FoodItem{Name: "Milk"}
	if err := item.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate returned error: %v", err)
	}
	if item.ID == "" {
		t.Fatal("expected identifier to be assigned")
	}

	existing := &FoodItem{ID: "fixed"}
	if err := existing.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate returned error: %v", err)
	}
	if existing.ID != "fixed" {
		t.Fatalf("expected existing identifier to be kept, got %q", existing.ID)
	}
}

func TestHistoryNeverNil(t *testing.T) {
	t.Parallel()

	if got := (FoodItem{}).History(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil history, got %#v", got)
	}
}

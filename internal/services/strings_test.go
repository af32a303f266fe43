package services

import (
	"encoding/json"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", nil},
		{"single item", "go", []string{"go"}},
		{"multiple items", "go,sql,docker", []string{"go", "sql", "docker"}},
		{"whitespace trimmed", " go , sql ", []string{"go", "sql"}},
		{"empty parts dropped", "go,,sql,", []string{"go", "sql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.input, ",")
			if len(got) != len(tt.want) {
				t.Fatalf("splitAndTrim(%q) = %v, expected %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitAndTrim(%q)[%d] = %q, expected %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestJoinList(t *testing.T) {
	if got := joinList([]string{" go ", "", "sql"}); got != "go,sql" {
		t.Errorf("joinList() = %q, expected %q", got, "go,sql")
	}
	if got := joinList(nil); got != "" {
		t.Errorf("joinList(nil) = %q, expected empty", got)
	}
}

func TestUniqueIDs(t *testing.T) {
	got := uniqueIDs([]uint{3, 1, 3, 2, 1})
	want := []uint{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("uniqueIDs() = %v, expected %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("uniqueIDs()[%d] = %d, expected %d", i, got[i], want[i])
		}
	}
}

func TestOptionalID_Unmarshal(t *testing.T) {
	type payload struct {
		ManagerID OptionalID `json:"manager_id"`
	}

	var absent payload
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if absent.ManagerID.Set {
		t.Error("absent key should leave Set false")
	}

	var null payload
	if err := json.Unmarshal([]byte(`{"manager_id": null}`), &null); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if !null.ManagerID.Set || null.ManagerID.Value != nil {
		t.Errorf("explicit null: Set=%v Value=%v, expected Set=true Value=nil",
			null.ManagerID.Set, null.ManagerID.Value)
	}

	var valued payload
	if err := json.Unmarshal([]byte(`{"manager_id": 7}`), &valued); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if !valued.ManagerID.Set || valued.ManagerID.Value == nil || *valued.ManagerID.Value != 7 {
		t.Errorf("valued: Set=%v Value=%v, expected Set=true Value=7",
			valued.ManagerID.Set, valued.ManagerID.Value)
	}
}

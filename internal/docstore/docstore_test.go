package docstore

import "testing"

func TestValidatePath(t *testing.T) {
	valid := []string{"difficulty", "answer_stats.correct", "a_b.c1.d"}
	for _, p := range valid {
		if err := ValidatePath(p); err != nil {
			t.Errorf("ValidatePath(%q) = %v, want nil", p, err)
		}
	}

	invalid := []string{"", ".x", "x.", "a..b", "a b", "a-b", "1abc", "a.$b", "a')--"}
	for _, p := range invalid {
		if err := ValidatePath(p); err == nil {
			t.Errorf("ValidatePath(%q) = nil, want error", p)
		}
	}
}

package assessment

import "testing"

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		score   float64
		max     float64
		passPct float64
		want    Result
		wantErr bool
	}{
		{name: "exact pass mark passes", score: 50, max: 100, passPct: 50, want: ResultPass},
		{name: "below pass mark fails", score: 49.5, max: 100, passPct: 50, want: ResultFail},
		{name: "full marks pass", score: 20, max: 20, passPct: 60, want: ResultPass},
		{name: "zero pass pct uses default", score: 10, max: 20, passPct: 0, want: ResultPass},
		{name: "score above max rejected", score: 101, max: 100, passPct: 50, wantErr: true},
		{name: "negative score rejected", score: -1, max: 100, passPct: 50, wantErr: true},
		{name: "zero max rejected", score: 0, max: 0, passPct: 50, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.score, tt.max, tt.passPct)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got result %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	if _, err := ParseType("interim"); err != nil {
		t.Errorf("interim should parse: %v", err)
	}
	if _, err := ParseType("final"); err != nil {
		t.Errorf("final should parse: %v", err)
	}
	if _, err := ParseType("midterm"); err == nil {
		t.Error("midterm should be rejected")
	}
}

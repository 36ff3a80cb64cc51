package risk

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		dpd    int
		status string
		want   Level
	}{
		{"zero dpd active", 0, "Active", LevelLow},
		{"boundary thirty", 30, "Active", LevelLow},
		{"thirty one", 31, "Active", LevelHigh},
		{"boundary ninety", 90, "Active", LevelHigh},
		{"ninety one", 91, "Active", LevelCritical},
		{"huge dpd", 400, "Active", LevelCritical},
		{"bankruptcy overrides low dpd", 12, "Bankruptcy", LevelCritical},
		{"legal overrides low dpd", 0, "Legal", LevelCritical},
		{"override is case insensitive", 5, "BANKRUPTCY", LevelCritical},
		{"override matches substring", 5, "pre-legal review", LevelCritical},
		{"empty status", 45, "", LevelHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.dpd, tt.status); got.Level != tt.want {
				t.Errorf("Classify(%d, %q).Level = %v, want %v", tt.dpd, tt.status, got.Level, tt.want)
			}
		})
	}
}

// The tier must never drop as DPD rises for a fixed status.
func TestClassifyMonotonicInDPD(t *testing.T) {
	rank := map[Level]int{LevelLow: 0, LevelHigh: 1, LevelCritical: 2}

	prev := LevelLow
	for dpd := 0; dpd <= 200; dpd++ {
		got := Classify(dpd, "Active").Level
		if rank[got] < rank[prev] {
			t.Fatalf("Classify(%d, Active) = %v, lower tier than %v at dpd-1", dpd, got, prev)
		}
		prev = got
	}
}

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name    string
		dpd     int
		balance float64
		status  string
		want    float64
	}{
		{"low tier no balance", 10, 0, "Active", 100 + 20},
		{"high tier", 40, 0, "Active", 500 + 80},
		{"critical tier by dpd", 100, 0, "Active", 1000 + 200},
		{"critical tier by status", 12, 0, "Bankruptcy", 1000 + 24},
		{"balance contributes", 10, 5000, "Active", 100 + 20 + 50},
		{"balance capped", 10, 1_000_000, "Active", 100 + 20 + 200},
		{"negative balance ignored", 10, -500, "Active", 100 + 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriorityScore(tt.dpd, tt.balance, tt.status); got != tt.want {
				t.Errorf("PriorityScore(%d, %v, %q) = %v, want %v", tt.dpd, tt.balance, tt.status, got, tt.want)
			}
		})
	}
}

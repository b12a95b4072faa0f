package reports

import (
	"testing"
	"time"
)

func TestSpecRange(t *testing.T) {
	tests := []struct {
		name     string
		spec     Spec
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			"monthly",
			Spec{Period: Monthly, Year: 2025, Month: time.March},
			time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"quarter from mid month",
			Spec{Period: Quarterly, Year: 2025, Month: time.May},
			time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"fourth quarter spills into next year",
			Spec{Period: Quarterly, Year: 2025, Month: time.December},
			time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"first semester",
			Spec{Period: Semesterly, Year: 2025, Month: time.February},
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"second semester",
			Spec{Period: Semesterly, Year: 2025, Month: time.September},
			time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"yearly",
			Spec{Period: Yearly, Year: 2025},
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from, to := tc.spec.Range()
			if !from.Equal(tc.wantFrom) || !to.Equal(tc.wantTo) {
				t.Errorf("Range() = [%v, %v), want [%v, %v)", from, to, tc.wantFrom, tc.wantTo)
			}
		})
	}
}

func TestSpecLabel(t *testing.T) {
	tests := []struct {
		spec Spec
		want string
	}{
		{Spec{Period: Monthly, Year: 2025, Month: time.March}, "2025-03"},
		{Spec{Period: Quarterly, Year: 2025, Month: time.May}, "2025-T2"},
		{Spec{Period: Semesterly, Year: 2025, Month: time.February}, "2025-S1"},
		{Spec{Period: Semesterly, Year: 2025, Month: time.October}, "2025-S2"},
		{Spec{Period: Yearly, Year: 2025}, "2025"},
	}
	for _, tc := range tests {
		if got := tc.spec.Label(); got != tc.want {
			t.Errorf("Label(%v) = %q, want %q", tc.spec.Period, got, tc.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"monthly", Monthly, false},
		{"quarterly", Quarterly, false},
		{"semesterly", Semesterly, false},
		{"yearly", Yearly, false},
		{"weekly", Monthly, true},
		{"", Monthly, true},
	}
	for _, tc := range tests {
		got, err := ParsePeriod(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePeriod(%q) should fail", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePeriod(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePeriod(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

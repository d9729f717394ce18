package chromquant

import "testing"

func TestParseTimeUnit(t *testing.T) {
	for _, v := range []struct {
		in   string
		want Unit
		ok   bool
	}{
		{"min", Minute, true},
		{"mins", Minute, true},
		{"minutes", Minute, true},
		{"sec", Second, true},
		{"seconds", Second, true},
		{"h", Hour, true},
		{"days", Day, true},
		{"fortnight", "", false},
	} {
		got, ok := ParseTimeUnit(v.in)
		if ok != v.ok || got != v.want {
			t.Errorf("ParseTimeUnit(%q) = %q, %v; want %q, %v", v.in, got, ok, v.want, v.ok)
		}
	}
}

func TestNewSeriesUnitValidation(t *testing.T) {
	if _, err := NewSeries("run", TimeCourse, MilliMolar); err == nil {
		t.Error("time course with concentration unit should fail")
	}
	if _, err := NewSeries("cal", CalibrationSet, Minute); err == nil {
		t.Error("calibration set with time unit should fail")
	}
	if _, err := NewSeries("run", TimeCourse, Minute); err != nil {
		t.Errorf("valid time course rejected: %v", err)
	}
	if _, err := NewSeries("cal", CalibrationSet, MilliMolar); err != nil {
		t.Errorf("valid calibration set rejected: %v", err)
	}
}

package strength

import "testing"

func TestEstimateCrackTime(t *testing.T) {
	tests := []struct {
		password string
		want     string
	}{
		{"", ""},
		// 10^4 / 1e4 = 1s
		{"1234", "Less than a minute"},
		// 26^4 / 1e4 ≈ 45.7s
		{"abcd", "Less than a minute"},
		// 26^5 / 1e4 ≈ 1188s
		{"abcde", "Minutes"},
		// 26^6 / 1e4 ≈ 30891s
		{"abcdef", "Hours"},
		// 26^7 / 1e4 ≈ 803181s
		{"abcdefg", "Days"},
		// 62^8 / 1e4 ≈ 2.18e10s
		{"abcDEF12", "Centuries"},
		// 52^7 / 1e4 ≈ 1.03e8s
		{"abcDEFg", "Years"},
		{"Tr0ub4dor&3xyzPQ", "Centuries"},
	}

	for _, tt := range tests {
		if got := EstimateCrackTime(tt.password); got != tt.want {
			t.Errorf("EstimateCrackTime(%q) = %q, want %q", tt.password, got, tt.want)
		}
	}
}

func TestEstimateCrackTimeVeryLongPassword(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'a' + byte(i%26)
	}
	if got := EstimateCrackTime(string(long)); got != "Centuries" {
		t.Errorf("EstimateCrackTime(long) = %q, want %q", got, "Centuries")
	}
}

func TestCrackTimeBucketBoundaries(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{59.9, "Less than a minute"},
		{60, "Minutes"},
		{3600, "Hours"},
		{86400, "Days"},
		{31536000, "Years"},
		{3153600000, "Centuries"},
	}
	for _, tt := range tests {
		if got := crackTimeBucket(tt.seconds); got != tt.want {
			t.Errorf("crackTimeBucket(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

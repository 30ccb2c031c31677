package buildinfo

import "testing"

func TestString(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "v1.0.0", "abc1234", ""
	if got := String(); got != "v1.0.0 (abc1234)" {
		t.Fatalf("String() = %q", got)
	}
	Date = "2026-01-02T03:04:05Z"
	if got := String(); got != "v1.0.0 (abc1234, 2026-01-02T03:04:05Z)" {
		t.Fatalf("String() = %q", got)
	}
}

package trigger

import (
	"errors"
	"testing"
	"time"
)

func TestParseScheduleValid(t *testing.T) {
	exprs := []string{
		"* * * * *",
		"*/5 * * * *",
		"0 9 * * *",
		"30 8 1,15 * *",
		"0 0 * * MON-FRI",
		"15 10-18 * * *",
	}
	for _, expr := range exprs {
		if _, err := ParseSchedule(expr); err != nil {
			t.Errorf("ParseSchedule(%q): unexpected error: %v", expr, err)
		}
	}
}

func TestParseScheduleInvalid(t *testing.T) {
	exprs := []string{
		"",
		"* * * *",       // too few fields
		"* * * * * *",   // too many fields
		"99 * * * *",    // minute out of range
		"* 25 * * *",    // hour out of range
		"x * * * *",     // malformed token
		"*/0 * * * *",   // zero step
		"1-99 * * * *",  // range out of bounds
		"not a cron at all",
	}
	for _, expr := range exprs {
		_, err := ParseSchedule(expr)
		if err == nil {
			t.Errorf("ParseSchedule(%q): expected error, got nil", expr)
			continue
		}
		if !errors.Is(err, ErrBadSchedule) {
			t.Errorf("ParseSchedule(%q): error %v does not wrap ErrBadSchedule", expr, err)
		}
	}
}

func TestNextStrictlyAfterReference(t *testing.T) {
	sched, err := ParseSchedule("*/5 * * * *")
	if err != nil {
		t.Fatal(err)
	}

	ref := time.Date(2025, 1, 1, 0, 1, 0, 0, time.UTC)
	next := sched.Next(ref)
	want := time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", ref, next, want)
	}

	// A reference exactly on a match must advance to the following one.
	onMatch := time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC)
	next = sched.Next(onMatch)
	if !next.After(onMatch) {
		t.Errorf("Next on an exact match = %v, not strictly after %v", next, onMatch)
	}
}

func TestNextMonotonicAdvancement(t *testing.T) {
	for _, expr := range []string{"*/5 * * * *", "0 9 * * *", "0 0 1 * *"} {
		sched, err := ParseSchedule(expr)
		if err != nil {
			t.Fatal(err)
		}
		ref := time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)
		for i := 0; i < 50; i++ {
			next := sched.Next(ref)
			if !next.After(ref) {
				t.Fatalf("%q: Next(%v) = %v, not strictly later", expr, ref, next)
			}
			ref = next
		}
	}
}

func TestNextDayOfMonthOrDayOfWeek(t *testing.T) {
	// When both day fields are restricted, either one matching fires the
	// trigger (standard cron OR semantics). From Jan 1 2025 (a Wednesday),
	// "the 13th or any Friday" must fire on Friday Jan 3, not wait for the
	// 13th.
	sched, err := ParseSchedule("0 0 13 * 5")
	if err != nil {
		t.Fatal(err)
	}
	ref := time.Date(2025, 1, 1, 0, 30, 0, 0, time.UTC)
	next := sched.Next(ref)
	want := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", ref, next, want)
	}
}

func TestNextIsStateless(t *testing.T) {
	sched, err := ParseSchedule("0 * * * *")
	if err != nil {
		t.Fatal(err)
	}
	ref := time.Date(2025, 7, 1, 12, 30, 0, 0, time.UTC)

	first := sched.Next(ref)
	// Re-invoking with the same reference must yield the same answer.
	if again := sched.Next(ref); !again.Equal(first) {
		t.Errorf("Next not reproducible: %v then %v", first, again)
	}
	// And chaining from the previous result keeps advancing.
	second := sched.Next(first)
	if !second.After(first) {
		t.Errorf("chained Next(%v) = %v, not strictly later", first, second)
	}
}

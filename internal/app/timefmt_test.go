package app

import (
	"testing"
	"time"
)

func TestFormatRelative_ScenarioTwoMinutes(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	target := now.Add(125 * time.Second).Unix()

	c := FormatRelative(target, now)
	if c.Text != "2m 5s" {
		t.Fatalf("text: want %q, got %q", "2m 5s", c.Text)
	}
	if !c.Urgent {
		t.Fatalf("2m 5s is inside the 5-minute window, expected urgent")
	}
	if c.Finished {
		t.Fatalf("not finished yet")
	}
	if c.SecondsRemaining != 125 {
		t.Fatalf("seconds remaining: want 125, got %d", c.SecondsRemaining)
	}

	// 121 secondes simulées plus tard.
	c = FormatRelative(target, now.Add(121*time.Second))
	if c.Text != "4s" || !c.Urgent || c.Finished {
		t.Fatalf("after 121s: got %+v", c)
	}

	// À l'instant de diffusion.
	c = FormatRelative(target, now.Add(125*time.Second))
	if c.Text != "Airing now!" || !c.Urgent || !c.Finished {
		t.Fatalf("at target: got %+v", c)
	}
}

func TestFormatRelative_FinishedIffPast(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()

	for _, offset := range []time.Duration{-time.Hour, -time.Second, 0} {
		c := FormatRelative(now.Add(offset).Unix(), now)
		if !c.Finished || !c.Urgent {
			t.Fatalf("offset %v: expected finished+urgent, got %+v", offset, c)
		}
	}
	for _, offset := range []time.Duration{time.Second, time.Hour, 48 * time.Hour} {
		c := FormatRelative(now.Add(offset).Unix(), now)
		if c.Finished {
			t.Fatalf("offset %v: expected not finished, got %+v", offset, c)
		}
	}
}

func TestFormatRelative_UnitHierarchy(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()

	cases := []struct {
		remaining time.Duration
		text      string
		urgent    bool
	}{
		{49*time.Hour + 30*time.Minute, "2d 1h", false},
		{48 * time.Hour, "2d", false}, // heures omises si 0
		{3*time.Hour + 25*time.Minute + 10*time.Second, "3h 25m", false},
		{5 * time.Minute, "5m 0s", false}, // 5 minutes pile : pas encore urgent
		{4*time.Minute + 59*time.Second, "4m 59s", true},
		{59 * time.Second, "59s", true},
		{time.Second, "1s", true},
	}
	for _, tc := range cases {
		c := FormatRelative(now.Add(tc.remaining).Unix(), now)
		if c.Text != tc.text {
			t.Fatalf("remaining %v: want %q, got %q", tc.remaining, tc.text, c.Text)
		}
		if c.Urgent != tc.urgent {
			t.Fatalf("remaining %v: urgent want %v, got %v", tc.remaining, tc.urgent, c.Urgent)
		}
	}
}

func TestFormatRelative_NormalizesMilliseconds(t *testing.T) {
	now := time.Unix(2_100_000_000, 0).UTC()
	target := now.Add(90 * time.Second)

	sec := FormatRelative(target.Unix(), now)
	ms := FormatRelative(target.UnixMilli(), now)
	if sec.Text != ms.Text || sec.Text != "1m 30s" {
		t.Fatalf("seconds/milliseconds mismatch: %q vs %q", sec.Text, ms.Text)
	}
}

func TestFormatAbsolute_NormalizesUnits(t *testing.T) {
	ts := time.Unix(1_700_000_000, 0)

	got := FormatAbsolute(ts.Unix())
	if got == "" {
		t.Fatalf("expected non-empty absolute format")
	}
	if ms := FormatAbsolute(ts.UnixMilli()); ms != got {
		t.Fatalf("seconds vs milliseconds: %q vs %q", got, ms)
	}
}

package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "123", RunID("123")},
		{"Stage", KeyStage, "enhance", Stage("enhance")},
		{"Repository", KeyRepo, "repo1", Repository("repo1")},
		{"Owner", KeyOwner, "octocat", Owner("octocat")},
		{"Branch", KeyBranch, "main", Branch("main")},
		{"URL", KeyURL, "https://github.com", URL("https://github.com")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Reason", KeyReason, "fork", Reason("fork")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric helpers.
func TestNumericHelpers(t *testing.T) {
	if v := Status(404); v.Key != KeyStatus || v.Value.Int64() != 404 {
		t.Fatalf("Status mismatch: %v", v)
	}
	if v := Count(3); v.Key != KeyCount || v.Value.Int64() != 3 {
		t.Fatalf("Count mismatch: %v", v)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS || v.Value.Float64() != 12.5 {
		t.Fatalf("DurationMS mismatch: %v", v)
	}
	if v := Since(time.Now()); v.Key != KeyDurationMS || v.Value.Float64() < 0 {
		t.Fatalf("Since mismatch: %v", v)
	}
	if v := Includes([]string{"docs/*"}); v.Key != KeyIncludes {
		t.Fatalf("Includes key mismatch: %s", v.Key)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError || attr.Value.String() != "" {
		t.Fatalf("unexpected nil error attr: %v", attr)
	}
	attr = Error(errors.New("boom"))
	if attr.Value.String() != "boom" {
		t.Fatalf("expected boom, got %s", attr.Value.String())
	}
}

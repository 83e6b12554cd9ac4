// internal/registry/result_test.go
package registry

import "testing"

func strptr(s string) *string { return &s }

func TestParseResultNil(t *testing.T) {
	if got := ParseResult(nil); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestParseResultStructuredError(t *testing.T) {
	res := ParseResult(strptr(`{"success":false,"error":"not found"}`))
	if res.Success {
		t.Error("expected failure")
	}
	if res.Error != "not found" {
		t.Errorf("unexpected error: %q", res.Error)
	}
}

func TestParseResultStructuredSuccess(t *testing.T) {
	res := ParseResult(strptr(`{"success":true,"content":"all good"}`))
	if !res.Success {
		t.Error("expected success")
	}
	if res.Content != "all good" {
		t.Errorf("unexpected content: %q", res.Content)
	}
}

func TestParseResultErrorFieldImpliesFailure(t *testing.T) {
	res := ParseResult(strptr(`{"error":"boom"}`))
	if res.Success {
		t.Error("expected failure when only an error field is present")
	}
}

func TestParseResultJSONMentioningErrorIsNotFailure(t *testing.T) {
	// The word "error" buried inside successful content must not trip the
	// plain-text heuristics.
	res := ParseResult(strptr(`{"content":"the error handling chapter is done"}`))
	if !res.Success {
		t.Error("expected success")
	}
}

func TestParseResultPlainTextHeuristics(t *testing.T) {
	cases := []struct {
		raw  string
		fail bool
	}{
		{"Error: file not found", true},
		{"FAILED: timeout", true},
		{"Traceback (most recent call last):\n  File ...", true},
		{"panic: runtime error: index out of range", true},
		{"all 12 tests passed", false},
		{"plain result text", false},
	}
	for _, tc := range cases {
		res := ParseResult(strptr(tc.raw))
		if res.Success == tc.fail {
			t.Errorf("ParseResult(%q).Success = %v, want %v", tc.raw, res.Success, !tc.fail)
		}
		if tc.fail && res.Error == "" {
			t.Errorf("ParseResult(%q): expected error text", tc.raw)
		}
	}
}

package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPage(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
		wantFields []string
	}{
		{"", 50, 0, nil},
		{"limit=10&offset=20", 10, 20, nil},
		{"limit=500", 200, 0, nil},
		{"limit=0", 50, 0, []string{"limit"}},
		{"limit=ten&offset=-3", 50, 0, []string{"limit", "offset"}},
		{"offset=abc", 50, 0, []string{"offset"}},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/items?"+tc.query, nil)
		v := NewValidator()
		page := v.Page(r, 50, 200)
		if page.Limit != tc.wantLimit || page.Offset != tc.wantOffset {
			t.Fatalf("%q: expected limit=%d offset=%d, got %+v", tc.query, tc.wantLimit, tc.wantOffset, page)
		}
		issues := v.Issues()
		if len(issues) != len(tc.wantFields) {
			t.Fatalf("%q: expected issues on %v, got %+v", tc.query, tc.wantFields, issues)
		}
		for i, field := range tc.wantFields {
			if issues[i].Field != field {
				t.Fatalf("%q: expected issue on %s, got %+v", tc.query, field, issues[i])
			}
		}
	}
}

func TestParseDateAndUpperBound(t *testing.T) {
	day, err := ParseDate(" 2025-03-01 ")
	if err != nil || !day.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected bare date parse: %v %v", day, err)
	}
	if got := UpperBound("2025-03-01", day); !got.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("bare date should cover the whole day, got %v", got)
	}

	stamp, err := ParseDate("2025-03-01T12:30:00+02:00")
	if err != nil || !stamp.Equal(time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)) || stamp.Location() != time.UTC {
		t.Fatalf("unexpected timestamp parse: %v %v", stamp, err)
	}
	if got := UpperBound("2025-03-01T12:30:00+02:00", stamp); !got.Equal(stamp) {
		t.Fatalf("timestamps are kept as is, got %v", got)
	}

	if zero, err := ParseDate(""); err != nil || !zero.IsZero() {
		t.Fatalf("blank input should be the zero time, got %v %v", zero, err)
	}
	if !UpperBound("", time.Time{}).IsZero() {
		t.Fatal("zero bound should stay zero")
	}
	if _, err := ParseDate("03/01/2025"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}

func TestDateValidation(t *testing.T) {
	v := NewValidator()
	from := v.OptionalDate("from", "2025-02-01")
	to := v.OptionalDate("to", "2025-01-01")
	v.DateOrder("from", from, "to", to)
	if missing := v.OptionalDate("since", "  "); !missing.IsZero() {
		t.Fatalf("blank optional date should be zero, got %v", missing)
	}
	v.OptionalDate("until", "yesterday")

	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected three issues, got %+v", issues)
	}
	if issues[0].Field != "from" || issues[1].Field != "to" || issues[2].Field != "until" {
		t.Fatalf("unexpected issue fields: %+v", issues)
	}

	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected Reject to write a response")
	}
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"validation_error"`) {
		t.Fatalf("unexpected rejection: %d %s", rec.Code, rec.Body.String())
	}
}

func TestEnumIsCaseInsensitive(t *testing.T) {
	v := NewValidator()
	v.Enum("status", "Completed", []string{"in_progress", "completed"}, "must be one of in_progress, completed")
	v.Enum("status", "", []string{"in_progress"}, "unused")
	if v.HasIssues() {
		t.Fatalf("unexpected issues: %+v", v.Issues())
	}
	v.Enum("status", "bogus", []string{"in_progress"}, "must be one of in_progress")
	if !v.HasIssues() {
		t.Fatal("expected an issue for an unknown value")
	}
}

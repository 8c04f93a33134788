package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func listContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/events"+query, nil)
	return c
}

func TestParseListFilterRejectsUnknownParams(t *testing.T) {
	c := listContext(t, "?color=red")
	_, details, ok := parseListFilter(c)
	if ok {
		t.Fatal("unknown parameter must be rejected")
	}
	if !strings.Contains(details, "color") {
		t.Errorf("details should name the offending parameter, got %q", details)
	}
}

func TestParseListFilterLimitBounds(t *testing.T) {
	for _, raw := range []string{"0", "-1", "51", "abc", "2.5"} {
		c := listContext(t, "?limit="+raw)
		if _, _, ok := parseListFilter(c); ok {
			t.Errorf("limit=%s must be rejected", raw)
		}
	}
	c := listContext(t, "?limit=50&offset=0")
	filter, details, ok := parseListFilter(c)
	if !ok {
		t.Fatalf("valid bounds rejected: %s", details)
	}
	if filter.Limit != 50 || filter.Offset != 0 {
		t.Errorf("bounds not captured: %+v", filter)
	}
}

func TestParseListFilterDatesAndPrice(t *testing.T) {
	c := listContext(t, "?startdate=2024-12-31T23:59:59Z&maxprice=10.00")
	filter, details, ok := parseListFilter(c)
	if !ok {
		t.Fatalf("valid query rejected: %s", details)
	}
	want := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	if filter.StartDate == nil || !filter.StartDate.Equal(want) {
		t.Errorf("startdate not parsed: %+v", filter.StartDate)
	}
	if filter.MaxPrice == nil || *filter.MaxPrice != 10.00 {
		t.Errorf("maxprice not parsed: %+v", filter.MaxPrice)
	}

	for _, query := range []string{"?startdate=yesterday", "?maxprice=10", "?maxprice=EUR10.00", "?maxprice=-1.00"} {
		c := listContext(t, query)
		if _, _, ok := parseListFilter(c); ok {
			t.Errorf("query %q must be rejected", query)
		}
	}
}

func TestParseListFilterCategory(t *testing.T) {
	c := listContext(t, "?category=Sports")
	filter, details, ok := parseListFilter(c)
	if !ok {
		t.Fatalf("valid category rejected: %s", details)
	}
	if filter.Category != "sports" {
		t.Errorf("category must be normalized to lower case, got %q", filter.Category)
	}

	c = listContext(t, "?category=quilting")
	if _, _, ok := parseListFilter(c); ok {
		t.Error("unknown category must be rejected")
	}
}

func TestEventIDRejectsNonUUIDs(t *testing.T) {
	for _, raw := range []string{
		"",
		"123",
		"not-a-uuid",
		"d290f1ee-6c54-4b01-90e6",
		"d290f1ee-6c54-1b01-90e6-d701748f0851",          // version 1
		"{d290f1ee-6c54-4b01-90e6-d701748f0851}",        // braced
		"urn:uuid:d290f1ee-6c54-4b01-90e6-d701748f0851", // urn form
		"d290f1ee6c544b0190e6d701748f0851",              // raw hex
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/v1/events/x", nil)
		c.Params = gin.Params{{Key: "uuid", Value: raw}}

		if _, ok := eventID(c); ok {
			t.Errorf("uuid %q must be rejected", raw)
			continue
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("uuid %q: expected 400, got %d", raw, w.Code)
		}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/events/x", nil)
	c.Params = gin.Params{{Key: "uuid", Value: "d290f1ee-6c54-4b01-90e6-d701748f0851"}}
	id, ok := eventID(c)
	if !ok || id != "d290f1ee-6c54-4b01-90e6-d701748f0851" {
		t.Errorf("valid uuid rejected: %q %v", id, ok)
	}
}

func TestFavoriteEventRequiresBooleanStatus(t *testing.T) {
	handler := FavoriteEvent(nil)

	for _, body := range []string{
		`{}`,
		`{"userid":"u1"}`,
		`{"userid":"u1","favoriteStatus":"yes"}`,
		`{"userid":"u1","favoriteStatus":1}`,
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/v1/events/x/favorite", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "uuid", Value: "d290f1ee-6c54-4b01-90e6-d701748f0851"}}

		handler(c)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

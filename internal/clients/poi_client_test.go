package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/EGS-Tourist-Guide/event-service/internal/faults"
	"github.com/EGS-Tourist-Guide/event-service/internal/retry"
)

func testPoiClient(url string) *PoiClient {
	c := NewPoiClient(url, "test-key")
	c.opts = retry.Options{
		MaxRetries:     0,
		InitialDelay:   time.Millisecond,
		DelayStep:      time.Millisecond,
		AttemptTimeout: time.Second,
	}
	return c
}

func poiServer(t *testing.T, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graphql" {
			t.Errorf("expected /graphql endpoint, got %s", r.URL.Path)
		}
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("request body is not a graphql envelope: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
}

func TestSearchPOIReturnsData(t *testing.T) {
	srv := poiServer(t, `{"data":{"searchPointOfInterest":{"id":"poi-1","name":"Belem Tower","latitude":38.69,"longitude":-9.21,"category":"culture"}}}`)
	defer srv.Close()

	poi, err := testPoiClient(srv.URL).SearchPOI(context.Background(), "poi-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if poi.Name != "Belem Tower" || poi.Latitude != 38.69 {
		t.Errorf("unexpected poi: %+v", poi)
	}
}

func TestSearchPOIMissingIsNotFound(t *testing.T) {
	srv := poiServer(t, `{"data":{"searchPointOfInterest":null}}`)
	defer srv.Close()

	_, err := testPoiClient(srv.URL).SearchPOI(context.Background(), "poi-404")
	if faults.KindOf(err) != faults.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestPoiErrorCodeClassification(t *testing.T) {
	for _, tc := range []struct {
		code string
		kind faults.Kind
	}{
		{"POI_NOT_FOUND", faults.KindNotFound},
		{"DUPLICATE_NAME", faults.KindConflict},
		{"DUPLICATE_LOCATION", faults.KindConflict},
		{"SOMETHING_ELSE", faults.KindGateway},
		{"", faults.KindGateway},
	} {
		srv := poiServer(t, fmt.Sprintf(`{"errors":[{"message":"whatever text","extensions":{"code":"%s"}}]}`, tc.code))
		_, err := testPoiClient(srv.URL).CreatePOI(context.Background(), PoiFields{Name: "X", Category: "culture"})
		srv.Close()
		if faults.KindOf(err) != tc.kind {
			t.Errorf("code %q: expected %v, got %v (%v)", tc.code, tc.kind, faults.KindOf(err), err)
		}
	}
}

func TestPoiMalformedResponseIsGateway(t *testing.T) {
	srv := poiServer(t, `<html>oops</html>`)
	defer srv.Close()

	_, err := testPoiClient(srv.URL).SearchPOI(context.Background(), "poi-1")
	if faults.KindOf(err) != faults.KindGateway {
		t.Errorf("expected gateway, got %v", err)
	}
}

func TestPoiConnectionFailureIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := testPoiClient(srv.URL).SearchPOI(context.Background(), "poi-1")
	if faults.KindOf(err) != faults.KindTransport {
		t.Errorf("expected transport, got %v", err)
	}
}

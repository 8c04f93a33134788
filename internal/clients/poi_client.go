package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/EGS-Tourist-Guide/event-service/internal/faults"
	"github.com/EGS-Tourist-Guide/event-service/internal/retry"
)

// PointOfInterest is the location slice of an event, authoritative in
// the point-of-interest collaborator.
type PointOfInterest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Category  string  `json:"category"`
	Thumbnail string  `json:"thumbnail"`
}

// PoiFields is the payload for creating a new point of interest.
type PoiFields struct {
	Name      string
	Latitude  float64
	Longitude float64
	Category  string
	Thumbnail string
}

type PoiAPI interface {
	SearchPOI(ctx context.Context, id string) (*PointOfInterest, error)
	CreatePOI(ctx context.Context, fields PoiFields) (*PointOfInterest, error)
}

// Error codes of the collaborator's versioned error contract. The
// service classifies on these codes, never on message text.
const (
	poiCodeNotFound          = "POI_NOT_FOUND"
	poiCodeDuplicateName     = "DUPLICATE_NAME"
	poiCodeDuplicateLocation = "DUPLICATE_LOCATION"
)

// PoiClient speaks to the point-of-interest service through its single
// GraphQL endpoint; every operation is a distinct query or mutation.
type PoiClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	opts       retry.Options
}

func NewPoiClient(baseURL, apiKey string) *PoiClient {
	return &PoiClient{
		endpoint:   baseURL + "/graphql",
		apiKey:     apiKey,
		httpClient: &http.Client{},
		opts: retry.Options{
			MaxRetries:     1,
			InitialDelay:   250 * time.Millisecond,
			DelayStep:      250 * time.Millisecond,
			AttemptTimeout: 7500 * time.Millisecond,
		},
	}
}

const searchPoiQuery = `query searchPointOfInterest($id: ID!) {
  searchPointOfInterest(id: $id) {
    id name latitude longitude category thumbnail
  }
}`

const createPoiMutation = `mutation createPointOfInterest($name: String!, $latitude: Float!, $longitude: Float!, $category: String!, $thumbnail: String) {
  createPointOfInterest(name: $name, latitude: $latitude, longitude: $longitude, category: $category, thumbnail: $thumbnail) {
    id name latitude longitude category thumbnail
  }
}`

func (c *PoiClient) SearchPOI(ctx context.Context, id string) (*PointOfInterest, error) {
	const op = "poi.search"
	return retry.Do(ctx, op, c.opts, func(ctx context.Context) (*PointOfInterest, error) {
		var out struct {
			SearchPointOfInterest *PointOfInterest `json:"searchPointOfInterest"`
		}
		if err := c.perform(ctx, op, searchPoiQuery, map[string]interface{}{"id": id}, &out); err != nil {
			return nil, err
		}
		if out.SearchPointOfInterest == nil {
			return nil, faults.New(faults.KindNotFound, op, nil)
		}
		return out.SearchPointOfInterest, nil
	})
}

func (c *PoiClient) CreatePOI(ctx context.Context, fields PoiFields) (*PointOfInterest, error) {
	const op = "poi.create"
	return retry.Do(ctx, op, c.opts, func(ctx context.Context) (*PointOfInterest, error) {
		vars := map[string]interface{}{
			"name":      fields.Name,
			"latitude":  fields.Latitude,
			"longitude": fields.Longitude,
			"category":  fields.Category,
			"thumbnail": fields.Thumbnail,
		}
		var out struct {
			CreatePointOfInterest *PointOfInterest `json:"createPointOfInterest"`
		}
		if err := c.perform(ctx, op, createPoiMutation, vars, &out); err != nil {
			return nil, err
		}
		if out.CreatePointOfInterest == nil {
			return nil, faults.New(faults.KindGateway, op, errors.New("mutation returned no point of interest"))
		}
		return out.CreatePointOfInterest, nil
	})
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// perform posts one query/mutation and classifies the outcome. GraphQL
// errors carry a code in extensions; an error without a known code is a
// gateway failure.
func (c *PoiClient) perform(ctx context.Context, op, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return faults.New(faults.KindInternal, op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return faults.New(faults.KindInternal, op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return faults.New(faults.KindTimeout, op, err)
		}
		return faults.New(faults.KindTransport, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return faults.New(faults.KindGateway, op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return faults.New(faults.KindGateway, op, fmt.Errorf("malformed response: %v", err))
	}

	if len(envelope.Errors) > 0 {
		return classifyPoiError(op, envelope.Errors[0])
	}
	if envelope.Data == nil {
		return faults.New(faults.KindGateway, op, errors.New("response carried no data"))
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return faults.New(faults.KindGateway, op, fmt.Errorf("malformed data payload: %v", err))
	}
	return nil
}

func classifyPoiError(op string, gqlErr graphQLError) error {
	switch gqlErr.Extensions.Code {
	case poiCodeNotFound:
		return faults.New(faults.KindNotFound, op, nil)
	case poiCodeDuplicateName, poiCodeDuplicateLocation:
		return faults.New(faults.KindConflict, op, errors.New(gqlErr.Extensions.Code))
	default:
		return faults.New(faults.KindGateway, op, fmt.Errorf("collaborator error %q: %s", gqlErr.Extensions.Code, gqlErr.Message))
	}
}

var _ PoiAPI = (*PoiClient)(nil)

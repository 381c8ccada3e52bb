package maps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestClientAutocompleteRequest(t *testing.T) {
	const expectedURL = "http://maps.test/v1/places:autocomplete"
	respBody := `{"suggestions":[{"placePrediction":{"placeId":"place_123","text":{"text":"Riverside Drive, Westlands, Nairobi"}}}]}`

	var capturedURL string
	var capturedHeaders http.Header

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()

		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		if payload["input"] != "riverside drive, westlands" {
			t.Fatalf("unexpected input %q", payload["input"])
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	httpClient := &http.Client{Transport: rt}
	client, err := NewClient("test-key", WithBaseURL("http://maps.test/v1"), WithHTTPClient(httpClient))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	result, err := client.Autocomplete(context.Background(), AutocompleteRequest{
		Input:               "riverside drive, westlands",
		IncludedRegionCodes: []string{"KE"},
		LanguageCode:        "en",
	})
	if err != nil {
		t.Fatalf("autocomplete: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("X-Goog-Api-Key") != "test-key" {
		t.Fatalf("api key header missing")
	}
	if capturedHeaders.Get("X-Goog-FieldMask") != autocompleteFieldMask {
		t.Fatalf("unexpected field mask %q", capturedHeaders.Get("X-Goog-FieldMask"))
	}
	if len(result) != 1 || result[0].PlaceID != "place_123" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestClientResolvePlaceRequest(t *testing.T) {
	const expectedURL = "http://maps.test/v1/places/place_123"
	respBody := `{"id":"place_123","formattedAddress":"Riverside Drive, Westlands, Nairobi","location":{"latitude":-1.2635,"longitude":36.8028},"addressComponents":[{"longText":"Westlands","shortText":"Westlands","types":["sublocality"]}]}`

	var capturedURL string
	var capturedHeaders http.Header

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	httpClient := &http.Client{Transport: rt}
	client, err := NewClient("test-key", WithBaseURL("http://maps.test/v1"), WithHTTPClient(httpClient))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	details, err := client.ResolvePlace(context.Background(), "place_123")
	if err != nil {
		t.Fatalf("resolve place: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("X-Goog-Api-Key") != "test-key" {
		t.Fatalf("api key header missing")
	}
	if capturedHeaders.Get("X-Goog-FieldMask") != placeResolveFieldMask {
		t.Fatalf("unexpected field mask %q", capturedHeaders.Get("X-Goog-FieldMask"))
	}
	if details.FormattedAddress != "Riverside Drive, Westlands, Nairobi" {
		t.Fatalf("unexpected address %q", details.FormattedAddress)
	}
	if details.Location.Latitude != -1.2635 || details.Location.Longitude != 36.8028 {
		t.Fatalf("unexpected location %+v", details.Location)
	}
	if len(details.AddressComponents) != 1 || details.AddressComponents[0].LongName != "Westlands" {
		t.Fatalf("unexpected components %+v", details.AddressComponents)
	}
}

func TestClientGeocode(t *testing.T) {
	autocompleteBody := `{"suggestions":[{"placePrediction":{"placeId":"place_123","text":{"text":"Riverside Drive, Westlands"}}}]}`
	placeBody := `{"id":"place_123","formattedAddress":"Riverside Drive, Westlands, Nairobi","location":{"latitude":-1.2635,"longitude":36.8028}}`

	var autocompleteInput string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		body := placeBody
		if strings.Contains(req.URL.Path, "places:autocomplete") {
			body = autocompleteBody
			payload, err := io.ReadAll(req.Body)
			if err != nil {
				t.Fatalf("read autocomplete body: %v", err)
			}
			var decoded map[string]any
			if err := json.Unmarshal(payload, &decoded); err != nil {
				t.Fatalf("unmarshal autocomplete body: %v", err)
			}
			autocompleteInput, _ = decoded["input"].(string)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://maps.test/v1"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	lat, lng, err := client.Geocode(context.Background(), "Riverside Drive", "Nairobi")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if autocompleteInput != "Riverside Drive, Nairobi" {
		t.Fatalf("unexpected autocomplete input %q", autocompleteInput)
	}
	if lat != -1.2635 || lng != 36.8028 {
		t.Fatalf("unexpected coordinates %v,%v", lat, lng)
	}
}

func TestClientGeocodeNoMatches(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"suggestions":[]}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://maps.test/v1"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, _, err := client.Geocode(context.Background(), "", "Atlantis"); err == nil {
		t.Fatal("expected error when nothing matches")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

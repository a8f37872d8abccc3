// Package mockhttp provides a builder pattern for creating mock HTTP servers in tests.
//
// This package eliminates boilerplate when testing API clients by providing
// a fluent API for configuring mock responses, enforcing bearer credentials,
// and capturing requests.
//
// # Basic Usage
//
// Create a mock server that returns JSON:
//
//	server := mockhttp.New().
//		JSON("/users/", []User{{ID: 1, Username: "alice"}}).
//		Build()
//	defer server.Close()
//
// # Status Codes
//
// Return specific status codes with or without bodies:
//
//	server := mockhttp.New().
//		Status("/projects/9", http.StatusNoContent).
//		StatusWithBody("/error", 500, `{"error": "internal"}`).
//		JSONWithStatus("/projects", 201, map[string]string{"id": "123"}).
//		Build()
//
// # Request Capture
//
// Capture requests for assertion in tests:
//
//	builder := mockhttp.New()
//	capture := builder.Capture()
//	server := builder.
//		JSON("/projects", response).
//		Build()
//	defer server.Close()
//
//	// ... make requests ...
//
//	req := capture.Last()
//	if req.Method != "POST" {
//		t.Errorf("expected POST, got %s", req.Method)
//	}
//
//	var body CreateProjectRequest
//	req.BodyJSON(&body)
//
// # Authentication
//
// Require a bearer credential; mismatches get the platform's 401 envelope:
//
//	server := mockhttp.New().
//		RequireBearer("tok-123").
//		JSON("/dashboard", data).
//		Build()
//
// # Custom Handlers
//
// Add custom routing logic:
//
//	server := mockhttp.New().
//		Route("POST", "/v1/tickets", func(w http.ResponseWriter, r *http.Request) {
//			var ticket Ticket
//			json.NewDecoder(r.Body).Decode(&ticket)
//			w.WriteHeader(http.StatusCreated)
//			json.NewEncoder(w).Encode(ticket)
//		}).
//		Build()
//
// # Path Matching
//
// Paths support exact match and prefix match with "*" suffix:
//
//	server := mockhttp.New().
//		JSON("/exact/path", data1).           // Matches only /exact/path
//		JSON("/prefix/*", data2).             // Matches /prefix/anything
//		Build()
package mockhttp

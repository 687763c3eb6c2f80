// Package rescue provides an HTTP client for the RescueWorks backend API.
//
// # Overview
//
// This package is the Remote Data Gateway: the only place the client performs
// network I/O. It handles request construction, bearer credentials, JSON
// decoding and error classification. All business rules (adoption workflow,
// medical record semantics, authorization) live in the backend.
//
// # Architecture
//
//   - client.go: Client, the Gateway interface and request/response handling
//   - types.go: data structures mirroring the API schema
//
// # Client Usage
//
//	store := &session.Store{}
//	client, err := rescue.NewClient("http://127.0.0.1:8000",
//		rescue.WithTokenSource(store),
//		rescue.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		return err
//	}
//
//	token, err := client.Login(ctx, "vet@example.org", "secret")
//	if err != nil {
//		return err
//	}
//	store.SetToken(token)
//
//	pets, err := client.FetchPets(ctx) // now carries Authorization: Bearer ...
//
// # Credentials
//
// The client never decides whether a user is logged in. It asks its
// TokenSource for a token on every request and attaches it when present, so
// setting or clearing the session takes effect on the next call without
// rebuilding the client.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Set Accept: application/json and User-Agent: rescuetui/0.1
//   - Carry a fresh X-Request-ID (UUID) for correlation with backend logs
//   - Read at most 1 MiB of response body; a larger success body fails
//     with ErrResponseTooLarge
//
// # Error Handling
//
//   - Network errors: "execute request: ..."
//   - HTTP errors: *APIError with the FastAPI detail message when present;
//     errors.Is(err, ErrUnauthorized) reports 401/403 responses
//   - Deserialization errors: "decode response: ..."
//
// There are no retries. Controllers decide what a failure means for the screen.
package rescue

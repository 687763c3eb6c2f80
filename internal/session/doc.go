// Package session holds the client's authentication token.
//
// There is exactly one Store per process. The composition root creates it and
// hands the same pointer to the rescue.Client (as its TokenSource) and to the
// UI shell, so the token's lifetime is visible in code and in tests instead of
// living in a package-level global.
//
// The store never validates tokens. A rejected or expired token is only
// discovered when the backend refuses a request. Claims exists purely so the
// header can show who is signed in.
//
// Sessions are not persisted; restarting the client starts logged out.
package session

// Package backend is the client for the CrowdPredictor prediction backend.
//
// Every privileged call takes the caller's session.Session explicitly and
// sends its token as a bearer credential. Anonymous sessions are refused
// locally with ErrUnauthenticated, so no request leaves the process.
//
// Failures fall into a small taxonomy:
//
//	errors.Is(err, backend.ErrUnauthenticated) // 401/403 or anonymous session
//	errors.Is(err, backend.ErrConnectivity)    // no response at all
//	errors.Is(err, backend.ErrInvalidResponse) // 2xx with an undecodable body
//
//	var be *backend.Error
//	errors.As(err, &be) // any other non-2xx; be.Message is user-facing
//
// The client never retries and has no timeout of its own.
package backend

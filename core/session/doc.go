// Package session holds the authenticated-user context: a bearer token and
// the user it belongs to.
//
// A Session is either authenticated or anonymous; there is no partial state.
// Manager.Login is the single constructor and Manager.Logout the single
// destructor. Manager.Restore rebuilds a session from whatever a previous run
// persisted and discards malformed records instead of failing:
//
//	mgr := session.NewManager(session.NewMemoryStore())
//	sess, err := mgr.Restore(ctx, sid)  // anonymous when nothing is stored
//	sess, err = mgr.Login(ctx, sid, token, user)
//	err = mgr.Logout(ctx, sid)
//
// Records live in a Store: MemoryStore for tests and single-process
// deployments, RedisStore for shared deployments and FileStore for the
// command line client.
package session

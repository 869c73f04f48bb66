// Package sessiontransport carries session ids between the browser and the
// session store using a sealed cookie.
//
//	tr := sessiontransport.NewCookie(manager, cookies, "__session")
//	sess, err := tr.Load(ctx)             // anonymous when no valid cookie
//	sess, err = tr.Login(ctx, token, user) // new id, cookie refreshed
//	err = tr.Logout(ctx)                  // record and cookie removed
package sessiontransport

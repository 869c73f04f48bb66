// Package cookie manages HTTP cookies with sealed (encrypted and
// authenticated) values and one-shot flash messages.
//
// Values are sealed with XChaCha20-Poly1305. Each secret is hashed into a
// 256-bit key; the first secret seals, every secret is tried when opening,
// so secrets can be rotated by prepending a new one to COOKIE_SECRETS.
// The cookie name is bound as additional data, so a sealed value cannot be
// replayed under another cookie name.
//
//	m, err := cookie.New([]string{secret}, cookie.WithSecure(true))
//	err = m.SetSealed(w, "sid", sessionID)
//	id, err := m.GetSealed(r, "sid")
//
// Flash messages survive exactly one redirect:
//
//	m.SetFlash(w, "notice", Flash{Kind: "error", Message: "route not found"})
//	var f Flash
//	err := m.GetFlash(w, r, "notice", &f)
package cookie

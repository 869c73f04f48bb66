// Package static serves embedded assets.
//
//	//go:embed assets
//	var assets embed.FS
//
//	r.Get("/assets/{file:.*}", static.FS[*router.Context](assets,
//		static.WithSubFS("assets"),
//		static.WithStripPrefix("/assets"),
//	))
package static

// Package binder decodes request bodies into structs.
//
//	type searchForm struct {
//		Origin      string    `form:"origin"`
//		Destination string    `form:"destination"`
//		At          time.Time `form:"datetime"`
//	}
//
//	var f searchForm
//	if err := binder.Form()(r, &f); err != nil {
//		return response.Error(response.ErrBadRequest.WithError(err))
//	}
//
// Bind chooses between Form and JSON from the Content-Type header.
package binder

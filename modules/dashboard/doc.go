// Package dashboard exposes the notification engine, billing checkout and
// KYC submission to the dashboard frontend over a chi router.
//
// All notification mutations go through the Reconciler so the optimistic
// protocol holds regardless of which surface triggered them. Collection
// changes and toast activity stream to the frontend over SSE.
//
//	r := chi.NewRouter()
//	r.Mount("/dashboard", dashboard.Router(dashboard.Config{
//		Store:      store,
//		Reconciler: rec,
//		Views:      views,
//	}))
package dashboard

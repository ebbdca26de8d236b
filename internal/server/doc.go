// Package server provides HTTP routing, middleware and the JSON handlers of the translation API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # API
//
//	GET    /api/sites/                  list sites
//	POST   /api/sites/                  create a site
//	DELETE /api/sites/{name}            delete a site and its translations
//	POST   /api/translations/           create a translation
//	GET    /api/translations/?site=a,b  export sites to a stored archive and return its manifest
//	GET    /api/translations/export.zip stream the archive without storing it
//	GET    /api/exports/                export history
//	GET    /media/...                   download a stored archive
//	GET    /healthz                     health checks
//
// Validation failures are returned as a field -> messages object with status 400. Other failures use
// {"error": "..."} with 404 for missing sites or an empty export request and 500 for everything unexpected.
package server

package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Login service
	RouteRequest   = "/request"
	RouteCallback  = "/callback"
	RouteProtected = "/protected"
	RouteLogout    = "/logout"

	// Blog service
	RoutePostsList   = "/posts/list/{page}/{limit}"
	RoutePostsGet    = "/posts/get/{id}"
	RoutePostsDrafts = "/posts/drafts"
	RoutePostsDraft  = "/posts/draft/{id}/{draft}"
	RoutePostsHide   = "/posts/hide/{id}/{hide}"
	RoutePostsEdit   = "/posts/edit/{id}"
	RouteUpload      = "/upload"

	// File delivery service
	RouteCDNGet = "/get/{bucket}/{name}/{hash}"
)

package server

func (s *Server) initRoutes() {
	if s.auth != nil {
		s.RegisterRouteHandler("GET "+RouteRequest, ChainMiddleware(s.RequestLoginHandler(), s.LoginMiddleware()...))
		s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.LoginMiddleware()...))
		s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAccount)...))
		s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAccount)...))
	}

	if s.resolver != nil {
		s.RegisterRouteHandler("GET "+RouteProtected, ChainMiddleware(s.ProtectedHandler(), s.APIMiddleware(s.RequireAccount)...))
	}

	if s.posts != nil {
		s.RegisterRouteHandler("GET "+RoutePostsList, ChainMiddleware(s.ListPostsHandler(), s.APIMiddleware()...))
		s.RegisterRouteHandler("GET "+RoutePostsGet, ChainMiddleware(s.GetPostHandler(), s.APIMiddleware(s.OptionalAccount)...))
		s.RegisterRouteHandler("GET "+RoutePostsDrafts, ChainMiddleware(s.DraftsHandler(), s.APIMiddleware(s.RequireAccount)...))
		s.RegisterRouteHandler("PATCH "+RoutePostsDraft, ChainMiddleware(s.SetDraftHandler(), s.APIMiddleware(s.RequireAccount)...))
		s.RegisterRouteHandler("PATCH "+RoutePostsHide, ChainMiddleware(s.SetHiddenHandler(), s.APIMiddleware(s.RequireAccount)...))
		s.RegisterRouteHandler("PATCH "+RoutePostsEdit, ChainMiddleware(s.EditPostHandler(), s.APIMiddleware(s.RequireAccount)...))
		s.RegisterRouteHandler("POST "+RouteUpload, ChainMiddleware(s.UploadPostHandler(), s.APIMiddleware(s.RequireAccount)...))
	}

	if s.cdn != nil {
		s.RegisterRouteHandler("GET "+RouteCDNGet, ChainMiddleware(s.CDNGetHandler(), s.APIMiddleware()...))
	}

	s.RegisterRouteFunc("/", ChainMiddleware(s.FallbackHandler(), s.APIMiddleware()...))
}

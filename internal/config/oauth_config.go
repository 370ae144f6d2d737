package config

// OAuth describes the single OAuth2 identity provider the login service talks to.
// Defaults point at GitHub.
type OAuth struct {
	ClientID     string `env:"BLOG_CLIENT_ID,required"`
	ClientSecret string `env:"BLOG_CLIENT_SECRET,required"`
	RedirectURI  string `env:"BLOG_REDIRECT_URI" envDefault:"http://127.0.0.1:3001/callback"`
	AuthorizeURL string `env:"BLOG_OAUTH_AUTHORIZE_URL" envDefault:"https://github.com/login/oauth/authorize"`
	TokenURL     string `env:"BLOG_OAUTH_TOKEN_URL" envDefault:"https://github.com/login/oauth/access_token"`
	ProfileURL   string `env:"BLOG_OAUTH_PROFILE_URL" envDefault:"https://api.github.com/user"`
	UserAgent    string `env:"BLOG_OAUTH_USER_AGENT" envDefault:"go-blog-server"`
}

package config

import "strings"

type Cors struct {
	Origins        []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	AllowedMethods string   `env:"CORS_ALLOWED_METHODS" envDefault:"GET, POST, PUT, PATCH, DELETE"`
	AllowedHeaders string   `env:"CORS_ALLOWED_HEADERS" envDefault:"Content-Type, Authorization"`
}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

func (c Cors) GetAllowedOrigins() AllowedOrigins {
	origins := make(AllowedOrigins, len(c.Origins))
	for _, o := range c.Origins {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = nullValue{}
		}
	}
	return origins
}

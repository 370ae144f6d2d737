package config

// Stores locates the ephemeral session store and the document store.
type Stores struct {
	RedisURI           string `env:"BLOG_REDIS_URI" envDefault:"redis://127.0.0.1:6379"`
	SessionKeyPrefix   string `env:"SESSION_KEY_PREFIX" envDefault:"session"`
	MongoURI           string `env:"BLOG_MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	AccountsDatabase   string `env:"ACCOUNTS_DATABASE" envDefault:"account"`
	AccountsCollection string `env:"ACCOUNTS_COLLECTION" envDefault:"accounts"`
	BlogDatabase       string `env:"BLOG_DATABASE" envDefault:"blog"`
	PostsCollection    string `env:"POSTS_COLLECTION" envDefault:"posts"`
}

// ObjectStorage locates the S3 compatible bucket store used by the CDN.
type ObjectStorage struct {
	Endpoint  string `env:"BLOG_MINIO_ENDPOINT" envDefault:"127.0.0.1:9000"`
	AccessKey string `env:"BLOG_MINIO_ACCESS_KEY,required"`
	SecretKey string `env:"BLOG_MINIO_SECRET_KEY,required"`
	Secure    bool   `env:"BLOG_MINIO_SECURE" envDefault:"false"`
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays values from environment variables. When -env names a
// dotenv file it is loaded first; variables already present in the process
// environment are not overridden by the file.
//
// Recognised variables:
//
//	HTTP_ADDRESS, GRPC_ADDRESS, STORE_BACKEND, MONGODB_URI, MONGODB_DATABASE,
//	DATABASE_DSN, JWT_SECRET, ACCESS_TOKEN_TTL, REDIS_ADDR, FEED_CACHE_TTL,
//	FEED_SIZE, NATS_URL, S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET,
//	S3_REGION, S3_BASE_ENDPOINT, CORS_ORIGINS, LOG_LEVEL
func parseEnv(config *Config) {
	if envFile := flagx.EnvFileFlags(); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	}

	envString(&config.EndpointAddrHTTP, "HTTP_ADDRESS")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDRESS")
	envString(&config.StoreBackend, "STORE_BACKEND")
	envString(&config.MongoURI, "MONGODB_URI")
	envString(&config.MongoDatabase, "MONGODB_DATABASE")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "JWT_SECRET")
	envDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL")
	envString(&config.RedisAddr, "REDIS_ADDR")
	envDuration(&config.FeedCacheTTL, "FEED_CACHE_TTL")
	envInt(&config.FeedSize, "FEED_SIZE")
	envString(&config.NATSURL, "NATS_URL")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.LogLevel, "LOG_LEVEL")

	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		config.CORSOrigins = flagx.SplitList(v)
	}
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

func envInt(dst *int, name string) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

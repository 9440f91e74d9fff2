package common

const (
	RedisKeyDigestLatest = "digest:latest"
	RedisKeyDigestByDate = "digest:%s"

	RedisDigestCacheTTL = "10m"
)

package redis

import (
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=mocks/redis.go -package=redismocks -source=interface.go

// Client is the subset of go-redis every repository is written against
type Client interface {
	redis.UniversalClient
}

// Pipeliner is the transaction pipeline returned by Client.TxPipeline
type Pipeliner interface {
	redis.Pipeliner
}

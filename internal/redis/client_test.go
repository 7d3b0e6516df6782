package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-workshop/internal/redis"
)

type ClientTestSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TestNewClientRequiresAddress() {
	client, err := redis.NewClient("", nil)
	s.Error(err)
	s.Nil(client)
}

func (s *ClientTestSuite) TestPing() {
	mr := miniredis.RunT(s.T())

	client, err := redis.NewClient(mr.Addr(), &redis.Options{PoolSize: 2})
	s.Require().NoError(err)
	defer func() { _ = client.Close() }()

	s.NoError(redis.Ping(context.Background(), client, time.Second))

	mr.Close()
	s.Error(redis.Ping(context.Background(), client, 200*time.Millisecond))
}

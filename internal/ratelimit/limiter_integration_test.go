//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pfaportal/internal/ratelimit"
	"pfaportal/pkg/testutil/containers"
)

type LimiterSuite struct {
	suite.Suite
	redis   *containers.RedisContainer
	limiter *ratelimit.Limiter
}

func TestLimiterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LimiterSuite))
}

func (s *LimiterSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *LimiterSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.limiter = ratelimit.NewLimiter(s.redis.Client, time.Minute, map[ratelimit.Class]int{
		ratelimit.ClassIntake: 3,
		ratelimit.ClassLogin:  2,
	})
}

func (s *LimiterSuite) TestWindowCounting() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := s.limiter.Check(ctx, ratelimit.ClassIntake, "203.0.113.7")
		s.Require().NoError(err)
		s.True(result.Allowed, "request %d should be allowed", i+1)
		s.Equal(3, result.Limit)
		s.Equal(2-i, result.Remaining)
	}

	result, err := s.limiter.Check(ctx, ratelimit.ClassIntake, "203.0.113.7")
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Zero(result.Remaining)
	s.Positive(result.RetryAfter)
}

func (s *LimiterSuite) TestClientsAreIndependent() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.limiter.Check(ctx, ratelimit.ClassIntake, "203.0.113.7")
		s.Require().NoError(err)
	}

	result, err := s.limiter.Check(ctx, ratelimit.ClassIntake, "198.51.100.2")
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *LimiterSuite) TestClassesAreIndependent() {
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := s.limiter.Check(ctx, ratelimit.ClassLogin, "203.0.113.7")
		s.Require().NoError(err)
	}
	blocked, err := s.limiter.Check(ctx, ratelimit.ClassLogin, "203.0.113.7")
	s.Require().NoError(err)
	s.False(blocked.Allowed)

	intake, err := s.limiter.Check(ctx, ratelimit.ClassIntake, "203.0.113.7")
	s.Require().NoError(err)
	s.True(intake.Allowed)
}

func (s *LimiterSuite) TestUnknownClassPassesThrough() {
	result, err := s.limiter.Check(context.Background(), ratelimit.Class("other"), "203.0.113.7")
	s.Require().NoError(err)
	s.True(result.Allowed)
}

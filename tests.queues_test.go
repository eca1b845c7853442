package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestGetRedisClientUnreachable ensures the connection check failure
// surfaces an error without leaking an open client to the caller.
func TestGetRedisClientUnreachable(t *testing.T) {
	config := &Config{
		Redis: RedisConfig{
			Host:        "127.0.0.1",
			Port:        "1",
			DialTimeout: 200 * time.Millisecond,
		},
	}
	client, err := GetRedisClient(config)
	assert.Error(t, err)
	assert.Nil(t, client)
}

// internal/gateway/builder.go
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/cats-bridge/internal/config"
	"github.com/tamzrod/cats-bridge/internal/pvstore"
)

// Build connects to Redis and creates the gateway.
// The returned close function releases the client.
func Build(ctx context.Context, r cfg.RedisConfig, device string, store *pvstore.Store, log logrus.FieldLogger) (*Gateway, func() error, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("gateway: connect %s: %w", r.Addr, err)
	}

	g, err := New(client, store, Config{Prefix: r.KeyPrefix, Device: device}, log)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return g, client.Close, nil
}

// internal/gateway/gateway_test.go
package gateway

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/tamzrod/cats-bridge/internal/config"
	"github.com/tamzrod/cats-bridge/internal/pvstore"
)

func setup(t *testing.T) (*Gateway, *pvstore.Store, *miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), Protocol: 2})
	t.Cleanup(func() { _ = client.Close() })

	store, err := pvstore.New([]pvstore.Field{
		{Name: "ENABLED", Kind: pvstore.KindInt, Default: 1},
		{Name: "PAR:nextPort", Kind: pvstore.KindString},
		{Name: "STATE:inputs", Kind: pvstore.KindBits},
	})
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	g, err := New(client, store, Config{Prefix: "cats", Device: "bob"}, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = g.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// initial sync marks the subscription as live
	require.Eventually(t, func() bool {
		return mr.HGet(g.ValuesKey(), "ENABLED") == "1"
	}, time.Second, time.Millisecond)

	return g, store, mr, client
}

func TestNew_Validation(t *testing.T) {
	store, err := pvstore.New(nil)
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	_, err = New(nil, store, Config{Prefix: "p", Device: "d"}, nil)
	assert.Error(t, err)
	_, err = New(client, nil, Config{Prefix: "p", Device: "d"}, nil)
	assert.Error(t, err)
	_, err = New(client, store, Config{Prefix: "p"}, nil)
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	g, _, _, _ := setup(t)
	assert.Equal(t, "cats:bob:pv", g.ValuesKey())
	assert.Equal(t, "cats:bob:changes", g.ChangesChannel())
	assert.Equal(t, "cats:bob:put", g.PutChannel())
}

func TestMirrorsStoreWrites(t *testing.T) {
	g, store, mr, client := setup(t)

	sub := client.Subscribe(context.Background(), g.ChangesChannel())
	defer sub.Close()
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	require.NoError(t, store.Put("STATE:inputs", big.NewInt(11)))

	require.Eventually(t, func() bool {
		return mr.HGet(g.ValuesKey(), "STATE:inputs") == "11"
	}, time.Second, time.Millisecond)

	select {
	case m := <-sub.Channel():
		var ev Event
		require.NoError(t, json.Unmarshal([]byte(m.Payload), &ev))
		assert.Equal(t, "STATE:inputs", ev.Name)
		assert.Equal(t, "11", ev.Value)
	case <-time.After(time.Second):
		t.Fatal("no change event published")
	}
}

func TestAppliesExternalPuts(t *testing.T) {
	g, store, mr, client := setup(t)
	ctx := context.Background()

	require.NoError(t, client.Publish(ctx, g.PutChannel(), `{"name":"PAR:nextPort","value":"L1C1"}`).Err())
	require.NoError(t, client.Publish(ctx, g.PutChannel(), `{"name":"ENABLED","value":0}`).Err())

	require.Eventually(t, func() bool { return store.Int("ENABLED") == 0 }, time.Second, time.Millisecond)
	assert.Equal(t, "L1C1", store.Text("PAR:nextPort"))

	// the write is mirrored back to the hash
	require.Eventually(t, func() bool {
		return mr.HGet(g.ValuesKey(), "ENABLED") == "0"
	}, time.Second, time.Millisecond)
}

func TestIgnoresBadPuts(t *testing.T) {
	g, store, _, client := setup(t)
	ctx := context.Background()

	require.NoError(t, client.Publish(ctx, g.PutChannel(), `not json`).Err())
	require.NoError(t, client.Publish(ctx, g.PutChannel(), `{"name":"NOPE","value":1}`).Err())
	require.NoError(t, client.Publish(ctx, g.PutChannel(), `{"name":"ENABLED","value":"abc"}`).Err())
	require.NoError(t, client.Publish(ctx, g.PutChannel(), `{"name":"PAR:nextPort","value":"P1A1"}`).Err())

	require.Eventually(t, func() bool { return store.Text("PAR:nextPort") == "P1A1" }, time.Second, time.Millisecond)
	assert.Equal(t, 1, store.Int("ENABLED"))
}

func TestBuild(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := pvstore.New(nil)
	require.NoError(t, err)

	addr := mr.Addr()

	g, closeFn, err := Build(context.Background(), cfg.RedisConfig{Addr: addr, KeyPrefix: "cats"}, "bob", store, nil)
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, "cats:bob:pv", g.ValuesKey())

	// the closed server's address refuses connections
	mr.Close()
	_, _, err = Build(context.Background(), cfg.RedisConfig{Addr: addr, KeyPrefix: "cats"}, "bob", store, nil)
	assert.Error(t, err)
}

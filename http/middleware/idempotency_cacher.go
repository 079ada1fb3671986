package middleware

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/sik"
)

const (
	// IdempotencyTTL is how long an idempotency key is remembered.
	IdempotencyTTL = 24 * time.Hour

	redisKeyPrefix = "sik:idempotency:"
)

var (
	_ IdempotencyCacher = new(IdemResMap)
	_ IdempotencyCacher = IdemResRedis{}
)

// An IdempotencyCacher can store responses paired to idempotency keys.
type IdempotencyCacher interface {
	// Claim pairs idemRes with key unless key is already paired,
	// in which case it returns the stored IdemRes and false.
	Claim(ctx context.Context, key string, idemRes IdemRes) (IdemRes, bool, error)

	// Get retrieves the IdemRes paired with key.
	Get(ctx context.Context, key string) (IdemRes, bool)

	// Set overwrites the IdemRes paired with key.
	Set(ctx context.Context, key string, idemRes IdemRes) error
}

// An IdemResMap stores idempotency key, IdemRes value pairs in a map.
//
// Server restarts reset this map.
// IdemResMap ought not be used when running more than one instance.
type IdemResMap struct {
	mu  sync.Mutex
	val map[string]idemResMapVal
}

type idemResMapVal struct {
	IdemRes

	at time.Time
}

// NewIdemResMap constructs an *IdemResMap
// for use in an Idempotent middleware as a cache.
func NewIdemResMap() *IdemResMap {
	return &IdemResMap{val: make(map[string]idemResMapVal)}
}

// Claim stores idemRes under key unless a live value is already there.
//
// For each call to Claim, keys older than IdempotencyTTL are evicted.
func (i *IdemResMap) Claim(ctx context.Context, key string, idemRes IdemRes) (IdemRes, bool, error) {
	if err := ctx.Err(); err != nil {
		return IdemRes{}, false, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.evict()
	if v, ok := i.val[key]; ok {
		return v.IdemRes, false, nil
	}

	i.val[key] = idemResMapVal{IdemRes: idemRes, at: time.Now()}
	return idemRes, true, nil
}

// Get retrieves the result of the request matching the idempotency key
// much like a regular map.
func (i *IdemResMap) Get(ctx context.Context, key string) (IdemRes, bool) {
	if key == "" || ctx.Err() != nil {
		return IdemRes{}, false
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	v, ok := i.val[key]
	if !ok || time.Since(v.at) > IdempotencyTTL {
		return IdemRes{}, false
	}

	return v.IdemRes, true
}

// Set overwrites the value paired to key in the map,
// keeping the time key was first claimed.
func (i *IdemResMap) Set(ctx context.Context, key string, idemRes IdemRes) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	at := time.Now()
	if v, ok := i.val[key]; ok {
		at = v.at
	}

	i.val[key] = idemResMapVal{IdemRes: idemRes, at: at}
	return nil
}

func (i *IdemResMap) evict() {
	for k, v := range i.val {
		if time.Since(v.at) > IdempotencyTTL {
			delete(i.val, k)
		}
	}
}

// An IdemResRedis connects to a Redis backend
// for the purposes of caching idempotent responses.
//
// Keys expire after IdempotencyTTL.
type IdemResRedis struct {
	client *redis.Client
}

// NewRedisCache constructs an IdemResRedis backed by client.
func NewRedisCache(client *redis.Client) IdemResRedis {
	return IdemResRedis{client: client}
}

// Claim uses SETNX so only one request across every instance sharing the backend claims key.
func (i IdemResRedis) Claim(ctx context.Context, key string, idemRes IdemRes) (IdemRes, bool, error) {
	b, err := encodeIdemRes(idemRes)
	if err != nil {
		return IdemRes{}, false, err
	}

	ok, err := i.client.SetNX(ctx, redisKeyPrefix+key, b, IdempotencyTTL).Result()
	if err != nil {
		return IdemRes{}, false, fmt.Errorf("%w: claiming idempotency key: %s", sik.ErrNotValid, err)
	}

	if ok {
		return idemRes, true, nil
	}

	prev, found := i.Get(ctx, key)
	if !found {
		return IdemRes{}, false, fmt.Errorf("%w: idempotency key %s", sik.ErrNotExist, key)
	}

	return prev, false, nil
}

// Get retrieves the IdemRes paired to key from the connected Redis backend.
func (i IdemResRedis) Get(ctx context.Context, key string) (IdemRes, bool) {
	b, err := i.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		return IdemRes{}, false
	}

	ir, err := decodeIdemRes(b)
	if err != nil {
		return IdemRes{}, false
	}

	return ir, true
}

// Set saves the IdemRes by pairing it to the key in the Redis backend,
// keeping the TTL started by Claim.
func (i IdemResRedis) Set(ctx context.Context, key string, idemRes IdemRes) error {
	b, err := encodeIdemRes(idemRes)
	if err != nil {
		return err
	}

	return i.client.Set(ctx, redisKeyPrefix+key, b, redis.KeepTTL).Err()
}

func encodeIdemRes(ir IdemRes) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(buf).Encode(ir); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeIdemRes(b []byte) (IdemRes, error) {
	var ir IdemRes
	err := gob.NewDecoder(bytes.NewReader(b)).Decode(&ir)
	return ir, err
}

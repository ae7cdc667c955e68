package presence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// registerScript sets the forward and reverse keys and drops the reverse key of
// an orphaned previous connection.
var registerScript = redis.NewScript(`
local prev = redis.call("GET", KEYS[1])
if prev and prev ~= ARGV[1] then
	redis.call("DEL", ARGV[3] .. prev)
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[4])
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[4])
return 1
`)

// refreshScript extends both keys of a live connection. The forward key is
// only extended while it still points at this connection.
var refreshScript = redis.NewScript(`
local identity = redis.call("GET", KEYS[1])
if not identity then
	return 0
end
redis.call("PEXPIRE", KEYS[1], ARGV[3])
local forward = ARGV[1] .. identity
if redis.call("GET", forward) == ARGV[2] then
	redis.call("PEXPIRE", forward, ARGV[3])
end
return 1
`)

// unregisterScript removes the reverse key and the forward key only while it
// still points at this connection.
var unregisterScript = redis.NewScript(`
local identity = redis.call("GET", KEYS[1])
if not identity then
	return false
end
redis.call("DEL", KEYS[1])
local forward = ARGV[1] .. identity
if redis.call("GET", forward) == ARGV[2] then
	redis.call("DEL", forward)
end
return identity
`)

// DefaultTTL bounds how long an entry outlives an instance that died without
// unregistering.
const DefaultTTL = 2 * time.Minute

type redisRegistry struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisRegistry shares presence across instances through redis. Entries
// expire after ttl unless Refresh is called.
func NewRedisRegistry(client *redis.Client, prefix string, ttl time.Duration) Registry {
	if prefix == "" {
		prefix = "presence"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisRegistry{client: client, prefix: prefix, ttl: ttl}
}

func (r *redisRegistry) forwardKey(kind, participantID string) string {
	return fmt.Sprintf("%s:user:%s:%s", r.prefix, kind, participantID)
}

func (r *redisRegistry) connKeyPrefix() string {
	return r.prefix + ":conn:"
}

func (r *redisRegistry) Register(ctx context.Context, participantID, kind, connID string) error {
	keys := []string{r.forwardKey(kind, participantID), r.connKeyPrefix() + connID}
	err := registerScript.Run(ctx, r.client, keys, connID, kind+":"+participantID, r.connKeyPrefix(), r.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("register presence: %w", err)
	}
	return nil
}

func (r *redisRegistry) Refresh(ctx context.Context, connID string) error {
	err := refreshScript.Run(ctx, r.client, []string{r.connKeyPrefix() + connID}, r.prefix+":user:", connID, r.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("refresh presence: %w", err)
	}
	return nil
}

func (r *redisRegistry) Lookup(ctx context.Context, participantID, kind string) (string, bool, error) {
	connID, err := r.client.Get(ctx, r.forwardKey(kind, participantID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup presence: %w", err)
	}
	return connID, true, nil
}

func (r *redisRegistry) Unregister(ctx context.Context, connID string) (Identity, bool, error) {
	res, err := unregisterScript.Run(ctx, r.client, []string{r.connKeyPrefix() + connID}, r.prefix+":user:", connID).Text()
	if err == redis.Nil {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, fmt.Errorf("unregister presence: %w", err)
	}

	kind, participantID, ok := strings.Cut(res, ":")
	if !ok {
		return Identity{}, false, nil
	}
	return Identity{ParticipantID: participantID, Kind: kind}, true, nil
}

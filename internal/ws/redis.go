package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/rlflinkage/backend/internal/config"
)

// eventsChannel carries geometry updates between instances.
const eventsChannel = "linkage_events"

var rdbClient *redis.Client
var wsConfig *config.Config
var instanceID string

// SetRedisClient wires the optional Redis relay. Without it the hub only
// fans out to local clients.
func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
	instanceID = generateConnectionID()
	log.Printf("[WS] Redis relay wired (env=%s instance=%s)", wsConfig.Environment, instanceID)
}

// PublishGeometryUpdate publishes a broadcast event for other instances.
// No-op when Redis is not configured.
func PublishGeometryUpdate(event map[string]interface{}) {
	if rdbClient == nil {
		return
	}

	payload := make(map[string]interface{}, len(event)+1)
	for k, v := range event {
		payload[k] = v
	}
	payload["instance"] = instanceID

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WS] error marshaling event: %v", err)
		return
	}

	if err := rdbClient.Publish(context.Background(), eventsChannel, data).Err(); err != nil {
		log.Printf("[WS] error publishing event: %v", err)
	}
}

// StartEventSubscriber rebroadcasts geometry updates published by other
// instances to the local clients.
func StartEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis not configured; event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, eventsChannel)
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] linkage_events subscriber started")
		for msg := range ch {
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}

			// Skip our own publishes; local clients already got them.
			if origin, _ := payload["instance"].(string); origin == instanceID {
				continue
			}
			delete(payload, "instance")

			typeStr, _ := payload["type"].(string)
			switch typeStr {
			case "geometry_update":
				LinkageHub.Broadcast(payload, "")
			default:
				log.Printf("[WS] unknown event type: %s", typeStr)
			}
		}
	}()
}

// Connect establishes and verifies a Redis connection.
func Connect(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

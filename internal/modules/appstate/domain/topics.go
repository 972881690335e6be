package domain

import "strings"

// SystemEntity prefixes messages about the stream itself rather than cached data.
const SystemEntity = "system"

const (
	ActionConnected  = "connected"
	ActionSubscribed = "subscribed"
	ActionPong       = "pong"
	ActionLoaded     = "loaded"
	ActionCreated    = "created"
	ActionUpdated    = "updated"
	ActionDeleted    = "deleted"
)

const TopicSystemConnected = SystemEntity + "." + ActionConnected

// CustomTopic joins entity and action as "<entity>.<action>"; either part blank yields "".
func CustomTopic(entity, action string) string {
	entity, action = strings.TrimSpace(entity), strings.TrimSpace(action)
	if entity == "" || action == "" {
		return ""
	}
	return entity + "." + action
}

// SplitTopic cuts at the last dot: "restaurants.updated" => ("restaurants", "updated").
// A topic without a usable action comes back whole as the entity.
func SplitTopic(topic string) (string, string) {
	idx := strings.LastIndex(topic, ".")
	if idx <= 0 || idx == len(topic)-1 {
		return strings.TrimSpace(topic), ""
	}
	return strings.TrimSpace(topic[:idx]), strings.TrimSpace(topic[idx+1:])
}

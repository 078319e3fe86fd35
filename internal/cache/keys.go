package cache

import "strings"

const (
	GlobalKeyPrefix = "quizmaker"
)

// GenerateCacheKey builds "quizmaker:<service>:<objectType>:<identifier>[:<params joined by _>]".
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// SliceKey namespaces a persisted slice key under prefix, e.g. "quizmaker:slice:history".
func SliceKey(prefix, key string) string {
	if prefix == "" {
		prefix = GlobalKeyPrefix
	}
	return prefix + ":slice:" + key
}

// SliceUpdatesChannel is the pub/sub channel a slice save is announced on.
func SliceUpdatesChannel(prefix, key string) string {
	if prefix == "" {
		prefix = GlobalKeyPrefix
	}
	return prefix + ":updates:" + key
}

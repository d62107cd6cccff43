// Package redis connects to the Redis server shared by the payload cache and
// the distributed sync locks.
package redis

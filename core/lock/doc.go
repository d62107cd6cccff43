// Package lock provides exclusive leases used to keep one synchronization
// run per entity kind.
//
// RedisLocker (backed by bsm/redislock) coordinates several replicas; LocalLocker
// is used when Redis is disabled and only one process runs.
package lock

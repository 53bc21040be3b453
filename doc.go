// Package sidemon is a read-only monitor for Sidekiq, the Ruby background job system.
//
// It reads the state Sidekiq keeps in Redis and never writes to it: the registry of
// running processes and their heartbeats, the jobs each busy worker is running, the
// queues, and the retry, schedule and dead sets. Every query re-reads the store, so
// results are point-in-time snapshots.
//
// Key subpackages:
//
//	github.com/pixelvide/sidemon/pkg/sidekiq       - Domain types and strict record decoding
//	github.com/pixelvide/sidemon/pkg/collection    - Key naming and bounded reads of lists and sorted sets
//	github.com/pixelvide/sidemon/pkg/monitor       - Client facade, process/worker assembly and overview snapshots
//	github.com/pixelvide/sidemon/pkg/driver/redis  - go-redis backed store with per-request sessions
//	github.com/pixelvide/sidemon/pkg/server        - Web dashboard and JSON API
//	github.com/pixelvide/sidemon/pkg/console       - inspect, watch and serve commands
//
// Example Usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/pixelvide/sidemon/pkg/config"
//		"github.com/pixelvide/sidemon/pkg/driver/redis"
//		"github.com/pixelvide/sidemon/pkg/monitor"
//	)
//
//	func main() {
//		driver, err := redis.NewRedisDriver(config.RedisConfig{URL: "redis://localhost:6379/0"})
//		if err != nil {
//			panic(err)
//		}
//		defer driver.Close()
//
//		client := monitor.New(driver)
//		dead, err := client.Dead(context.Background(), 10)
//		if err != nil {
//			panic(err)
//		}
//		fmt.Println(len(dead), "dead jobs")
//	}
package sidemon

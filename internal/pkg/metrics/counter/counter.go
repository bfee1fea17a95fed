package counter

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dinefront/dinefront/internal/pkg/cache"
	"github.com/dinefront/dinefront/internal/pkg/database"
)

const (
	deliveryCalcKey = "delivery:counters:calculations"
	cacheHitKey     = "delivery:counters:cache_hits"
	cacheMissKey    = "delivery:counters:cache_misses"
)

// AddDeliveryCalculation increments the pending calculation counter for a
// branch in Redis. Flushed to the branches table by the background worker.
func AddDeliveryCalculation(branchID uint) error {
	ctx := context.Background()
	field := strconv.FormatUint(uint64(branchID), 10)
	return cache.GetClient().HIncrBy(ctx, deliveryCalcKey, field, 1).Err()
}

// AddCacheHit increments the distance cache hit counter for a branch
func AddCacheHit(branchID uint) error {
	ctx := context.Background()
	field := strconv.FormatUint(uint64(branchID), 10)
	return cache.GetClient().HIncrBy(ctx, cacheHitKey, field, 1).Err()
}

// AddCacheMiss increments the distance cache miss counter for a branch
func AddCacheMiss(branchID uint) error {
	ctx := context.Background()
	field := strconv.FormatUint(uint64(branchID), 10)
	return cache.GetClient().HIncrBy(ctx, cacheMissKey, field, 1).Err()
}

// FlushAll flushes the pending calculation counters to the database. The
// hit/miss hashes stay in Redis; they feed the admin dashboard directly.
func FlushAll() error {
	return flushHashToTable(deliveryCalcKey, "branches", "delivery_calc_count")
}

// CacheStats returns the accumulated distance cache hit/miss counters per
// branch straight from Redis.
func CacheStats(branchID uint) (hits, misses int64, err error) {
	ctx := context.Background()
	rdb := cache.GetClient()
	field := strconv.FormatUint(uint64(branchID), 10)

	if v, err := rdb.HGet(ctx, cacheHitKey, field).Int64(); err == nil {
		hits = v
	}
	if v, err := rdb.HGet(ctx, cacheMissKey, field).Int64(); err == nil {
		misses = v
	}
	return hits, misses, nil
}

// flushHashToTable drains a Redis hash atomically and applies batched increments to the target table.
// Uses RENAME to a temporary key for atomic drain without losing in-flight increments.
func flushHashToTable(redisKey, table, column string) error {
	ctx := context.Background()
	rdb := cache.GetClient()

	// Atomically move the hash to a temp key for draining
	tmpKey := fmt.Sprintf("%s:tmp:%d", redisKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", redisKey, tmpKey).Err(); err != nil {
		// If key does not exist, nothing to flush
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		if err.Error() == "redis: nil" {
			return nil
		}
		return err
	}

	// Ensure cleanup of tmpKey even if later steps fail
	defer rdb.Del(ctx, tmpKey)

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	// Build batched UPDATE using CASE WHEN id THEN inc
	type pair struct {
		id  uint64
		inc int64
	}
	pairs := make([]pair, 0, len(data))
	for k, v := range data {
		id, perr := strconv.ParseUint(k, 10, 64)
		if perr != nil {
			continue
		}
		inc, ierr := strconv.ParseInt(v, 10, 64)
		if ierr != nil || inc == 0 {
			continue
		}
		pairs = append(pairs, pair{id: id, inc: inc})
	}
	if len(pairs) == 0 {
		return nil
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].id < pairs[j].id })

	// UPDATE branches SET <column> = <column> + CASE id WHEN ? THEN ? ... END WHERE id IN ( ... )
	var builder strings.Builder
	args := make([]interface{}, 0, len(pairs)*3)
	builder.WriteString("UPDATE ")
	builder.WriteString(table)
	builder.WriteString(" SET ")
	builder.WriteString(column)
	builder.WriteString(" = ")
	builder.WriteString(column)
	builder.WriteString(" + CASE id ")
	for _, p := range pairs {
		builder.WriteString(" WHEN ? THEN ?")
		args = append(args, p.id, p.inc)
	}
	builder.WriteString(" END WHERE id IN (")
	for i, p := range pairs {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString("?")
		args = append(args, p.id)
	}
	builder.WriteString(")")

	db := database.GetDB()
	if err := db.Exec(builder.String(), args...).Error; err != nil {
		return err
	}
	return nil
}

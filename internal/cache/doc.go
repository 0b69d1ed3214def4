// Package cache keeps fetched documents around between runs. It pairs an
// in-memory LRU (L1) with a zstd-compressed disk cache (L2) and expires
// entries after a TTL.
package cache

package hstore

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// StringHasher returns a seeded murmur3 hash function for string keys.
func StringHasher() func(key string, seed uint64) uint64 {
	return func(key string, seed uint64) uint64 {
		return murmur3.Sum64WithSeed([]byte(key), uint32(seed^(seed>>32)))
	}
}

// Uint64Hasher returns a seeded hash function for integer keys.
func Uint64Hasher[K ~uint64 | ~int64 | ~uint32 | ~int32 | ~int]() func(key K, seed uint64) uint64 {
	return func(key K, seed uint64) uint64 {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(key))
		return murmur3.Sum64WithSeed(b[:], uint32(seed^(seed>>32)))
	}
}

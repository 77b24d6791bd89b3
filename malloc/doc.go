// Package malloc supplies typed arenas for in-memory data structures,
// with a limited scope:
//
//   - Types and Functions exported by this package are not thread safe.
//   - An arena manages chunks of a single type T, handed out as integer
//     handles of type Ref instead of pointers. Handles stay valid until
//     the chunk is freed, independent of how the arena grows.
//   - Chunks are allocated in pools, where each pool manages up to
//     `maxchunks` chunks. Pools grow in size, starting small, so that
//     small data structures stay small.
//   - Once a pool is allocated it is not given back to the runtime,
//     pools are dropped only when the entire arena is Reset or Released.
//   - Arena has a maximum capacity in number of live chunks, allocating
//     beyond that fails with ErrorOutofMemory.
//   - Freeing a handle that is not live is a programming error and
//     panics.
//
// Arenas can be created with following settings:
//
//	capacity  : maximum number of live chunks.
//	maxchunks : maximum number of chunks allowed in a pool.
//	allocator : allocator algorithm, supports `flist` or `fbit`.
package malloc

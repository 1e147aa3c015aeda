// Package domain defines the core value types shared by the state dump
// codec and orchestrator.
//
// Domain types are pure values without any IO dependencies:
//
//   - StateRoot: fixed-size hash of one shard's state trie root
//   - Errors: coded error taxonomy (filesystem, malformed data, store)
package domain

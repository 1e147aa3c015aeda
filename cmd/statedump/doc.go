// Package main provides the entry point for statedump.
//
// statedump captures the state column of a node's store, together with the
// per-shard state roots, into a snapshot directory and restores such a
// directory into a fresh store:
//
//	statedump capture --home /var/lib/node --dir ./genesis --roots-file roots.txt
//	statedump inspect --dir ./genesis
//	statedump restore --home /var/lib/node2 --dir ./genesis
//
// Exit status is 0 on success, 3 for malformed input, 4 for store errors,
// 5 for filesystem errors and 1 otherwise.
package main

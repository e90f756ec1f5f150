// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package util provides generic helpers with no dependencies on the rest of
// the repository.
package util

// T is a shorthand for interface{} so graph nodes can be anything.
type T = interface{}

// Traversal defines a basic interface to perform traversals.
type Traversal interface {

	// Edges returns the neighbours of node u.
	Edges(u T) []T

	// Visited returns true if node u has been visited during this traversal.
	// Implementations record the visit.
	Visited(u T) bool
}

// Equals should return true if node "u" equals node "v".
type Equals func(u T, v T) bool

// Iter should return true to indicate stop.
type Iter func(u T) bool

// BFS performs a breadth first traversal calling f for each node starting
// from u. If f returns true, traversal stops and BFS returns true.
func BFS(t Traversal, f Iter, u T) bool {
	fifo := []T{u}
	for len(fifo) > 0 {
		next := fifo[0]
		fifo = fifo[1:]
		if t.Visited(next) {
			continue
		}
		if f(next) {
			return true
		}
		fifo = append(fifo, t.Edges(next)...)
	}
	return false
}

// DFSPath returns a path from node a to node z found by performing a depth
// first traversal. If no path is found, an empty slice is returned.
func DFSPath(t Traversal, eq Equals, a, z T) []T {
	p := dfsRecursive(t, eq, a, z, []T{})
	for i := len(p)/2 - 1; i >= 0; i-- {
		o := len(p) - i - 1
		p[i], p[o] = p[o], p[i]
	}
	return p
}

func dfsRecursive(t Traversal, eq Equals, u, z T, path []T) []T {
	if t.Visited(u) {
		return path
	}
	for _, v := range t.Edges(u) {
		if eq(v, z) {
			path = append(path, z, u)
			return path
		}
		if p := dfsRecursive(t, eq, v, z, path); len(p) > 0 {
			path = append(p, u)
			return path
		}
	}
	return path
}

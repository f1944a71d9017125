// Package router picks the engine node owning a given session id via
// rendezvous (HRW) hashing, so gateway-side reconnect logic and
// SessionRedirect events agree on placement without a shared
// coordinator (SPEC_FULL.md §5.1).
package router

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"

	"github.com/ambonmud/ambonmud/internal/ids"
)

func hashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Router maps SessionId to an engine node address using rendezvous
// hashing, minimizing reassignment when nodes join or leave.
type Router struct {
	rdv   *rendezvous.Rendezvous
	nodes []string
}

func New(nodes []string) *Router {
	return &Router{
		rdv:   rendezvous.New(nodes, hashString),
		nodes: append([]string(nil), nodes...),
	}
}

// NodeFor returns the engine node address that owns sid.
func (r *Router) NodeFor(sid ids.SessionId) string {
	return r.rdv.Lookup(strconv.FormatUint(uint64(sid), 10))
}

// Add incorporates a new engine node into the ring.
func (r *Router) Add(node string) {
	r.rdv.Add(node)
	r.nodes = append(r.nodes, node)
}

// Remove evicts an engine node from the ring, rebuilding it since
// go-rendezvous has no in-place removal.
func (r *Router) Remove(node string) {
	remaining := make([]string, 0, len(r.nodes))
	for _, n := range r.nodes {
		if n != node {
			remaining = append(remaining, n)
		}
	}
	r.nodes = remaining
	r.rdv = rendezvous.New(r.nodes, hashString)
}

func (r *Router) Nodes() []string {
	return append([]string(nil), r.nodes...)
}

func (r *Router) String() string {
	return fmt.Sprintf("router(nodes=%v)", r.nodes)
}

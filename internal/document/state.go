package document

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
)

// Update is an opaque delta produced by a participant's editor replica. The
// server never interprets its contents; the client-side merge algorithm does.
type Update []byte

// State is the server-side replica of a room's document: a grow-only,
// digest-deduplicated set of updates. Merging the same update twice is a
// no-op, and two replicas that merged the same set of updates in different
// orders encode identical snapshots.
type State struct {
	order   []string
	updates map[string]Update
}

func NewState() *State {
	return &State{updates: make(map[string]Update)}
}

// Merge folds an update into the state. It reports whether the state changed;
// duplicates and empty updates leave it untouched.
func (s *State) Merge(u Update) bool {
	if len(u) == 0 {
		return false
	}
	d := digest(u)
	if _, seen := s.updates[d]; seen {
		return false
	}
	cp := make(Update, len(u))
	copy(cp, u)
	s.updates[d] = cp
	s.order = append(s.order, d)
	return true
}

func (s *State) Len() int { return len(s.order) }

// Size is the total payload bytes held by the state.
func (s *State) Size() int {
	total := 0
	for _, u := range s.updates {
		total += len(u)
	}
	return total
}

// Snapshot returns every merged update in canonical (digest) order. This is
// the baseline payload handed to a newly joining participant.
func (s *State) Snapshot() []Update {
	digests := make([]string, len(s.order))
	copy(digests, s.order)
	sort.Strings(digests)

	out := make([]Update, len(digests))
	for i, d := range digests {
		out[i] = s.updates[d]
	}
	return out
}

// Encode serializes the canonical snapshot as length-prefixed payloads.
// Replicas holding the same update set encode byte-identical output
// regardless of merge order.
func (s *State) Encode() []byte {
	var buf []byte
	var scratch [binary.MaxVarintLen64]byte
	for _, u := range s.Snapshot() {
		n := binary.PutUvarint(scratch[:], uint64(len(u)))
		buf = append(buf, scratch[:n]...)
		buf = append(buf, u...)
	}
	return buf
}

func digest(u Update) string {
	sum := sha256.Sum256(u)
	return hex.EncodeToString(sum[:])
}

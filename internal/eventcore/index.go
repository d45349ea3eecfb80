package eventcore

import (
	"sort"
	"strings"
	"sync"
)

// GlobalChannel is the reserved bucket key every address resolution unions
// in, regardless of the requested channel or target.
const GlobalChannel = "*"

// handlerIndex is the Manager's handler registry: a bucket map keyed by
// channel address plus a set of every registered handler for O(1)
// presence tests and bulk removal. It is safe for concurrent registration,
// though the framework's own concurrency model expects registration to
// happen on the dispatch goroutine or while quiesced.
type handlerIndex struct {
	mu          sync.RWMutex
	buckets     map[string][]*Handler
	bucketOrder []string
	all         map[*Handler]struct{}
	allOrder    []*Handler
}

func newHandlerIndex() *handlerIndex {
	return &handlerIndex{
		buckets: make(map[string][]*Handler),
		all:     make(map[*Handler]struct{}),
	}
}

// add registers h under key. Re-registering the same handler under the
// same key is a no-op.
func (idx *handlerIndex) add(h *Handler, key string) error {
	if !h.valid() {
		return ErrInvalidHandler
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.all[h]; !ok {
		idx.all[h] = struct{}{}
		idx.allOrder = append(idx.allOrder, h)
	}

	bucket, exists := idx.buckets[key]
	for _, existing := range bucket {
		if existing == h {
			return nil
		}
	}
	if !exists {
		idx.bucketOrder = append(idx.bucketOrder, key)
	}
	bucket = append(bucket, h)
	sortBucket(bucket)
	idx.buckets[key] = bucket
	return nil
}

// sortBucket reorders a bucket in place so every filter precedes every
// listener, stable within each kind, reproducing the original framework's
// sort(key=lambda h: h.type) over the literal strings "filter"/"listener".
func sortBucket(bucket []*Handler) {
	sort.SliceStable(bucket, func(i, j int) bool {
		return bucket[i].Kind.String() < bucket[j].Kind.String()
	})
}

// remove deregisters h. An empty key removes h from every bucket and the
// global set; a non-empty key removes h only from that bucket. Removing an
// absent handler is a no-op.
func (idx *handlerIndex) remove(h *Handler, key string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if key == "" {
		for k, bucket := range idx.buckets {
			idx.buckets[k] = removeFromSlice(bucket, h)
		}
		delete(idx.all, h)
		idx.allOrder = removeFromSlice(idx.allOrder, h)
		return
	}
	if bucket, ok := idx.buckets[key]; ok {
		idx.buckets[key] = removeFromSlice(bucket, h)
	}
}

func removeFromSlice(s []*Handler, h *Handler) []*Handler {
	out := s[:0]
	for _, x := range s {
		if x != h {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// bucket returns a copy of the bucket for key, or nil.
func (idx *handlerIndex) bucket(key string) []*Handler {
	b := idx.buckets[key]
	if len(b) == 0 {
		return nil
	}
	out := make([]*Handler, len(b))
	copy(out, b)
	return out
}

// resolve implements the §4.3 address-resolution table: given a lookup key
// of the form "channel" or "target:channel" (either half may be "*"),
// return the ordered union of matching buckets, globals first.
func (idx *handlerIndex) resolve(key string) []*Handler {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	target, channel, hasTarget := strings.Cut(key, ":")
	if !hasTarget {
		target, channel = "", key
	}

	globals := idx.bucket(GlobalChannel)

	switch {
	case hasTarget && target == "*" && channel == "*":
		out := make([]*Handler, len(idx.allOrder))
		copy(out, idx.allOrder)
		return out

	case !hasTarget:
		var out []*Handler
		out = append(out, globals...)
		if channel != GlobalChannel {
			out = append(out, idx.bucket(channel)...)
		}
		return out

	case target == "*":
		// globals ∪ buckets whose key equals channel or ends with ":channel"
		out := append([]*Handler{}, globals...)
		for _, k := range idx.bucketOrder {
			if k == GlobalChannel {
				continue
			}
			if k == channel || strings.HasSuffix(k, ":"+channel) {
				out = append(out, idx.bucket(k)...)
			}
		}
		return out

	case channel == "*":
		// globals ∪ buckets whose key starts with "target:" ∪ buckets with no colon
		out := append([]*Handler{}, globals...)
		for _, k := range idx.bucketOrder {
			if k == GlobalChannel {
				continue
			}
			if strings.HasPrefix(k, target+":") || !strings.Contains(k, ":") {
				out = append(out, idx.bucket(k)...)
			}
		}
		return out

	default:
		out := append([]*Handler{}, globals...)
		out = append(out, idx.bucket(channel)...)
		out = append(out, idx.bucket(target+":*")...)
		out = append(out, idx.bucket("*:"+channel)...)
		out = append(out, idx.bucket(target+":"+channel)...)
		return out
	}
}

package gcmap

import (
	"iter"
	"sync/atomic"

	"github.com/ValentinKolb/gcmap/lib/collector"
	"github.com/ValentinKolb/gcmap/lib/common"
	"github.com/ValentinKolb/gcmap/lib/lockmgr"
	"github.com/ValentinKolb/gcmap/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/pkg/errors"
)

var plog = logger.GetLogger(common.LoggerMap)

// tokens hands out the identity tokens of handles, 0 is never used
var tokens atomic.Uint64

// handle is the single shared cell behind all copies of a Map.
// It is the collector root of its store: once no Map references the handle,
// the collector reclaims the store (scoped) or it stays registered until
// the collector shuts down (permanent).
//
// The store must never reference the handle.
type handle[K any, V any] struct {
	token uint64 // process wide identity
	regID uint64 // collector registration
	store store.IStore[K, V]
	lock  lockmgr.ILock // one per store identity
}

// newHandle seeds st from seq, wraps it in a handle and registers it with c
// (collector.Default() if c is nil).
func newHandle[K any, V any](c collector.ICollector, scope collector.Scope, impl store.Implementation, st store.IStore[K, V], seq iter.Seq2[K, V]) (*handle[K, V], error) {
	if c == nil {
		c = collector.Default()
	}

	if seq != nil {
		for k, v := range seq {
			st.Put(k, v)
		}
	}

	h := &handle[K, V]{
		token: tokens.Add(1),
		store: st,
		lock:  lockmgr.NewLock(),
	}

	id, err := collector.Attach(c, scope, h, st)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to register %s store", scope)
	}
	h.regID = id

	plog.Debugf("created %s %s map (registration %d, %d entries)", scope, impl, id, st.Len())
	return h, nil
}

package collector

import (
	"runtime"
)

// Attach registers obj with c and ties its lifetime to root.
//
//   - ScopeScoped: a runtime cleanup is attached to root. Once root is
//     unreachable the cleanup calls c.Release and obj is destroyed by the next sweep.
//   - ScopePermanent: c retains root, obj is destroyed by c.Shutdown.
//
// obj must not reference root, otherwise root never becomes unreachable.
func Attach[T any](c ICollector, scope Scope, root *T, obj Object) (uint64, error) {
	if root == nil {
		return 0, ErrNilRoot
	}

	switch scope {
	case ScopeScoped:
		id, err := c.Register(scope, obj, nil)
		if err != nil {
			return 0, err
		}
		runtime.AddCleanup(root, c.Release, id)
		return id, nil
	case ScopePermanent:
		return c.Register(scope, obj, root)
	default:
		return 0, ErrInvalidScope
	}
}

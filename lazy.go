package infs

import "sync"

// Lazy returns a function that parses the archive on first call and
// caches the result for the life of the process.
//
// It is intended for package-level wiring of embedded bundles:
//
//	//go:embed assets.infs
//	var bundle []byte
//
//	var assets = infs.Lazy(bundle)
//
// The first call runs exactly once even under concurrent use; every
// caller observes the same *Archive. An invalid buffer panics, as there
// is no fallback for a broken embedded bundle.
func Lazy(data []byte, opts ...Option) func() *Archive {
	return sync.OnceValue(func() *Archive {
		return MustNew(data, opts...)
	})
}

// Package infs packs a directory tree of static assets into one flat
// archive at build time and serves it as a read-only, in-memory virtual
// filesystem at run time, so an application can ship arbitrary assets
// inside its own binary without a runtime filesystem dependency.
//
// An archive is a self-describing byte buffer: a small header indexing
// every file, followed by the concatenated file contents. Lookups return
// sub-slices of the buffer; file content is never copied or allocated.
//
// # Quick Start
//
// Bundle a directory at build time (typically via go:generate or the
// infs command):
//
//	var buf bytes.Buffer
//	stats, err := infs.Create(ctx, "./assets", &buf)
//
// Embed the bundle and read from it at run time:
//
//	//go:embed assets.infs
//	var bundle []byte
//
//	var assets = infs.Lazy(bundle)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    content, err := assets().ReadFile("index.html")
//	    ...
//	}
//
// Archive implements fs.FS, fs.StatFS, and fs.ReadFileFS for standard
// library compatibility. Paths are opaque UTF-8 keys compared for exact
// equality; the archive stores no directory structure.
package infs

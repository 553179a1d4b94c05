// Package codegen renders the Go source that wires a bundle file into a
// binary through go:embed and a lazy archive holder.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strings"
	"text/template"
	"unicode"
)

// Bundle names one bundle file to embed.
type Bundle struct {
	// Name is the bundle's logical name, typically the source directory base.
	Name string

	// File is the bundle filename relative to the generated file's directory.
	File string
}

// Ident derives an exported Go identifier from the bundle name:
// "my-app" becomes "MyApp". Characters that cannot appear in an
// identifier act as word separators.
func (b Bundle) Ident() string {
	var sb strings.Builder
	upper := true
	for _, r := range b.Name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if sb.Len() == 0 && unicode.IsDigit(r) {
			sb.WriteString("Bundle")
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// File describes one generated source file.
type File struct {
	// Package is the package clause name.
	Package string

	// Bundles are the bundles to embed, in output order.
	Bundles []Bundle
}

var shimTemplate = template.Must(template.New("shim").Parse(`// Code generated by infs. DO NOT EDIT.

package {{.Package}}

import (
	_ "embed"

	"github.com/meigma/infs"
)
{{range .Bundles}}
//go:embed {{.File}}
var {{.Ident}}Bundle []byte

// {{.Ident}} returns the {{.File}} archive, parsed on first use.
var {{.Ident}} = infs.Lazy({{.Ident}}Bundle)
{{end}}`))

// Render produces gofmt-formatted source for the described file.
func Render(f File) ([]byte, error) {
	if !token.IsIdentifier(f.Package) {
		return nil, fmt.Errorf("codegen: invalid package name %q", f.Package)
	}
	if len(f.Bundles) == 0 {
		return nil, fmt.Errorf("codegen: no bundles")
	}

	seen := make(map[string]string, len(f.Bundles))
	for _, b := range f.Bundles {
		ident := b.Ident()
		if ident == "" {
			return nil, fmt.Errorf("codegen: bundle name %q yields no identifier", b.Name)
		}
		if prev, ok := seen[ident]; ok {
			return nil, fmt.Errorf("codegen: bundles %q and %q collide on identifier %s", prev, b.Name, ident)
		}
		seen[ident] = b.Name
	}

	var buf bytes.Buffer
	if err := shimTemplate.Execute(&buf, f); err != nil {
		return nil, fmt.Errorf("codegen: render: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: format: %w", err)
	}
	return src, nil
}

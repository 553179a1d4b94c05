package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleIdent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"dist", "Dist"},
		{"my-app", "MyApp"},
		{"web_ui", "WebUi"},
		{"v2.assets", "V2Assets"},
		{"3d-models", "Bundle3dModels"},
		{"--", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bundle{Name: tt.name}.Ident(), tt.name)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	src, err := Render(File{
		Package: "assets",
		Bundles: []Bundle{
			{Name: "dist", File: "dist.infs"},
			{Name: "docs", File: "docs.infs"},
		},
	})
	require.NoError(t, err)

	out := string(src)
	assert.Contains(t, out, "// Code generated by infs. DO NOT EDIT.")
	assert.Contains(t, out, "package assets")
	assert.Contains(t, out, "//go:embed dist.infs")
	assert.Contains(t, out, "//go:embed docs.infs")
	assert.Contains(t, out, "var DistBundle []byte")
	assert.Contains(t, out, "var Dist = infs.Lazy(DistBundle)")
	assert.Contains(t, out, "var Docs = infs.Lazy(DocsBundle)")
	assert.Contains(t, out, `"github.com/meigma/infs"`)
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid package name", func(t *testing.T) {
		t.Parallel()
		_, err := Render(File{Package: "my pkg", Bundles: []Bundle{{Name: "a", File: "a.infs"}}})
		assert.ErrorContains(t, err, "invalid package name")
	})

	t.Run("no bundles", func(t *testing.T) {
		t.Parallel()
		_, err := Render(File{Package: "assets"})
		assert.ErrorContains(t, err, "no bundles")
	})

	t.Run("identifier collision", func(t *testing.T) {
		t.Parallel()
		_, err := Render(File{Package: "assets", Bundles: []Bundle{
			{Name: "my-app", File: "a.infs"},
			{Name: "my_app", File: "b.infs"},
		}})
		assert.ErrorContains(t, err, "collide")
	})

	t.Run("name yields no identifier", func(t *testing.T) {
		t.Parallel()
		_, err := Render(File{Package: "assets", Bundles: []Bundle{{Name: "---", File: "a.infs"}}})
		assert.ErrorContains(t, err, "yields no identifier")
	})
}

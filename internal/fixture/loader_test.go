package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	f, err := Parse([]byte(`
impls:
  - name: Wrapper
    params: P
    functions:
      - name: show
        calls:
          - callee: " helper "
            args: [P]
`))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, f.Version)
	require.Len(t, f.Impls, 1)

	impl := f.Impls[0]
	assert.Equal(t, StringOrArray{"P"}, impl.Params)

	call := impl.Functions[0].Calls[0]
	assert.Equal(t, "helper", call.Callee)
	assert.Equal(t, "Wrapper::show#0", call.Site)
}

func TestParse_KeepsExplicitSite(t *testing.T) {
	f, err := Parse([]byte(`
impls:
  - name: Wrapper
    functions:
      - name: show
        calls:
          - { callee: helper, site: "lib.rs:12" }
`))
	require.NoError(t, err)
	assert.Equal(t, "lib.rs:12", f.Impls[0].Functions[0].Calls[0].Site)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(`
impls:
  - name: Wrapper
    generics: [P]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse fixture YAML")
}

func TestLoadFile(t *testing.T) {
	f, err := LoadFile("testdata/wrapper.yaml")
	require.NoError(t, err)

	assert.Len(t, f.Callees, 2)
	assert.Len(t, f.Impls, 2)
	assert.Equal(t, "Helpers", f.Callees[0].Parent.Name)
	assert.Equal(t, "U", f.Callees[1].Output)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read fixture file")
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr string
	}{
		{version: "1"},
		{version: "1.0"},
		{version: "1.4.2"},
		{version: "2", wantErr: `unsupported fixture version "2", expected 1.x`},
		{version: "0.9", wantErr: `unsupported fixture version "0.9", expected 1.x`},
		{version: "latest", wantErr: `invalid fixture version "latest"`},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := CheckVersion(tt.version)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

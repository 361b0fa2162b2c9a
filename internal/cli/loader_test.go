package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shippedDefs() string {
	return filepath.Join("..", "..", "defs")
}

func TestLoadCatalogShippedDefs(t *testing.T) {
	result, errs := LoadCatalog(shippedDefs(), LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Machines, 1)

	spec := result.Find("enigma-i")
	require.NotNil(t, spec)
	assert.Equal(t, 3, spec.RotorCount)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, spec.RotorIDs())
	assert.Equal(t, []string{"A", "B", "C"}, spec.ReflectorIDs())

	assert.Nil(t, result.Find("no-such-machine"))
}

func TestLoadCatalogDirectoryNotFound(t *testing.T) {
	result, errs := LoadCatalog(filepath.Join(t.TempDir(), "missing"), LoadModeFailFast)
	assert.Nil(t, result)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.True(t, errors.As(errs[0], &loadErr))
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadCatalogEmptyDirectory(t *testing.T) {
	result, errs := LoadCatalog(t.TempDir(), LoadModeFailFast)
	assert.Nil(t, result)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.True(t, errors.As(errs[0], &loadErr))
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestLoadCatalogBrokenDefinition(t *testing.T) {
	_, errs := LoadCatalog(filepath.Join("testdata", "broken"), LoadModeFailFast)
	require.NotEmpty(t, errs)
}

func TestFindCUEFiles(t *testing.T) {
	files, err := FindCUEFiles(shippedDefs())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, ".cue", filepath.Ext(files[0]))
}

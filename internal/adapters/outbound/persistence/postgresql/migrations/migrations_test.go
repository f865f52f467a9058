//go:build !integration

package migrations

import (
	"context"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreSequential(t *testing.T) {
	source, err := iofs.New(files, ".")
	require.NoError(t, err)
	defer source.Close()

	version, err := source.First()
	require.NoError(t, err)

	versions := []uint{version}
	for {
		next, err := source.Next(version)
		if err != nil {
			break
		}
		versions = append(versions, next)
		version = next
	}

	assert.Equal(t, []uint{1, 2, 3}, versions)

	for _, v := range versions {
		up, _, err := source.ReadUp(v)
		require.NoError(t, err)
		require.NoError(t, up.Close())

		down, _, err := source.ReadDown(v)
		require.NoError(t, err)
		require.NoError(t, down.Close())
	}
}

func TestApplyRequiresDatabase(t *testing.T) {
	err := Apply(context.Background(), nil, nil)
	require.Error(t, err)
}

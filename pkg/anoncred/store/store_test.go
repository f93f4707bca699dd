/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package store_test

import (
	"testing"

	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-bbs-credentials/pkg/anoncred/store"
)

func TestNewProvider(t *testing.T) {
	require.Equal(t, []string{store.TypeLevelDB, store.TypeMem}, store.SupportedTypes())

	t.Run("unsupported type", func(t *testing.T) {
		_, err := store.NewProvider("couchdb", "")
		require.EqualError(t, err, `database type "couchdb" not supported, use one of [leveldb mem]`)
	})

	t.Run("leveldb without path", func(t *testing.T) {
		_, err := store.NewProvider(store.TypeLevelDB, "")
		require.Error(t, err)
	})

	for _, tc := range []struct {
		name   string
		dbType string
	}{
		{name: "default", dbType: ""},
		{name: "mem", dbType: store.TypeMem},
		{name: "leveldb", dbType: store.TypeLevelDB},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			provider, err := store.NewProvider(tc.dbType, t.TempDir())
			require.NoError(t, err)

			defer func() {
				require.NoError(t, provider.Close())
			}()

			s, err := provider.OpenStore("records")
			require.NoError(t, err)

			require.NoError(t, s.Put("k1", []byte(`{"id":"k1"}`), storage.Tag{Name: "anonId", Value: "abc"}))
			require.NoError(t, s.Put("k2", []byte(`{"id":"k2"}`), storage.Tag{Name: "anonId", Value: "def"}))

			value, err := s.Get("k1")
			require.NoError(t, err)
			require.JSONEq(t, `{"id":"k1"}`, string(value))

			iter, err := s.Query("anonId:def")
			require.NoError(t, err)

			more, err := iter.Next()
			require.NoError(t, err)
			require.True(t, more)

			key, err := iter.Key()
			require.NoError(t, err)
			require.Equal(t, "k2", key)

			more, err = iter.Next()
			require.NoError(t, err)
			require.False(t, more)
			require.NoError(t, iter.Close())

			_, err = s.Get("missing")
			require.ErrorIs(t, err, storage.ErrDataNotFound)
		})
	}
}

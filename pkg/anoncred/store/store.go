/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package store opens the storage providers issuer records can be kept in.
package store

import (
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/component/storage/leveldb"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Supported database types.
const (
	TypeMem     = "mem"
	TypeLevelDB = "leveldb"
)

// nolint:gochecknoglobals
var logger = log.New("anoncred/store")

// nolint:gochecknoglobals
var supportedStorageProviders = map[string]func(path string) (storage.Provider, error){
	TypeMem: func(_ string) (storage.Provider, error) { // nolint:unparam
		return mem.NewProvider(), nil
	},
	TypeLevelDB: func(path string) (storage.Provider, error) {
		if path == "" {
			return nil, fmt.Errorf("%s database requires a path", TypeLevelDB)
		}

		return leveldb.NewProvider(path), nil
	},
}

// SupportedTypes lists the database types NewProvider accepts.
func SupportedTypes() []string {
	types := maps.Keys(supportedStorageProviders)
	slices.Sort(types)

	return types
}

// NewProvider returns the provider of dbType. path is the database directory for persistent types and is
// ignored otherwise.
func NewProvider(dbType, path string) (storage.Provider, error) {
	if dbType == "" {
		dbType = TypeMem
	}

	newProvider, ok := supportedStorageProviders[dbType]
	if !ok {
		return nil, fmt.Errorf("database type %q not supported, use one of %v", dbType, SupportedTypes())
	}

	provider, err := newProvider(path)
	if err != nil {
		return nil, err
	}

	logger.Debugf("opened %s storage provider", dbType)

	return provider, nil
}

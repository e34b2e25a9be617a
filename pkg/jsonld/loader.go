/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jsonld

import (
	_ "embed" //nolint:gci // required for go:embed
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/pkg/doc/jsonld"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/piprate/json-gold/ld"
)

// nolint:gochecknoglobals //embedded contexts
var (
	//go:embed contexts/verifiable_credentials_v1.0.jsonld
	verifiableCredentialsV1Vocab []byte
)

var embedContexts = []jsonld.ContextDocument{ //nolint:gochecknoglobals
	{
		URL:     "https://www.w3.org/2018/credentials/v1",
		Content: verifiableCredentialsV1Vocab,
	},
}

// DocumentLoader returns a JSON-LD document loader with the credentials v1
// context preloaded, for callers that feed credential payloads into a
// JSON-LD processor. A nil storage provider falls back to in-memory storage.
func DocumentLoader(storageProvider storage.Provider) (ld.DocumentLoader, error) {
	if storageProvider == nil {
		storageProvider = mem.NewProvider()
	}

	loader, err := jsonld.NewDocumentLoader(storageProvider, jsonld.WithExtraContexts(embedContexts...))
	if err != nil {
		return nil, fmt.Errorf("create document loader: %w", err)
	}

	return loader, nil
}

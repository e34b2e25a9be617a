/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vc

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func presentationDoc(t *testing.T, credentials ...string) string {
	t.Helper()

	return fmt.Sprintf(`{
      "@context": ["https://www.w3.org/2018/credentials/v1"],
      "id": "urn:uuid:3978344f-8596-4c3a-a978-8fcaba3903c5",
      "type": ["VerifiablePresentation"],
      "holder": "did:example:holder",
      "verifiableCredential": [%s],
      "proof": {
        "type": "Ed25519Signature2018",
        "proofValue": "eyJhbGciOiJFZERTQSJ9..presentation-proof"
      }
    }`, joinDocs(credentials))
}

func joinDocs(docs []string) string {
	out := ""

	for i, doc := range docs {
		if i > 0 {
			out += ","
		}

		out += doc
	}

	return out
}

func TestParsePresentation(t *testing.T) {
	t.Run("test embedded credentials are normalized", func(t *testing.T) {
		presentation, err := ParsePresentation([]byte(presentationDoc(t, legacyCredential)))
		require.NoError(t, err)

		credentials := presentation.Credentials()
		require.Len(t, credentials, 1)

		canonical := credentials[0].CanonicalJSONLD()
		require.NotContains(t, canonical, "credentialSubject")
		require.Contains(t, canonical, CredentialSubjectIRI)
	})

	t.Run("test embedded proof value is dialect-insensitive", func(t *testing.T) {
		fromLegacy, err := ParsePresentation([]byte(presentationDoc(t, legacyCredential)))
		require.NoError(t, err)

		fromCanonical, err := ParsePresentation([]byte(presentationDoc(t, canonicalCredential)))
		require.NoError(t, err)

		require.Equal(t, fromLegacy.Credentials()[0].ProofValue(), fromCanonical.Credentials()[0].ProofValue())
		require.Equal(t, fromLegacy.CanonicalJSONLD(), fromCanonical.CanonicalJSONLD())
	})

	t.Run("test presentation proof is canonicalized", func(t *testing.T) {
		presentation, err := ParsePresentation([]byte(presentationDoc(t)))
		require.NoError(t, err)

		proof := presentation.CanonicalJSONLD()["proof"].(map[string]interface{})
		require.NotContains(t, proof, "proofValue")
		require.Contains(t, proof, ProofValueIRI)

		legacyProof := presentation.LegacyJSONLD()["proof"].(map[string]interface{})
		require.Contains(t, legacyProof, "proofValue")
		require.NotContains(t, legacyProof, ProofValueIRI)
	})

	t.Run("test accessors", func(t *testing.T) {
		presentation, err := ParsePresentation([]byte(presentationDoc(t, legacyCredential)))
		require.NoError(t, err)

		require.Equal(t, "urn:uuid:3978344f-8596-4c3a-a978-8fcaba3903c5", presentation.ID())
		require.Equal(t, []string{"VerifiablePresentation"}, presentation.Types())
		require.Equal(t, "did:example:holder", presentation.Holder())
		require.NotNil(t, presentation.Proof())

		id, err := GetID(presentation)
		require.NoError(t, err)
		require.Equal(t, presentation.ID(), id)
	})

	t.Run("test presentation without credentials", func(t *testing.T) {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(presentationDoc(t)), &doc))

		delete(doc, "verifiableCredential")

		presentation, err := NewPresentation(doc)
		require.NoError(t, err)
		require.Empty(t, presentation.Credentials())
	})

	t.Run("test invalid json", func(t *testing.T) {
		_, err := ParsePresentation([]byte("not json"))
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrMalformedPresentation))
	})

	t.Run("test type does not contain VerifiablePresentation", func(t *testing.T) {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(presentationDoc(t)), &doc))

		doc["type"] = []interface{}{"SomethingElse"}

		_, err := NewPresentation(doc)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrMalformedPresentation))
		require.Contains(t, err.Error(), "type does not contain VerifiablePresentation")
	})

	t.Run("test verifiableCredential is not an array", func(t *testing.T) {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(presentationDoc(t)), &doc))

		doc["verifiableCredential"] = "not an array"

		_, err := NewPresentation(doc)
		require.Error(t, err)
		require.Contains(t, err.Error(), "verifiableCredential is not an array")
	})

	t.Run("test malformed embedded credential", func(t *testing.T) {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(presentationDoc(t, legacyCredential)), &doc))

		embedded := doc["verifiableCredential"].([]interface{})
		delete(embedded[0].(map[string]interface{}), "id")

		_, err := NewPresentation(doc)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrMalformedPresentation))
		require.Contains(t, err.Error(), "credential at index 0")
	})
}

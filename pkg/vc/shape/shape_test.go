/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package shape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/vc-client/pkg/vc"
)

const sampleCredential = `{
  "@context": [
    "https://www.w3.org/2018/credentials/v1",
    {"ex": "https://example.org/examples#"}
  ],
  "id": "http://example.gov/credentials/3732",
  "type": ["VerifiableCredential", "UniversityDegreeCredential"],
  "issuer": "did:example:issuer",
  "issuanceDate": "2020-03-16T22:37:26Z",
  "credentialSubject": {
    "id": "https://user.example.com/profile/card#me",
    "degree": {"type": "BachelorDegree", "name": "Bachelor of Science"}
  },
  "proof": {"type": "Ed25519Signature2018", "proofValue": "eyJhbGciOiJFZERTQSJ9..sig"}
}`

func TestQuery(t *testing.T) {
	t.Run("test template is wrapped and context unified", func(t *testing.T) {
		query, err := Query(map[string]interface{}{
			"@context": []interface{}{"https://example.org/contexts/degree"},
			"type":     []interface{}{"UniversityDegreeCredential"},
		})
		require.NoError(t, err)

		wrapped, ok := query["verifiableCredential"].(map[string]interface{})
		require.True(t, ok)

		require.Equal(t, []interface{}{
			vc.CredentialContext,
			"https://example.org/contexts/degree",
		}, wrapped["@context"])
		require.Equal(t, []interface{}{"UniversityDegreeCredential"}, wrapped["type"])
	})

	t.Run("test only template fields are carried", func(t *testing.T) {
		query, err := Query(map[string]interface{}{
			"credentialSubject": map[string]interface{}{"degree": map[string]interface{}{"type": "BachelorDegree"}},
		})
		require.NoError(t, err)

		wrapped := query["verifiableCredential"].(map[string]interface{})
		require.NotContains(t, wrapped, "issuer")
		require.NotContains(t, wrapped, "issuanceDate")
		require.Contains(t, wrapped, "credentialSubject")
	})

	t.Run("test missing template", func(t *testing.T) {
		_, err := Query(nil)
		require.Error(t, err)
		require.True(t, errors.Is(err, vc.ErrInvalidParameter))
	})

	t.Run("test template is not mutated", func(t *testing.T) {
		template := map[string]interface{}{"type": []interface{}{"UniversityDegreeCredential"}}

		_, err := Query(template)
		require.NoError(t, err)

		require.NotContains(t, template, "@context")
	})
}

func TestMatches(t *testing.T) {
	credential, err := vc.ParseCredential([]byte(sampleCredential))
	require.NoError(t, err)

	t.Run("test two-field template matches", func(t *testing.T) {
		require.True(t, Matches(credential, map[string]interface{}{
			"type": []interface{}{"UniversityDegreeCredential"},
			"credentialSubject": map[string]interface{}{
				"degree": map[string]interface{}{"type": "BachelorDegree"},
			},
		}))
	})

	t.Run("test template in legacy dialect matches canonical credential", func(t *testing.T) {
		require.True(t, Matches(credential, map[string]interface{}{
			"credentialSubject": map[string]interface{}{
				"id": "https://user.example.com/profile/card#me",
			},
		}))
	})

	t.Run("test empty template matches everything", func(t *testing.T) {
		require.True(t, Matches(credential, map[string]interface{}{}))
	})

	t.Run("test mismatching value", func(t *testing.T) {
		require.False(t, Matches(credential, map[string]interface{}{
			"issuer": "did:example:someone-else",
		}))
	})

	t.Run("test missing field does not match", func(t *testing.T) {
		require.False(t, Matches(credential, map[string]interface{}{
			"credentialSchema": map[string]interface{}{"type": "JsonSchemaValidator2018"},
		}))
	})

	t.Run("test type list requires containment not equality", func(t *testing.T) {
		require.True(t, Matches(credential, map[string]interface{}{
			"type": []interface{}{"VerifiableCredential"},
		}))

		require.False(t, Matches(credential, map[string]interface{}{
			"type": []interface{}{"PermanentResidentCard"},
		}))
	})
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vcutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringsContains(t *testing.T) {
	words := []string{"Hello", "World"}

	require.True(t, StringsContains("World", words))
	require.False(t, StringsContains("Hi", words))
}

func TestValidHTTPURL(t *testing.T) {
	require.True(t, ValidHTTPURL("https://example.com/credentials/1"))
	require.True(t, ValidHTTPURL("http://example.com"))
	require.False(t, ValidHTTPURL("did:example:123"))
	require.False(t, ValidHTTPURL("not a url"))
}

func TestCopyJSONMap(t *testing.T) {
	t.Run("test copy is deep", func(t *testing.T) {
		original := map[string]interface{}{
			"id": "http://example.com/1",
			"credentialSubject": map[string]interface{}{
				"id": "did:example:subject",
			},
			"type": []interface{}{"VerifiableCredential"},
		}

		copied := CopyJSONMap(original)
		require.Equal(t, original, copied)

		copied["credentialSubject"].(map[string]interface{})["id"] = "did:example:other"
		copied["type"].([]interface{})[0] = "Changed"

		require.Equal(t, "did:example:subject", original["credentialSubject"].(map[string]interface{})["id"])
		require.Equal(t, "VerifiableCredential", original["type"].([]interface{})[0])
	})

	t.Run("test nil input", func(t *testing.T) {
		require.Nil(t, CopyJSONMap(nil))
	})
}

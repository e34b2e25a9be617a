/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vcutil

import (
	"net/url"
)

// StringsContains check if the string is present in the string array.
func StringsContains(val string, slice []string) bool {
	for _, s := range slice {
		if val == s {
			return true
		}
	}

	return false
}

// ValidHTTPURL checks if the string is a valid http url.
func ValidHTTPURL(str string) bool {
	u, err := url.Parse(str)

	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// CopyJSONMap deep-copies a decoded JSON object.
func CopyJSONMap(doc map[string]interface{}) map[string]interface{} {
	if doc == nil {
		return nil
	}

	copied, ok := CopyJSONValue(doc).(map[string]interface{})
	if !ok {
		return nil
	}

	return copied
}

// CopyJSONValue deep-copies any decoded JSON value. Maps and slices are
// copied recursively; scalars are returned as-is.
func CopyJSONValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		copied := make(map[string]interface{}, len(v))

		for key, entry := range v {
			copied[key] = CopyJSONValue(entry)
		}

		return copied
	case []interface{}:
		copied := make([]interface{}, len(v))

		for i, entry := range v {
			copied[i] = CopyJSONValue(entry)
		}

		return copied
	default:
		return v
	}
}

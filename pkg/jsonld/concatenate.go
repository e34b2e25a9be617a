/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jsonld provides the JSON-LD context utilities used when composing
// requests for and normalizing responses from the VC HTTP API services.
package jsonld

import (
	"reflect"

	"github.com/trustbloc/vc-client/pkg/internal/common/vcutil"
)

// Concatenate merges any number of @context values into a single ordered,
// duplicate-free list. A context value is a context IRI, a term mapping, or
// a list of either (lists are flattened in place).
//
// Order of first occurrence is preserved and exact duplicates are dropped.
// Term mappings are merged key-by-key into the first mapping entry; the
// first writer of a key wins, later identical definitions are no-ops, and
// conflicting definitions are carried as a separate later entry rather than
// silently overwritten.
func Concatenate(contexts ...interface{}) []interface{} {
	out := make([]interface{}, 0, len(contexts))

	var merged map[string]interface{}

	for _, context := range flatten(contexts) {
		switch v := context.(type) {
		case nil:
			continue
		case string:
			if !containsEntry(out, v) {
				out = append(out, v)
			}
		case map[string]interface{}:
			if merged == nil {
				merged = make(map[string]interface{}, len(v))

				for key, definition := range v {
					merged[key] = vcutil.CopyJSONValue(definition)
				}

				out = append(out, merged)

				continue
			}

			conflicting := mergeTerms(merged, v)

			if len(conflicting) > 0 && !containsEntry(out, conflicting) {
				out = append(out, conflicting)
			}
		default:
			if !containsEntry(out, v) {
				out = append(out, v)
			}
		}
	}

	return out
}

// mergeTerms merges src into dst, first writer wins, and returns the
// definitions that conflict with ones already in dst.
func mergeTerms(dst, src map[string]interface{}) map[string]interface{} {
	conflicting := make(map[string]interface{})

	for key, definition := range src {
		existing, ok := dst[key]
		if !ok {
			dst[key] = vcutil.CopyJSONValue(definition)

			continue
		}

		if reflect.DeepEqual(existing, definition) {
			continue
		}

		conflicting[key] = vcutil.CopyJSONValue(definition)
	}

	return conflicting
}

func flatten(contexts []interface{}) []interface{} {
	out := make([]interface{}, 0, len(contexts))

	for _, context := range contexts {
		if list, ok := context.([]interface{}); ok {
			out = append(out, flatten(list)...)

			continue
		}

		out = append(out, context)
	}

	return out
}

func containsEntry(list []interface{}, entry interface{}) bool {
	for _, existing := range list {
		if reflect.DeepEqual(existing, entry) {
			return true
		}
	}

	return false
}

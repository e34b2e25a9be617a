/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package shape builds partial-match queries for the credential derivation
// service from template credentials, and checks returned credentials
// against the template they were derived from.
package shape

import (
	"fmt"
	"reflect"

	"github.com/PaesslerAG/jsonpath"

	"github.com/trustbloc/vc-client/pkg/internal/common/vcutil"
	"github.com/trustbloc/vc-client/pkg/jsonld"
	"github.com/trustbloc/vc-client/pkg/vc"
)

// Query wraps a template credential into the request body expected by the
// derivation service. Only fields present on the template are carried over;
// absent fields leave the matching unconstrained. The template's @context
// is unified with the base credentials context.
func Query(template map[string]interface{}) (map[string]interface{}, error) {
	if template == nil {
		return nil, fmt.Errorf("%w: shape template is missing", vc.ErrInvalidParameter)
	}

	query := vcutil.CopyJSONMap(template)
	query["@context"] = jsonld.Concatenate(vc.CredentialContext, template["@context"])

	return map[string]interface{}{"verifiableCredential": query}, nil
}

// Matches reports whether a credential satisfies every constraint on the
// template. Template fields are compared structurally: objects recurse into
// their entries, lists require containment, and everything else must match
// exactly. Both sides are canonicalized first, so the check is insensitive
// to the dialect either was written in.
func Matches(credential *vc.Credential, template map[string]interface{}) bool {
	doc := credential.CanonicalJSONLD()

	for key, constraint := range vc.CanonicalizeDocument(template) {
		if key == "@context" {
			continue
		}

		if !matchesConstraint(doc, fmt.Sprintf("$[%q]", key), constraint) {
			return false
		}
	}

	return true
}

func matchesConstraint(doc map[string]interface{}, path string, constraint interface{}) bool {
	switch c := constraint.(type) {
	case map[string]interface{}:
		for key, nested := range c {
			if !matchesConstraint(doc, fmt.Sprintf("%s[%q]", path, key), nested) {
				return false
			}
		}

		return true
	case []interface{}:
		value, err := jsonpath.Get(path, doc)
		if err != nil {
			return false
		}

		return containsAll(value, c)
	default:
		value, err := jsonpath.Get(path, doc)
		if err != nil {
			return false
		}

		return reflect.DeepEqual(value, c)
	}
}

// containsAll reports whether every entry of the constraint list appears in
// the value, which may itself be a list or a single entry.
func containsAll(value interface{}, constraints []interface{}) bool {
	valueList, ok := value.([]interface{})
	if !ok {
		valueList = []interface{}{value}
	}

	for _, constraint := range constraints {
		found := false

		for _, entry := range valueList {
			if reflect.DeepEqual(entry, constraint) {
				found = true

				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vc

import (
	"fmt"

	"github.com/trustbloc/vc-client/pkg/internal/common/vcutil"
)

// CanonicalizeDocument returns a copy of doc rewritten into the canonical
// dialect. It accepts partial documents such as shape templates; no shape
// validation is performed.
func CanonicalizeDocument(doc map[string]interface{}) map[string]interface{} {
	return canonicalize(vcutil.CopyJSONMap(doc))
}

// LegacyDocument returns a copy of doc rewritten into the legacy dialect.
func LegacyDocument(doc map[string]interface{}) map[string]interface{} {
	return legacyView(vcutil.CopyJSONMap(doc))
}

// dualField is a property that appears as a bare convenience key in the
// legacy dialect and under a fully qualified IRI key in the canonical one.
type dualField struct {
	// parent is the key of the object holding the property; empty means the
	// document root.
	parent string
	bare   string
	iri    string
}

// The canonical dialect never carries the bare keys, the legacy dialect
// never carries the qualified ones. Conversion in either direction walks
// this table only.
var dualFields = []dualField{ // nolint:gochecknoglobals // fixed conversion table
	{bare: "credentialSubject", iri: CredentialSubjectIRI},
	{parent: "proof", bare: "proofValue", iri: ProofValueIRI},
}

// canonicalize rewrites doc in place into the canonical dialect: every
// dual-named field present under its bare key moves to its qualified key.
// Already-canonical documents pass through unchanged.
func canonicalize(doc map[string]interface{}) map[string]interface{} {
	for _, field := range dualFields {
		parent := fieldParent(doc, field)
		if parent == nil {
			continue
		}

		value, ok := parent[field.bare]
		if !ok {
			continue
		}

		if _, qualified := parent[field.iri]; !qualified {
			parent[field.iri] = value
		}

		delete(parent, field.bare)
	}

	canonicalizeEmbedded(doc, canonicalize)

	return doc
}

// legacyView rewrites doc in place into the legacy dialect: every dual-named
// field present under its qualified key moves back to its bare key.
func legacyView(doc map[string]interface{}) map[string]interface{} {
	for _, field := range dualFields {
		parent := fieldParent(doc, field)
		if parent == nil {
			continue
		}

		value, ok := parent[field.iri]
		if !ok {
			continue
		}

		if _, bare := parent[field.bare]; !bare {
			parent[field.bare] = value
		}

		delete(parent, field.iri)
	}

	canonicalizeEmbedded(doc, legacyView)

	return doc
}

// canonicalizeEmbedded applies a dialect conversion to every credential
// embedded in a presentation's verifiableCredential list.
func canonicalizeEmbedded(doc map[string]interface{}, convert func(map[string]interface{}) map[string]interface{}) {
	embedded, ok := doc["verifiableCredential"].([]interface{})
	if !ok {
		return
	}

	for i, entry := range embedded {
		if credential, ok := entry.(map[string]interface{}); ok {
			embedded[i] = convert(credential)
		}
	}
}

func fieldParent(doc map[string]interface{}, field dualField) map[string]interface{} {
	if field.parent == "" {
		return doc
	}

	parent, ok := doc[field.parent].(map[string]interface{})
	if !ok {
		return nil
	}

	return parent
}

func validateCredential(doc map[string]interface{}) error {
	return validateShape(doc, VerifiableCredential, ErrMalformedCredential)
}

func validatePresentation(doc map[string]interface{}) error {
	return validateShape(doc, VerifiablePresentation, ErrMalformedPresentation)
}

func validateShape(doc map[string]interface{}, rootType string, sentinel error) error {
	if doc == nil {
		return fmt.Errorf("%w: document is missing", sentinel)
	}

	if _, ok := doc["@context"]; !ok {
		return fmt.Errorf("%w: @context is missing", sentinel)
	}

	if id, ok := doc["id"].(string); !ok || id == "" {
		return fmt.Errorf("%w: id is missing", sentinel)
	}

	rawTypes, ok := doc["type"].([]interface{})
	if !ok {
		return fmt.Errorf("%w: type is not an array", sentinel)
	}

	types := make([]string, 0, len(rawTypes))

	for _, rawType := range rawTypes {
		t, ok := rawType.(string)
		if !ok {
			return fmt.Errorf("%w: type %v is not a string", sentinel, rawType)
		}

		types = append(types, t)
	}

	if !vcutil.StringsContains(rootType, types) {
		return fmt.Errorf("%w: type does not contain %s", sentinel, rootType)
	}

	return nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package vc provides the data model for W3C Verifiable Credentials and
// Verifiable Presentations exchanged with the VC HTTP API services.
//
// Credentials arrive from the services in one of two JSON-LD dialects: a
// legacy flattened form, where convenience properties such as
// credentialSubject and proofValue appear as literal keys, and a canonical
// form, where those properties appear under their fully qualified IRIs.
// Parsing normalizes either dialect into the canonical form; accessors work
// identically regardless of the dialect the service responded with.
package vc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trustbloc/vc-client/pkg/internal/common/vcutil"
)

const (
	// VerifiableCredential vc type.
	VerifiableCredential = "VerifiableCredential"

	// VerifiablePresentation vp type.
	VerifiablePresentation = "VerifiablePresentation"

	// CredentialContext is the base W3C credentials context.
	CredentialContext = "https://www.w3.org/2018/credentials/v1"

	// CredentialSubjectIRI is the qualified key for the credentialSubject
	// convenience property in the canonical dialect.
	CredentialSubjectIRI = "https://www.w3.org/2018/credentials#credentialSubject"

	// ProofValueIRI is the qualified key for the proofValue convenience
	// property in the canonical dialect.
	ProofValueIRI = "https://w3id.org/security#proofValue"
)

var (
	// ErrMalformedCredential is returned when a document fails credential shape validation.
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrMalformedPresentation is returned when a document fails presentation shape validation.
	ErrMalformedPresentation = errors.New("malformed presentation")

	// ErrInvalidParameter is returned when a caller passes an unusable id or object.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Credential is an immutable verifiable credential. It is constructed by
// ParseCredential or NewCredential and never mutated afterwards; all views
// returned by its accessors are copies.
type Credential struct {
	canonical map[string]interface{}
	legacy    map[string]interface{}
}

// ParseCredential decodes and normalizes a raw credential document.
func ParseCredential(raw []byte, opts ...Option) (*Credential, error) {
	var doc map[string]interface{}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %s", ErrMalformedCredential, err.Error())
	}

	return NewCredential(doc, opts...)
}

// NewCredential validates and normalizes a decoded credential document.
// The caller's document is never modified.
func NewCredential(doc map[string]interface{}, opts ...Option) (*Credential, error) {
	options := applyOptions(opts)

	if err := validateCredential(doc); err != nil {
		return nil, err
	}

	canonical := canonicalize(vcutil.CopyJSONMap(doc))

	credential := &Credential{canonical: canonical}

	if options.legacyView {
		credential.legacy = legacyView(vcutil.CopyJSONMap(canonical))
	}

	return credential, nil
}

// ID returns the credential identifier.
func (c *Credential) ID() string {
	id, _ := c.canonical["id"].(string) // nolint:errcheck // validated at parse time

	return id
}

// Types returns the credential type list.
func (c *Credential) Types() []string {
	return stringSlice(c.canonical["type"])
}

// Contexts returns a copy of the credential's @context entries.
func (c *Credential) Contexts() []interface{} {
	return contextSlice(c.canonical["@context"])
}

// Issuer returns the issuer id, whether the issuer field is a bare IRI or
// an object carrying an id.
func (c *Credential) Issuer() string {
	switch issuer := c.canonical["issuer"].(type) {
	case string:
		return issuer
	case map[string]interface{}:
		id, _ := issuer["id"].(string) // nolint:errcheck // absent id yields empty issuer

		return id
	}

	return ""
}

// IssuanceDate returns the issuance date, read from either issuanceDate or
// validFrom. A credential without one returns the zero time.
func (c *Credential) IssuanceDate() (time.Time, error) {
	return dateField(c.canonical, "issuanceDate", "validFrom")
}

// ExpirationDate returns the expiration date, read from either
// expirationDate or validUntil. A credential without one returns the zero time.
func (c *Credential) ExpirationDate() (time.Time, error) {
	return dateField(c.canonical, "expirationDate", "validUntil")
}

// Expired reports whether the credential's expiration date has passed.
// Credentials without an expiration date never expire.
func (c *Credential) Expired(now time.Time) bool {
	expiration, err := c.ExpirationDate()
	if err != nil || expiration.IsZero() {
		return false
	}

	return expiration.Before(now)
}

// Subject is a credential subject: the subject's identifier and its claims.
type Subject struct {
	ID     string
	Claims map[string]interface{}
}

// Subject resolves the single credential subject. It fails if the subject
// is absent or if the credential carries more than one subject.
func (c *Credential) Subject() (*Subject, error) {
	raw, ok := c.canonical[CredentialSubjectIRI]
	if !ok {
		return nil, fmt.Errorf("%w: credential subject is missing", ErrMalformedCredential)
	}

	subject, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: credential subject is not an object", ErrMalformedCredential)
	}

	if id, ok := subjectID(subject); ok {
		claims := make(map[string]interface{})

		for k, v := range subject {
			if k == "id" || k == "@id" {
				continue
			}

			claims[k] = v
		}

		return &Subject{ID: id, Claims: vcutil.CopyJSONMap(claims)}, nil
	}

	// without an id property the subject must be a single-entry mapping of
	// subject IRI to claims
	if len(subject) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one credential subject, got %d",
			ErrMalformedCredential, len(subject))
	}

	for id, claims := range subject {
		claimsMap, ok := claims.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: claims for subject %s are not an object", ErrMalformedCredential, id)
		}

		return &Subject{ID: id, Claims: vcutil.CopyJSONMap(claimsMap)}, nil
	}

	return nil, fmt.Errorf("%w: credential subject is empty", ErrMalformedCredential)
}

// Proof returns a copy of the credential's proof block, or nil if the
// credential carries none.
func (c *Credential) Proof() map[string]interface{} {
	proof, ok := c.canonical["proof"].(map[string]interface{})
	if !ok {
		return nil
	}

	return vcutil.CopyJSONMap(proof)
}

// ProofValue returns the proof's signature value.
func (c *Credential) ProofValue() string {
	proof, ok := c.canonical["proof"].(map[string]interface{})
	if !ok {
		return ""
	}

	value, _ := proof[ProofValueIRI].(string) // nolint:errcheck // absent proof value yields empty string

	return value
}

// Status returns a copy of the credential's credentialStatus block, or nil.
func (c *Credential) Status() map[string]interface{} {
	status, ok := c.canonical["credentialStatus"].(map[string]interface{})
	if !ok {
		return nil
	}

	return vcutil.CopyJSONMap(status)
}

// CanonicalJSONLD returns a copy of the credential in the canonical dialect:
// dual-named properties appear only under their qualified IRI keys.
func (c *Credential) CanonicalJSONLD() map[string]interface{} {
	return vcutil.CopyJSONMap(c.canonical)
}

// LegacyJSONLD returns a copy of the credential in the legacy dialect, or
// nil if the credential was parsed without the legacy view.
func (c *Credential) LegacyJSONLD() map[string]interface{} {
	if c.legacy == nil {
		return nil
	}

	return vcutil.CopyJSONMap(c.legacy)
}

// MarshalJSON marshals the canonical dialect.
func (c *Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.canonical)
}

// Decode unmarshals the credential into a custom type. The legacy dialect is
// used when available so that custom types can bind bare property names.
func (c *Credential) Decode(custom interface{}) error {
	doc := c.legacy
	if doc == nil {
		doc = legacyView(vcutil.CopyJSONMap(c.canonical))
	}

	bits, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to decode credential: %w", err)
	}

	return json.Unmarshal(bits, custom)
}

// GetID returns the identifier of a credential, a presentation, or a bare
// id string. Any other input fails with ErrInvalidParameter.
func GetID(credential interface{}) (string, error) {
	switch v := credential.(type) {
	case string:
		return v, nil
	case *Credential:
		return v.ID(), nil
	case *Presentation:
		return v.ID(), nil
	}

	return "", fmt.Errorf("%w: expected a credential, a presentation or an id, got %T",
		ErrInvalidParameter, credential)
}

func subjectID(subject map[string]interface{}) (string, bool) {
	if id, ok := subject["id"].(string); ok {
		return id, true
	}

	if id, ok := subject["@id"].(string); ok {
		return id, true
	}

	return "", false
}

func dateField(doc map[string]interface{}, keys ...string) (time.Time, error) {
	for _, key := range keys {
		raw, ok := doc[key].(string)
		if !ok {
			continue
		}

		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: invalid %s %q: %s", ErrMalformedCredential, key, raw, err.Error())
		}

		return parsed, nil
	}

	return time.Time{}, nil
}

func stringSlice(raw interface{}) []string {
	entries, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	out := make([]string, 0, len(entries))

	for _, entry := range entries {
		if s, ok := entry.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

func contextSlice(raw interface{}) []interface{} {
	switch contexts := raw.(type) {
	case []interface{}:
		out := make([]interface{}, len(contexts))

		for i, entry := range contexts {
			out[i] = vcutil.CopyJSONValue(entry)
		}

		return out
	case nil:
		return nil
	default:
		return []interface{}{vcutil.CopyJSONValue(contexts)}
	}
}

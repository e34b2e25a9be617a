/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vc

import (
	"encoding/json"
	"fmt"

	"github.com/trustbloc/vc-client/pkg/internal/common/vcutil"
)

// Presentation is an immutable verifiable presentation wrapping zero or
// more credentials.
type Presentation struct {
	canonical   map[string]interface{}
	legacy      map[string]interface{}
	credentials []*Credential
}

// ParsePresentation decodes and normalizes a raw presentation document.
func ParsePresentation(raw []byte, opts ...Option) (*Presentation, error) {
	var doc map[string]interface{}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %s", ErrMalformedPresentation, err.Error())
	}

	return NewPresentation(doc, opts...)
}

// NewPresentation validates and normalizes a decoded presentation document,
// including every credential embedded under verifiableCredential. The
// caller's document is never modified.
func NewPresentation(doc map[string]interface{}, opts ...Option) (*Presentation, error) {
	options := applyOptions(opts)

	if err := validatePresentation(doc); err != nil {
		return nil, err
	}

	canonical := canonicalize(vcutil.CopyJSONMap(doc))

	credentials, err := embeddedCredentials(canonical, opts)
	if err != nil {
		return nil, err
	}

	presentation := &Presentation{canonical: canonical, credentials: credentials}

	if options.legacyView {
		presentation.legacy = legacyView(vcutil.CopyJSONMap(canonical))
	}

	return presentation, nil
}

// ID returns the presentation identifier.
func (p *Presentation) ID() string {
	id, _ := p.canonical["id"].(string) // nolint:errcheck // validated at parse time

	return id
}

// Types returns the presentation type list.
func (p *Presentation) Types() []string {
	return stringSlice(p.canonical["type"])
}

// Contexts returns a copy of the presentation's @context entries.
func (p *Presentation) Contexts() []interface{} {
	return contextSlice(p.canonical["@context"])
}

// Holder returns the presentation holder, if any.
func (p *Presentation) Holder() string {
	holder, _ := p.canonical["holder"].(string) // nolint:errcheck // absent holder yields empty string

	return holder
}

// Proof returns a copy of the presentation's proof block, or nil.
func (p *Presentation) Proof() map[string]interface{} {
	proof, ok := p.canonical["proof"].(map[string]interface{})
	if !ok {
		return nil
	}

	return vcutil.CopyJSONMap(proof)
}

// Credentials returns the embedded credentials in the order the service
// returned them.
func (p *Presentation) Credentials() []*Credential {
	out := make([]*Credential, len(p.credentials))
	copy(out, p.credentials)

	return out
}

// CanonicalJSONLD returns a copy of the presentation in the canonical dialect.
func (p *Presentation) CanonicalJSONLD() map[string]interface{} {
	return vcutil.CopyJSONMap(p.canonical)
}

// LegacyJSONLD returns a copy of the presentation in the legacy dialect, or
// nil if the presentation was parsed without the legacy view.
func (p *Presentation) LegacyJSONLD() map[string]interface{} {
	if p.legacy == nil {
		return nil
	}

	return vcutil.CopyJSONMap(p.legacy)
}

// MarshalJSON marshals the canonical dialect.
func (p *Presentation) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.canonical)
}

func embeddedCredentials(canonical map[string]interface{}, opts []Option) ([]*Credential, error) {
	raw, ok := canonical["verifiableCredential"]
	if !ok {
		return nil, nil
	}

	entries, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: verifiableCredential is not an array", ErrMalformedPresentation)
	}

	credentials := make([]*Credential, 0, len(entries))

	for i, entry := range entries {
		doc, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: credential at index %d is not an object", ErrMalformedPresentation, i)
		}

		credential, err := NewCredential(doc, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: credential at index %d: %s", ErrMalformedPresentation, i, err.Error())
		}

		credentials = append(credentials, credential)
	}

	return credentials, nil
}

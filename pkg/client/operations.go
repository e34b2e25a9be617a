/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/trustbloc/vc-client/pkg/internal/common/vcutil"
	"github.com/trustbloc/vc-client/pkg/jsonld"
	"github.com/trustbloc/vc-client/pkg/vc"
	"github.com/trustbloc/vc-client/pkg/vc/shape"
)

// IssueCredential composes a credential from the subject and credential
// claims and has the issuer service issue it.
func (c *Client) IssueCredential(subjectClaims, credentialClaims map[string]interface{},
	opts ...CallOption) (*vc.Credential, error) {
	if c.endpoints.Issuer == "" {
		return nil, fmt.Errorf("%w: issuer endpoint is not configured", vc.ErrInvalidParameter)
	}

	options := newCallOptions(opts)

	request := issueCredentialRequest{Credential: composeCredentialClaims(subjectClaims, credentialClaims)}

	data, err := c.do(http.MethodPost, c.endpoints.Issuer, request,
		c.requestToken(issuerTokenName, options), options)
	if err != nil {
		return nil, fmt.Errorf("issue credential: %w", err)
	}

	doc, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	// an issuer answering 2xx with a document that is not tagged as a
	// verifiable credential is a service fault, not a malformed credential
	if !vcutil.StringsContains(vc.VerifiableCredential, docTypes(doc)) {
		return nil, fmt.Errorf("%w: issued document does not contain the %s type",
			ErrUnexpectedResponse, vc.VerifiableCredential)
	}

	return vc.NewCredential(doc, options.parseOptions()...)
}

// DeriveFromShape queries the derivation service for credentials matching
// the shape template and returns them in the order the service matched
// them. Expired credentials are dropped when the call excludes them.
func (c *Client) DeriveFromShape(template map[string]interface{}, opts ...CallOption) ([]*vc.Credential, error) {
	if c.endpoints.Derivation == "" {
		return nil, fmt.Errorf("%w: derivation endpoint is not configured", vc.ErrInvalidParameter)
	}

	options := newCallOptions(opts)

	request, err := shape.Query(template)
	if err != nil {
		return nil, err
	}

	data, err := c.do(http.MethodPost, c.endpoints.Derivation, request,
		c.requestToken(derivationTokenName, options), options)
	if err != nil {
		return nil, fmt.Errorf("derive credentials: %w", err)
	}

	doc, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	credentials, err := derivedCredentials(doc, options)
	if err != nil {
		return nil, err
	}

	matched := make([]*vc.Credential, 0, len(credentials))

	for _, credential := range credentials {
		if !options.includeExpired && credential.Expired(time.Now()) {
			continue
		}

		if !shape.Matches(credential, template) {
			logger.Warnf("derivation service returned credential %s not matching the requested shape",
				credential.ID())

			continue
		}

		matched = append(matched, credential)
	}

	return matched, nil
}

// GetCredential retrieves a credential by its id. It accepts either a bare
// id or a previously retrieved credential.
func (c *Client) GetCredential(credential interface{}, opts ...CallOption) (*vc.Credential, error) {
	options := newCallOptions(opts)

	id, err := vc.GetID(credential)
	if err != nil {
		return nil, err
	}

	if !vcutil.ValidHTTPURL(id) {
		return nil, fmt.Errorf("%w: credential id %q is not an http url", vc.ErrInvalidParameter, id)
	}

	data, err := c.do(http.MethodGet, id, nil, options.requestToken, options)
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}

	doc, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	return vc.NewCredential(doc, options.parseOptions()...)
}

// RevokeCredential asks the status service to revoke the credential with
// the given id.
func (c *Client) RevokeCredential(credentialID string, opts ...CallOption) error {
	if c.endpoints.Status == "" {
		return fmt.Errorf("%w: status endpoint is not configured", vc.ErrInvalidParameter)
	}

	options := newCallOptions(opts)

	request := updateStatusRequest{
		CredentialID:     credentialID,
		CredentialStatus: []credentialStatus{{Type: RevocationList2020Status, Status: "1"}},
	}

	_, err := c.do(http.MethodPost, c.endpoints.Status, request,
		c.requestToken(statusTokenName, options), options)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRevocation, err.Error())
	}

	return nil
}

// Query sends a query-by-example request to the given endpoint and returns
// the presentation it answers with.
func (c *Client) Query(endpoint string, query PresentationQuery, opts ...CallOption) (*vc.Presentation, error) {
	options := newCallOptions(opts)

	data, err := c.do(http.MethodPost, endpoint, presentationQueryRequest{Query: []PresentationQuery{query}},
		c.requestToken(derivationTokenName, options), options)
	if err != nil {
		return nil, fmt.Errorf("query presentations: %w", err)
	}

	doc, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	return vc.NewPresentation(doc, options.parseOptions()...)
}

// composeCredentialClaims merges subject and credential claims into the
// credential document sent to the issuer, with a unified @context.
func composeCredentialClaims(subjectClaims, credentialClaims map[string]interface{}) map[string]interface{} {
	credential := vcutil.CopyJSONMap(credentialClaims)
	if credential == nil {
		credential = make(map[string]interface{})
	}

	subject := vcutil.CopyJSONMap(subjectClaims)
	if subject == nil {
		subject = make(map[string]interface{})
	}

	credential["@context"] = jsonld.Concatenate(vc.CredentialContext,
		credentialClaims["@context"], subjectClaims["@context"])

	delete(subject, "@context")

	credential["credentialSubject"] = subject

	types := docTypes(credential)
	if !vcutil.StringsContains(vc.VerifiableCredential, types) {
		types = append([]string{vc.VerifiableCredential}, types...)
	}

	typeList := make([]interface{}, len(types))
	for i, t := range types {
		typeList[i] = t
	}

	credential["type"] = typeList

	return credential
}

// derivedCredentials extracts the credentials from a derivation response,
// which is either a presentation or a bare verifiableCredential envelope.
func derivedCredentials(doc map[string]interface{}, options *callOptions) ([]*vc.Credential, error) {
	if vcutil.StringsContains(vc.VerifiablePresentation, docTypes(doc)) {
		presentation, err := vc.NewPresentation(doc, options.parseOptions()...)
		if err != nil {
			return nil, err
		}

		return presentation.Credentials(), nil
	}

	entries, ok := doc["verifiableCredential"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: derivation response carries no credentials", ErrUnexpectedResponse)
	}

	credentials := make([]*vc.Credential, 0, len(entries))

	for i, entry := range entries {
		credentialDoc, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: credential at index %d is not an object", ErrUnexpectedResponse, i)
		}

		credential, err := vc.NewCredential(credentialDoc, options.parseOptions()...)
		if err != nil {
			return nil, err
		}

		credentials = append(credentials, credential)
	}

	return credentials, nil
}

// decodeObject decodes a 2xx response body expected to be a JSON object.
func decodeObject(data []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: body is not json: %s", ErrUnexpectedResponse, err.Error())
	}

	return doc, nil
}

func docTypes(doc map[string]interface{}) []string {
	switch types := doc["type"].(type) {
	case []interface{}:
		out := make([]string, 0, len(types))

		for _, t := range types {
			if s, ok := t.(string); ok {
				out = append(out, s)
			}
		}

		return out
	case string:
		return []string{types}
	}

	return nil
}

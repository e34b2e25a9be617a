/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trustbloc/vc-client/pkg/internal/common/vcutil"
	"github.com/trustbloc/vc-client/pkg/vc"
)

// VerifyCredential sends a credential, or the credential behind an id, to
// the verifier service. Verification semantics belong entirely to the
// verifier: its result is passed through unchanged, and verification
// failures are reported in the result's errors list rather than as a Go
// error. A revoked credential reports RevokedCredentialMessage.
func (c *Client) VerifyCredential(credential interface{}, opts ...CallOption) (*VerificationResult, error) {
	if c.endpoints.Verifier == "" {
		return nil, fmt.Errorf("%w: verifier endpoint is not configured", vc.ErrInvalidParameter)
	}

	options := newCallOptions(opts)

	resolved, err := c.resolveCredential(credential, opts)
	if err != nil {
		return nil, err
	}

	return c.verify(verifyCredentialRequest{VerifiableCredential: resolved.CanonicalJSONLD()}, options)
}

// VerifyPresentation sends a presentation, or the presentation behind an
// id, to the verifier service.
func (c *Client) VerifyPresentation(presentation interface{}, opts ...CallOption) (*VerificationResult, error) {
	if c.endpoints.Verifier == "" {
		return nil, fmt.Errorf("%w: verifier endpoint is not configured", vc.ErrInvalidParameter)
	}

	options := newCallOptions(opts)

	resolved, err := c.resolvePresentation(presentation, opts)
	if err != nil {
		return nil, err
	}

	return c.verify(verifyPresentationRequest{VerifiablePresentation: resolved.CanonicalJSONLD()}, options)
}

func (c *Client) verify(request interface{}, options *callOptions) (*VerificationResult, error) {
	data, err := c.do(http.MethodPost, c.endpoints.Verifier, request,
		c.requestToken(verifierTokenName, options), options)
	if err != nil {
		// verifiers report a failed verification as a non-2xx response with
		// an errors array; that is a verification result, not a call failure
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && len(httpErr.Errors) > 0 {
			return &VerificationResult{Errors: httpErr.Errors}, nil
		}

		return nil, fmt.Errorf("verify: %w", err)
	}

	var result VerificationResult

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: verification result is not json: %s", ErrUnexpectedResponse, err.Error())
	}

	return &result, nil
}

func (c *Client) resolveCredential(credential interface{}, opts []CallOption) (*vc.Credential, error) {
	switch v := credential.(type) {
	case *vc.Credential:
		return v, nil
	case string:
		return c.GetCredential(v, opts...)
	}

	return nil, fmt.Errorf("%w: expected a credential or an id, got %T", vc.ErrInvalidParameter, credential)
}

func (c *Client) resolvePresentation(presentation interface{}, opts []CallOption) (*vc.Presentation, error) {
	switch v := presentation.(type) {
	case *vc.Presentation:
		return v, nil
	case string:
		return c.getPresentation(v, opts...)
	}

	return nil, fmt.Errorf("%w: expected a presentation or an id, got %T", vc.ErrInvalidParameter, presentation)
}

func (c *Client) getPresentation(id string, opts ...CallOption) (*vc.Presentation, error) {
	options := newCallOptions(opts)

	if !vcutil.ValidHTTPURL(id) {
		return nil, fmt.Errorf("%w: presentation id %q is not an http url", vc.ErrInvalidParameter, id)
	}

	data, err := c.do(http.MethodGet, id, nil, options.requestToken, options)
	if err != nil {
		return nil, fmt.Errorf("get presentation: %w", err)
	}

	doc, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	return vc.NewPresentation(doc, options.parseOptions()...)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client

// QueryTypeByExample is the query type tag for query-by-example requests.
const QueryTypeByExample = "QueryByExample"

// RevocationList2020Status is the credentialStatus type sent to the status
// service when revoking a credential.
const RevocationList2020Status = "RevocationList2020Status"

// RevokedCredentialMessage is the error string the verifier service reports
// for a credential that has been revoked.
const RevokedCredentialMessage = "credentialStatus validation has failed: credential has been revoked"

// apiConfiguration is the document served by the discovery endpoint.
type apiConfiguration struct {
	IssuerService     string `json:"issuerService,omitempty"`
	DerivationService string `json:"derivationService,omitempty"`
	StatusService     string `json:"statusService,omitempty"`
	VerifierService   string `json:"verifierService,omitempty"`
}

// issueCredentialRequest request for issuing credential.
type issueCredentialRequest struct {
	Credential map[string]interface{} `json:"credential"`
}

// updateStatusRequest request for revoking credential.
type updateStatusRequest struct {
	CredentialID     string             `json:"credentialId"`
	CredentialStatus []credentialStatus `json:"credentialStatus"`
}

type credentialStatus struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// PresentationQuery is one entry of a presentation query request.
type PresentationQuery struct {
	Type            string            `json:"type"`
	CredentialQuery []CredentialQuery `json:"credentialQuery"`
}

// CredentialQuery constrains a presentation query with an example credential.
type CredentialQuery struct {
	Reason  string                 `json:"reason,omitempty"`
	Example map[string]interface{} `json:"example,omitempty"`
}

// presentationQueryRequest request for querying presentations by example.
type presentationQueryRequest struct {
	Query []PresentationQuery `json:"query"`
}

// verifyCredentialRequest request for verifying a credential.
type verifyCredentialRequest struct {
	VerifiableCredential map[string]interface{} `json:"verifiableCredential"`
}

// verifyPresentationRequest request for verifying a presentation.
type verifyPresentationRequest struct {
	VerifiablePresentation map[string]interface{} `json:"verifiablePresentation"`
}

// VerificationResult is the verifier service's result, passed through
// unchanged: an empty errors list means the object verified.
type VerificationResult struct {
	Checks   []string `json:"checks,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors"`
}

// Valid reports whether verification passed.
func (r *VerificationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PocketIDClientSpec defines the desired state of an OIDC client in Pocket-ID.
type PocketIDClientSpec struct {
	// name is the display name of the OIDC client in Pocket-ID.
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	// id overrides the Pocket-ID client identifier. Defaults to the
	// resource name when empty.
	// +optional
	ID string `json:"id,omitempty"`

	// callbackURLs is the list of allowed redirect URIs.
	// +optional
	// +kubebuilder:validation:MaxItems=50
	CallbackURLs []string `json:"callbackURLs,omitempty"`

	// logoutCallbackURLs is the list of allowed post-logout redirect URIs.
	// +optional
	// +kubebuilder:validation:MaxItems=50
	LogoutCallbackURLs []string `json:"logoutCallbackURLs,omitempty"`

	// isPublic marks the client as public (no client secret required by
	// the provider; a secret is still rotated and materialized).
	// +optional
	IsPublic bool `json:"isPublic,omitempty"`

	// pkceEnabled requires PKCE for the authorization code flow.
	// +optional
	PKCEEnabled bool `json:"pkceEnabled,omitempty"`

	// isGroupRestricted limits the client to explicitly allowed groups.
	// +optional
	IsGroupRestricted bool `json:"isGroupRestricted,omitempty"`

	// launchURL is the URL opened when launching the client from the
	// Pocket-ID dashboard.
	// +optional
	LaunchURL string `json:"launchURL,omitempty"`

	// requiresReauthentication forces re-authentication on every login.
	// +optional
	RequiresReauthentication bool `json:"requiresReauthentication,omitempty"`

	// secretTemplate customizes the name and data of the credentials
	// Secret derived from this client.
	// +optional
	SecretTemplate *SecretTemplate `json:"secretTemplate,omitempty"`
}

// SecretTemplate shapes the derived credentials Secret. Each data value may
// reference {{ .ClientID }}, {{ .ClientSecret }}, {{ .DisplayName }},
// {{ .Namespace }} and {{ .ResourceName }}; unrecognized placeholders are
// passed through verbatim.
type SecretTemplate struct {
	// name overrides the Secret name. Defaults to "<resource name>-credentials".
	// +optional
	// +kubebuilder:validation:Pattern=`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`
	Name string `json:"name,omitempty"`

	// data maps Secret keys to placeholder-bearing string templates.
	// +optional
	Data map[string]string `json:"data,omitempty"`
}

// Phase summarizes where the client sits in its reconcile lifecycle.
// +kubebuilder:validation:Enum=Pending;Retrying;Ready;Failed;Removing;RemovalFailed
type Phase string

const (
	PhasePending       Phase = "Pending"
	PhaseRetrying      Phase = "Retrying"
	PhaseReady         Phase = "Ready"
	PhaseFailed        Phase = "Failed"
	PhaseRemoving      Phase = "Removing"
	PhaseRemovalFailed Phase = "RemovalFailed"
)

// PocketIDClientStatus defines the observed state of PocketIDClient.
// Only the controller writes it.
type PocketIDClientStatus struct {
	// +optional
	Phase Phase `json:"phase,omitempty"`

	// clientId is the identifier of the client in Pocket-ID.
	// +optional
	ClientID string `json:"clientId,omitempty"`

	// secretName is the name of the materialized credentials Secret.
	// +optional
	SecretName string `json:"secretName,omitempty"`

	// retryAttempt counts consecutive failed reconcile attempts for the
	// current generation.
	// +optional
	RetryAttempt int `json:"retryAttempt,omitempty"`

	// nextRetryTime is the earliest time the next attempt may run.
	// +optional
	NextRetryTime *metav1.Time `json:"nextRetryTime,omitempty"`

	// observedGeneration is the generation last reconciled to Ready.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="ClientID",type=string,JSONPath=`.status.clientId`
// +kubebuilder:printcolumn:name="Secret",type=string,JSONPath=`.status.secretName`
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=`.metadata.creationTimestamp`

// PocketIDClient is the Schema for the pocketidclients API
type PocketIDClient struct {
	metav1.TypeMeta `json:",inline"`

	// +optional
	metav1.ObjectMeta `json:"metadata,omitzero"`

	// spec defines the desired client configuration in Pocket-ID
	// +required
	Spec PocketIDClientSpec `json:"spec"`

	// status defines the observed reconcile state
	// +optional
	Status PocketIDClientStatus `json:"status,omitzero"`
}

// +kubebuilder:object:root=true

// PocketIDClientList contains a list of PocketIDClient
type PocketIDClientList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitzero"`
	Items           []PocketIDClient `json:"items"`
}

func init() {
	SchemeBuilder.Register(&PocketIDClient{}, &PocketIDClientList{})
}

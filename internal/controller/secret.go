// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package controller

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	"github.com/lapacek-labs/pocketid-operator/api/v1alpha1"
	"github.com/lapacek-labs/pocketid-operator/pkg/template"
)

const (
	LabelManagedBy = "app.kubernetes.io/managed-by"
	LabelName      = "app.kubernetes.io/name"

	LabelClientName = "pocketidclient.identity.lapacek-labs.org/client-name"
	LabelClientUID  = "pocketidclient.identity.lapacek-labs.org/client-uid"

	credentialsSuffix = "-credentials"

	keyClientID     = "CLIENT_ID"
	keyClientSecret = "CLIENT_SECRET"
)

// resolveClientID returns the Pocket-ID client identifier declared by the
// spec, defaulting to the resource name.
func resolveClientID(obj *v1alpha1.PocketIDClient) string {
	if obj.Spec.ID != "" {
		return obj.Spec.ID
	}
	return obj.Name
}

// resolveSecretName returns the credentials Secret name, honoring the
// template override.
func resolveSecretName(obj *v1alpha1.PocketIDClient) string {
	if obj.Spec.SecretTemplate != nil && obj.Spec.SecretTemplate.Name != "" {
		return obj.Spec.SecretTemplate.Name
	}
	return obj.Name + credentialsSuffix
}

// renderSecretData produces the credentials payload. Without a template the
// payload is the plain client id/secret pair; with one, every declared value
// is rendered against the template context.
func renderSecretData(obj *v1alpha1.PocketIDClient, clientID, clientSecret string) map[string][]byte {
	tmpl := obj.Spec.SecretTemplate
	if tmpl == nil || len(tmpl.Data) == 0 {
		return map[string][]byte{
			keyClientID:     []byte(clientID),
			keyClientSecret: []byte(clientSecret),
		}
	}

	tctx := template.Context{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		DisplayName:  obj.Spec.Name,
		Namespace:    obj.Namespace,
		ResourceName: obj.Name,
	}
	data := make(map[string][]byte, len(tmpl.Data))
	for key, value := range tmpl.Data {
		data[key] = []byte(template.Render(value, tctx))
	}
	return data
}

// applyCredentialsSecret upserts the credentials Secret owned by obj. The
// controller owner reference enables garbage collection as a safety net; the
// deletion path still removes the Secret explicitly.
func (c *Controller) applyCredentialsSecret(ctx context.Context, obj *v1alpha1.PocketIDClient, name string, data map[string][]byte) error {
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: obj.Namespace,
		},
		Type: corev1.SecretTypeOpaque,
	}
	_, err := controllerutil.CreateOrPatch(ctx, c.client, secret, func() error {
		ensureManagedMetadata(&secret.ObjectMeta, obj)
		if err := controllerutil.SetControllerReference(obj, secret, c.scheme); err != nil {
			return err
		}
		secret.Data = data
		secret.Type = corev1.SecretTypeOpaque
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply credentials secret %q: %w", name, err)
	}
	return nil
}

// deleteCredentialsSecret removes the credentials Secret; a missing Secret
// counts as success.
func (c *Controller) deleteCredentialsSecret(ctx context.Context, obj *v1alpha1.PocketIDClient) error {
	name := obj.Status.SecretName
	if name == "" {
		name = resolveSecretName(obj)
	}
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: obj.Namespace,
		},
	}
	if err := c.client.Delete(ctx, secret); err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete credentials secret %q: %w", name, err)
	}
	return nil
}

func ensureManagedMetadata(meta *metav1.ObjectMeta, obj *v1alpha1.PocketIDClient) {
	if meta == nil || obj == nil {
		return
	}
	if meta.Labels == nil {
		meta.Labels = map[string]string{}
	}

	meta.Labels[LabelName] = ID
	meta.Labels[LabelManagedBy] = ID + "-operator"

	meta.Labels[LabelClientName] = obj.Name
	meta.Labels[LabelClientUID] = string(obj.UID)
}

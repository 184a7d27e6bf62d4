// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	controllerruntime "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/lapacek-labs/pocketid-operator/api/v1alpha1"
	"github.com/lapacek-labs/pocketid-operator/internal/pocketid"
	"github.com/lapacek-labs/pocketid-operator/pkg/logging"
	"github.com/lapacek-labs/pocketid-operator/pkg/observability/noop"
)

// fakeAPI is an in-memory Pocket-ID standing in for the REST adapter.
type fakeAPI struct {
	mu      sync.Mutex
	clients map[string]pocketid.ClientDefinition
	secret  string

	createErr error
	updateErr error
	rotateErr error
	deleteErr error

	createCalls int
	updateCalls int
	rotateCalls int
	deleteCalls int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		clients: map[string]pocketid.ClientDefinition{},
		secret:  "s3cr3t",
	}
}

func (f *fakeAPI) Exists(_ context.Context, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.clients[id]
	return ok
}

func (f *fakeAPI) Create(_ context.Context, def pocketid.ClientDefinition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.clients[def.ID] = def
	return nil
}

func (f *fakeAPI) Update(_ context.Context, id string, def pocketid.ClientDefinition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.clients[id]; !ok {
		return fmt.Errorf("update of unknown client %q", id)
	}
	f.clients[id] = def
	return nil
}

func (f *fakeAPI) RotateSecret(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rotateCalls++
	if f.rotateErr != nil {
		return "", f.rotateErr
	}
	if _, ok := f.clients[id]; !ok {
		return "", fmt.Errorf("rotate for unknown client %q", id)
	}
	return f.secret, nil
}

func (f *fakeAPI) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.clients, id)
	return nil
}

func (f *fakeAPI) calls() (created, updated, rotated, deleted int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.updateCalls, f.rotateCalls, f.deleteCalls
}

var _ = Describe("PocketIDClient Controller", func() {
	var (
		ctx        context.Context
		api        *fakeAPI
		reconciler *Controller
		k8sClient  client.Client
		clk        time.Time
		obj        *v1alpha1.PocketIDClient
	)

	newClientObject := func() *v1alpha1.PocketIDClient {
		name := uniqueStr("app")
		return &v1alpha1.PocketIDClient{
			ObjectMeta: metav1.ObjectMeta{
				Name:       name,
				Namespace:  "default",
				UID:        types.UID(uuid.NewString()),
				Generation: 1,
			},
			Spec: v1alpha1.PocketIDClientSpec{
				Name:         "Test App",
				CallbackURLs: []string{"https://" + name + ".example.com/callback"},
				PKCEEnabled:  true,
			},
		}
	}

	buildReconciler := func(objs ...client.Object) {
		scheme := runtime.NewScheme()
		Expect(clientgoscheme.AddToScheme(scheme)).To(Succeed())
		Expect(v1alpha1.AddToScheme(scheme)).To(Succeed())

		k8sClient = fake.NewClientBuilder().
			WithScheme(scheme).
			WithObjects(objs...).
			WithStatusSubresource(&v1alpha1.PocketIDClient{}).
			Build()

		reconciler = NewController(k8sClient, scheme,
			func() (pocketid.API, error) { return api, nil },
			logging.NewLimiter(64), noop.Recorder{})
		reconciler.now = func() time.Time { return clk }
	}

	reconcile := func() (controllerruntime.Result, error) {
		return reconciler.Reconcile(ctx, controllerruntime.Request{
			NamespacedName: types.NamespacedName{Name: obj.Name, Namespace: obj.Namespace},
		})
	}

	refresh := func() {
		key := types.NamespacedName{Name: obj.Name, Namespace: obj.Namespace}
		Expect(k8sClient.Get(ctx, key, obj)).To(Succeed())
	}

	getSecret := func(name string) (*corev1.Secret, error) {
		secret := &corev1.Secret{}
		key := types.NamespacedName{Name: name, Namespace: obj.Namespace}
		return secret, k8sClient.Get(ctx, key, secret)
	}

	BeforeEach(func() {
		ctx = context.Background()
		api = newFakeAPI()
		clk = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		obj = newClientObject()
	})

	Context("creating a client", func() {
		BeforeEach(func() {
			buildReconciler(obj)
		})

		It("creates the Pocket-ID client and the credentials Secret", func() {
			res, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(controllerruntime.Result{}))

			Expect(api.clients).To(HaveKey(obj.Name))
			Expect(api.clients[obj.Name].Name).To(Equal("Test App"))
			Expect(api.clients[obj.Name].PKCEEnabled).To(BeTrue())

			refresh()
			Expect(obj.Finalizers).To(ContainElement(FinalizerName))
			Expect(obj.Status.Phase).To(Equal(v1alpha1.PhaseReady))
			Expect(obj.Status.ClientID).To(Equal(obj.Name))
			Expect(obj.Status.ObservedGeneration).To(Equal(obj.Generation))
			Expect(obj.Status.RetryAttempt).To(BeZero())
			Expect(obj.Status.NextRetryTime).To(BeNil())

			secret, err := getSecret(obj.Name + "-credentials")
			Expect(err).NotTo(HaveOccurred())
			Expect(secret.Data).To(HaveKeyWithValue("CLIENT_ID", []byte(obj.Name)))
			Expect(secret.Data).To(HaveKeyWithValue("CLIENT_SECRET", []byte("s3cr3t")))
			Expect(metav1.IsControlledBy(secret, obj)).To(BeTrue())
			Expect(obj.Status.SecretName).To(Equal(secret.Name))
		})

		It("honors spec.id as the Pocket-ID identifier", func() {
			refresh()
			obj.Spec.ID = "custom-client-id"
			Expect(k8sClient.Update(ctx, obj)).To(Succeed())
			refresh()

			_, err := reconcile()
			Expect(err).NotTo(HaveOccurred())

			Expect(api.clients).To(HaveKey("custom-client-id"))
			refresh()
			Expect(obj.Status.ClientID).To(Equal("custom-client-id"))
		})

		It("drops repeated events for an already processed generation", func() {
			_, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			created, updated, rotated, _ := api.calls()

			_, err = reconcile()
			Expect(err).NotTo(HaveOccurred())

			createdAfter, updatedAfter, rotatedAfter, _ := api.calls()
			Expect(createdAfter).To(Equal(created))
			Expect(updatedAfter).To(Equal(updated))
			Expect(rotatedAfter).To(Equal(rotated))
		})

		It("rejects a spec without a display name and schedules a retry", func() {
			refresh()
			obj.Spec.Name = ""
			Expect(k8sClient.Update(ctx, obj)).To(Succeed())
			refresh()

			res, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RequeueAfter).To(BeNumerically(">", 0))

			created, _, _, _ := api.calls()
			Expect(created).To(BeZero())

			refresh()
			Expect(obj.Status.Phase).To(Equal(v1alpha1.PhaseFailed))
			Expect(obj.Status.RetryAttempt).To(Equal(1))
			Expect(obj.Status.NextRetryTime).NotTo(BeNil())
		})
	})

	Context("recovering from a partial failure", func() {
		BeforeEach(func() {
			buildReconciler(obj)
		})

		It("routes the next attempt to the update branch after the client was created", func() {
			api.rotateErr = fmt.Errorf("secret endpoint unavailable")

			res, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RequeueAfter).To(BeNumerically(">", 0))

			refresh()
			Expect(obj.Status.Phase).To(Equal(v1alpha1.PhaseFailed))
			Expect(obj.Status.RetryAttempt).To(Equal(1))
			Expect(obj.Status.NextRetryTime).NotTo(BeNil())

			api.rotateErr = nil
			clk = obj.Status.NextRetryTime.Time.Add(time.Second)

			res, err = reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(controllerruntime.Result{}))

			created, updated, rotated, _ := api.calls()
			Expect(created).To(Equal(1))
			Expect(updated).To(Equal(1))
			Expect(rotated).To(Equal(2))

			refresh()
			Expect(obj.Status.Phase).To(Equal(v1alpha1.PhaseReady))
			Expect(obj.Status.RetryAttempt).To(BeZero())
		})
	})

	Context("with an open backoff window", func() {
		BeforeEach(func() {
			retryAt := metav1.NewTime(clk.Add(90 * time.Second))
			obj.Status = v1alpha1.PocketIDClientStatus{
				Phase:         v1alpha1.PhaseFailed,
				RetryAttempt:  2,
				NextRetryTime: &retryAt,
				Conditions: []metav1.Condition{{
					Type:               string(v1alpha1.ConditionReady),
					Status:             metav1.ConditionFalse,
					Reason:             string(v1alpha1.ReasonReconcileFailed),
					Message:            "Attempt 2 failed",
					ObservedGeneration: obj.Generation,
					LastTransitionTime: metav1.NewTime(clk.Add(-time.Minute)),
				}},
			}
			buildReconciler(obj)
		})

		It("waits out the window without touching Pocket-ID", func() {
			res, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RequeueAfter).To(BeNumerically(">", 0))
			Expect(res.RequeueAfter).To(BeNumerically("<=", 90*time.Second))

			created, updated, rotated, deleted := api.calls()
			Expect(created + updated + rotated + deleted).To(BeZero())
		})

		It("retries once the window has passed", func() {
			clk = clk.Add(2 * time.Minute)

			res, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(controllerruntime.Result{}))

			created, _, _, _ := api.calls()
			Expect(created).To(Equal(1))

			refresh()
			Expect(obj.Status.Phase).To(Equal(v1alpha1.PhaseReady))
		})
	})

	Context("with an exhausted retry budget", func() {
		BeforeEach(func() {
			obj.Status = v1alpha1.PocketIDClientStatus{
				Phase:        v1alpha1.PhaseFailed,
				RetryAttempt: 10,
				Conditions: []metav1.Condition{{
					Type:               string(v1alpha1.ConditionReady),
					Status:             metav1.ConditionFalse,
					Reason:             string(v1alpha1.ReasonReconcileFailed),
					Message:            "Attempt 10 failed",
					ObservedGeneration: obj.Generation,
					LastTransitionTime: metav1.NewTime(clk.Add(-time.Hour)),
				}},
			}
			buildReconciler(obj)
		})

		It("gives up until the spec changes", func() {
			res, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(controllerruntime.Result{}))

			created, updated, rotated, deleted := api.calls()
			Expect(created + updated + rotated + deleted).To(BeZero())

			refresh()
			Expect(obj.Status.Phase).To(Equal(v1alpha1.PhaseFailed))
			readyIdx := -1
			for i, cond := range obj.Status.Conditions {
				if cond.Type == string(v1alpha1.ConditionReady) {
					readyIdx = i
				}
			}
			Expect(readyIdx).NotTo(Equal(-1))
			Expect(obj.Status.Conditions[readyIdx].Reason).To(Equal(string(v1alpha1.ReasonMaxRetriesExceeded)))
		})

		It("starts over when the generation is bumped", func() {
			_, err := reconcile()
			Expect(err).NotTo(HaveOccurred())

			refresh()
			obj.Spec.CallbackURLs = append(obj.Spec.CallbackURLs, "https://second.example.com/callback")
			obj.Generation++
			Expect(k8sClient.Update(ctx, obj)).To(Succeed())
			refresh()

			res, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(controllerruntime.Result{}))

			created, _, _, _ := api.calls()
			Expect(created).To(Equal(1))

			refresh()
			Expect(obj.Status.Phase).To(Equal(v1alpha1.PhaseReady))
			Expect(obj.Status.RetryAttempt).To(BeZero())
			Expect(obj.Status.ObservedGeneration).To(Equal(obj.Generation))
		})
	})

	Context("templated credentials", func() {
		BeforeEach(func() {
			obj.Spec.SecretTemplate = &v1alpha1.SecretTemplate{
				Name: "custom-creds",
				Data: map[string]string{
					"OIDC_CLIENT_ID":     "{{ .ClientID }}",
					"OIDC_CLIENT_SECRET": "{{ .ClientSecret }}",
					"OIDC_ORIGIN":        "{{ .Namespace }}/{{ .ResourceName }}",
					"ISSUER":             "https://idp.example.com",
				},
			}
			buildReconciler(obj)
		})

		It("renders the declared keys against the credentials", func() {
			_, err := reconcile()
			Expect(err).NotTo(HaveOccurred())

			secret, err := getSecret("custom-creds")
			Expect(err).NotTo(HaveOccurred())
			Expect(secret.Data).To(HaveKeyWithValue("OIDC_CLIENT_ID", []byte(obj.Name)))
			Expect(secret.Data).To(HaveKeyWithValue("OIDC_CLIENT_SECRET", []byte("s3cr3t")))
			Expect(secret.Data).To(HaveKeyWithValue("OIDC_ORIGIN", []byte("default/"+obj.Name)))
			Expect(secret.Data).To(HaveKeyWithValue("ISSUER", []byte("https://idp.example.com")))

			refresh()
			Expect(obj.Status.SecretName).To(Equal("custom-creds"))
		})
	})

	Context("deleting a client", func() {
		BeforeEach(func() {
			buildReconciler(obj)
			_, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			refresh()
			Expect(k8sClient.Delete(ctx, obj)).To(Succeed())
			refresh()
			Expect(obj.DeletionTimestamp).NotTo(BeNil())
		})

		It("removes the external client and the Secret before releasing the finalizer", func() {
			res, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(controllerruntime.Result{}))

			_, _, _, deleted := api.calls()
			Expect(deleted).To(Equal(1))
			Expect(api.clients).NotTo(HaveKey(obj.Name))

			_, err = getSecret(obj.Name + "-credentials")
			Expect(apierrors.IsNotFound(err)).To(BeTrue())

			key := types.NamespacedName{Name: obj.Name, Namespace: obj.Namespace}
			err = k8sClient.Get(ctx, key, &v1alpha1.PocketIDClient{})
			Expect(apierrors.IsNotFound(err)).To(BeTrue())
		})

		It("keeps the finalizer and stops retrying when the external delete fails", func() {
			api.deleteErr = fmt.Errorf("pocket-id unavailable")

			res, err := reconcile()
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(controllerruntime.Result{}))

			refresh()
			Expect(obj.Finalizers).To(ContainElement(FinalizerName))
			Expect(obj.Status.Phase).To(Equal(v1alpha1.PhaseRemovalFailed))

			// The Secret is only removed after the external delete succeeded.
			_, err = getSecret(obj.Name + "-credentials")
			Expect(err).NotTo(HaveOccurred())
		})
	})
})

func uniqueStr(name string) string {
	return name + "-" + uuid.NewString()[:8]
}

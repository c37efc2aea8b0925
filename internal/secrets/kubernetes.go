package secrets

import (
	"context"
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	ctrl "sigs.k8s.io/controller-runtime"
)

// KubernetesProvider resolves secrets as keys of one Kubernetes Secret.
type KubernetesProvider struct {
	client     kubernetes.Interface
	namespace  string
	secretName string
}

// NewKubernetesProvider creates a provider using an existing clientset.
func NewKubernetesProvider(client kubernetes.Interface, namespace, secretName string) (*KubernetesProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("kubernetes client is required")
	}
	if namespace == "" || secretName == "" {
		return nil, fmt.Errorf("namespace and secret name are required")
	}
	return &KubernetesProvider{
		client:     client,
		namespace:  namespace,
		secretName: secretName,
	}, nil
}

// NewKubernetesProviderFromEnvironment builds a clientset from the standard
// config discovery (in-cluster, then kubeconfig).
func NewKubernetesProviderFromEnvironment(namespace, secretName string) (*KubernetesProvider, error) {
	restConfig, err := ctrl.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get Kubernetes config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	return NewKubernetesProvider(clientset, namespace, secretName)
}

// Resolve returns the value stored under key name in the Secret.
func (p *KubernetesProvider) Resolve(ctx context.Context, name string) (string, error) {
	secret, err := p.client.CoreV1().Secrets(p.namespace).Get(ctx, p.secretName, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", &ResolveError{
				Provider: "kubernetes",
				Name:     name,
				Err:      fmt.Errorf("secret %s/%s: %w", p.namespace, p.secretName, ErrNotFound),
			}
		}
		return "", &ResolveError{Provider: "kubernetes", Name: name, Err: err}
	}

	data, ok := secret.Data[name]
	if !ok {
		if s, ok := secret.StringData[name]; ok {
			data = []byte(s)
		} else {
			return "", &ResolveError{
				Provider: "kubernetes",
				Name:     name,
				Err:      fmt.Errorf("key not present in %s/%s: %w", p.namespace, p.secretName, ErrNotFound),
			}
		}
	}

	return strings.TrimSpace(string(data)), nil
}

package config

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"standardsync/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// addErr appends err when it is a ValidationError.
func (ve *ValidationErrors) addErr(err error) {
	if err == nil {
		return
	}
	if v, ok := err.(ValidationError); ok {
		*ve = append(*ve, v)
		return
	}
	ve.Add("", err.Error())
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value, entityType string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", entityType),
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateURL checks that a non-empty value is an absolute http(s) URL
func ValidateURL(field, value string) error {
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be an absolute http or https URL",
		}
	}
	return nil
}

// FormatValidationError creates a consistent validation error message
func FormatValidationError(entityType, entityName string, err error) error {
	if err == nil {
		return nil
	}

	if entityName != "" {
		return fmt.Errorf("validation failed for %s '%s': %w", entityType, entityName, err)
	}
	return fmt.Errorf("validation failed for %s: %w", entityType, err)
}

// Validate checks the whole configuration and returns every problem found.
func (c Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if c.UpdateStandards.RetryLimit < 1 {
		errs.Add("updateStandards.retryLimit", "must be at least 1", c.UpdateStandards.RetryLimit)
	}
	if c.UpdateStandards.Schedule < 0 {
		errs.Add("updateStandards.schedule", "must not be negative", c.UpdateStandards.Schedule)
	}

	c.GitHub.validate(&errs)
	c.Standards.validate(&errs)

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs.Add("logging.level", err.Error(), c.Logging.Level)
	}
	errs.addErr(ValidateOneOf("logging.format", c.Logging.Format, []string{"text", "json"}))

	return errs
}

func (g GitHubConfig) validate(errs *ValidationErrors) {
	if err := ValidateRequired("github.repositoryName", g.RepositoryName, "github"); err != nil {
		errs.addErr(err)
	} else {
		owner, name, ok := strings.Cut(strings.Trim(g.RepositoryName, "/"), "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			errs.Add("github.repositoryName", "must be in owner/name form", g.RepositoryName)
		}
	}

	errs.addErr(ValidateURL("github.baseURL", g.BaseURL))

	if g.Committer.Email != "" {
		if _, err := mail.ParseAddress(g.Committer.Email); err != nil {
			errs.Add("github.committer.email", "must be a valid email address", g.Committer.Email)
		}
	}

	token := g.AccessToken
	errs.addErr(ValidateRequired("github.accessToken.secretName", token.SecretName, "accessToken"))
	if token.CacheTTL < 0 {
		errs.Add("github.accessToken.cacheTTL", "must not be negative", token.CacheTTL)
	}

	switch token.Provider {
	case SecretProviderLocal:
	case SecretProviderFile:
		errs.addErr(ValidateRequired("github.accessToken.directory", token.Directory, "file provider"))
	case SecretProviderKubernetes:
		errs.addErr(ValidateRequired("github.accessToken.namespace", token.Namespace, "kubernetes provider"))
		errs.addErr(ValidateRequired("github.accessToken.kubernetesSecret", token.KubernetesSecret, "kubernetes provider"))
	default:
		errs.addErr(ValidateOneOf("github.accessToken.provider", token.Provider,
			[]string{SecretProviderLocal, SecretProviderFile, SecretProviderKubernetes}))
	}
}

func (s StandardsConfig) validate(errs *ValidationErrors) {
	sources := 0
	for _, v := range []string{s.FeedURL, s.ImportURLEndpoint, s.File} {
		if strings.TrimSpace(v) != "" {
			sources++
		}
	}

	switch {
	case sources == 0:
		errs.Add("standards", "one of feedURL, importUrlEndpoint or file is required")
	case s.File != "" && sources > 1:
		errs.Add("standards.file", "cannot be combined with feedURL or importUrlEndpoint", s.File)
	}

	errs.addErr(ValidateURL("standards.feedURL", s.FeedURL))
	errs.addErr(ValidateURL("standards.importUrlEndpoint", s.ImportURLEndpoint))
}

// Package config loads the standards-sync configuration.
//
// Configuration lives in a single directory containing config.yaml. The
// default directory is ~/.config/standards-sync; commands accept
// --config-path to point elsewhere.
//
// Defaults are applied first and the file is overlaid on top of them, so a
// file only needs the settings that differ. A missing file yields the
// defaults, which do not validate on their own: at least the repository and
// a standards source must be configured.
//
// # Example
//
//	updateStandards:
//	  enabled: true
//	  retryLimit: 3
//	  schedule: 24h
//	  runOnStartup: false
//	github:
//	  repositoryName: SkillsFundingAgency/das-standards
//	  committer:
//	    name: Standards Bot
//	    email: standards@example.com
//	  accessToken:
//	    provider: kubernetes
//	    secretName: GITHUB_ACCESS_TOKEN
//	    namespace: jobs
//	    kubernetesSecret: standards-sync
//	standards:
//	  importUrlEndpoint: https://courses-api.example.com
//	  version: "1.0"
//	server:
//	  address: 0.0.0.0:8090
//	logging:
//	  level: info
//	  format: json
//
// # Validation
//
// LoadConfig validates the merged configuration and reports every problem at
// once as ValidationErrors wrapped with the file path.
//
// # Environment
//
// STANDARDSYNC_FUNCTION_KEY overrides server.functionKey. The local secret
// provider reads the token from the environment variable named by
// github.accessToken.secretName when no value is configured.
package config

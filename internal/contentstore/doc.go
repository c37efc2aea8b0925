// Package contentstore implements reconciler.RemoteStore on top of the GitHub
// repository contents API.
//
// Each document is stored as "{id}.json" at the root of the configured
// repository. GetInfo returns the blob SHA and the base64 content GitHub
// reports, or a zero RemoteFileInfo when the file does not exist. Put creates
// or updates the file in a single commit attributed to the configured
// committer.
//
// Credentials are supplied as an oauth2.TokenSource at construction:
//
//	store, err := contentstore.NewGitHubStore(contentstore.Options{
//		Repository:  "SkillsFundingAgency/das-standards",
//		TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
//	})
//
// Any non-2xx response other than a 404 on read is returned as a *StoreError.
package contentstore

// Package identity is the authentication collaborator of the dashboard core.
//
// It verifies the dashboard session token (HS256, signed by the marketplace
// backend), exposes the current user through context, and publishes
// authenticated/unauthenticated transitions that the notification engine
// subscribes to for its one-fetch-per-login behavior.
//
// Token issuance is out of scope: the marketplace backend mints session
// tokens, this package only verifies them.
package identity

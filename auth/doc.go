// Package auth is the credential-and-session lifecycle engine. It answers
// three questions for every request: who is this principal, is their
// credential still valid, and are they allowed to perform the action.
//
// The package covers password authentication with salted hashing, optional
// TOTP second factor, signed bearer-token issuance and validation, single-use
// time-limited tokens for password reset and email confirmation, and
// invalidation of previously issued tokens when credentials change.
//
// # Architecture boundaries
//
// auth is orchestration only. Persistence lives behind [store.UserStore],
// outbound mail behind [mail.Mailer], token signing in the token package,
// and hashing in the password package. [Engine] methods are safe to call
// from multiple goroutines after construction through [Builder.Build].
//
// # What this package must NOT do
//
//   - Speak HTTP. Cookies, headers, and status codes belong to httpapi and
//     middleware; the engine signals outcomes through results and errors.
//   - Log. Expected failures surface as typed errors; the calling layer
//     decides what to record.
//   - Leak internals in error messages. Every sentinel in errors.go is
//     safe to show to an unauthenticated caller.
package auth

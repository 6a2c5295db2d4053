// Package backend houses the external collaborators consumed through the
// tool registry: account/subscription lookup, plan update decisions and the
// ticket history log, plus the history summarizer the knowledge stage uses.
//
// The collaborator contracts are small interfaces; an in-memory
// implementation backs tests and local development, and Postgres
// implementations back production wiring. Builtin tool constructors in
// tools.go expose the collaborators through the registry envelope.
package backend

// Package session houses concrete implementations of core.ConversationStore.
// The interface itself (and the Conversation struct) live in the core
// package to centralize domain contracts; keeping only implementations here
// prevents higher level packages from depending on concrete storage.
//
// Two drivers are provided: a process-local in-memory store for tests and
// ephemeral demos, and a Redis store for durable multi-process deployments.
// Only the wiring layer needs to decide which implementation to instantiate.
package session

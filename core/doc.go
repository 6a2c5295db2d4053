// Package core defines the shared domain contracts of the deskmesh triage
// workflow: conversation messages, ticket context, classification records,
// knowledge hits, tool call records, escalation packets and the WorkflowState
// that threads them through the orchestration graph.
//
// Contracts live here so component packages (classify, knowledge, tool,
// workflow, session, backend) can depend on a single leaf package without
// introducing cycles. Concrete store implementations live in their own
// packages and are selected at wiring time.
package core

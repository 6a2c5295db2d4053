// Package workflow implements the orchestration core: a fixed directed
// graph of decision stages (classify, knowledge retrieval, tool invocation,
// escalation, finalize) threaded by a mutable WorkflowState, with
// conditional edges branching on stage output.
//
// The graph topology is known at startup and enumerated as an edge table so
// it can be statically verified: every node reachable, every conditional
// edge list terminated by a mandatory default edge. One path executes per
// turn, strictly sequentially; stages never propagate domain failures
// upward — they degrade to the escalation path so every turn ends with
// exactly one assistant reply.
package workflow

// Package agent provides the model-backed AgentRunner implementation.
//
// A ModelAgent drives a language model in a request/response loop: it
// resolves its instruction template against session state, sends the
// conversation history plus tool definitions to the model, emits the model's
// partial and final events, executes requested function calls through the
// run context's composed tool handler, and feeds tool results back into the
// next model turn until a final response is produced.
package agent

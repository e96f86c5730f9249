// Package termagent implements a ReAct (Reason + Act + Observe) control
// loop that turns a natural-language request into a sequence of shell
// command executions and file inspections, using an LLM to decide each
// step.
//
// # Architecture
//
// The loop is assembled from small, explicitly-wired components:
//
//   - [CompletionClient]: opaque interface to the LLM backend. Given a
//     prompt, returns raw text. Implementations live in the models
//     subpackage.
//   - [PromptBuilder]: renders the goal and the running transcript into
//     the next completion request. Implemented in the prompt subpackage.
//   - [ActionParser]: extracts a structured [Action] or a final answer
//     from the raw completion text. Implemented in the parser subpackage.
//   - [ToolExecutor]: executes a single action and returns a structured
//     [Observation]. Implemented in the tools subpackage.
//   - [Loop]: the orchestrator driving Think -> Act -> Observe -> Repeat
//     until completion, termination, or failure.
//
// Data flow for one iteration:
//
//	Loop -> PromptBuilder.Build -> CompletionClient.Complete
//	     -> ActionParser.Parse -> ToolExecutor.Execute
//	     -> Observation appended to Transcript -> repeat
//
// A final answer from the parser terminates the loop and is returned to
// the caller.
//
// # Safety
//
// Every run_command action is checked against a deny policy before any
// process is spawned. This is a best-effort textual filter, not a
// sandbox: the agent executes directly on the host, and the policy only
// blocks commands matching configured patterns. Output sizes, command
// wall-clock time, and iteration counts are all bounded so a confused
// model cannot hang the loop or grow the prompt without limit.
//
// # Quick start
//
//	llm, _ := openai.New(
//	    openai.WithToken(apiKey),
//	    openai.WithBaseURL(cfg.BaseURL),
//	    openai.WithModel(cfg.Model),
//	)
//
//	catalog := termagent.DefaultCatalog()
//	loop := termagent.NewLoop(
//	    models.NewLCGClient(llm),
//	    parser.MustNew(catalog),
//	    tools.NewExecutor(workDir),
//	    prompt.NewBuilder(catalog),
//	)
//
//	result, err := loop.Run(ctx, "list files in the current directory")
package termagent

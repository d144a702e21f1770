package agent

import (
	"context"

	claudeagent "github.com/kazz187/claude-agent-sdk-go"
)

// Runner executes a prompt against the Claude CLI and returns the final
// output. Abstracted so Service tests run without a local CLI install.
type Runner interface {
	Run(ctx context.Context, systemPrompt, prompt, model string, maxTurns int) (*Execution, error)
}

type claudeRunner struct{}

func NewClaudeRunner() Runner {
	return &claudeRunner{}
}

func (claudeRunner) Run(ctx context.Context, systemPrompt, prompt, model string, maxTurns int) (*Execution, error) {
	opts := &claudeagent.ClaudeAgentOptions{
		SystemPrompt:   systemPrompt,
		PermissionMode: claudeagent.PermissionModeDefault,
	}
	if maxTurns > 0 {
		opts.MaxTurns = &maxTurns
	}

	result, err := claudeagent.RunQuerySync(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}
	if result.Result == nil {
		return &Execution{IsError: true, Output: "agent returned no result"}, nil
	}
	return &Execution{
		SessionID: result.Result.SessionID,
		Output:    result.Result.Result,
		IsError:   result.Result.IsError,
	}, nil
}

package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-reports/internal/config"

	"github.com/d5/tengo/v2"
	"go.uber.org/zap"
)

// SandboxExecutor runs a template's computation script in an isolated tengo
// context. The script sees exactly two bindings: "inputs" (the resolved field
// values) and "callback" (its completion signal). No modules are importable,
// so the script has no path to the file system, network or host process.
//
// The script reports its result callback-style:
//
//	callback(undefined, {title: "Campaign summary", rows: ...})
//	callback(error("nothing to report"))
//
// The first callback call wins; later calls are ignored.
type SandboxExecutor struct {
	Timeout time.Duration
	Log     *zap.Logger
}

func NewSandboxExecutor(cfg *config.Config, log *zap.Logger) *SandboxExecutor {
	return &SandboxExecutor{
		Timeout: time.Duration(cfg.ScriptTimeoutMs) * time.Millisecond,
		Log:     log,
	}
}

type scriptResult struct {
	called  bool
	failed  bool
	message string
	outputs tengo.Object
}

// Execute compiles and runs the script under the wall-clock budget. Exactly
// one of {script error, timeout, completion} terminates a run. On timeout the
// VM is aborted, so a looping script stops consuming CPU.
func (e *SandboxExecutor) Execute(ctx context.Context, src string, inputs ResolvedInputs) (ScriptOutputs, error) {
	script := tengo.NewScript([]byte(src))

	var result scriptResult

	// The completion signal handed to the script. Runs on the VM goroutine;
	// RunContext does not return until that goroutine is done, so the result
	// is safe to read afterwards.
	callback := func(args ...tengo.Object) (tengo.Object, error) {
		if result.called {
			return tengo.UndefinedValue, nil
		}
		result.called = true

		if len(args) > 0 && args[0] != tengo.UndefinedValue {
			result.failed = true
			result.message = scriptValueMessage(args[0])
			return tengo.UndefinedValue, nil
		}
		if len(args) > 1 {
			result.outputs = args[1]
		}
		return tengo.UndefinedValue, nil
	}

	if err := script.Add("inputs", map[string]interface{}(inputs)); err != nil {
		return nil, wrapRunError(KindScript, "could not inject inputs into the script", err)
	}
	if err := script.Add("callback", tengo.CallableFunc(callback)); err != nil {
		return nil, wrapRunError(KindScript, "could not inject callback into the script", err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, newRunError(KindScript, scriptErrorMessage(err))
	}

	runCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	err = compiled.RunContext(runCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, newRunError(KindTimeout, fmt.Sprintf("script exceeded its %s execution budget", e.Timeout))
		}
		return nil, newRunError(KindScript, scriptErrorMessage(err))
	}

	if !result.called {
		return nil, newRunError(KindScript, "script completed without signaling a result")
	}
	if result.failed {
		return nil, newRunError(KindScript, result.message)
	}
	if result.outputs == nil {
		return nil, newRunError(KindScript, "script signaled success without outputs")
	}

	outputs, ok := tengo.ToInterface(result.outputs).(map[string]interface{})
	if !ok {
		return nil, newRunError(KindScript, "script outputs must be a map")
	}

	return ScriptOutputs(outputs), nil
}

// scriptErrorMessage renders a tengo compile/runtime error for the operator.
// Tengo errors only reference script source positions, so nothing about the
// host leaks through; stray surrounding whitespace is trimmed.
func scriptErrorMessage(err error) string {
	return strings.TrimSpace(err.Error())
}

// scriptValueMessage turns the value a script passed as its error into text
func scriptValueMessage(o tengo.Object) string {
	if e, ok := o.(*tengo.Error); ok {
		o = e.Value
	}
	if v := tengo.ToInterface(o); v != nil {
		return fmt.Sprintf("%v", v)
	}
	return o.String()
}

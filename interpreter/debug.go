package interpreter

import (
	"log/slog"

	"loxwalk/value"
)

// SetLogger attaches a structured logger used to trace function call
// frames as they are entered and left. nil (the default) disables tracing
// entirely, so a caller who never opts in pays nothing for it.
func (i *Interpreter) SetLogger(logger *slog.Logger) {
	i.logger = logger
}

func (i *Interpreter) traceCall(name string, args []value.Value) {
	if i.logger == nil {
		return
	}
	i.logger.Debug("call", "fn", name, "depth", len(i.callStack), "args", formatArgs(args))
}

func (i *Interpreter) traceReturn(name string, result value.Value) {
	if i.logger == nil {
		return
	}
	i.logger.Debug("return", "fn", name, "depth", len(i.callStack), "value", result.String())
}

func formatArgs(args []value.Value) string {
	out := "("
	for idx, a := range args {
		if idx > 0 {
			out += ", "
		}
		out += a.String()
	}
	return out + ")"
}

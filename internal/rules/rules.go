// Package rules provides the rule-execution framework shared by roswtf
// check plugins. A plugin contributes rules; the framework turns each
// non-empty rule result into a warning or error on the run context.
package rules

import "context"

// Rule pairs a check function with the message prefix shown when the
// check reports a problem.
type Rule struct {
	// Name is a stable rule identifier used in output and downstream processing.
	Name string
	// Check runs the rule against the given context. It returns an empty
	// string when there is nothing to report. An error aborts the run.
	Check func(*Context) (string, error)
	// Message prefixes the rule result in user-facing output.
	Message string
}

// Finding is one recorded rule outcome.
type Finding struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Context carries the state of a single audit run. Plugins forward it to
// their rules and the framework accumulates findings on it.
type Context struct {
	// Ctx bounds subprocess work performed by checks. Callers layer
	// timeouts or cancellation here; the framework itself applies none.
	Ctx context.Context

	Warnings []Finding
	Errors   []Finding
}

// NewContext returns a run context bounded by ctx.
func NewContext(ctx context.Context) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{Ctx: ctx}
}

// WarningRule records a warning on ctx iff result is non-empty.
func WarningRule(r Rule, result string, ctx *Context) {
	if result == "" {
		return
	}
	ctx.Warnings = append(ctx.Warnings, Finding{Rule: r.Name, Message: r.Message + result})
}

// ErrorRule records an error on ctx iff result is non-empty.
func ErrorRule(r Rule, result string, ctx *Context) {
	if result == "" {
		return
	}
	ctx.Errors = append(ctx.Errors, Finding{Rule: r.Name, Message: r.Message + result})
}

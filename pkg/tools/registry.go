package tools

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"mcp-deployment-service/pkg/errors"
	"mcp-deployment-service/pkg/logging"
)

// InvocationObservation describes the outcome of one Invoke call
type InvocationObservation struct {
	ToolName      string
	Duration      time.Duration
	Success       bool
	ErrorCategory errors.ErrorCategory
	// HTTPStatus is zero unless the backend answered with an error status
	HTTPStatus int
}

// Observer receives one observation per invocation
type Observer interface {
	ObserveInvocation(ctx context.Context, observation InvocationObservation)
}

// Registry indexes tools by name and routes invocations to them.
//
// A registry starts unsealed. Tools may only be registered until Seal is
// called and may only be invoked afterwards. Listing works in both states.
type Registry struct {
	registry map[string]Tool
	order    []string
	sealed   bool
	executor *ToolExecutor
	logger   *logging.StructuredLogger
	observer Observer
	mu       sync.RWMutex

	// Performance metrics
	stats ToolStats
}

// ToolStats tracks performance metrics for tool invocations
type ToolStats struct {
	TotalInvocations     int64
	FailedInvocations    int64
	InvocationsByName    map[string]int64
	TotalExecutionTimeMs int64
	ExecutionTimeByName  map[string]int64
	FailuresByCategory   map[string]int64
	mu                   sync.RWMutex
}

// Option configures a Registry
type Option func(*Registry)

// WithStrictOutput checks every result against the tool's output schema
func WithStrictOutput(strict bool) Option {
	return func(r *Registry) {
		r.executor.SetStrictOutput(strict)
	}
}

// WithObserver reports every invocation to observer
func WithObserver(observer Observer) Option {
	return func(r *Registry) {
		r.observer = observer
	}
}

// NewRegistry creates an empty, unsealed registry
func NewRegistry(logger *logging.StructuredLogger, opts ...Option) *Registry {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	r := &Registry{
		registry: make(map[string]Tool),
		executor: NewToolExecutor(logger),
		logger:   logger,
		stats: ToolStats{
			InvocationsByName:   make(map[string]int64),
			ExecutionTimeByName: make(map[string]int64),
			FailuresByCategory:  make(map[string]int64),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool. On failure the registry is unchanged.
func (r *Registry) Register(tool Tool) error {
	return r.RegisterAll(tool)
}

// RegisterAll adds tools as one batch. Every tool is checked, including for
// duplicates within the batch, before any of them is added.
func (r *Registry) RegisterAll(tools ...Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return errors.NewStructuredError(
			errors.ErrorCategoryRegistry,
			errors.ErrorSeverityHigh,
			errors.ErrCodeRegistrySealed,
			"cannot register tools after the registry is sealed",
		)
	}

	batch := make(map[string]bool, len(tools))
	for _, tool := range tools {
		if tool == nil {
			return fmt.Errorf("cannot register nil tool")
		}
		name := tool.Name()
		if name == "" {
			return fmt.Errorf("tool name cannot be empty")
		}
		if _, exists := r.registry[name]; exists || batch[name] {
			return &errors.DuplicateNameError{Name: name}
		}
		batch[name] = true
	}

	for _, tool := range tools {
		name := tool.Name()
		if tool.Description() == "" {
			r.logger.WithContext("tool", name).
				Warn("Tool registered without description")
		}
		r.registry[name] = tool
		r.order = append(r.order, name)
		r.logger.WithContext("tool", name).
			Debug("Tool registered")
	}

	return nil
}

// Seal fixes the set of tools and enables invocation. Sealing twice is a no-op.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return
	}
	r.sealed = true
	r.logger.WithContext("tool_count", len(r.order)).
		Info("Tool registry sealed")
}

// Sealed reports whether Seal has been called
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Len returns the number of registered tools
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// GetTool retrieves a tool by name
func (r *Registry) GetTool(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.registry[name]
	if !exists {
		return nil, &errors.UnknownToolError{Name: name}
	}

	return tool, nil
}

// List returns all registered tool definitions in registration order
func (r *Registry) List() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, NewToolDefinition(r.registry[name]))
	}

	return tools
}

// Invoke validates arguments, runs the named tool and returns its result.
// Errors are typed: UnknownToolError, ValidationError, APIError and
// OutputContractError can all be told apart with errors.As.
func (r *Registry) Invoke(ctx context.Context, name string, arguments map[string]interface{}) (Result, error) {
	startTime := time.Now()

	if !r.Sealed() {
		return Result{}, errors.NewStructuredError(
			errors.ErrorCategoryRegistry,
			errors.ErrorSeverityHigh,
			errors.ErrCodeRegistryNotSealed,
			"tool registry is not sealed",
		)
	}

	result, err := r.invoke(ctx, name, arguments)
	duration := time.Since(startTime)

	// Record metrics
	if err != nil {
		r.recordFailure(name, errors.CategoryOf(err))
	} else {
		r.recordSuccess(name, duration.Milliseconds())
	}
	r.observe(ctx, name, duration, err)

	return result, err
}

func (r *Registry) invoke(ctx context.Context, name string, arguments map[string]interface{}) (Result, error) {
	tool, err := r.GetTool(name)
	if err != nil {
		return Result{}, err
	}
	return r.executor.Execute(ctx, tool, arguments)
}

func (r *Registry) observe(ctx context.Context, name string, duration time.Duration, err error) {
	if r.observer == nil {
		return
	}

	observation := InvocationObservation{
		ToolName: name,
		Duration: duration,
		Success:  err == nil,
	}
	if err != nil {
		observation.ErrorCategory = errors.CategoryOf(err)
		var apiErr *errors.APIError
		if stderrors.As(err, &apiErr) {
			observation.HTTPStatus, _ = apiErr.StatusCode()
		}
	}
	r.observer.ObserveInvocation(ctx, observation)
}

// GetPerformanceMetrics returns current performance metrics
func (r *Registry) GetPerformanceMetrics() map[string]interface{} {
	r.stats.mu.RLock()
	defer r.stats.mu.RUnlock()

	// Copy invocations by name
	invocationsByName := make(map[string]int64)
	for name, count := range r.stats.InvocationsByName {
		invocationsByName[name] = count
	}

	// Copy execution time by name
	executionTimeByName := make(map[string]int64)
	for name, ms := range r.stats.ExecutionTimeByName {
		executionTimeByName[name] = ms
	}

	failuresByCategory := make(map[string]int64)
	for category, count := range r.stats.FailuresByCategory {
		failuresByCategory[category] = count
	}

	return map[string]interface{}{
		"total_invocations":       r.stats.TotalInvocations,
		"failed_invocations":      r.stats.FailedInvocations,
		"invocations_by_name":     invocationsByName,
		"total_execution_time_ms": r.stats.TotalExecutionTimeMs,
		"execution_time_by_name":  executionTimeByName,
		"failures_by_category":    failuresByCategory,
	}
}

// recordSuccess records a successful tool invocation
func (r *Registry) recordSuccess(toolName string, executionTimeMs int64) {
	r.stats.mu.Lock()
	defer r.stats.mu.Unlock()

	r.stats.TotalInvocations++
	r.stats.InvocationsByName[toolName]++
	r.stats.TotalExecutionTimeMs += executionTimeMs
	r.stats.ExecutionTimeByName[toolName] += executionTimeMs
}

// recordFailure records a failed tool invocation
func (r *Registry) recordFailure(toolName string, category errors.ErrorCategory) {
	r.stats.mu.Lock()
	defer r.stats.mu.Unlock()

	r.stats.TotalInvocations++
	r.stats.FailedInvocations++
	r.stats.InvocationsByName[toolName]++
	r.stats.FailuresByCategory[string(category)]++
}

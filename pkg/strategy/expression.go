package strategy

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"llmpanel/internal/config"
	"llmpanel/pkg/logger"
)

// ExpressionResolver dynamically parses logical expressions
type ExpressionResolver struct {
	rules            []CompiledRule
	defaultProviders []string
}

// CompiledRule caches the byte code of the parsed condition
type CompiledRule struct {
	Program   *vm.Program
	Providers []string
}

func NewExpressionResolver(cfg config.DefaultsConfig) *ExpressionResolver {
	var compiledRules []CompiledRule

	for _, rule := range cfg.Rules {
		// Compile expression once at startup
		program, err := expr.Compile(rule.Condition, expr.AllowUndefinedVariables())
		if err != nil {
			logger.Printf("[Strategy] Failed to compile expression %q: %v", rule.Condition, err)
			continue
		}

		compiledRules = append(compiledRules, CompiledRule{
			Program:   program,
			Providers: rule.Providers,
		})
	}

	return &ExpressionResolver{
		rules:            compiledRules,
		defaultProviders: cfg.Providers,
	}
}

func (e *ExpressionResolver) Name() string {
	return "dynamic_expression"
}

func (e *ExpressionResolver) Resolve(f Features) []string {
	env := map[string]interface{}{
		"prompt_len": f.PromptLen,
		"word_count": f.WordCount,
	}

	for _, rule := range e.rules {
		matched, err := expr.Run(rule.Program, env)
		if err == nil {
			if b, ok := matched.(bool); ok && b {
				return rule.Providers
			}
		}
		// If evaluation fails (e.g. unknown variable), we just fall through to the next rule
	}

	return e.defaultProviders
}

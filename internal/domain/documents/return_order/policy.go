package return_order

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
)

// PolicyFacts are the variables visible to a commit policy expression.
type PolicyFacts struct {
	Discrepancies int
	Total         float64
	ResidualDebt  float64
	Lost          int64
}

// CommitPolicy gates commits with a CEL expression, e.g.
//
//	discrepancies == 0 || residual_debt < 500.0
//
// An empty expression allows everything.
type CommitPolicy struct {
	expr string
	prg  cel.Program
}

// NewCommitPolicy compiles expr. The expression must evaluate to bool.
func NewCommitPolicy(expr string) (*CommitPolicy, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return &CommitPolicy{}, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("discrepancies", cel.IntType),
		cel.Variable("total", cel.DoubleType),
		cel.Variable("residual_debt", cel.DoubleType),
		cel.Variable("lost", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("commit policy env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile commit policy: %w", iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("commit policy must return bool, got %s", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("commit policy program: %w", err)
	}

	return &CommitPolicy{expr: expr, prg: prg}, nil
}

// Expr returns the configured expression.
func (p *CommitPolicy) Expr() string {
	return p.expr
}

// Check returns a COMMIT_POLICY_REJECTED error when the expression is false.
func (p *CommitPolicy) Check(ctx context.Context, facts PolicyFacts) error {
	if p == nil || p.prg == nil {
		return nil
	}

	out, _, err := p.prg.ContextEval(ctx, map[string]any{
		"discrepancies": int64(facts.Discrepancies),
		"total":         facts.Total,
		"residual_debt": facts.ResidualDebt,
		"lost":          facts.Lost,
	})
	if err != nil {
		return fmt.Errorf("evaluate commit policy: %w", err)
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return fmt.Errorf("commit policy returned %T", out.Value())
	}
	if !allowed {
		return apperror.NewCommitPolicyRejected(p.expr).
			WithDetail("discrepancies", facts.Discrepancies).
			WithDetail("residualDebt", facts.ResidualDebt)
	}
	return nil
}

func factsFrom(calc Calculation, discrepancies []Discrepancy) PolicyFacts {
	total, _ := calc.Totals.Total.Float64()
	residual, _ := calc.ResidualDebt().Float64()
	return PolicyFacts{
		Discrepancies: len(discrepancies),
		Total:         total,
		ResidualDebt:  residual,
		Lost:          int64(calc.TotalLoss),
	}
}

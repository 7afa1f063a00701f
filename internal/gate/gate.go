package gate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
	"go.uber.org/zap"
)

// #region program

// Program derives violation/1 facts from the signal and plan_strategy facts
// asserted for one plan. Thresholds are evaluated in Go and asserted as facts.
const Program = `
Decl signal(S).
Decl plan_strategy(S).
Decl violation(R).

violation(/r1) :- signal(/crisis_over_80), plan_strategy(/self_help).
violation(/r2) :- signal(/distress_over_70), !signal(/coping_over_50), !signal(/support_over_50).
violation(/r3) :- signal(/contains_pii).
violation(/r4) :- plan_strategy(/direct_advice), !signal(/distress_under_40).
violation(/r5) :- signal(/crisis_over_90), !plan_strategy(/refer).
violation(/r6) :- signal(/length_out_of_range).
`

// #endregion program

// #region rules

type rule struct {
	id          string
	critical    bool
	description string
	holds       func(Context) bool
}

var rules = []rule{
	{
		id:          "r1",
		description: "crisis above 80 forbids a self-help strategy",
		holds: func(c Context) bool {
			return !(c.Snapshot.Crisis > 80 && c.Plan.Strategy == StrategySelfHelp)
		},
	},
	{
		id:          "r2",
		description: "distress above 70 needs coping or support above 50",
		holds: func(c Context) bool {
			return c.Snapshot.Distress <= 70 || c.Snapshot.Coping > 50 || c.Snapshot.Support > 50
		},
	},
	{
		id:          "r3",
		description: "plan must not contain personal data",
		holds:       func(c Context) bool { return !c.Plan.ContainsPII },
	},
	{
		id:          "r4",
		description: "direct advice only when distress is below 40",
		holds: func(c Context) bool {
			return c.Plan.Strategy != StrategyDirectAdvice || c.Snapshot.Distress < 40
		},
	},
	{
		id:          "r5",
		critical:    true,
		description: "crisis above 90 requires a referral",
		holds: func(c Context) bool {
			return c.Snapshot.Crisis <= 90 || c.Plan.Strategy == StrategyRefer
		},
	},
	{
		id:          "r6",
		description: "plan length must be between 10 and 1000 exclusive",
		holds: func(c Context) bool {
			return c.Plan.Length == nil || (*c.Plan.Length > 10 && *c.Plan.Length < 1000)
		},
	},
}

func (r rule) String() string {
	s := strings.ToUpper(r.id) + ": " + r.description
	if r.critical {
		return criticalTagPrefix + s
	}
	return s
}

// #endregion rules

// #region verifier

// Verifier checks a plan against the hard safety rules. It is the last step
// before a response leaves the core; any internal failure yields OK=false.
type Verifier struct {
	mu      sync.Mutex
	program *analysis.ProgramInfo
	loadErr error
	logger  *zap.Logger
}

// NewVerifier compiles Program.
func NewVerifier(logger *zap.Logger) *Verifier {
	return NewVerifierWithProgram(Program, logger)
}

// NewVerifierWithProgram compiles src. A program that fails to parse or
// analyze does not panic; every Verify call then fails closed.
func NewVerifierWithProgram(src string, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := &Verifier{logger: logger.Named("gate")}

	unit, err := parse.Unit(strings.NewReader(src))
	if err != nil {
		v.loadErr = fmt.Errorf("parse constraint program: %w", err)
	} else if v.program, err = analysis.AnalyzeOneUnit(unit, nil); err != nil {
		v.loadErr = fmt.Errorf("analyze constraint program: %w", err)
	}
	if v.loadErr != nil {
		v.logger.Error("constraint program unusable, verifier will fail closed", zap.Error(v.loadErr))
	}
	return v
}

// Verify evaluates every rule. All must hold for OK. The Datalog derivation
// is cross-checked against the direct rule evaluation; a disagreement is
// treated as a solver error.
func (v *Verifier) Verify(c Context) Result {
	derived, err := v.derive(c)
	if err != nil {
		v.logger.Error("constraint evaluation failed", zap.Error(err))
		return Result{OK: false, Reason: ReasonError}
	}

	var violations []string
	for _, r := range rules {
		violated := !r.holds(c)
		if violated != derived[r.id] {
			v.logger.Error("constraint derivation mismatch",
				zap.String("rule", r.id),
				zap.Bool("direct", violated),
				zap.Bool("derived", derived[r.id]))
			return Result{OK: false, Reason: ReasonError}
		}
		if violated {
			violations = append(violations, r.String())
		}
	}

	if len(violations) > 0 {
		v.logger.Info("plan rejected", zap.Strings("violations", violations))
		return Result{OK: false, Reason: ReasonUnsat, Violations: violations}
	}
	return Result{OK: true, Reason: ReasonSatisfied}
}

// derive asserts the plan facts and returns the set of violated rule ids.
func (v *Verifier) derive(c Context) (derived map[string]bool, err error) {
	if v.loadErr != nil {
		return nil, v.loadErr
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	defer func() {
		if p := recover(); p != nil {
			derived, err = nil, fmt.Errorf("constraint evaluation panic: %v", p)
		}
	}()

	store := factstore.NewSimpleInMemoryStore()
	for _, f := range facts(c) {
		name, err := ast.Name("/" + f.arg)
		if err != nil {
			return nil, fmt.Errorf("fact %s(%s): %w", f.pred, f.arg, err)
		}
		store.Add(ast.NewAtom(f.pred, name))
	}

	if _, err := engine.EvalProgramWithStats(v.program, store); err != nil {
		return nil, fmt.Errorf("eval constraint program: %w", err)
	}

	derived = make(map[string]bool)
	query := ast.NewQuery(ast.PredicateSym{Symbol: "violation", Arity: 1})
	err = store.GetFacts(query, func(a ast.Atom) error {
		k, ok := a.Args[0].(ast.Constant)
		if !ok {
			return fmt.Errorf("unexpected violation argument %v", a.Args[0])
		}
		derived[strings.TrimPrefix(k.Symbol, "/")] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read violations: %w", err)
	}
	return derived, nil
}

// #endregion verifier

// #region facts

type fact struct {
	pred string
	arg  string
}

func facts(c Context) []fact {
	var out []fact
	signal := func(on bool, name string) {
		if on {
			out = append(out, fact{pred: "signal", arg: name})
		}
	}
	s := c.Snapshot
	signal(s.Crisis > 80, "crisis_over_80")
	signal(s.Crisis > 90, "crisis_over_90")
	signal(s.Distress > 70, "distress_over_70")
	signal(s.Distress < 40, "distress_under_40")
	signal(s.Coping > 50, "coping_over_50")
	signal(s.Support > 50, "support_over_50")
	signal(c.Plan.ContainsPII, "contains_pii")
	if l := c.Plan.Length; l != nil {
		signal(*l <= 10 || *l >= 1000, "length_out_of_range")
	}
	if c.Plan.Strategy != "" {
		out = append(out, fact{pred: "plan_strategy", arg: string(c.Plan.Strategy)})
	}
	return out
}

// RuleIDs lists the rule identifiers in evaluation order.
func RuleIDs() []string {
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.id
	}
	return ids
}

// #endregion facts

package eval

import (
	"log/slog"

	"github.com/expr-lang/expr/ast"

	"github.com/ardnew/tmplfn/log"
)

// lowering rewrites a parsed expression so that every name, property and
// call goes through the runtime helpers instead of expr-lang's reflection:
//
//	name        __fn($env, "name")
//	a.b, a[b]   __get(a, b)
//	f(x, y)     __call($env, f, x, y)
//	name(x)     __call($env, __callee($env, "name"), x)
//
// Operands of the logical operators and conditions are passed through
// __truthy, and the arguments of expr-lang's remaining builtins through
// __native. Variables bound with let keep their compile-time slots.
//
// ast.Walk visits children before parents, so by the time a node is seen
// its operands are already lowered.
type lowering struct {
	logger log.Logger
}

// Visit implements ast.Visitor.
func (p *lowering) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		if n.Value == envIdent || isHelper(n.Value) {
			return
		}

		p.patch(node, "identifier", n.Value,
			helper(helperIdent, envNode(), &ast.StringNode{Value: n.Value}))

	case *ast.MemberNode:
		if id, ok := n.Node.(*ast.IdentifierNode); ok && id.Value == envIdent {
			return
		}

		p.patch(node, "member", n.String(), helper(helperGet, n.Node, n.Property))

	case *ast.CallNode:
		if id, ok := n.Callee.(*ast.IdentifierNode); ok && isHelper(id.Value) {
			return
		}

		if c, ok := n.Callee.(*ast.CallNode); ok {
			if id, ok := c.Callee.(*ast.IdentifierNode); ok && id.Value == helperIdent {
				id.Value = helperCallee
			}
		}

		args := append([]ast.Node{envNode(), n.Callee}, n.Arguments...)
		p.patch(node, "call", n.String(), helper(helperCall, args...))

	case *ast.BinaryNode:
		switch n.Operator {
		case "and", "&&", "or", "||":
			n.Left = wrap(helperTruthy, n.Left)
			n.Right = wrap(helperTruthy, n.Right)

		case "in":
			n.Right = wrap(helperNative, n.Right)
		}

	case *ast.UnaryNode:
		if n.Operator == "!" || n.Operator == "not" {
			n.Node = wrap(helperTruthy, n.Node)
		}

	case *ast.ConditionalNode:
		n.Cond = wrap(helperTruthy, n.Cond)

	case *ast.BuiltinNode:
		for i, arg := range n.Arguments {
			if _, ok := arg.(*ast.PredicateNode); !ok {
				n.Arguments[i] = wrap(helperNative, arg)
			}
		}

	case *ast.VariableDeclaratorNode:
		ast.Walk(&n.Expr, &binding{name: n.Name})
	}
}

func (p *lowering) patch(node *ast.Node, kind, source string, to ast.Node) {
	p.logger.Trace(
		"lower node",
		slog.String("kind", kind),
		slog.String("source", source),
	)

	ast.Patch(node, to)
}

// binding restores references to a let variable that lowering turned into
// identifier lookups.
type binding struct {
	name string
}

// Visit implements ast.Visitor.
func (b *binding) Visit(node *ast.Node) {
	c, ok := (*node).(*ast.CallNode)
	if !ok || len(c.Arguments) != 2 {
		return
	}

	if id, ok := c.Callee.(*ast.IdentifierNode); !ok ||
		(id.Value != helperIdent && id.Value != helperCallee) {
		return
	}

	if s, ok := c.Arguments[1].(*ast.StringNode); ok && s.Value == b.name {
		ast.Patch(node, &ast.IdentifierNode{Value: b.name})
	}
}

func envNode() ast.Node { return &ast.IdentifierNode{Value: envIdent} }

func helper(name string, args ...ast.Node) ast.Node {
	return &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: name},
		Arguments: args,
	}
}

// wrap returns n passed through the named helper, located where n is.
func wrap(name string, n ast.Node) ast.Node {
	w := helper(name, n)
	w.SetLocation(n.Location())

	return w
}

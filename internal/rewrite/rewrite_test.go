package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/sema"
	"plexilc/internal/source"
	"plexilc/internal/syntax"
)

func analyze(t *testing.T, src string) (*ast.Tree, *diag.Bag) {
	t.Helper()
	root, err := syntax.ReadString(src)
	require.NoError(t, err)
	bag := diag.NewBag(0)
	tree := ast.Build(root, source.FileID(1), diag.BagReporter{Bag: bag})
	sema.Analyze(sema.NewUnit(tree, bag, sema.Options{}))
	return tree, bag
}

// condition returns the expression of the first condition in the tree.
func condition(tree *ast.Tree) ast.NodeID {
	var found ast.NodeID
	tree.Walk(tree.Root, func(id ast.NodeID) bool {
		if found == ast.NoNodeID && tree.Kind(id) == ast.KindCondition {
			found = tree.Child(id, 0)
		}
		return found == ast.NoNodeID
	})
	return found
}

func plan(cond string) string {
	return `
(PLEXIL
  (ACTION (NCNAME=Root)
    (LBRACE
      (VARIABLE_DECLARATIONS
        (VARIABLE_DECLARATION (BOOLEAN_KYWD) (NCNAME=a))
        (VARIABLE_DECLARATION (BOOLEAN_KYWD) (NCNAME=b))
        (VARIABLE_DECLARATION (BOOLEAN_KYWD) (NCNAME=c))
        (VARIABLE_DECLARATION (INTEGER_KYWD) (NCNAME=i))
        (VARIABLE_DECLARATION (STRING_KYWD) (NCNAME=s)))
      (START_CONDITION_KYWD ` + cond + `))))`
}

func TestFlattenAndChain(t *testing.T) {
	tree, bag := analyze(t, plan(`(AND_KYWD (AND_KYWD (NCNAME=a) (NCNAME=b)) (AND_KYWD (NCNAME=c) (TRUE_KYWD)))`))
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	stats := Run(tree, bag)
	assert.Equal(t, 2, stats.Flattened)
	and := condition(tree)
	var texts []string
	for _, c := range tree.Node(and).Children {
		texts = append(texts, tree.Node(c).Text)
		assert.Equal(t, and, tree.Node(c).Parent)
	}
	assert.Equal(t, []string{"a", "b", "c", "true"}, texts)
}

func TestMixedOperatorsStayNested(t *testing.T) {
	tree, bag := analyze(t, plan(`(OR_KYWD (AND_KYWD (NCNAME=a) (NCNAME=b)) (NCNAME=c))`))
	require.False(t, bag.HasErrors())
	assert.Zero(t, Run(tree, bag).Total())
	or := condition(tree)
	assert.Equal(t, ast.KindLogical, tree.Kind(tree.Child(or, 0)))
}

func TestAdditionAndConcatAreSeparateChains(t *testing.T) {
	cond := `(AND_KYWD (GREATER (PLUS (PLUS (NCNAME=i) (INT=1)) (INT=2)) (INT=0))` +
		` (DEQUALS (PLUS (PLUS (NCNAME=s) (STRING="\"x\"")) (STRING="\"y\"")) (STRING="\"sxy\"")))`
	tree, bag := analyze(t, plan(cond))
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	stats := Run(tree, bag)
	assert.Equal(t, 2, stats.Flattened)
	and := condition(tree)
	sum := tree.Child(tree.Child(and, 0), 0)
	assert.Equal(t, 3, tree.ChildCount(sum))
	concat := tree.Child(tree.Child(and, 1), 0)
	assert.Equal(t, 3, tree.ChildCount(concat))
}

func TestDoubleNegationFolds(t *testing.T) {
	tree, bag := analyze(t, plan(`(OR_KYWD (NOT_KYWD (NOT_KYWD (NCNAME=a))) (NOT_KYWD (NOT_KYWD (NOT_KYWD (NCNAME=b)))))`))
	require.False(t, bag.HasErrors())
	stats := Run(tree, bag)
	assert.Equal(t, 2, stats.Negations)
	or := condition(tree)
	first := tree.Node(tree.Child(or, 0))
	assert.Equal(t, ast.KindVariableRef, first.Kind)
	assert.Equal(t, or, first.Parent)
	second := tree.Child(or, 1)
	assert.Equal(t, ast.KindNot, tree.Kind(second))
	assert.Equal(t, ast.KindVariableRef, tree.Kind(tree.Child(second, 0)))
}

func TestErrorsDisableRewriting(t *testing.T) {
	tree, bag := analyze(t, plan(`(AND_KYWD (AND_KYWD (NCNAME=a) (NCNAME=missing)) (NCNAME=c))`))
	require.True(t, bag.HasErrors())
	assert.Zero(t, Run(tree, bag).Total())
	and := condition(tree)
	assert.Equal(t, 2, tree.ChildCount(and))
}

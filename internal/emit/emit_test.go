package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/sema"
	"plexilc/internal/source"
	"plexilc/internal/syntax"
)

func compile(t *testing.T, src string) (*sema.Unit, *diag.Bag) {
	t.Helper()
	root, err := syntax.ReadString(src)
	require.NoError(t, err)
	bag := diag.NewBag(0)
	tree := ast.Build(root, source.FileID(1), diag.BagReporter{Bag: bag})
	u := sema.NewUnit(tree, bag, sema.Options{})
	sema.Analyze(u)
	return u, bag
}

// rootXML renders the plan's root node compactly.
func rootXML(t *testing.T, src string) string {
	t.Helper()
	u, bag := compile(t, src)
	require.False(t, bag.HasErrors(), "unexpected diagnostics: %v", bag.Items())
	e := New(u)
	var action ast.NodeID
	for _, c := range u.Tree.Node(u.Tree.Root).Children {
		if u.Tree.Kind(c) == ast.KindAction {
			action = c
		}
	}
	el := e.Render(action)
	require.NotNil(t, el)
	return serialize(t, el)
}

func serialize(t *testing.T, el *etree.Element) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	s, err := doc.WriteToString()
	require.NoError(t, err)
	return s
}

func TestCollapsedAssignment(t *testing.T) {
	got := rootXML(t, `
(PLEXIL
  (ACTION (NCNAME=Root)
    (LBRACE
      (VARIABLE_DECLARATIONS (VARIABLE_DECLARATION (INTEGER_KYWD) (NCNAME=x) (INT=1)))
      (ACTION (ASSIGNMENT (NCNAME=x) (INT=3))))))`)
	want := `<Node NodeType="Assignment"><NodeId>Root</NodeId>` +
		`<VariableDeclarations><DeclareVariable><Name>x</Name><Type>Integer</Type>` +
		`<InitialValue><IntegerValue>1</IntegerValue></InitialValue></DeclareVariable></VariableDeclarations>` +
		`<NodeBody><Assignment><IntegerVariable>x</IntegerVariable>` +
		`<NumericRHS><IntegerValue>3</IntegerValue></NumericRHS></Assignment></NodeBody></Node>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("xml mismatch (-want +got):\n%s", diff)
	}
}

func TestSequenceHeaderOrder(t *testing.T) {
	got := rootXML(t, `
(PLEXIL
  (ACTION (NCNAME=Root)
    (SEQUENCE_KYWD
      (COMMENT_KYWD (STRING="\"hi\""))
      (MUTEX_KYWD (NCNAME=M))
      (USING_KYWD (NCNAME=M))
      (START_CONDITION_KYWD (TRUE_KYWD))
      (PRIORITY_KYWD (INT=2))
      (ACTION (NCNAME=A) (LBRACE))
      (ACTION (LBRACE)))))`)
	want := `<Sequence><NodeId>Root</NodeId><Comment>hi</Comment>` +
		`<VariableDeclarations><DeclareMutex><Name>M</Name></DeclareMutex></VariableDeclarations>` +
		`<UsingMutex><Name>M</Name></UsingMutex>` +
		`<StartCondition><BooleanValue>true</BooleanValue></StartCondition>` +
		`<Priority>2</Priority>` +
		`<Node NodeType="Empty"><NodeId>A</NodeId></Node>` +
		`<Node NodeType="Empty"><NodeId>Block__0</NodeId></Node></Sequence>`
	assert.Equal(t, want, got)
}

func TestConcurrenceNeverCollapses(t *testing.T) {
	got := rootXML(t, `
(PLEXIL
  (ACTION (NCNAME=Root)
    (CONCURRENCE_KYWD
      (ACTION (UPDATE_KYWD (PAIR (NCNAME=k) (INT=1)))))))`)
	want := `<Concurrence><NodeId>Root</NodeId>` +
		`<Node NodeType="Update"><NodeId>Update__0</NodeId><NodeBody><Update>` +
		`<Pair><Name>k</Name><IntegerValue>1</IntegerValue></Pair></Update></NodeBody></Node></Concurrence>`
	assert.Equal(t, want, got)
}

func TestUncheckedSequenceNeverCollapses(t *testing.T) {
	got := rootXML(t, `
(PLEXIL
  (ACTION (NCNAME=Root)
    (UNCHECKED_SEQUENCE_KYWD
      (ACTION (UPDATE_KYWD (PAIR (NCNAME=k) (INT=1)))))))`)
	want := `<UncheckedSequence><NodeId>Root</NodeId>` +
		`<Node NodeType="Update"><NodeId>Update__0</NodeId><NodeBody><Update>` +
		`<Pair><Name>k</Name><IntegerValue>1</IntegerValue></Pair></Update></NodeBody></Node></UncheckedSequence>`
	assert.Equal(t, want, got)
}

func TestWidenedVariableKeepsDeclaredElement(t *testing.T) {
	got := rootXML(t, `
(PLEXIL
  (ACTION (NCNAME=Root)
    (LBRACE
      (VARIABLE_DECLARATIONS
        (VARIABLE_DECLARATION (INTEGER_KYWD) (NCNAME=i))
        (VARIABLE_DECLARATION (REAL_KYWD) (NCNAME=r)))
      (ACTION (ASSIGNMENT (NCNAME=r) (NCNAME=i))))))`)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(got))
	assign := doc.FindElement("//Assignment")
	require.NotNil(t, assign, got)
	want := `<Assignment><RealVariable>r</RealVariable>` +
		`<NumericRHS><IntegerVariable>i</IntegerVariable></NumericRHS></Assignment>`
	assert.Equal(t, want, serialize(t, assign))
}

func TestBothIdsKeepSequence(t *testing.T) {
	got := rootXML(t, `
(PLEXIL
  (ACTION (NCNAME=Root)
    (LBRACE (ACTION (NCNAME=Inner) (LBRACE)))))`)
	assert.Equal(t,
		`<Sequence><NodeId>Root</NodeId><Node NodeType="Empty"><NodeId>Inner</NodeId></Node></Sequence>`, got)
}

func TestNamedChildIsHoisted(t *testing.T) {
	got := rootXML(t, `
(PLEXIL
  (ACTION
    (LBRACE
      (SKIP_CONDITION_KYWD (FALSE_KYWD))
      (ACTION (NCNAME=Only) (UPDATE_KYWD)))))`)
	assert.Equal(t,
		`<Node NodeType="Update"><NodeId>Only</NodeId>`+
			`<SkipCondition><BooleanValue>false</BooleanValue></SkipCondition>`+
			`<NodeBody><Update/></NodeBody></Node>`, got)
}

const moveDecl = `
  (GLOBAL_DECLARATIONS
    (COMMAND_DECLARATION (NCNAME=move) (RETURNS_KYWD (BOOLEAN_KYWD)) (PARAMETERS (REAL_KYWD (NCNAME=dx)))))`

func TestCommandWithResources(t *testing.T) {
	got := rootXML(t, `(PLEXIL`+moveDecl+`
  (ACTION (NCNAME=Root)
    (LBRACE
      (RESOURCE_KYWD (STRING="\"arm\"") (PRIORITY_KYWD (INT=1)))
      (ACTION (COMMAND (COMMAND_KYWD (NCNAME=move)) (ARGUMENT_LIST (DOUBLE=1.5)))))))`)
	want := `<Node NodeType="Command"><NodeId>Root</NodeId><NodeBody><Command>` +
		`<ResourceList><Resource><ResourceName><StringValue>arm</StringValue></ResourceName>` +
		`<ResourcePriority><IntegerValue>1</IntegerValue></ResourcePriority></Resource></ResourceList>` +
		`<Name><StringValue>move</StringValue></Name>` +
		`<Arguments><RealValue>1.5</RealValue></Arguments></Command></NodeBody></Node>`
	assert.Equal(t, want, got)
}

func TestCommandAssignment(t *testing.T) {
	got := rootXML(t, `(PLEXIL`+moveDecl+`
  (ACTION (NCNAME=Root)
    (LBRACE
      (VARIABLE_DECLARATIONS (VARIABLE_DECLARATION (BOOLEAN_KYWD) (NCNAME=ok)))
      (ACTION (ASSIGNMENT (NCNAME=ok@4:7) (COMMAND (COMMAND_KYWD (NCNAME=move)) (ARGUMENT_LIST (INT=2))))))))`)
	want := `<Node NodeType="Command"><NodeId>Root</NodeId>` +
		`<VariableDeclarations><DeclareVariable><Name>ok</Name><Type>Boolean</Type></DeclareVariable></VariableDeclarations>` +
		`<NodeBody><Command LineNo="4" ColNo="7"><BooleanVariable LineNo="4" ColNo="7">ok</BooleanVariable>` +
		`<Name><StringValue>move</StringValue></Name>` +
		`<Arguments><RealValue>2</RealValue></Arguments></Command></NodeBody></Node>`
	assert.Equal(t, want, got)
}

func TestSynchronousCommand(t *testing.T) {
	got := rootXML(t, `(PLEXIL`+moveDecl+`
  (ACTION (NCNAME=Root)
    (SYNCHRONOUS_COMMAND_KYWD
      (COMMAND (COMMAND_KYWD (NCNAME=move)) (ARGUMENT_LIST (DOUBLE=1.0)))
      (CHECKED_KYWD)
      (DOUBLE=5.0)
      (DOUBLE=0.5))))`)
	want := `<SynchronousCommand><NodeId>Root</NodeId><Checked/>` +
		`<Timeout><RealValue>5.0</RealValue><Tolerance><RealValue>0.5</RealValue></Tolerance></Timeout>` +
		`<Command><Name><StringValue>move</StringValue></Name>` +
		`<Arguments><RealValue>1.0</RealValue></Arguments></Command></SynchronousCommand>`
	assert.Equal(t, want, got)
}

func TestLibraryCallAndDeclaration(t *testing.T) {
	u, bag := compile(t, `
(PLEXIL
  (GLOBAL_DECLARATIONS
    (LIBRARY_NODE_DECLARATION (NCNAME=Lib)
      (LIBRARY_INTERFACE
        (IN_KYWD (INTEGER_KYWD) (NCNAME=a) (INITIAL_VALUE (INT=2)))
        (IN_OUT_KYWD (REAL_KYWD) (NCNAME=r)))))
  (ACTION (NCNAME=Root)
    (LBRACE
      (VARIABLE_DECLARATIONS (VARIABLE_DECLARATION (REAL_KYWD) (NCNAME=v)))
      (ACTION (LIBRARY_CALL_KYWD (NCNAME=Lib) (ALIASES (ALIAS (NCNAME=r) (NCNAME=v))))))))`)
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	doc := Document(u, "lib.pli")
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, doc, false))
	want := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<PlexilPlan FileName="lib.pli"><GlobalDeclarations><LibraryNodeDeclaration><Name>Lib</Name><Interface>` +
		`<In><DeclareVariable><Name>a</Name><Type>Integer</Type><InitialValue><IntegerValue>2</IntegerValue></InitialValue></DeclareVariable></In>` +
		`<InOut><DeclareVariable><Name>r</Name><Type>Real</Type></DeclareVariable></InOut>` +
		`</Interface></LibraryNodeDeclaration></GlobalDeclarations>` +
		`<Node NodeType="LibraryNodeCall"><NodeId>Root</NodeId>` +
		`<VariableDeclarations><DeclareVariable><Name>v</Name><Type>Real</Type></DeclareVariable></VariableDeclarations>` +
		`<NodeBody><LibraryNodeCall><NodeId>Lib</NodeId>` +
		`<Alias><NodeParameter>r</NodeParameter><RealVariable>v</RealVariable></Alias>` +
		`</LibraryNodeCall></NodeBody></Node></PlexilPlan>`
	assert.Equal(t, want, buf.String())
}

func TestGlobalDeclarationShapes(t *testing.T) {
	u, bag := compile(t, `
(PLEXIL
  (GLOBAL_DECLARATIONS
    (COMMAND_DECLARATION (NCNAME=log) (PARAMETERS (STRING_KYWD) (ELLIPSIS)))
    (STATE_DECLARATION (NCNAME=pos) (RETURNS_KYWD (ARRAY_TYPE (REAL_KYWD) (INT=3))))
    (MUTEX_KYWD (NCNAME=M)))
  (ACTION (NCNAME=Root) (LBRACE)))`)
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	e := New(u)
	decls := u.Tree.Node(u.Tree.Root).Children[0]
	want := `<GlobalDeclarations>` +
		`<CommandDeclaration><Name>log</Name><Parameter><Type>String</Type></Parameter><AnyParameters/></CommandDeclaration>` +
		`<StateDeclaration><Name>pos</Name><Return><Type>Real</Type><MaxSize>3</MaxSize></Return></StateDeclaration>` +
		`<DeclareMutex><Name>M</Name></DeclareMutex></GlobalDeclarations>`
	assert.Equal(t, want, serialize(t, e.Render(decls)))
}

func TestExpressionElements(t *testing.T) {
	got := rootXML(t, `
(PLEXIL
  (ACTION (NCNAME=Root)
    (LBRACE
      (VARIABLE_DECLARATIONS
        (VARIABLE_DECLARATION (STRING_KYWD) (NCNAME=s))
        (ARRAY_VARIABLE_DECLARATION (REAL_KYWD) (NCNAME=a) (INT=2) (ARRAY_LITERAL (INT=1) (INT=2))))
      (INVARIANT_CONDITION_KYWD
        (AND_KYWD
          (DEQUALS (PLUS (NCNAME=s) (STRING="\"x\"")) (STRING="\"yx\""))
          (NOT_KYWD (IS_KNOWN_KYWD (ARRAY_REF (NCNAME=a) (INT=0))))
          (LESS (NODE_TIMEPOINT_VALUE (SELF_KYWD) (NODE_STATE_KYWD=EXECUTING) (START_KYWD)) (DOUBLE=1.0))))
      (ACTION (ASSIGNMENT (NCNAME=s) (LOOKUP_NOW_KYWD (STATE_NAME (NCNAME=name))))))))`)
	for _, frag := range []string{
		`<ArrayValue Type="Real"><RealValue>1</RealValue><RealValue>2</RealValue></ArrayValue>`,
		`<EQString><Concat><StringVariable>s</StringVariable><StringValue>x</StringValue></Concat><StringValue>yx</StringValue></EQString>`,
		`<NOT><IsKnown><ArrayElement><ArrayVariable>a</ArrayVariable><Index><IntegerValue>0</IntegerValue></Index></ArrayElement></IsKnown></NOT>`,
		`<LT><NodeTimepointValue><NodeRef dir="self"/><NodeStateValue>EXECUTING</NodeStateValue><Timepoint>START</Timepoint></NodeTimepointValue><RealValue>1.0</RealValue></LT>`,
		`<StringRHS><LookupNow><Name><StringValue>name</StringValue></Name></LookupNow></StringRHS>`,
	} {
		assert.Contains(t, got, frag)
	}
	assert.True(t, strings.HasPrefix(got, `<Node NodeType="Assignment"><NodeId>Root</NodeId>`), got)
}

func TestControlForms(t *testing.T) {
	got := rootXML(t, `
(PLEXIL
  (ACTION (NCNAME=Root)
    (LBRACE
      (VARIABLE_DECLARATIONS (VARIABLE_DECLARATION (BOOLEAN_KYWD) (NCNAME=b)))
      (ACTION
        (IF_KYWD (NCNAME=b)
          (ACTION (NCNAME=T) (LBRACE))
          (ELSEIF_KYWD (NOT_KYWD (NCNAME=b)) (ACTION (NCNAME=E) (LBRACE)))
          (ELSE_KYWD (ACTION (NCNAME=F) (LBRACE))))))))`)
	want := `<If><NodeId>Root</NodeId>` +
		`<VariableDeclarations><DeclareVariable><Name>b</Name><Type>Boolean</Type></DeclareVariable></VariableDeclarations>` +
		`<Condition><BooleanVariable>b</BooleanVariable></Condition>` +
		`<Then><Node NodeType="Empty"><NodeId>T</NodeId></Node></Then>` +
		`<ElseIf><Condition><NOT><BooleanVariable>b</BooleanVariable></NOT></Condition>` +
		`<Then><Node NodeType="Empty"><NodeId>E</NodeId></Node></Then></ElseIf>` +
		`<Else><Node NodeType="Empty"><NodeId>F</NodeId></Node></Else></If>`
	assert.Equal(t, want, got)
}

func TestForLoop(t *testing.T) {
	got := rootXML(t, `
(PLEXIL
  (ACTION (NCNAME=Root)
    (FOR_KYWD (VARIABLE_DECLARATION (INTEGER_KYWD) (NCNAME=i) (INT=0))
      (LESS (NCNAME=i) (INT=3))
      (PLUS (NCNAME=i) (INT=1))
      (ACTION (NCNAME=Body) (LBRACE)))))`)
	want := `<For><NodeId>Root</NodeId>` +
		`<LoopVariable><DeclareVariable><Name>i</Name><Type>Integer</Type><InitialValue><IntegerValue>0</IntegerValue></InitialValue></DeclareVariable></LoopVariable>` +
		`<Condition><LT><IntegerVariable>i</IntegerVariable><IntegerValue>3</IntegerValue></LT></Condition>` +
		`<LoopVariableUpdate><ADD><IntegerVariable>i</IntegerVariable><IntegerValue>1</IntegerValue></ADD></LoopVariableUpdate>` +
		`<Action><Node NodeType="Empty"><NodeId>Body</NodeId></Node></Action></For>`
	assert.Equal(t, want, got)
}

func TestLocatorsAndMemoization(t *testing.T) {
	u, bag := compile(t, `
(PLEXIL
  (ACTION@1:0 (NCNAME=Root@1:0)
    (LBRACE@1:6 (ACTION (WAIT_KYWD@2:2 (DOUBLE=1.0@2:7))))))`)
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	e := New(u)
	root := u.Tree.Node(u.Tree.Root).Children[0]
	first := e.Render(root)
	assert.Same(t, first, e.Render(root))
	got := serialize(t, first)
	assert.Contains(t, got, `<Wait LineNo="2" ColNo="2"><NodeId>Wait__0</NodeId><Units><RealValue>1.0</RealValue></Units></Wait>`)
	assert.True(t, strings.HasPrefix(got, `<Sequence LineNo="1" ColNo="0"><NodeId>Root</NodeId>`), got)
}

func TestPrettyOutput(t *testing.T) {
	u, _ := compile(t, `(PLEXIL (ACTION (NCNAME=Root) (LBRACE)))`)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Document(u, "p.pli"), true))
	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<PlexilPlan FileName=\"p.pli\">\n" +
		"  <Node NodeType=\"Empty\">\n" +
		"    <NodeId>Root</NodeId>\n" +
		"  </Node>\n" +
		"</PlexilPlan>\n"
	assert.Equal(t, want, strings.TrimRight(buf.String(), "\n")+"\n")
}

func TestStandaloneKindIsFatal(t *testing.T) {
	u, bag := compile(t, `(PLEXIL (ACTION (NCNAME=Root) (LBRACE)))`)
	e := New(u)
	name := u.Tree.Node(u.Tree.Node(u.Tree.Root).Children[0]).Children[0]
	assert.Nil(t, e.Render(name))
	require.True(t, bag.HasFatal())
	assert.Equal(t, diag.InternalEmit, bag.Items()[0].Code)
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func functionsByName(fns []Function) map[string]Function {
	out := make(map[string]Function, len(fns))
	for _, fn := range fns {
		out[fn.Name] = fn
	}
	return out
}

func TestExtractFunctionForms(t *testing.T) {
	src := NewSource(`export function add(a: number, b: number): number {
  return a + b;
}

async function load(url) {
  return fetch(url);
}

export const Header: React.FC<HeaderProps> = ({ title }) => {
  return <h1>{title}</h1>;
};

const double = (n: number): number => n * 2;

const square = n => n * n;

export const Card = React.memo((props: CardProps) => <div>{props.children}</div>);

const Input = forwardRef(function FancyInput(props, ref) {
  return <input ref={ref} />;
});

export function useCounter(initial = 0) {
  const [count, setCount] = useState(initial);
  return count;
}

const useTheme = createHook();

export const ProtectedRoute = withAuth(Route);
`)

	fns := ExtractFunctions(src)
	byName := functionsByName(fns)

	for _, name := range []string{"add", "load", "Header", "double", "square", "Card", "Input", "useCounter", "useTheme", "ProtectedRoute"} {
		assert.Contains(t, byName, name)
	}

	add := byName["add"]
	assert.Equal(t, FormDeclared, add.Form)
	assert.True(t, add.Exported)
	assert.False(t, add.IsHook)
	assert.Equal(t, "number", add.ReturnType)
	require.Len(t, add.Parameters, 2)
	assert.Equal(t, "b", add.Parameters[1].Name)
	assert.Equal(t, 1, add.Line)

	assert.Equal(t, []string{"async"}, byName["load"].Modifiers)
	assert.False(t, byName["load"].Exported)

	header := byName["Header"]
	assert.Equal(t, FormTypedFC, header.Form)
	assert.True(t, header.IsComponent)
	require.Len(t, header.Parameters, 1)
	assert.True(t, header.Parameters[0].Destructured)

	assert.Equal(t, FormArrow, byName["double"].Form)
	assert.Equal(t, "number", byName["double"].ReturnType)
	assert.Equal(t, "n", byName["square"].Parameters[0].Name)

	assert.Equal(t, FormMemo, byName["Card"].Form)
	assert.True(t, byName["Card"].IsComponent)
	assert.Equal(t, "CardProps", byName["Card"].Parameters[0].Type)

	assert.Equal(t, FormForwardRef, byName["Input"].Form)
	assert.Len(t, byName["Input"].Parameters, 2)
	assert.Equal(t, FormDeclared, byName["FancyInput"].Form)

	assert.True(t, byName["useCounter"].IsHook)
	assert.Equal(t, FormDeclared, byName["useCounter"].Form)
	assert.Equal(t, FormHook, byName["useTheme"].Form)

	hoc := byName["ProtectedRoute"]
	assert.Equal(t, FormHOC, hoc.Form)
	assert.Equal(t, []string{"withAuth"}, hoc.Modifiers)
}

func TestExtractFunctionsSortedByLine(t *testing.T) {
	src := NewSource("const b = () => 1;\nfunction a() {}\n")
	fns := ExtractFunctions(src)
	require.Len(t, fns, 2)
	assert.Equal(t, "b", fns[0].Name)
	assert.Equal(t, "a", fns[1].Name)
}

func TestExtractFunctionsDiscardsMethodCallTargets(t *testing.T) {
	src := NewSource(`function render() {}
function keep() {}
view.render(data);
`)

	fns := ExtractFunctions(src)
	require.Len(t, fns, 1)
	assert.Equal(t, "keep", fns[0].Name)
}

func TestExtractFunctionsSkipsParenthesisedExpressions(t *testing.T) {
	src := NewSource("const total = (a + b) * 2;\nconst result = compute(x);\n")
	assert.Empty(t, ExtractFunctions(src))
}

func TestComponentNames(t *testing.T) {
	assert.True(t, IsComponentName("ProfilePage"))
	assert.True(t, IsComponentName("MainLayout"))
	assert.False(t, IsComponentName("formatDate"))

	assert.True(t, IsHookName("useState"))
	assert.True(t, IsHookName("use3D"))
	assert.False(t, IsHookName("user"))
	assert.False(t, IsHookName("useless"))
}

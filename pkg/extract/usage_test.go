package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func usageNames(usages []Usage) []string {
	var names []string
	for _, u := range usages {
		names = append(names, u.Name)
	}
	return names
}

func TestExtractComponents(t *testing.T) {
	src := NewSource(`export default function App() {
  const items = useMemo(() => new Array<Item>(), []);
  return (
    <Layout.Root>
      <Widget/>
      <Widget title="again" />
      <div className="plain">{count < Max ? <Badge>ok</Badge> : null}</div>
    </Layout.Root>
  );
}
`)

	assert.Equal(t, []string{"Layout.Root", "Widget", "Badge"}, usageNames(ExtractComponents(src)))
}

func TestExtractComponentsIgnoresGenerics(t *testing.T) {
	src := NewSource("const m = new Map<String, Number>();\nfunction f<T>(x: Array<Item>) {}\n")
	assert.Empty(t, ExtractComponents(src))
}

func TestExtractHooks(t *testing.T) {
	src := NewSource(`function useToggle() {
  const [on, setOn] = useState(false);
  useEffect(() => {}, []);
  const other = React.useState(1);
  return useCallback(() => setOn(!on), [on]);
}
// useCommented()
const user = getUser();
`)

	hooks := ExtractHooks(src)
	assert.Equal(t, []string{"useToggle", "useState", "useEffect", "useCallback"}, usageNames(hooks))
	assert.Equal(t, 2, hooks[1].Line)
}

func TestExtractComponentsSurvivesJSXText(t *testing.T) {
	src := NewSourceFor("src/Help.tsx", `export function Help() {
  return (
    <section>
      <p>Don't panic, <Link to="/faq" /></p>
      <p>Globs like src/*.ts work</p>
      <p>see https://x.io <Anchor /></p>
      <Footer />
    </section>
  );
}

export function useHelp() { return useState(0) }
`)

	assert.Equal(t, []string{"Link", "Anchor", "Footer"}, usageNames(ExtractComponents(src)))
	assert.Equal(t, []string{"useHelp", "useState"}, usageNames(ExtractHooks(src)))
}

func TestExtractComponentsSkipsTypeParameters(t *testing.T) {
	for _, code := range []string{
		"const id = <T>(x: T) => x;\n",
		"const pair = <K, V>(k: K, v: V) => [k, v];\n",
		"const wrap = <T extends object>(x: T) => x;\n",
		"const tsx = <T,>(x: T) => x;\n",
	} {
		assert.Empty(t, ExtractComponents(NewSourceFor("id.ts", code)), code)
		assert.Empty(t, ExtractComponents(NewSource(code)), code)
	}
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func methodNames(methods []Function) []string {
	var names []string
	for _, m := range methods {
		names = append(names, m.Name)
	}
	return names
}

func TestExtractClassWithMethods(t *testing.T) {
	src := NewSource(`export class UserService extends BaseService {
  private cache = new Map();

  constructor(private readonly http: HttpClient) {
    super();
  }

  async getUser(id: string): Promise<User> {
    if (id) {
      return this.http.get(id);
    }
    for (const x of []) {}
  }

  static create(): UserService {
    return new UserService(null);
  }

  handleClick = (event: MouseEvent): void => {
    console.log(event);
  };
}
`)

	classes := ExtractDeclarations(src)
	require.Len(t, classes, 1)

	cls := classes[0]
	assert.Equal(t, "UserService", cls.Name)
	assert.Equal(t, DeclClass, cls.Kind)
	assert.Equal(t, "BaseService", cls.Extends)
	assert.True(t, cls.Exported)
	assert.False(t, cls.IsComponentSubclass)
	assert.Equal(t, 1, cls.Line)

	assert.Equal(t, []string{"constructor", "getUser", "create", "handleClick"}, methodNames(cls.Methods))

	getUser := cls.Methods[1]
	assert.Equal(t, "UserService", getUser.Class)
	assert.Equal(t, "Promise<User>", getUser.ReturnType)
	assert.Equal(t, []string{"async"}, getUser.Modifiers)
	require.Len(t, getUser.Parameters, 1)
	assert.Equal(t, "id", getUser.Parameters[0].Name)
	assert.Equal(t, "string", getUser.Parameters[0].Type)

	assert.Equal(t, []string{"static"}, cls.Methods[2].Modifiers)

	handle := cls.Methods[3]
	assert.Equal(t, "void", handle.ReturnType)
	require.Len(t, handle.Parameters, 1)
	assert.Equal(t, "MouseEvent", handle.Parameters[0].Type)
}

func TestExtractReactClassComponent(t *testing.T) {
	src := NewSource(`class Clock extends React.Component<Props, State> {
  componentDidMount() {
    this.timer = setInterval(() => this.tick(), 1000);
  }

  render() {
    return <div>{this.state.time}</div>;
  }
}
`)

	classes := ExtractDeclarations(src)
	require.Len(t, classes, 1)
	assert.True(t, classes[0].IsComponentSubclass)
	assert.False(t, classes[0].Exported)

	require.Len(t, classes[0].Methods, 2)
	for _, m := range classes[0].Methods {
		assert.True(t, m.IsLifecycle, m.Name)
	}
}

func TestExtractInterfaceAndTypeAlias(t *testing.T) {
	src := NewSource(`export interface Repository<T> extends Base {
  find(id: string): T | undefined;
  save(item: T): Promise<void>;
  name: string;
}

type Handlers = {
  onChange(value: string): void;
  onBlur: () => void;
};

type Alias = string;
`)

	classes := ExtractDeclarations(src)
	require.Len(t, classes, 2)

	assert.Equal(t, "Repository", classes[0].Name)
	assert.Equal(t, DeclInterface, classes[0].Kind)
	assert.Equal(t, []string{"find", "save"}, methodNames(classes[0].Methods))
	assert.Equal(t, "T | undefined", classes[0].Methods[0].ReturnType)

	assert.Equal(t, "Handlers", classes[1].Name)
	assert.Equal(t, DeclType, classes[1].Kind)
	assert.Equal(t, []string{"onChange"}, methodNames(classes[1].Methods))
}

func TestExtractClassOverloadsKeepFirst(t *testing.T) {
	src := NewSource(`class Parser {
  parse(input: string): Node;
  parse(input: Buffer): Node;
  parse(input: any): Node {
    return null;
  }
}
`)

	classes := ExtractDeclarations(src)
	require.Len(t, classes, 1)
	require.Len(t, classes[0].Methods, 1)
	assert.Equal(t, "string", classes[0].Methods[0].Parameters[0].Type)
}

func TestExtractClassWithInlineGenericBase(t *testing.T) {
	src := NewSource(`export class Greeting<T extends { id: string }> extends Component<{ name: string; item: T }> implements Printable {
  render() {
    return <p>Hello, {this.props.name}</p>;
  }
}
`)

	classes := ExtractDeclarations(src)
	require.Len(t, classes, 1)

	cls := classes[0]
	assert.Equal(t, "Greeting", cls.Name)
	assert.Equal(t, "Component<{ name: string; item: T }>", cls.Extends)
	assert.True(t, cls.IsComponentSubclass)
	assert.Equal(t, []string{"render"}, methodNames(cls.Methods))
}

func TestExtractDeclarationsIgnoresProseAfterClassKeyword(t *testing.T) {
	src := NewSource("const help = (\n  <p>This class handles things.</p>\n);\nfunction run() { return 1; }\n")
	assert.Empty(t, ExtractDeclarations(src))
}

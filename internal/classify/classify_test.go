package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JavierFrauca/mcp-code-manager/internal/analyzer"
	"github.com/JavierFrauca/mcp-code-manager/internal/config"
)

// Test Plan for Classifier:
// - Fixed rule order: interface and enum outrank name heuristics
// - DTO requires a recognized suffix and no methods
// - Service by suffix or namespace segment
// - Controller by suffix or base type
// - record/struct fall through to their syntactic kind
// - Determinism: identical input, identical output
// - Kind parsing accepts case-insensitive names

func newClassifier() *Classifier {
	return New(config.Default().Classifier)
}

func decl(name string, kind analyzer.TypeKind) *analyzer.TypeDeclaration {
	return &analyzer.TypeDeclaration{Name: name, Kind: kind}
}

func TestClassify_RuleOrder(t *testing.T) {
	t.Parallel()

	c := newClassifier()

	tests := []struct {
		name string
		decl *analyzer.TypeDeclaration
		ctx  Context
		want ElementKind
	}{
		{"interface wins over service suffix", decl("IUserService", analyzer.KindInterface), Context{}, Interface},
		{"enum wins over dto suffix", decl("StatusDto", analyzer.KindEnum), Context{}, Enum},
		{"dto by suffix", decl("UserDto", analyzer.KindClass), Context{}, DTO},
		{"request suffix", decl("CreateUserRequest", analyzer.KindClass), Context{}, DTO},
		{"viewmodel suffix", decl("LoginViewModel", analyzer.KindClass), Context{}, DTO},
		{"service by suffix", decl("UserService", analyzer.KindClass), Context{}, Service},
		{"service by namespace", decl("UserLookup", analyzer.KindClass), Context{Namespace: "App.Services.Users"}, Service},
		{"controller by suffix", decl("UserController", analyzer.KindClass), Context{}, Controller},
		{"plain class", decl("User", analyzer.KindClass), Context{Namespace: "App.Models"}, GenericClass},
		{"record falls through", decl("Point", analyzer.KindRecord), Context{}, Record},
		{"struct falls through", decl("Pair", analyzer.KindStruct), Context{}, Struct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.decl, tt.ctx))
		})
	}
}

func TestClassify_DTORequiresNoMethods(t *testing.T) {
	t.Parallel()

	c := newClassifier()

	d := decl("UserDto", analyzer.KindClass)
	d.Members = []analyzer.Member{{Name: "Name", Kind: analyzer.MemberField}}
	assert.Equal(t, DTO, c.Classify(d, Context{}))

	d.Members = append(d.Members, analyzer.Member{Name: "Validate", Kind: analyzer.MemberMethod})
	assert.Equal(t, GenericClass, c.Classify(d, Context{}))
}

func TestClassify_ControllerByBaseType(t *testing.T) {
	t.Parallel()

	c := newClassifier()

	d := decl("Users", analyzer.KindClass)
	d.BaseTypes = []string{"ControllerBase"}
	assert.Equal(t, Controller, c.Classify(d, Context{}))

	d.BaseTypes = []string{"Controller<User>"}
	assert.Equal(t, Controller, c.Classify(d, Context{}))

	d.BaseTypes = []string{"PageModel"}
	assert.Equal(t, GenericClass, c.Classify(d, Context{}))
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	c := newClassifier()
	d := decl("OrderService", analyzer.KindClass)
	ctx := Context{FileName: "OrderService.cs", Namespace: "Shop.Services"}

	first := c.Classify(d, ctx)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, c.Classify(d, ctx))
	}
}

func TestClassify_PolicyOverride(t *testing.T) {
	t.Parallel()

	policy := config.Default().Classifier
	policy.DTOSuffixes = []string{"Payload"}
	c := New(policy)

	assert.Equal(t, DTO, c.Classify(decl("EventPayload", analyzer.KindClass), Context{}))
	assert.Equal(t, GenericClass, c.Classify(decl("UserDto", analyzer.KindClass), Context{}))
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, ok := ParseKind("Service")
	assert.True(t, ok)
	assert.Equal(t, Service, k)

	k, ok = ParseKind("DTO")
	assert.True(t, ok)
	assert.Equal(t, DTO, k)

	_, ok = ParseKind("widget")
	assert.False(t, ok)
}

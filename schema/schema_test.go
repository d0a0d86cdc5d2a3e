package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhohndorf/gbnfgen/gbnf"
)

// Test types for model conversion.
type Book struct {
	Title         string   `json:"title" jsonschema:"required,description=Title of the book."`
	Author        string   `json:"author" jsonschema:"required,description=Author of the book."`
	PublishedYear *int     `json:"published_year,omitempty" jsonschema:"description=Publishing year of the book."`
	Keywords      []string `json:"keywords" jsonschema:"required,description=A list of keywords."`
	Category      string   `json:"category" jsonschema:"required,enum=Fiction,enum=Non-Fiction,description=Category of the book."`
}

type TreeNode struct {
	Value    string      `json:"value" jsonschema:"required"`
	Children []*TreeNode `json:"children,omitempty"`
}

type Publisher struct {
	Name string `json:"name" jsonschema:"required"`
}

type Catalog struct {
	Primary   Publisher `json:"primary" jsonschema:"required"`
	Secondary Publisher `json:"secondary" jsonschema:"required"`
}

func TestFromType_Book(t *testing.T) {
	model, err := FromType[Book]()
	require.NoError(t, err)

	assert.Equal(t, "Book", model.Name)
	require.Len(t, model.Fields, 5)

	names := make([]string, len(model.Fields))
	for i, f := range model.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"title", "author", "published_year", "keywords", "category"}, names)

	title := model.Fields[0]
	assert.True(t, title.Required)
	assert.Equal(t, "Title of the book.", title.Description)
	assert.IsType(t, &gbnf.Primitive{}, title.Type)

	year := model.Fields[2]
	assert.False(t, year.Required)
	assert.IsType(t, &gbnf.Primitive{}, year.Type)

	keywords := model.Fields[3]
	list, ok := keywords.Type.(*gbnf.List)
	require.True(t, ok)
	assert.Equal(t, gbnf.String(), list.Elem)

	category := model.Fields[4]
	enum, ok := category.Type.(*gbnf.Enum)
	require.True(t, ok)
	assert.Equal(t, []string{"Fiction", "Non-Fiction"}, enum.Values)
}

func TestFromType_RecursiveType(t *testing.T) {
	model, err := FromType[TreeNode]()
	require.NoError(t, err)

	require.Len(t, model.Fields, 2)
	list, ok := model.Fields[1].Type.(*gbnf.List)
	require.True(t, ok)

	// The recursive reference must resolve to the same object so the
	// compiler emits a single rule for it.
	assert.Same(t, model, list.Elem)
}

func TestFromType_SharedNestedType(t *testing.T) {
	model, err := FromType[Catalog]()
	require.NoError(t, err)

	require.Len(t, model.Fields, 2)
	primary, ok := model.Fields[0].Type.(*gbnf.Object)
	require.True(t, ok)
	secondary, ok := model.Fields[1].Type.(*gbnf.Object)
	require.True(t, ok)

	assert.Equal(t, "Publisher", primary.Name)
	assert.Same(t, primary, secondary)
}

func TestFromType_CompilesToGrammar(t *testing.T) {
	model, err := FromType[Book]()
	require.NoError(t, err)

	out, err := gbnf.Generate([]*gbnf.Object{model})
	require.NoError(t, err)

	assert.Contains(t, out.Grammar, `"\"title\""`)
	assert.Contains(t, out.Grammar, `book-published-year ::= integer | null`)
	assert.Contains(t, out.Grammar, `"\"Fiction\"" | "\"Non-Fiction\""`)
	assert.Contains(t, out.Documentation, "Output Model: Book")
	assert.Contains(t, out.Documentation, "published_year (optional of integer): Publishing year of the book.")
}

func TestFromJSONSchema(t *testing.T) {
	doc := []byte(`{
		"type": "object",
		"description": "A search request.",
		"properties": {
			"query": {"type": "string", "description": "Search terms."},
			"limit": {"type": "integer"},
			"filters": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["query"]
	}`)

	model, err := FromJSONSchema(doc, "Search")
	require.NoError(t, err)

	assert.Equal(t, "Search", model.Name)
	assert.Equal(t, "A search request.", model.Description)
	require.Len(t, model.Fields, 3)

	assert.Equal(t, "query", model.Fields[0].Name)
	assert.True(t, model.Fields[0].Required)
	assert.Equal(t, "limit", model.Fields[1].Name)
	assert.False(t, model.Fields[1].Required)
	assert.IsType(t, &gbnf.List{}, model.Fields[2].Type)
}

func TestFromJSONSchema_PropertyOrderPreserved(t *testing.T) {
	doc := []byte(`{
		"type": "object",
		"properties": {
			"zebra": {"type": "string"},
			"apple": {"type": "string"},
			"mango": {"type": "string"}
		}
	}`)

	model, err := FromJSONSchema(doc, "Fruit")
	require.NoError(t, err)

	names := make([]string, len(model.Fields))
	for i, f := range model.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"zebra", "apple", "mango"}, names)
}

func TestFromJSONSchema_UnionAndOptional(t *testing.T) {
	doc := []byte(`{
		"type": "object",
		"properties": {
			"id": {"anyOf": [{"type": "string"}, {"type": "integer"}]},
			"note": {"anyOf": [{"type": "string"}, {"type": "null"}]}
		},
		"required": ["id", "note"]
	}`)

	model, err := FromJSONSchema(doc, "Record")
	require.NoError(t, err)

	union, ok := model.Fields[0].Type.(*gbnf.Union)
	require.True(t, ok)
	assert.Len(t, union.Members, 2)

	opt, ok := model.Fields[1].Type.(*gbnf.Optional)
	require.True(t, ok)
	assert.Equal(t, gbnf.String(), opt.Elem)
}

func TestFromJSONSchema_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "invalid JSON",
			doc:  `{`,
		},
		{
			name: "non-object root",
			doc:  `{"type": "string"}`,
		},
		{
			name: "unsupported type",
			doc:  `{"type": "object", "properties": {"x": {"type": "blob"}}}`,
		},
		{
			name: "non-string enum value",
			doc:  `{"type": "object", "properties": {"x": {"enum": [1, 2]}}}`,
		},
		{
			name: "unresolved reference",
			doc:  `{"type": "object", "properties": {"x": {"$ref": "#/$defs/Missing"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := FromJSONSchema([]byte(tt.doc), "Broken")
			assert.Nil(t, model)
			assert.Error(t, err)
		})
	}
}

func TestMustFromType(t *testing.T) {
	assert.NotPanics(t, func() {
		model := MustFromType[Book]()
		assert.Equal(t, "Book", model.Name)
	})
}

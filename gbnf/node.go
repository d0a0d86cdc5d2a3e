// Package gbnf compiles typed data-model schemas into GBNF grammars that
// constrain a text generator to emit only syntactically valid JSON instances
// of those schemas, plus a plain-text description of each model suitable for
// inclusion in a prompt.
package gbnf

// Node describes one typed position in a schema: a field's type, a list
// element, a union member, or a whole model. The set of kinds is closed;
// the translator dispatches over it exhaustively.
type Node interface {
	// kindName identifies the node kind in error messages.
	kindName() string
}

// PrimitiveKind selects one of the base JSON value rules.
type PrimitiveKind int

const (
	PrimString PrimitiveKind = iota
	PrimInteger
	PrimFloat
	PrimBoolean
	PrimNull
)

// Primitive is a JSON scalar type. All primitives share a fixed set of base
// rules emitted once per grammar.
type Primitive struct {
	Kind PrimitiveKind
}

// Enum is an ordered set of literal string values. Values appear in the
// grammar in declaration order.
type Enum struct {
	Name        string // optional declared type name; used as the rule name
	Description string
	Values      []string
}

// List is a JSON array whose elements all match Elem.
type List struct {
	Elem Node
}

// Optional matches either its element or the JSON null literal.
type Optional struct {
	Elem Node
}

// Union matches any one of its member types.
type Union struct {
	Members []Node
}

// Field is one named entry of an Object. Non-required fields are wrapped as
// Optional during translation, so their value may be null.
type Field struct {
	Name        string
	Type        Node
	Required    bool
	Description string
}

// Object is a named model: an ordered sequence of fields. Objects are
// deduplicated by pointer identity, so two references to the same *Object
// share one grammar rule, which also makes cyclic model graphs terminate.
type Object struct {
	Name        string
	Description string
	Fields      []Field
}

func (*Primitive) kindName() string { return "primitive" }
func (*Enum) kindName() string      { return "enum" }
func (*List) kindName() string      { return "list" }
func (*Optional) kindName() string  { return "optional" }
func (*Union) kindName() string     { return "union" }
func (*Object) kindName() string    { return "object" }

// Convenience constructors for primitive nodes.

// String returns a string primitive node.
func String() *Primitive { return &Primitive{Kind: PrimString} }

// Integer returns a signed integer primitive node.
func Integer() *Primitive { return &Primitive{Kind: PrimInteger} }

// Float returns a floating-point primitive node.
func Float() *Primitive { return &Primitive{Kind: PrimFloat} }

// Boolean returns a boolean primitive node.
func Boolean() *Primitive { return &Primitive{Kind: PrimBoolean} }

// Null returns a null primitive node.
func Null() *Primitive { return &Primitive{Kind: PrimNull} }

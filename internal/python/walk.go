package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"codescope/internal/analyzer"
)

// walker collects imports, functions and classes in a single pre-order pass
// over the syntax tree. The enclosing-class context is an explicit stack,
// pushed on class entry and popped on exit.
type walker struct {
	source   []byte
	filePath string

	// importsOnly skips function/class collection, for dependency mapping
	importsOnly bool

	imports   []analyzer.ImportRecord
	functions []analyzer.FunctionRecord
	classes   []analyzer.ClassRecord

	// deps accumulates top-level imported package names
	deps map[string]bool

	classStack []string
}

func newWalker(source []byte, filePath string) *walker {
	return &walker{
		source:   source,
		filePath: filePath,
		deps:     make(map[string]bool),
	}
}

func (w *walker) currentClass() string {
	if len(w.classStack) == 0 {
		return ""
	}
	return w.classStack[len(w.classStack)-1]
}

// walk dispatches on the node kind. decorators carries the decorator names
// of an enclosing decorated_definition down to the wrapped definition.
func (w *walker) walk(node *sitter.Node, decorators []string) {
	switch node.Type() {
	case "import_statement":
		w.collectImport(node)
		return

	case "import_from_statement", "future_import_statement":
		w.collectImportFrom(node)
		return

	case "decorated_definition":
		w.walkDecorated(node)
		return

	case "function_definition":
		if !w.importsOnly {
			w.collectFunction(node, decorators)
		}

	case "class_definition":
		if !w.importsOnly {
			w.collectClass(node, decorators)
		}
		w.classStack = append(w.classStack, w.text(node.ChildByFieldName("name")))
		defer func() {
			w.classStack = w.classStack[:len(w.classStack)-1]
		}()
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		w.walk(node.NamedChild(i), nil)
	}
}

// walkDecorated extracts decorator names and forwards them to the wrapped
// function or class definition.
func (w *walker) walkDecorated(node *sitter.Node) {
	var decorators []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "decorator" && child.NamedChildCount() > 0 {
			decorators = append(decorators, w.decoratorName(child.NamedChild(0)))
		}
	}

	def := node.ChildByFieldName("definition")
	if def == nil {
		return
	}
	w.walk(def, decorators)
}

// collectImport handles "import a.b, c as d" statements: one record per name.
func (w *walker) collectImport(node *sitter.Node) {
	line := int(node.StartPoint().Row) + 1

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		var module, boundName string
		switch child.Type() {
		case "dotted_name":
			module = w.text(child)
			boundName = module
		case "aliased_import":
			module = w.text(child.ChildByFieldName("name"))
			boundName = w.text(child.ChildByFieldName("alias"))
		default:
			continue
		}

		w.imports = append(w.imports, analyzer.ImportRecord{
			FromFile: w.filePath,
			Kind:     analyzer.PlainImport,
			Module:   module,
			Names:    []string{boundName},
			Line:     line,
		})
		w.deps[firstSegment(module)] = true
	}
}

// collectImportFrom handles "from [dots]module import names" statements:
// one record per statement, with the relative level counted from the dot
// prefix.
func (w *walker) collectImportFrom(node *sitter.Node) {
	line := int(node.StartPoint().Row) + 1

	module := ""
	level := 0

	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode != nil {
		if moduleNode.Type() == "relative_import" {
			for i := 0; i < int(moduleNode.ChildCount()); i++ {
				child := moduleNode.Child(i)
				switch child.Type() {
				case "import_prefix":
					level = len(w.text(child))
				case "dotted_name":
					module = w.text(child)
				}
			}
		} else {
			module = w.text(moduleNode)
		}
	} else if node.Type() == "future_import_statement" {
		module = "__future__"
	}

	var names []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "wildcard_import" {
			names = append(names, "*")
			continue
		}
		if node.FieldNameForChild(i) != "name" {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			names = append(names, w.text(child))
		case "aliased_import":
			names = append(names, w.text(child.ChildByFieldName("name")))
		}
	}

	w.imports = append(w.imports, analyzer.ImportRecord{
		FromFile:   w.filePath,
		Kind:       analyzer.FromImport,
		Module:     module,
		Names:      names,
		Line:       line,
		IsRelative: level > 0,
		Level:      level,
	})

	if module != "" {
		w.deps[firstSegment(module)] = true
	}
}

func (w *walker) collectFunction(node *sitter.Node, decorators []string) {
	record := analyzer.FunctionRecord{
		Name:        w.text(node.ChildByFieldName("name")),
		StartLine:   int(node.StartPoint().Row) + 1,
		EndLine:     int(node.EndPoint().Row) + 1,
		Parameters:  w.parameterNames(node.ChildByFieldName("parameters")),
		Decorators:  emptyIfNil(decorators),
		Returns:     w.annotationText(node.ChildByFieldName("return_type")),
		Docstring:   w.docstring(node.ChildByFieldName("body")),
		IsAsync:     isAsync(node),
		ParentClass: w.currentClass(),
		Complexity:  functionComplexity(node),
	}
	w.functions = append(w.functions, record)
}

func (w *walker) collectClass(node *sitter.Node, decorators []string) {
	body := node.ChildByFieldName("body")

	record := analyzer.ClassRecord{
		Name:       w.text(node.ChildByFieldName("name")),
		StartLine:  int(node.StartPoint().Row) + 1,
		EndLine:    int(node.EndPoint().Row) + 1,
		Bases:      w.baseNames(node.ChildByFieldName("superclasses")),
		Decorators: emptyIfNil(decorators),
		Docstring:  w.docstring(body),
		Methods:    []string{},
		Attributes: []analyzer.AttributeRecord{},
	}

	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			item := body.NamedChild(i)

			def := item
			if item.Type() == "decorated_definition" {
				def = item.ChildByFieldName("definition")
				if def == nil {
					continue
				}
			}

			switch def.Type() {
			case "function_definition":
				record.Methods = append(record.Methods, w.text(def.ChildByFieldName("name")))
			case "expression_statement":
				if attr, ok := w.annotatedAttribute(def); ok {
					record.Attributes = append(record.Attributes, attr)
				}
			}
		}
	}

	w.classes = append(w.classes, record)
}

// annotatedAttribute extracts "name: type" class-level declarations.
func (w *walker) annotatedAttribute(stmt *sitter.Node) (analyzer.AttributeRecord, bool) {
	if stmt.NamedChildCount() == 0 {
		return analyzer.AttributeRecord{}, false
	}
	assign := stmt.NamedChild(0)
	if assign.Type() != "assignment" {
		return analyzer.AttributeRecord{}, false
	}

	typeNode := assign.ChildByFieldName("type")
	left := assign.ChildByFieldName("left")
	if typeNode == nil || left == nil || left.Type() != "identifier" {
		return analyzer.AttributeRecord{}, false
	}

	return analyzer.AttributeRecord{
		Name: w.text(left),
		Type: w.annotationText(typeNode),
	}, true
}

// parameterNames collects positional parameter names, skipping *args,
// **kwargs and everything after a bare "*" separator.
func (w *walker) parameterNames(params *sitter.Node) []string {
	names := []string{}
	if params == nil {
		return names
	}

	sawStar := false
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "identifier":
			if !sawStar {
				names = append(names, w.text(child))
			}
		case "typed_parameter":
			if !sawStar && child.NamedChildCount() > 0 {
				names = append(names, w.text(child.NamedChild(0)))
			}
		case "default_parameter", "typed_default_parameter":
			if !sawStar {
				names = append(names, w.text(child.ChildByFieldName("name")))
			}
		case "list_splat_pattern", "dictionary_splat_pattern", "keyword_separator":
			sawStar = true
		}
	}
	return names
}

// baseNames resolves base-class expressions to best-effort dotted text.
// Keyword arguments (metaclass=...) are not bases.
func (w *walker) baseNames(superclasses *sitter.Node) []string {
	bases := []string{}
	if superclasses == nil {
		return bases
	}
	for i := 0; i < int(superclasses.NamedChildCount()); i++ {
		child := superclasses.NamedChild(i)
		if child.Type() == "keyword_argument" {
			continue
		}
		bases = append(bases, w.dottedName(child))
	}
	return bases
}

// docstring returns the cleaned doc text when the first body statement is a
// string literal.
func (w *walker) docstring(body *sitter.Node) string {
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return strings.TrimSpace(w.stringLiteral(str))
}

// stringLiteral extracts the content of a string node without quotes.
func (w *walker) stringLiteral(str *sitter.Node) string {
	var parts []string
	for i := 0; i < int(str.NamedChildCount()); i++ {
		child := str.NamedChild(i)
		if child.Type() == "string_content" {
			parts = append(parts, w.text(child))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "")
	}

	// Grammar versions without string_content nodes: strip quotes manually
	text := w.text(str)
	text = strings.TrimLeft(text, "rbuRBUf")
	for _, quote := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(text, quote) && strings.HasSuffix(text, quote) && len(text) >= 2*len(quote) {
			return text[len(quote) : len(text)-len(quote)]
		}
	}
	return text
}

// decoratorName resolves a decorator expression to a dotted name; calls
// resolve to the called function's name.
func (w *walker) decoratorName(node *sitter.Node) string {
	switch node.Type() {
	case "identifier":
		return w.text(node)
	case "attribute":
		return w.dottedName(node)
	case "call":
		fn := node.ChildByFieldName("function")
		if fn != nil {
			return w.decoratorName(fn)
		}
	}
	return "unknown"
}

// dottedName renders identifier/attribute chains as dotted text, "unknown"
// for anything not statically resolvable.
func (w *walker) dottedName(node *sitter.Node) string {
	switch node.Type() {
	case "identifier":
		return w.text(node)
	case "attribute":
		obj := node.ChildByFieldName("object")
		attr := node.ChildByFieldName("attribute")
		if obj != nil && attr != nil {
			return w.dottedName(obj) + "." + w.text(attr)
		}
	}
	return "unknown"
}

// annotationText renders a type annotation: plain names verbatim, anything
// structured collapses to "complex_type".
func (w *walker) annotationText(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	// type nodes wrap the actual annotation expression
	if node.Type() == "type" && node.NamedChildCount() > 0 {
		node = node.NamedChild(0)
	}
	switch node.Type() {
	case "identifier":
		return w.text(node)
	case "none":
		return "None"
	case "string":
		return w.stringLiteral(node)
	}
	return "complex_type"
}

func (w *walker) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Content(w.source)
}

func isAsync(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "async" {
			return true
		}
	}
	return false
}

func firstSegment(module string) string {
	if idx := strings.IndexByte(module, '.'); idx >= 0 {
		return module[:idx]
	}
	return module
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

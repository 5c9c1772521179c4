package chunk

// Tree represents a parsed AST.
type Tree struct {
	Root     *Node
	Source   []byte
	Language string
}

// Node represents a node in the AST.
type Node struct {
	Type       string
	StartByte  uint32
	EndByte    uint32
	StartPoint Point
	EndPoint   Point
	Children   []*Node
	HasError   bool
}

// Point represents a position in the source code.
type Point struct {
	Row    uint32 // 0-indexed line number
	Column uint32
}

// Document is one chunk of source text ready to become a
// pkg/engine.AddDocument call: a top-level Go declaration (function,
// type, var/const block) or, when parsing fails to find any top-level
// declarations, the whole file.
type Document struct {
	Path      string // file path, suffixed with #declName for sub-file chunks
	Text      string
	StartLine int // 1-indexed
	EndLine   int // inclusive
}

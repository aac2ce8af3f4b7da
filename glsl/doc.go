// Package glsl provides GLSL ES 1.00 parsing.
//
// GLSL ES is the shading language of OpenGL ES 2.0 and WebGL 1. Vertex
// shaders pass values to fragment shaders through `varying` variables.
//
// # Components
//
//   - Lexer: tokenizes source code, one token at a time
//   - Preprocessor: object-like #define substitution and directive capture
//   - Parser: builds the AST with error recovery
//   - AST: node types, traversal and JSON serialization
//   - Types: the resolved type model shared with the checker
//
// # Usage
//
//	unit, diags := glsl.Parse(source, glsl.StageFragment)
//	for _, d := range diags {
//	    fmt.Println(d.FormatWithContext(source))
//	}
//
// The parser never gives up: constructs it cannot parse become BadDecl,
// BadStmt or BadExpr nodes, and every node at or above a recovery point
// reports IsIncomplete. Types are filled in later by the check package.
package glsl

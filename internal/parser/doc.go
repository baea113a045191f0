// Package parser turns the flat-text export format of C/AL objects into
// typed entities.
//
// The format has no formal grammar: it is a family of ad hoc, whitespace-
// sensitive sub-languages sharing a few conventions (brace-delimited
// sections anchored by keywords, semicolon-separated record rows, property
// lists whose values may hold nested delimiters or whole trigger bodies).
// The package is organized the same way:
//
//   - ParseDeclaration / ParseMetadata handle the OBJECT header line and
//     the OBJECT-PROPERTIES block.
//   - ExtractSection isolates one named top-level block by delimiter depth
//     counting.
//   - Per-kind body parsers (ParseTable, ParseSurface, ParseCodeunit,
//     ParseReport, ParseQuery, ParseXMLPort, ParseMenuSuite) consume the
//     sections their kind requires.
//   - The micro-grammars for relation constraints, aggregate formulas and
//     typed variable declarations are isolated, independently tested
//     functions (ParseTableRelation, ParseCalcFormula, parseVariableDecl).
//   - Tree-shaped sections reconstruct nesting from indentation via
//     deriveLevels and buildTree.
//
// Parse is the entry point; it dispatches on the declared kind.
//
// Procedure and trigger bodies are deliberately kept as opaque text: the
// system searches them but never interprets them.
package parser

// Package render reconstructs canonical C# declaration text for entities of
// the metadata model.
//
// Rendering is dispatched through a fixed, ordered table of strategies
// (delegate, event, field, method, named type, property). Each Strategy
// reports the record kind it produces and whether it supports an entity;
// Engine.Render uses the first supporting strategy.
//
// Every declaration is assembled in the same order:
//
//  1. attribute lines, compiler-emitted attributes hidden
//  2. return attribute lines (methods and delegates)
//  3. accessibility and modifier keywords
//  4. ref / ref readonly for by-reference returns
//  5. declared type
//  6. escaped name, generic list and parameters
//  7. where clauses
//  8. the kind-specific trailer
//
// Method constraint clauses are written on their own indented lines; type
// and delegate clauses stay on the declaration line:
//
//	public T Max<T>(T a, T b)
//	    where T : System.IComparable<T>;
//
// Rendering is pure. Entities are never modified and an Engine is safe for
// concurrent use.
package render

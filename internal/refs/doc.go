// Package refs mines typed cross-object reference edges out of parsed
// entities: relation constraints and aggregate formulas on table fields,
// bound source tables, object-typed variables, data-item bindings and run
// targets. Extraction never fails; expressions that do not resolve to a
// target contribute no edge.
package refs

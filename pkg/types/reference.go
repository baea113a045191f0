package types

// ReferenceType classifies the expression a reference edge was mined from.
type ReferenceType string

const (
	RefTableRelation ReferenceType = "TableRelation"
	RefCalcFormula   ReferenceType = "CalcFormula"
	RefSourceTable   ReferenceType = "SourceTable"
	RefVariable      ReferenceType = "Variable"
	RefDataItem      ReferenceType = "DataItem"
	RefRunObject     ReferenceType = "RunObject"
)

// Reference is a directional cross-object edge: a location inside a source
// entity naming a target object. Either TargetID or TargetName may be zero
// depending on how the source expression named the target.
type Reference struct {
	SourceKind     ObjectKind    `json:"sourceKind"`
	SourceID       int           `json:"sourceId"`
	SourceName     string        `json:"sourceName"`
	SourceLocation string        `json:"sourceLocation"` // e.g. "field:Code", "variable:Cust"
	TargetKind     ObjectKind    `json:"targetKind"`
	TargetID       int           `json:"targetId,omitempty"`
	TargetName     string        `json:"targetName,omitempty"`
	Type           ReferenceType `json:"type"`
}

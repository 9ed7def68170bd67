// Package refactoring defines the closed taxonomy of refactoring kinds and the
// immutable facts the detector emits.
package refactoring

// Kind tags a refactoring fact. The set of kinds is closed.
type Kind string

const (
	// Type declarations
	RenameClass               Kind = "RENAME_CLASS"
	MoveClass                 Kind = "MOVE_CLASS"
	MoveAndRenameClass        Kind = "MOVE_RENAME_CLASS"
	ExtractInterface          Kind = "EXTRACT_INTERFACE"
	ExtractSuperclass         Kind = "EXTRACT_SUPERCLASS"
	ExtractSubclass           Kind = "EXTRACT_SUBCLASS"
	ExtractClass              Kind = "EXTRACT_CLASS"
	ChangeTypeDeclarationKind Kind = "CHANGE_TYPE_DECLARATION_KIND"
	AddClassAnnotation        Kind = "ADD_CLASS_ANNOTATION"
	RemoveClassAnnotation     Kind = "REMOVE_CLASS_ANNOTATION"
	ModifyClassAnnotation     Kind = "MODIFY_CLASS_ANNOTATION"
	AddClassModifier          Kind = "ADD_CLASS_MODIFIER"
	RemoveClassModifier       Kind = "REMOVE_CLASS_MODIFIER"
	ChangeClassAccessModifier Kind = "CHANGE_CLASS_ACCESS_MODIFIER"

	// Methods
	ExtractOperation              Kind = "EXTRACT_OPERATION"
	ExtractAndMoveOperation       Kind = "EXTRACT_AND_MOVE_OPERATION"
	InlineOperation               Kind = "INLINE_OPERATION"
	MoveAndInlineOperation        Kind = "MOVE_AND_INLINE_OPERATION"
	RenameMethod                  Kind = "RENAME_METHOD"
	MoveOperation                 Kind = "MOVE_OPERATION"
	MoveAndRenameOperation        Kind = "MOVE_AND_RENAME_OPERATION"
	PullUpOperation               Kind = "PULL_UP_OPERATION"
	PushDownOperation             Kind = "PUSH_DOWN_OPERATION"
	ChangeReturnType              Kind = "CHANGE_RETURN_TYPE"
	AddMethodAnnotation           Kind = "ADD_METHOD_ANNOTATION"
	RemoveMethodAnnotation        Kind = "REMOVE_METHOD_ANNOTATION"
	ModifyMethodAnnotation        Kind = "MODIFY_METHOD_ANNOTATION"
	AddMethodModifier             Kind = "ADD_METHOD_MODIFIER"
	RemoveMethodModifier          Kind = "REMOVE_METHOD_MODIFIER"
	ChangeOperationAccessModifier Kind = "CHANGE_OPERATION_ACCESS_MODIFIER"
	AddThrownExceptionType        Kind = "ADD_THROWN_EXCEPTION_TYPE"
	RemoveThrownExceptionType     Kind = "REMOVE_THROWN_EXCEPTION_TYPE"
	ChangeThrownExceptionType     Kind = "CHANGE_THROWN_EXCEPTION_TYPE"

	// Parameters
	AddParameter               Kind = "ADD_PARAMETER"
	RemoveParameter            Kind = "REMOVE_PARAMETER"
	RenameParameter            Kind = "RENAME_PARAMETER"
	ChangeParameterType        Kind = "CHANGE_PARAMETER_TYPE"
	ReorderParameter           Kind = "REORDER_PARAMETER"
	AddParameterAnnotation     Kind = "ADD_PARAMETER_ANNOTATION"
	RemoveParameterAnnotation  Kind = "REMOVE_PARAMETER_ANNOTATION"
	ModifyParameterAnnotation  Kind = "MODIFY_PARAMETER_ANNOTATION"
	AddParameterModifier       Kind = "ADD_PARAMETER_MODIFIER"
	RemoveParameterModifier    Kind = "REMOVE_PARAMETER_MODIFIER"

	// Attributes (fields and enum constants)
	MoveAttribute                 Kind = "MOVE_ATTRIBUTE"
	RenameAttribute               Kind = "RENAME_ATTRIBUTE"
	MoveAndRenameAttribute        Kind = "MOVE_RENAME_ATTRIBUTE"
	PullUpAttribute               Kind = "PULL_UP_ATTRIBUTE"
	PushDownAttribute             Kind = "PUSH_DOWN_ATTRIBUTE"
	ChangeAttributeType           Kind = "CHANGE_ATTRIBUTE_TYPE"
	AddAttributeAnnotation        Kind = "ADD_ATTRIBUTE_ANNOTATION"
	RemoveAttributeAnnotation     Kind = "REMOVE_ATTRIBUTE_ANNOTATION"
	ModifyAttributeAnnotation     Kind = "MODIFY_ATTRIBUTE_ANNOTATION"
	AddAttributeModifier          Kind = "ADD_ATTRIBUTE_MODIFIER"
	RemoveAttributeModifier       Kind = "REMOVE_ATTRIBUTE_MODIFIER"
	ChangeAttributeAccessModifier Kind = "CHANGE_ATTRIBUTE_ACCESS_MODIFIER"

	// Local variables
	ExtractVariable               Kind = "EXTRACT_VARIABLE"
	InlineVariable                Kind = "INLINE_VARIABLE"
	RenameVariable                Kind = "RENAME_VARIABLE"
	ChangeVariableType            Kind = "CHANGE_VARIABLE_TYPE"
	AddVariableAnnotation         Kind = "ADD_VARIABLE_ANNOTATION"
	RemoveVariableAnnotation      Kind = "REMOVE_VARIABLE_ANNOTATION"
	ModifyVariableAnnotation      Kind = "MODIFY_VARIABLE_ANNOTATION"
	AddVariableModifier           Kind = "ADD_VARIABLE_MODIFIER"
	RemoveVariableModifier        Kind = "REMOVE_VARIABLE_MODIFIER"
	MergeDeclarationAndAssignment Kind = "MERGE_DECLARATION_AND_ASSIGNMENT"

	// Statements
	ChangeLoopType             Kind = "CHANGE_LOOP_TYPE"
	LoopInterchange            Kind = "LOOP_INTERCHANGE"
	InvertCondition            Kind = "INVERT_CONDITION"
	ReplaceSwitchWithIf        Kind = "REPLACE_SWITCH_WITH_IF"
	ReplaceAnonymousWithLambda Kind = "REPLACE_ANONYMOUS_WITH_LAMBDA"
	ReplaceLoopWithPipeline    Kind = "REPLACE_LOOP_WITH_PIPELINE"
	ReplacePipelineWithLoop    Kind = "REPLACE_PIPELINE_WITH_LOOP"
	MergeConditional           Kind = "MERGE_CONDITIONAL"
	SplitConditional           Kind = "SPLIT_CONDITIONAL"
	ReplaceIfWithTernary       Kind = "REPLACE_IF_WITH_TERNARY"
)

var displayNames = map[Kind]string{
	RenameClass:               "Rename Class",
	MoveClass:                 "Move Class",
	MoveAndRenameClass:        "Move And Rename Class",
	ExtractInterface:          "Extract Interface",
	ExtractSuperclass:         "Extract Superclass",
	ExtractSubclass:           "Extract Subclass",
	ExtractClass:              "Extract Class",
	ChangeTypeDeclarationKind: "Change Type Declaration Kind",
	AddClassAnnotation:        "Add Class Annotation",
	RemoveClassAnnotation:     "Remove Class Annotation",
	ModifyClassAnnotation:     "Modify Class Annotation",
	AddClassModifier:          "Add Class Modifier",
	RemoveClassModifier:       "Remove Class Modifier",
	ChangeClassAccessModifier: "Change Class Access Modifier",

	ExtractOperation:              "Extract Method",
	ExtractAndMoveOperation:       "Extract And Move Method",
	InlineOperation:               "Inline Method",
	MoveAndInlineOperation:        "Move And Inline Method",
	RenameMethod:                  "Rename Method",
	MoveOperation:                 "Move Method",
	MoveAndRenameOperation:        "Move And Rename Method",
	PullUpOperation:               "Pull Up Method",
	PushDownOperation:             "Push Down Method",
	ChangeReturnType:              "Change Return Type",
	AddMethodAnnotation:           "Add Method Annotation",
	RemoveMethodAnnotation:        "Remove Method Annotation",
	ModifyMethodAnnotation:        "Modify Method Annotation",
	AddMethodModifier:             "Add Method Modifier",
	RemoveMethodModifier:          "Remove Method Modifier",
	ChangeOperationAccessModifier: "Change Method Access Modifier",
	AddThrownExceptionType:        "Add Thrown Exception Type",
	RemoveThrownExceptionType:     "Remove Thrown Exception Type",
	ChangeThrownExceptionType:     "Change Thrown Exception Type",

	AddParameter:              "Add Parameter",
	RemoveParameter:           "Remove Parameter",
	RenameParameter:           "Rename Parameter",
	ChangeParameterType:       "Change Parameter Type",
	ReorderParameter:          "Reorder Parameter",
	AddParameterAnnotation:    "Add Parameter Annotation",
	RemoveParameterAnnotation: "Remove Parameter Annotation",
	ModifyParameterAnnotation: "Modify Parameter Annotation",
	AddParameterModifier:      "Add Parameter Modifier",
	RemoveParameterModifier:   "Remove Parameter Modifier",

	MoveAttribute:                 "Move Attribute",
	RenameAttribute:               "Rename Attribute",
	MoveAndRenameAttribute:        "Move And Rename Attribute",
	PullUpAttribute:               "Pull Up Attribute",
	PushDownAttribute:             "Push Down Attribute",
	ChangeAttributeType:           "Change Attribute Type",
	AddAttributeAnnotation:        "Add Attribute Annotation",
	RemoveAttributeAnnotation:     "Remove Attribute Annotation",
	ModifyAttributeAnnotation:     "Modify Attribute Annotation",
	AddAttributeModifier:          "Add Attribute Modifier",
	RemoveAttributeModifier:       "Remove Attribute Modifier",
	ChangeAttributeAccessModifier: "Change Attribute Access Modifier",

	ExtractVariable:               "Extract Variable",
	InlineVariable:                "Inline Variable",
	RenameVariable:                "Rename Variable",
	ChangeVariableType:            "Change Variable Type",
	AddVariableAnnotation:         "Add Variable Annotation",
	RemoveVariableAnnotation:      "Remove Variable Annotation",
	ModifyVariableAnnotation:      "Modify Variable Annotation",
	AddVariableModifier:           "Add Variable Modifier",
	RemoveVariableModifier:        "Remove Variable Modifier",
	MergeDeclarationAndAssignment: "Merge Declaration And Assignment",

	ChangeLoopType:             "Change Loop Type",
	LoopInterchange:            "Loop Interchange",
	InvertCondition:            "Invert Condition",
	ReplaceSwitchWithIf:        "Replace Switch With If",
	ReplaceAnonymousWithLambda: "Replace Anonymous With Lambda",
	ReplaceLoopWithPipeline:    "Replace Loop With Pipeline",
	ReplacePipelineWithLoop:    "Replace Pipeline With Loop",
	MergeConditional:           "Merge Conditional",
	SplitConditional:           "Split Conditional",
	ReplaceIfWithTernary:       "Replace If With Ternary",
}

// orderedKinds lists every kind in taxonomy order.
var orderedKinds = []Kind{
	RenameClass, MoveClass, MoveAndRenameClass, ExtractInterface, ExtractSuperclass,
	ExtractSubclass, ExtractClass, ChangeTypeDeclarationKind, AddClassAnnotation,
	RemoveClassAnnotation, ModifyClassAnnotation, AddClassModifier, RemoveClassModifier,
	ChangeClassAccessModifier,

	ExtractOperation, ExtractAndMoveOperation, InlineOperation, MoveAndInlineOperation,
	RenameMethod, MoveOperation, MoveAndRenameOperation, PullUpOperation, PushDownOperation,
	ChangeReturnType, AddMethodAnnotation, RemoveMethodAnnotation, ModifyMethodAnnotation,
	AddMethodModifier, RemoveMethodModifier, ChangeOperationAccessModifier,
	AddThrownExceptionType, RemoveThrownExceptionType, ChangeThrownExceptionType,

	AddParameter, RemoveParameter, RenameParameter, ChangeParameterType, ReorderParameter,
	AddParameterAnnotation, RemoveParameterAnnotation, ModifyParameterAnnotation,
	AddParameterModifier, RemoveParameterModifier,

	MoveAttribute, RenameAttribute, MoveAndRenameAttribute, PullUpAttribute,
	PushDownAttribute, ChangeAttributeType, AddAttributeAnnotation, RemoveAttributeAnnotation,
	ModifyAttributeAnnotation, AddAttributeModifier, RemoveAttributeModifier,
	ChangeAttributeAccessModifier,

	ExtractVariable, InlineVariable, RenameVariable, ChangeVariableType,
	AddVariableAnnotation, RemoveVariableAnnotation, ModifyVariableAnnotation,
	AddVariableModifier, RemoveVariableModifier, MergeDeclarationAndAssignment,

	ChangeLoopType, LoopInterchange, InvertCondition, ReplaceSwitchWithIf,
	ReplaceAnonymousWithLambda, ReplaceLoopWithPipeline, ReplacePipelineWithLoop,
	MergeConditional, SplitConditional, ReplaceIfWithTernary,
}

// Kinds returns every kind in taxonomy order.
func Kinds() []Kind {
	out := make([]Kind, len(orderedKinds))
	copy(out, orderedKinds)
	return out
}

// DisplayName returns the human readable name, e.g. "Rename Method".
func (k Kind) DisplayName() string {
	if name, ok := displayNames[k]; ok {
		return name
	}
	return string(k)
}

// Valid reports whether k belongs to the taxonomy.
func (k Kind) Valid() bool {
	_, ok := displayNames[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}

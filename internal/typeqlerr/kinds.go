package typeqlerr

// TypeQL is the family of query validation errors.
var TypeQL = NewFamily("TQL", "TypeQL Error")

// Query structure
var (
	MissingPatterns = TypeQL.Define(1, "MissingPatterns",
		"The query has not been provided with any patterns.")
	MissingDefinables = TypeQL.Define(2, "MissingDefinables",
		"The query has not been provided with any definables.")
	MissingStatements = TypeQL.Define(3, "MissingStatements",
		"The '{clause}' clause has not been provided with any statements.", "clause")
)

// Variable scope
var (
	MatchHasNoBoundingNamedVariable = TypeQL.Define(4, "MatchHasNoBoundingNamedVariable",
		"The match query does not have named variables to bound the nested disjunction/negation pattern(s).")
	MatchStatementHasNoNamedVariable = TypeQL.Define(5, "MatchStatementHasNoNamedVariable",
		"The statement '{statement}' has no named variable.", "statement")
	MatchHasUnboundedNestedPattern = TypeQL.Define(6, "MatchHasUnboundedNestedPattern",
		"The match query contains a nested pattern that is not bounded: '{pattern}'.", "pattern")
	VariableOutOfScopeMatch = TypeQL.Define(7, "VariableOutOfScopeMatch",
		"The variable '{variable}' is out of scope of the query.", "variable")
	VariableOutOfScopeDelete = TypeQL.Define(8, "VariableOutOfScopeDelete",
		"The deleted variable '{variable}' is out of scope of the preceding match clause.", "variable")
	NoVariableInScopeInsert = TypeQL.Define(9, "NoVariableInScopeInsert",
		"None of the variables in 'insert' ({variables}) is within scope of 'match' ({bounds}).", "variables", "bounds")
)

// Modifiers
var (
	IllegalFilterVariableRepeating = TypeQL.Define(10, "IllegalFilterVariableRepeating",
		"The variable '{variable}' occurred more than once in the match query filter.", "variable")
	InvalidSortVariable = TypeQL.Define(11, "InvalidSortVariable",
		"The sort variable '{variable}' is not present in the match query filter.", "variable")
	IllegalModifierValue = TypeQL.Define(12, "IllegalModifierValue",
		"The '{modifier}' value {value} must not be negative.", "modifier", "value")
	RedundantNestedNegation = TypeQL.Define(13, "RedundantNestedNegation",
		"Invalid query containing redundant nested negations: '{pattern}'.", "pattern")
)

// Identifiers and constants
var (
	InvalidVariableName = TypeQL.Define(14, "InvalidVariableName",
		"The variable name '{name}' is invalid; variables must match [a-zA-Z0-9][a-zA-Z0-9_-]*.", "name")
	InvalidTypeLabel = TypeQL.Define(15, "InvalidTypeLabel",
		"The type label '{label}' is invalid; labels must match [a-zA-Z_][a-zA-Z0-9_-]*.", "label")
	InvalidIIDString = TypeQL.Define(16, "InvalidIIDString",
		"Invalid IID: '{iid}'. IIDs must follow the regular expression: '0x[0-9a-f]+'.", "iid")
	InvalidAttributeTypeRegex = TypeQL.Define(17, "InvalidAttributeTypeRegex",
		"Invalid regular expression '{regex}': {reason}.", "regex", "reason")
	InvalidLikeRegex = TypeQL.Define(18, "InvalidLikeRegex",
		"Invalid 'like' pattern '{regex}': {reason}.", "regex", "reason")
	InvalidStringPredicateOperand = TypeQL.Define(19, "InvalidStringPredicateOperand",
		"The predicate '{predicate}' requires a string operand, found '{value}'.", "predicate", "value")
)

// Rules
var (
	InvalidRuleWhenMissingPatterns = TypeQL.Define(20, "InvalidRuleWhenMissingPatterns",
		"Rule '{rule}' 'when' has not been provided with any patterns.", "rule")
	InvalidRuleWhenContainsDisjunction = TypeQL.Define(21, "InvalidRuleWhenContainsDisjunction",
		"Rule '{rule}' 'when' contains a disjunction.", "rule")
	InvalidRuleWhenNestedNegation = TypeQL.Define(22, "InvalidRuleWhenNestedNegation",
		"Rule '{rule}' 'when' contains a nested negation.", "rule")
	InvalidRuleThen = TypeQL.Define(23, "InvalidRuleThen",
		"Rule '{rule}' 'then' '{then}': must infer exactly one attribute ownership, or exactly one relation with its type.", "rule", "then")
	InvalidRuleThenHas = TypeQL.Define(24, "InvalidRuleThenHas",
		"Rule '{rule}' 'then' '{then}' tries to assign type '{type}' to variable '{variable}', but this variable already had a type assigned by the rule 'when'. Try omitting this type.", "rule", "then", "variable", "type")
	InvalidRuleThenVariables = TypeQL.Define(25, "InvalidRuleThenVariables",
		"Rule '{rule}' 'then' variables must be present in the 'when', outside of nested patterns.", "rule")
	InvalidRuleThenRoles = TypeQL.Define(26, "InvalidRuleThenRoles",
		"Rule '{rule}' 'then' '{then}' must specify all role types explicitly.", "rule", "then")
)

// Definables
var (
	DefineRuleDeclaration = TypeQL.Define(27, "DefineRuleDeclaration",
		"Rule '{rule}' cannot be defined without 'when' and 'then' patterns.", "rule")
	UndefineRuleDefinition = TypeQL.Define(28, "UndefineRuleDefinition",
		"Rule '{rule}' must be undefined by its label alone; remove its 'when' and 'then' patterns.", "rule")
	MissingDefinableLabel = TypeQL.Define(29, "MissingDefinableLabel",
		"The statement '{statement}' in '{command}' must be identified by a type label.", "statement", "command")
	IllegalValueVariable = TypeQL.Define(30, "IllegalValueVariable",
		"The value variable '{variable}' cannot be used in '{clause}'.", "variable", "clause")
)

// Package query compiles caller-supplied conference filters into a query
// plan. The backend restricts inequality predicates to a single field and
// requires the first sort order to match that field; Compile enforces both.
// The package is pure: no I/O, no shared state.
package query

import (
	"fmt"
	"strconv"
)

// Field is a filterable conference attribute as named on the wire.
type Field string

// Operator is a comparison operator as named on the wire.
type Operator string

const (
	FieldCity         Field = "CITY"
	FieldTopic        Field = "TOPIC"
	FieldMonth        Field = "MONTH"
	FieldMaxAttendees Field = "MAX_ATTENDEES"
)

const (
	OpEQ   Operator = "EQ"
	OpGT   Operator = "GT"
	OpGTEQ Operator = "GTEQ"
	OpLT   Operator = "LT"
	OpLTEQ Operator = "LTEQ"
	OpNE   Operator = "NE"
)

// fieldColumns maps wire field names to stored attribute names.
var fieldColumns = map[Field]string{
	FieldCity:         "city",
	FieldTopic:        "topics",
	FieldMonth:        "month",
	FieldMaxAttendees: "max_attendees",
}

// operatorSymbols maps wire operator names to comparison symbols.
var operatorSymbols = map[Operator]string{
	OpEQ:   "=",
	OpGT:   ">",
	OpGTEQ: ">=",
	OpLT:   "<",
	OpLTEQ: "<=",
	OpNE:   "!=",
}

// integerColumns are the fields whose values parse as integers.
var integerColumns = map[string]bool{
	"month":         true,
	"max_attendees": true,
}

// Filter is one raw filter request as submitted by the caller.
type Filter struct {
	Field    Field    `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// Predicate is one compiled comparison: column, symbol, and typed value.
type Predicate struct {
	Column string
	Symbol string
	Value  any
}

// Plan is a compiled, validated query: predicates plus the derived ordering.
// It is pure data, handed to the store's query executor.
type Plan struct {
	Predicates []Predicate
	OrderBy    []string
}

// InvalidFilterError reports an unresolvable field or operator token.
type InvalidFilterError struct {
	Token string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("filter contains invalid field or operator: %q", e.Token)
}

// MultipleInequalityFieldsError reports inequality operators on two
// different fields; the backend allows only one inequality field per query.
type MultipleInequalityFieldsError struct {
	First  string
	Second string
}

func (e *MultipleInequalityFieldsError) Error() string {
	return fmt.Sprintf("inequality filter is allowed on only one field: have %q, got %q", e.First, e.Second)
}

// InvalidFilterValueError reports a value that failed to parse for its field.
type InvalidFilterValueError struct {
	Field Field
	Value string
}

func (e *InvalidFilterValueError) Error() string {
	return fmt.Sprintf("invalid value %q for filter field %s", e.Value, e.Field)
}

// Compile validates and translates the filters into a Plan. At most one
// distinct field may carry an inequality operator (anything other than EQ);
// when one exists the plan orders by that field first. The plan always ends
// its ordering with name as the stable sort.
func Compile(filters []Filter) (*Plan, error) {
	plan := &Plan{}
	inequalityColumn := ""

	for _, f := range filters {
		column, ok := fieldColumns[f.Field]
		if !ok {
			return nil, &InvalidFilterError{Token: string(f.Field)}
		}
		symbol, ok := operatorSymbols[f.Operator]
		if !ok {
			return nil, &InvalidFilterError{Token: string(f.Operator)}
		}

		// Every operator except "=" is an inequality; reject a second
		// inequality on a different field regardless of submission order.
		if symbol != "=" {
			if inequalityColumn != "" && inequalityColumn != column {
				return nil, &MultipleInequalityFieldsError{First: inequalityColumn, Second: column}
			}
			inequalityColumn = column
		}

		var value any = f.Value
		if integerColumns[column] {
			n, err := strconv.Atoi(f.Value)
			if err != nil {
				return nil, &InvalidFilterValueError{Field: f.Field, Value: f.Value}
			}
			value = n
		}

		plan.Predicates = append(plan.Predicates, Predicate{
			Column: column,
			Symbol: symbol,
			Value:  value,
		})
	}

	// The first sort order must match the inequality field when one exists;
	// name is always the stable secondary (or sole) order.
	if inequalityColumn != "" {
		plan.OrderBy = []string{inequalityColumn, "name"}
	} else {
		plan.OrderBy = []string{"name"}
	}

	return plan, nil
}

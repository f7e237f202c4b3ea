/*
 * Copyright 2024 The postgrest-query-go Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package postgrest

// Operator is a PostgREST filter operator.
type Operator string

const (
	// OperatorEq matches values equal to the operand.
	OperatorEq Operator = "eq"
	// OperatorNeq matches values not equal to the operand.
	OperatorNeq Operator = "neq"
	// OperatorGt matches values greater than the operand.
	OperatorGt Operator = "gt"
	// OperatorGte matches values greater than or equal to the operand.
	OperatorGte Operator = "gte"
	// OperatorLt matches values less than the operand.
	OperatorLt Operator = "lt"
	// OperatorLte matches values less than or equal to the operand.
	OperatorLte Operator = "lte"
	// OperatorLike matches values against a LIKE pattern.
	OperatorLike Operator = "like"
	// OperatorIlike matches values against a case-insensitive LIKE pattern.
	OperatorIlike Operator = "ilike"
	// OperatorIs checks for exact equality with null, true, false or unknown.
	OperatorIs Operator = "is"
	// OperatorIn matches any value of a list, e.g. "(1,2,3)".
	OperatorIn Operator = "in"
	// OperatorCs is the contains operator (@>).
	OperatorCs Operator = "cs"
	// OperatorCd is the contained-by operator (<@).
	OperatorCd Operator = "cd"
	// OperatorSl is the strictly-left-of range operator (<<).
	OperatorSl Operator = "sl"
	// OperatorSr is the strictly-right-of range operator (>>).
	OperatorSr Operator = "sr"
	// OperatorNxl is the does-not-extend-to-the-left-of range operator (&>).
	OperatorNxl Operator = "nxl"
	// OperatorNxr is the does-not-extend-to-the-right-of range operator (&<).
	OperatorNxr Operator = "nxr"
	// OperatorAdj is the adjacent range operator (-|-).
	OperatorAdj Operator = "adj"
	// OperatorOv is the overlap operator (&&).
	OperatorOv Operator = "ov"
	// OperatorFts is full-text search using to_tsquery.
	OperatorFts Operator = "fts"
	// OperatorPlfts is full-text search using plainto_tsquery.
	OperatorPlfts Operator = "plfts"
	// OperatorPhfts is full-text search using phraseto_tsquery.
	OperatorPhfts Operator = "phfts"
	// OperatorWfts is full-text search using websearch_to_tsquery.
	OperatorWfts Operator = "wfts"
)

// Operators lists every supported operator.
var Operators = []Operator{
	OperatorEq, OperatorNeq, OperatorGt, OperatorGte, OperatorLt, OperatorLte,
	OperatorLike, OperatorIlike, OperatorIs, OperatorIn, OperatorCs, OperatorCd,
	OperatorSl, OperatorSr, OperatorNxl, OperatorNxr, OperatorAdj, OperatorOv,
	OperatorFts, OperatorPlfts, OperatorPhfts, OperatorWfts,
}

// String returns the operator as it appears in a query string.
func (op Operator) String() string {
	return string(op)
}

// Encode renders a filter on column as a query parameter, e.g. ("id", "eq.1").
func (op Operator) Encode(column, value string) (string, string) {
	return column, string(op) + "." + value
}

// Filter is a single column constraint.
type Filter struct {
	Column   string
	Operator Operator
	Value    string
}

// Encode renders the filter as a query parameter key and value.
func (f Filter) Encode() (string, string) {
	return f.Operator.Encode(f.Column, f.Value)
}

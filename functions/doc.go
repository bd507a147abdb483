/*
 * Copyright 2025 The RuleGo Authors.
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

/*
Package functions is a name-keyed registry of scalar, aggregation, and
analytical functions, looked up by the SQL function name a query calls
(UPPER, SUM, LAG, ...). The expr package resolves every Call node
against this registry rather than hardcoding a dispatch table, and the
aggregate package's accumulators wrap the AggregatorFunction/
AnalyticalFunction instances registered here rather than
re-deriving them.

# Function Types

	TypeMath        - SIN, COS, SQRT, ABS, ...
	TypeString      - UPPER, LOWER, SUBSTRING, ...
	TypeConversion  - CAST, HEX2DEC, URL_ENCODE, ...
	TypeDateTime    - NOW, CURRENT_TIME, CONVERT_TZ, ...
	TypeAggregation - SUM, AVG, COUNT, MAX, MIN, STDDEV, ...
	TypeAnalytical  - LAG, LATEST, CHANGED_COL, HAD_CHANGED
	TypeWindow      - ROW_NUMBER, FIRST_VALUE, LEAD, NTH_VALUE
	TypeCustom      - functions registered at runtime via RegisterCustomFunction

# Function interfaces

	type Function interface {
		GetName() string
		GetType() FunctionType
		Execute(ctx *FunctionContext, args []interface{}) (interface{}, error)
	}

	// AggregatorFunction additionally supports incremental, one-row-
	// at-a-time computation: New() starts a fresh accumulator, Add()
	// folds in one argument value, Result() reads the current state
	// without resetting it.
	type AggregatorFunction interface {
		Function
		New() AggregatorFunction
		Add(value interface{})
		Result() interface{}
		Reset()
		Clone() AggregatorFunction
	}

	type AnalyticalFunction interface {
		AggregatorFunction
	}

CreateAggregator/CreateAnalytical look a name up and type-assert it
directly to these interfaces — there is no separate adapter layer
between a registered Function and the aggregate package's use of it.

# Custom function registration

	RegisterCustomFunction(
		"fahrenheit_to_celsius",
		TypeConversion,
		"Temperature conversion",
		"Convert Fahrenheit to Celsius",
		1, 1,
		func(ctx *FunctionContext, args []interface{}) (interface{}, error) {
			f := args[0].(float64)
			return (f - 32) * 5 / 9, nil
		},
	)
*/
package functions
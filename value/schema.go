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

package value

// ColumnSchema names a single column and carries its source
// provenance: source_name may be empty for anonymous intermediates
// (computed projections).
type ColumnSchema struct {
	SourceName string
	ColumnName string
	Type       DataType
}

// Schema is an ordered sequence of column schemas plus a name->index
// lookup. Column name uniqueness is not required: a multi-source
// projection can emit duplicate names; lookup by name alone returns
// the first match, lookup by (source, name) is exact.
type Schema struct {
	Columns []ColumnSchema
	byName  map[string]int
	bySrc   map[[2]string]int
}

// NewSchema builds a Schema and its lookup indices from an ordered
// column list.
func NewSchema(columns []ColumnSchema) *Schema {
	s := &Schema{
		Columns: columns,
		byName:  make(map[string]int, len(columns)),
		bySrc:   make(map[[2]string]int, len(columns)),
	}
	for i, c := range columns {
		if _, ok := s.byName[c.ColumnName]; !ok {
			s.byName[c.ColumnName] = i
		}
		s.bySrc[[2]string{c.SourceName, c.ColumnName}] = i
	}
	return s
}

// IndexByName returns the first column matching name, regardless of
// source.
func (s *Schema) IndexByName(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// IndexBySource returns the exact (source, name) column index.
func (s *Schema) IndexBySource(source, name string) (int, bool) {
	i, ok := s.bySrc[[2]string{source, name}]
	return i, ok
}

func (s *Schema) Len() int { return len(s.Columns) }

// Project returns a new Schema retaining only the given column
// indices, in the given order.
func (s *Schema) Project(indices []int) *Schema {
	cols := make([]ColumnSchema, len(indices))
	for i, idx := range indices {
		cols[i] = s.Columns[idx]
	}
	return NewSchema(cols)
}

// Append returns a new Schema with additional columns appended after
// the existing ones.
func (s *Schema) Append(cols ...ColumnSchema) *Schema {
	all := make([]ColumnSchema, 0, len(s.Columns)+len(cols))
	all = append(all, s.Columns...)
	all = append(all, cols...)
	return NewSchema(all)
}

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

package snapshot

import (
	"fmt"

	"github.com/flowsql/flowsql/expr"
	"github.com/flowsql/flowsql/logical"
)

// BuildLogicalIR flattens a logical.Plan into an IR: one IRNode per
// distinct plan index, visited post-order from Roots so every node's
// Children are already present by the time it's appended.
func BuildLogicalIR(plan *logical.Plan) (*IR, error) {
	b := &logicalIRBuilder{seen: make(map[int]bool)}
	ir := &IR{Roots: make([]int64, len(plan.Roots))}
	for i, root := range plan.Roots {
		if err := b.visit(root, ir); err != nil {
			return nil, err
		}
		ir.Roots[i] = int64(root.PlanIndex())
	}
	return ir, nil
}

type logicalIRBuilder struct {
	seen map[int]bool
}

func (b *logicalIRBuilder) visit(n logical.Node, ir *IR) error {
	if b.seen[n.PlanIndex()] {
		return nil
	}
	b.seen[n.PlanIndex()] = true

	for _, in := range n.Inputs() {
		if err := b.visit(in, ir); err != nil {
			return err
		}
	}

	children := make([]int64, len(n.Inputs()))
	for i, in := range n.Inputs() {
		children[i] = int64(in.PlanIndex())
	}

	data, kind, err := logicalNodeData(n)
	if err != nil {
		return err
	}

	ir.Nodes = append(ir.Nodes, IRNode{
		Index:    int64(n.PlanIndex()),
		Kind:     kind,
		Children: children,
		Data:     data,
	})
	return nil
}

func logicalNodeData(n logical.Node) (map[string]interface{}, string, error) {
	switch v := n.(type) {
	case *logical.DataSourceNode:
		return map[string]interface{}{"source_name": v.SourceName}, v.NodeKind().String(), nil

	case *logical.FilterNode:
		pred, err := exprToMap(v.Predicate)
		if err != nil {
			return nil, "", err
		}
		return map[string]interface{}{"predicate": pred}, v.NodeKind().String(), nil

	case *logical.ProjectNode:
		exprs, err := exprListToMap(v.Exprs)
		if err != nil {
			return nil, "", err
		}
		aliases := make([]interface{}, len(v.Aliases))
		for i, a := range v.Aliases {
			aliases[i] = a
		}
		return map[string]interface{}{"exprs": exprs, "aliases": aliases}, v.NodeKind().String(), nil

	case *logical.WindowNode:
		keys, err := exprListToMap(v.Keys)
		if err != nil {
			return nil, "", err
		}
		params := make([]interface{}, len(v.Spec.Params))
		copy(params, v.Spec.Params)
		return map[string]interface{}{
			"window_kind":   v.Spec.Kind,
			"window_params": params,
			"keys":          keys,
		}, v.NodeKind().String(), nil

	case *logical.AggregationNode:
		groupBy, err := exprListToMap(v.GroupBy)
		if err != nil {
			return nil, "", err
		}
		groupNames := make([]interface{}, len(v.GroupNames))
		for i, n := range v.GroupNames {
			groupNames[i] = n
		}
		aggs := make([]interface{}, len(v.Aggregates))
		for i, a := range v.Aggregates {
			am := map[string]interface{}{"func_name": a.FuncName, "output_name": a.OutputName}
			if a.Arg != nil {
				argMap, err := exprToMap(a.Arg)
				if err != nil {
					return nil, "", err
				}
				am["arg"] = argMap
			}
			aggs[i] = am
		}
		return map[string]interface{}{
			"group_by":    groupBy,
			"group_names": groupNames,
			"aggregates":  aggs,
		}, v.NodeKind().String(), nil

	case *logical.StatefulFunctionNode:
		calls := make([]interface{}, len(v.Calls))
		for i, c := range v.Calls {
			args, err := exprListToMap(c.Args)
			if err != nil {
				return nil, "", err
			}
			partitionBy, err := exprListToMap(c.PartitionBy)
			if err != nil {
				return nil, "", err
			}
			calls[i] = map[string]interface{}{
				"func_name":    c.FuncName,
				"args":         args,
				"partition_by": partitionBy,
				"output_name":  c.OutputName,
			}
		}
		return map[string]interface{}{"calls": calls}, v.NodeKind().String(), nil

	case *logical.TailNode:
		return map[string]interface{}{"limit": v.Limit}, v.NodeKind().String(), nil

	case *logical.DataSinkNode:
		data, err := sinkConfigToMap(v.Config)
		if err != nil {
			return nil, "", err
		}
		return data, v.NodeKind().String(), nil

	default:
		return nil, "", fmt.Errorf("snapshot: unsupported logical node %T", n)
	}
}

func exprListToMap(exprs []expr.ScalarExpr) ([]interface{}, error) {
	out := make([]interface{}, len(exprs))
	for i, e := range exprs {
		m, err := exprToMap(e)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

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

	"github.com/flowsql/flowsql/physical"
)

// BuildPhysicalIR flattens a physical.Plan the same way BuildLogicalIR
// flattens a logical.Plan: one IRNode per distinct plan index,
// post-order so every node's Children are already present.
func BuildPhysicalIR(plan *physical.Plan) (*IR, error) {
	b := &physicalIRBuilder{seen: make(map[int]bool)}
	ir := &IR{Roots: make([]int64, len(plan.Roots))}
	for i, root := range plan.Roots {
		if err := b.visit(root, ir); err != nil {
			return nil, err
		}
		ir.Roots[i] = int64(root.PlanIndex())
	}
	if plan.ResultCollect != nil {
		if err := b.visit(plan.ResultCollect, ir); err != nil {
			return nil, err
		}
	}
	return ir, nil
}

type physicalIRBuilder struct {
	seen map[int]bool
}

func (b *physicalIRBuilder) visit(n physical.Node, ir *IR) error {
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

	data, kind, err := physicalNodeData(n)
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

func physicalNodeData(n physical.Node) (map[string]interface{}, string, error) {
	switch v := n.(type) {
	case *physical.DataSourceNode:
		return map[string]interface{}{"source_name": v.SourceName}, v.NodeKind().String(), nil

	case *physical.DecoderNode:
		return map[string]interface{}{"codec_kind": v.Kind, "props": v.Props}, v.NodeKind().String(), nil

	case *physical.FilterNode:
		pred, err := exprToMap(v.Predicate)
		if err != nil {
			return nil, "", err
		}
		return map[string]interface{}{"predicate": pred}, v.NodeKind().String(), nil

	case *physical.ProjectNode:
		exprs, err := exprListToMap(v.Exprs)
		if err != nil {
			return nil, "", err
		}
		fields := make([]interface{}, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "source_name": f.SourceName}
		}
		return map[string]interface{}{"exprs": exprs, "fields": fields}, v.NodeKind().String(), nil

	case *physical.EncoderNode:
		return map[string]interface{}{"codec_kind": v.Kind, "props": v.Props}, v.NodeKind().String(), nil

	case *physical.BatchNode:
		return map[string]interface{}{"count": v.Count, "duration_ns": int64(v.Duration)}, v.NodeKind().String(), nil

	case *physical.DataSinkNode:
		data, err := sinkConfigToMap(v.Config)
		if err != nil {
			return nil, "", err
		}
		return data, v.NodeKind().String(), nil

	case *physical.ResultCollectNode:
		return map[string]interface{}{}, v.NodeKind().String(), nil

	case *physical.SharedStreamNode:
		return map[string]interface{}{"topic": v.Topic}, v.NodeKind().String(), nil

	case *physical.EventtimeWatermarkNode:
		return map[string]interface{}{
			"column":            v.Column,
			"time_unit":         v.TimeUnit,
			"allowed_lateness_ns": int64(v.AllowedLateness),
			"late_policy":       v.LatePolicy,
		}, v.NodeKind().String(), nil

	case *physical.ProcessTimeWatermarkNode:
		return map[string]interface{}{"interval_ns": int64(v.Interval)}, v.NodeKind().String(), nil

	case *physical.StreamingAggregationNode:
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
		data := map[string]interface{}{
			"group_by":    groupBy,
			"group_names": groupNames,
			"aggregates":  aggs,
		}
		if v.Window != nil {
			params := make([]interface{}, len(v.Window.Params))
			copy(params, v.Window.Params)
			data["window_kind"] = v.Window.Kind
			data["window_params"] = params
		}
		return data, v.NodeKind().String(), nil

	case *physical.StatefulFunctionNode:
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

	default:
		return nil, "", fmt.Errorf("snapshot: unsupported physical node %T", n)
	}
}

package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Noofbiz/aqiReport/datasets"
)

// XGBoostSpec is a boosted tree ensemble as produced by
// Booster.get_dump(dump_format="json") plus the booster's base_score.
type XGBoostSpec struct {
	BaseScore float64    `json:"base_score"`
	Trees     []TreeNode `json:"trees"`
}

// TreeNode is one node of a dumped regression tree. Leaves carry Leaf;
// internal nodes carry Split, SplitCondition and the Yes/No/Missing child ids.
type TreeNode struct {
	NodeID         int        `json:"nodeid"`
	Split          string     `json:"split,omitempty"`
	SplitCondition float64    `json:"split_condition,omitempty"`
	Yes            int        `json:"yes,omitempty"`
	No             int        `json:"no,omitempty"`
	Missing        int        `json:"missing,omitempty"`
	Leaf           *float64   `json:"leaf,omitempty"`
	Children       []TreeNode `json:"children,omitempty"`
}

// flatNode is a compiled node; children are indices into the tree slice.
type flatNode struct {
	leaf                 bool
	value                float64
	feature              int
	threshold            float64
	yes, no, missingNode int
}

type treeEnsemble struct {
	name      string
	pre       *preprocessor
	baseScore float64
	trees     [][]flatNode
}

func newTreeEnsemble(name string, pre *preprocessor, spec XGBoostSpec) (*treeEnsemble, error) {
	if len(spec.Trees) == 0 {
		return nil, fmt.Errorf("xgboost model has no trees")
	}
	features := make(map[string]int, pre.Width())
	for i, n := range pre.Names() {
		features[n] = i
	}
	e := &treeEnsemble{name: name, pre: pre, baseScore: spec.BaseScore}
	for i := range spec.Trees {
		t, err := compileTree(&spec.Trees[i], features, pre.Width())
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		e.trees = append(e.trees, t)
	}
	return e, nil
}

// compileTree flattens a nested tree. The top node lands in slot 0 and the
// rest follow in visit order; node ids only need to be unique, and child
// references are translated from ids to slots.
func compileTree(root *TreeNode, features map[string]int, width int) ([]flatNode, error) {
	var nodes []*TreeNode
	slot := map[int]int{}
	var collect func(n *TreeNode) error
	collect = func(n *TreeNode) error {
		if _, dup := slot[n.NodeID]; dup {
			return fmt.Errorf("node id %d repeated", n.NodeID)
		}
		slot[n.NodeID] = len(nodes)
		nodes = append(nodes, n)
		for i := range n.Children {
			if err := collect(&n.Children[i]); err != nil {
				return err
			}
		}
		return nil
	}
	if err := collect(root); err != nil {
		return nil, err
	}

	out := make([]flatNode, len(nodes))
	for i, n := range nodes {
		if n.Leaf != nil {
			out[i] = flatNode{leaf: true, value: *n.Leaf}
			continue
		}
		f, err := resolveFeature(n.Split, features, width)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.NodeID, err)
		}
		var kids [3]int
		for k, c := range []int{n.Yes, n.No, n.Missing} {
			s, ok := slot[c]
			if !ok {
				return nil, fmt.Errorf("node %d: bad child reference %d", n.NodeID, c)
			}
			kids[k] = s
		}
		out[i] = flatNode{
			feature:     f,
			threshold:   n.SplitCondition,
			yes:         kids[0],
			no:          kids[1],
			missingNode: kids[2],
		}
	}
	if err := checkAcyclic(out, nodes); err != nil {
		return nil, err
	}
	return out, nil
}

// checkAcyclic rejects trees where a walk from the root can revisit a node,
// so score always reaches a leaf.
func checkAcyclic(tree []flatNode, nodes []*TreeNode) error {
	const (
		unseen = iota
		onPath
		done
	)
	state := make([]int, len(tree))
	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case onPath:
			return fmt.Errorf("cycle at node %d", nodes[i].NodeID)
		case done:
			return nil
		}
		state[i] = onPath
		if n := tree[i]; !n.leaf {
			for _, c := range []int{n.yes, n.no, n.missingNode} {
				if err := visit(c); err != nil {
					return err
				}
			}
		}
		state[i] = done
		return nil
	}
	return visit(0)
}

// resolveFeature accepts a design column name or xgboost's positional "f<i>".
func resolveFeature(split string, features map[string]int, width int) (int, error) {
	if i, ok := features[split]; ok {
		return i, nil
	}
	if rest, ok := strings.CutPrefix(split, "f"); ok {
		if i, err := strconv.Atoi(rest); err == nil && i >= 0 && i < width {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown split feature %q", split)
}

// score walks one compiled tree from slot 0. compileTree has already
// rejected cycles, so the walk ends on a leaf.
func score(tree []flatNode, row []float64) float64 {
	i := 0
	for {
		n := &tree[i]
		if n.leaf {
			return n.value
		}
		v := row[n.feature]
		switch {
		case math.IsNaN(v):
			i = n.missingNode
		case v < n.threshold:
			i = n.yes
		default:
			i = n.no
		}
	}
}

func (e *treeEnsemble) Name() string { return e.name }

// Predict returns base_score plus the sum of leaf values across trees.
func (e *treeEnsemble) Predict(ft *datasets.FeatureTable) ([]float64, error) {
	if ft.Len() == 0 {
		return []float64{}, nil
	}
	x, err := e.pre.Transform(ft)
	if err != nil {
		return nil, err
	}
	out := make([]float64, ft.Len())
	for r := range out {
		row := x.RawRowView(r)
		sum := e.baseScore
		for _, t := range e.trees {
			sum += score(t, row)
		}
		out[r] = sum
	}
	return out, nil
}

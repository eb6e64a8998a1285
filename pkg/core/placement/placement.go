package placement

import "github.com/matzehuels/pidlayout/pkg/diagram"

// Result is the output of [Place] and [Rearrange].
type Result struct {
	Nodes       []diagram.EquipmentNode
	Strategy    string
	Direction   Direction
	Report      OptimizeReport
	Diagnostics []diagram.Diagnostic
}

// Place computes positions for nodes. The input slice is not modified.
//
// It returns an error only for invalid configuration: a canvas without a
// drawable area, a non-positive grid or spacing, or an unknown strategy or
// flow direction.
func Place(nodes []diagram.EquipmentNode, opts Options) (Result, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return Result{}, err
	}
	strategy, err := StrategyFor(opts.Strategy)
	if err != nil {
		return Result{}, err
	}
	dir, err := ParseDirection(opts.FlowDirection)
	if err != nil {
		return Result{}, err
	}

	out := make([]diagram.EquipmentNode, len(nodes))
	for i, n := range nodes {
		out[i] = n.Normalized()
	}
	dir = ResolveDirection(out, dir)

	strategy.Place(out, Frame{Canvas: opts.Canvas, Direction: dir, MinSpacing: opts.MinSpacing})
	if opts.RespectElevation {
		AdjustElevation(out, dir)
		for i := range out {
			out[i].Position = opts.Canvas.Clamp(out[i].Position)
		}
	}

	res := Result{Nodes: out, Strategy: strategy.Name(), Direction: dir}
	if opts.AutoOptimize {
		res.Report = Optimize(out, opts.MinSpacing, opts.MaxRounds, nil)
		res.Diagnostics = exhaustionDiagnostics(res.Report)
	}
	Snap(out, opts.GridSize)
	return res, nil
}

// Rearrange moves the node tagged tag to pos, pins it there and re-runs
// collision resolution and grid snapping over the whole set. The placement
// strategy is not re-run. An unknown tag leaves the nodes unchanged and is
// reported as a missing-reference diagnostic.
func Rearrange(nodes []diagram.EquipmentNode, tag string, pos diagram.Point, opts Options) (Result, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return Result{}, err
	}
	out := diagram.CloneNodes(nodes)
	res := Result{Nodes: out}

	idx, ok := diagram.IndexByTag(out)[tag]
	if !ok {
		res.Diagnostics = append(res.Diagnostics, diagram.NewDiagnostic(
			diagram.StagePlacement, diagram.KindMissingReference, tag,
			"cannot rearrange unknown equipment %q", tag))
		return res, nil
	}

	out[idx].Position = pos
	res.Report = Optimize(out, opts.MinSpacing, opts.MaxRounds, map[string]bool{tag: true})
	res.Diagnostics = exhaustionDiagnostics(res.Report)
	Snap(out, opts.GridSize)
	return res, nil
}

// Snap rounds every node position to the nearest multiple of grid.
// Snapping is idempotent.
func Snap(nodes []diagram.EquipmentNode, grid float64) {
	for i := range nodes {
		nodes[i].Position = nodes[i].Position.Snap(grid)
	}
}

func exhaustionDiagnostics(r OptimizeReport) []diagram.Diagnostic {
	if r.Residual == 0 {
		return nil
	}
	return []diagram.Diagnostic{diagram.NewDiagnostic(
		diagram.StagePlacement, diagram.KindPlacementExhaustion, "",
		"%d equipment pairs still collide after %d rounds", r.Residual, r.Rounds)}
}

// Validate checks opts without placing anything.
func Validate(opts Options) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}
	if _, err := StrategyFor(opts.Strategy); err != nil {
		return err
	}
	_, err = ParseDirection(opts.FlowDirection)
	return err
}

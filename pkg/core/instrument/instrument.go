package instrument

import (
	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/errors"
)

// Options configures [Process].
type Options struct {
	Canvas   diagram.Canvas
	Strategy string

	// AutoGenerate fills in a [Generate]d instrument set when the input
	// list is empty.
	AutoGenerate bool
}

// Result is the output of [Process].
type Result struct {
	Instruments  []diagram.Instrument
	Loops        []diagram.ControlLoop
	SignalRoutes []diagram.Route
	Diagnostics  []diagram.Diagnostic
}

// Process classifies, connects and positions instruments against placed
// equipment. The input slice is not modified.
func Process(nodes []diagram.EquipmentNode, instruments []diagram.Instrument, opts Options) (Result, error) {
	if opts.Strategy == "" {
		opts.Strategy = Auto{}.Name()
	}
	layout, err := LayoutFor(opts.Strategy)
	if err != nil {
		return Result{}, err
	}
	if err := errors.ValidateCanvas(opts.Canvas.Width, opts.Canvas.Height, opts.Canvas.Margin); err != nil {
		return Result{}, err
	}
	if len(instruments) == 0 && opts.AutoGenerate {
		instruments = Generate(nodes)
	}

	var res Result
	out := make([]diagram.Instrument, len(instruments))
	for i, inst := range instruments {
		out[i], res.Diagnostics = classify(inst, nodes, res.Diagnostics)
	}

	byTag := make(map[string]diagram.EquipmentNode, len(nodes))
	for _, n := range nodes {
		if _, ok := byTag[n.Tag]; !ok {
			byTag[n.Tag] = n
		}
	}
	layout.Arrange(out, byTag, opts.Canvas)

	res.Instruments = out
	res.Loops = GroupLoops(out)
	res.SignalRoutes = SignalRoutes(out, byTag)
	return res, nil
}

// classify fills the derived fields of one instrument.
func classify(inst diagram.Instrument, nodes []diagram.EquipmentNode, diags []diagram.Diagnostic) (diagram.Instrument, []diagram.Diagnostic) {
	t := ParseTag(inst.Tag)
	if !t.Valid {
		diags = append(diags, diagram.NewDiagnostic(
			diagram.StageInstrumentation, diagram.KindMalformedTag, inst.Tag,
			"tag %q does not follow the ISA pattern, treating it as unclassified", inst.Tag))
	}
	inst.MeasuredVariable = t.MeasuredVariable
	inst.Functions = t.Functions
	inst.LoopNumber = t.LoopNumber
	inst.Suffix = t.Suffix
	inst.Valid = t.Valid
	inst.Mounting = Mounting(inst.DeclaredMounting, t.Functions, inst.Local)
	inst.Signal = Signal(inst.DeclaredSignal)

	tag, _ := Infer(inst, t.MeasuredVariable, nodes)
	if tag == "" && inst.Equipment != "" {
		diags = append(diags, diagram.NewDiagnostic(
			diagram.StageInstrumentation, diagram.KindMissingReference, inst.Tag,
			"instrument %s references unknown equipment %q", inst.Tag, inst.Equipment))
	}
	inst.ConnectionPoint = tag
	return inst, diags
}

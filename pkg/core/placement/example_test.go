package placement_test

import (
	"fmt"

	"github.com/matzehuels/pidlayout/pkg/core/placement"
	"github.com/matzehuels/pidlayout/pkg/diagram"
)

func ExamplePlace() {
	nodes := []diagram.EquipmentNode{
		{Tag: "P-101", Category: diagram.CategoryPump},
		{Tag: "E-101", Category: diagram.CategoryHeatExchanger},
		{Tag: "V-101", Category: diagram.CategoryVessel},
	}

	res, err := placement.Place(nodes, placement.Options{
		Canvas:        diagram.Canvas{Width: 1000, Height: 600, Margin: 100},
		FlowDirection: "left-to-right",
		AutoOptimize:  true,
	})
	if err != nil {
		panic(err)
	}
	for _, n := range res.Nodes {
		fmt.Printf("%s (%.0f, %.0f)\n", n.Tag, n.Position.X, n.Position.Y)
	}
	// Output:
	// P-101 (100, 300)
	// E-101 (500, 300)
	// V-101 (900, 300)
}

func ExampleRearrange() {
	nodes := []diagram.EquipmentNode{
		{Tag: "P-101", Category: diagram.CategoryPump, Size: diagram.Size{Width: 60, Height: 60}, Position: diagram.Point{X: 100, Y: 300}},
		{Tag: "V-101", Category: diagram.CategoryVessel, Size: diagram.Size{Width: 80, Height: 120}, Position: diagram.Point{X: 900, Y: 300}},
	}

	res, _ := placement.Rearrange(nodes, "V-101", diagram.Point{X: 500, Y: 200}, placement.Options{
		Canvas: diagram.Canvas{Width: 1000, Height: 600, Margin: 100},
	})
	fmt.Println(res.Nodes[1].Position.X, res.Nodes[1].Position.Y)
	fmt.Println("residual:", res.Report.Residual)
	// Output:
	// 500 200
	// residual: 0
}

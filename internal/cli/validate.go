package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pidio "github.com/matzehuels/pidlayout/pkg/io"
)

// validateCommand creates the validate command, which checks an input
// document against the schema without laying it out.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input.yaml]",
		Short: "Check an input document without laying it out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := pidio.ImportInput(args[0])
			if err != nil {
				printError("%s is not a valid input document", args[0])
				return err
			}
			printSuccess("%s is valid", args[0])
			printKeyValue("equipment", fmt.Sprint(len(in.Equipment)))
			printKeyValue("connections", fmt.Sprint(len(in.Connections)))
			printKeyValue("instruments", fmt.Sprint(len(in.Instruments)))
			printKeyValue("markups", fmt.Sprint(len(in.Markups)))
			if len(in.Connections) == 0 && len(in.Equipment) > 1 {
				printDetail("No connections: equipment will be chained in list order")
			}
			return nil
		},
	}
}

// schemaCommand creates the schema command, which prints the JSON schema
// of input documents for editor integration.
func (c *CLI) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of input documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := os.Stdout.Write(pidio.InputSchema())
			return err
		},
	}
}

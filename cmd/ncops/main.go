// Command ncops issues netconf retrieval operations against a device.
//
//	ncops --device router.yaml get --subtree '<interfaces/>'
//	ncops --device router.yaml get-config --source candidate --xpath /if:interfaces --ns if=urn:ietf:params:xml:ns:yang:ietf-interfaces
//	ncops --device nexus.yaml dispatch nxos:show-version
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:          "ncops",
		Short:        "Issue netconf retrieval operations",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.devicePath, "device", "d", "device.yaml", "Device description file")
	flags.StringVar(&opts.trace, "trace", "", "Trace hooks to log: default, metric or diagnostic")

	cmd.AddCommand(
		newGetCommand(&opts),
		newGetConfigCommand(&opts),
		newDispatchCommand(&opts),
		newSchemasCommand(&opts),
	)
	return cmd
}

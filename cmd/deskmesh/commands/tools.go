package commands

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List registered backend tools",
	RunE:  runTools,
}

func runTools(cmd *cobra.Command, _ []string) error {
	svc, _, cleanup, err := buildService(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	tools := svc.Tools()
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\n", name, tools[name])
	}
	return w.Flush()
}

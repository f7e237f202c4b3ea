package cli

import (
	"encoding/json"

	postgrest "github.com/pgrst/postgrest-query-go"
	"github.com/spf13/cobra"
)

func newRPCCommand(a *app) *cobra.Command {
	var (
		args  []string
		head  bool
		count string
	)

	cmd := &cobra.Command{
		Use:   "rpc <function>",
		Short: "Call a stored function",
		Example: `  pgrst rpc add_them --arg a=2 --arg b=2
  pgrst rpc search --arg q=coffee --head --count exact`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			params, err := parseArgs(args)
			if err != nil {
				return err
			}
			c, err := parseCount(count)
			if err != nil {
				return err
			}

			result, err := postgrest.Execute[json.RawMessage](cmd.Context(), a.client.RPC(positional[0], params, &postgrest.RPCOptions{
				Head:  head,
				Count: c,
			}))
			if err != nil {
				return err
			}
			if len(result) == 0 {
				return nil
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&args, "arg", "a", nil, "argument as name=value, repeatable; JSON values are decoded")
	f.BoolVar(&head, "head", false, "call with HEAD and send the arguments as query parameters")
	f.StringVar(&count, "count", "", "count mode: exact, planned or estimated")
	return cmd
}

package commands

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (authenticate once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without
re-authenticating. The session keeps running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\nStarting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			rootCmd := cmd.Parent()
			subcommands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				name := subCmd.Name()
				if name != "interactive" && name != "completion" && name != "help" {
					subcommands[name] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts := strings.Fields(line)
				name := parts[0]

				switch name {
				case "exit", "quit":
					fmt.Println("Goodbye!")
					return nil
				case "help":
					printInteractiveHelp(subcommands)
					continue
				}

				subCmd, ok := subcommands[name]
				if !ok {
					fmt.Printf("Unknown command %q. Type 'help' for available commands.\n", name)
					continue
				}

				// Reset flags so values from a previous invocation don't leak
				subCmd.Flags().VisitAll(func(f *pflag.Flag) {
					f.Value.Set(f.DefValue)
					f.Changed = false
				})

				subCmd.SetArgs(nil)
				if err := subCmd.ParseFlags(parts[1:]); err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}

				cmdArgs := subCmd.Flags().Args()
				if subCmd.Args != nil {
					if err := subCmd.Args(subCmd, cmdArgs); err != nil {
						fmt.Printf("Error: %v\n", err)
						continue
					}
				}

				if err := subCmd.RunE(subCmd, cmdArgs); err != nil {
					fmt.Printf("Error: %v\n", err)
				}
			}

			return scanner.Err()
		},
	}
}

func printInteractiveHelp(subcommands map[string]*cobra.Command) {
	names := make([]string, 0, len(subcommands))
	for name := range subcommands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nAvailable commands:")
	for _, name := range names {
		fmt.Printf("  %-22s %s\n", name, subcommands[name].Short)
	}
	fmt.Println("  exit | quit            Leave the session")
	fmt.Println()
}

package cli

import (
	"context"

	"github.com/spf13/cobra"
)

const (
	paperCodeHelp = `Paper code format: (4-digit subject code)_(session letter)(2-digit year)_(paper type)_(paper number)
Session letters: m (Feb-March), s (May-June), w (Oct-Nov), y (Specimen).
The paper number is 1 or 2 digits, or a digit followed by a letter. Examiner reports,
grade thresholds and syllabus papers carry none.`

	rangeHelp = `Range formats:
  s14     one session of one year
  s14-17  one session across a range of years
  14-17   every session of every year in the range
  14      every session of one year`
)

// newRootCommand builds a fresh command tree. The shell calls it once per line
// so flag values never leak from one command into the next.
func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "easypapers",
		Short: "Download Cambridge past papers by paper code",
		Long: `Easy Past Papers finds and downloads exam past papers from an online archive.

Run without arguments to start the interactive shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.inShell {
				return nil
			}
			return a.RunShell(cmd.Context())
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.out)
	root.SetErr(a.out)
	root.SetIn(a.in)

	root.AddCommand(
		a.newGetCommand(),
		a.newGetManyCommand(),
		a.newSetConnectTimeoutCommand(),
		a.newSetReadTimeoutCommand(),
		a.newSetBaseURLCommand(),
		a.newSetDownloadFolderCommand(),
		a.newRefreshCommand(),
		a.newStatsCommand(),
		a.newShellCommand(),
		a.newExitCommand(),
	)
	return root
}

// ExecuteArgs runs one command line. Errors the user can act on are printed
// and reported as ErrCommandFailed; ErrExit, interrupts and configuration save
// failures are returned for the caller to act on.
func (a *App) ExecuteArgs(ctx context.Context, args []string) error {
	root := a.newRootCommand()
	root.SetArgs(args)
	cmd, err := root.ExecuteContextC(ctx)
	return a.report(cmd, err)
}

// commandNames lists the commands offered by tab completion
func (a *App) commandNames() []string {
	names := []string{"help"}
	for _, c := range a.newRootCommand().Commands() {
		if !c.Hidden {
			names = append(names, c.Name())
		}
	}
	return names
}

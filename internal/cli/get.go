package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
	"github.com/nkzzz-xD/EasyPastPapers/internal/papercode"
	"github.com/nkzzz-xD/EasyPastPapers/internal/services"
	"github.com/spf13/cobra"
)

// downloadFlags are the flags shared by get and getmany
type downloadFlags struct {
	force            bool
	skipExisting     bool
	noSessionFolders bool
}

func (f *downloadFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, "overwrite existing files without asking")
	cmd.Flags().BoolVarP(&f.skipExisting, "skip-existing", "s", false, "never overwrite existing files")
	cmd.Flags().BoolVarP(&f.noSessionFolders, "no-session-folders", "n", false, "do not create a folder per exam session")
	cmd.MarkFlagsMutuallyExclusive("force", "skip-existing")
}

func (f *downloadFlags) options() models.GetOptions {
	opts := models.DefaultGetOptions()
	switch {
	case f.force:
		opts.Policy = models.OverwriteForce
	case f.skipExisting:
		opts.Policy = models.OverwriteSkipExisting
	}
	opts.SessionFolders = !f.noSessionFolders
	return opts
}

func (a *App) newGetCommand() *cobra.Command {
	var flags downloadFlags
	var open bool

	cmd := &cobra.Command{
		Use:     "get <paper code>",
		Short:   "Download one past paper",
		Long:    "Download one past paper by its code.\n\n" + paperCodeHelp,
		Example: "  get 0452_w04_qp_3\n  get 0620_s14_ms_21 --open",
		Args: func(_ *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				return usageError("Please specify a file to download", nil)
			case len(args) > 1:
				return usageError(fmt.Sprintf("Unexpected number of arguments passed to get: %d", len(args)), nil)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := papercode.Parse(args[0])
			if err != nil {
				cmdErr := usageError(fmt.Sprintf("Invalid file '%s' as parameter to get", args[0]), err)
				cmdErr.example = paperCodeHelp
				return cmdErr
			}

			opts := flags.options()
			opts.Open = open

			a.printer.Info("Preparing for download of %s...", code.Raw)
			res, err := a.resolver().Resolve(cmd.Context(), code, opts)
			if err != nil {
				return lookupFailure(code.SearchTerm(), a.cfg.BaseURL, err)
			}
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			if !res.Download.Succeeded() {
				return errReported
			}

			if opts.Open {
				if err := a.open(res.Download.Path); err != nil {
					return failure("Could not open "+res.Download.Path, err)
				}
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&open, "open", "o", false, "open the file once downloaded")
	return cmd
}

func (a *App) newGetManyCommand() *cobra.Command {
	var flags downloadFlags

	cmd := &cobra.Command{
		Use:     "getmany <subject code> <range>",
		Short:   "Download every past paper of a subject in a session range",
		Long:    "Download every past paper of a subject published in the given sessions.\n\n" + rangeHelp,
		Example: "  getmany 0452 14-17\n  getmany 0620 s21 --skip-existing",
		Args: func(_ *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				return usageError("Please specify a subject code and range", nil)
			case len(args) == 1:
				return usageError("Please specify both a range and subject code", nil)
			case len(args) > 2:
				return usageError(fmt.Sprintf("Unexpected number of arguments passed to getmany: %d", len(args)), nil)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, rangeToken := args[0], strings.ToLower(args[1])
			if !papercode.ValidSubjectCode(subject) {
				return usageError(fmt.Sprintf("Invalid subject code '%s' as parameter to getmany", subject), nil)
			}
			tokens, err := papercode.ParseRange(rangeToken, a.now())
			if err != nil {
				cmdErr := usageError(fmt.Sprintf("Invalid range '%s'", args[1]), err)
				cmdErr.example = rangeHelp
				return cmdErr
			}

			a.printer.Info("Preparing for download of all past papers for '%s' in range '%s'...", subject, rangeToken)
			res, err := a.resolver().ResolveMany(cmd.Context(), subject, tokens, flags.options())
			if res != nil && len(res.Tokens) > 0 {
				a.printer.BulkResult(res)
			}
			if err != nil {
				return lookupFailure(subject, a.cfg.BaseURL, err)
			}
			if err := cmd.Context().Err(); err != nil {
				return err
			}

			if downloaded, skipped, _ := res.Totals(); downloaded+skipped == 0 {
				a.printer.Error(fmt.Sprintf("No past papers could be downloaded for '%s' in range '%s'", subject, rangeToken), nil)
				return errReported
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// lookupFailure turns resolver errors into user-facing messages
func lookupFailure(term, site string, err error) error {
	if !services.IsLookupError(err) {
		return failure("Could not read the archive", err)
	}
	var cmdErr *commandError
	var unknown *apperrors.ErrUnknownSubjectCode
	if errors.As(err, &unknown) {
		cmdErr = failure(fmt.Sprintf("Unknown subject code '%s'", unknown.Code), nil)
	} else {
		cmdErr = failure(fmt.Sprintf("Could not find file '%s' on '%s'", term, site), nil)
	}
	cmdErr.example = lookupHint(site)
	return cmdErr
}

func lookupHint(site string) string {
	return fmt.Sprintf("May not be available on %s or the session does not exist.\n"+
		"Make sure you have entered the correct subject code and session.", site)
}

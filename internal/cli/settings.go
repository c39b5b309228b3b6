package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/nkzzz-xD/EasyPastPapers/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// singleArg validates that exactly one argument was given, using missing as the
// message when there is none
func singleArg(name, missing string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		switch {
		case len(args) == 0:
			return usageError(missing, nil)
		case len(args) > 1:
			return usageError(fmt.Sprintf("Unexpected number of arguments passed to %s: %d", name, len(args)), nil)
		}
		return nil
	}
}

func parseSeconds(arg string) (float64, error) {
	seconds, err := strconv.ParseFloat(arg, 64)
	if err != nil || seconds <= 0 {
		return 0, usageError("Please specify a valid number of seconds", nil)
	}
	return seconds, nil
}

func (a *App) newSetConnectTimeoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setconnecttimeout <seconds>",
		Short: "Set how long to wait for a connection to the archive",
		Args:  singleArg("setconnecttimeout", "Please specify a valid number of seconds"),
		RunE: func(_ *cobra.Command, args []string) error {
			seconds, err := parseSeconds(args[0])
			if err != nil {
				return err
			}
			a.cfg.ConnectTimeout = seconds
			if err := a.cfg.Save(); err != nil {
				return err
			}
			a.reconnect()
			a.printer.Success("Connection timeout set to %s seconds.", strconv.FormatFloat(seconds, 'f', -1, 64))
			return nil
		},
		// values such as -1 are arguments, not flags
		DisableFlagParsing: true,
	}
}

func (a *App) newSetReadTimeoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setreadtimeout <seconds>",
		Short: "Set how long to wait for data from the archive",
		Args:  singleArg("setreadtimeout", "Please specify a valid number of seconds"),
		RunE: func(_ *cobra.Command, args []string) error {
			seconds, err := parseSeconds(args[0])
			if err != nil {
				return err
			}
			a.cfg.ReadTimeout = seconds
			if err := a.cfg.Save(); err != nil {
				return err
			}
			a.reconnect()
			a.printer.Success("Read timeout set to %s seconds.", strconv.FormatFloat(seconds, 'f', -1, 64))
			return nil
		},
		// values such as -1 are arguments, not flags
		DisableFlagParsing: true,
	}
}

func (a *App) newSetBaseURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setbaseurl <url>",
		Short: "Set the address of the past papers archive",
		Args:  singleArg("setbaseurl", "Please specify a valid URL"),
		RunE: func(_ *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return usageError("Please specify a valid URL", err)
			}
			a.cfg.BaseURL = args[0]
			if err := a.cfg.Save(); err != nil {
				return err
			}
			a.reconnect()
			a.pages.Clear()
			a.printer.Success("Base URL set to %s.", a.cfg.BaseURL)
			return nil
		},
		// values such as -1 are arguments, not flags
		DisableFlagParsing: true,
	}
}

func (a *App) newSetDownloadFolderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setdownloadfolder <path>",
		Short: "Set the folder papers are downloaded to",
		Long:  "Set the folder papers are downloaded to. Quote paths that contain spaces.",
		Args:  singleArg("setdownloadfolder", "Please specify a valid directory path"),
		RunE: func(_ *cobra.Command, args []string) error {
			folder, err := filepath.Abs(args[0])
			if err != nil {
				return usageError("Please specify a valid directory path", err)
			}
			info, err := a.fs.Stat(folder)
			switch {
			case err == nil && !info.IsDir():
				return usageError("Please specify a valid directory path", fmt.Errorf("%s is a file", folder))
			case err != nil && !errors.Is(err, fs.ErrNotExist):
				return usageError("Please specify a valid directory path", err)
			}

			a.cfg.DownloadFolder = folder
			if err := a.cfg.Save(); err != nil {
				return err
			}
			a.printer.Success("Download folder set to %s.", folder)
			return nil
		},
		// values such as -1 are arguments, not flags
		DisableFlagParsing: true,
	}
}

func (a *App) newRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the list of subjects from the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.printer.Info("Reading subjects from %s...", a.cfg.BaseURL)
			dir, err := a.RefreshDirectory(cmd.Context())
			if err != nil {
				if isFatal(err) {
					return err
				}
				return failure("Could not read the subject list from "+a.cfg.BaseURL, err)
			}
			a.pages.Clear()
			a.printer.Success("Found %d subjects in %d categories.", len(dir.SubjectCodes()), len(dir.Categories()))
			return nil
		},
	}
}

func (a *App) newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache and download counters for this session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			stats, err := metrics.Collect(prometheus.DefaultGatherer, CacheGroup)
			if err != nil {
				return failure("Could not gather statistics", err)
			}
			p := a.printer
			p.Field("Listing pages cached", fmt.Sprintf("%s of %d", p.Number(stats.CacheEntries), a.cfg.MaxPageCache))
			p.Field("Cache hits", p.Number(stats.CacheHits))
			p.Field("Cache misses", p.Number(stats.CacheMisses))
			p.Field("Cache evictions", p.Number(stats.CacheEvictions))
			p.Field("Pages fetched", fmt.Sprintf("%s ok, %s failed",
				p.Number(stats.ListingFetches["success"]), p.Number(stats.ListingFetches["error"])))
			p.Field("Direct hits", fmt.Sprintf("%s of %s attempts",
				p.Number(stats.FastPath["hit"]), p.Number(stats.FastPath["hit"]+stats.FastPath["miss"]+stats.FastPath["hard"])))
			p.Field("Downloaded", p.Number(stats.Downloads["downloaded"]))
			p.Field("Already present", p.Number(stats.Downloads["already_exists"]))
			p.Field("Failed", p.Number(stats.Downloads["failed"]))
			p.Field("Written", p.Bytes(int64(stats.BytesWritten)))
			return nil
		},
	}
}

func (a *App) newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "shell",
		Short:  "Start the interactive shell",
		Args:   cobra.NoArgs,
		Hidden: a.inShell,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.inShell {
				return failure("Already in the shell", nil)
			}
			return a.RunShell(cmd.Context())
		},
	}
}

func (a *App) newExitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exit",
		Short: "Leave the shell",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return ErrExit
		},
	}
}

func isFatal(err error) bool {
	var saveErr *apperrors.ErrConfigSave
	return errors.As(err, &saveErr)
}

package cli

import (
	"time"

	"github.com/urfave/cli/v2"
)

// NewApp creates and configures the main CLI application.
func NewApp() *cli.App {
	return &cli.App{
		Name:     "manifestctl",
		Usage:    "Resolve versions and reconcile release manifests for redistributed runtimes",
		Version:  "1.0.0",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Clean Dependency Project",
				Email: "info@example.com",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level for structured JSON output (debug, info, warn, error)",
				EnvVars: []string{"MANIFESTCTL_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "runtime",
				Aliases: []string{"r"},
				Value:   "python",
				Usage:   "runtime name the manifests describe (e.g. python, dotnet)",
				EnvVars: []string{"MANIFESTCTL_RUNTIME"},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "path to SQLite sync journal; journaling is disabled when unset",
				EnvVars: []string{"MANIFESTCTL_DB"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "versions",
				Usage: "Query versions recorded in a manifest",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List manifest versions matching a filter, most recent first",
						Flags:  versionsFlags(),
						Action: versionsList,
					},
					{
						Name:   "latest",
						Usage:  "Print the most recent manifest version matching a filter",
						Flags:  versionsFlags(),
						Action: versionsLatest,
					},
				},
			},
			{
				Name:  "manifest",
				Usage: "Fetch, merge, and update manifest files",
				Subcommands: []*cli.Command{
					{
						Name:  "fetch",
						Usage: "Download a manifest, optionally verifying a detached signature",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "url", Usage: "manifest URL", Required: true},
							&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write the manifest here instead of stdout"},
							&cli.StringFlag{Name: "keyring", Usage: "armored public key file for signature verification"},
							&cli.StringFlag{Name: "signature-url", Usage: "detached signature URL (defaults to <url>.sig when --keyring is set)"},
						},
						Action: manifestFetch,
					},
					{
						Name:  "merge",
						Usage: "Merge incoming manifest entries into an existing manifest",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "existing", Usage: "existing manifest file", Required: true},
							&cli.StringFlag{Name: "incoming", Usage: "incoming manifest file", Required: true},
							&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file (defaults to the existing file)"},
						},
						Action: manifestMerge,
					},
					{
						Name:  "verify",
						Usage: "Verify a local manifest file against a detached signature",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "file", Usage: "manifest file", Required: true},
							&cli.StringFlag{Name: "signature", Usage: "detached signature file", Required: true},
							&cli.StringFlag{Name: "keyring", Usage: "armored public key file", Required: true},
						},
						Action: manifestVerify,
					},
					{
						Name:  "update",
						Usage: "Reconcile one file record into a manifest",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "manifest-file", Usage: "manifest file to update", Required: true},
							&cli.StringFlag{Name: "version", Usage: "release version", Required: true},
							&cli.StringFlag{Name: "filename", Usage: "artifact filename", Required: true},
							&cli.StringFlag{Name: "arch", Usage: "artifact architecture", Required: true},
							&cli.StringFlag{Name: "platform", Usage: "artifact platform", Value: "linux"},
							&cli.StringFlag{Name: "platform-version", Usage: "platform version (omit for none)"},
							&cli.StringFlag{Name: "download-url", Usage: "artifact download URL", Required: true},
						},
						Action: manifestUpdate,
					},
				},
			},
			{
				Name:  "partial",
				Usage: "Generate and apply per-architecture partial manifests",
				Subcommands: []*cli.Command{
					{
						Name:  "generate",
						Usage: "Build a partial manifest from the assets of a release",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "tag", Usage: "release tag", Required: true},
							&cli.StringFlag{Name: "repository", Usage: "repository in owner/repo form", Required: true},
							&cli.StringFlag{Name: "assets-file", Usage: "JSON file with release assets; fetched from the API when unset"},
							&cli.StringFlag{Name: "token", Usage: "GitHub token for API access", EnvVars: []string{"GITHUB_TOKEN"}},
							&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write the partial manifest here instead of stdout"},
						},
						Action: partialGenerate,
					},
					{
						Name:  "apply",
						Usage: "Reconcile partial manifests into per-version manifest files",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "partials-dir", Usage: "directory holding partial manifests", Required: true},
							&cli.StringFlag{Name: "manifest-dir", Usage: "directory receiving per-version manifests", Required: true},
						},
						Action: partialApply,
					},
				},
			},
			{
				Name:  "journal",
				Usage: "Inspect the sync journal (requires --db)",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List journal entries for the selected runtime, newest first",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "version", Usage: "restrict to one version"},
							&cli.BoolFlag{Name: "all", Usage: "list every runtime"},
							&cli.StringFlag{Name: "output", Value: "text", Usage: "output format (text, json)"},
						},
						Action: journalList,
					},
					{
						Name:  "count",
						Usage: "Count journal entries with the given action",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "action", Usage: "action to count (created, added, skipped)", Required: true},
						},
						Action: journalCount,
					},
				},
			},
			{
				Name:  "resolve",
				Usage: "Resolve a requested tag against the published release tags",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tag", Usage: "requested tag", Required: true},
					&cli.StringFlag{Name: "repository", Usage: "repository in owner/repo form"},
					&cli.StringFlag{Name: "releases-file", Usage: "JSON file with release tags; fetched from the API when unset"},
					&cli.StringFlag{Name: "token", Usage: "GitHub token for API access", EnvVars: []string{"GITHUB_TOKEN"}},
					&cli.StringFlag{Name: "nuget-package", Usage: "also report whether the resolved version is on the NuGet feed"},
				},
				Action: resolveTag,
			},
		},
	}
}

func versionsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "manifest-file", Usage: "local manifest file"},
		&cli.StringFlag{Name: "manifest-url", Usage: "remote manifest URL"},
		&cli.StringFlag{Name: "filter", Usage: "version glob, e.g. '3.13.*'"},
		&cli.StringSliceFlag{Name: "type", Aliases: []string{"t"}, Usage: "release stages to include (alpha, beta, rc, stable)"},
		&cli.StringFlag{Name: "filter-file", Usage: "YAML filter file; overrides --filter and --type"},
		&cli.StringFlag{Name: "output", Value: "text", Usage: "output format (text, json)"},
	}
}

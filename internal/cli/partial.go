package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	gh "github.com/clean-dependency-project/manifestctl/internal/github"
	"github.com/clean-dependency-project/manifestctl/internal/manifest"
	"github.com/clean-dependency-project/manifestctl/internal/partial"
	"github.com/clean-dependency-project/manifestctl/internal/storage"
	"github.com/clean-dependency-project/manifestctl/internal/tags"
)

// releaseAssets returns the assets for the tag, read from
// --assets-file when given, otherwise fetched from the API.
func releaseAssets(c *cli.Context) ([]tags.Asset, string, string, error) {
	client, err := gh.NewClient(c.String("token"), c.String("repository"))
	if err != nil {
		return nil, "", "", err
	}

	if path := c.String("assets-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to read assets file %s: %w", path, err)
		}
		var assets []tags.Asset
		if err := json.Unmarshal(data, &assets); err != nil {
			return nil, "", "", fmt.Errorf("failed to parse assets file %s: %w", path, err)
		}
		return assets, client.Owner(), client.Repo(), nil
	}

	release, err := client.GetReleaseByTag(c.Context, c.String("tag"))
	if err != nil {
		return nil, "", "", err
	}
	return release.Assets, client.Owner(), client.Repo(), nil
}

func partialGenerate(c *cli.Context) error {
	stdout, stderr := NewLoggers(ParseLogLevelOrDefault(c.String("log-level")))

	assets, owner, repo, err := releaseAssets(c)
	if err != nil {
		stderr.Error("failed to load release assets", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	tag := c.String("tag")
	records, problems, err := partial.BuildRecords(tag, assets, owner, repo)
	for _, p := range problems {
		stderr.Warn("rejected release asset", "tag", tag, "problem", p)
	}
	if err != nil {
		stderr.Error("no valid entries for release", "tag", tag, "error", err)
		return cli.Exit(err.Error(), 1)
	}

	stdout.Info("built partial manifest",
		"tag", tag,
		"entries", len(records),
		"rejected", len(problems))

	if out := c.String("output"); out != "" {
		if err := partial.SaveRecords(out, records); err != nil {
			stderr.Error("failed to write partial manifest", "path", out, "error", err)
			return cli.Exit(err.Error(), 1)
		}
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func partialApply(c *cli.Context) error {
	stdout, stderr := NewLoggers(ParseLogLevelOrDefault(c.String("log-level")))

	journal, closeJournal, err := openJournal(c, stderr)
	if err != nil {
		stderr.Error("failed to open sync journal", "error", err)
		return cli.Exit(err.Error(), 1)
	}
	defer closeJournal()

	results, err := partial.Apply(c.String("partials-dir"), c.String("manifest-dir"), stdout)
	if err != nil {
		stderr.Error("failed to apply partial manifests", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	counts := make(map[manifest.Action]int)
	for _, r := range results {
		counts[r.Action]++
		if journal == nil {
			continue
		}
		rec := &storage.SyncRecord{
			Runtime:  c.String("runtime"),
			Version:  r.Version,
			Filename: r.Filename,
			Arch:     r.Arch,
			Action:   string(r.Action),
		}
		if err := journal.RecordSync(rec); err != nil {
			stderr.Warn("failed to journal partial apply", "error", err)
		}
	}

	stdout.Info("applied partial manifests",
		"total", len(results),
		"created", counts[manifest.ActionCreated],
		"added", counts[manifest.ActionAdded],
		"skipped", counts[manifest.ActionSkipped])
	return nil
}

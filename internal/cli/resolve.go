package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	gh "github.com/clean-dependency-project/manifestctl/internal/github"
	"github.com/clean-dependency-project/manifestctl/internal/nuget"
	"github.com/clean-dependency-project/manifestctl/internal/sdkversion"
	"github.com/clean-dependency-project/manifestctl/internal/tags"
)

// publishedTags returns the release tags to resolve against, read
// from --releases-file when given, otherwise fetched from the API.
func publishedTags(c *cli.Context) ([]tags.TagRecord, error) {
	if path := c.String("releases-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read releases file %s: %w", path, err)
		}
		var records []tags.TagRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse releases file %s: %w", path, err)
		}
		return records, nil
	}

	client, err := gh.NewClient(c.String("token"), c.String("repository"))
	if err != nil {
		return nil, err
	}
	return client.ListReleases(c.Context)
}

func resolveTag(c *cli.Context) error {
	stdout, stderr := NewLoggers(ParseLogLevelOrDefault(c.String("log-level")))

	records, err := publishedTags(c)
	if err != nil {
		stderr.Error("failed to load release tags", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	requested := c.String("tag")
	resolved, err := tags.Resolve(requested, records)
	if err != nil {
		stderr.Error("failed to resolve tag", "tag", requested, "error", err)
		return cli.Exit(err.Error(), 1)
	}

	stdout.Info("resolved tag",
		"requested", requested,
		"resolved", resolved,
		"exact", requested == resolved)

	if pkg := c.String("nuget-package"); pkg != "" && resolved != "" {
		client := nuget.NewClient(nuget.DefaultConfig())
		available, err := client.Versions(c.Context, pkg)
		if err != nil {
			stderr.Warn("failed to query package feed", "package", pkg, "error", err)
		} else {
			key := sdkversion.Parse(resolved)
			stdout.Info("checked package feed",
				"package", pkg,
				"version", nuget.Normalize(key),
				"published", nuget.Contains(available, key))
		}
	}

	fmt.Println(resolved)
	return nil
}

package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/clean-dependency-project/manifestctl/internal/gpg"
	"github.com/clean-dependency-project/manifestctl/internal/manifest"
	"github.com/clean-dependency-project/manifestctl/internal/storage"
	"github.com/clean-dependency-project/manifestctl/internal/version"
)

// openJournal opens the sync journal when --db is set. The returned
// close function is a no-op when journaling is disabled.
func openJournal(c *cli.Context, stderr *slog.Logger) (storage.Store, func(), error) {
	path := c.String("db")
	if path == "" {
		return nil, func() {}, nil
	}

	db, err := storage.InitDB(storage.Config{DatabasePath: path, LogLevel: "warn"})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize sync journal: %w", err)
	}
	closeFn := func() {
		if closeErr := db.Close(); closeErr != nil {
			stderr.Warn("failed to close sync journal", "error", closeErr)
		}
	}
	return db, closeFn, nil
}

func manifestFetch(c *cli.Context) error {
	stdout, stderr := NewLoggers(ParseLogLevelOrDefault(c.String("log-level")))

	url := c.String("url")
	fetcher := manifest.NewFetcher()

	body, err := fetcher.FetchRaw(c.Context, url)
	if err != nil {
		stderr.Error("failed to fetch manifest", "url", url, "error", err)
		return cli.Exit(err.Error(), 1)
	}

	if keyring := c.String("keyring"); keyring != "" {
		sigURL := c.String("signature-url")
		if sigURL == "" {
			sigURL = url + ".sig"
		}
		sig, err := fetcher.FetchRaw(c.Context, sigURL)
		if err != nil {
			stderr.Error("failed to fetch signature", "url", sigURL, "error", err)
			return cli.Exit(err.Error(), 1)
		}
		ring, err := gpg.NewKeyRingFromFile(keyring)
		if err != nil {
			stderr.Error("failed to load keyring", "path", keyring, "error", err)
			return cli.Exit(err.Error(), 1)
		}
		if err := ring.VerifyDetached(body, sig); err != nil {
			stderr.Error("manifest signature verification failed", "url", url, "error", err)
			return cli.Exit(err.Error(), 1)
		}
		stdout.Info("manifest signature verified", "url", url, "keyring", keyring)
	}

	if out := c.String("output"); out != "" {
		if err := os.WriteFile(out, body, 0o644); err != nil {
			stderr.Error("failed to write manifest", "path", out, "error", err)
			return cli.Exit(err.Error(), 1)
		}
		stdout.Info("fetched manifest", "url", url, "output", out, "bytes", len(body))
		return nil
	}
	_, err = os.Stdout.Write(body)
	return err
}

func manifestVerify(c *cli.Context) error {
	stdout, stderr := NewLoggers(ParseLogLevelOrDefault(c.String("log-level")))

	ring, err := gpg.NewKeyRingFromFile(c.String("keyring"))
	if err != nil {
		stderr.Error("failed to load keyring", "path", c.String("keyring"), "error", err)
		return cli.Exit(err.Error(), 1)
	}

	if err := gpg.VerifyDetachedFile(ring, c.String("file"), c.String("signature")); err != nil {
		stderr.Error("manifest signature verification failed",
			"file", c.String("file"),
			"signature", c.String("signature"),
			"error", err)
		return cli.Exit(err.Error(), 1)
	}

	stdout.Info("manifest signature verified",
		"file", c.String("file"),
		"signature", c.String("signature"))
	fmt.Println("ok")
	return nil
}

func manifestMerge(c *cli.Context) error {
	stdout, stderr := NewLoggers(ParseLogLevelOrDefault(c.String("log-level")))

	existing, err := manifest.Load(c.String("existing"))
	if err != nil {
		stderr.Error("failed to load existing manifest", "error", err)
		return cli.Exit(err.Error(), 1)
	}
	incoming, err := manifest.Load(c.String("incoming"))
	if err != nil {
		stderr.Error("failed to load incoming manifest", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	merged := manifest.Merge(existing, incoming)

	out := c.String("output")
	if out == "" {
		out = c.String("existing")
	}
	if err := manifest.Save(out, merged); err != nil {
		stderr.Error("failed to save merged manifest", "path", out, "error", err)
		return cli.Exit(err.Error(), 1)
	}

	stdout.Info("merged manifests",
		"existing", c.String("existing"),
		"incoming", c.String("incoming"),
		"output", out,
		"entries", len(merged))
	return nil
}

func manifestUpdate(c *cli.Context) error {
	stdout, stderr := NewLoggers(ParseLogLevelOrDefault(c.String("log-level")))

	journal, closeJournal, err := openJournal(c, stderr)
	if err != nil {
		stderr.Error("failed to open sync journal", "error", err)
		return cli.Exit(err.Error(), 1)
	}
	defer closeJournal()

	ver := c.String("version")
	var platformVersion *string
	if c.IsSet("platform-version") {
		pv := c.String("platform-version")
		platformVersion = &pv
	}

	update := manifest.Update{
		Version:         ver,
		Stable:          version.IsStable(ver),
		Filename:        c.String("filename"),
		Arch:            c.String("arch"),
		Platform:        c.String("platform"),
		PlatformVersion: platformVersion,
		DownloadURL:     c.String("download-url"),
	}

	action, err := manifest.ApplyUpdate(c.String("manifest-file"), update)
	if err != nil {
		stderr.Error("failed to update manifest", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	if journal != nil {
		rec := &storage.SyncRecord{
			Runtime:     c.String("runtime"),
			Version:     update.Version,
			Filename:    update.Filename,
			Arch:        update.Arch,
			Platform:    update.Platform,
			DownloadURL: update.DownloadURL,
			Action:      string(action),
		}
		if err := journal.RecordSync(rec); err != nil {
			stderr.Warn("failed to journal manifest update", "error", err)
		}
	}

	stdout.Info("updated manifest",
		"manifest", c.String("manifest-file"),
		"version", update.Version,
		"filename", update.Filename,
		"action", string(action))
	fmt.Println(string(action))
	return nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/clean-dependency-project/manifestctl/internal/storage"
)

func journalList(c *cli.Context) error {
	_, stderr := NewLoggers(ParseLogLevelOrDefault(c.String("log-level")))

	if c.String("db") == "" {
		return cli.Exit("--db is required for journal commands", 1)
	}
	journal, closeJournal, err := openJournal(c, stderr)
	if err != nil {
		stderr.Error("failed to open sync journal", "error", err)
		return cli.Exit(err.Error(), 1)
	}
	defer closeJournal()

	var records []*storage.SyncRecord
	switch {
	case c.Bool("all"):
		records, err = journal.ListAll()
	case c.String("version") != "":
		records, err = journal.ListByVersion(c.String("runtime"), c.String("version"))
	default:
		records, err = journal.ListByRuntime(c.String("runtime"))
	}
	if err != nil {
		stderr.Error("failed to list journal entries", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	if c.String("output") == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	fmt.Printf("%d journal entries:\n", len(records))
	for _, r := range records {
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n", r.CreatedAt.Format("2006-01-02 15:04:05"), r.Runtime, r.Version, r.Arch, r.Action)
	}
	return nil
}

func journalCount(c *cli.Context) error {
	_, stderr := NewLoggers(ParseLogLevelOrDefault(c.String("log-level")))

	if c.String("db") == "" {
		return cli.Exit("--db is required for journal commands", 1)
	}
	journal, closeJournal, err := openJournal(c, stderr)
	if err != nil {
		stderr.Error("failed to open sync journal", "error", err)
		return cli.Exit(err.Error(), 1)
	}
	defer closeJournal()

	n, err := journal.CountByAction(c.String("action"))
	if err != nil {
		stderr.Error("failed to count journal entries", "error", err)
		return cli.Exit(err.Error(), 1)
	}
	fmt.Println(n)
	return nil
}

package manifest

// Action describes what an Update did to a manifest.
type Action string

const (
	// ActionCreated means a new version entry was added.
	ActionCreated Action = "created"

	// ActionAdded means the file was appended to an existing entry.
	ActionAdded Action = "added"

	// ActionSkipped means the file was already present.
	ActionSkipped Action = "skipped"
)

// Update is a single file record to reconcile into a manifest.
type Update struct {
	Version         string
	Stable          bool
	Filename        string
	Arch            string
	Platform        string
	PlatformVersion *string
	DownloadURL     string
}

// ApplyUpdate reconciles one file record into the manifest at path.
// A missing manifest file is created. The update is idempotent: a
// file already recorded under its version is left untouched and
// reported as skipped.
func ApplyUpdate(path string, u Update) (Action, error) {
	entries, err := Load(path)
	if err != nil {
		return "", err
	}

	file := FileEntry{
		Filename:        u.Filename,
		Arch:            u.Arch,
		Platform:        u.Platform,
		PlatformVersion: u.PlatformVersion,
		DownloadURL:     u.DownloadURL,
	}

	action := ActionCreated
	found := false
	for i := range entries {
		if entries[i].Version != u.Version {
			continue
		}
		found = true
		action = ActionAdded
		for _, f := range entries[i].Files {
			if f.Filename == u.Filename {
				return ActionSkipped, nil
			}
		}
		entries[i].Files = append(entries[i].Files, file)
		break
	}

	if !found {
		entries = append(entries, Entry{
			Version:    u.Version,
			Stable:     u.Stable,
			ReleaseURL: releaseURLFromDownload(u.DownloadURL),
			Files:      []FileEntry{file},
		})
	}

	if err := Save(path, entries); err != nil {
		return "", err
	}
	return action, nil
}

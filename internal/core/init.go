package core

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kvassbo/mnemo/internal/config"
	"github.com/kvassbo/mnemo/internal/models"
	"github.com/kvassbo/mnemo/internal/objectstore"
	"github.com/kvassbo/mnemo/internal/store"
)

const defaultIgnore = `# Paths excluded from mnemo tracking.
.git/
.mnemo/
__pycache__/
node_modules/
vendor/
*.pyc
*.o
*.so
*.exe
.DS_Store
`

// InitResult describes a freshly initialized project.
type InitResult struct {
	Config       *config.Config
	RootCommit   *models.Commit
	TrackedCount int
}

// Init creates the memory store under projectPath: config, state database,
// object store, default ignore file, and a root commit on the default branch
// covering every non-ignored project file.
func Init(projectPath string) (*InitResult, error) {
	cfg, err := config.Initialize(projectPath)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.IgnorePath()); os.IsNotExist(err) {
		if err := os.WriteFile(cfg.IgnorePath(), []byte(defaultIgnore), 0644); err != nil {
			return nil, fmt.Errorf("write ignore file: %w", err)
		}
	}

	obj, err := objectstore.InitGitStore(cfg.ObjectsPath())
	if err != nil {
		return nil, err
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if err := st.Initialize(); err != nil {
		return nil, err
	}

	r, err := newResolver(cfg, obj)
	if err != nil {
		return nil, err
	}
	files, err := r.Expand([]string{"."})
	if err != nil {
		return nil, err
	}

	entries := make([]objectstore.Entry, 0, len(files))
	for _, rel := range files {
		entries = append(entries, objectstore.Entry{Path: rel, File: r.Abs(rel)})
	}

	meta := objectstore.Metadata{
		Operation: models.OpTrack,
		Message:   "Track project files",
		Files:     files,
		Session:   uuid.NewString(),
		ByUser:    true,
		Timestamp: time.Now(),
	}
	rootID, err := obj.CreateCommit(entries, meta, "")
	if err != nil {
		return nil, err
	}

	branch := &models.Branch{
		Name:      cfg.DefaultBranch,
		CommitID:  rootID,
		CreatedAt: time.Now(),
	}
	if err := st.SwitchTo(branch); err != nil {
		return nil, err
	}
	if err := st.AddTracked(files); err != nil {
		return nil, err
	}
	_ = obj.CreateBranch(cfg.DefaultBranch, rootID)

	return &InitResult{
		Config:       cfg,
		RootCommit:   commitModel(rootID, "", cfg.DefaultBranch, &meta),
		TrackedCount: len(files),
	}, nil
}

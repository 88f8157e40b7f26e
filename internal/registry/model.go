package registry

import (
	"strings"
	"time"
)

// Project is the persisted record of one generation run: which files were
// produced and where the tree lives on disk.
type Project struct {
	ID          string    `json:"id"`
	Pages       []string  `json:"pages"`
	Components  []string  `json:"components"`
	Configs     []string  `json:"configs"`
	Assets      []string  `json:"assets"`
	Timestamp   time.Time `json:"timestamp"`
	ProjectPath string    `json:"projectPath"`
	DeployPath  string    `json:"deployPath,omitempty"`
}

// normalizeProject trims the id and replaces nil slices so records always
// serialize with arrays, never null.
func normalizeProject(p Project) Project {
	p.ID = strings.TrimSpace(p.ID)
	p.ProjectPath = strings.TrimSpace(p.ProjectPath)
	p.DeployPath = strings.TrimSpace(p.DeployPath)
	if p.Pages == nil {
		p.Pages = []string{}
	}
	if p.Components == nil {
		p.Components = []string{}
	}
	if p.Configs == nil {
		p.Configs = []string{}
	}
	if p.Assets == nil {
		p.Assets = []string{}
	}
	return p
}

type rowScanner interface {
	Scan(dest ...any) error
}

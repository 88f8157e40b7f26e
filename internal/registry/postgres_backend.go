package registry

import (
	"encoding/json"
	"strings"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS website_projects (
  id TEXT PRIMARY KEY,
  pages JSONB NOT NULL DEFAULT '[]',
  components JSONB NOT NULL DEFAULT '[]',
  configs JSONB NOT NULL DEFAULT '[]',
  assets JSONB NOT NULL DEFAULT '[]',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  project_path TEXT NOT NULL DEFAULT '',
  deploy_path TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_website_projects_created_at ON website_projects (created_at DESC);
`)
	})
	return s.schemaErr
}

func scanProjectDB(row rowScanner) (Project, bool) {
	var (
		p          Project
		pages      []byte
		components []byte
		configs    []byte
		assets     []byte
	)
	err := row.Scan(&p.ID, &pages, &components, &configs, &assets, &p.Timestamp, &p.ProjectPath, &p.DeployPath)
	if err != nil {
		return Project{}, false
	}
	_ = json.Unmarshal(pages, &p.Pages)
	_ = json.Unmarshal(components, &p.Components)
	_ = json.Unmarshal(configs, &p.Configs)
	_ = json.Unmarshal(assets, &p.Assets)
	return normalizeProject(p), true
}

func marshalList(items []string) []byte {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return []byte("[]")
	}
	return b
}

func (s *Store) getDB(projectID string) (Project, bool) {
	if err := s.ensureSchema(); err != nil {
		return Project{}, false
	}
	id := strings.TrimSpace(projectID)
	if id == "" {
		return Project{}, false
	}
	row := s.db.QueryRow(`SELECT id, pages, components, configs, assets, created_at, project_path, deploy_path
FROM website_projects WHERE id = $1`, id)
	return scanProjectDB(row)
}

func (s *Store) putDB(p Project) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizeProject(p)
	if n.ID == "" {
		return
	}
	_, _ = s.db.Exec(`
INSERT INTO website_projects (
  id, pages, components, configs, assets, created_at, project_path, deploy_path
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id)
DO UPDATE SET pages=EXCLUDED.pages,
  components=EXCLUDED.components,
  configs=EXCLUDED.configs,
  assets=EXCLUDED.assets,
  created_at=EXCLUDED.created_at,
  project_path=EXCLUDED.project_path,
  deploy_path=EXCLUDED.deploy_path`,
		n.ID, marshalList(n.Pages), marshalList(n.Components), marshalList(n.Configs), marshalList(n.Assets),
		n.Timestamp, n.ProjectPath, n.DeployPath)
}

func (s *Store) deleteDB(projectID string) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	id := strings.TrimSpace(projectID)
	if id == "" {
		return
	}
	_, _ = s.db.Exec(`DELETE FROM website_projects WHERE id = $1`, id)
}

func (s *Store) listDB() []Project {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	rows, err := s.db.Query(`SELECT id, pages, components, configs, assets, created_at, project_path, deploy_path
FROM website_projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := make([]Project, 0, 32)
	for rows.Next() {
		if p, ok := scanProjectDB(rows); ok {
			out = append(out, p)
		}
	}
	return out
}

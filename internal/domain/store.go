package domain

// Store persists projects and render history (BoltDB + memory).
type Store interface {
	// === Projects ===
	GetProject(name string) (*Project, bool)
	SaveProject(p *Project) error
	ListProjects() ([]*Project, error)
	DeleteProject(name string) error

	// === Render history ===
	SaveRender(rec RenderRecord) error
	ListRenders(project string) ([]RenderRecord, error)

	Close() error
}

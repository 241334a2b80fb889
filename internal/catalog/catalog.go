package catalog

// Entry is one playable chart discovered on disk.
type Entry struct {
	Sum   string
	Path  string
	Title string

	Tempo    float64
	Measures int
}

type Cataloger interface {
	Init() error
	Deinit()

	// Scan walks dir and records every chart it can parse.
	Scan(dir string) error

	// List returns every known chart, most recently seen first.
	List() ([]Entry, error)
}

package templater

import "path/filepath"

// Paths maps template names to their on-disk locations under the data
// root. The metadata database and the archive artifacts live side by
// side so one directory holds the whole template library.
type Paths struct {
	Root string
}

// Database returns the metadata database path.
func (p Paths) Database() string {
	return filepath.Join(p.Root, "metadata.db")
}

// ArchivesDir returns the directory holding archive artifacts.
func (p Paths) ArchivesDir() string {
	return filepath.Join(p.Root, "archives")
}

// Archive returns the artifact path for a template name.
func (p Paths) Archive(name string) string {
	return filepath.Join(p.ArchivesDir(), name+".tar.gz")
}

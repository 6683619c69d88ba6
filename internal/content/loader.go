package content

import (
	"os"

	"github.com/pkg/errors"
)

// LoadGraph reads, validates and indexes a catalog file. Any failure here is
// a content-authoring problem and aborts startup.
func LoadGraph(path string) (*Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", path)
	}
	catalog, err := ParseCatalog(raw)
	if err != nil {
		return nil, err
	}
	return NewGraph(catalog)
}

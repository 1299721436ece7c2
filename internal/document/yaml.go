package document

import (
	"io"

	"gopkg.in/yaml.v3"
)

// EncodeYAML writes s as a readable YAML snapshot.
func EncodeYAML(w io.Writer, s Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

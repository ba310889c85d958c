package hull

import (
	"io"

	"gopkg.in/yaml.v3"
)

type manifest struct {
	BuildID    string              `yaml:"build_id"`
	Components []manifestComponent `yaml:"components"`
}

type manifestComponent struct {
	Order          int      `yaml:"order"`
	Type           string   `yaml:"type"`
	Name           string   `yaml:"name"`
	Keys           []string `yaml:"keys,omitempty"`
	Dependencies   []string `yaml:"dependencies,omitempty"`
	External       bool     `yaml:"external,omitempty"`
	AutoRegistered bool     `yaml:"auto_registered,omitempty"`
}

// WriteManifest writes the container's components as YAML, in construction
// order, with the keys they resolve under and the dependencies they were
// built from.
//
//	build_id: 2f1c...
//	components:
//	  - order: 0
//	    type: '*app.Config'
//	    name: github.com/acme/app.Config
//	    keys:
//	      - '*app.Config'
//	    external: true
func (c *Container) WriteManifest(w io.Writer) error {
	m := manifest{
		BuildID:    c.id,
		Components: make([]manifestComponent, len(c.components)),
	}

	for i, info := range c.components {
		m.Components[i] = manifestComponent{
			Order:          info.Order,
			Type:           DescribeType(info.Type),
			Name:           info.Name,
			Keys:           describeAll(info.Keys),
			Dependencies:   describeAll(info.Dependencies),
			External:       info.External,
			AutoRegistered: info.AutoRegistered,
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(m); err != nil {
		return err
	}

	return enc.Close()
}

package scene

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/shader"
)

// Material is an in-memory material. A nil Graph is a material without
// nodes.
type Material struct {
	MatID   string
	MatName string
	Kind    string
	Blend   string
	Graph   *Tree
}

// NewMaterial creates a material with an empty node tree.
func NewMaterial(name string) *Material {
	return &Material{
		MatID:   uuid.NewString(),
		MatName: name,
		Blend:   host.BlendOpaque,
		Graph:   &Tree{},
	}
}

func (m *Material) ID() string               { return m.MatID }
func (m *Material) Name() string             { return m.MatName }
func (m *Material) SetName(name string)      { m.MatName = name }
func (m *Material) Family() string           { return m.Kind }
func (m *Material) BlendMode() string        { return m.Blend }
func (m *Material) SetBlendMode(mode string) { m.Blend = mode }

func (m *Material) Tree() shader.Tree {
	if m.Graph == nil {
		return nil
	}
	return m.Graph
}

// Copy deep copies the material and its node tree under a new id. Images
// are shared with the source material.
func (m *Material) Copy() (*Material, error) {
	c := &Material{}
	if err := copier.CopyWithOption(c, m, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("scene: copy material %s: %w", m.MatName, err)
	}
	c.MatID = uuid.NewString()
	if m.Graph != nil && c.Graph != nil {
		for i, n := range m.Graph.NodeList {
			if i < len(c.Graph.NodeList) {
				c.Graph.NodeList[i].Img = n.Img
			}
		}
	}
	return c, nil
}

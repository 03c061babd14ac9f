package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/logger"
	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

// Document is the on-disk form of a Scene.
type Document struct {
	// Textures is a directory searched by file stem when an image path
	// does not exist.
	Textures  string        `yaml:"textures,omitempty"`
	Materials []DocMaterial `yaml:"materials"`
	Objects   []DocObject   `yaml:"objects"`
	State     DocState      `yaml:"state"`
}

type DocMaterial struct {
	ID     string    `yaml:"id"`
	Name   string    `yaml:"name"`
	Family string    `yaml:"family,omitempty"`
	Blend  string    `yaml:"blend,omitempty"`
	Empty  bool      `yaml:"no_nodes,omitempty"`
	Nodes  []DocNode `yaml:"nodes,omitempty"`
	Links  []DocLink `yaml:"links,omitempty"`
}

type DocNode struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name,omitempty"`
	Kind     shader.Kind       `yaml:"kind"`
	Tag      targets.Map       `yaml:"tag,omitempty"`
	Image    string            `yaml:"image,omitempty"`
	Inputs   map[string]any    `yaml:"inputs,omitempty"`
	Outputs  []string          `yaml:"outputs,omitempty"`
	Props    map[string]string `yaml:"props,omitempty"`
	Location []float32         `yaml:"location,flow,omitempty"`
}

type DocLink struct {
	From       string `yaml:"from"`
	FromSocket string `yaml:"from_socket"`
	To         string `yaml:"to"`
	ToSocket   string `yaml:"to_socket"`
}

type DocObject struct {
	Name      string      `yaml:"name"`
	Kind      string      `yaml:"kind"`
	Selected  bool        `yaml:"selected,omitempty"`
	Materials []string    `yaml:"materials,omitempty"`
	Children  []DocObject `yaml:"children,omitempty"`
}

type DocState struct {
	AutoIncrement int           `yaml:"auto_increment"`
	Cache         []DocEntry    `yaml:"cache,omitempty"`
	Settings      []DocSettings `yaml:"material_settings,omitempty"`
}

type DocEntry struct {
	UID    int    `yaml:"uid"`
	Source string `yaml:"source"`
	Baked  string `yaml:"baked"`
}

type DocSettings struct {
	Material string                  `yaml:"material"`
	Sizes    map[targets.SizeKey]int `yaml:"sizes"`
}

// Load reads a scene document. Images referenced by nodes are decoded into
// the scene's image library; missing images are logged and left empty.
func Load(path string, log *logger.Logger) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		dir = filepath.Dir(path)
	}
	s := New(dir, log)
	if err := s.fromDocument(doc); err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	return s, nil
}

// Save writes the scene document to path.
func (s *Scene) Save(path string) error {
	data, err := yaml.Marshal(s.Document())
	if err != nil {
		return fmt.Errorf("scene: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("scene: write %s: %w", path, err)
	}
	return nil
}

func (s *Scene) fromDocument(doc Document) error {
	var idx *texture.Index
	s.Textures = doc.Textures
	if doc.Textures != "" {
		idx = texture.BuildIndex(s.abs(doc.Textures))
		s.log.Debug("texture index built", "dir", doc.Textures, "textures", idx.Len())
	}

	for _, dm := range doc.Materials {
		m := &Material{MatID: dm.ID, MatName: dm.Name, Kind: dm.Family, Blend: dm.Blend}
		if m.Blend == "" {
			m.Blend = host.BlendOpaque
		}
		if !dm.Empty {
			t, err := s.treeFromDoc(dm, idx)
			if err != nil {
				return err
			}
			m.Graph = t
		}
		s.Mats = append(s.Mats, m)
	}

	var objects func(docs []DocObject) ([]*Object, error)
	objects = func(docs []DocObject) ([]*Object, error) {
		var out []*Object
		for _, do := range docs {
			o := &Object{ObjName: do.Name, Type: hostKind(do.Kind), Selected: do.Selected}
			for _, id := range do.Materials {
				var mat *Material
				if id != "" {
					if mat = s.Material(id); mat == nil {
						return nil, fmt.Errorf("object %s: unknown material %s", do.Name, id)
					}
				}
				o.Slots = append(o.Slots, mat)
			}
			kids, err := objects(do.Children)
			if err != nil {
				return nil, err
			}
			o.Kids = kids
			out = append(out, o)
		}
		return out, nil
	}
	objs, err := objects(doc.Objects)
	if err != nil {
		return err
	}
	s.Objs = objs

	s.State.SetAutoIncrement(doc.State.AutoIncrement)
	for _, e := range doc.State.Cache {
		src, baked := s.Material(e.Source), s.Material(e.Baked)
		if src == nil || baked == nil {
			s.log.Warn("dropping bake cache entry with missing material", "uid", e.UID)
			continue
		}
		s.State.Put(e.UID, src, baked)
	}
	for _, ms := range doc.State.Settings {
		m := s.Material(ms.Material)
		if m == nil {
			s.log.Warn("dropping settings for missing material", "material", ms.Material)
			continue
		}
		s.State.AddSettings(m, ms.Sizes)
	}
	return nil
}

func (s *Scene) treeFromDoc(dm DocMaterial, idx *texture.Index) (*Tree, error) {
	t := &Tree{}
	for _, dn := range dm.Nodes {
		if dn.ID == "" {
			return nil, fmt.Errorf("material %s: node without id", dm.Name)
		}
		n := NewNode(dn.ID, dn.Kind)
		if dn.Name != "" {
			n.NodeName = dn.Name
		}
		n.MapTag = dn.Tag
		for k, v := range dn.Props {
			n.Props[k] = v
		}
		for _, o := range dn.Outputs {
			n.DeclareOutput(o)
		}
		for socket, v := range dn.Inputs {
			sock, err := socketFromDoc(v, n.Inputs[socket], n.HasInput(socket))
			if err != nil {
				return nil, fmt.Errorf("material %s: node %s input %s: %w", dm.Name, n.NodeName, socket, err)
			}
			n.Inputs[socket] = sock
		}
		if len(dn.Location) == 2 {
			n.Loc = mgl32.Vec2{dn.Location[0], dn.Location[1]}
		}
		if dn.Image != "" {
			n.Img = s.loadImage(dn.Image, idx)
		}
		t.Add(n)
	}
	for _, dl := range dm.Links {
		from, to := t.Node(dl.From), t.Node(dl.To)
		if from == nil || to == nil {
			return nil, fmt.Errorf("material %s: link %s -> %s: unknown node", dm.Name, dl.From, dl.To)
		}
		if err := t.Link(from, dl.FromSocket, to, dl.ToSocket); err != nil {
			return nil, fmt.Errorf("material %s: %w", dm.Name, err)
		}
	}
	return t, nil
}

func (s *Scene) loadImage(ref string, idx *texture.Index) texture.Image {
	path := s.abs(ref)
	if _, err := os.Stat(path); err != nil && idx != nil {
		if found, ok := idx.ResolvePath(ref); ok {
			path = found
		}
	}
	img, err := s.Images.Load(path)
	if err != nil {
		s.log.Warn("image not loaded", "image", ref, "error", err)
		return nil
	}
	return img
}

func (s *Scene) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Dir, p)
}

func (s *Scene) rel(p string) string {
	if r, err := filepath.Rel(s.Dir, p); err == nil && filepath.IsLocal(r) {
		return filepath.ToSlash(r)
	}
	return p
}

// Document converts the scene to its on-disk form.
func (s *Scene) Document() Document {
	doc := Document{Textures: s.Textures}
	for _, m := range s.Mats {
		dm := DocMaterial{ID: m.MatID, Name: m.MatName, Family: m.Kind, Blend: m.Blend, Empty: m.Graph == nil}
		if m.Graph != nil {
			for _, n := range m.Graph.NodeList {
				dm.Nodes = append(dm.Nodes, s.nodeToDoc(n))
			}
			for _, l := range m.Graph.Links {
				dm.Links = append(dm.Links, DocLink(l))
			}
		}
		doc.Materials = append(doc.Materials, dm)
	}

	var objects func(objs []*Object) []DocObject
	objects = func(objs []*Object) []DocObject {
		var out []DocObject
		for _, o := range objs {
			do := DocObject{Name: o.ObjName, Kind: string(o.Type), Selected: o.Selected}
			for _, m := range o.Slots {
				id := ""
				if m != nil {
					id = m.MatID
				}
				do.Materials = append(do.Materials, id)
			}
			do.Children = objects(o.Kids)
			out = append(out, do)
		}
		return out
	}
	doc.Objects = objects(s.Objs)

	doc.State.AutoIncrement = s.State.AutoIncrement()
	for _, e := range s.State.Entries() {
		doc.State.Cache = append(doc.State.Cache, DocEntry{UID: e.UID, Source: e.Source.ID(), Baked: e.Baked.ID()})
	}
	for _, ms := range s.State.AllSettings() {
		doc.State.Settings = append(doc.State.Settings, DocSettings{Material: ms.Material.ID(), Sizes: ms.Sizes})
	}
	return doc
}

func (s *Scene) nodeToDoc(n *Node) DocNode {
	dn := DocNode{ID: n.NodeID, Kind: n.Type, Tag: n.MapTag}
	if n.NodeName != string(n.Type) {
		dn.Name = n.NodeName
	}
	if n.Img != nil && n.Img.Path() != "" {
		dn.Image = s.rel(n.Img.Path())
	}
	if len(n.Props) > 0 {
		dn.Props = n.Props
	}
	if n.Type == shader.Group {
		dn.Outputs = n.Outputs
	}
	defaults := schema[n.Type].inputs
	for socket, sock := range n.Inputs {
		if def, ok := defaults[socket]; ok && def == sock {
			continue
		}
		v, ok := socketToDoc(sock)
		if !ok {
			continue
		}
		if dn.Inputs == nil {
			dn.Inputs = make(map[string]any)
		}
		dn.Inputs[socket] = v
	}
	if n.Loc != (mgl32.Vec2{}) {
		dn.Location = []float32{n.Loc[0], n.Loc[1]}
	}
	return dn
}

func socketToDoc(s Socket) (any, bool) {
	switch s.Type {
	case FloatSocket:
		return s.V[0], true
	case VectorSocket:
		return []float32{s.V[0], s.V[1], s.V[2]}, true
	case ColorSocket:
		return []float32{s.V[0], s.V[1], s.V[2], s.V[3]}, true
	}
	return nil, false
}

// socketFromDoc converts a decoded YAML value. Known sockets keep their
// type; undeclared group sockets take the type of the value.
func socketFromDoc(v any, existing Socket, known bool) (Socket, error) {
	nums, err := numbers(v)
	if err != nil {
		return Socket{}, err
	}
	if !known {
		switch len(nums) {
		case 0:
			return FloatValue(0), nil
		case 1:
			return FloatValue(nums[0]), nil
		case 3:
			return VectorValue(nums[0], nums[1], nums[2]), nil
		case 4:
			return ColorValue(nums[0], nums[1], nums[2], nums[3]), nil
		}
		return Socket{}, fmt.Errorf("cannot infer socket type from %d values", len(nums))
	}

	s := existing
	switch {
	case s.Type == FloatSocket && len(nums) == 1:
		s.V[0] = nums[0]
	case s.Type == VectorSocket && len(nums) == 3:
		s.V = mgl32.Vec4{nums[0], nums[1], nums[2], 0}
	case s.Type == ColorSocket && len(nums) == 3:
		s.V = mgl32.Vec4{nums[0], nums[1], nums[2], 1}
	case s.Type == ColorSocket && len(nums) == 4:
		s.V = mgl32.Vec4{nums[0], nums[1], nums[2], nums[3]}
	default:
		return Socket{}, fmt.Errorf("%d values do not fit a %s socket", len(nums), s.Type)
	}
	return s, nil
}

func numbers(v any) ([]float32, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case int:
		return []float32{float32(t)}, nil
	case float64:
		return []float32{float32(t)}, nil
	case []any:
		out := make([]float32, len(t))
		for i, e := range t {
			switch n := e.(type) {
			case int:
				out[i] = float32(n)
			case float64:
				out[i] = float32(n)
			default:
				return nil, fmt.Errorf("non-numeric value %v", e)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value %v", v)
}

func hostKind(k string) host.ObjectKind {
	if host.ObjectKind(k) == host.Armature {
		return host.Armature
	}
	return host.Mesh
}

package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"cc3-texbaker/internal/shader"
	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

// SocketType is the value type of an input socket.
type SocketType string

const (
	FloatSocket  SocketType = "float"
	VectorSocket SocketType = "vector"
	ColorSocket  SocketType = "color"
	ShaderSocket SocketType = "shader"
)

// Socket is an input socket with its unlinked default value. Floats use
// V[0]; vectors use V[0:3].
type Socket struct {
	Type SocketType
	V    mgl32.Vec4
}

// Value returns the default as float32, mgl32.Vec3 or mgl32.Vec4. Shader
// sockets have no value.
func (s Socket) Value() (any, bool) {
	switch s.Type {
	case FloatSocket:
		return s.V[0], true
	case VectorSocket:
		return s.V.Vec3(), true
	case ColorSocket:
		return s.V, true
	}
	return nil, false
}

// set converts v to the socket type.
func (s *Socket) set(v any) bool {
	switch s.Type {
	case FloatSocket:
		switch t := v.(type) {
		case float32:
			s.V[0] = t
		case float64:
			s.V[0] = float32(t)
		case int:
			s.V[0] = float32(t)
		default:
			return false
		}
	case VectorSocket:
		switch t := v.(type) {
		case mgl32.Vec3:
			s.V = t.Vec4(0)
		case mgl32.Vec4:
			s.V = mgl32.Vec4{t[0], t[1], t[2], 0}
		default:
			return false
		}
	case ColorSocket:
		switch t := v.(type) {
		case mgl32.Vec4:
			s.V = t
		case mgl32.Vec3:
			s.V = t.Vec4(1)
		default:
			return false
		}
	default:
		return false
	}
	return true
}

// FloatValue, VectorValue and ColorValue build sockets with a default.
func FloatValue(v float32) Socket { return Socket{Type: FloatSocket, V: mgl32.Vec4{v}} }

func VectorValue(x, y, z float32) Socket {
	return Socket{Type: VectorSocket, V: mgl32.Vec4{x, y, z, 0}}
}

func ColorValue(r, g, b, a float32) Socket {
	return Socket{Type: ColorSocket, V: mgl32.Vec4{r, g, b, a}}
}

type nodeSchema struct {
	inputs  map[string]Socket
	outputs []string
}

// schema lists the sockets of every built-in node kind. Group nodes declare
// their own sockets.
var schema = map[shader.Kind]nodeSchema{
	shader.Principled: {
		inputs: map[string]Socket{
			"Base Color":        ColorValue(0.8, 0.8, 0.8, 1),
			"Subsurface":        FloatValue(0),
			"Subsurface Radius": VectorValue(1, 0.2, 0.1),
			"Subsurface Color":  ColorValue(0.8, 0.8, 0.8, 1),
			"Metallic":          FloatValue(0),
			"Specular":          FloatValue(0.5),
			"Roughness":         FloatValue(0.5),
			"Emission":          ColorValue(0, 0, 0, 1),
			"Alpha":             FloatValue(1),
			"Transmission":      FloatValue(0),
			"Normal":            VectorValue(0, 0, 0),
		},
		outputs: []string{"BSDF"},
	},
	shader.Output: {
		inputs:  map[string]Socket{"Surface": {Type: ShaderSocket}},
		outputs: nil,
	},
	shader.TexImage: {
		inputs:  map[string]Socket{"Vector": VectorValue(0, 0, 0)},
		outputs: []string{"Color", "Alpha"},
	},
	shader.MixRGB: {
		inputs: map[string]Socket{
			"Fac":    FloatValue(0.5),
			"Color1": ColorValue(0.5, 0.5, 0.5, 1),
			"Color2": ColorValue(0.5, 0.5, 0.5, 1),
		},
		outputs: []string{"Color"},
	},
	shader.Bump: {
		inputs: map[string]Socket{
			"Strength": FloatValue(1),
			"Distance": FloatValue(1),
			"Height":   FloatValue(1),
			"Normal":   VectorValue(0, 0, 0),
		},
		outputs: []string{"Normal"},
	},
	shader.NormalMap: {
		inputs: map[string]Socket{
			"Strength": FloatValue(1),
			"Color":    ColorValue(0.5, 0.5, 1, 1),
		},
		outputs: []string{"Normal"},
	},
	shader.Math: {
		inputs:  map[string]Socket{"A": FloatValue(0.5), "B": FloatValue(0.5)},
		outputs: []string{"Value"},
	},
	shader.Value: {
		inputs:  map[string]Socket{"Value": FloatValue(0.5)},
		outputs: []string{"Value"},
	},
	shader.RGB: {
		inputs:  map[string]Socket{"Color": ColorValue(0.5, 0.5, 0.5, 1)},
		outputs: []string{"Color"},
	},
	shader.Mapping: {
		inputs: map[string]Socket{
			"Vector":   VectorValue(0, 0, 0),
			"Location": VectorValue(0, 0, 0),
			"Rotation": VectorValue(0, 0, 0),
			"Scale":    VectorValue(1, 1, 1),
		},
		outputs: []string{"Vector"},
	},
	shader.TexCoord: {
		outputs: []string{"UV", "Generated"},
	},
	shader.Group: {},
}

// Node is an in-memory shader node. Fields are exported for deep copying.
type Node struct {
	NodeID   string
	NodeName string
	Type     shader.Kind
	MapTag   targets.Map
	Inputs   map[string]Socket
	Outputs  []string
	Props    map[string]string
	Img      texture.Image `copier:"-"`
	Loc      mgl32.Vec2
}

// NewNode creates a node with the default sockets of its kind.
func NewNode(id string, kind shader.Kind) *Node {
	n := &Node{
		NodeID:   id,
		NodeName: string(kind),
		Type:     kind,
		Inputs:   make(map[string]Socket),
		Props:    make(map[string]string),
	}
	s := schema[kind]
	for k, v := range s.inputs {
		n.Inputs[k] = v
	}
	n.Outputs = append([]string(nil), s.outputs...)
	return n
}

func (n *Node) ID() string               { return n.NodeID }
func (n *Node) Name() string             { return n.NodeName }
func (n *Node) SetName(name string)      { n.NodeName = name }
func (n *Node) Kind() shader.Kind        { return n.Type }
func (n *Node) Tag() targets.Map         { return n.MapTag }
func (n *Node) SetTag(m targets.Map)     { n.MapTag = m }
func (n *Node) Image() texture.Image     { return n.Img }
func (n *Node) SetImage(i texture.Image) { n.Img = i }
func (n *Node) Location() mgl32.Vec2     { return n.Loc }
func (n *Node) SetLocation(l mgl32.Vec2) { n.Loc = l }

func (n *Node) Input(socket string) (any, bool) {
	s, ok := n.Inputs[socket]
	if !ok {
		return nil, false
	}
	return s.Value()
}

func (n *Node) SetInput(socket string, v any) bool {
	s, ok := n.Inputs[socket]
	if !ok || !s.set(v) {
		return false
	}
	n.Inputs[socket] = s
	return true
}

func (n *Node) HasInput(socket string) bool {
	_, ok := n.Inputs[socket]
	return ok
}

func (n *Node) InputSockets() []string {
	names := make([]string, 0, len(n.Inputs))
	for k := range n.Inputs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (n *Node) HasOutput(socket string) bool {
	for _, o := range n.Outputs {
		if o == socket {
			return true
		}
	}
	return false
}

func (n *Node) Property(key string) string { return n.Props[key] }

func (n *Node) SetProperty(key, value string) {
	if n.Props == nil {
		n.Props = make(map[string]string)
	}
	n.Props[key] = value
}

// DeclareInput adds an input socket. Used for group nodes.
func (n *Node) DeclareInput(socket string, s Socket) {
	n.Inputs[socket] = s
}

// DeclareOutput adds an output socket. Used for group nodes.
func (n *Node) DeclareOutput(socket string) {
	if !n.HasOutput(socket) {
		n.Outputs = append(n.Outputs, socket)
	}
}

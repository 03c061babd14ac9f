package shader

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"cc3-texbaker/internal/logger"
	"cc3-texbaker/internal/targets"
	"cc3-texbaker/internal/texture"
)

// Graph wraps a Tree with lookups and mutations that tolerate missing nodes
// and sockets. Failed mutations are logged and skipped.
type Graph struct {
	Tree Tree
	log  *logger.Logger
}

// NewGraph wraps t. A nil logger discards messages.
func NewGraph(t Tree, log *logger.Logger) *Graph {
	return &Graph{Tree: t, log: logger.OrNop(log)}
}

func (g *Graph) nodes() []Node {
	if g == nil || g.Tree == nil {
		return nil
	}
	return g.Tree.Nodes()
}

// Principled returns the first principled BSDF node.
func (g *Graph) Principled() Node { return g.ByKind(Principled) }

// Output returns the first material output node.
func (g *Graph) Output() Node { return g.ByKind(Output) }

// ByKind returns the first node of the given kind.
func (g *Graph) ByKind(kind Kind) Node {
	for _, n := range g.nodes() {
		if n.Kind() == kind {
			return n
		}
	}
	return nil
}

// ByKeywords returns the first node whose name contains every keyword.
func (g *Graph) ByKeywords(keywords ...string) Node {
	for _, n := range g.nodes() {
		if HasKeywords(n, keywords...) {
			return n
		}
	}
	return nil
}

// ByID returns the first node named with the given texture id.
func (g *Graph) ByID(id string) Node {
	return g.ByKeywords(IDPrefix + id)
}

// ByTag returns the generated bake node holding map m.
func (g *Graph) ByTag(m targets.Map) Node {
	for _, n := range g.nodes() {
		if n.Tag() == m {
			return n
		}
	}
	return nil
}

// Tagged returns every generated bake node.
func (g *Graph) Tagged() []Node {
	var out []Node
	for _, n := range g.nodes() {
		if n.Tag() != "" {
			out = append(out, n)
		}
	}
	return out
}

// ImageNode finds an image node by name and/or image file path substring.
// An empty search term is ignored; both empty never matches.
func (g *Graph) ImageNode(name, file string) Node {
	if name == "" && file == "" {
		return nil
	}
	for _, n := range g.nodes() {
		if n.Kind() != TexImage {
			continue
		}
		if name != "" && !strings.Contains(n.Name(), name) {
			continue
		}
		if file != "" {
			img := n.Image()
			if img == nil || !strings.Contains(img.Path(), file) {
				continue
			}
		}
		return n
	}
	return nil
}

// Source returns the node and output socket linked into an input, or nil.
func (g *Graph) Source(to Node, socket string) (Node, string) {
	if g == nil || g.Tree == nil || to == nil {
		return nil, ""
	}
	n, s, ok := g.Tree.Source(to, socket)
	if !ok {
		return nil, ""
	}
	return n, s
}

// SourceNode returns the node linked into an input, or nil.
func (g *Graph) SourceNode(to Node, socket string) Node {
	n, _ := g.Source(to, socket)
	return n
}

// Get reads an input default, returning def when the node or socket is
// missing.
func (g *Graph) Get(n Node, socket string, def any) any {
	if n == nil {
		return def
	}
	v, ok := n.Input(socket)
	if !ok {
		return def
	}
	return v
}

// Set writes an input default.
func (g *Graph) Set(n Node, socket string, v any) {
	if n == nil {
		return
	}
	if !n.SetInput(socket, v) {
		g.log.Info("unable to set input", "node", n.Name(), "socket", socket)
	}
}

// Link connects two sockets. Nil nodes are skipped silently; socket errors
// are logged.
func (g *Graph) Link(from Node, fromSocket string, to Node, toSocket string) {
	if g == nil || g.Tree == nil || from == nil || to == nil {
		return
	}
	if err := g.Tree.Link(from, fromSocket, to, toSocket); err != nil {
		g.log.Info("unable to link",
			"from", from.Name(), "from_socket", fromSocket,
			"to", to.Name(), "to_socket", toSocket, "error", err)
	}
}

// Unlink removes every link into an input socket.
func (g *Graph) Unlink(to Node, socket string) {
	if g == nil || g.Tree == nil || to == nil {
		return
	}
	if err := g.Tree.Unlink(to, socket); err != nil {
		g.log.Info("unable to remove links", "node", to.Name(), "socket", socket, "error", err)
	}
}

// NewNode adds a node of the given kind.
func (g *Graph) NewNode(kind Kind) Node {
	return g.Tree.NewNode(kind)
}

// NewMix adds a color mix node with the given blend type.
func (g *Graph) NewMix(blend string) Node {
	n := g.Tree.NewNode(MixRGB)
	n.SetProperty(PropBlendType, blend)
	return n
}

// NewImage adds an image node showing img. A nil image adds nothing.
func (g *Graph) NewImage(img texture.Image) Node {
	if img == nil {
		return nil
	}
	n := g.Tree.NewNode(TexImage)
	n.SetImage(img)
	return n
}

// Position moves n, if present.
func Position(n Node, x, y float32) {
	if n != nil {
		n.SetLocation(mgl32.Vec2{x, y})
	}
}

// HasKeywords reports whether n's name contains every keyword.
func HasKeywords(n Node, keywords ...string) bool {
	if n == nil {
		return false
	}
	for _, k := range keywords {
		if !strings.Contains(n.Name(), k) {
			return false
		}
	}
	return true
}

// IsMultiply reports whether n is a multiply color mix.
func IsMultiply(n Node) bool {
	return n != nil && n.Kind() == MixRGB && n.Property(PropBlendType) == "MULTIPLY"
}
